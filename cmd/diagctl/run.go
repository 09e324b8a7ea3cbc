package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"cineze/internal/adapter/repo"
	"cineze/internal/diagnostic"
	"cineze/internal/domain"
	"cineze/internal/infra"
	"cineze/internal/providers/textgen"
	"cineze/internal/storage"
)

type runParams struct {
	InputPath string
	OutDir    string
	OwnerID   string
	Generator textgen.Generator
	Roles     *diagnostic.Roles
	Logger    infra.Logger
}

type runResult struct {
	JobID string
	Path  string
}

// pipelineFromConfig builds the generator from environment keys only; the
// CLI run path never touches the database.
func pipelineFromConfig(ctx context.Context, cfg *infra.Config, logger infra.Logger) (textgen.Generator, *diagnostic.Roles, error) {
	gen, err := textgen.New(ctx, textgen.Options{
		Provider:      cfg.TextgenProvider,
		GeminiAPIKey:  cfg.GeminiAPIKey,
		GeminiBaseURL: cfg.GeminiBaseURL,
		OpenAIAPIKey:  cfg.OpenAIAPIKey,
		OpenAIBaseURL: cfg.OpenAIBaseURL,
		OpenAIModel:   cfg.SynthesizerModel,
		HTTPClient:    &http.Client{Timeout: 120 * time.Second},
		OnWarning: func(reason, detail string) {
			logger.Warn().Str("reason", reason).Str("detail", detail).Msg("textgen model normalized")
		},
	})
	if err != nil {
		return nil, nil, err
	}
	catalog, err := diagnostic.DefaultRoles()
	if err != nil {
		return nil, nil, err
	}
	roles, err := catalog.ForProvider(cfg.TextgenProvider, cfg.SpecialistModel, cfg.SynthesizerModel)
	if err != nil {
		return nil, nil, err
	}
	return gen, roles, nil
}

// runDiagnostic executes the pipeline against an in-memory job store and
// archives the diagnostic under OutDir.
func runDiagnostic(ctx context.Context, p runParams) (runResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	raw, err := os.ReadFile(p.InputPath)
	if err != nil {
		return runResult{}, fmt.Errorf("read questionnaire: %w", err)
	}
	var q domain.Questionnaire
	if err := json.Unmarshal(raw, &q); err != nil {
		return runResult{}, fmt.Errorf("decode questionnaire: %w", err)
	}
	q = q.Normalized()

	files, err := storage.NewFileStore(p.OutDir)
	if err != nil {
		return runResult{}, err
	}
	jobs := repo.NewMemoryJobStore()
	orch := diagnostic.NewOrchestrator(p.Generator, jobs, p.Roles, p.Logger, nil)

	jobID, err := orch.Generate(ctx, p.OwnerID, q)
	if err != nil {
		if jobID != "" {
			return runResult{JobID: jobID}, fmt.Errorf("job %s: %w", jobID, err)
		}
		return runResult{}, err
	}
	job, err := jobs.GetJob(ctx, jobID)
	if err != nil {
		return runResult{JobID: jobID}, err
	}
	key, err := files.SaveDiagnostic(ctx, p.OwnerID, jobID, job.Diagnostic)
	if err != nil {
		return runResult{JobID: jobID}, err
	}
	return runResult{JobID: jobID, Path: filepath.Join(files.BasePath(), filepath.FromSlash(key))}, nil
}
