package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"cineze/internal/diagnostic"
	"cineze/internal/domain"
	"cineze/internal/infra"
	"cineze/internal/middleware"
	"cineze/internal/providers/textgen"
	"cineze/internal/storage"
)

func writeQuestionnaire(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "q.json")
	body := `{"nome_negocio":"Padaria","nome_responsavel":"Ana","segmento":"Alimentação","objetivos":["vender mais"]}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write questionnaire: %v", err)
	}
	return path
}

func synthOnly(t *testing.T, roles *diagnostic.Roles, ok bool) textgen.Generator {
	t.Helper()
	fixture, err := os.ReadFile(filepath.Join("..", "..", "internal", "diagnostic", "testdata", "synthesizer.json"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	return textgen.GeneratorFunc(func(ctx context.Context, req textgen.Request) (string, error) {
		if ok && req.SystemInstruction == roles.Synthesizer.Instruction {
			return string(fixture), nil
		}
		return "", errors.New("offline")
	})
}

func TestRunDiagnosticArchivesReport(t *testing.T) {
	roles, err := diagnostic.DefaultRoles()
	if err != nil {
		t.Fatalf("DefaultRoles: %v", err)
	}
	out := t.TempDir()
	res, err := runDiagnostic(context.Background(), runParams{
		InputPath: writeQuestionnaire(t),
		OutDir:    out,
		OwnerID:   "cli",
		Generator: synthOnly(t, roles, true),
		Roles:     roles,
		Logger:    zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("runDiagnostic: %v", err)
	}
	fs, _ := storage.NewFileStore(out)
	d, err := fs.LoadDiagnostic(context.Background(), "cli", res.JobID)
	if err != nil {
		t.Fatalf("LoadDiagnostic: %v", err)
	}
	if len(d.SmartObjectives) != domain.SmartObjectiveCount {
		t.Fatalf("objetivos_smart = %d", len(d.SmartObjectives))
	}
	if !strings.HasPrefix(res.Path, out) {
		t.Fatalf("path %q outside %q", res.Path, out)
	}
}

func TestRunDiagnosticSynthesisFailure(t *testing.T) {
	roles, _ := diagnostic.DefaultRoles()
	out := t.TempDir()
	res, err := runDiagnostic(context.Background(), runParams{
		InputPath: writeQuestionnaire(t),
		OutDir:    out,
		OwnerID:   "cli",
		Generator: synthOnly(t, roles, false),
		Roles:     roles,
		Logger:    zerolog.Nop(),
	})
	if !errors.Is(err, diagnostic.ErrSynthesisFailed) {
		t.Fatalf("runDiagnostic err = %v", err)
	}
	if res.JobID == "" || res.Path != "" {
		t.Fatalf("result = %+v", res)
	}
	if entries, _ := os.ReadDir(out); len(entries) != 0 {
		t.Fatalf("report written on failure: %v", entries)
	}
}

func TestRunDiagnosticBadInput(t *testing.T) {
	roles, _ := diagnostic.DefaultRoles()
	path := filepath.Join(t.TempDir(), "q.json")
	_ = os.WriteFile(path, []byte(`{"nome_negocio":"Padaria"}`), 0o644)
	_, err := runDiagnostic(context.Background(), runParams{
		InputPath: path,
		OutDir:    t.TempDir(),
		Generator: synthOnly(t, roles, true),
		Roles:     roles,
		Logger:    zerolog.Nop(),
	})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("runDiagnostic err = %v, want ErrInvalidInput", err)
	}
}

func TestTokenCommand(t *testing.T) {
	t.Setenv("JWT_SECRET", "cli-secret")
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"token", "--user", "user-7", "--ttl", "1h"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("token: %v", err)
	}
	claims, err := middleware.VerifyJWT("cli-secret", strings.TrimSpace(out.String()))
	if err != nil || claims.Subject != "user-7" {
		t.Fatalf("VerifyJWT = %+v, %v", claims, err)
	}
}

func TestPlanCommandRejectsUnknownAction(t *testing.T) {
	cmd := rootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"plan", "upgrade", "--user", "u"})
	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected error for unknown plan action")
	}
}

func TestPipelineFromConfigKeepsOpenAITiersApart(t *testing.T) {
	var models []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Model string `json:"model"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		models = append(models, body.Model)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"c1","object":"chat.completion","created":1,"model":"x","choices":[{"index":0,"message":{"role":"assistant","content":"{}"},"finish_reason":"stop"}],"usage":{"prompt_tokens":1,"completion_tokens":1,"total_tokens":2}}`)
	}))
	defer srv.Close()

	var warnings int
	logger := zerolog.New(io.Discard).Hook(zerolog.HookFunc(func(e *zerolog.Event, level zerolog.Level, msg string) {
		if level == zerolog.WarnLevel {
			warnings++
		}
	}))
	cfg := &infra.Config{TextgenProvider: "openai", OpenAIAPIKey: "k", OpenAIBaseURL: srv.URL}
	gen, roles, err := pipelineFromConfig(context.Background(), cfg, logger)
	if err != nil {
		t.Fatalf("pipelineFromConfig: %v", err)
	}
	for _, role := range []diagnostic.Role{roles.Specialists[0], roles.Synthesizer} {
		if _, err := gen.Generate(context.Background(), textgen.Request{Model: role.Model, UserMessage: "x"}); err != nil {
			t.Fatalf("Generate(%s): %v", role.ID, err)
		}
	}
	if len(models) != 2 || models[0] != "gpt-4o-mini" || models[1] != "gpt-4o" {
		t.Fatalf("models sent = %v, want [gpt-4o-mini gpt-4o]", models)
	}
	if warnings != 0 {
		t.Fatalf("model normalization warned %d times", warnings)
	}
}

func TestPipelineFromConfigRejectsForeignModel(t *testing.T) {
	cfg := &infra.Config{TextgenProvider: "openai", OpenAIAPIKey: "k", SynthesizerModel: "gemini-2.5-pro"}
	if _, _, err := pipelineFromConfig(context.Background(), cfg, zerolog.Nop()); err == nil {
		t.Fatalf("pipelineFromConfig accepted a gemini model on openai")
	}
}
