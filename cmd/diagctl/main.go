// Command diagctl is the operator CLI: it runs the diagnostic pipeline
// locally and manages plans, tokens and provider keys.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"cineze/internal/adapter/repo"
	"cineze/internal/infra"
	"cineze/internal/infra/credentials"
	"cineze/internal/middleware"
)

func main() {
	_ = godotenv.Load()
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "diagctl",
		Short:         "Operate the business diagnostic service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(runCmd(), planCmd(), tokenCmd(), geminiKeyCmd())
	return cmd
}

func runCmd() *cobra.Command {
	var (
		input string
		out   string
		owner string
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Generate a diagnostic from a questionnaire JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := infra.LoadConfig()
			if err != nil {
				return err
			}
			logger := infra.NewLogger(cfg.AppEnv, cfg.LogLevel)
			gen, roles, err := pipelineFromConfig(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			res, err := runDiagnostic(cmd.Context(), runParams{
				InputPath: input,
				OutDir:    out,
				OwnerID:   owner,
				Generator: gen,
				Roles:     roles,
				Logger:    logger,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "job %s completed: %s\n", res.JobID, res.Path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "questionnaire JSON file")
	cmd.Flags().StringVarP(&out, "out", "o", "./reports", "directory for generated reports")
	cmd.Flags().StringVar(&owner, "owner", "cli", "owner id recorded on the job")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func planCmd() *cobra.Command {
	var user string
	cmd := &cobra.Command{
		Use:       "plan grant|revoke",
		Short:     "Activate or deactivate a user's plan",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"grant", "revoke"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRunner(cmd.Context(), func(ctx context.Context, runner infra.SQLExecutor) error {
				profiles := repo.NewProfileRepository(runner)
				if err := profiles.SetPlanActive(ctx, user, args[0] == "grant"); err != nil {
					return fmt.Errorf("update plan for %s: %w", user, err)
				}
				p, err := profiles.GetProfile(ctx, user)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s (%s): plan_active=%t\n", p.UserID, p.BusinessName, p.PlanActive)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "user id (UUID)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func tokenCmd() *cobra.Command {
	var (
		user string
		ttl  time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Sign a bearer token for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := infra.LoadConfig()
			if err != nil {
				return err
			}
			if err := cfg.RequireJWTSecret(); err != nil {
				return err
			}
			token, err := middleware.SignJWT(cfg.JWTSecret, user, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "user id placed in the sub claim")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime, 0 for no expiry")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func geminiKeyCmd() *cobra.Command {
	var key string
	cmd := &cobra.Command{
		Use:   "gemini-key",
		Short: "Store the Gemini API key used when GEMINI_API_KEY is unset",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRunner(cmd.Context(), func(ctx context.Context, runner infra.SQLExecutor) error {
				if err := credentials.NewStore(runner).SetToken(ctx, credentials.ProviderGemini, key); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "gemini api key stored")
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&key, "key", "", "Gemini API key")
	_ = cmd.MarkFlagRequired("key")
	return cmd
}

func withRunner(parent context.Context, fn func(ctx context.Context, runner infra.SQLExecutor) error) error {
	cfg, err := infra.LoadConfig()
	if err != nil {
		return err
	}
	if err := cfg.RequireDatabase(); err != nil {
		return err
	}
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithTimeout(parent, 15*time.Second)
	defer cancel()

	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	logger := infra.NewLogger(cfg.AppEnv, cfg.LogLevel).With().Str("cmd", "diagctl").Logger()
	return fn(ctx, infra.NewSQLRunner(pool, logger))
}
