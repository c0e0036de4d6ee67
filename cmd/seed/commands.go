package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"storyfusion/internal/app"
	"storyfusion/internal/config"
	"storyfusion/internal/platform/logger"
	"storyfusion/internal/scoring"
	"storyfusion/internal/service"
)

// env opens the app lazily so --help never touches the store
type env struct {
	configPath *string
}

func (e *env) open(ctx context.Context) (*app.App, error) {
	path := *e.configPath
	if path == "" {
		path = config.Path()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, err
	}
	return app.New(ctx, cfg, log)
}

func (e *env) run(cmd *cobra.Command, fn func(ctx context.Context, a *app.App, svc *app.Services) error) error {
	ctx := cmd.Context()
	a, err := e.open(ctx)
	if err != nil {
		return err
	}
	defer a.Close(context.Background())
	return fn(ctx, a, a.Services(nil))
}

func newInitCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create every table or collection and index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return e.run(cmd, func(ctx context.Context, _ *app.App, svc *app.Services) error {
				if err := svc.Admin.InitSchema(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "schema ready")
				return nil
			})
		},
	}
}

func newImportNounsCmd(e *env) *cobra.Command {
	var fiction bool
	cmd := &cobra.Command{
		Use:   "import-nouns <file>",
		Short: "Load a noun export into the work (default) or fiction cache",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			return e.run(cmd, func(ctx context.Context, _ *app.App, svc *app.Services) error {
				nouns := svc.WorkNouns
				if fiction {
					nouns = svc.FictionNouns
				}
				rep, err := nouns.Import(ctx, f)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s nouns: imported %d, skipped %d\n", nouns.Subject(), rep.Imported, rep.Skipped)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&fiction, "fiction", false, "import fiction rows instead of work rows")
	return cmd
}

func newImportPredictionsCmd(e *env) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "import-predictions <file>",
		Short: "Upload a prediction CSV and print its score",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			return e.run(cmd, func(ctx context.Context, _ *app.App, svc *app.Services) error {
				res, err := svc.Predictions.Import(ctx, service.UploadName(name, filepath.Base(args[0])), f)
				if err != nil {
					return err
				}
				sum, err := svc.Predictions.Summary(ctx, res.UploadID)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "upload %d %q: imported %d, skipped %d, %d/%d correct (%s)\n",
					res.UploadID, res.Name, res.Imported, res.Skipped,
					sum.CorrectCount, sum.PredictionCount, scoring.FormatPercent(sum.CorrectCount, sum.PredictionCount))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "upload name (default: file name)")
	return cmd
}

func newScoreCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "score <upload-id>",
		Short: "Print the accuracy of one upload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("upload id %q is not a number", args[0])
			}
			return e.run(cmd, func(ctx context.Context, _ *app.App, svc *app.Services) error {
				sum, err := svc.Predictions.Summary(ctx, id)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d/%d correct (%s), rank %d\n",
					sum.Name, sum.CorrectCount, sum.PredictionCount, scoring.FormatPercent(sum.CorrectCount, sum.PredictionCount), sum.Rank)
				return nil
			})
		},
	}
}
