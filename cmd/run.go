package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/gridstudy/app"
	"github.com/kilianp07/gridstudy/config"
	"github.com/kilianp07/gridstudy/infra/logger"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the study described by the configuration file",
	RunE:  run,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func run(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := logger.Setup(cfg.Logging.Options()); err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = logger.Close() }()

	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()

	sum, err := svc.Run(ctx)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "study %s: %d steps, %d result tables\n", sum.Study, len(sum.Run.Steps), len(sum.Tables))
	if sum.Run.Workbook != "" {
		_, _ = fmt.Fprintf(out, "workbook: %s\n", sum.Run.Workbook)
	}
	if d := sum.Run.Diverged(); len(d) > 0 {
		_, _ = fmt.Fprintf(out, "diverged steps: %v\n", d)
	}
	return nil
}
