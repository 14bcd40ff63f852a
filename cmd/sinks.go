package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kilianp07/gridstudy/app/plugins"
	coremetrics "github.com/kilianp07/gridstudy/core/metrics"
	"github.com/kilianp07/gridstudy/core/results"
)

var sinksCmd = &cobra.Command{
	Use:   "sinks",
	Short: "List the available solver, sink and metrics types",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintf(out, "solvers:  %s\n", strings.Join(plugins.SolverTypes(), ", "))
		_, _ = fmt.Fprintf(out, "sinks:    %s\n", strings.Join(results.SinkTypes(), ", "))
		_, _ = fmt.Fprintf(out, "metrics:  %s\n", strings.Join(coremetrics.RecorderTypes(), ", "))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sinksCmd)
}
