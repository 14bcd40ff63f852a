package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kilianp07/gridstudy/core/network"
	"github.com/kilianp07/gridstudy/core/profile"
	"github.com/kilianp07/gridstudy/infra/xlsx"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Inspect input workbooks",
}

var inspectNetworkCmd = &cobra.Command{
	Use:   "network <workbook>",
	Short: "List the equipment classes of a network workbook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		net, err := xlsx.LoadNetwork(args[0])
		if err != nil {
			return err
		}
		return printNetwork(cmd.OutOrStdout(), net)
	},
}

var inspectProfilesCmd = &cobra.Command{
	Use:   "profiles <workbook>",
	Short: "List the aligned profiles of a profile workbook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sets, err := xlsx.LoadProfiles(args[0])
		if err != nil {
			return err
		}
		return printProfiles(cmd.OutOrStdout(), sets)
	},
}

func init() {
	inspectCmd.AddCommand(inspectNetworkCmd, inspectProfilesCmd)
	rootCmd.AddCommand(inspectCmd)
}

func printNetwork(w io.Writer, net *network.Network) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintf(tw, "CLASS\tRECORDS\tCOLUMNS\n")
	for _, class := range net.Classes() {
		t, _ := net.Table(class)
		_, _ = fmt.Fprintf(tw, "%s\t%d\t%s\n", class, t.Len(), strings.Join(t.Columns, ","))
	}
	return tw.Flush()
}

func printProfiles(w io.Writer, sets map[string]profile.Set) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintf(tw, "SHEET\tVARIABLE\tSTEPS\tFROM\tTO\tPROFILES\n")
	sheets := make([]string, 0, len(sets))
	for s := range sets {
		sheets = append(sheets, s)
	}
	sort.Strings(sheets)
	for _, s := range sheets {
		variables := make([]string, 0, len(sets[s]))
		for v := range sets[s] {
			variables = append(variables, v)
		}
		sort.Strings(variables)
		for _, v := range variables {
			f := sets[s][v]
			if f.Len() == 0 {
				continue
			}
			_, _ = fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\n", s, v, f.Len(), f.Index[0], f.Index[f.Len()-1], strings.Join(f.Columns, ","))
		}
	}
	return tw.Flush()
}
