package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"irbuild/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report FILE",
	Short: "Print a statistics file written by emit --report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rep, err := report.Read(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s %s, %s\n", color.CyanString("report"), rep.Tool, rep.Created.Format("2006-01-02 15:04:05 MST"))
		if err := report.WriteTable(out, rep); err != nil {
			return err
		}
		showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
		if err != nil {
			return err
		}
		if showTimings && rep.Timings != nil {
			for _, p := range rep.Timings.Phases {
				fmt.Fprintf(out, "  %-28s %8.2f ms\n", p.Name, p.DurationMS)
			}
			fmt.Fprintf(out, "  %-28s %8.2f ms\n", "total", rep.Timings.TotalMS)
		}
		return nil
	},
}
