package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"irbuild/internal/config"
	"irbuild/internal/driver"
	"irbuild/internal/observ"
	"irbuild/internal/report"
	"irbuild/internal/source"
	"irbuild/internal/trace"
	"irbuild/internal/version"
)

var emitCmd = &cobra.Command{
	Use:   "emit PLAN.toml...",
	Short: "Emit LLVM IR for emission plans",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runEmit,
}

func init() {
	emitCmd.Flags().StringP("out", "o", "", "write <plan>.ll files into this directory instead of stdout")
	emitCmd.Flags().String("report", "", "write msgpack statistics to this file")
	emitCmd.Flags().String("config", "", "use this irbuild.toml instead of searching for one")
	emitCmd.Flags().Bool("no-comments", false, "disable debug comments regardless of config")
	emitCmd.Flags().Int("jobs", 0, "plans emitted in parallel (0 = GOMAXPROCS)")
}

var errPlansFailed = errors.New("emission failed")

func runEmit(cmd *cobra.Command, args []string) error {
	tracer, cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	outDir, err := cmd.Flags().GetString("out")
	if err != nil {
		return err
	}
	reportPath, err := cmd.Flags().GetString("report")
	if err != nil {
		return err
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return err
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return err
	}

	timer := observ.NewTimer()
	files := source.NewFileSet()
	results, err := driver.EmitPlans(cmd.Context(), files, args, driver.EmitOptions{
		Config: cfg,
		Jobs:   jobs,
		Timer:  timer,
	})
	if err != nil {
		return err
	}

	stderr := cmd.ErrOrStderr()
	rep := report.New("irbuild " + version.Version)
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(stderr, "%s %v\n", color.RedString("error:"), r.Err)
			continue
		}
		rep.Add(r.Result)
		if err := writeIR(cmd.OutOrStdout(), outDir, r.Result.Name, r.Result.IR, len(results) > 1); err != nil {
			return err
		}
	}

	if showTimings {
		fmt.Fprint(stderr, timer.Summary())
	}
	if reportPath != "" {
		tr := timer.Report()
		rep.Timings = &tr
		if err := report.Write(reportPath, rep); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}

	if failed > 0 {
		if ring := ringOf(tracer); ring != nil {
			fmt.Fprintln(stderr, color.YellowString("trace dump:"))
			if err := ring.Dump(stderr, trace.FormatText); err != nil {
				fmt.Fprintf(stderr, "trace: dump error: %v\n", err)
			}
		}
		return fmt.Errorf("%d of %d plans: %w", failed, len(results), errPlansFailed)
	}
	return nil
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return config.Config{}, err
	}
	var cfg config.Config
	if path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.Discover(".")
	}
	if err != nil {
		return config.Config{}, err
	}
	noComments, err := cmd.Flags().GetBool("no-comments")
	if err != nil {
		return config.Config{}, err
	}
	if noComments {
		cfg.Builder.Comments = false
	}
	return cfg, nil
}

func writeIR(stdout io.Writer, outDir, name, ir string, banner bool) error {
	if outDir == "" {
		if banner {
			fmt.Fprintf(stdout, "; plan: %s\n", name)
		}
		_, err := io.WriteString(stdout, ir)
		return err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(outDir, name+".ll")
	if err := os.WriteFile(path, []byte(ir), 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
