package cmd

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ByLCY/cardsheet/binding"
	"github.com/ByLCY/cardsheet/job"
	"github.com/ByLCY/cardsheet/layout"
)

func newRunCmd(flags *globalFlags) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "run <job-file>",
		Short: "Run every front/back task declared in a job file",
		Long: `A job file lists sheets to build in order, with optional per-task overrides:

  job Print v1 {
    vars { cards: "./Cards" }
    front "${cards}" to "./pdf/front.pdf"
    back "${cards}/back.png" to "./pdf/back.pdf"
    front "${cards}/long" to "./pdf/front-long.pdf" { fit: cover }
  }

${name} expands a variable and ${env.NAME} an environment variable.
Relative paths are resolved against the job file's directory.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := flags.profile()
			if err != nil {
				return err
			}
			plan, err := job.Load(args[0], binding.EnvScope(os.Environ()))
			if err != nil {
				return err
			}
			if dryRun {
				for i, t := range plan.Tasks {
					cmd.Printf("%d. %s %s -> %s\n", i+1, t.Kind, t.Input, t.Output)
				}
				return nil
			}
			return plan.Run(&taskRunner{cmd: cmd, flags: flags}, profile, slog.Default())
		},
	}
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "print the expanded tasks without building anything")
	return cmd
}

// taskRunner 为每个任务单独创建流水线，使调试 JSON 按输出文件名分开写。
type taskRunner struct {
	cmd   *cobra.Command
	flags *globalFlags
}

func (r *taskRunner) debugPath(output string) string {
	if r.flags.debugPath == "" {
		return ""
	}
	name := strings.TrimSuffix(filepath.Base(output), filepath.Ext(output))
	return filepath.Join(r.flags.debugPath, name+".json")
}

func (r *taskRunner) Front(input, output string, cfg layout.Config) error {
	b, err := r.flags.builder(r.cmd, r.debugPath(output))
	if err != nil {
		return err
	}
	return b.Front(input, output, cfg)
}

func (r *taskRunner) Back(input, output string, cfg layout.Config) error {
	b, err := r.flags.builder(r.cmd, r.debugPath(output))
	if err != nil {
		return err
	}
	return b.Back(input, output, cfg)
}
