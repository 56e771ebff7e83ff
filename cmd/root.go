package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ByLCY/cardsheet/config"
	canvasrenderer "github.com/ByLCY/cardsheet/renderer/canvas"
	"github.com/ByLCY/cardsheet/sheet"
)

// Version is reported by --version and written into the PDF creator field.
var Version = "0.1.0"

// globalFlags 是所有子命令共享的选项。
type globalFlags struct {
	configPath string
	envFiles   []string
	debugPath  string
	verbose    bool
	quiet      bool
}

func NewRootCmd() *cobra.Command {
	flags := &globalFlags{}
	cmd := &cobra.Command{
		Use:   "cardsheet",
		Short: "Lay out trading card images on printable 3×3 PDF sheets",
		Long: `Cardsheet arranges card images on A4 pages in a 3×3 grid.

Front sheets get a grey border and full-page crop lines; back sheets are
mirrored column-wise so they line up with the fronts when printed duplex.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// .env files are optional unless named explicitly
			if len(flags.envFiles) == 0 {
				_ = godotenv.Load()
			} else if err := godotenv.Load(flags.envFiles...); err != nil {
				return fmt.Errorf("加载环境变量文件失败: %w", err)
			}
			slog.SetDefault(newLogger(cmd.ErrOrStderr(), flags))
			return nil
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "YAML profile overriding the built-in sheet settings")
	pf.StringSliceVar(&flags.envFiles, "env-file", nil, "dotenv files to load before running (default .env if present)")
	pf.StringVar(&flags.debugPath, "debug", "", "write the layout as JSON (a file for front/back, a directory for run)")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")
	pf.BoolVarP(&flags.quiet, "quiet", "q", false, "only log warnings and hide progress bars")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.AddCommand(newFrontCmd(flags))
	cmd.AddCommand(newBackCmd(flags))
	cmd.AddCommand(newRunCmd(flags))

	return cmd
}

func newLogger(w io.Writer, flags *globalFlags) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case flags.verbose:
		level = slog.LevelDebug
	case flags.quiet:
		level = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func (f *globalFlags) profile() (*config.File, error) {
	return config.Load(f.configPath)
}

// builder 创建写出单个 PDF 的流水线。
func (f *globalFlags) builder(cmd *cobra.Command, debugPath string) (*sheet.Builder, error) {
	creator := "cardsheet " + Version
	opts := sheet.Options{
		Renderer:  canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{Creator: creator}),
		Logger:    slog.Default(),
		DebugPath: debugPath,
		Creator:   creator,
	}
	if !f.quiet {
		opts.Progress = cmd.ErrOrStderr()
	}
	return sheet.New(opts)
}
