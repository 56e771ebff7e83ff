package cmd

import (
	"github.com/spf13/cobra"
)

func newFrontCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "front <input-dir> <output.pdf>",
		Short: "Build the front sheet from a directory of card images",
		Long: `Every image in the directory is fitted to the card size, wrapped in a grey
border and placed nine per page in natural filename order. Crop lines are
drawn across the whole page along each card edge.`,
		Example: `  cardsheet front ./Cards ./pdf/front.pdf
  cardsheet front ./Cards/long ./pdf/front-long.pdf -c cover.yaml`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := flags.profile()
			if err != nil {
				return err
			}
			cfg, err := profile.FrontConfig()
			if err != nil {
				return err
			}
			b, err := flags.builder(cmd, flags.debugPath)
			if err != nil {
				return err
			}
			return b.Front(args[0], args[1], cfg)
		},
	}
}

func newBackCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "back <image|dir> <output.pdf>",
		Short: "Build the mirrored back sheet",
		Long: `A single image is repeated nine times on one page. A directory produces one
back per card in natural filename order. Columns are mirrored so each back
lands behind its front when printed duplex.`,
		Example: `  cardsheet back ./Cards/back.png ./pdf/back.pdf
  cardsheet back ./Backs ./pdf/backs.pdf`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := flags.profile()
			if err != nil {
				return err
			}
			cfg, err := profile.BackConfig()
			if err != nil {
				return err
			}
			b, err := flags.builder(cmd, flags.debugPath)
			if err != nil {
				return err
			}
			return b.Back(args[0], args[1], cfg)
		},
	}
}
