package cmd

import (
	"github.com/spf13/cobra"

	"github.com/w3c-validators/w3c-validators/internal/app"
	"github.com/w3c-validators/w3c-validators/internal/input"
)

var (
	markupURIs []string
	cssURIs    []string
)

var markupCmd = &cobra.Command{
	Use:   "markup [--uri URL ...] [file_or_dir ...]",
	Short: "Validate HTML documents with the Nu Html Checker",
	Args:  cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(markupURIs) == 0 && len(args) == 0 {
			return cmd.Help()
		}
		return app.RunCheck(cmd.Context(), checkOptions(cmd, input.KindMarkup, markupURIs, args))
	},
}

var cssCmd = &cobra.Command{
	Use:   "css [--uri URL ...] [file_or_dir ...]",
	Short: "Validate style sheets with the W3C CSS validator",
	Args:  cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(cssURIs) == 0 && len(args) == 0 {
			return cmd.Help()
		}
		return app.RunCheck(cmd.Context(), checkOptions(cmd, input.KindCSS, cssURIs, args))
	},
}

func init() {
	markupCmd.Flags().StringArrayVar(&markupURIs, "uri", nil, "document URL for the checker to fetch (repeatable)")
	cssCmd.Flags().StringArrayVar(&cssURIs, "uri", nil, "style sheet URL for the validator to fetch (repeatable)")
}
