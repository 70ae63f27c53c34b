package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/w3c-validators/w3c-validators/internal/app"
	"github.com/w3c-validators/w3c-validators/internal/input"
)

var setCmd = &cobra.Command{
	Use:   "set",
	Short: "Change settings",
}

var setMarkupURICmd = &cobra.Command{
	Use:   "markup-uri <uri>",
	Short: "Use another Nu Html Checker instance",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setEndpoint(cmd, input.KindMarkup, args[0])
	},
}

var setCSSURICmd = &cobra.Command{
	Use:   "css-uri <uri>",
	Short: "Use another CSS validator instance",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setEndpoint(cmd, input.KindCSS, args[0])
	},
}

func setEndpoint(cmd *cobra.Command, kind input.Kind, uri string) error {
	if err := app.RunSetEndpoint(cmd.Context(), "", kind, uri); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s validator uri set to %s\n", kind, uri)
	return nil
}

func init() {
	setCmd.AddCommand(setMarkupURICmd)
	setCmd.AddCommand(setCSSURICmd)
}
