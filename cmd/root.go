package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/w3c-validators/w3c-validators/internal/app"
	"github.com/w3c-validators/w3c-validators/internal/input"
)

var (
	verbose     bool
	logFile     string
	cfgPath     string
	outDir      string
	jsonOut     bool
	showVersion bool
)

var rootCmd = &cobra.Command{
	Use:   "w3c-validators [file_or_dir ...]",
	Short: "Validate HTML and CSS with the W3C validators",
	Long: "Validate local HTML and CSS files with the W3C markup and CSS validators.\n" +
		"Files are sent to the validator matching their extension; directories are walked.",
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			printVersion(cmd.OutOrStdout())
			return nil
		}
		if len(args) == 0 {
			return cmd.Help()
		}
		return app.RunCheck(cmd.Context(), checkOptions(cmd, "", nil, args))
	},
}

func checkOptions(cmd *cobra.Command, kind input.Kind, uris, args []string) app.CheckOptions {
	return app.CheckOptions{
		Verbose:    verbose,
		LogFile:    logFile,
		ConfigPath: cfgPath,
		OutputDir:  outDir,
		JSON:       jsonOut,
		Kind:       kind,
		URIs:       uris,
		Inputs:     args,
		Stdout:     cmd.OutOrStdout(),
		Stderr:     cmd.ErrOrStderr(),
	}
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
	rootCmd.CompletionOptions.HiddenDefaultCmd = true

	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "print NDJSON events instead of tables")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "also append output to this file")
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default ~/.w3c-validators/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outDir, "out", "o", "", "write one JSON report per target into this directory")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "print reports as JSON")
	rootCmd.PersistentFlags().BoolVarP(&showVersion, "version", "v", false, "show version")

	rootCmd.AddCommand(markupCmd)
	rootCmd.AddCommand(cssCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(setCmd)
}
