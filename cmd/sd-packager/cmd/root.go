package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sdpulse/sd-packager/internal/config"
	"github.com/sdpulse/sd-packager/internal/logger"
	"github.com/sdpulse/sd-packager/internal/service/packager"
	"github.com/sdpulse/sd-packager/internal/version"
)

var (
	// configPath stores the path to the configuration YAML file.
	configPath string
	// outputDir stores the directory the archive is written to.
	outputDir string
	// outputName overrides the archive filename.
	outputName string
	// logLevel sets the logging verbosity.
	logLevel string

	// rootCmd represents the base command for packaging a plugin.
	rootCmd = &cobra.Command{
		Use:   "sd-packager [source-dir]",
		Short: "Package a Stream Deck plugin into a distributable archive.",
		Long: `Package a Stream Deck plugin source tree into a .streamDeckPlugin archive.

Copies the plugin files into a temporary staging directory, skipping development
artifacts (VCS metadata, bytecode caches, editor files, prior outputs), roots them
under the plugin's <uuid>.sdPlugin folder, compresses the result into a ZIP and
writes it to the invocation directory under the vendor extension.

The source directory can be given as an argument, configured in sd-packager.yaml,
or omitted entirely when the tool runs from inside a plugin tree (a directory
containing manifest.json). The produced file is a plain ZIP: renaming it back to
.zip makes it openable by any archive reader.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			if level, ok := logger.ParseLogLevel(logLevel); ok {
				logger.SetLevel(level)
			}

			// Use source directory argument if provided, otherwise rely on
			// config or the invocation directory.
			var sourceDir string
			if len(args) > 0 {
				sourceDir = args[0]
			}

			options := &packager.Options{
				ConfigPath: configPath,
				SourceDir:  sourceDir,
				OutputDir:  outputDir,
				OutputName: outputName,
			}

			return packager.Run(ctx, options)
		},
	}
)

// Execute runs the sd-packager CLI and exits with the pipeline's exit code on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(packager.ExitCode(err))
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "directory to write the archive to (default: invocation directory)")
	rootCmd.Flags().StringVar(&outputName, "name", "", "archive filename override (default: <uuid>.streamDeckPlugin)")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "info", "logging level (debug, info, warn, error, fatal)")
}
