// Package main provides the negspace binary entry point.
// negspace names what a statement leaves out: the concepts its domain would
// normally expect that the text never mentions.
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/c360studio/negspace/config"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "negspace"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// flags holds the values of the global flags. Only flags the user set
// override the loaded configuration.
type flags struct {
	configPath    string
	registryPath  string
	logLevel      string
	format        string
	verbose       bool
	minConfidence float64
	metrics       bool
}

func rootCmd() *cobra.Command {
	f := &flags{}

	cmd := &cobra.Command{
		Use:   "negspace <statement | @file>",
		Short: "Name what a statement leaves out",
		Long: `negspace reads a statement and reports the concepts its domain would
normally expect but the text never mentions.

Each absence is classified as deliberate (the statement scopes it out) or
overlooked, and scored by how confident the expectation is.

The input is either the statement itself or @path to read it from a file.
HTML files are converted to Markdown and Markdown front matter is ignored.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, f)
			if err != nil {
				return err
			}
			defer a.finish()
			return a.runMap(args[0])
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&f.format, "format", "f", "text", "Output format (text, json)")
	pf.BoolVarP(&f.verbose, "verbose", "v", false, "Show type, context and confidence for each absence")
	pf.Float64VarP(&f.minConfidence, "min-confidence", "c", 0, "Hide absences below this confidence (0.0-1.0)")
	pf.StringVar(&f.configPath, "config", "", "Config file path (YAML)")
	pf.StringVar(&f.registryPath, "registry", "", "Domain registry file (YAML) replacing the built-in domains")
	pf.StringVar(&f.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	pf.BoolVar(&f.metrics, "metrics", false, "Print run metrics to stderr in Prometheus text format")

	cmd.AddCommand(batchCmd(f), watchCmd(f), domainsCmd(f), configCmd(f), versionCmd())

	return cmd
}

func batchCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "batch <pattern>...",
		Short: "Map every file matching the given glob patterns",
		Long: `Map every file matching the given patterns. Patterns support ** to
match any number of directories. Results are printed in path order.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, f)
			if err != nil {
				return err
			}
			defer a.finish()
			return a.runBatch(cmd.Context(), args)
		},
	}
}

func watchCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "watch <file>",
		Short: "Map a file and re-map it whenever its content changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, f)
			if err != nil {
				return err
			}
			defer a.finish()
			return a.runWatch(cmd.Context(), args[0])
		},
	}
}

func domainsCmd(f *flags) *cobra.Command {
	var exportPath string

	cmd := &cobra.Command{
		Use:   "domains [id]",
		Short: "List the registered domains and their expected concepts",
		Long: `List the registered domains, their triggers and expected concepts, or
only the domain with the given id.

With --export the active registry is written as YAML instead, ready to edit
and pass back with --registry. Use "-" to write to stdout.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, f)
			if err != nil {
				return err
			}
			if exportPath != "" {
				return a.exportRegistry(exportPath)
			}
			id := ""
			if len(args) == 1 {
				id = args[0]
			}
			return a.runDomains(id)
		},
	}

	cmd.Flags().StringVar(&exportPath, "export", "", "Write the active registry as YAML to this path")

	return cmd
}

func configCmd(f *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage negspace configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create the user config file with defaults if it does not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(cmd.ErrOrStderr(), f.logLevel)
			path, err := config.NewLoader(logger).EnsureUserConfig()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	})

	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	}
}
