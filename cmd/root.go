// Package cmd provides the root command and CLI setup for jetdeps.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"jetdeps.dev/pkg/jetdeps/internal/adapter"
	"jetdeps.dev/pkg/jetdeps/internal/domain"
	m "jetdeps.dev/pkg/jetdeps/internal/model"
)

var fsAdapter adapter.SourceFSAdapter
var grapher domain.Grapher

// logFileFlag overrides the configured log file.
var logFileFlag string

// verboseFlag switches logging to debug level.
var verboseFlag bool

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	grapher = domain.NewGrapher(fsAdapter)
}

const rootLongDescription = `jetdeps bundles two developer tools for Julia package repositories:

  jet    filter JET static analysis output, honouring NOJET directives
  deps   render the module dependency graph with redundant edges removed

Settings are read from jetdeps.yaml in the working directory and from
JETDEPS_* environment variables; flags take precedence.`

const jetLongDescription = `Read JET output from the given files (or standard input) and print only the
diagnostic groups that are not silenced by a directive comment on any of
their source locations.

With --locality, groups whose locations never mention the current project
directory are counted as non_local and hidden as well.

Directive lines in cached sources that no diagnostic pointed at are reported
as unused. The command exits with status 1 when errors or unused directives
remain.`

const depsLongDescription = `Scan module definition files, collect the relative module references
("using ..Other") of every module, drop each dependency that is already
implied by a longer chain, and print the result as a Graphviz digraph.`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "jetdeps",
		Short: "JET output filter and module graph generator",
		Long:  rootLongDescription,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(logFileFlag, verboseFlag)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func newRootCmd() *cobra.Command {
	cmd := baseRootCmd()
	configureRootFlags(cmd)

	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&logFileFlag, logFileFlagName, viper.GetString(logFilenameKey), "path of the rotating log file")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(logFileFlagName), logFilenameKey)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", false, "log at debug level")
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// silenceFindings keeps cobra from printing an error banner and usage for
// runs that merely reported findings; the printed report already says why.
func silenceFindings(cmd *cobra.Command, err error) error {
	if errors.Is(err, domain.ErrFindings) {
		cmd.SilenceErrors = true
		cmd.SilenceUsage = true
	}

	return err
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func parsePaths(args []string) []m.Path {
	paths := make([]m.Path, 0, len(args))
	for _, arg := range args {
		paths = append(paths, m.Path(arg))
	}

	return paths
}
