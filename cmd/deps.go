package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"jetdeps.dev/pkg/jetdeps/internal/controller"
	"jetdeps.dev/pkg/jetdeps/internal/domain"
	m "jetdeps.dev/pkg/jetdeps/internal/model"
)

var formatFlag string
var outputFlag string
var checkFlag string
var rootModuleFlag string
var sourceFlag []string
var parallelFlag int

// depsCmd represents the deps command.
var depsCmd = newDepsCmd()

func newDepsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deps",
		Short: "Render the reduced module dependency graph",
		Long:  depsLongDescription,
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return silenceFindings(cmd, runDeps(cmd))
		},
	}

	configureDepsFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(depsCmd)
}

func configureDepsFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&formatFlag, formatFlagName, "f", viper.GetString(depsFormatKey), "output format: dot, table or yaml")
	bindFlagToConfig(cmd.Flags().Lookup(formatFlagName), depsFormatKey)

	cmd.Flags().StringVar(&rootModuleFlag, rootFlagName, viper.GetString(depsRootKey), "module rendered without a node line of its own")
	bindFlagToConfig(cmd.Flags().Lookup(rootFlagName), depsRootKey)

	cmd.Flags().StringArrayVarP(&sourceFlag, sourceFlagName, "s", viper.GetStringSlice(depsSourcesKey), "glob of module definition files (can be repeated)")
	bindFlagToConfig(cmd.Flags().Lookup(sourceFlagName), depsSourcesKey)

	cmd.Flags().IntVarP(&parallelFlag, parallelFlagName, "p", viper.GetInt(depsParallelKey), "number of module files read concurrently")
	bindFlagToConfig(cmd.Flags().Lookup(parallelFlagName), depsParallelKey)

	cmd.Flags().StringVarP(&outputFlag, outputFlagName, "o", "", "write the graph to this file instead of stdout")
	cmd.Flags().StringVar(&checkFlag, checkFlagName, "", "compare the graph with this file and fail with a diff when it is stale")
}

func runDeps(cmd *cobra.Command) error {
	result, err := grapher.Build(cmd.Context(), domain.GraphArgs{
		Sources:  viper.GetStringSlice(depsSourcesKey),
		Parallel: viper.GetInt(depsParallelKey),
	})
	if err != nil {
		return err
	}

	generator, err := controller.NewGenerator(
		viper.GetString(depsFormatKey),
		result.Registry,
		result.Dropped,
		controller.GraphOptions{
			Root:      viper.GetString(depsRootKey),
			URLPrefix: viper.GetString(depsURLPrefixKey),
			URLSuffix: viper.GetString(depsURLSuffixKey),
		},
	)
	if err != nil {
		return err
	}

	rendered, err := generator.Generate()
	if err != nil {
		return fmt.Errorf("render graph: %w", err)
	}

	check, _ := cmd.Flags().GetString(checkFlagName)
	if check != "" {
		return checkGraph(cmd, m.Path(check), rendered)
	}

	output, _ := cmd.Flags().GetString(outputFlagName)
	if output != "" {
		if err := fsAdapter.WriteFile(m.Path(output), []byte(rendered), 0o644); err != nil {
			return fmt.Errorf("write graph: %w", err)
		}

		return nil
	}

	_, err = fmt.Fprint(cmd.OutOrStdout(), rendered)

	return err
}

func checkGraph(cmd *cobra.Command, path m.Path, rendered string) error {
	existing, err := fsAdapter.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	diff, err := controller.Diff(string(existing), rendered, string(path), "generated")
	if err != nil {
		return fmt.Errorf("diff %s: %w", path, err)
	}

	if diff == "" {
		return nil
	}

	if _, err := fmt.Fprint(cmd.OutOrStdout(), diff); err != nil {
		return err
	}

	return fmt.Errorf("%s is out of date: %w", path, domain.ErrFindings)
}
