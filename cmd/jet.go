package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"jetdeps.dev/pkg/jetdeps/internal/controller"
	"jetdeps.dev/pkg/jetdeps/internal/domain"
	m "jetdeps.dev/pkg/jetdeps/internal/model"
)

var localityFlag bool
var markerFlag string
var vendorMarkerFlag string
var preloadFlag []string

// jetCmd represents the jet command.
var jetCmd = newJetCmd()

func newJetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jet [files...]",
		Short: "Filter JET static analysis output",
		Long:  jetLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := domain.NewFilter(fsAdapter, controller.NewCommandUI(cmd))

			_, err := filter.Run(cmd.Context(), buildFilterArgs(args, cmd))

			return silenceFindings(cmd, err)
		},
	}

	configureJetFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(jetCmd)
}

func configureJetFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&localityFlag, localityFlagName, "l", viper.GetBool(jetLocalityKey), "also hide diagnostics that never touch the current project")
	bindFlagToConfig(cmd.Flags().Lookup(localityFlagName), jetLocalityKey)

	cmd.Flags().StringVar(&markerFlag, markerFlagName, viper.GetString(jetMarkerKey), "directive token that silences a diagnostic on its line")
	bindFlagToConfig(cmd.Flags().Lookup(markerFlagName), jetMarkerKey)

	cmd.Flags().StringVar(&vendorMarkerFlag, vendorMarkerFlagName, viper.GetString(jetVendorMarkerKey), "substring a directive line must contain to be reported as unused")
	bindFlagToConfig(cmd.Flags().Lookup(vendorMarkerFlagName), jetVendorMarkerKey)

	cmd.Flags().StringArrayVar(&preloadFlag, preloadFlagName, viper.GetStringSlice(jetPreloadKey), "glob of project sources to scan for unused directives (can be repeated)")
	bindFlagToConfig(cmd.Flags().Lookup(preloadFlagName), jetPreloadKey)
}

func buildFilterArgs(args []string, cmd *cobra.Command) domain.FilterArgs {
	variant := m.SingleSignal
	if viper.GetBool(jetLocalityKey) {
		variant = m.TwoSignal
	}

	return domain.FilterArgs{
		Inputs:       parsePaths(args),
		Stdin:        cmd.InOrStdin(),
		Preload:      viper.GetStringSlice(jetPreloadKey),
		Marker:       viper.GetString(jetMarkerKey),
		VendorMarker: viper.GetString(jetVendorMarkerKey),
		InfoPrefix:   viper.GetString(jetInfoPrefixKey),
		Noise:        viper.GetStringSlice(jetNoiseKey),
		Variant:      variant,
	}
}
