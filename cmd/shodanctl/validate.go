package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/EuricoCruz/shodan_enrichment/internal/infrastructure/config"
	"github.com/EuricoCruz/shodan_enrichment/internal/integration"
)

func newValidateCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the integration options",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, _, err := root.loadConfig(); err != nil {
				return err
			}

			errs := integration.ValidateOptions(map[string]integration.UserOption{
				integration.APIKeyOption: {Value: root.apiKey},
			})
			if len(errs) == 0 {
				color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), "Options are valid")
				return nil
			}

			for _, e := range errs {
				color.New(color.FgRed).Fprintf(cmd.OutOrStdout(), "%s: %s\n", e.Key, e.Message)
			}
			return fmt.Errorf("%d invalid option(s)", len(errs))
		},
	}
}

func newDescriptorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "descriptor",
		Short: "Print the integration descriptor as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(integration.Descriptor(cfg.LogLevel), "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return err
		},
	}
}
