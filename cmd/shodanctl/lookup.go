package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/EuricoCruz/shodan_enrichment/internal/domain/entity"
	"github.com/EuricoCruz/shodan_enrichment/internal/usecase/lookup_entities"
)

func newLookupCmd(root *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "lookup <ip|cidr>...",
		Short: "Look up one or more IP addresses or IPv4 networks",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entities := make([]entity.Entity, 0, len(args))
			for _, arg := range args {
				e, err := entity.ParseEntity(arg)
				if err != nil {
					return err
				}
				entities = append(entities, e)
			}

			cfg, log, err := root.loadConfig()
			if err != nil {
				return err
			}
			service, err := startService(cfg, log)
			if err != nil {
				return err
			}
			defer service.Close()

			results, err := service.Lookup(cmd.Context(), entities, lookup_entities.Options{APIKey: root.apiKey})
			if err != nil {
				return err
			}

			if asJSON {
				out, err := json.MarshalIndent(results, "", "  ")
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
				return err
			}
			printResults(cmd.OutOrStdout(), entities, results)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw results as JSON")
	return cmd
}

func printResults(w io.Writer, requested []entity.Entity, results []entity.LookupResult) {
	title := color.New(color.FgCyan, color.Bold)
	muted := color.New(color.FgHiBlack)
	warn := color.New(color.FgYellow)

	if skipped := len(requested) - len(results); skipped > 0 {
		muted.Fprintf(w, "%d private or reserved address(es) skipped\n", skipped)
	}

	for _, result := range results {
		title.Fprintf(w, "%s (%s)\n", result.Entity.Value, result.Entity.Type)
		switch {
		case result.Data == nil:
			muted.Fprintln(w, "  no Shodan data")
		case result.IsLimitReached():
			warn.Fprintln(w, "  search limit reached, retry later")
		default:
			for _, tag := range result.Data.Summary {
				fmt.Fprintf(w, "  - %s\n", tag)
			}
		}
	}
}
