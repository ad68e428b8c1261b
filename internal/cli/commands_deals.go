package cli

import (
	"github.com/spf13/cobra"

	"github.com/khanape/khana-cli/internal/catalog"
	"github.com/khanape/khana-cli/internal/service/output"
)

func newDealsCommand(deps Dependencies) *cobra.Command {
	deals := &cobra.Command{
		Use:   "deals",
		Short: "See current offers and coupon codes.",
	}
	deals.AddCommand(newDealsListCommand(deps))
	return deals
}

func newDealsListCommand(deps Dependencies) *cobra.Command {
	var flags globalFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List active deals.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := parseOutputFormat(flags.Format)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(cmd.Context(), deps)
			if err != nil {
				return err
			}

			all := catalog.Deals()
			if format == output.FormatTable {
				rows := make([][]string, 0, len(all))
				for _, deal := range all {
					rows = append(rows, []string{deal.Code, deal.Title, deal.Subtitle, deal.Discount})
				}
				return writeTable(cmd, output.RenderTable("Deals", []string{"CODE", "TITLE", "CONDITION", "DISCOUNT"}, rows), flags.Output)
			}
			env := output.BuildEnvelope(userLabel(cfg), all, nil, nil)
			return writeMachinePayload(cmd, env, format, flags.Output)
		},
	}

	addGlobalFlags(cmd, &flags)
	return cmd
}
