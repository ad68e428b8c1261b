package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/khanape/khana-cli/internal/cart"
	"github.com/khanape/khana-cli/internal/catalog"
	"github.com/khanape/khana-cli/internal/service/output"
)

func newCartCommand(deps Dependencies) *cobra.Command {
	cartCmd := &cobra.Command{
		Use:   "cart",
		Short: "Inspect and update the cart.",
	}
	cartCmd.AddCommand(newCartShowCommand(deps))
	cartCmd.AddCommand(newCartAddCommand(deps))
	cartCmd.AddCommand(newCartUpdateCommand(deps))
	cartCmd.AddCommand(newCartRemoveCommand(deps))
	cartCmd.AddCommand(newCartClearCommand(deps))
	return cartCmd
}

func newCartShowCommand(deps Dependencies) *cobra.Command {
	var flags globalFlags
	var suggest bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show cart lines and the bill.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := parseOutputFormat(flags.Format)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(cmd.Context(), deps)
			if err != nil {
				return err
			}
			ledger, err := loadLedger(deps)
			if err != nil {
				return err
			}

			if format == output.FormatTable {
				text := buildCartTable(ledger)
				if suggest {
					if extra := buildSuggestionsTable(ledger.Lines()); extra != "" {
						text += "\n\n" + extra
					}
				}
				return writeTable(cmd, text, flags.Output)
			}
			data := map[string]any{
				"lines": ledger.Lines(),
				"bill":  ledger.Bill(),
			}
			if suggest {
				data["frequently_ordered"] = cart.SuggestFrequent(ledger.Lines())
			}
			env := output.BuildEnvelope(userLabel(cfg), data, nil, nil)
			return writeMachinePayload(cmd, env, format, flags.Output)
		},
	}

	cmd.Flags().BoolVar(&suggest, "suggest", false, "Include frequently ordered items not yet in the cart.")
	addGlobalFlags(cmd, &flags)
	return cmd
}

func newCartAddCommand(deps Dependencies) *cobra.Command {
	var flags globalFlags

	cmd := &cobra.Command{
		Use:   "add <item-id>",
		Short: "Add one unit of a menu item to the cart.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseOutputFormat(flags.Format)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(cmd.Context(), deps)
			if err != nil {
				return err
			}

			itemID := strings.TrimSpace(args[0])
			if itemID == "" {
				return fmt.Errorf("%s", requiredArg("item-id"))
			}
			item, ok := catalog.FindItem(deps.Catalog, itemID)
			if !ok {
				return emitError(cmd, format, userLabel(cfg), flags.Output, "KHANA_ITEM_NOT_FOUND",
					fmt.Sprintf("no menu item with id %q", itemID))
			}

			ledger, err := loadLedger(deps)
			if err != nil {
				return err
			}
			ledger.Add(item)
			if err := saveLedger(deps, ledger); err != nil {
				return err
			}

			if format == output.FormatTable {
				return writeTable(cmd, buildCartTable(ledger), flags.Output)
			}
			env := output.BuildEnvelope(userLabel(cfg), map[string]any{
				"added": item.ID,
				"lines": ledger.Lines(),
				"bill":  ledger.Bill(),
			}, nil, nil)
			return writeMachinePayload(cmd, env, format, flags.Output)
		},
	}

	addGlobalFlags(cmd, &flags)
	return cmd
}

func newCartUpdateCommand(deps Dependencies) *cobra.Command {
	var flags globalFlags
	var delta int

	cmd := &cobra.Command{
		Use:   "update <item-id>",
		Short: "Change the quantity of a cart line; it is removed at zero.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseOutputFormat(flags.Format)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(cmd.Context(), deps)
			if err != nil {
				return err
			}
			if delta == 0 {
				return fmt.Errorf("%s", requiredArg("--delta must be non-zero"))
			}

			ledger, err := loadLedger(deps)
			if err != nil {
				return err
			}
			itemID := strings.TrimSpace(args[0])
			if err := ledger.ChangeQuantity(itemID, delta); err != nil {
				if errors.Is(err, cart.ErrLineNotFound) {
					return emitError(cmd, format, userLabel(cfg), flags.Output, "KHANA_LINE_NOT_FOUND",
						fmt.Sprintf("item %q is not in the cart", itemID))
				}
				return err
			}
			if err := saveLedger(deps, ledger); err != nil {
				return err
			}

			if format == output.FormatTable {
				return writeTable(cmd, buildCartTable(ledger), flags.Output)
			}
			env := output.BuildEnvelope(userLabel(cfg), map[string]any{
				"lines": ledger.Lines(),
				"bill":  ledger.Bill(),
			}, nil, nil)
			return writeMachinePayload(cmd, env, format, flags.Output)
		},
	}

	cmd.Flags().IntVar(&delta, "delta", 0, "Quantity change, for example 1 or -1.")
	addGlobalFlags(cmd, &flags)
	return cmd
}

func newCartRemoveCommand(deps Dependencies) *cobra.Command {
	var flags globalFlags

	cmd := &cobra.Command{
		Use:   "remove <item-id>",
		Short: "Remove a line from the cart entirely.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseOutputFormat(flags.Format)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(cmd.Context(), deps)
			if err != nil {
				return err
			}

			ledger, err := loadLedger(deps)
			if err != nil {
				return err
			}
			itemID := strings.TrimSpace(args[0])
			removed := false
			for _, line := range ledger.Lines() {
				if line.ItemID == itemID {
					// A negative delta of the full quantity drops the line.
					if err := ledger.ChangeQuantity(itemID, -line.Quantity); err != nil {
						return err
					}
					removed = true
					break
				}
			}
			if !removed {
				return emitError(cmd, format, userLabel(cfg), flags.Output, "KHANA_LINE_NOT_FOUND",
					fmt.Sprintf("item %q is not in the cart", itemID))
			}
			if err := saveLedger(deps, ledger); err != nil {
				return err
			}

			if format == output.FormatTable {
				return writeTable(cmd, buildCartTable(ledger), flags.Output)
			}
			env := output.BuildEnvelope(userLabel(cfg), map[string]any{
				"removed": itemID,
				"lines":   ledger.Lines(),
				"bill":    ledger.Bill(),
			}, nil, nil)
			return writeMachinePayload(cmd, env, format, flags.Output)
		},
	}

	addGlobalFlags(cmd, &flags)
	return cmd
}

func newCartClearCommand(deps Dependencies) *cobra.Command {
	var flags globalFlags

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every line from the cart.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := parseOutputFormat(flags.Format)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(cmd.Context(), deps)
			if err != nil {
				return err
			}

			ledger, err := loadLedger(deps)
			if err != nil {
				return err
			}
			ledger.Clear()
			if err := saveLedger(deps, ledger); err != nil {
				return err
			}

			if format == output.FormatTable {
				return writeTable(cmd, "Cart cleared.", flags.Output)
			}
			env := output.BuildEnvelope(userLabel(cfg), map[string]any{"cleared": true}, nil, nil)
			return writeMachinePayload(cmd, env, format, flags.Output)
		},
	}

	addGlobalFlags(cmd, &flags)
	return cmd
}

func buildCartTable(ledger *cart.Ledger) string {
	lines := ledger.Lines()
	if len(lines) == 0 {
		return "Your cart is empty."
	}

	rows := make([][]string, 0, len(lines))
	for _, line := range lines {
		rows = append(rows, []string{
			line.ItemID,
			line.Name,
			strconv.Itoa(line.Quantity),
			rupees(line.Price),
			rupees(line.Price * line.Quantity),
		})
	}
	bill := ledger.Bill()
	table := output.RenderTable("Cart", []string{"ID", "ITEM", "QTY", "PRICE", "SUBTOTAL"}, rows)
	table += "\n\n" + output.RenderTable("Bill", nil, [][]string{
		{"Item total", rupees(bill.ItemTotal)},
		{"Delivery fee", rupees(bill.DeliveryFee)},
		{"Taxes", rupees(bill.Taxes)},
		{"To pay", rupees(bill.ToPay)},
	})
	return table
}

func buildSuggestionsTable(lines []cart.Line) string {
	suggestions := cart.SuggestFrequent(lines)
	if len(suggestions) == 0 {
		return ""
	}
	rows := make([][]string, 0, len(suggestions))
	for _, item := range suggestions {
		rows = append(rows, []string{item.ID, item.Name, rupees(item.Price)})
	}
	return output.RenderTable("Frequently ordered", []string{"ID", "ITEM", "PRICE"}, rows)
}
