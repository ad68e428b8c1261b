package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/khanape/khana-cli/internal/domain"
	"github.com/khanape/khana-cli/internal/service/orders"
	"github.com/khanape/khana-cli/internal/service/output"
)

func newCheckoutCommand(deps Dependencies) *cobra.Command {
	var flags globalFlags
	var qrPath string

	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Place an order from the cart to the active delivery address.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := parseOutputFormat(flags.Format)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(cmd.Context(), deps)
			if err != nil {
				return err
			}
			user := userLabel(cfg)

			if !cfg.Session.SignedIn() {
				return emitError(cmd, format, user, flags.Output, "KHANA_AUTH_REQUIRED",
					"Sign in first: khana login send --phone <number>")
			}

			ledger, err := loadLedger(deps)
			if err != nil {
				return err
			}
			if ledger.Empty() {
				return emitError(cmd, format, user, flags.Output, "KHANA_EMPTY_CART",
					"Your cart is empty. Add items with: khana cart add <item-id>")
			}

			active, ok, err := deps.Addresses.Active()
			if err != nil {
				return err
			}
			if !ok {
				return emitError(cmd, format, user, flags.Output, "KHANA_NO_ADDRESS",
					"No delivery address set. Use: khana location set <address> or khana location current")
			}

			order, err := deps.Orders.Place(ledger.Lines(), ledger.Bill(), active.Address)
			if err != nil {
				return emitError(cmd, format, user, flags.Output, "KHANA_ORDER_ERROR",
					verboseMessage("could not place the order", flags.Verbose, err))
			}

			warnings := []string{}
			if strings.TrimSpace(qrPath) != "" {
				if err := orders.WritePaymentQR(order, qrPath); err != nil {
					warnings = append(warnings, "payment QR could not be written: "+err.Error())
				}
			}

			ledger.Clear()
			if err := saveLedger(deps, ledger); err != nil {
				warnings = append(warnings, "cart could not be cleared after checkout")
			}

			if format == output.FormatTable {
				return writeTable(cmd, buildOrderConfirmation(order, qrPath, warnings), flags.Output)
			}
			env := output.BuildEnvelope(user, order, warnings, nil)
			return writeMachinePayload(cmd, env, format, flags.Output)
		},
	}

	cmd.Flags().StringVar(&qrPath, "qr", "", "Write a UPI payment QR PNG to this path.")
	addGlobalFlags(cmd, &flags)
	return cmd
}

func buildOrderConfirmation(order domain.Order, qrPath string, warnings []string) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Order %s placed at %s.\n", order.Number, order.RestaurantName))
	b.WriteString("Delivering to: " + order.Address + "\n\n")

	rows := make([][]string, 0, len(order.Lines))
	for _, line := range order.Lines {
		rows = append(rows, []string{line.Name, fmt.Sprintf("x%d", line.Quantity), rupees(line.Price * line.Quantity)})
	}
	b.WriteString(output.RenderTable("", nil, rows))
	b.WriteString("\n\n")
	b.WriteString(output.RenderTable("", nil, [][]string{
		{"Item total", rupees(order.ItemTotal)},
		{"Delivery fee", rupees(order.DeliveryFee)},
		{"Taxes", rupees(order.Taxes)},
		{"To pay", rupees(order.Total)},
	}))
	if strings.TrimSpace(qrPath) != "" {
		b.WriteString("\n\nPayment QR: " + qrPath)
	}
	for _, warning := range warnings {
		b.WriteString("\nwarning: " + warning)
	}
	return b.String()
}
