package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/khanape/khana-cli/internal/domain"
	"github.com/khanape/khana-cli/internal/service/output"
)

var orderStatuses = []string{"all", "delivered", "in_progress", "cancelled"}

func newOrdersCommand(deps Dependencies) *cobra.Command {
	ordersCmd := &cobra.Command{
		Use:   "orders",
		Short: "Review your order history.",
	}
	ordersCmd.AddCommand(newOrdersListCommand(deps))
	ordersCmd.AddCommand(newOrdersShowCommand(deps))
	return ordersCmd
}

func newOrdersListCommand(deps Dependencies) *cobra.Command {
	var flags globalFlags
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List past and in-progress orders, newest first.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := parseOutputFormat(flags.Format)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(cmd.Context(), deps)
			if err != nil {
				return err
			}

			selected := strings.ToLower(strings.TrimSpace(status))
			if selected == "" {
				selected = "all"
			}
			if !validOrderStatus(selected) {
				return emitError(cmd, format, userLabel(cfg), flags.Output, "KHANA_INVALID_ARGUMENT",
					"unknown status "+strconv.Quote(status)+" (available: "+strings.Join(orderStatuses, ", ")+")")
			}

			all, err := deps.Orders.List(selected)
			if err != nil {
				return emitError(cmd, format, userLabel(cfg), flags.Output, "KHANA_ORDER_ERROR",
					verboseMessage("could not read the order history", flags.Verbose, err))
			}

			if format == output.FormatTable {
				return writeTable(cmd, buildOrdersTable(all), flags.Output)
			}
			env := output.BuildEnvelope(userLabel(cfg), all, nil, nil)
			return writeMachinePayload(cmd, env, format, flags.Output)
		},
	}

	cmd.Flags().StringVar(&status, "status", "all", "Status filter: "+strings.Join(orderStatuses, ", ")+".")
	addGlobalFlags(cmd, &flags)
	return cmd
}

func newOrdersShowCommand(deps Dependencies) *cobra.Command {
	var flags globalFlags

	cmd := &cobra.Command{
		Use:   "show <order>",
		Short: "Show one order by id or display number.",
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

			ref := strings.TrimSpace(args[0])
			order, ok, err := deps.Orders.Find(ref)
			if err != nil {
				return emitError(cmd, format, userLabel(cfg), flags.Output, "KHANA_ORDER_ERROR",
					verboseMessage("could not read the order history", flags.Verbose, err))
			}
			if !ok {
				return emitError(cmd, format, userLabel(cfg), flags.Output, "KHANA_ORDER_NOT_FOUND",
					fmt.Sprintf("no order %q", ref))
			}

			if format == output.FormatTable {
				return writeTable(cmd, buildOrderDetail(order), flags.Output)
			}
			env := output.BuildEnvelope(userLabel(cfg), order, nil, nil)
			return writeMachinePayload(cmd, env, format, flags.Output)
		},
	}

	addGlobalFlags(cmd, &flags)
	return cmd
}

func validOrderStatus(status string) bool {
	for _, known := range orderStatuses {
		if status == known {
			return true
		}
	}
	return false
}

func buildOrdersTable(all []domain.Order) string {
	if len(all) == 0 {
		return "No orders yet."
	}
	rows := make([][]string, 0, len(all))
	for _, order := range all {
		rows = append(rows, []string{
			order.Number,
			order.RestaurantName,
			strconv.Itoa(len(order.Lines)),
			rupees(order.Total),
			string(order.Status),
			order.PlacedAt.Format("2006-01-02 15:04"),
		})
	}
	return output.RenderTable("Orders", []string{"NUMBER", "RESTAURANT", "ITEMS", "TOTAL", "STATUS", "PLACED"}, rows)
}

func buildOrderDetail(order domain.Order) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Order %s (%s)\n", order.Number, order.Status))
	b.WriteString(order.RestaurantName + "\n")
	b.WriteString("Delivering to: " + order.Address + "\n")
	b.WriteString("Placed: " + order.PlacedAt.Format("2006-01-02 15:04") + "\n\n")

	rows := make([][]string, 0, len(order.Lines))
	for _, line := range order.Lines {
		rows = append(rows, []string{line.ItemID, line.Name, fmt.Sprintf("x%d", line.Quantity), rupees(line.Price * line.Quantity)})
	}
	b.WriteString(output.RenderTable("", nil, rows))
	b.WriteString("\n\n")
	b.WriteString(output.RenderTable("", nil, [][]string{
		{"Item total", rupees(order.ItemTotal)},
		{"Delivery fee", rupees(order.DeliveryFee)},
		{"Taxes", rupees(order.Taxes)},
		{"To pay", rupees(order.Total)},
	}))
	return b.String()
}
