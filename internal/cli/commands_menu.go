package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/khanape/khana-cli/internal/catalog"
	"github.com/khanape/khana-cli/internal/domain"
	"github.com/khanape/khana-cli/internal/service/output"
)

func newMenuCommand(deps Dependencies) *cobra.Command {
	menu := &cobra.Command{
		Use:   "menu",
		Short: "Browse restaurants and their menus.",
	}
	menu.AddCommand(newMenuListCommand(deps))
	menu.AddCommand(newMenuRestaurantsCommand(deps))
	return menu
}

func newMenuListCommand(deps Dependencies) *cobra.Command {
	var flags globalFlags
	var category string
	var search string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List menu items across restaurants, with category and text filters.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := parseOutputFormat(flags.Format)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(cmd.Context(), deps)
			if err != nil {
				return err
			}

			selected, err := catalog.ParseCategory(category)
			if err != nil {
				return emitError(cmd, format, userLabel(cfg), flags.Output, "KHANA_INVALID_ARGUMENT", err.Error())
			}
			items := catalog.Filter(catalog.AllItems(deps.Catalog), selected, search)

			if format == output.FormatTable {
				return writeTable(cmd, buildMenuTable(items, selected, search), flags.Output)
			}
			env := output.BuildEnvelope(userLabel(cfg), items, nil, nil)
			return writeMachinePayload(cmd, env, format, flags.Output)
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Category filter: "+strings.Join(catalog.Categories, ", ")+".")
	cmd.Flags().StringVar(&search, "search", "", "Case-insensitive text filter over item, restaurant, and category names.")
	addGlobalFlags(cmd, &flags)
	return cmd
}

func newMenuRestaurantsCommand(deps Dependencies) *cobra.Command {
	var flags globalFlags

	cmd := &cobra.Command{
		Use:   "restaurants",
		Short: "List the available restaurants.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := parseOutputFormat(flags.Format)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(cmd.Context(), deps)
			if err != nil {
				return err
			}

			restaurants := deps.Catalog.List()
			if format == output.FormatTable {
				return writeTable(cmd, buildRestaurantTable(restaurants), flags.Output)
			}
			env := output.BuildEnvelope(userLabel(cfg), restaurants, nil, nil)
			return writeMachinePayload(cmd, env, format, flags.Output)
		},
	}

	addGlobalFlags(cmd, &flags)
	return cmd
}

func buildMenuTable(items []domain.CatalogItem, category, search string) string {
	title := "Menu"
	qualifiers := make([]string, 0, 2)
	if category != "" && category != catalog.CategoryAll {
		qualifiers = append(qualifiers, "category: "+category)
	}
	if strings.TrimSpace(search) != "" {
		qualifiers = append(qualifiers, "search: "+strings.TrimSpace(search))
	}
	if len(qualifiers) > 0 {
		title += " (" + strings.Join(qualifiers, ", ") + ")"
	}

	rows := make([][]string, 0, len(items))
	for _, item := range items {
		veg := "non-veg"
		if item.Veg {
			veg = "veg"
		}
		rows = append(rows, []string{
			item.ID,
			item.Name,
			rupees(item.Price),
			veg,
			item.CategoryName,
			item.RestaurantName,
		})
	}
	if len(rows) == 0 {
		return title + "\nNo items match."
	}
	return output.RenderTable(title, []string{"ID", "ITEM", "PRICE", "TYPE", "CATEGORY", "RESTAURANT"}, rows)
}

func buildRestaurantTable(restaurants []domain.Restaurant) string {
	rows := make([][]string, 0, len(restaurants))
	for _, restaurant := range restaurants {
		rows = append(rows, []string{
			restaurant.ID,
			restaurant.Name,
			fmt.Sprintf("%.1f", restaurant.Rating),
			restaurant.DeliveryTime,
			restaurant.Cuisine,
		})
	}
	return output.RenderTable("Restaurants", []string{"ID", "NAME", "RATING", "DELIVERY", "CUISINE"}, rows)
}
