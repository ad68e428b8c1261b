package catalog

import (
	"fmt"
	"strings"

	"github.com/khanape/khana-cli/internal/domain"
)

// CategoryAll passes every item through the category filter.
const CategoryAll = "all"

// Categories is the fixed filter set shown to the user, in display order.
var Categories = []string{
	CategoryAll,
	"chicken",
	"paneer",
	"pizza",
	"burgers",
	"vegetarian",
	"sides",
	"desserts",
	"beverages",
}

var categoryIndex = func() map[string]struct{} {
	index := make(map[string]struct{}, len(Categories))
	for _, name := range Categories {
		index[name] = struct{}{}
	}
	return index
}()

// ParseCategory validates a category filter value.
func ParseCategory(raw string) (string, error) {
	category := strings.ToLower(strings.TrimSpace(raw))
	if category == "" {
		return CategoryAll, nil
	}
	if _, ok := categoryIndex[category]; !ok {
		return "", fmt.Errorf("unknown category %q (available: %s)", raw, strings.Join(Categories, ", "))
	}
	return category, nil
}

// AllItems flattens every restaurant menu into one list, attaching the
// owning category and restaurant context to each item. Source order is
// retained and the catalog is never mutated.
func AllItems(src Source) []domain.CatalogItem {
	items := make([]domain.CatalogItem, 0)
	for _, restaurant := range src.List() {
		for _, category := range restaurant.Categories {
			for _, item := range category.Items {
				items = append(items, domain.CatalogItem{
					MenuItem:         item,
					CategoryName:     category.Name,
					RestaurantName:   restaurant.Name,
					RestaurantRating: restaurant.Rating,
					DeliveryTime:     restaurant.DeliveryTime,
				})
			}
		}
	}
	return items
}

// Filter narrows items by category and then by free-text search. The
// "vegetarian" category additionally matches any item flagged veg; an
// empty search string matches everything.
func Filter(items []domain.CatalogItem, category string, search string) []domain.CatalogItem {
	category = strings.ToLower(strings.TrimSpace(category))
	if category != "" && category != CategoryAll {
		narrowed := make([]domain.CatalogItem, 0, len(items))
		for _, item := range items {
			if matchesCategory(item, category) {
				narrowed = append(narrowed, item)
			}
		}
		items = narrowed
	}

	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return items
	}
	narrowed := make([]domain.CatalogItem, 0, len(items))
	for _, item := range items {
		if matchesSearch(item, search) {
			narrowed = append(narrowed, item)
		}
	}
	return narrowed
}

func matchesCategory(item domain.CatalogItem, category string) bool {
	if strings.ToLower(item.CategoryName) == category {
		return true
	}
	return category == "vegetarian" && item.Veg
}

func matchesSearch(item domain.CatalogItem, search string) bool {
	return strings.Contains(strings.ToLower(item.Name), search) ||
		strings.Contains(strings.ToLower(item.RestaurantName), search) ||
		strings.Contains(strings.ToLower(item.CategoryName), search)
}

// FindItem looks an item up by id in the flattened catalog.
func FindItem(src Source, itemID string) (domain.CatalogItem, bool) {
	itemID = strings.TrimSpace(itemID)
	for _, item := range AllItems(src) {
		if item.ID == itemID {
			return item, true
		}
	}
	return domain.CatalogItem{}, false
}
