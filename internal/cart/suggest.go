package cart

import "github.com/khanape/khana-cli/internal/domain"

// frequentlyOrdered is the curated upsell list shown under the cart.
var frequentlyOrdered = []domain.MenuItem{
	{ID: "d1", Name: "Chocolate Brownie", Price: 120, Image: "https://images.unsplash.com/photo-1606313564200-e75d5e30476c?w=500&q=80"},
	{ID: "d3", Name: "Cold Coffee", Price: 120, Image: "https://images.unsplash.com/photo-1461023058943-07fcbe16d735?w=500&q=80"},
	{ID: "p4", Name: "Garlic Bread", Price: 150, Image: "https://images.unsplash.com/photo-1598964344239-e938a192415d?w=500&q=80"},
}

// SuggestFrequent returns the frequently-ordered items that are not
// already in the cart.
func SuggestFrequent(lines []Line) []domain.MenuItem {
	inCart := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		inCart[line.ItemID] = struct{}{}
	}
	suggestions := make([]domain.MenuItem, 0, len(frequentlyOrdered))
	for _, item := range frequentlyOrdered {
		if _, ok := inCart[item.ID]; ok {
			continue
		}
		suggestions = append(suggestions, item)
	}
	return suggestions
}
