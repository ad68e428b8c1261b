// Package catalog provides the restaurant/menu dataset and the query
// helpers that flatten and filter it for display.
package catalog

import "github.com/khanape/khana-cli/internal/domain"

// Source provides the read-only restaurant catalog. Injected so tests can
// substitute fixtures for the built-in dataset.
type Source interface {
	List() []domain.Restaurant
}

type staticSource struct {
	restaurants []domain.Restaurant
}

// NewStaticSource returns the built-in catalog.
func NewStaticSource() Source {
	return &staticSource{restaurants: restaurants}
}

func (s *staticSource) List() []domain.Restaurant {
	return s.restaurants
}

var restaurants = []domain.Restaurant{
	{
		ID:           "1",
		Name:         "The Pizza Place",
		Image:        "https://images.unsplash.com/photo-1593560708920-61dd98c46a4e?w=500&q=80",
		Rating:       4.5,
		DeliveryTime: "25-30 min",
		Cuisine:      "Pizza, Italian",
		Categories: []domain.MenuCategory{
			{
				Name: "Pizza",
				Items: []domain.MenuItem{
					{ID: "p1", Name: "Margherita Pizza", Price: 299, OriginalPrice: 350, Description: "Classic pizza with fresh tomatoes, mozzarella, and basil.", Image: "https://images.unsplash.com/photo-1593560708920-61dd98c46a4e?w=500&q=80", Veg: true, Rating: 4.2, Popular: true},
					{ID: "p2", Name: "Pepperoni Pizza", Price: 399, OriginalPrice: 450, Description: "Delicious pizza topped with pepperoni and extra cheese.", Image: "https://images.unsplash.com/photo-1628840042765-356cda07504e?w=500&q=80", Veg: false, Rating: 4.5},
					{ID: "p3", Name: "Veggie Supreme", Price: 379, OriginalPrice: 420, Description: "Loaded with fresh vegetables, olives, and cheese.", Image: "https://images.unsplash.com/photo-1565299624946-b28f40a0ae38?w=500&q=80", Veg: true, Rating: 4.3},
				},
			},
			{
				Name: "Sides",
				Items: []domain.MenuItem{
					{ID: "p4", Name: "Garlic Bread", Price: 150, OriginalPrice: 180, Description: "Toasted bread with garlic, butter, and herbs.", Image: "https://images.unsplash.com/photo-1598964344239-e938a192415d?w=500&q=80", Veg: true, Rating: 4.1},
				},
			},
		},
	},
	{
		ID:           "2",
		Name:         "Burger Queen",
		Image:        "https://images.unsplash.com/photo-1571091718767-18b5b1457add?w=500&q=80",
		Rating:       4.3,
		DeliveryTime: "20-25 min",
		Cuisine:      "Burgers, Fast Food",
		Categories: []domain.MenuCategory{
			{
				Name: "Burgers",
				Items: []domain.MenuItem{
					{ID: "b1", Name: "Classic Burger", Price: 199, OriginalPrice: 240, Description: "Juicy beef patty with lettuce, tomato, and cheese.", Image: "https://images.unsplash.com/photo-1571091718767-18b5b1457add?w=500&q=80", Veg: false, Rating: 4.3, Popular: true},
					{ID: "b2", Name: "Veg Burger", Price: 149, OriginalPrice: 180, Description: "Fresh veggie patty with salad and special sauce.", Image: "https://images.unsplash.com/photo-1520072959219-c595dc870360?w=500&q=80", Veg: true, Rating: 4.1},
					{ID: "b3", Name: "Chicken Burger", Price: 219, OriginalPrice: 260, Description: "Grilled chicken breast with fresh lettuce and mayo.", Image: "https://images.unsplash.com/photo-1568901346375-23c9450c58cd?w=500&q=80", Veg: false, Rating: 4.4},
				},
			},
			{
				Name: "Sides",
				Items: []domain.MenuItem{
					{ID: "b4", Name: "French Fries", Price: 120, OriginalPrice: 150, Description: "Crispy golden fries with salt.", Image: "https://images.unsplash.com/photo-1541592106381-b31e9677c0e5?w=500&q=80", Veg: true, Rating: 4.0, Popular: true},
				},
			},
		},
	},
	{
		ID:           "3",
		Name:         "Wok & Roll",
		Image:        "https://images.unsplash.com/photo-1585032226651-759b368d7246?w=500&q=80",
		Rating:       4.8,
		DeliveryTime: "30-35 min",
		Cuisine:      "Asian, Noodles",
		Categories: []domain.MenuCategory{
			{
				Name: "Chicken",
				Items: []domain.MenuItem{
					{ID: "w1", Name: "Chicken Noodles", Price: 220, OriginalPrice: 260, Description: "Stir-fried noodles with chicken and fresh vegetables.", Image: "https://images.unsplash.com/photo-1585032226651-759b368d7246?w=500&q=80", Veg: false, Rating: 4.4, Popular: true},
					{ID: "w2", Name: "Chicken Manchurian", Price: 250, OriginalPrice: 290, Description: "Crispy chicken balls in sweet and tangy Manchurian sauce.", Image: "https://images.unsplash.com/photo-1606756790138-261d2b21cd75?w=500&q=80", Veg: false, Rating: 4.5},
					{ID: "w3", Name: "Chicken Fried Rice", Price: 200, OriginalPrice: 240, Description: "Aromatic fried rice with chicken and vegetables.", Image: "https://images.unsplash.com/photo-1603133872878-684f208fb84b?w=500&q=80", Veg: false, Rating: 4.3, Popular: true},
				},
			},
			{
				Name: "Vegetarian",
				Items: []domain.MenuItem{
					{ID: "w4", Name: "Veg Fried Rice", Price: 180, OriginalPrice: 210, Description: "Aromatic fried rice with mixed vegetables and soy sauce.", Image: "https://images.unsplash.com/photo-1603133872878-684f208fb84b?w=500&q=80", Veg: true, Rating: 4.2},
					{ID: "w5", Name: "Veg Spring Rolls", Price: 160, OriginalPrice: 190, Description: "Crispy spring rolls filled with fresh vegetables.", Image: "https://images.unsplash.com/photo-1544885935-98dd03b09034?w=500&q=80", Veg: true, Rating: 4.0},
				},
			},
		},
	},
	{
		ID:           "4",
		Name:         "Spice Kitchen",
		Image:        "https://images.unsplash.com/photo-1588166524941-3bf61a9c41db?w=500&q=80",
		Rating:       4.6,
		DeliveryTime: "25-30 min",
		Cuisine:      "Indian, North Indian",
		Categories: []domain.MenuCategory{
			{
				Name: "Chicken",
				Items: []domain.MenuItem{
					{ID: "s1", Name: "Butter Chicken", Price: 320, OriginalPrice: 380, Description: "Creamy tomato-based curry with tender chicken pieces.", Image: "https://images.unsplash.com/photo-1588166524941-3bf61a9c41db?w=500&q=80", Veg: false, Rating: 4.5, Popular: true},
					{ID: "s2", Name: "Chicken Tikka", Price: 280, OriginalPrice: 320, Description: "Marinated chicken grilled to perfection with aromatic spices.", Image: "https://images.unsplash.com/photo-1599487488170-d11ec9c172f0?w=500&q=80", Veg: false, Rating: 4.3},
					{ID: "s3", Name: "Chicken Biryani", Price: 350, OriginalPrice: 400, Description: "Aromatic basmati rice with tender chicken and traditional spices.", Image: "https://images.unsplash.com/photo-1563379091339-03246963d51a?w=500&q=80", Veg: false, Rating: 4.7, Popular: true},
				},
			},
			{
				Name: "Paneer",
				Items: []domain.MenuItem{
					{ID: "s4", Name: "Paneer Tikka", Price: 250, OriginalPrice: 290, Description: "Marinated cottage cheese cubes grilled with bell peppers.", Image: "https://images.unsplash.com/photo-1567188040759-fb8a883dc6d8?w=500&q=80", Veg: true, Rating: 4.4, Popular: true},
					{ID: "s5", Name: "Paneer Butter Masala", Price: 280, OriginalPrice: 320, Description: "Rich and creamy paneer curry with butter and aromatic spices.", Image: "https://images.unsplash.com/photo-1631452180519-c014fe946bc7?w=500&q=80", Veg: true, Rating: 4.6},
				},
			},
		},
	},
	{
		ID:           "5",
		Name:         "Sweet Treats",
		Image:        "https://images.unsplash.com/photo-1606313564200-e75d5e30476c?w=500&q=80",
		Rating:       4.4,
		DeliveryTime: "15-20 min",
		Cuisine:      "Desserts, Bakery",
		Categories: []domain.MenuCategory{
			{
				Name: "Desserts",
				Items: []domain.MenuItem{
					{ID: "d1", Name: "Chocolate Brownie", Price: 120, OriginalPrice: 150, Description: "Rich and fudgy chocolate brownie with vanilla ice cream.", Image: "https://images.unsplash.com/photo-1606313564200-e75d5e30476c?w=500&q=80", Veg: true, Rating: 4.6, Popular: true},
					{ID: "d2", Name: "Ice Cream Sundae", Price: 150, OriginalPrice: 180, Description: "Vanilla ice cream with chocolate sauce and nuts.", Image: "https://images.unsplash.com/photo-1563805042-7684c019e1cb?w=500&q=80", Veg: true, Rating: 4.3},
				},
			},
			{
				Name: "Beverages",
				Items: []domain.MenuItem{
					{ID: "d3", Name: "Cold Coffee", Price: 120, OriginalPrice: 140, Description: "Chilled coffee with ice cream and whipped cream.", Image: "https://images.unsplash.com/photo-1461023058943-07fcbe16d735?w=500&q=80", Veg: true, Rating: 4.2},
					{ID: "d4", Name: "Mango Lassi", Price: 90, OriginalPrice: 110, Description: "Creamy yogurt drink blended with fresh mango.", Image: "https://images.unsplash.com/photo-1553978297-833d7c5773f6?w=500&q=80", Veg: true, Rating: 4.5, Popular: true},
				},
			},
		},
	},
}
