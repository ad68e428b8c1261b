package domain

// MenuItem is one orderable dish inside a restaurant category.
type MenuItem struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Price         int     `json:"price"`
	OriginalPrice int     `json:"original_price,omitempty"`
	Description   string  `json:"description,omitempty"`
	Image         string  `json:"image,omitempty"`
	Veg           bool    `json:"veg"`
	Rating        float64 `json:"rating"`
	Popular       bool    `json:"popular"`
}

// MenuCategory groups items under a named section of a restaurant menu.
type MenuCategory struct {
	Name  string     `json:"name"`
	Items []MenuItem `json:"items"`
}

// Restaurant is a venue with its full menu.
type Restaurant struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Image        string         `json:"image,omitempty"`
	Rating       float64        `json:"rating"`
	DeliveryTime string         `json:"delivery_time"`
	Cuisine      string         `json:"cuisine"`
	Categories   []MenuCategory `json:"categories"`
}

// CatalogItem is a menu item denormalized with its owning category and
// restaurant context, as produced by the catalog query.
type CatalogItem struct {
	MenuItem
	CategoryName     string  `json:"category_name"`
	RestaurantName   string  `json:"restaurant_name"`
	RestaurantRating float64 `json:"restaurant_rating"`
	DeliveryTime     string  `json:"delivery_time"`
}
