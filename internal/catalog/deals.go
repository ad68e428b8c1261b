package catalog

import "github.com/khanape/khana-cli/internal/domain"

var deals = []domain.Deal{
	{
		ID:          "deal-1",
		Code:        "WELCOME50",
		Title:       "50% OFF your first order",
		Subtitle:    "On orders above ₹199",
		Description: "New here? Get half off your first order. Maximum discount ₹100.",
		Discount:    "50% OFF",
	},
	{
		ID:          "deal-2",
		Code:        "FREEDEL",
		Title:       "Free delivery",
		Subtitle:    "On orders above ₹299",
		Description: "Skip the delivery fee on every order above ₹299.",
		Discount:    "FREE DELIVERY",
	},
	{
		ID:          "deal-3",
		Code:        "PIZZA30",
		Title:       "30% OFF on pizzas",
		Subtitle:    "The Pizza Place only",
		Description: "Flat 30% off every pizza from The Pizza Place. Maximum discount ₹150.",
		Discount:    "30% OFF",
	},
	{
		ID:          "deal-4",
		Code:        "BOGOBURGER",
		Title:       "Buy 1 Get 1 burger",
		Subtitle:    "Burger Queen classics",
		Description: "Order any classic burger from Burger Queen and get a second one free.",
		Discount:    "BOGO",
	},
}

// Deals returns the current promotional offers.
func Deals() []domain.Deal {
	return append([]domain.Deal(nil), deals...)
}
