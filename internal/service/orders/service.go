// Package orders places and lists food orders.
package orders

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/khanape/khana-cli/internal/cart"
	"github.com/khanape/khana-cli/internal/domain"
	"github.com/khanape/khana-cli/internal/storage"
)

const orderNumberPrefix = "#KP"

// ErrEmptyCart rejects checkout with no items.
var ErrEmptyCart = errors.New("cannot place an order with an empty cart")

// Service owns the persisted order history.
type Service struct {
	store *storage.Store
	now   func() time.Time
	newID func() string
	roll  func() int
}

// NewService creates an order service on top of the state store.
func NewService(store *storage.Store) *Service {
	return &Service{
		store: store,
		now:   time.Now,
		newID: func() string { return uuid.NewString() },
		roll:  func() int { return rand.Intn(90000) + 10000 },
	}
}

// Place mints an order from the cart lines and bill, persists it and
// returns it. The caller clears the cart afterwards.
func (s *Service) Place(lines []cart.Line, bill cart.Bill, address string) (domain.Order, error) {
	if len(lines) == 0 {
		return domain.Order{}, ErrEmptyCart
	}

	orderLines := make([]domain.OrderLine, 0, len(lines))
	restaurant := ""
	for _, line := range lines {
		if restaurant == "" {
			restaurant = line.Restaurant
		}
		orderLines = append(orderLines, domain.OrderLine{
			ItemID:   line.ItemID,
			Name:     line.Name,
			Price:    line.Price,
			Quantity: line.Quantity,
		})
	}

	order := domain.Order{
		ID:             s.newID(),
		Number:         fmt.Sprintf("%s%05d", orderNumberPrefix, s.roll()),
		RestaurantName: restaurant,
		Lines:          orderLines,
		ItemTotal:      bill.ItemTotal,
		DeliveryFee:    bill.DeliveryFee,
		Taxes:          bill.Taxes,
		Total:          bill.ToPay,
		Address:        address,
		Status:         domain.OrderInProgress,
		PlacedAt:       s.now(),
	}
	if err := s.save(order); err != nil {
		return domain.Order{}, err
	}
	return order, nil
}

// List returns the order history, newest first, optionally narrowed to
// one status. The history is seeded with sample orders on first read.
func (s *Service) List(status string) ([]domain.Order, error) {
	if err := s.seedOnce(); err != nil {
		return nil, err
	}

	all, err := s.load()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].PlacedAt.After(all[j].PlacedAt)
	})
	if status == "" || status == "all" {
		return all, nil
	}

	filtered := make([]domain.Order, 0, len(all))
	for _, order := range all {
		if string(order.Status) == status {
			filtered = append(filtered, order)
		}
	}
	return filtered, nil
}

// Find returns one order by its id or display number.
func (s *Service) Find(ref string) (domain.Order, bool, error) {
	all, err := s.List("")
	if err != nil {
		return domain.Order{}, false, err
	}
	for _, order := range all {
		if order.ID == ref || order.Number == ref {
			return order, true, nil
		}
	}
	return domain.Order{}, false, nil
}

func (s *Service) save(order domain.Order) error {
	raw, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("encode order: %w", err)
	}
	if err := s.store.Put(storage.BucketOrders, order.ID, raw); err != nil {
		return fmt.Errorf("persist order: %w", err)
	}
	return nil
}

func (s *Service) load() ([]domain.Order, error) {
	pairs, err := s.store.List(storage.BucketOrders)
	if err != nil {
		return nil, fmt.Errorf("read orders: %w", err)
	}
	orders := make([]domain.Order, 0, len(pairs))
	for _, raw := range pairs {
		var order domain.Order
		if err := json.Unmarshal(raw, &order); err != nil {
			continue
		}
		orders = append(orders, order)
	}
	return orders, nil
}

// seedOnce writes the sample history the first time orders are read.
func (s *Service) seedOnce() error {
	existing, err := s.store.List(storage.BucketOrders)
	if err != nil {
		return fmt.Errorf("read orders: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}
	for _, order := range sampleOrders(s.now()) {
		if err := s.save(order); err != nil {
			return err
		}
	}
	return nil
}

func sampleOrders(now time.Time) []domain.Order {
	return []domain.Order{
		{
			ID:             "sample-1",
			Number:         "#KP12345",
			RestaurantName: "Spice Kitchen",
			Lines: []domain.OrderLine{
				{ItemID: "s1", Name: "Butter Chicken", Price: 320, Quantity: 1},
				{ItemID: "s3", Name: "Chicken Biryani", Price: 350, Quantity: 1},
			},
			ItemTotal:   670,
			DeliveryFee: 40,
			Taxes:       34,
			Total:       744,
			Address:     "Home",
			Status:      domain.OrderDelivered,
			PlacedAt:    now.Add(-72 * time.Hour),
		},
		{
			ID:             "sample-2",
			Number:         "#KP12346",
			RestaurantName: "The Pizza Place",
			Lines: []domain.OrderLine{
				{ItemID: "p1", Name: "Margherita Pizza", Price: 299, Quantity: 1},
			},
			ItemTotal:   299,
			DeliveryFee: 40,
			Taxes:       15,
			Total:       354,
			Address:     "Work",
			Status:      domain.OrderInProgress,
			PlacedAt:    now.Add(-30 * time.Minute),
		},
		{
			ID:             "sample-3",
			Number:         "#KP12347",
			RestaurantName: "Burger Queen",
			Lines: []domain.OrderLine{
				{ItemID: "b1", Name: "Classic Burger", Price: 199, Quantity: 2},
			},
			ItemTotal:   398,
			DeliveryFee: 40,
			Taxes:       20,
			Total:       458,
			Address:     "Home",
			Status:      domain.OrderCancelled,
			PlacedAt:    now.Add(-7 * 24 * time.Hour),
		},
	}
}
