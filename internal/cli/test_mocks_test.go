package cli

import (
	"context"
	"errors"

	"github.com/khanape/khana-cli/internal/cart"
	"github.com/khanape/khana-cli/internal/catalog"
	"github.com/khanape/khana-cli/internal/domain"
	"github.com/khanape/khana-cli/internal/gateway/identity"
	profilesvc "github.com/khanape/khana-cli/internal/service/profile"
)

type testAddressBook struct {
	suggestFn func(context.Context, string) ([]domain.Suggestion, error)
	currentFn func(context.Context) (domain.ResolvedLocation, error)
	confirmFn func(context.Context, domain.Location) (domain.ResolvedLocation, error)
	activeFn  func() (domain.ResolvedLocation, bool, error)
}

func (m *testAddressBook) Suggest(ctx context.Context, query string) ([]domain.Suggestion, error) {
	if m.suggestFn != nil {
		return m.suggestFn(ctx, query)
	}
	return nil, nil
}

func (m *testAddressBook) Current(ctx context.Context) (domain.ResolvedLocation, error) {
	if m.currentFn != nil {
		return m.currentFn(ctx)
	}
	return domain.ResolvedLocation{}, nil
}

func (m *testAddressBook) Confirm(ctx context.Context, loc domain.Location) (domain.ResolvedLocation, error) {
	if m.confirmFn != nil {
		return m.confirmFn(ctx, loc)
	}
	return domain.ResolvedLocation{Address: loc.CoordinateLabel(), Lat: loc.Lat, Lon: loc.Lon}, nil
}

func (m *testAddressBook) Active() (domain.ResolvedLocation, bool, error) {
	if m.activeFn != nil {
		return m.activeFn()
	}
	return domain.ResolvedLocation{}, false, nil
}

type testHandle struct {
	token     string
	confirmFn func(context.Context, string) (identity.Session, error)
}

func (h *testHandle) Confirm(ctx context.Context, code string) (identity.Session, error) {
	if h.confirmFn != nil {
		return h.confirmFn(ctx, code)
	}
	return identity.Session{}, errors.New("confirm not stubbed")
}

func (h *testHandle) Token() string {
	return h.token
}

type testIdentity struct {
	startFn  func(context.Context, string) (identity.Handle, error)
	resumeFn func(string) identity.Handle
}

func (m *testIdentity) StartVerification(ctx context.Context, e164Number string) (identity.Handle, error) {
	if m.startFn != nil {
		return m.startFn(ctx, e164Number)
	}
	return &testHandle{token: "session-token"}, nil
}

func (m *testIdentity) Resume(token string) identity.Handle {
	if m.resumeFn != nil {
		return m.resumeFn(token)
	}
	return &testHandle{token: token}
}

type testProfiles struct {
	profiles map[string]domain.UserProfile
	loadErr  error
	saveErr  error
	saves    int
}

func (m *testProfiles) Load(_ context.Context, userID string) (domain.UserProfile, error) {
	if m.loadErr != nil {
		return domain.UserProfile{}, m.loadErr
	}
	profile, ok := m.profiles[userID]
	if !ok {
		return domain.UserProfile{}, profilesvc.ErrProfileNotFound
	}
	return profile, nil
}

func (m *testProfiles) Save(_ context.Context, userID string, profile domain.UserProfile) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	if m.profiles == nil {
		m.profiles = map[string]domain.UserProfile{}
	}
	m.profiles[userID] = profile
	m.saves++
	return nil
}

type testOrders struct {
	placeFn func([]cart.Line, cart.Bill, string) (domain.Order, error)
	listFn  func(string) ([]domain.Order, error)
	findFn  func(string) (domain.Order, bool, error)
}

func (m *testOrders) Place(lines []cart.Line, bill cart.Bill, address string) (domain.Order, error) {
	if m.placeFn != nil {
		return m.placeFn(lines, bill, address)
	}
	return domain.Order{}, errors.New("place not stubbed")
}

func (m *testOrders) List(status string) ([]domain.Order, error) {
	if m.listFn != nil {
		return m.listFn(status)
	}
	return nil, nil
}

func (m *testOrders) Find(ref string) (domain.Order, bool, error) {
	if m.findFn != nil {
		return m.findFn(ref)
	}
	return domain.Order{}, false, nil
}

type testCartStore struct {
	lines   []cart.Line
	loadErr error
	saveErr error
}

func (m *testCartStore) Load() ([]cart.Line, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.lines, nil
}

func (m *testCartStore) Save(lines []cart.Line) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.lines = lines
	return nil
}

type testConfigManager struct {
	cfg domain.Config
}

func (m *testConfigManager) Path() string {
	return "/tmp/test-config.json"
}

func (m *testConfigManager) Load(context.Context) (domain.Config, error) {
	return m.cfg, nil
}

func (m *testConfigManager) Save(_ context.Context, cfg domain.Config) error {
	m.cfg = cfg
	return nil
}

type testPicker struct {
	uri string
	err error
}

func (m *testPicker) Pick(string) (string, error) {
	return m.uri, m.err
}

func testDependencies() (Dependencies, *testConfigManager, *testCartStore) {
	configs := &testConfigManager{}
	carts := &testCartStore{}
	deps := Dependencies{
		Catalog:   catalog.NewStaticSource(),
		Addresses: &testAddressBook{},
		Identity:  &testIdentity{},
		Profiles:  &testProfiles{},
		Orders:    &testOrders{},
		Cart:      carts,
		Config:    configs,
		Picker:    &testPicker{},
		Version:   "v1.0.0-test",
	}
	return deps, configs, carts
}

func signedInConfig() domain.Config {
	return domain.Config{Session: domain.Session{UserID: "user-1", Phone: "9876543210"}}
}

func pendingVerification(phone, token string) *domain.PendingVerification {
	return &domain.PendingVerification{Phone: phone, Token: token}
}
