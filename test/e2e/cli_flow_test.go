package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/khanape/khana-cli/internal/cart"
	"github.com/khanape/khana-cli/internal/catalog"
	"github.com/khanape/khana-cli/internal/cli"
	"github.com/khanape/khana-cli/internal/domain"
	"github.com/khanape/khana-cli/internal/gateway/docstore"
	"github.com/khanape/khana-cli/internal/gateway/identity"
	"github.com/khanape/khana-cli/internal/location"
	"github.com/khanape/khana-cli/internal/service/orders"
	"github.com/khanape/khana-cli/internal/service/profile"
	"github.com/khanape/khana-cli/internal/storage"
)

type memoryConfig struct {
	cfg domain.Config
}

func (m *memoryConfig) Path() string {
	return "/tmp/khana-e2e-config.json"
}

func (m *memoryConfig) Load(context.Context) (domain.Config, error) {
	return m.cfg, nil
}

func (m *memoryConfig) Save(_ context.Context, cfg domain.Config) error {
	m.cfg = cfg
	return nil
}

func (m *memoryConfig) LocationConsentGranted() bool {
	return m.cfg.LocationConsent
}

type stubGeocoder struct{}

func (stubGeocoder) Geocode(_ context.Context, query string) ([]domain.Location, error) {
	if strings.Contains(strings.ToLower(query), "mg road") {
		return []domain.Location{{Lat: 12.9757, Lon: 77.6011}}, nil
	}
	return nil, nil
}

func (stubGeocoder) ReverseGeocode(context.Context, domain.Location) (domain.Address, error) {
	return domain.Address{Street: "MG Road", City: "Bengaluru", Country: "India"}, nil
}

type stubPosition struct{}

func (stubPosition) CurrentPosition(context.Context) (domain.Location, error) {
	return domain.Location{Lat: 12.9716, Lon: 77.5946}, nil
}

type stubIdentity struct{}

type stubHandle struct {
	token string
}

func (h *stubHandle) Token() string {
	return h.token
}

func (h *stubHandle) Confirm(_ context.Context, code string) (identity.Session, error) {
	if code != "123456" {
		return identity.Session{}, identity.ErrInvalidVerificationCode
	}
	return identity.Session{UserID: "user-e2e", Phone: "+919876543210", IDToken: "idt", RefreshToken: "rt"}, nil
}

func (stubIdentity) StartVerification(context.Context, string) (identity.Handle, error) {
	return &stubHandle{token: "verif-e2e"}, nil
}

func (stubIdentity) Resume(token string) identity.Handle {
	return &stubHandle{token: token}
}

type stubDocuments struct {
	fields map[string]map[string]any
}

func (s *stubDocuments) GetDocument(_ context.Context, _ string, id string) (map[string]any, error) {
	fields, ok := s.fields[id]
	if !ok {
		return nil, docstore.ErrDocumentNotFound
	}
	return fields, nil
}

func (s *stubDocuments) SetDocument(_ context.Context, _ string, id string, fields map[string]any, _ bool) error {
	if s.fields == nil {
		s.fields = map[string]map[string]any{}
	}
	s.fields[id] = fields
	return nil
}

func newJourneyDeps(t *testing.T) (cli.Dependencies, *memoryConfig) {
	t.Helper()
	state, err := storage.Open(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("open state store: %v", err)
	}
	t.Cleanup(func() {
		_ = state.Close()
	})

	configs := &memoryConfig{}
	deps := cli.Dependencies{
		Catalog:   catalog.NewStaticSource(),
		Addresses: location.NewResolver(stubGeocoder{}, stubPosition{}, configs, location.NewStateCache(state)),
		Identity:  stubIdentity{},
		Profiles:  profile.NewService(&stubDocuments{}, state),
		Orders:    orders.NewService(state),
		Cart:      cart.NewStore(state),
		Config:    configs,
		Picker:    &profile.FilePicker{},
		Version:   "e2e",
	}
	return deps, configs
}

func run(t *testing.T, deps cli.Dependencies, args ...string) (int, string) {
	t.Helper()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	code := cli.Execute(context.Background(), args, deps, stdout, stderr)
	return code, stdout.String() + stderr.String()
}

func mustRun(t *testing.T, deps cli.Dependencies, args ...string) string {
	t.Helper()
	code, out := run(t, deps, args...)
	if code != 0 {
		t.Fatalf("command %v exited %d:\n%s", args, code, out)
	}
	return out
}

func mustJSON(t *testing.T, out string) map[string]any {
	t.Helper()
	payload := map[string]any{}
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("parse json output: %v\n%s", err, out)
	}
	return payload
}

// The full ordering journey against real local services: sign in, pick
// an address, fill the cart, check out, and review the order.
func TestOrderJourney(t *testing.T) {
	deps, configs := newJourneyDeps(t)

	mustRun(t, deps, "login", "send", "--phone", "9876543210")
	if configs.cfg.Pending == nil {
		t.Fatal("expected a pending verification after login send")
	}
	mustRun(t, deps, "login", "verify", "--code", "123456")
	if !configs.cfg.Session.SignedIn() {
		t.Fatal("expected a signed-in session after verify")
	}

	out := mustRun(t, deps, "location", "set", "mg", "road")
	if !strings.Contains(out, "MG Road, Bengaluru, India") {
		t.Fatalf("expected resolved address:\n%s", out)
	}
	out = mustRun(t, deps, "location", "show")
	if !strings.Contains(out, "MG Road, Bengaluru, India") {
		t.Fatalf("expected the saved address to persist:\n%s", out)
	}

	mustRun(t, deps, "cart", "add", "s1")
	mustRun(t, deps, "cart", "add", "s3")
	out = mustRun(t, deps, "cart", "show")
	for _, fragment := range []string{"Butter Chicken", "Chicken Biryani", "₹670", "₹744"} {
		if !strings.Contains(out, fragment) {
			t.Fatalf("expected %q in the cart:\n%s", fragment, out)
		}
	}

	qrPath := filepath.Join(t.TempDir(), "pay.png")
	out = mustRun(t, deps, "checkout", "--qr", qrPath)
	if !strings.Contains(out, "placed at Spice Kitchen") {
		t.Fatalf("expected order confirmation:\n%s", out)
	}
	if _, err := os.Stat(qrPath); err != nil {
		t.Fatalf("expected payment QR written: %v", err)
	}

	out = mustRun(t, deps, "cart", "show")
	if !strings.Contains(out, "Your cart is empty.") {
		t.Fatalf("expected the cart cleared after checkout:\n%s", out)
	}

	out = mustRun(t, deps, "orders", "list", "--format", "json")
	payload := mustJSON(t, out)
	data, ok := payload["data"].([]any)
	if !ok || len(data) != 1 {
		t.Fatalf("expected exactly the placed order, got:\n%s", out)
	}
	order, _ := data[0].(map[string]any)
	if order["restaurant_name"] != "Spice Kitchen" || order["total"] != float64(744) {
		t.Fatalf("unexpected order payload: %v", order)
	}

	number, _ := order["number"].(string)
	out = mustRun(t, deps, "orders", "show", number)
	if !strings.Contains(out, "Butter Chicken") || !strings.Contains(out, "in_progress") {
		t.Fatalf("expected order detail:\n%s", out)
	}
}

// Guests can browse but not order.
func TestGuestJourney(t *testing.T) {
	deps, _ := newJourneyDeps(t)

	out := mustRun(t, deps, "menu", "list", "--category", "chicken")
	if !strings.Contains(out, "Butter Chicken") {
		t.Fatalf("expected chicken items:\n%s", out)
	}

	mustRun(t, deps, "cart", "add", "s1")
	code, out := run(t, deps, "checkout")
	if code != 1 || !strings.Contains(out, "Sign in first") {
		t.Fatalf("expected the checkout blocked for guests (exit %d):\n%s", code, out)
	}
}

// Profile edits go through the document store and survive via the cache.
func TestProfileJourney(t *testing.T) {
	deps, configs := newJourneyDeps(t)
	configs.cfg = domain.Config{Session: domain.Session{UserID: "user-e2e", Phone: "9876543210"}}

	mustRun(t, deps, "profile", "set", "--name", "Asha Rao", "--email", "asha@example.com")
	out := mustRun(t, deps, "profile", "show")
	for _, fragment := range []string{"Asha Rao", "asha@example.com", "9876543210"} {
		if !strings.Contains(out, fragment) {
			t.Fatalf("expected %q in the profile:\n%s", fragment, out)
		}
	}
}

// Current-position lookups honor the consent toggle.
func TestLocationConsentJourney(t *testing.T) {
	deps, _ := newJourneyDeps(t)

	code, out := run(t, deps, "location", "current")
	if code != 1 || !strings.Contains(out, "khana location consent on") {
		t.Fatalf("expected a consent denial (exit %d):\n%s", code, out)
	}

	mustRun(t, deps, "location", "consent", "on")
	out = mustRun(t, deps, "location", "current")
	if !strings.Contains(out, "Delivering to: MG Road, Bengaluru, India") {
		t.Fatalf("expected the reverse-geocoded position:\n%s", out)
	}
}
