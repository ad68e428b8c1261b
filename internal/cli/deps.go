package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"

	"github.com/khanape/khana-cli/internal/cart"
	"github.com/khanape/khana-cli/internal/domain"
	"github.com/khanape/khana-cli/internal/gateway/identity"
)

var unknownCommandPattern = regexp.MustCompile(`unknown command "([^"]+)"`)

// Catalog provides the restaurant dataset.
type Catalog interface {
	List() []domain.Restaurant
}

// AddressBook resolves and remembers delivery addresses.
type AddressBook interface {
	Suggest(ctx context.Context, query string) ([]domain.Suggestion, error)
	Current(ctx context.Context) (domain.ResolvedLocation, error)
	Confirm(ctx context.Context, loc domain.Location) (domain.ResolvedLocation, error)
	Active() (domain.ResolvedLocation, bool, error)
}

// Identity starts and resumes phone verifications.
type Identity interface {
	StartVerification(ctx context.Context, e164Number string) (identity.Handle, error)
	Resume(token string) identity.Handle
}

// ProfileStore loads and saves the account profile.
type ProfileStore interface {
	Load(ctx context.Context, userID string) (domain.UserProfile, error)
	Save(ctx context.Context, userID string, profile domain.UserProfile) error
}

// OrderBook places orders and reads the order history.
type OrderBook interface {
	Place(lines []cart.Line, bill cart.Bill, address string) (domain.Order, error)
	List(status string) ([]domain.Order, error)
	Find(ref string) (domain.Order, bool, error)
}

// CartStore persists cart lines between invocations.
type CartStore interface {
	Load() ([]cart.Line, error)
	Save(lines []cart.Line) error
}

// ConfigManager stores the local session config.
type ConfigManager interface {
	Path() string
	Load(ctx context.Context) (domain.Config, error)
	Save(ctx context.Context, cfg domain.Config) error
}

// ImagePicker selects an avatar image.
type ImagePicker interface {
	Pick(path string) (string, error)
}

// Dependencies wires runtime services.
type Dependencies struct {
	Catalog   Catalog
	Addresses AddressBook
	Identity  Identity
	Profiles  ProfileStore
	Orders    OrderBook
	Cart      CartStore
	Config    ConfigManager
	Picker    ImagePicker
	Version   string
}

var errVersionShown = fmt.Errorf("version shown")

// Execute runs the CLI with injected dependencies.
func Execute(ctx context.Context, args []string, deps Dependencies, stdout io.Writer, stderr io.Writer) int {
	cmd := NewRootCommand(deps)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err == nil || err == errVersionShown {
		return 0
	}
	var controlled *exitError
	if errors.As(err, &controlled) {
		return controlled.code
	}

	if matches := unknownCommandPattern.FindStringSubmatch(err.Error()); len(matches) > 1 {
		_, _ = fmt.Fprintf(stderr, "No such command '%s'\n", matches[1])
		return 2
	}

	if msg := err.Error(); msg != "" {
		_, _ = fmt.Fprintln(stderr, msg)
	}
	return 1
}
