package main

import (
	"context"
	"os"

	"github.com/khanape/khana-cli/internal/cart"
	"github.com/khanape/khana-cli/internal/catalog"
	"github.com/khanape/khana-cli/internal/cli"
	"github.com/khanape/khana-cli/internal/config"
	"github.com/khanape/khana-cli/internal/gateway/docstore"
	"github.com/khanape/khana-cli/internal/gateway/geocode"
	"github.com/khanape/khana-cli/internal/gateway/identity"
	"github.com/khanape/khana-cli/internal/gateway/position"
	"github.com/khanape/khana-cli/internal/location"
	"github.com/khanape/khana-cli/internal/service/orders"
	"github.com/khanape/khana-cli/internal/service/profile"
	"github.com/khanape/khana-cli/internal/storage"
)

var version = "dev"

func main() {
	configs, err := config.NewStore()
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
	state, err := storage.NewStore()
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
	defer func() {
		_ = state.Close()
	}()

	addresses := location.NewResolver(
		geocode.NewClient(),
		position.NewClient(),
		&configConsent{store: configs},
		location.NewStateCache(state),
	)

	deps := cli.Dependencies{
		Catalog:   catalog.NewStaticSource(),
		Addresses: addresses,
		Identity:  identity.NewClient(),
		Profiles:  profile.NewService(docstore.NewClient(), state),
		Orders:    orders.NewService(state),
		Cart:      cart.NewStore(state),
		Config:    configs,
		Picker:    &profile.FilePicker{},
		Version:   version,
	}

	exitCode := cli.Execute(context.Background(), os.Args[1:], deps, os.Stdout, os.Stderr)
	os.Exit(exitCode)
}

// configConsent reads the location consent toggle from the saved config.
// A missing config file means consent was never granted.
type configConsent struct {
	store *config.Store
}

func (c *configConsent) LocationConsentGranted() bool {
	cfg, err := c.store.Load(context.Background())
	if err != nil {
		return false
	}
	return cfg.LocationConsent
}
