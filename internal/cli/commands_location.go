package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/khanape/khana-cli/internal/domain"
	"github.com/khanape/khana-cli/internal/location"
	"github.com/khanape/khana-cli/internal/service/output"
)

func newLocationCommand(deps Dependencies) *cobra.Command {
	loc := &cobra.Command{
		Use:   "location",
		Short: "Search, set, and inspect the delivery address.",
	}
	loc.AddCommand(newLocationSearchCommand(deps))
	loc.AddCommand(newLocationCurrentCommand(deps))
	loc.AddCommand(newLocationSetCommand(deps))
	loc.AddCommand(newLocationShowCommand(deps))
	loc.AddCommand(newLocationConsentCommand(deps))
	return loc
}

func newLocationSearchCommand(deps Dependencies) *cobra.Command {
	var flags globalFlags
	var watch bool

	cmd := &cobra.Command{
		Use:   "search [text]",
		Short: "Suggest addresses for a query; short queries show saved entries.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseOutputFormat(flags.Format)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(cmd.Context(), deps)
			if err != nil {
				return err
			}

			if watch {
				return watchLocationSearch(cmd, deps)
			}

			query := ""
			if len(args) > 0 {
				query = args[0]
			}
			suggestions, err := deps.Addresses.Suggest(cmd.Context(), query)
			if err != nil {
				return emitError(cmd, format, userLabel(cfg), flags.Output, "KHANA_GEOCODE_ERROR",
					verboseMessage("address search failed", flags.Verbose, err))
			}

			if format == output.FormatTable {
				return writeTable(cmd, buildSuggestionTable(suggestions), flags.Output)
			}
			env := output.BuildEnvelope(userLabel(cfg), suggestions, nil, nil)
			return writeMachinePayload(cmd, env, format, flags.Output)
		},
	}

	cmd.Flags().BoolVar(&watch, "watch", false, "Read queries from stdin, one per line, with typing debounce.")
	addGlobalFlags(cmd, &flags)
	return cmd
}

// watchLocationSearch feeds stdin lines through the debounced searcher,
// so rapid input only triggers a lookup for the final query.
func watchLocationSearch(cmd *cobra.Command, deps Dependencies) error {
	out := cmd.OutOrStdout()
	var mu sync.Mutex

	searcher := location.NewSearcher(deps.Addresses, func(query string, suggestions []domain.Suggestion, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			_, _ = fmt.Fprintf(out, "%s: search failed: %v\n", query, err)
			return
		}
		_, _ = fmt.Fprintf(out, "%s:\n%s\n", query, buildSuggestionTable(suggestions))
	})

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		searcher.Search(cmd.Context(), line)
	}
	if err := scanner.Err(); err != nil {
		searcher.Cancel()
		return fmt.Errorf("read queries: %w", err)
	}
	searcher.Wait()
	return nil
}

func newLocationCurrentCommand(deps Dependencies) *cobra.Command {
	var flags globalFlags

	cmd := &cobra.Command{
		Use:   "current",
		Short: "Resolve the device position into the delivery address.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := parseOutputFormat(flags.Format)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(cmd.Context(), deps)
			if err != nil {
				return err
			}

			resolved, err := deps.Addresses.Current(cmd.Context())
			if errors.Is(err, location.ErrPermissionDenied) {
				return emitError(cmd, format, userLabel(cfg), flags.Output, "KHANA_PERMISSION_DENIED",
					"Location access is not granted. Allow it with: khana location consent on, or set an address with: khana location set <address>")
			}
			if err != nil {
				return emitError(cmd, format, userLabel(cfg), flags.Output, "KHANA_LOCATION_ERROR",
					verboseMessage("could not resolve the current position", flags.Verbose, err))
			}

			if format == output.FormatTable {
				return writeTable(cmd, "Delivering to: "+resolved.Address, flags.Output)
			}
			env := output.BuildEnvelope(userLabel(cfg), resolved, nil, nil)
			return writeMachinePayload(cmd, env, format, flags.Output)
		},
	}

	addGlobalFlags(cmd, &flags)
	return cmd
}

func newLocationSetCommand(deps Dependencies) *cobra.Command {
	var flags globalFlags

	cmd := &cobra.Command{
		Use:   "set <address>",
		Short: "Geocode an address and save it as the delivery address.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseOutputFormat(flags.Format)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(cmd.Context(), deps)
			if err != nil {
				return err
			}

			query := strings.TrimSpace(strings.Join(args, " "))
			if len(query) < 3 {
				return emitError(cmd, format, userLabel(cfg), flags.Output, "KHANA_INVALID_ARGUMENT",
					"enter at least 3 characters of the address")
			}
			suggestions, err := deps.Addresses.Suggest(cmd.Context(), query)
			if err != nil {
				return emitError(cmd, format, userLabel(cfg), flags.Output, "KHANA_GEOCODE_ERROR",
					verboseMessage("address search failed", flags.Verbose, err))
			}
			hit, ok := firstSearchHit(suggestions)
			if !ok {
				return emitError(cmd, format, userLabel(cfg), flags.Output, "KHANA_NO_MATCH",
					fmt.Sprintf("no address matches %q", query))
			}

			resolved, err := deps.Addresses.Confirm(cmd.Context(), *hit.Location)
			if err != nil {
				return emitError(cmd, format, userLabel(cfg), flags.Output, "KHANA_LOCATION_ERROR",
					verboseMessage("could not save the delivery address", flags.Verbose, err))
			}

			if format == output.FormatTable {
				return writeTable(cmd, "Delivering to: "+resolved.Address, flags.Output)
			}
			env := output.BuildEnvelope(userLabel(cfg), resolved, nil, nil)
			return writeMachinePayload(cmd, env, format, flags.Output)
		},
	}

	addGlobalFlags(cmd, &flags)
	return cmd
}

func newLocationShowCommand(deps Dependencies) *cobra.Command {
	var flags globalFlags

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the active delivery address.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := parseOutputFormat(flags.Format)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(cmd.Context(), deps)
			if err != nil {
				return err
			}

			resolved, ok, err := deps.Addresses.Active()
			if err != nil {
				return emitError(cmd, format, userLabel(cfg), flags.Output, "KHANA_LOCATION_ERROR",
					verboseMessage("could not read the saved address", flags.Verbose, err))
			}
			if !ok {
				return emitError(cmd, format, userLabel(cfg), flags.Output, "KHANA_NO_ADDRESS",
					"No delivery address set. Use: khana location set <address> or khana location current")
			}

			if format == output.FormatTable {
				return writeTable(cmd, "Delivering to: "+resolved.Address, flags.Output)
			}
			env := output.BuildEnvelope(userLabel(cfg), resolved, nil, nil)
			return writeMachinePayload(cmd, env, format, flags.Output)
		},
	}

	addGlobalFlags(cmd, &flags)
	return cmd
}

func newLocationConsentCommand(deps Dependencies) *cobra.Command {
	var flags globalFlags

	cmd := &cobra.Command{
		Use:   "consent <on|off>",
		Short: "Grant or revoke location access for 'location current'.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseOutputFormat(flags.Format)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(cmd.Context(), deps)
			if err != nil {
				return err
			}

			var granted bool
			switch strings.ToLower(strings.TrimSpace(args[0])) {
			case "on", "grant", "true":
				granted = true
			case "off", "revoke", "false":
				granted = false
			default:
				return emitError(cmd, format, userLabel(cfg), flags.Output, "KHANA_INVALID_ARGUMENT",
					"consent takes on or off")
			}

			cfg.LocationConsent = granted
			if err := deps.Config.Save(cmd.Context(), cfg); err != nil {
				return err
			}

			message := "Location access granted."
			if !granted {
				message = "Location access revoked."
			}
			if format == output.FormatTable {
				return writeTable(cmd, message, flags.Output)
			}
			env := output.BuildEnvelope(userLabel(cfg), map[string]any{"location_consent": granted}, nil, nil)
			return writeMachinePayload(cmd, env, format, flags.Output)
		},
	}

	addGlobalFlags(cmd, &flags)
	return cmd
}

func firstSearchHit(suggestions []domain.Suggestion) (domain.Suggestion, bool) {
	for _, suggestion := range suggestions {
		if suggestion.Kind == domain.SuggestionSearch && suggestion.Location != nil {
			return suggestion, true
		}
	}
	return domain.Suggestion{}, false
}

func buildSuggestionTable(suggestions []domain.Suggestion) string {
	rows := make([][]string, 0, len(suggestions))
	for i, suggestion := range suggestions {
		coords := ""
		if suggestion.Location != nil {
			coords = suggestion.Location.CoordinateLabel()
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			suggestion.Title,
			string(suggestion.Kind),
			coords,
		})
	}
	return output.RenderTable("Suggestions", []string{"#", "TITLE", "KIND", "COORDINATES"}, rows)
}
