package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/khanape/khana-cli/internal/cart"
	"github.com/khanape/khana-cli/internal/config"
	"github.com/khanape/khana-cli/internal/domain"
	"github.com/khanape/khana-cli/internal/service/output"
)

type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return ""
}

type globalFlags struct {
	Format  string
	Output  string
	Verbose bool
}

const sharedGlobalFlagAnnotation = "khana_cli_shared_global"

func addGlobalFlags(cmd *cobra.Command, flags *globalFlags) {
	addSharedGlobalFlag(cmd, "format", func() {
		cmd.Flags().StringVar(&flags.Format, "format", "table", "Output format: table, json, or yaml.")
	})
	addSharedGlobalFlag(cmd, "output", func() {
		cmd.Flags().StringVar(&flags.Output, "output", "", "Also write the rendered output to this file.")
	})
	addSharedGlobalFlag(cmd, "verbose", func() {
		cmd.Flags().BoolVar(&flags.Verbose, "verbose", false, "Enable detailed error diagnostics.")
	})
}

func addSharedGlobalFlag(cmd *cobra.Command, name string, register func()) {
	if cmd.Flags().Lookup(name) != nil {
		return
	}
	register()
	flag := cmd.Flags().Lookup(name)
	if flag == nil {
		return
	}
	if flag.Annotations == nil {
		flag.Annotations = map[string][]string{}
	}
	flag.Annotations[sharedGlobalFlagAnnotation] = []string{"true"}
}

func parseOutputFormat(format string) (output.Format, error) {
	return output.ParseFormat(format)
}

func writeTable(cmd *cobra.Command, text string, outputPath string) error {
	return output.WriteOutput(cmd.OutOrStdout(), text, outputPath)
}

func writeMachinePayload(cmd *cobra.Command, env output.Envelope, format output.Format, outputPath string) error {
	rendered, err := output.RenderPayload(env, format)
	if err != nil {
		return err
	}
	return output.WriteOutput(cmd.OutOrStdout(), rendered, outputPath)
}

func emitError(
	cmd *cobra.Command,
	format output.Format,
	user string,
	outputPath string,
	code string,
	message string,
) error {
	if format == output.FormatTable {
		if err := output.WriteOutput(cmd.OutOrStdout(), message, outputPath); err != nil {
			return err
		}
		return &exitError{code: 1}
	}
	env := output.BuildEnvelope(user, nil, []string{}, map[string]any{
		"code":    code,
		"message": message,
	})
	if err := writeMachinePayload(cmd, env, format, outputPath); err != nil {
		return err
	}
	return &exitError{code: 1}
}

// loadConfig treats a missing config file as a signed-out default.
func loadConfig(ctx context.Context, deps Dependencies) (domain.Config, error) {
	if deps.Config == nil {
		return domain.Config{}, nil
	}
	cfg, err := deps.Config.Load(ctx)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			return domain.Config{}, nil
		}
		return domain.Config{}, err
	}
	return cfg, nil
}

// userLabel is the signed-in phone or "guest" for envelope metadata.
func userLabel(cfg domain.Config) string {
	if cfg.Session.SignedIn() && strings.TrimSpace(cfg.Session.Phone) != "" {
		return cfg.Session.Phone
	}
	if cfg.Session.SignedIn() {
		return cfg.Session.UserID
	}
	return "guest"
}

func loadLedger(deps Dependencies) (*cart.Ledger, error) {
	if deps.Cart == nil {
		return cart.NewLedger(nil), nil
	}
	lines, err := deps.Cart.Load()
	if err != nil {
		return nil, err
	}
	return cart.NewLedger(lines), nil
}

func saveLedger(deps Dependencies, ledger *cart.Ledger) error {
	if deps.Cart == nil {
		return nil
	}
	return deps.Cart.Save(ledger.Lines())
}

func rupees(amount int) string {
	return "₹" + strconv.Itoa(amount)
}

func requiredArg(name string) string {
	return fmt.Sprintf("%s is required", name)
}

func verboseMessage(base string, verbose bool, err error) string {
	if verbose && err != nil {
		return fmt.Sprintf("%s: %v", base, err)
	}
	if err != nil {
		return base + " (use --verbose for details)"
	}
	return base
}
