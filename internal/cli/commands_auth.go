package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/khanape/khana-cli/internal/auth"
	"github.com/khanape/khana-cli/internal/domain"
	"github.com/khanape/khana-cli/internal/gateway/identity"
	"github.com/khanape/khana-cli/internal/service/output"
)

func newLoginCommand(deps Dependencies) *cobra.Command {
	login := &cobra.Command{
		Use:   "login",
		Short: "Sign in with your phone number and a one-time code.",
	}
	login.AddCommand(newLoginSendCommand(deps))
	login.AddCommand(newLoginVerifyCommand(deps))
	login.AddCommand(newLoginResetCommand(deps))
	login.AddCommand(newLoginStatusCommand(deps))
	return login
}

func newLoginSendCommand(deps Dependencies) *cobra.Command {
	var flags globalFlags
	var phone string

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send a one-time code to a phone number.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := parseOutputFormat(flags.Format)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(cmd.Context(), deps)
			if err != nil {
				return err
			}
			if strings.TrimSpace(phone) == "" {
				return fmt.Errorf("%s", requiredArg("--phone"))
			}

			flow := auth.NewFlow(deps.Identity)
			if err := flow.SendOTP(cmd.Context(), phone); err != nil {
				if errors.Is(err, auth.ErrInvalidPhone) {
					return emitError(cmd, format, userLabel(cfg), flags.Output, "KHANA_INVALID_PHONE", auth.ErrInvalidPhone.Error())
				}
				return emitError(cmd, format, userLabel(cfg), flags.Output, "KHANA_OTP_SEND_ERROR",
					verificationMessage(err, flags.Verbose))
			}

			token := verificationToken(flow.Handle())
			if token == "" {
				return emitError(cmd, format, userLabel(cfg), flags.Output, "KHANA_OTP_SEND_ERROR",
					"the verification cannot be resumed; try again")
			}
			cfg.Pending = &domain.PendingVerification{Phone: flow.Phone(), Token: token}
			if err := deps.Config.Save(cmd.Context(), cfg); err != nil {
				return err
			}

			message := fmt.Sprintf("Code sent to +91%s. Confirm with: khana login verify --code <6 digits>", flow.Phone())
			if format == output.FormatTable {
				return writeTable(cmd, message, flags.Output)
			}
			env := output.BuildEnvelope(userLabel(cfg), map[string]any{"phone": "+91" + flow.Phone(), "sent": true}, nil, nil)
			return writeMachinePayload(cmd, env, format, flags.Output)
		},
	}

	cmd.Flags().StringVar(&phone, "phone", "", "10-digit Indian mobile number, with or without +91.")
	addGlobalFlags(cmd, &flags)
	return cmd
}

func newLoginVerifyCommand(deps Dependencies) *cobra.Command {
	var flags globalFlags
	var code string

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Confirm the delivered one-time code and sign in.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := parseOutputFormat(flags.Format)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(cmd.Context(), deps)
			if err != nil {
				return err
			}
			if cfg.Pending == nil {
				return emitError(cmd, format, userLabel(cfg), flags.Output, "KHANA_NO_VERIFICATION",
					"No code was sent. Start with: khana login send --phone <number>")
			}

			flow := auth.ResumeFlow(deps.Identity, cfg.Pending.Phone, deps.Identity.Resume(cfg.Pending.Token))
			session, err := flow.VerifyOTP(cmd.Context(), code)
			if err != nil {
				if errors.Is(err, auth.ErrInvalidOTP) {
					return emitError(cmd, format, userLabel(cfg), flags.Output, "KHANA_INVALID_OTP", auth.ErrInvalidOTP.Error())
				}
				return emitError(cmd, format, userLabel(cfg), flags.Output, "KHANA_OTP_VERIFY_ERROR",
					verificationMessage(err, flags.Verbose))
			}

			cfg.Session = domain.Session{
				UserID:       session.UserID,
				Phone:        session.Phone,
				IDToken:      session.IDToken,
				RefreshToken: session.RefreshToken,
			}
			cfg.Pending = nil
			if err := deps.Config.Save(cmd.Context(), cfg); err != nil {
				return err
			}

			if format == output.FormatTable {
				return writeTable(cmd, "Signed in as "+cfg.Session.Phone+".", flags.Output)
			}
			env := output.BuildEnvelope(userLabel(cfg), map[string]any{
				"user_id": cfg.Session.UserID,
				"phone":   cfg.Session.Phone,
			}, nil, nil)
			return writeMachinePayload(cmd, env, format, flags.Output)
		},
	}

	cmd.Flags().StringVar(&code, "code", "", "The 6-digit code from the SMS.")
	addGlobalFlags(cmd, &flags)
	return cmd
}

func newLoginResetCommand(deps Dependencies) *cobra.Command {
	var flags globalFlags

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Abandon the pending code and use another number.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := parseOutputFormat(flags.Format)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(cmd.Context(), deps)
			if err != nil {
				return err
			}

			cfg.Pending = nil
			if err := deps.Config.Save(cmd.Context(), cfg); err != nil {
				return err
			}

			if format == output.FormatTable {
				return writeTable(cmd, "Verification reset. Send a new code with: khana login send --phone <number>", flags.Output)
			}
			env := output.BuildEnvelope(userLabel(cfg), map[string]any{"reset": true}, nil, nil)
			return writeMachinePayload(cmd, env, format, flags.Output)
		},
	}

	addGlobalFlags(cmd, &flags)
	return cmd
}

func newLoginStatusCommand(deps Dependencies) *cobra.Command {
	var flags globalFlags

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the sign-in state.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := parseOutputFormat(flags.Format)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(cmd.Context(), deps)
			if err != nil {
				return err
			}

			var message string
			switch {
			case cfg.Session.SignedIn():
				message = "Signed in as " + cfg.Session.Phone + "."
			case cfg.Pending != nil:
				message = fmt.Sprintf("Code sent to +91%s, waiting for verification.", cfg.Pending.Phone)
			default:
				message = "Signed out."
			}

			if format == output.FormatTable {
				return writeTable(cmd, message, flags.Output)
			}
			env := output.BuildEnvelope(userLabel(cfg), map[string]any{
				"signed_in": cfg.Session.SignedIn(),
				"phone":     cfg.Session.Phone,
				"pending":   cfg.Pending != nil,
			}, nil, nil)
			return writeMachinePayload(cmd, env, format, flags.Output)
		},
	}

	addGlobalFlags(cmd, &flags)
	return cmd
}

func newLogoutCommand(deps Dependencies) *cobra.Command {
	var flags globalFlags

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Sign out and clear the local session.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := parseOutputFormat(flags.Format)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(cmd.Context(), deps)
			if err != nil {
				return err
			}

			cfg.Session = domain.Session{}
			cfg.Pending = nil
			if err := deps.Config.Save(cmd.Context(), cfg); err != nil {
				return err
			}

			if format == output.FormatTable {
				return writeTable(cmd, "Signed out.", flags.Output)
			}
			env := output.BuildEnvelope("guest", map[string]any{"signed_in": false}, nil, nil)
			return writeMachinePayload(cmd, env, format, flags.Output)
		},
	}

	addGlobalFlags(cmd, &flags)
	return cmd
}

// verificationMessage maps provider error kinds to user guidance.
func verificationMessage(err error, verbose bool) string {
	var base string
	switch {
	case errors.Is(err, identity.ErrBillingNotEnabled):
		base = "phone sign-in is not enabled for this project"
	case errors.Is(err, identity.ErrInvalidAppCredential):
		base = "the app credential was rejected; try again later"
	case errors.Is(err, identity.ErrTooManyRequests):
		base = "too many attempts; wait a while before retrying"
	case errors.Is(err, identity.ErrInvalidVerificationCode):
		base = "that code is not correct; check the SMS and retry"
	case errors.Is(err, identity.ErrInvalidVerificationID):
		base = "the code expired; request a new one with: khana login send"
	default:
		base = "verification failed"
	}
	if verbose {
		return fmt.Sprintf("%s: %v", base, err)
	}
	return base
}

func verificationToken(handle identity.Handle) string {
	carrier, ok := handle.(interface{ Token() string })
	if !ok {
		return ""
	}
	return carrier.Token()
}
