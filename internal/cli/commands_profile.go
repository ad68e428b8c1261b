package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/khanape/khana-cli/internal/domain"
	"github.com/khanape/khana-cli/internal/service/output"
	profilesvc "github.com/khanape/khana-cli/internal/service/profile"
)

func newProfileCommand(deps Dependencies) *cobra.Command {
	profile := &cobra.Command{
		Use:   "profile",
		Short: "Show and edit your account profile.",
	}
	profile.AddCommand(newProfileShowCommand(deps))
	profile.AddCommand(newProfileSetCommand(deps))
	profile.AddCommand(newProfileAvatarCommand(deps))
	return profile
}

func requireSession(cmd *cobra.Command, format output.Format, cfg domain.Config, outputPath string) error {
	if cfg.Session.SignedIn() {
		return nil
	}
	return emitError(cmd, format, userLabel(cfg), outputPath, "KHANA_AUTH_REQUIRED",
		"Sign in first: khana login send --phone <number>")
}

func newProfileShowCommand(deps Dependencies) *cobra.Command {
	var flags globalFlags

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the account profile.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := parseOutputFormat(flags.Format)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(cmd.Context(), deps)
			if err != nil {
				return err
			}
			if err := requireSession(cmd, format, cfg, flags.Output); err != nil {
				return err
			}

			loaded, err := deps.Profiles.Load(cmd.Context(), cfg.Session.UserID)
			if errors.Is(err, profilesvc.ErrProfileNotFound) {
				return emitError(cmd, format, userLabel(cfg), flags.Output, "KHANA_PROFILE_NOT_FOUND",
					"No profile yet. Create one with: khana profile set --name <name>")
			}
			if err != nil {
				return emitError(cmd, format, userLabel(cfg), flags.Output, "KHANA_PROFILE_ERROR",
					verboseMessage("could not load the profile", flags.Verbose, err))
			}

			if format == output.FormatTable {
				return writeTable(cmd, buildProfileTable(loaded, cfg), flags.Output)
			}
			env := output.BuildEnvelope(userLabel(cfg), loaded, nil, nil)
			return writeMachinePayload(cmd, env, format, flags.Output)
		},
	}

	addGlobalFlags(cmd, &flags)
	return cmd
}

func newProfileSetCommand(deps Dependencies) *cobra.Command {
	var flags globalFlags
	var name string
	var email string
	var image string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update profile fields; name is required, email is validated.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := parseOutputFormat(flags.Format)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(cmd.Context(), deps)
			if err != nil {
				return err
			}
			if err := requireSession(cmd, format, cfg, flags.Output); err != nil {
				return err
			}

			current, err := deps.Profiles.Load(cmd.Context(), cfg.Session.UserID)
			if err != nil && !errors.Is(err, profilesvc.ErrProfileNotFound) {
				return emitError(cmd, format, userLabel(cfg), flags.Output, "KHANA_PROFILE_ERROR",
					verboseMessage("could not load the profile", flags.Verbose, err))
			}

			if cmd.Flags().Changed("name") {
				current.Name = name
			}
			if cmd.Flags().Changed("email") {
				current.Email = email
			}
			if cmd.Flags().Changed("image") {
				current.Image = image
			}
			current.Phone = cfg.Session.Phone

			if err := deps.Profiles.Save(cmd.Context(), cfg.Session.UserID, current); err != nil {
				switch {
				case errors.Is(err, profilesvc.ErrNameRequired):
					return emitError(cmd, format, userLabel(cfg), flags.Output, "KHANA_NAME_REQUIRED", profilesvc.ErrNameRequired.Error())
				case errors.Is(err, profilesvc.ErrInvalidEmail):
					return emitError(cmd, format, userLabel(cfg), flags.Output, "KHANA_INVALID_EMAIL", profilesvc.ErrInvalidEmail.Error())
				}
				return emitError(cmd, format, userLabel(cfg), flags.Output, "KHANA_PROFILE_ERROR",
					verboseMessage("could not save the profile", flags.Verbose, err))
			}

			if format == output.FormatTable {
				return writeTable(cmd, "Profile saved.", flags.Output)
			}
			env := output.BuildEnvelope(userLabel(cfg), current, nil, nil)
			return writeMachinePayload(cmd, env, format, flags.Output)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name.")
	cmd.Flags().StringVar(&email, "email", "", "Contact email address.")
	cmd.Flags().StringVar(&image, "image", "", "Avatar image URI.")
	addGlobalFlags(cmd, &flags)
	return cmd
}

func newProfileAvatarCommand(deps Dependencies) *cobra.Command {
	var flags globalFlags

	cmd := &cobra.Command{
		Use:   "avatar <path>",
		Short: "Pick a local image file as the profile avatar.",
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
			if err := requireSession(cmd, format, cfg, flags.Output); err != nil {
				return err
			}

			uri, err := deps.Picker.Pick(args[0])
			if err != nil {
				return emitError(cmd, format, userLabel(cfg), flags.Output, "KHANA_IMAGE_ERROR",
					verboseMessage("could not use that image", flags.Verbose, err))
			}

			current, err := deps.Profiles.Load(cmd.Context(), cfg.Session.UserID)
			if err != nil && !errors.Is(err, profilesvc.ErrProfileNotFound) {
				return emitError(cmd, format, userLabel(cfg), flags.Output, "KHANA_PROFILE_ERROR",
					verboseMessage("could not load the profile", flags.Verbose, err))
			}
			current.Image = uri
			current.Phone = cfg.Session.Phone

			if err := deps.Profiles.Save(cmd.Context(), cfg.Session.UserID, current); err != nil {
				if errors.Is(err, profilesvc.ErrNameRequired) {
					return emitError(cmd, format, userLabel(cfg), flags.Output, "KHANA_NAME_REQUIRED",
						"set a name first: khana profile set --name <name>")
				}
				return emitError(cmd, format, userLabel(cfg), flags.Output, "KHANA_PROFILE_ERROR",
					verboseMessage("could not save the profile", flags.Verbose, err))
			}

			if format == output.FormatTable {
				return writeTable(cmd, "Avatar updated: "+uri, flags.Output)
			}
			env := output.BuildEnvelope(userLabel(cfg), current, nil, nil)
			return writeMachinePayload(cmd, env, format, flags.Output)
		},
	}

	addGlobalFlags(cmd, &flags)
	return cmd
}

func buildProfileTable(profile domain.UserProfile, cfg domain.Config) string {
	rows := [][]string{
		{"Name", fallback(profile.Name, "-")},
		{"Email", fallback(profile.Email, "-")},
		{"Phone", fallback(profile.Phone, cfg.Session.Phone)},
		{"Avatar", fallback(profile.Image, "-")},
	}
	return output.RenderTable("Profile", nil, rows)
}

func fallback(value, alt string) string {
	if strings.TrimSpace(value) == "" {
		return alt
	}
	return value
}
