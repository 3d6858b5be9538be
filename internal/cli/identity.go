package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// NewRegisterCommand creates the register command.
func NewRegisterCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "register <username> <password>",
		Short: "Create a new account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			username, password := args[0], args[1]
			if strings.Contains(password, " ") {
				return errors.New("password can't contain spaces")
			}

			identity, closeStore, err := opts.identity(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			id, secret, err := identity.Register(cmd.Context(), username, password)
			if err != nil {
				return err
			}
			cmd.Printf("registered %s with id %d\n", username, id)
			cmd.Printf("auth secret: %s\n", secret)
			return nil
		},
	}
}

// NewLoginCommand creates the login command.
func NewLoginCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "login <username> <password>",
		Short: "Verify credentials and print the current session secret",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			identity, closeStore, err := opts.identity(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			secret, err := identity.Login(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			cmd.Printf("auth secret: %s\n", secret)
			return nil
		},
	}
}

// NewLogoutCommand creates the logout command.
func NewLogoutCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Invalidate the current session secret",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			secret, err := opts.requireAuth()
			if err != nil {
				return err
			}

			identity, closeStore, err := opts.identity(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			username, err := identity.Logout(cmd.Context(), secret)
			if err != nil {
				return err
			}
			cmd.Printf("logged out %s\n", username)
			return nil
		},
	}
}

// NewPasswdCommand creates the passwd command.
func NewPasswdCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "passwd <old-password> <new-password> <confirm-new-password>",
		Short: "Change the account password and rotate the session secret",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			oldPassword, newPassword, confirm := args[0], args[1], args[2]
			if err := validateNewPassword(oldPassword, newPassword, confirm); err != nil {
				return err
			}

			secret, err := opts.requireAuth()
			if err != nil {
				return err
			}

			identity, closeStore, err := opts.identity(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			fresh, err := identity.ChangePassword(cmd.Context(), secret, oldPassword, newPassword)
			if err != nil {
				return err
			}
			cmd.Printf("password changed, new auth secret: %s\n", fresh)
			return nil
		},
	}
}

// NewSessionCommand creates the session command.
func NewSessionCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "session",
		Short: "Check whether the current session secret is valid",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			secret, err := opts.requireAuth()
			if err != nil {
				return err
			}

			identity, closeStore, err := opts.identity(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			id, valid, err := identity.ValidateSession(cmd.Context(), secret)
			if err != nil {
				return err
			}
			if !valid {
				cmd.Println("session invalid")
				return nil
			}
			cmd.Printf("session valid for user %d\n", id)
			return nil
		},
	}
}

// validateNewPassword applies the password-change argument rules.
func validateNewPassword(oldPassword, newPassword, confirm string) error {
	if newPassword != confirm {
		return errors.New("the confirmed new password is different from the new password")
	}
	if newPassword == oldPassword {
		return errors.New("the new password is the same as the old password")
	}
	if strings.Contains(newPassword, " ") {
		return errors.New("password can't contain spaces")
	}
	if newPassword == "" {
		return fmt.Errorf("new password is empty")
	}
	return nil
}
