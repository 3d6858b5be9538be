// Package cli implements the gotwis command-line client. Commands talk to
// the Redis store directly through the identity service, the same way the
// server does.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/avoronov/gotwis/internal/repository"
	"github.com/avoronov/gotwis/internal/service"
	"github.com/avoronov/gotwis/internal/store"
)

// authEnvVar names the environment variable consulted when --auth is unset.
const authEnvVar = "GOTWIS_AUTH"

// RootOptions holds global flags for all commands.
type RootOptions struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	Creds         string
	Auth          string
}

// NewRootCommand creates the root command for the gotwis CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "gotwis",
		Short: "gotwis - identity and session client for the gotwis store",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.Auth == "" {
				opts.Auth = os.Getenv(authEnvVar)
			}
			if _, err := service.NewVerifier(opts.Creds); err != nil {
				return err
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.RedisAddr, "redis", "127.0.0.1:6379", "redis address")
	cmd.PersistentFlags().StringVar(&opts.RedisPassword, "redis-password", "", "redis password")
	cmd.PersistentFlags().IntVar(&opts.RedisDB, "redis-db", 0, "redis database number")
	cmd.PersistentFlags().StringVar(&opts.Creds, "creds", "bcrypt", "credential scheme: bcrypt or plaintext")
	cmd.PersistentFlags().StringVar(&opts.Auth, "auth", "", "session secret (or set "+authEnvVar+")")

	// Add subcommands
	cmd.AddCommand(NewRegisterCommand(opts))
	cmd.AddCommand(NewLoginCommand(opts))
	cmd.AddCommand(NewLogoutCommand(opts))
	cmd.AddCommand(NewPasswdCommand(opts))
	cmd.AddCommand(NewSessionCommand(opts))
	cmd.AddCommand(NewFeedCommands(opts)...)

	return cmd
}

// identity opens the store and builds the identity service for one command
// invocation. The returned closer releases the connection.
func (o *RootOptions) identity(ctx context.Context) (*service.Identity, func(), error) {
	st, err := store.Open(ctx, store.Config{
		Addr:     o.RedisAddr,
		Password: o.RedisPassword,
		DB:       o.RedisDB,
	})
	if err != nil {
		return nil, nil, err
	}

	verifier, err := service.NewVerifier(o.Creds)
	if err != nil {
		_ = st.Close()
		return nil, nil, err
	}

	repo := repository.NewRedisIdentityRepository(st)
	identity := service.NewIdentity(repo, verifier, zap.NewNop())
	return identity, func() { _ = st.Close() }, nil
}

// requireAuth returns the session secret or an error directing the user to
// log in first.
func (o *RootOptions) requireAuth() (string, error) {
	if o.Auth == "" {
		return "", fmt.Errorf("not logged in: pass --auth or set %s", authEnvVar)
	}
	return o.Auth, nil
}
