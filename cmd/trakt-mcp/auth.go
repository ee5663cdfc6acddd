package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/trakt-mcp/internal/auth"
	"github.com/fyrsmithlabs/trakt-mcp/internal/format"
)

// loginPollInterval is used between polls unless the flow asks for longer.
var loginPollInterval = 5 * time.Second

func newAuthCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the stored Trakt token",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "status",
			Short: "Show whether a valid token is stored",
			Args:  cobra.NoArgs,
			RunE: withApp(configPath, func(ctx context.Context, cmd *cobra.Command, a *app) error {
				tok, err := a.flow.Token()
				if err != nil {
					return err
				}
				var expires time.Time
				if tok != nil {
					expires = tok.Expiry()
				}
				fmt.Fprintln(cmd.OutOrStdout(), format.AuthStatus(a.flow.Authenticated(), expires))
				return nil
			}),
		},
		&cobra.Command{
			Use:   "logout",
			Short: "Revoke and delete the stored token",
			Args:  cobra.NoArgs,
			RunE: withApp(configPath, func(ctx context.Context, cmd *cobra.Command, a *app) error {
				had, err := a.flow.Logout(ctx)
				if err != nil {
					return err
				}
				if had {
					fmt.Fprintln(cmd.OutOrStdout(), "Logged out of Trakt.")
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), "No stored token.")
				}
				return nil
			}),
		},
		&cobra.Command{
			Use:   "login",
			Short: "Authenticate with the device flow",
			Args:  cobra.NoArgs,
			RunE: withApp(configPath, func(ctx context.Context, cmd *cobra.Command, a *app) error {
				return login(ctx, cmd, a.flow)
			}),
		},
	)
	return cmd
}

// login starts the device flow and polls until the code is approved,
// expires, or ctx is cancelled.
func login(ctx context.Context, cmd *cobra.Command, flow *auth.Flow) error {
	res, err := flow.Start(ctx)
	if err != nil {
		return err
	}
	if res.State == auth.StateAuthenticated {
		fmt.Fprintln(cmd.OutOrStdout(), "Already authenticated with Trakt.")
		return nil
	}
	fmt.Fprintln(cmd.ErrOrStderr(), format.DeviceInstructions(res.UserCode, res.VerificationURL, res.ExpiresIn))

	wait := loginPollInterval
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}

		res, err := flow.Check(ctx)
		if err != nil {
			return err
		}
		wait = loginPollInterval
		switch res.State {
		case auth.StateAuthenticated:
			fmt.Fprintln(cmd.OutOrStdout(), "Authenticated with Trakt.")
			return nil
		case auth.StateSlowDown:
			wait = time.Duration(res.Wait) * time.Second
		case auth.StateExpired, auth.StateNotStarted:
			return errors.New("device code expired before it was approved; run auth login again")
		}
	}
}

// withApp builds the app for a command and closes it afterwards.
func withApp(configPath *string, run func(context.Context, *cobra.Command, *app) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		a, err := newApp(ctx, *configPath)
		if err != nil {
			return err
		}
		defer func() { _ = a.Close(context.Background()) }()
		return run(ctx, cmd, a)
	}
}
