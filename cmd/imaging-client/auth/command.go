package auth

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/medicoin/imaging-client/internal/business"
	"github.com/medicoin/imaging-client/internal/cmdutils"
	"github.com/medicoin/imaging-client/internal/config"
	"github.com/medicoin/imaging-client/internal/session"
)

func Cmd(buildInfo string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Imaging Client account management",
		Long:  "Imaging Client account management: register, sign in, sign out, inspect the session.",
	}

	cmd.AddCommand(
		signUpCmd(buildInfo),
		signInCmd(buildInfo),
		signOutCmd(buildInfo),
		whoAmICmd(buildInfo),
	)

	return cmd
}

func signUpCmd(buildInfo string) *cobra.Command {
	var registration session.Registration

	cmd := cmdutils.CobraCommand(
		"signup",
		"Register a doctor account",
		"Register a doctor account. Registering does not sign you in.",
		buildInfo,
		cmdutils.Run,
		func(ctx context.Context, cfg *config.Config, _ []string) error {
			app, closeFn, err := business.NewApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeFn()

			return app.SignUp(ctx, registration)
		},
	)

	cmd.Flags().StringVar(&registration.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&registration.LastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&registration.Email, "email", "", "account email")
	cmd.Flags().StringVar(&registration.Password, "password", "", "account password")
	cmd.Flags().StringVar(&registration.Specialization, "specialization", "", "medical specialization")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func signInCmd(buildInfo string) *cobra.Command {
	var email, password string

	cmd := cmdutils.CobraCommand(
		"signin",
		"Sign in with a doctor account",
		"Sign in with a doctor account and store the session token locally.",
		buildInfo,
		cmdutils.Run,
		func(ctx context.Context, cfg *config.Config, _ []string) error {
			app, closeFn, err := business.NewApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeFn()

			return app.SignIn(ctx, email, password)
		},
	)

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func signOutCmd(buildInfo string) *cobra.Command {
	return cmdutils.CobraCommand(
		"signout",
		"Sign out and clear the stored token",
		"Sign out, notifying the auth service best-effort and clearing the stored token.",
		buildInfo,
		cmdutils.Run,
		func(ctx context.Context, cfg *config.Config, _ []string) error {
			app, closeFn, err := business.NewApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeFn()

			return app.SignOut(ctx)
		},
	)
}

func whoAmICmd(buildInfo string) *cobra.Command {
	return cmdutils.CobraCommand(
		"whoami",
		"Show the signed-in doctor",
		"Show the profile of the currently signed-in doctor.",
		buildInfo,
		cmdutils.Run,
		func(ctx context.Context, cfg *config.Config, _ []string) error {
			app, closeFn, err := business.NewApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeFn()

			return app.WhoAmI(ctx)
		},
	)
}
