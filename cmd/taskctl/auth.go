package main

import (
	"bufio"
	"clementus360/task-manager/types"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

func newSignupCmd(a *app) *cobra.Command {
	var creds types.Credentials

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := promptPassword(cmd, &creds.Password); err != nil {
				return err
			}
			resp, err := a.client.Signup(cmd.Context(), creds)
			if err != nil {
				return err
			}
			if resp.EmailVerified != nil && !*resp.EmailVerified {
				fmt.Fprintf(a.out, "Account created for %s. Confirm your email, then run `taskctl login`.\n", resp.User.Email)
				return nil
			}
			fmt.Fprintf(a.out, "Welcome, %s!\n", displayName(resp.User))
			return nil
		},
	}

	cmd.Flags().StringVar(&creds.Email, "email", "", "email address")
	cmd.Flags().StringVar(&creds.Name, "name", "", "display name")
	cmd.Flags().StringVar(&creds.Password, "password", "", "password (prompted when omitted)")
	cmd.MarkFlagRequired("email")

	return cmd
}

func newLoginCmd(a *app) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and remember the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := promptPassword(cmd, &password); err != nil {
				return err
			}
			resp, err := a.client.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			a.log.WithField("user", resp.User.ID).Info("logged in")
			fmt.Fprintf(a.out, "Logged in as %s\n", displayName(resp.User))
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password (prompted when omitted)")
	cmd.MarkFlagRequired("email")

	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Logged out")
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show who the saved session belongs to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			user, err := a.client.Restore(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s <%s>\n", displayName(user), user.Email)
			return nil
		},
	}
}

// promptPassword reads one line from stdin when no password was given.
func promptPassword(cmd *cobra.Command, password *string) error {
	if *password != "" {
		return nil
	}
	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	*password = strings.TrimRight(line, "\r\n")
	if *password == "" {
		return errors.New("password is required")
	}
	return nil
}

func displayName(u types.User) string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}
