package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"takeoffadmin/internal/api"
	"takeoffadmin/internal/session"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	loginEmail    string
	loginPassword string
)

// loginCmd signs in and stores the session
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the admin API",
	Long: `Sign in with an admin email and password.

The session (role, status and access token) is written to local storage
so later commands run signed in. The password is read from --password,
then TAKEOFF_PASSWORD, then a prompt on stdin.`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

// logoutCmd ends the session
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear the stored session",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

// whoamiCmd shows the stored session
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in role and token expiry",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

// languageCmd shows or changes the stored UI language
var languageCmd = &cobra.Command{
	Use:   "language [name]",
	Short: "Show or change the interface language",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLanguage,
}

func runLogin(cmd *cobra.Command, args []string) error {
	c, err := openClient()
	if err != nil {
		return err
	}
	defer c.Close()

	email := loginEmail
	password := loginPassword
	if password == "" {
		password = os.Getenv("TAKEOFF_PASSWORD")
	}
	in := bufio.NewReader(cmd.InOrStdin())
	if email == "" {
		email = prompt(cmd, in, "Email: ")
	}
	if password == "" {
		password = prompt(cmd, in, "Password: ")
	}

	ctx, cancel := c.context()
	defer cancel()
	if err := c.gate.SignIn(ctx, email, password); err != nil {
		if f := api.AsFailure(err); f != nil && len(f.Fields) > 0 {
			for _, name := range sortedKeys(f.Fields) {
				fmt.Fprintf(cmd.ErrOrStderr(), "  %s: %s\n", name, f.Fields[name])
			}
		}
		return fmt.Errorf("sign-in failed: %w", err)
	}

	st := c.store.Auth.State()
	logger.Info("signed in", zap.String("email", email), zap.String("role", st.Role))
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Signed in as %s (%s)\n", email, st.Role)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	c, err := openClient()
	if err != nil {
		return err
	}
	defer c.Close()

	if !c.restored {
		fmt.Fprintln(cmd.OutOrStdout(), "Not signed in.")
		return nil
	}

	ctx, cancel := c.context()
	defer cancel()
	if err := c.gate.SignOut(ctx); err != nil {
		// Local session is gone either way.
		logger.Warn("server logout failed", zap.Error(err))
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "✓ Signed out")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	c, err := openClient()
	if err != nil {
		return err
	}
	defer c.Close()

	out := cmd.OutOrStdout()
	if !c.restored {
		fmt.Fprintln(out, "Not signed in.")
		return nil
	}

	st := c.store.Auth.State()
	fmt.Fprintf(out, "Role:     %s\n", st.Role)
	fmt.Fprintf(out, "Status:   %s\n", st.Status)
	fmt.Fprintf(out, "Language: %s\n", c.store.Language.State().Language)
	fmt.Fprintf(out, "API:      %s\n", c.api.BaseURL())
	if exp, err := session.TokenExpiry(st.AccessToken); err == nil && !exp.IsZero() {
		fmt.Fprintf(out, "Expires:  %s (in %s)\n",
			exp.Local().Format(time.RFC1123), time.Until(exp).Round(time.Second))
	}
	return nil
}

func runLanguage(cmd *cobra.Command, args []string) error {
	c, err := openClient()
	if err != nil {
		return err
	}
	defer c.Close()

	if len(args) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), c.store.Language.State().Language)
		return nil
	}
	lang, err := c.store.Language.Change(args[0])
	if err != nil {
		return fmt.Errorf("change language: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Language set to %s\n", lang)
	return nil
}

func prompt(cmd *cobra.Command, in *bufio.Reader, label string) string {
	fmt.Fprint(cmd.ErrOrStderr(), label)
	line, _ := in.ReadString('\n')
	return strings.TrimRight(line, "\r\n")
}
