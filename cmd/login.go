// ABOUTME: Session commands: login, register, logout and whoami
// ABOUTME: Passwords are read without echo; social login completes from a callback URL

package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sultankost/kost/internal/auth"
)

var (
	loginUsername    string
	loginEmail       string
	loginSocial      string
	loginCallbackURL string

	registerUsername string
	registerEmail    string
)

// readPassword prompts on stderr and reads a line without echo when stdin is a
// terminal. Replaced in tests.
var readPassword = func(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return "", err
		}
		return strings.TrimRight(line, "\r\n"), nil
	}
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	return string(b), err
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the backend",
	Long: `Sign in with a username or email and password.

For Google or Facebook accounts run "kost login --social google", open the
printed URL in a browser, then pass the URL the browser lands on:

  kost login --callback-url 'http://localhost:5173/auth/callback?access_token=...&refresh_token=...'`,
	Args: cobra.NoArgs,
	Run:  run(runLogin),
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an admin account",
	Args:  cobra.NoArgs,
	Run:   run(runRegister),
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the saved session",
	Args:  cobra.NoArgs,
	Run:   run(runLogout),
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Args:  cobra.NoArgs,
	Run:   run(runWhoami),
}

func init() {
	rootCmd.AddCommand(loginCmd, registerCmd, logoutCmd, whoamiCmd)

	loginCmd.Flags().StringVar(&loginUsername, "username", "", "Username")
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Email address")
	loginCmd.Flags().StringVar(&loginSocial, "social", "", "Print the social login URL for a provider (google, facebook)")
	loginCmd.Flags().StringVar(&loginCallbackURL, "callback-url", "", "Finish a social login from the callback URL")

	registerCmd.Flags().StringVar(&registerUsername, "username", "", "Username")
	registerCmd.Flags().StringVar(&registerEmail, "email", "", "Email address")
}

func runLogin(ctx context.Context, w io.Writer, _ []string) int {
	e, err := newEnv(ctx)
	if err != nil {
		return fail(w, nil, err)
	}

	if loginSocial != "" {
		url, err := auth.SocialLoginURL(e.cfg.OAuthURL, loginSocial)
		if err != nil {
			return fail(w, e, err)
		}
		if IsJSONOutput() {
			return printJSON(w, map[string]string{"provider": loginSocial, "url": url})
		}
		fmt.Fprintf(w, "Open this URL in a browser:\n\n  %s\n\n", url)
		fmt.Fprintln(w, "Then run: kost login --callback-url '<URL the browser was redirected to>'")
		return exitOK
	}

	var res auth.Result
	if loginCallbackURL != "" {
		access, refresh, err := auth.ParseSocialCallback(loginCallbackURL)
		if err != nil {
			return fail(w, e, err)
		}
		res = e.store.CaptureSocialCallback(ctx, access, refresh)
	} else {
		if loginUsername == "" && loginEmail == "" {
			return fail(w, e, fmt.Errorf("--username or --email is required"))
		}
		password, err := readPassword("Password: ")
		if err != nil {
			return fail(w, e, fmt.Errorf("failed to read password: %w", err))
		}
		res = e.store.Login(ctx, auth.Credentials{
			Username: loginUsername,
			Email:    loginEmail,
			Password: password,
		})
	}

	return reportAuth(w, e, res, "Logged in")
}

func runRegister(ctx context.Context, w io.Writer, _ []string) int {
	if registerUsername == "" || registerEmail == "" {
		return fail(w, nil, fmt.Errorf("--username and --email are required"))
	}

	e, err := newEnv(ctx)
	if err != nil {
		return fail(w, nil, err)
	}

	password1, err := readPassword("Password: ")
	if err != nil {
		return fail(w, e, fmt.Errorf("failed to read password: %w", err))
	}
	password2, err := readPassword("Confirm password: ")
	if err != nil {
		return fail(w, e, fmt.Errorf("failed to read password: %w", err))
	}

	res := e.store.Register(ctx, auth.RegisterData{
		Username:  registerUsername,
		Email:     registerEmail,
		Password1: password1,
		Password2: password2,
	})
	if res.OK && !e.store.IsAuthenticated() {
		fmt.Fprintln(w, "Account created. Check your email, then run 'kost login'.")
		return exitOK
	}
	return reportAuth(w, e, res, "Account created, logged in")
}

// reportAuth prints the outcome of a login or registration
func reportAuth(w io.Writer, e *env, res auth.Result, verb string) int {
	if !res.OK {
		if IsJSONOutput() {
			printJSON(w, map[string]string{"error": res.Message, "kind": res.Kind.String()})
			return exitError
		}
		fmt.Fprintf(w, "Error: %s\n", res.Message)
		return exitError
	}

	user := e.store.User()
	if IsJSONOutput() {
		return printJSON(w, map[string]interface{}{"ok": true, "user": user})
	}
	if user != nil {
		fmt.Fprintf(w, "%s as %s\n", verb, user.DisplayName())
	} else {
		fmt.Fprintln(w, verb)
	}
	return exitOK
}

func runLogout(ctx context.Context, w io.Writer, _ []string) int {
	e, err := newEnv(ctx)
	if err != nil {
		return fail(w, nil, err)
	}
	if !e.store.IsAuthenticated() {
		fmt.Fprintln(w, "Not logged in")
		return exitOK
	}

	e.store.Logout(ctx)
	e.api.PurgeCache()
	fmt.Fprintln(w, "Logged out")
	return exitOK
}

func runWhoami(ctx context.Context, w io.Writer, _ []string) int {
	e, err := authenticated(ctx)
	if err != nil {
		return fail(w, e, err)
	}

	user := e.store.User()
	if user == nil {
		// The profile fetch during startup failed; retry through the API
		// client so a stale token is renewed first.
		var u auth.User
		if err := e.api.Get(ctx, "auth/user/", nil, &u); err != nil {
			return fail(w, e, err)
		}
		user = &u
	}

	exp, hasExp := e.store.TokenExpiry()

	if IsJSONOutput() {
		out := map[string]interface{}{"user": user}
		if hasExp {
			out["token_expires_at"] = exp
		}
		return printJSON(w, out)
	}

	fmt.Fprintf(w, "Username:  %s\n", user.Username)
	if user.Email != "" {
		fmt.Fprintf(w, "Email:     %s\n", user.Email)
	}
	if name := strings.TrimSpace(user.FirstName + " " + user.LastName); name != "" {
		fmt.Fprintf(w, "Name:      %s\n", name)
	}
	if hasExp {
		fmt.Fprintf(w, "Token:     expires %s\n", humanize.Time(exp))
	}
	return exitOK
}
