// ABOUTME: Session commands: login, logout, whoami and nickname
// ABOUTME: Login waits for the OAuth redirect on a local listener or takes --token

package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/delcarajo/storefront/internal/session"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// loginWaitTimeout bounds how long login waits for the browser redirect
const loginWaitTimeout = 5 * time.Minute

var loginToken string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with Google",
	Long: `Open the Google sign-in page and wait for the redirect on a local listener.

Use --token to store an access token directly (headless environments).`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(func(ctx context.Context, w io.Writer) int {
			return runLogin(ctx, w, loginToken)
		})
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget local credentials",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(runLogout)
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(runWhoami)
	},
}

var nicknameCmd = &cobra.Command{
	Use:   "nickname <alias>",
	Short: "Set your alias",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(func(ctx context.Context, w io.Writer) int {
			return runNickname(ctx, w, args[0])
		})
	},
}

func init() {
	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd, nicknameCmd)
	loginCmd.Flags().StringVar(&loginToken, "token", "", "Access token to store instead of opening the browser")
}

// runLogin signs in and returns exit code
func runLogin(ctx context.Context, w io.Writer, token string) int {
	rt, err := newRuntime(false)
	if err != nil {
		return fail(w, err)
	}
	defer rt.Close()

	if token == "" {
		token, err = waitForCallback(ctx, w, rt)
		if err != nil {
			return fail(w, err)
		}
	}

	state, err := rt.session.SetToken(ctx, token)
	if err != nil {
		return fail(w, err)
	}
	if !state.IsAuthenticated() {
		fmt.Fprintln(w, "Error: sign-in failed, the token was rejected")
		return exitFailed
	}

	emit(w, state, func() string {
		msg := "Signed in as " + state.User.DisplayName()
		if state.NeedsNickname {
			msg += "\nPick an alias with 'delcarajo nickname <alias>' to continue."
		}
		return msg
	})
	return exitOK
}

func waitForCallback(ctx context.Context, w io.Writer, rt *runtime) (string, error) {
	cs, err := session.ListenCallback(fmt.Sprintf("127.0.0.1:%d", rt.cfg.CallbackPort))
	if err != nil {
		return "", err
	}
	defer cs.Close()

	fmt.Fprintf(diagOut, "Waiting for sign-in on %s\n", cs.URL())
	if err := rt.session.Login(); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, loginWaitTimeout)
	defer cancel()
	return cs.Wait(ctx)
}

// runLogout signs out and returns exit code
func runLogout(ctx context.Context, w io.Writer) int {
	rt, err := newRuntime(false)
	if err != nil {
		return fail(w, err)
	}
	defer rt.Close()

	rt.session.Logout(ctx)
	emit(w, map[string]bool{"signedOut": true}, func() string {
		return "Signed out"
	})
	return exitOK
}

// runWhoami shows the session and returns exit code
func runWhoami(ctx context.Context, w io.Writer) int {
	rt, err := newRuntime(false)
	if err != nil {
		return fail(w, err)
	}
	defer rt.Close()

	state := rt.session.CheckAuth(ctx)
	if !state.IsAuthenticated() {
		emit(w, state, func() string {
			return "Not signed in. Run 'delcarajo login'."
		})
		return exitInvalid
	}

	emit(w, state, func() string { return formatSessionHuman(state) })
	return exitOK
}

// runNickname saves the alias and returns exit code
func runNickname(ctx context.Context, w io.Writer, alias string) int {
	rt, err := newRuntime(false)
	if err != nil {
		return fail(w, err)
	}
	defer rt.Close()

	user, err := rt.session.SetNickname(ctx, alias)
	if err != nil {
		return fail(w, err)
	}
	emit(w, user, func() string {
		return "Alias set to " + user.Nickname
	})
	return exitOK
}

// formatSessionHuman formats the signed-in user for human readability
func formatSessionHuman(state session.State) string {
	u := state.User
	var sb strings.Builder
	fmt.Fprintf(&sb, "Name:      %s\n", u.Name)
	fmt.Fprintf(&sb, "Email:     %s\n", u.Email)
	nick := u.Nickname
	if state.NeedsNickname {
		nick = "(not set)"
	}
	fmt.Fprintf(&sb, "Alias:     %s\n", nick)
	fmt.Fprintf(&sb, "Role:      %s", u.Role)
	if state.TokenExpiresAt != nil {
		fmt.Fprintf(&sb, "\nToken:     expires %s", humanize.Time(*state.TokenExpiresAt))
	}
	return sb.String()
}
