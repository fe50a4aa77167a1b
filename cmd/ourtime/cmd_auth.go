package main

import (
	"context"
	"fmt"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"ourtime/internal/api"
)

const cmdTimeout = 30 * time.Second

var loginEmail string

// loginCmd signs in and persists the token pair.
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the session",
	Long: `Signs in with email and password and stores the returned token pair
under the config directory. The password is read from the terminal, never
from arguments.`,
	RunE: runLogin,
}

func runLogin(cmd *cobra.Command, args []string) error {
	st, err := newStack()
	if err != nil {
		return err
	}

	email := loginEmail
	if email == "" {
		fmt.Print("email: ")
		if _, err := fmt.Scanln(&email); err != nil {
			return err
		}
	}
	fmt.Print("password: ")
	pw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cmdTimeout)
	defer cancel()
	resp, err := st.client.Login(ctx, api.LoginRequest{Email: email, Password: string(pw)})
	if err != nil {
		return err
	}
	if err := st.sess.SetPair(resp.AccessToken, resp.RefreshToken); err != nil {
		return err
	}
	logger.Info("signed in", zap.String("email", resp.User.Email))
	fmt.Printf("signed in as %s (%s)\n", resp.User.Nickname, resp.User.Email)
	return nil
}

var (
	signupEmail    string
	signupNickname string
)

// signupCmd creates an account and signs straight in.
var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := newStack()
		if err != nil {
			return err
		}
		if signupEmail == "" || signupNickname == "" {
			return fmt.Errorf("--email and --nickname are required")
		}
		fmt.Print("password (8+ characters): ")
		pw, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), cmdTimeout)
		defer cancel()
		resp, err := st.client.Signup(ctx, api.SignupRequest{
			Email:    signupEmail,
			Nickname: signupNickname,
			Password: string(pw),
		})
		if err != nil {
			return err
		}
		if err := st.sess.SetPair(resp.AccessToken, resp.RefreshToken); err != nil {
			return err
		}
		fmt.Printf("welcome, %s\n", resp.User.Nickname)
		return nil
	},
}

// logoutCmd ends the session. The stored tokens clear even when the server
// call fails.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and drop the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := newStack()
		if err != nil {
			return err
		}
		if st.sess.LoggedIn() {
			ctx, cancel := context.WithTimeout(cmd.Context(), cmdTimeout)
			defer cancel()
			if err := st.client.Logout(ctx); err != nil {
				logger.Warn("server logout failed", zap.Error(err))
			}
		}
		if err := st.sess.Clear(); err != nil {
			return err
		}
		fmt.Println("signed out")
		return nil
	},
}

// whoamiCmd prints the signed-in profile.
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := newStack()
		if err != nil {
			return err
		}
		if err := st.requireLogin(); err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), cmdTimeout)
		defer cancel()
		me, err := st.client.Me(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("%s <%s>\n", me.Nickname, me.Email)
		if info, ok := st.sess.Info(); ok {
			fmt.Printf("session expires %s\n", info.ExpiresAt.Format(time.RFC3339))
		}
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "account email")
	signupCmd.Flags().StringVar(&signupEmail, "email", "", "account email")
	signupCmd.Flags().StringVar(&signupNickname, "nickname", "", "display name")

	rootCmd.AddCommand(loginCmd, signupCmd, logoutCmd, whoamiCmd)
}
