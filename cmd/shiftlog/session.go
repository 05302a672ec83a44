package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rongwang/shiftlog-server/internal/client"
	"github.com/rongwang/shiftlog-server/internal/models"
	"github.com/rongwang/shiftlog-server/internal/utils"
)

const defaultServerURL = "http://localhost:8080"

// session carries the global flags into each command
type session struct {
	server  string
	verbose bool
}

func defaultServer() string {
	if s := os.Getenv("SHIFTLOG_SERVER"); s != "" {
		return s
	}
	return defaultServerURL
}

func (s *session) logger() *zap.Logger {
	if !s.verbose {
		return zap.NewNop()
	}
	logger, err := utils.NewLogger("debug", "console", "shiftlog")
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// anonymous returns a client without credentials.
func (s *session) anonymous() *client.Client {
	return client.New(s.server, s.logger())
}

// authenticated returns a client carrying the stored token.
func (s *session) authenticated() (*client.Client, error) {
	token, err := loadToken()
	if err != nil {
		return nil, err
	}
	c := s.anonymous()
	c.SetToken(token)
	return c, nil
}

func tokenPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate home directory: %w", err)
	}
	return filepath.Join(home, ".shiftlog", "token"), nil
}

func saveToken(token string) error {
	path, err := tokenPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create token directory: %w", err)
	}
	return os.WriteFile(path, []byte(token+"\n"), 0o600)
}

var errNotLoggedIn = errors.New(`not logged in, run "shiftlog login" first`)

func loadToken() (string, error) {
	path, err := tokenPath()
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", errNotLoggedIn
	}
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", errNotLoggedIn
	}
	return token, nil
}

func removeToken() error {
	path, err := tokenPath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func loginCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")

			auth, err := s.anonymous().Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			if err := saveToken(auth.Token); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", highlight(auth.Name))
			return nil
		},
	}
	cmd.Flags().String("email", "", "account email")
	cmd.Flags().String("password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

// logoutCmd discards the stored token; the server keeps no session state.
func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := removeToken(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func signupCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			var req models.SignUpRequest
			req.Email, _ = cmd.Flags().GetString("email")
			req.Password, _ = cmd.Flags().GetString("password")
			req.Name, _ = cmd.Flags().GetString("name")

			auth, err := s.anonymous().SignUp(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Account %s created\n", highlight(auth.Email))
			return nil
		},
	}
	cmd.Flags().String("email", "", "account email")
	cmd.Flags().String("password", "", "password, at least 8 characters")
	cmd.Flags().String("name", "", "display name shown on entries and handovers")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func whoamiCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := s.authenticated()
			if err != nil {
				return err
			}
			me, err := c.Me(cmd.Context())
			if err != nil {
				return err
			}
			role := "operator"
			if me.IsAdmin {
				role = "admin"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) %s\n", highlight(me.DisplayName), role, dim(me.ID))
			return nil
		},
	}
}
