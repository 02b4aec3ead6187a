package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Login command flags.
var (
	loginUsername      string
	loginPassword      string
	loginPasswordStdin bool
)

var loginCmd = &cobra.Command{
	Use:   "login <server>",
	Short: "Log in to an OCI registry",
	Long: `Login validates credentials against a registry and stores them on success.

The server may be a bare host or a URL; both resolve to the same host key.
Without --password or --password-stdin, the password is prompted without echo.

Examples:
  spindle login ghcr.io --username octocat
  echo "$TOKEN" | spindle login ghcr.io --username octocat --password-stdin`,
	Args: cobra.ExactArgs(1),
	RunE: runLogin,
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "Registry username")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Registry password or token")
	loginCmd.Flags().BoolVar(&loginPasswordStdin, "password-stdin", false, "Read the password from stdin")
	rootCmd.AddCommand(loginCmd)
}

func runLogin(_ *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	if loginUsername == "" {
		return errors.New("--username is required")
	}

	password, err := resolvePassword()
	if err != nil {
		return err
	}

	client, err := newClient()
	if err != nil {
		return err
	}

	if err := client.Login(ctx, args[0], loginUsername, password); err != nil {
		return err
	}

	fmt.Println("Login succeeded")
	return nil
}

func resolvePassword() (string, error) {
	switch {
	case loginPasswordStdin:
		data, err := io.ReadAll(bufio.NewReader(os.Stdin))
		if err != nil {
			return "", fmt.Errorf("read password from stdin: %w", err)
		}
		return strings.TrimSuffix(strings.TrimSuffix(string(data), "\n"), "\r"), nil
	case loginPassword != "":
		return loginPassword, nil
	default:
		fmt.Fprint(os.Stderr, "Password: ")
		data, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(data), nil
	}
}
