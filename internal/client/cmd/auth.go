package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Kyrilous/AutoLogg/internal/client/tokenstore"
)

// newLoginCmd stores a provider-issued bearer token encrypted under a
// passphrase. Token issuance itself happens at the identity provider (or
// via `autologg devtoken` during development).
func newLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Store a bearer token for later requests",
		RunE: func(cmd *cobra.Command, args []string) error {
			reader := bufio.NewReader(cmd.InOrStdin())
			fmt.Fprint(cmd.OutOrStdout(), "Token: ")
			token, _ := reader.ReadString('\n')
			token = strings.TrimSpace(token)
			if token == "" {
				return fmt.Errorf("empty token")
			}
			passphrase, err := promptPassphrase(cmd, "Passphrase: ")
			if err != nil {
				return err
			}
			store := tokenstore.New(tokenstore.DefaultPath())
			if err := store.Save(token, passphrase); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Token stored")
			return nil
		},
	}
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored bearer token",
		RunE: func(cmd *cobra.Command, args []string) error {
			store := tokenstore.New(tokenstore.DefaultPath())
			if err := store.Delete(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func promptPassphrase(cmd *cobra.Command, prompt string) ([]byte, error) {
	fmt.Fprint(cmd.OutOrStdout(), prompt)
	pass, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(cmd.OutOrStdout())
	return pass, err
}

func loadBearer(cmd *cobra.Command) (string, error) {
	store := tokenstore.New(tokenstore.DefaultPath())
	passphrase, err := promptPassphrase(cmd, "Passphrase: ")
	if err != nil {
		return "", err
	}
	return store.Load(passphrase)
}
