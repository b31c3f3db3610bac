package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Kyrilous/AutoLogg/internal/server/config"
	"github.com/Kyrilous/AutoLogg/internal/server/identity"
)

// newDevTokenCmd mints a token signed with the development secret so the
// full flow can be exercised without the real identity provider.
func newDevTokenCmd() *cobra.Command {
	var uid, secret, issuer, audience string
	var ttl time.Duration
	cmd := &cobra.Command{
		Use:   "devtoken",
		Short: "Mint a development bearer token",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := identity.Issue(secret, issuer, audience, uid, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&uid, "uid", "", "Subject id to embed in the token")
	cmd.Flags().StringVar(&secret, "secret", config.DevVerifierSecret, "Signing secret (must match the server)")
	cmd.Flags().StringVar(&issuer, "issuer", "", "Issuer claim")
	cmd.Flags().StringVar(&audience, "audience", "", "Audience claim")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	_ = cmd.MarkFlagRequired("uid")
	return cmd
}
