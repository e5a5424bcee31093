package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/moazmaksod/YourContactMerger/internal/sources/addressbook"
	"github.com/moazmaksod/YourContactMerger/pkg/errors"
)

var authFlags struct {
	clientSecret string
	tokenFile    string
}

// authCmd bootstraps the People API token.
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authorize People API access",
	Long: `Auth runs the OAuth authorization-code flow for read-only contact
access and saves the resulting token for later merge runs.

Visit the printed URL, grant access, and paste the authorization code
back into the prompt.`,
	RunE: runAuth,
}

func init() {
	rootCmd.AddCommand(authCmd)

	authCmd.Flags().StringVar(&authFlags.clientSecret, "client-secret", "client_secret.json", "OAuth client secret file")
	authCmd.Flags().StringVar(&authFlags.tokenFile, "token", "token.json", "file to save the OAuth token to")
}

func runAuth(cmd *cobra.Command, _ []string) error {
	conf, err := addressbook.OAuthConfig(authFlags.clientSecret)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Visit the following URL to authorize access:\n\n%s\n\n", addressbook.AuthURL(conf))
	fmt.Fprint(cmd.OutOrStdout(), "Authorization code: ")

	reader := bufio.NewReader(cmd.InOrStdin())
	code, err := reader.ReadString('\n')
	if err != nil {
		return errors.WrapIO("read", "stdin", err)
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return errors.NewValidationError("code", nil, "authorization code cannot be empty")
	}

	tok, err := addressbook.Exchange(cmd.Context(), conf, code)
	if err != nil {
		return err
	}
	if err := addressbook.SaveToken(authFlags.tokenFile, tok); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Token saved to %s\n", authFlags.tokenFile)
	return nil
}
