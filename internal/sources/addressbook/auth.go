package addressbook

import (
	"context"
	"encoding/json"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	people "google.golang.org/api/people/v1"

	"github.com/moazmaksod/YourContactMerger/pkg/errors"
)

// OAuthConfig parses an OAuth client-secret JSON file into a config scoped
// for read-only contact access.
func OAuthConfig(clientSecretPath string) (*oauth2.Config, error) {
	data, err := os.ReadFile(clientSecretPath)
	if err != nil {
		return nil, errors.WrapIO("read", clientSecretPath, err)
	}
	conf, err := google.ConfigFromJSON(data, people.ContactsReadonlyScope)
	if err != nil {
		return nil, errors.WrapParse("json", clientSecretPath, err)
	}
	return conf, nil
}

// LoadToken reads a previously saved OAuth token.
func LoadToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewAuthenticationError(
			"people-api", "token_file", "no saved token; run the auth command first", err)
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, errors.WrapParse("json", path, err)
	}
	return &tok, nil
}

// SaveToken writes an OAuth token to path with owner-only permissions.
func SaveToken(path string, tok *oauth2.Token) error {
	data, err := json.Marshal(tok)
	if err != nil {
		return errors.WrapParse("json", path, err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}

// AuthURL returns the offline-access authorization URL the user must visit.
func AuthURL(conf *oauth2.Config) string {
	return conf.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
}

// Exchange trades an authorization code for a token.
func Exchange(ctx context.Context, conf *oauth2.Config, code string) (*oauth2.Token, error) {
	tok, err := conf.Exchange(ctx, code)
	if err != nil {
		return nil, errors.NewAuthenticationError(
			"people-api", "oauth", "authorization code exchange failed", err)
	}
	return tok, nil
}
