// ABOUTME: Helpers for the OAuth redirect login flow
// ABOUTME: Builds provider login URLs and extracts tokens from the callback URL

package auth

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var ErrNoSocialToken = errors.New("callback URL carries no access_token")

// SocialProviders lists the providers the backend has configured
var SocialProviders = []string{"google", "facebook"}

// SocialLoginURL returns the page that starts the OAuth flow for provider
func SocialLoginURL(oauthBase, provider string) (string, error) {
	provider = strings.ToLower(strings.TrimSpace(provider))
	for _, p := range SocialProviders {
		if p == provider {
			return strings.TrimSuffix(oauthBase, "/") + "/accounts/" + provider + "/login/", nil
		}
	}
	return "", fmt.Errorf("unknown provider %q (expected one of %s)", provider, strings.Join(SocialProviders, ", "))
}

// ParseSocialCallback extracts the tokens the backend appended to its
// post-login redirect: ?access_token=...&token_type=Bearer[&refresh_token=...]
func ParseSocialCallback(raw string) (access, refresh string, err error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", "", fmt.Errorf("invalid callback URL: %w", err)
	}

	q := u.Query()
	if tokenType := q.Get("token_type"); tokenType != "" && !strings.EqualFold(tokenType, "bearer") {
		return "", "", fmt.Errorf("unsupported token_type %q", tokenType)
	}

	access = q.Get("access_token")
	if access == "" {
		return "", "", ErrNoSocialToken
	}
	return access, q.Get("refresh_token"), nil
}
