// Package registry holds the email to TOTP secret mapping loaded at start-up.
package registry

import (
	"strings"
)

// Registry maps lower-cased emails to base32 TOTP secrets. It is read-only
// after New and safe for concurrent use.
type Registry struct {
	secrets map[string]string
}

// New parses "email:secret,email:secret". Entries without ':' or with an
// empty email or secret are skipped. Later duplicates win.
func New(pairs string) *Registry {
	secrets := make(map[string]string)

	for _, pair := range strings.Split(pairs, ",") {
		email, secret, ok := strings.Cut(pair, ":")
		if !ok {
			continue
		}

		email = normalize(email)
		secret = strings.TrimSpace(secret)
		if email == "" || secret == "" {
			continue
		}

		secrets[email] = secret
	}

	return &Registry{secrets: secrets}
}

// Lookup returns the secret registered for email, ignoring case and
// surrounding spaces.
func (r *Registry) Lookup(email string) (string, bool) {
	secret, ok := r.secrets[normalize(email)]
	return secret, ok
}

// Len returns the number of registered emails.
func (r *Registry) Len() int {
	return len(r.secrets)
}

func normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
