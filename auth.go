package camupload

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
)

// TokenParam is the query parameter carrying the upload token.
const TokenParam = "token"

// Authenticator decides whether an upload request may be stored.
// Implementations read only the request and their configured secret.
type Authenticator interface {
	Authenticate(r *http.Request) bool
	Mode() AuthMode
}

// TokenAuth accepts requests whose token query parameter equals Token.
// An empty Token matches a request without a token.
type TokenAuth struct {
	Token string
}

// NewTokenAuth creates a TokenAuth for the shared token.
func NewTokenAuth(token string) *TokenAuth {
	return &TokenAuth{Token: token}
}

func (a *TokenAuth) Authenticate(r *http.Request) bool {
	if r == nil || r.URL == nil {
		return false
	}
	supplied := r.URL.Query().Get(TokenParam)
	return subtle.ConstantTimeCompare([]byte(supplied), []byte(a.Token)) == 1
}

func (a *TokenAuth) Mode() AuthMode {
	return AuthToken
}

// BasicAuth accepts requests carrying HTTP basic credentials known to its store.
type BasicAuth struct {
	Realm string
	store CredentialStore
}

// NewBasicAuth creates a BasicAuth backed by store. Realm is sent in the
// WWW-Authenticate challenge.
func NewBasicAuth(realm string, store CredentialStore) *BasicAuth {
	return &BasicAuth{Realm: realm, store: store}
}

func (a *BasicAuth) Authenticate(r *http.Request) bool {
	if r == nil || a.store == nil {
		return false
	}

	username, password, ok := r.BasicAuth()
	if !ok {
		return false
	}

	expected, err := a.store.Lookup(username)
	if err != nil {
		return false
	}

	return subtle.ConstantTimeCompare([]byte(password), []byte(expected)) == 1
}

func (a *BasicAuth) Mode() AuthMode {
	return AuthBasic
}

// Challenge returns the WWW-Authenticate header value for a rejected request.
func (a *BasicAuth) Challenge() string {
	return fmt.Sprintf("Basic realm=%q", a.Realm)
}

// AuthConfig holds the settings for both strategies; Mode picks one.
type AuthConfig struct {
	Mode  AuthMode
	Token string
	Realm string
	Store CredentialStore
}

// NewAuthenticator builds the single authenticator selected by cfg.Mode.
func NewAuthenticator(cfg AuthConfig) (Authenticator, error) {
	switch cfg.Mode {
	case AuthToken:
		return NewTokenAuth(cfg.Token), nil
	case AuthBasic:
		if cfg.Store == nil {
			return nil, fmt.Errorf("new authenticator: basic auth needs a credential store: %w", ErrInvalidInput)
		}
		return NewBasicAuth(cfg.Realm, cfg.Store), nil
	default:
		return nil, errors.Join(fmt.Errorf("new authenticator: unknown mode %q", cfg.Mode), ErrInvalidInput)
	}
}
