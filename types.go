package camupload

import (
	"fmt"
	"net/http"
)

// Method is the dispatch tag for an inbound request.
type Method int

const (
	MethodOther Method = iota
	MethodGet
	MethodHead
	MethodPost
)

// ParseMethod maps an HTTP method name to its dispatch tag. Anything the
// server does not handle maps to MethodOther.
func ParseMethod(s string) Method {
	switch s {
	case http.MethodGet:
		return MethodGet
	case http.MethodHead:
		return MethodHead
	case http.MethodPost:
		return MethodPost
	default:
		return MethodOther
	}
}

func (m Method) String() string {
	switch m {
	case MethodGet:
		return http.MethodGet
	case MethodHead:
		return http.MethodHead
	case MethodPost:
		return http.MethodPost
	default:
		return "OTHER"
	}
}

// AuthMode selects the authentication strategy of a deployment.
type AuthMode string

const (
	AuthToken AuthMode = "token"
	AuthBasic AuthMode = "basic"
)

func (m AuthMode) IsValid() bool {
	switch m {
	case AuthToken, AuthBasic:
		return true
	default:
		return false
	}
}

func ParseAuthMode(s string) (AuthMode, error) {
	mode := AuthMode(s)
	if !mode.IsValid() {
		return "", fmt.Errorf("invalid auth mode: %s (valid modes: token, basic)", s)
	}
	return mode, nil
}

// SaveResult describes a stored upload. Checksum is the hex SHA-256 of the
// bytes written.
type SaveResult struct {
	Path         string
	BytesWritten int64
	Checksum     string
}

// CredentialStore looks up the password configured for a username.
// Implementations return ErrUnauthorized when the user is unknown.
type CredentialStore interface {
	Lookup(username string) (string, error)
}
