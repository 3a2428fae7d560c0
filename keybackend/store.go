package keybackend

// CredentialsConfig holds the basic auth user sources.
type CredentialsConfig struct {
	Username string // configured upload.username
	Password string // configured upload.password
	File     string // path to JSON file containing more credentials
}

// NewCredentialStore creates a MapCredentialStore from the given configuration.
// The configured username/password pair takes precedence over an entry
// with the same username in the file.
func NewCredentialStore(cfg CredentialsConfig) (*MapCredentialStore, error) {
	users := make(map[string]string)

	if cfg.File != "" {
		fileUsers, err := LoadCredentialsFromFile(cfg.File)
		if err != nil {
			return nil, err
		}
		for u, p := range fileUsers {
			users[u] = p
		}
	}

	if cfg.Username != "" && cfg.Password != "" {
		users[cfg.Username] = cfg.Password
	}

	return NewMapCredentialStore(users), nil
}
