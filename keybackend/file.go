package keybackend

import (
	"encoding/json"
	"fmt"
	"os"
)

// Credential is a username and password pair.
type Credential struct {
	Username string `json:"username" mapstructure:"username"`
	Password string `json:"password" mapstructure:"password"`
}

// LoadCredentialsFromFile loads credentials from a JSON file.
// The file should contain an array of credentials:
//
//	[
//	  {"username": "lobby-cam", "password": "..."},
//	  {"username": "gate-cam", "password": "..."}
//	]
//
// Entries with an empty username or password are skipped.
func LoadCredentialsFromFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Path is from trusted config file
	if err != nil {
		return nil, fmt.Errorf("read credentials file: %w", err)
	}

	var creds []Credential
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("parse credentials file: %w", err)
	}

	users := make(map[string]string, len(creds))
	for _, c := range creds {
		if c.Username != "" && c.Password != "" {
			users[c.Username] = c.Password
		}
	}

	return users, nil
}
