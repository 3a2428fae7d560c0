package clientcli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// Formatter formats results for output.
type Formatter interface {
	FormatPush(w io.Writer, results []PushResult) error
	FormatPing(w io.Writer, result PingResult) error
	FormatError(w io.Writer, err error) error
	FormatProfileList(w io.Writer, profiles []Profile, defaultName string, showSecrets bool) error
	FormatProfileShow(w io.Writer, profile Profile, isDefault, showSecrets bool) error
}

// NewFormatter returns the appropriate formatter based on flags.
func NewFormatter(jsonOutput, quiet bool) Formatter {
	if jsonOutput {
		return &JSONFormatter{}
	}
	return &HumanFormatter{Quiet: quiet}
}

// HumanFormatter outputs human-readable text.
type HumanFormatter struct {
	Quiet bool
}

// FormatPush formats push results as human-readable text.
func (f *HumanFormatter) FormatPush(w io.Writer, results []PushResult) error {
	for i := range results {
		r := &results[i]
		if r.Err != nil {
			_, _ = fmt.Fprintf(w, "Error: %s - %v\n", displayPath(r.LocalPath), r.Err)
			continue
		}
		if !f.Quiet {
			_, _ = fmt.Fprintf(w, "Pushed: %s -> %s/%s (%s)\n",
				displayPath(r.LocalPath), orDefault(r.Site), orDefault(r.Camera), formatSize(r.Size))
			_, _ = fmt.Fprintf(w, "  %d %s\n", r.StatusCode, r.Message)
		}
	}
	return nil
}

// FormatPing formats a readiness check as human-readable text.
func (f *HumanFormatter) FormatPing(w io.Writer, result PingResult) error {
	if f.Quiet {
		return nil
	}
	_, _ = fmt.Fprintf(w, "%s: %s (%d, %s)\n",
		result.Endpoint, result.Message, result.StatusCode, result.Latency.Round(time.Millisecond))
	return nil
}

// FormatError formats an error as human-readable text.
func (f *HumanFormatter) FormatError(w io.Writer, err error) error {
	_, _ = fmt.Fprintf(w, "Error: %v\n", err)
	return nil
}

// FormatProfileList formats a list of profiles as human-readable text.
func (f *HumanFormatter) FormatProfileList(w io.Writer, profiles []Profile, defaultName string, showSecrets bool) error {
	if len(profiles) == 0 {
		_, _ = fmt.Fprintln(w, "No profiles configured")
		return nil
	}

	// Calculate column widths
	maxNameLen := 4     // "NAME"
	maxEndpointLen := 8 // "ENDPOINT"
	for i := range profiles {
		if len(profiles[i].Name) > maxNameLen {
			maxNameLen = len(profiles[i].Name)
		}
		if len(profiles[i].Endpoint) > maxEndpointLen {
			maxEndpointLen = len(profiles[i].Endpoint)
		}
	}
	if maxNameLen > 20 {
		maxNameLen = 20
	}
	if maxEndpointLen > 50 {
		maxEndpointLen = 50
	}

	// Print header
	_, _ = fmt.Fprintf(w, "  %-*s  %-*s  %s\n", maxNameLen, "NAME", maxEndpointLen, "ENDPOINT", "AUTH")
	_, _ = fmt.Fprintf(w, "  %s  %s  %s\n", strings.Repeat("-", maxNameLen), strings.Repeat("-", maxEndpointLen), strings.Repeat("-", 20))

	// Print profiles
	for i := range profiles {
		p := &profiles[i]
		marker := " "
		if p.Name == defaultName {
			marker = "*"
		}

		name := p.Name
		if len(name) > maxNameLen {
			name = name[:maxNameLen-3] + "..."
		}

		endpoint := p.Endpoint
		if len(endpoint) > maxEndpointLen {
			endpoint = endpoint[:maxEndpointLen-3] + "..."
		}

		_, _ = fmt.Fprintf(w, "%s %-*s  %-*s  %s\n", marker, maxNameLen, name, maxEndpointLen, endpoint, authSummary(p, showSecrets))
	}

	return nil
}

// FormatProfileShow formats a single profile as human-readable text.
func (f *HumanFormatter) FormatProfileShow(w io.Writer, profile Profile, isDefault, showSecrets bool) error {
	_, _ = fmt.Fprintf(w, "Name:     %s", profile.Name)
	if isDefault {
		_, _ = fmt.Fprintf(w, " (default)")
	}
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintf(w, "Endpoint: %s\n", profile.Endpoint)
	_, _ = fmt.Fprintf(w, "Token:    %s\n", maskSecret(profile.Token, showSecrets))
	_, _ = fmt.Fprintf(w, "Username: %s\n", orNotSet(profile.Username))
	_, _ = fmt.Fprintf(w, "Password: %s\n", maskSecret(profile.Password, showSecrets))
	_, _ = fmt.Fprintf(w, "Site:     %s\n", orDefault(profile.Site))
	_, _ = fmt.Fprintf(w, "Camera:   %s\n", orDefault(profile.Camera))
	return nil
}

// JSONFormatter outputs JSON.
type JSONFormatter struct{}

// FormatPush formats push results as JSON.
func (f *JSONFormatter) FormatPush(w io.Writer, results []PushResult) error {
	// Convert errors to strings for JSON output
	type jsonResult struct {
		LocalPath  string `json:"local_path"`
		Site       string `json:"site,omitempty"`
		Camera     string `json:"camera,omitempty"`
		Size       int64  `json:"size_bytes,omitempty"`
		StatusCode int    `json:"status_code,omitempty"`
		Message    string `json:"message,omitempty"`
		Error      string `json:"error,omitempty"`
	}

	output := make([]jsonResult, len(results))
	for i := range results {
		r := &results[i]
		jr := jsonResult{
			LocalPath: r.LocalPath,
			Site:      r.Site,
			Camera:    r.Camera,
		}
		if r.Err != nil {
			jr.Error = r.Err.Error()
		} else {
			jr.Size = r.Size
			jr.StatusCode = r.StatusCode
			jr.Message = r.Message
		}
		output[i] = jr
	}

	return writeJSON(w, output)
}

// FormatPing formats a readiness check as JSON.
func (f *JSONFormatter) FormatPing(w io.Writer, result PingResult) error {
	return writeJSON(w, result)
}

// FormatError formats an error as JSON.
func (f *JSONFormatter) FormatError(w io.Writer, err error) error {
	output := struct {
		Error string `json:"error"`
	}{
		Error: err.Error(),
	}
	return writeJSON(w, output)
}

type jsonProfile struct {
	Name     string `json:"name"`
	Endpoint string `json:"endpoint"`
	Token    string `json:"token,omitempty"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
	Site     string `json:"site,omitempty"`
	Camera   string `json:"camera,omitempty"`
	Default  bool   `json:"default"`
}

func newJSONProfile(p *Profile, isDefault, showSecrets bool) jsonProfile {
	jp := jsonProfile{
		Name:     p.Name,
		Endpoint: p.Endpoint,
		Username: p.Username,
		Site:     p.Site,
		Camera:   p.Camera,
		Default:  isDefault,
	}
	if p.Token != "" {
		jp.Token = maskSecret(p.Token, showSecrets)
	}
	if p.Password != "" {
		jp.Password = maskSecret(p.Password, showSecrets)
	}
	return jp
}

// FormatProfileList formats a list of profiles as JSON.
func (f *JSONFormatter) FormatProfileList(w io.Writer, profiles []Profile, defaultName string, showSecrets bool) error {
	output := struct {
		Profiles []jsonProfile `json:"profiles"`
	}{
		Profiles: make([]jsonProfile, len(profiles)),
	}

	for i := range profiles {
		output.Profiles[i] = newJSONProfile(&profiles[i], profiles[i].Name == defaultName, showSecrets)
	}

	return writeJSON(w, output)
}

// FormatProfileShow formats a single profile as JSON.
func (f *JSONFormatter) FormatProfileShow(w io.Writer, profile Profile, isDefault, showSecrets bool) error {
	return writeJSON(w, newJSONProfile(&profile, isDefault, showSecrets))
}

// writeJSON writes a value as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// formatSize formats bytes as human-readable size.
func formatSize(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

func authSummary(p *Profile, showSecrets bool) string {
	switch {
	case p.Username != "":
		return "basic " + p.Username
	case p.Token != "":
		return "token " + maskSecret(p.Token, showSecrets)
	default:
		return "(none)"
	}
}

func displayPath(path string) string {
	if path == "" {
		return "(stdin)"
	}
	return path
}

func orDefault(s string) string {
	if s == "" {
		return "(default)"
	}
	return s
}

func orNotSet(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}

// maskSecret masks a secret string, showing only first 4 and last 4 characters.
// If showSecrets is true, returns the original value.
// If the secret is too short, returns all asterisks.
func maskSecret(secret string, showSecrets bool) string {
	if showSecrets {
		return secret
	}
	if secret == "" {
		return "(not set)"
	}
	if len(secret) <= 8 {
		return "********"
	}
	return secret[:4] + "..." + secret[len(secret)-4:]
}
