package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultFile is the configuration file used when none is given.
const DefaultFile = "configGmailAccount.json"

// Default values for optional keys.
const (
	DefaultDispose           = "read"
	DefaultCheckEverySeconds = 3600
	DefaultMimeType          = "image/"
	DefaultApplication       = "inboxsaver"
)

// Disposition is what happens to a message after its attachments were saved.
type Disposition int

const (
	DispositionNone Disposition = iota
	DispositionRead
	DispositionTrash
	DispositionUnlabel
)

// ParseDisposition maps a dispose value to a Disposition. Unknown values map
// to DispositionNone and ok is false.
func ParseDisposition(s string) (d Disposition, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "read":
		return DispositionRead, true
	case "trash":
		return DispositionTrash, true
	case "unlabel":
		return DispositionUnlabel, true
	case "none":
		return DispositionNone, true
	}
	return DispositionNone, false
}

func (d Disposition) String() string {
	switch d {
	case DispositionRead:
		return "read"
	case DispositionTrash:
		return "trash"
	case DispositionUnlabel:
		return "unlabel"
	default:
		return "none"
	}
}

// Config is the validated account configuration.
type Config struct {
	Application    string
	CredentialFile string
	TokenFile      string
	Label          string
	Disposition    Disposition
	// RawDispose keeps the configured value so an unrecognized one can be
	// reported.
	RawDispose        string
	PollInterval      time.Duration
	ContentTypePrefix string
	DownloadDirectory string
	CaptureRawEncoded bool
	// CaptureDirectory receives <filename>.base64 files. Empty means the
	// working directory.
	CaptureDirectory     string
	AllowUnsafeFilenames bool
	RequestsPerSecond    float64
	Verbose              bool
}

// OneShot reports whether a single pass should run.
func (c *Config) OneShot() bool {
	return c.PollInterval == 0
}

// DispositionRecognized reports whether the configured dispose value was one
// of read, trash, unlabel or none.
func (c *Config) DispositionRecognized() bool {
	_, ok := ParseDisposition(c.RawDispose)
	return ok
}

// file mirrors the on-disk schema. Pointers distinguish missing keys from
// zero values.
type file struct {
	Application          string   `json:"application" yaml:"application"`
	CredentialFile       string   `json:"credentialFile" yaml:"credentialFile"`
	CredentialFileAlias  string   `json:"credential_file" yaml:"credential_file"`
	TokenFile            string   `json:"tokenFile" yaml:"tokenFile"`
	TokenFileAlias       string   `json:"authentication_file" yaml:"authentication_file"`
	Label                string   `json:"label" yaml:"label"`
	Dispose              *string  `json:"dispose" yaml:"dispose"`
	CheckEverySeconds    *int     `json:"checkEverySeconds" yaml:"checkEverySeconds"`
	MimeType             *string  `json:"mimeType" yaml:"mimeType"`
	DownloadDirectory    string   `json:"downloadDirectory" yaml:"downloadDirectory"`
	CaptureBase64        *bool    `json:"captureBase64" yaml:"captureBase64"`
	CaptureBase64Alias   *bool    `json:"capture_base64" yaml:"capture_base64"`
	CaptureDirectory     string   `json:"captureDirectory" yaml:"captureDirectory"`
	AllowUnsafeFilenames bool     `json:"allowUnsafeFilenames" yaml:"allowUnsafeFilenames"`
	RequestsPerSecond    *float64 `json:"requestsPerSecond" yaml:"requestsPerSecond"`
	Verbose              bool     `json:"verbose" yaml:"verbose"`
}

// Load reads and validates the configuration at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return Parse(data, formatFor(path))
}

// Format is the encoding of a configuration file.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

func formatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Parse decodes and validates configuration data.
func Parse(data []byte, format Format) (*Config, error) {
	var f file
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, &ConfigError{Reason: "invalid YAML", Err: err}
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&f); err != nil {
			return nil, &ConfigError{Reason: "invalid JSON", Err: err}
		}
	}
	return f.build()
}

func (f *file) build() (*Config, error) {
	cfg := &Config{
		Application:          firstNonEmpty(f.Application, DefaultApplication),
		CredentialFile:       firstNonEmpty(f.CredentialFile, f.CredentialFileAlias),
		TokenFile:            firstNonEmpty(f.TokenFile, f.TokenFileAlias),
		Label:                f.Label,
		RawDispose:           DefaultDispose,
		PollInterval:         DefaultCheckEverySeconds * time.Second,
		ContentTypePrefix:    DefaultMimeType,
		DownloadDirectory:    ExpandPath(f.DownloadDirectory),
		CaptureDirectory:     ExpandPath(f.CaptureDirectory),
		AllowUnsafeFilenames: f.AllowUnsafeFilenames,
		Verbose:              f.Verbose,
	}
	if f.Dispose != nil {
		cfg.RawDispose = *f.Dispose
	}
	cfg.Disposition, _ = ParseDisposition(cfg.RawDispose)
	if f.CheckEverySeconds != nil {
		if *f.CheckEverySeconds < 0 {
			return nil, &ConfigError{Key: "checkEverySeconds", Reason: "must not be negative"}
		}
		cfg.PollInterval = time.Duration(*f.CheckEverySeconds) * time.Second
	}
	if f.MimeType != nil {
		cfg.ContentTypePrefix = *f.MimeType
	}
	switch {
	case f.CaptureBase64 != nil:
		cfg.CaptureRawEncoded = *f.CaptureBase64
	case f.CaptureBase64Alias != nil:
		cfg.CaptureRawEncoded = *f.CaptureBase64Alias
	}
	if f.RequestsPerSecond != nil {
		cfg.RequestsPerSecond = *f.RequestsPerSecond
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required keys and value ranges.
func (c *Config) Validate() error {
	required := []struct {
		key   string
		value string
	}{
		{"credentialFile", c.CredentialFile},
		{"tokenFile", c.TokenFile},
		{"label", c.Label},
		{"downloadDirectory", c.DownloadDirectory},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return &ConfigError{Key: r.key, Reason: "is required"}
		}
	}
	if c.PollInterval < 0 {
		return &ConfigError{Key: "checkEverySeconds", Reason: "must not be negative"}
	}
	if c.RequestsPerSecond < 0 {
		return &ConfigError{Key: "requestsPerSecond", Reason: "must not be negative"}
	}
	return nil
}

// TokenPath returns where the OAuth token is stored. Relative token files
// live in the per-user cache directory.
func (c *Config) TokenPath() string {
	p := ExpandPath(c.TokenFile)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(userCacheDir(), "inboxsaver", p)
}

// ExpandPath expands environment variables and a leading ~.
func ExpandPath(p string) string {
	if p == "" {
		return p
	}
	p = os.ExpandEnv(p)
	if p == "~" {
		return homeDir()
	}
	if strings.HasPrefix(p, "~/") {
		return filepath.Join(homeDir(), p[2:])
	}
	return p
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func userCacheDir() string {
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(homeDir(), "Library", "Caches")
	case "windows":
		for _, ev := range []string{"LOCALAPPDATA", "TEMP", "TMP"} {
			if v := os.Getenv(ev); v != "" {
				return v
			}
		}
	}
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return xdg
	}
	return filepath.Join(homeDir(), ".cache")
}

func homeDir() string {
	if runtime.GOOS == "windows" {
		return os.Getenv("HOMEDRIVE") + os.Getenv("HOMEPATH")
	}
	return os.Getenv("HOME")
}
