package session

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	errs "marketpulse/pkg/errors"
)

// Cookie is one persisted browser cookie. Field names follow the blob format
// written by common browser automation tools so existing files stay loadable.
type Cookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain"`
	Path     string  `json:"path,omitempty"`
	Secure   bool    `json:"secure,omitempty"`
	HTTPOnly bool    `json:"httpOnly,omitempty"`
	SameSite string  `json:"sameSite,omitempty"`
	Expiry   float64 `json:"expiry,omitempty"`
}

// Store reads and writes the cookie blob at Path. When Sealer is set new
// blobs are encrypted; sealed and plain blobs are both readable.
type Store struct {
	Path       string
	MaxAgeDays int
	Sealer     *Sealer

	now func() time.Time
}

// NewStore creates a Store for the blob at path
func NewStore(path string, maxAgeDays int, sealer *Sealer) *Store {
	return &Store{Path: path, MaxAgeDays: maxAgeDays, Sealer: sealer, now: time.Now}
}

// IsValid reports whether the blob at path exists and was last written no
// more than maxAgeDays days ago. It has no side effects.
func IsValid(path string, maxAgeDays int) bool {
	return isValidAt(path, maxAgeDays, time.Now())
}

func isValidAt(path string, maxAgeDays int, now time.Time) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	maxAge := time.Duration(maxAgeDays) * 24 * time.Hour
	return now.Sub(info.ModTime()) <= maxAge
}

// Valid is IsValid applied to the store's own path and age limit
func (s *Store) Valid() bool {
	return isValidAt(s.Path, s.MaxAgeDays, s.clock())
}

// Load reads every cookie in the blob
func (s *Store) Load() ([]Cookie, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, errs.Wrap(errs.ErrorTypeSession, "load", err)
	}

	data = bytes.TrimSpace(data)
	if isSealed(data) {
		if s.Sealer == nil {
			return nil, errs.New(errs.ErrorTypeSession, "load", "session file is encrypted but no passphrase is configured")
		}
		if data, err = s.Sealer.Open(data); err != nil {
			return nil, errs.Wrap(errs.ErrorTypeSession, "load", err)
		}
	}

	var cookies []Cookie
	if err := json.Unmarshal(data, &cookies); err != nil {
		return nil, errs.Wrap(errs.ErrorTypeSession, "load", fmt.Errorf("failed to parse session file: %w", err))
	}
	return cookies, nil
}

// Save replaces the blob with cookies. The write is atomic, so a crash never
// leaves a truncated session behind.
func (s *Store) Save(cookies []Cookie) error {
	data, err := json.MarshalIndent(cookies, "", "  ")
	if err != nil {
		return errs.Wrap(errs.ErrorTypeSession, "save", err)
	}
	if s.Sealer != nil {
		if data, err = s.Sealer.Seal(data); err != nil {
			return errs.Wrap(errs.ErrorTypeSession, "save", err)
		}
	}

	if err := writeAtomic(s.Path, data); err != nil {
		return errs.Wrap(errs.ErrorTypeSession, "save", err)
	}
	return nil
}

func (s *Store) clock() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}

// FilterDomains keeps the cookies scoped to one of domains or a subdomain of
// one. A leading dot on either side is ignored.
func FilterDomains(cookies []Cookie, domains []string) []Cookie {
	var kept []Cookie
	for _, c := range cookies {
		cd := strings.TrimPrefix(strings.ToLower(c.Domain), ".")
		for _, d := range domains {
			d = strings.TrimPrefix(strings.ToLower(d), ".")
			if d != "" && (cd == d || strings.HasSuffix(cd, "."+d)) {
				kept = append(kept, c)
				break
			}
		}
	}
	return kept
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write session: %w", err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	return os.Rename(tmpName, path)
}
