// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads NCBI credentials from a directory of plain-text
// files. Each file holds one value: the filename is the key and the trimmed
// contents are the value.
//
// Recognised files: ncbi-api-key, ncbi-email. Anything else is ignored.
package secrets

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"
)

// DefaultDir is where the CLI looks for credential files.
const DefaultDir = ".secrets"

// Key file names.
const (
	APIKeyFile = "ncbi-api-key"
	EmailFile  = "ncbi-email"
)

// Credentials are the optional values NCBI asks clients to send.
type Credentials struct {
	APIKey string
	Email  string
}

// Names returns the keys that are set, for logging without values.
func (c Credentials) Names() []string {
	var names []string
	if c.APIKey != "" {
		names = append(names, APIKeyFile)
	}
	if c.Email != "" {
		names = append(names, EmailFile)
	}
	return names
}

// Load reads the credential files in dir. A missing directory or missing
// files are not errors; Load then returns zero Credentials. Unreadable
// files are logged at warn level and skipped.
func Load(dir string, logger *zap.Logger) (Credentials, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var creds Credentials
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return creds, nil
		}
		return creds, errors.Wrapf(err, "reading secrets directory %s", dir)
	}
	if !info.IsDir() {
		return creds, errors.Errorf("secrets path %s is not a directory", dir)
	}

	targets := map[string]*string{
		APIKeyFile: &creds.APIKey,
		EmailFile:  &creds.Email,
	}
	for name, dst := range targets {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			if !os.IsNotExist(err) {
				logger.Warn("could not read secret", zap.String("name", name), zap.Error(err))
			}
			continue
		}
		*dst = strings.TrimSpace(string(data))
	}
	return creds, nil
}
