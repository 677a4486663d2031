// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(t *testing.T) string
		want   Credentials
		errMsg string
	}{
		{
			name: "reads key files and trims whitespace",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, APIKeyFile, "  abc123def  \n")
				writeFile(t, dir, EmailFile, "user@example.com\n")
				return dir
			},
			want: Credentials{APIKey: "abc123def", Email: "user@example.com"},
		},
		{
			name: "zero credentials for nonexistent directory",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "does-not-exist")
			},
		},
		{
			name: "only email present",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, EmailFile, "lab@example.org")
				return dir
			},
			want: Credentials{Email: "lab@example.org"},
		},
		{
			name: "whitespace-only file counts as unset",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, APIKeyFile, "   \n\t  ")
				return dir
			},
		},
		{
			name: "ignores unrelated files",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, "openalex-email", "someone@example.com")
				writeFile(t, dir, ".gitkeep", "")
				return dir
			},
		},
		{
			name: "path is a file",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, "secrets", "x")
				return filepath.Join(dir, "secrets")
			},
			errMsg: "not a directory",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := tt.setup(t)
			got, err := Load(dir, nil)
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadUnreadableFile(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root can read files without permission bits")
	}
	dir := t.TempDir()
	writeFile(t, dir, EmailFile, "user@example.com")

	badPath := filepath.Join(dir, APIKeyFile)
	require.NoError(t, os.WriteFile(badPath, []byte("secret"), 0o000))
	t.Cleanup(func() { os.Chmod(badPath, 0o644) })

	got, err := Load(dir, nil)
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", got.Email)
	assert.Empty(t, got.APIKey, "unreadable file should be skipped")
}

func TestCredentialsNames(t *testing.T) {
	assert.Empty(t, Credentials{}.Names())
	assert.Equal(t, []string{APIKeyFile, EmailFile}, Credentials{APIKey: "k", Email: "e"}.Names())
	assert.Equal(t, []string{EmailFile}, Credentials{Email: "e"}.Names())
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
