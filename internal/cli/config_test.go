package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	c := &Config{
		Version: "v1",
		Server:  "http://localhost:8180",
		Output:  "table",
	}
	require.NoError(t, c.WriteConfig(path))
	require.NoError(t, LoadConfig(path))

	loaded := GetConfig()
	assert.Equal(t, "v1", loaded.Version)
	assert.Equal(t, "http://localhost:8180", loaded.Server)
	assert.Equal(t, "table", loaded.Output)
}

func TestLoadConfigTrimsTrailingSlash(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: v1\nserver: http://localhost:8180/\n"), 0644))

	require.NoError(t, LoadConfig(path))
	assert.Equal(t, "http://localhost:8180", GetConfig().Server)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"missing server", Config{}, "server is required"},
		{"bad scheme", Config{Server: "localhost:8180"}, "server must be an http(s) URL"},
		{"bad output", Config{Server: "http://localhost:8180", Output: "xml"}, "output must be \"table\" or \"json\""},
		{"valid", Config{Server: "https://flexy.example.com", Output: "json"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.ValidateConfig()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.EqualError(t, err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
