package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ValidJSON(t *testing.T) {
	// Create temp config file
	content := `{
		"bundle_url": "https://carrier.example.com/api/GetBundleValue",
		"enrollment_url": "https://carrier.example.com/api/Enrollment",
		"agent_id": 42,
		"port": 9090,
		"verbose": true
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "https://carrier.example.com/api/GetBundleValue", cfg.BundleURL)
	assert.Equal(t, "https://carrier.example.com/api/Enrollment", cfg.EnrollmentURL)
	assert.Equal(t, 42, cfg.AgentID)
	assert.Equal(t, 9090, cfg.Port)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	content := `{ invalid json }`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestFromEnv_FillsOnlyMissing(t *testing.T) {
	t.Setenv("CARRIER_USERNAME", "env-user")
	t.Setenv("CARRIER_PASSWORD", "env-pass")
	t.Setenv("DATABASE_URL", "postgres://env")

	cfg := &Config{CarrierUsername: "file-user"}
	cfg.FromEnv()

	assert.Equal(t, "file-user", cfg.CarrierUsername, "file value wins")
	assert.Equal(t, "env-pass", cfg.CarrierPassword)
	assert.Equal(t, "postgres://env", cfg.DatabaseURL)
}

func TestValidate_RejectsBadValues(t *testing.T) {
	assert.Error(t, (&Config{AgentID: -1}).Validate())
	assert.Error(t, (&Config{Port: 70000}).Validate())
	assert.Error(t, (&Config{OverridesPath: "/nonexistent/overrides.json"}).Validate())
	assert.NoError(t, (&Config{AgentID: 42, Port: 8080}).Validate())
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{BundleURL: "https://carrier.example.com/bundle"}
	defaults := Config{
		BundleURL:     "https://default.example.com/bundle",
		EnrollmentURL: "https://default.example.com/enroll",
		AgentID:       7,
	}

	merged := cfg.MergeWithDefaults(defaults)

	assert.Equal(t, "https://carrier.example.com/bundle", merged.BundleURL, "explicit value wins")
	assert.Equal(t, "https://default.example.com/enroll", merged.EnrollmentURL)
	assert.Equal(t, 7, merged.AgentID)
	assert.Equal(t, 8080, merged.Port, "port falls back to 8080")
}
