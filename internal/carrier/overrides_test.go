package carrier

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOverrides_MergesOverDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "overrides.json")
	content := `[
		{"id": "9000", "name": "Hospital Indemnity", "plan_id": "90001", "plan_key": "HI 500"},
		{"id": "2144", "name": "Accident Fixed-Benefit", "plan_id": "override", "plan_key": "override-key"}
	]`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	table, err := LoadOverrides(path)
	require.NoError(t, err)

	// New entry loaded.
	assert.Equal(t, PlanIdentifiers{PlanID: "90001", PlanKey: "HI 500"},
		table[OverrideKey{PlanID: "9000", PlanName: "Hospital Indemnity"}])

	// File entry wins over the compiled-in default for the same key.
	assert.Equal(t, PlanIdentifiers{PlanID: "override", PlanKey: "override-key"},
		table[OverrideKey{PlanID: "2144", PlanName: "Accident Fixed-Benefit"}])

	// Untouched defaults remain.
	_, ok := table[OverrideKey{PlanID: "3010", PlanName: "Critical Illness Direct"}]
	assert.True(t, ok)
}

func TestLoadOverrides_RejectsIncompleteEntries(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "overrides.json")
	content := `[{"id": "9000", "name": "Hospital Indemnity", "plan_id": "90001"}]`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	_, err := LoadOverrides(path)
	assert.ErrorContains(t, err, "plan_id and plan_key are required")
}

func TestLoadOverrides_FileNotFound(t *testing.T) {
	_, err := LoadOverrides("/nonexistent/overrides.json")
	assert.Error(t, err)
}
