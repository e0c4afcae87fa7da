// Package carrier translates between the carrier-agnostic plan representation
// and each carrier's required wire shapes, and computes underwriting-derived
// fields (rate tier, Medicare-supplement enrollment type).
package carrier

import (
	"encoding/json"
	"fmt"
	"os"
)

// PlanIdentifiers is the (planId, planKey) pair a carrier expects for a plan.
type PlanIdentifiers struct {
	PlanID  string `json:"plan_id"`
	PlanKey string `json:"plan_key"`
}

// OverrideKey is the composite key of the manual override table.
type OverrideKey struct {
	PlanID   string
	PlanName string
}

// Overrides is the manual identifier-override table. Some catalog entries
// lack carrier codes entirely, so the gaps are patched with static mappings
// maintained as data rather than code branches.
type Overrides map[OverrideKey]PlanIdentifiers

// overrideEntry is the JSON file shape for one override row.
type overrideEntry struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	PlanID  string `json:"plan_id"`
	PlanKey string `json:"plan_key"`
}

// DefaultOverrides returns the compiled-in override table for catalog
// entries known to be missing carrier codes.
func DefaultOverrides() Overrides {
	return Overrides{
		{PlanID: "2144", PlanName: "Accident Fixed-Benefit"}: {PlanID: "21673", PlanKey: "Life 25000"},
		{PlanID: "2145", PlanName: "Accident Fixed-Benefit Plus"}: {PlanID: "21674", PlanKey: "Life 50000"},
		{PlanID: "3010", PlanName: "Critical Illness Direct"}: {PlanID: "30155", PlanKey: "CI 10000"},
	}
}

// LoadOverrides reads an override table from a JSON file and merges it over
// the compiled-in defaults. File entries win on key collision.
func LoadOverrides(path string) (Overrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read overrides file %s: %w", path, err)
	}

	var entries []overrideEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse overrides JSON: %w", err)
	}

	table := DefaultOverrides()
	for i, e := range entries {
		if e.ID == "" || e.Name == "" {
			return nil, fmt.Errorf("overrides entry %d: id and name are required", i)
		}
		if e.PlanID == "" || e.PlanKey == "" {
			return nil, fmt.Errorf("overrides entry %d (%s): plan_id and plan_key are required", i, e.Name)
		}
		table[OverrideKey{PlanID: e.ID, PlanName: e.Name}] = PlanIdentifiers{
			PlanID:  e.PlanID,
			PlanKey: e.PlanKey,
		}
	}

	return table, nil
}
