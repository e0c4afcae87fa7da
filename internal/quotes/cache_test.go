package quotes

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jose-Tepaz/epicareplans-marketplace-sub001/internal/types"
)

func somePlans() []types.InsurancePlan {
	return []types.InsurancePlan{{ID: "1", Name: "Dental Complete", Premium: 19.99, Carrier: types.CarrierAllstate}}
}

func TestCache_HitWithinTTL(t *testing.T) {
	c := NewCache(5*time.Minute, 10)

	c.Put("k", somePlans())
	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, somePlans(), got)
}

func TestCache_ExpiresAfterTTL(t *testing.T) {
	c := NewCache(5*time.Minute, 10)
	now := time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC)
	c.nowFn = func() time.Time { return now }

	c.Put("k", somePlans())

	now = now.Add(5*time.Minute + time.Second)
	_, ok := c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestCache_EvictsOldestAtCapacity(t *testing.T) {
	c := NewCache(time.Hour, 3)
	now := time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC)
	c.nowFn = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		c.Put(fmt.Sprintf("k%d", i), somePlans())
		now = now.Add(time.Second)
	}
	require.Equal(t, 3, c.Len())

	c.Put("k3", somePlans())
	assert.Equal(t, 3, c.Len())

	// k0 was the oldest.
	_, ok := c.Get("k0")
	assert.False(t, ok)
	_, ok = c.Get("k3")
	assert.True(t, ok)
}

func TestFingerprint_SensitiveToSnapshot(t *testing.T) {
	base := QuoteRequest{State: "CA", ZipCode: "94105", EffectiveDate: "2026-07-01"}

	same := Fingerprint(base)
	assert.Equal(t, same, Fingerprint(base))

	changed := base
	changed.Facts.IsSmoker = true
	assert.NotEqual(t, same, Fingerprint(changed))
}
