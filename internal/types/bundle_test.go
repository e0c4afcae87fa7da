package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnswerType_UnmarshalKnownVariants(t *testing.T) {
	for _, variant := range []string{"Radio", "Checkbox", "FreeText", "Date", "MonthYearDate", "TextArea"} {
		var a AnswerType
		err := json.Unmarshal([]byte(`"`+variant+`"`), &a)
		require.NoError(t, err, variant)
		assert.Equal(t, AnswerType(variant), a)
	}
}

func TestAnswerType_UnmarshalRejectsUnknown(t *testing.T) {
	var a AnswerType
	err := json.Unmarshal([]byte(`"Hologram"`), &a)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Hologram")
}

func TestBundleRequest_MedSuppOmittedWhenNil(t *testing.T) {
	data, err := json.Marshal(&BundleRequest{State: "CA"})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "medSuppEnrollmentType")

	medSupp := MedSuppGI
	data, err = json.Marshal(&BundleRequest{State: "CA", MedSuppEnrollmentType: &medSupp})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"medSuppEnrollmentType":"GI"`)
}
