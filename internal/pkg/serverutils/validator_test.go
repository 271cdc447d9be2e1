package serverutils

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type samplePayload struct {
	Question  string `validate:"required,min=1,max=10"`
	SessionId string
}

func TestValidateRequestPasses(t *testing.T) {
	err := ValidateRequest(samplePayload{Question: "sepse"})
	assert.NoError(t, err)
}

func TestValidateRequestReportsFields(t *testing.T) {
	err := ValidateRequest(samplePayload{})
	require.Error(t, err)

	var valErr *ValidationError
	require.True(t, errors.As(err, &valErr))
	assert.Contains(t, valErr.Fields, "Question")
	assert.Contains(t, valErr.Fields["Question"], "required")
}

func TestValidateRequestNeverEchoesValues(t *testing.T) {
	payload := samplePayload{Question: strings.Repeat("segredo", 10)}
	err := ValidateRequest(payload)
	require.Error(t, err)

	var valErr *ValidationError
	require.True(t, errors.As(err, &valErr))
	for _, msg := range valErr.Fields {
		assert.NotContains(t, msg, "segredo")
	}
}
