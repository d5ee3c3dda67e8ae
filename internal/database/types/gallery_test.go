package types

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGalleryCursorRoundTrip(t *testing.T) {
	t.Parallel()

	submittedAt := time.Date(2025, 5, 17, 9, 30, 15, 123456000, time.UTC)
	cursor := CursorFor(&Submission{ID: 42, SubmittedAt: submittedAt})

	encoded := cursor.Encode()
	require.NotEmpty(t, encoded)

	decoded, err := DecodeGalleryCursor(encoded)
	require.NoError(t, err)
	require.NotNil(t, decoded)
	assert.Equal(t, uint64(42), decoded.ID)
	assert.True(t, submittedAt.Equal(decoded.SubmittedAt))
}

func TestDecodeGalleryCursorEmpty(t *testing.T) {
	t.Parallel()

	cursor, err := DecodeGalleryCursor("")
	require.NoError(t, err)
	assert.Nil(t, cursor)
}

func TestDecodeGalleryCursorInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{name: "not base64", input: "***"},
		{name: "not json", input: base64.RawURLEncoding.EncodeToString([]byte("hello"))},
		{name: "missing fields", input: base64.RawURLEncoding.EncodeToString([]byte("{}"))},
		{name: "missing id", input: base64.RawURLEncoding.EncodeToString([]byte(`{"t":"2025-01-01T00:00:00Z"}`))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := DecodeGalleryCursor(tt.input)
			require.ErrorIs(t, err, ErrInvalidCursor)
		})
	}
}

func TestIsRetryable(t *testing.T) {
	t.Parallel()

	assert.True(t, IsRetryable(ErrContentionTimeout))
	assert.False(t, IsRetryable(ErrNotFound))
	assert.False(t, IsRetryable(ErrConstraintViolation))
	assert.False(t, IsRetryable(nil))
}
