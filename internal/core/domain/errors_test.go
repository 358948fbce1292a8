package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrInvalidSettings", ErrInvalidSettings},
		{"ErrUnsupportedDocumentFormat", ErrUnsupportedDocumentFormat},
		{"ErrNotInitialized", ErrNotInitialized},
		{"ErrEmbeddingFailed", ErrEmbeddingFailed},
		{"ErrGenerationFailed", ErrGenerationFailed},
		{"ErrVectorStoreUnavailable", ErrVectorStoreUnavailable},
		{"ErrVectorStoreIO", ErrVectorStoreIO},
		{"ErrUnsupportedProvider", ErrUnsupportedProvider},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestErrors_Distinct(t *testing.T) {
	assert.False(t, errors.Is(ErrEmbeddingFailed, ErrGenerationFailed))
	assert.False(t, errors.Is(ErrVectorStoreIO, ErrVectorStoreUnavailable))
}

func TestErrors_WrappedIdentity(t *testing.T) {
	wrapped := fmt.Errorf("embed question: %w", ErrEmbeddingFailed)

	assert.True(t, errors.Is(wrapped, ErrEmbeddingFailed))
	assert.Equal(t, "embed question: embedding failed", wrapped.Error())
}
