package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/stockit-api/internal/domain"
)

func TestInsufficientStockError_IsSentinel(t *testing.T) {
	err := fmt.Errorf("transferir: %w", &domain.InsufficientStockError{Available: 2, Requested: 5})

	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	var ise *domain.InsufficientStockError
	if assert.True(t, errors.As(err, &ise)) {
		assert.Equal(t, 2, ise.Available)
		assert.Equal(t, 5, ise.Requested)
	}
	assert.Contains(t, err.Error(), "disponible 2")
}

func TestInvalid_WrapsInvalidInput(t *testing.T) {
	err := domain.Invalid("cantidad debe ser mayor a 0")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "cantidad debe ser mayor a 0")
}
