package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type addItemRequest struct {
	ProductID int64 `validate:"required,gt=0"`
	Quantity  int   `validate:"required,gte=1"`
}

func TestValidate_OK(t *testing.T) {
	assert.NoError(t, Validate(addItemRequest{ProductID: 3, Quantity: 1}))
}

func TestValidate_MissingFields(t *testing.T) {
	err := Validate(addItemRequest{})
	require.Error(t, err)

	var valErr *ValidationError
	require.True(t, errors.As(err, &valErr))

	fields := valErr.Fields()
	assert.Contains(t, fields, "ProductID")
	assert.Contains(t, fields, "Quantity")
	assert.Contains(t, err.Error(), "is required")
}

func TestValidate_BoundMessage(t *testing.T) {
	err := Validate(addItemRequest{ProductID: 3, Quantity: -2})
	require.Error(t, err)

	var valErr *ValidationError
	require.True(t, errors.As(err, &valErr))
	assert.Equal(t, "must be greater than or equal to 1", valErr.Fields()["Quantity"])
}
