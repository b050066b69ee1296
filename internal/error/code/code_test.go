package code

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEveryCodeHasMessageAndStatus(t *testing.T) {
	for c := range codeStatusMap {
		_, ok := codeMessageMap[c]
		assert.True(t, ok, "code %d has a status but no message", c)
	}
	for c := range codeMessageMap {
		_, ok := codeStatusMap[c]
		assert.True(t, ok, "code %d has a message but no status", c)
	}
}

func TestGetStatus(t *testing.T) {
	assert.Equal(t, StatusNotFound, GetStatus(ErrPropertyNotFound))
	assert.Equal(t, StatusBadRequest, GetStatus(ErrApartmentTypeInvalid))
	assert.Equal(t, StatusInternalServerError, GetStatus(ErrDatabase))
	assert.Equal(t, StatusInternalServerError, GetStatus(-1))
}

func TestGetMessage(t *testing.T) {
	assert.Equal(t, "Property not found", GetMessage(ErrPropertyNotFound))
	assert.Equal(t, "Tenancy move history not found", GetMessage(ErrMoveHistoryNotFound))
	assert.Equal(t, "Unknown error", GetMessage(-1))
}
