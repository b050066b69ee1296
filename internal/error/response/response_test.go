package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"property-http-service/internal/error/apperror"
	"property-http-service/internal/error/code"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func render(t *testing.T, err error) (*httptest.ResponseRecorder, ErrorBody) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	Error(c, err)

	var body ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    int
		message string
	}{
		{
			name:    "validation",
			err:     apperror.NewValidationError(code.ErrPropertyInvalid, nil),
			status:  http.StatusBadRequest,
			code:    code.ErrPropertyInvalid,
			message: "Name and address are required",
		},
		{
			name:    "not found",
			err:     apperror.NewNotFoundError(code.ErrApartmentNotFound, "apartment", 9),
			status:  http.StatusNotFound,
			code:    code.ErrApartmentNotFound,
			message: "Apartment not found",
		},
		{
			name:    "store",
			err:     apperror.Store("list tenants", errors.New("connection refused")),
			status:  http.StatusInternalServerError,
			code:    code.ErrDatabase,
			message: "connection refused",
		},
		{
			name:    "config",
			err:     &apperror.ConfigError{Missing: []string{"DB_HOST"}},
			status:  http.StatusInternalServerError,
			code:    code.ErrConfig,
			message: "Missing required environment variables: DB_HOST",
		},
		{
			name:    "unclassified",
			err:     errors.New("boom"),
			status:  http.StatusInternalServerError,
			code:    code.ErrUnknown,
			message: "boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := render(t, tt.err)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, body.Code)
			assert.Equal(t, tt.message, body.Error)
		})
	}
}

func TestValidationErrorCarriesFields(t *testing.T) {
	err := apperror.NewValidationError(code.ErrTenancyInvalid, []apperror.FieldError{{Field: "rent_amount", Rule: "required"}})
	_, body := render(t, err)
	require.Len(t, body.Fields, 1)
	assert.Equal(t, "rent_amount", body.Fields[0].Field)
}

func TestMessage(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	Message(c, "Tenant deleted")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Tenant deleted"}`, w.Body.String())
}
