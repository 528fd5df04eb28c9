package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	ierr "github.com/shulepay/shulepay/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func performRequest(t *testing.T, err error) (*httptest.ResponseRecorder, ierr.ErrorResponse) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(ErrorHandler())
	router.GET("/boom", func(c *gin.Context) {
		c.Error(err)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	router.ServeHTTP(w, req)

	var resp ierr.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestErrorHandlerRendersHintAndDetails(t *testing.T) {
	err := ierr.NewError("pending payment exists").
		WithHint("Verify or cancel the outstanding payment before starting a new one").
		WithReportableDetails(map[string]any{
			"reference": "pay_abc",
		}).
		Mark(ierr.ErrAlreadyExists)

	w, resp := performRequest(t, err)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.False(t, resp.Success)
	assert.Equal(t, "Verify or cancel the outstanding payment before starting a new one", resp.Error.Display)
	assert.Equal(t, "pay_abc", resp.Error.Details["reference"])
}

func TestErrorHandlerStatusCodes(t *testing.T) {
	testCases := []struct {
		mark     error
		expected int
	}{
		{ierr.ErrNotFound, http.StatusNotFound},
		{ierr.ErrValidation, http.StatusBadRequest},
		{ierr.ErrInvalidOperation, http.StatusBadRequest},
		{ierr.ErrGateway, http.StatusBadGateway},
		{ierr.ErrSystem, http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		err := ierr.NewError("boom").WithHint("boom").Mark(tc.mark)
		w, _ := performRequest(t, err)
		assert.Equal(t, tc.expected, w.Code)
	}
}

func TestErrorHandlerFallbackMessage(t *testing.T) {
	w, resp := performRequest(t, assert.AnError)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "An unexpected error occurred", resp.Error.Display)
}
