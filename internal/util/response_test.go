package util

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestHandleError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		err  error
		code int
	}{
		{ErrChapterLocked, http.StatusForbidden},
		{ErrNotAuthenticated, http.StatusForbidden},
		{ErrAttemptExists, http.StatusConflict},
		{fmt.Errorf("wrapped: %w", ErrAttemptFinalized), http.StatusConflict},
		{ErrContentNotFound, http.StatusNotFound},
		{ErrInvalidCredentials, http.StatusUnauthorized},
		{ErrInvalidInput, http.StatusBadRequest},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			HandleError(c, tt.err)
			assert.Equal(t, tt.code, w.Code)
		})
	}
}
