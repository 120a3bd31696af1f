package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestKindsMatchThroughWrapping(t *testing.T) {
	cause := errors.New("connection reset")
	err := fmt.Errorf("saving: %w", External("order.Create", "Failed to save order", cause))

	assert.True(t, errors.Is(err, ErrExternal))
	assert.True(t, errors.Is(err, cause))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "Failed to save order", Message(err))
	assert.Equal(t, http.StatusBadGateway, Status(err))
}

func TestStatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{Validation("op", "bad"), http.StatusBadRequest},
		{NotFound("op", "missing"), http.StatusNotFound},
		{BusinessRule("op", "nope"), http.StatusUnprocessableEntity},
		{Unauthorized("op", "who"), http.StatusUnauthorized},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Status(tc.err), tc.err.Error())
	}
}

func TestRespondHidesCause(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Respond(c, External("item.List", "Failed to fetch items", errors.New("pq: password authentication failed")))

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.JSONEq(t, `{"error":"Failed to fetch items"}`, w.Body.String())
}
