package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestUserIDFromContext(t *testing.T) {
	assert.Equal(t, "", UserIDFromContext(context.Background()))
	assert.Equal(t, "u1", UserIDFromContext(WithUserID(context.Background(), " u1 ")))
}

func TestSetUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	SetUser(c, "user-1")

	assert.Equal(t, "user-1", UserFirebaseUID(c))
	assert.Equal(t, "user-1", UserIDFromContext(c.Request.Context()))
}
