package validator

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type payload struct {
	Name  string `json:"name" binding:"required,notblank"`
	Count *int   `json:"count" binding:"required,min=1"`
}

func bindBody(t *testing.T, body string) map[string]string {
	t.Helper()
	gin.SetMode(gin.TestMode)
	Setup()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	var p payload
	return Bind(c, &p)
}

func TestBindAcceptsValidPayload(t *testing.T) {
	assert.Nil(t, bindBody(t, `{"name":"Ada","count":2}`))
}

func TestBindTranslatesFieldErrors(t *testing.T) {
	fields := bindBody(t, `{"name":"   ","count":0}`)
	assert.Equal(t, "name must not be blank", fields["name"])
	assert.Contains(t, fields["count"], "count must be 1 or greater")

	fields = bindBody(t, `{}`)
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "count")
}

func TestBindReportsSyntaxErrors(t *testing.T) {
	fields := bindBody(t, `{"name":`)
	assert.Contains(t, fields, "detail")
}
