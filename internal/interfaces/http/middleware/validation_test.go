package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderdesk/backend/internal/interfaces/http/dto"
)

type samplePayload struct {
	Name     string `json:"name" binding:"required"`
	Quantity int64  `json:"quantity" binding:"min=0"`
	Status   string `json:"status" binding:"required,oneof=PENDING CONFIRMED"`
}

func bindSample(t *testing.T, body string) (*httptest.ResponseRecorder, error) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	var p samplePayload
	return w, c.ShouldBindJSON(&p)
}

func TestFormatValidationErrors_UsesJSONFieldNames(t *testing.T) {
	SetupValidator()

	_, err := bindSample(t, `{"quantity":-1,"status":"SHIPPED"}`)
	require.Error(t, err)

	resp := FormatValidationErrors(err, "req-9")
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "req-9", resp.Error.RequestID)

	fields := make(map[string]string)
	for _, d := range resp.Error.Details {
		fields[d.Field] = d.Message
	}
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "quantity")
	assert.Equal(t, "Must be one of: PENDING CONFIRMED", fields["status"])
}

func TestHandleValidationError_Writes400(t *testing.T) {
	SetupValidator()

	engine := gin.New()
	engine.Use(RequestID())
	engine.POST("/", func(c *gin.Context) {
		var p samplePayload
		if err := c.ShouldBindJSON(&p); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), dto.ErrCodeValidation)
}
