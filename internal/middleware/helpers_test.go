package middleware

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"server-yool/internal/schemas"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) schemas.ErrorDTO {
	t.Helper()
	var body schemas.ErrorDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}
