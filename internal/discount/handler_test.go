// AngelaMos | 2026
// handler_test.go

package discount

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func passthrough(next http.Handler) http.Handler { return next }

func postValidate(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()

	r := chi.NewRouter()
	NewHandler(newService()).RegisterRoutes(r, passthrough, passthrough)

	req := httptest.NewRequest(http.MethodPost, "/discount/validate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestValidateEndpointUsesStorefrontFieldNames(t *testing.T) {
	rec := postValidate(t, `{"code":"SALE10","userId":2}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool           `json:"success"`
		Data    map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.EqualValues(t, 1, resp.Data["discountId"])
	assert.Equal(t, "SALE10", resp.Data["discountCode"])
	assert.Equal(t, "10", fmt.Sprint(resp.Data["discountValue"]))
}

func TestValidateEndpointRequiresUserID(t *testing.T) {
	rec := postValidate(t, `{"code":"SALE10","user_id":2}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestValidateEndpointIneligibleFirstPurchase(t *testing.T) {
	rec := postValidate(t, `{"code":"NGUOIMOI","userId":2}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":false`)
}
