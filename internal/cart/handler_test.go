// AngelaMos | 2026
// handler_test.go

package cart

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techzone/backoffice/internal/middleware"
)

type stubVerifier struct {
	claims *middleware.AccessTokenClaims
}

func (v stubVerifier) VerifyAccessToken(
	context.Context,
	string,
) (*middleware.AccessTokenClaims, error) {
	return v.claims, nil
}

type stubRepo struct {
	Repository
	items []Item
	added int
}

func (r *stubRepo) Items(context.Context, int64) ([]Item, error) {
	return r.items, nil
}

func (r *stubRepo) Add(_ context.Context, _, _ int64, quantity int) (int, error) {
	r.added += quantity
	return r.added, nil
}

func newRouter(repo Repository, userID int64, role string) http.Handler {
	r := chi.NewRouter()
	auth := middleware.Authenticator(stubVerifier{claims: &middleware.AccessTokenClaims{
		UserID: userID,
		Role:   role,
	}})
	NewHandler(NewService(repo)).RegisterRoutes(r, auth)
	return r
}

func TestItemsOfAnotherUserIsForbidden(t *testing.T) {
	router := newRouter(&stubRepo{}, 5, middleware.RoleCustomer)

	req := httptest.NewRequest(http.MethodGet, "/shoppingcart/GetCartItems/6", nil)
	req.Header.Set("Authorization", "Bearer x")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestStaffMayReadAnyCart(t *testing.T) {
	repo := &stubRepo{items: []Item{
		{VariantID: 1, ProductName: "Pixel 9", UnitPrice: decimal.NewFromInt(100000), Quantity: 2},
		{VariantID: 2, ProductName: "Buds", UnitPrice: decimal.NewFromInt(300000), Quantity: 1},
	}}
	router := newRouter(repo, 1, middleware.RoleStaff)

	req := httptest.NewRequest(http.MethodGet, "/shoppingcart/GetCartItems/6", nil)
	req.Header.Set("Authorization", "Bearer x")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data struct {
			Items []struct {
				TotalPrice decimal.Decimal `json:"total_price"`
			} `json:"items"`
			Total decimal.Decimal `json:"total"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body.Data.Items, 2)
	assert.True(t, body.Data.Items[0].TotalPrice.Equal(decimal.NewFromInt(200000)))
	assert.True(t, body.Data.Total.Equal(decimal.NewFromInt(500000)))
}

func TestAddRejectsZeroQuantity(t *testing.T) {
	repo := &stubRepo{}
	router := newRouter(repo, 5, middleware.RoleCustomer)

	req := httptest.NewRequest(
		http.MethodPost,
		"/shoppingcart/Add",
		strings.NewReader(`{"user_id":5,"product_variant_id":40,"quantity":0}`),
	)
	req.Header.Set("Authorization", "Bearer x")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, repo.added)
}
