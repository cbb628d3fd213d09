// AngelaMos | 2026
// service_test.go

package product

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techzone/backoffice/internal/core"
)

type countingRepo struct {
	Repository
	products  []Product
	listCalls int
	created   []*Product
}

func (r *countingRepo) List(context.Context) ([]Product, error) {
	r.listCalls++
	return r.products, nil
}

func (r *countingRepo) Create(_ context.Context, p *Product) error {
	p.ID = int64(len(r.created) + 1)
	r.created = append(r.created, p)
	return nil
}

func (r *countingRepo) Colors(context.Context, int64) ([]string, error) {
	return nil, nil
}

func newCache(t *testing.T) *core.Cache {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return core.NewCache(client, 0)
}

func TestListIsServedFromCache(t *testing.T) {
	repo := &countingRepo{products: []Product{
		{ID: 1, Name: "Pixel 9", Price: decimal.NewFromInt(19990000)},
	}}
	svc := NewService(repo, newCache(t))
	ctx := context.Background()

	first, err := svc.List(ctx)
	require.NoError(t, err)
	second, err := svc.List(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, repo.listCalls)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].Name, second[0].Name)
	assert.True(t, first[0].Price.Equal(second[0].Price))
}

func TestCreateInvalidatesListCache(t *testing.T) {
	repo := &countingRepo{}
	svc := NewService(repo, newCache(t))
	ctx := context.Background()

	_, err := svc.List(ctx)
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateProductRequest{
		Name:  "Galaxy S25",
		Price: decimal.NewFromInt(22990000),
		Variants: []VariantRequest{
			{Color: "Black", Status: VariantAvailable},
			{Color: " Silver ", Status: VariantPreorder},
		},
	})
	require.NoError(t, err)

	_, err = svc.List(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, repo.listCalls)
	require.Len(t, repo.created, 1)
	assert.Equal(t, "Silver", repo.created[0].Variants[1].Color)
}

func TestCreateRejectsNegativePrice(t *testing.T) {
	repo := &countingRepo{}
	svc := NewService(repo, nil)

	_, err := svc.Create(context.Background(), CreateProductRequest{
		Name:  "Broken",
		Price: decimal.NewFromInt(-1),
	})

	assert.ErrorIs(t, err, core.ErrInvalidInput)
	assert.Empty(t, repo.created)
}

func TestColorsNotFoundWhenProductHasNoVariants(t *testing.T) {
	svc := NewService(&countingRepo{}, nil)

	_, err := svc.Colors(context.Background(), 42)

	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestFlushCacheForcesReload(t *testing.T) {
	repo := &countingRepo{}
	svc := NewService(repo, newCache(t))
	ctx := context.Background()

	_, err := svc.List(ctx)
	require.NoError(t, err)
	require.NoError(t, svc.FlushCache(ctx))
	_, err = svc.List(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, repo.listCalls)
	assert.NoError(t, NewService(repo, nil).FlushCache(ctx))
}

func TestInvalidateCatalogForcesReload(t *testing.T) {
	repo := &countingRepo{}
	svc := NewService(repo, newCache(t))
	ctx := context.Background()

	_, err := svc.List(ctx)
	require.NoError(t, err)
	_, err = svc.List(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, repo.listCalls)

	svc.InvalidateCatalog(ctx)
	_, err = svc.List(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, repo.listCalls)
}
