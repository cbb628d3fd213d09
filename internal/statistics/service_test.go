// AngelaMos | 2026
// service_test.go

package statistics

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepo struct {
	mu         sync.Mutex
	periods    []Period
	monthStart time.Time
	dayStart   time.Time
	failOrders bool
}

func (r *stubRepo) record(p Period) {
	r.mu.Lock()
	r.periods = append(r.periods, p)
	r.mu.Unlock()
}

func (r *stubRepo) Users(_ context.Context, p Period, monthStart time.Time) (UserStats, error) {
	r.record(p)
	return UserStats{TotalUsers: 4, TotalCustomers: 3, TotalAdmins: 1}, nil
}

func (r *stubRepo) Orders(_ context.Context, p Period) (OrderStats, error) {
	r.record(p)
	if r.failOrders {
		return OrderStats{}, errors.New("db down")
	}
	return OrderStats{TotalOrders: 2, DeliveredOrders: 1, PendingOrders: 1}, nil
}

func (r *stubRepo) Revenue(_ context.Context, p Period, monthStart, dayStart time.Time) (RevenueStats, error) {
	r.record(p)
	r.mu.Lock()
	r.monthStart, r.dayStart = monthStart, dayStart
	r.mu.Unlock()
	return RevenueStats{TotalRevenue: decimal.NewFromInt(500000)}, nil
}

func (r *stubRepo) Catalog(context.Context) (CatalogStats, error) {
	return CatalogStats{TotalProducts: 10, TotalCategories: 3}, nil
}

func (r *stubRepo) TopProducts(_ context.Context, p Period) ([]TopProduct, error) {
	r.record(p)
	return []TopProduct{{ProductID: 1, ProductName: "Pixel 9", QuantitySold: 2}}, nil
}

func TestReportCombinesAggregates(t *testing.T) {
	repo := &stubRepo{}
	svc := NewService(repo)
	svc.now = func() time.Time { return time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC) }

	report, err := svc.Report(context.Background(), PresetThisMonth, "", "")

	require.NoError(t, err)
	assert.Equal(t, 4, report.TotalUsers)
	assert.Equal(t, 2, report.TotalOrders)
	assert.True(t, report.TotalRevenue.Equal(decimal.NewFromInt(500000)))
	assert.Equal(t, 10, report.TotalProducts)
	require.Len(t, report.TopProducts, 1)

	require.Len(t, repo.periods, 4)
	for _, p := range repo.periods {
		require.NotNil(t, p.From)
		assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), *p.From)
	}
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), repo.monthStart)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), repo.dayStart)
}

func TestReportPropagatesQueryFailure(t *testing.T) {
	svc := NewService(&stubRepo{failOrders: true})

	_, err := svc.Report(context.Background(), PresetAllTime, "", "")

	assert.Error(t, err)
}
