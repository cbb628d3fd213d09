// AngelaMos | 2026
// service.go

package statistics

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Report runs the aggregate queries concurrently.
func (s *Service) Report(ctx context.Context, preset, from, to string) (*Report, error) {
	now := s.now()

	period, err := ResolvePeriod(preset, from, to, now)
	if err != nil {
		return nil, err
	}

	monthStart := startOfMonth(now)
	dayStart := startOfDay(now)

	var report Report
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		report.UserStats, err = s.repo.Users(ctx, period, monthStart)
		return err
	})
	g.Go(func() error {
		var err error
		report.OrderStats, err = s.repo.Orders(ctx, period)
		return err
	})
	g.Go(func() error {
		var err error
		report.RevenueStats, err = s.repo.Revenue(ctx, period, monthStart, dayStart)
		return err
	})
	g.Go(func() error {
		var err error
		report.CatalogStats, err = s.repo.Catalog(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		report.TopProducts, err = s.repo.TopProducts(ctx, period)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &report, nil
}
