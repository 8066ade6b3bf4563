package calculation

import (
	"context"

	"github.com/rpgo/swiss-tax-calculator/internal/domain"
	"golang.org/x/sync/errgroup"
)

// DefaultBatchWorkers bounds concurrent calculations when no limit is given.
const DefaultBatchWorkers = 10

// BatchEntry is the outcome for one profile of a batch.
type BatchEntry struct {
	Index   int
	Profile domain.TaxpayerProfile
	Result  *domain.TaxResult
	Err     error
}

// CalculateBatch computes every profile concurrently with at most workers
// calculations in flight. Entries keep input order. A failing profile only
// sets its entry's Err; the returned error is the context's, if it was
// cancelled before all profiles were scheduled.
func (c *Calculator) CalculateBatch(ctx context.Context, profiles []domain.TaxpayerProfile, workers int) ([]BatchEntry, error) {
	if workers <= 0 {
		workers = DefaultBatchWorkers
	}
	entries := make([]BatchEntry, len(profiles))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range profiles {
		if err := gctx.Err(); err != nil {
			break
		}
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				entries[i] = BatchEntry{Index: i, Profile: profiles[i], Err: err}
				return err
			}
			result, err := c.Calculate(&profiles[i])
			entries[i] = BatchEntry{Index: i, Profile: profiles[i], Result: result, Err: err}
			return nil
		})
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		for i := range entries {
			if entries[i].Result == nil && entries[i].Err == nil {
				entries[i] = BatchEntry{Index: i, Profile: profiles[i], Err: err}
			}
		}
		return entries, err
	}
	c.Logger.Infof("batch complete: %d profiles, %d workers", len(profiles), workers)
	return entries, nil
}
