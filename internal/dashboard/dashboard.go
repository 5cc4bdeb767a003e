package dashboard

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/clubhouse/internal/club"
	"github.com/mauv0809/clubhouse/internal/service"
	"golang.org/x/sync/errgroup"
)

// New creates a Dashboard for role. Nothing is fetched until Refresh.
func New(api service.API, role club.Role) *Dashboard {
	return &Dashboard{
		role:  role,
		api:   api,
		agg:   NewAggregator(api),
		store: NewStore(),
	}
}

func (d *Dashboard) Role() club.Role { return d.role }

// State returns a snapshot of the current view state.
func (d *Dashboard) State() ViewState { return d.store.Snapshot() }

func (d *Dashboard) Store() *Store { return d.store }

// Refresh re-runs the aggregation for the dashboard's role and commits it.
func (d *Dashboard) Refresh(ctx context.Context) error {
	seq := d.store.BeginLoad()
	vs, err := d.agg.Load(ctx, d.role)
	if err != nil {
		return err
	}
	d.store.CommitLoad(seq, vs)
	return nil
}

// Reconcile brings the state up to date after m succeeded on the server.
// apply is spliced in for ApplyResponse mutations. tournamentID names the
// detail panel for RefetchDetail mutations.
func (d *Dashboard) Reconcile(ctx context.Context, m Mutation, apply func(*ViewState), tournamentID int64) error {
	switch rule := RuleFor(m); rule {
	case ApplyResponse:
		if apply != nil {
			d.store.Splice(apply)
		}
		return nil
	case RefetchDetail:
		if !d.store.IsExpanded(tournamentID) {
			return nil
		}
		_, err := d.loadDetail(ctx, tournamentID, false)
		return err
	default:
		log.Debug("Refetching dashboard", "mutation", m, "rule", rule)
		return d.Refresh(ctx)
	}
}

// Toggle opens or closes a tournament detail panel and reports whether it is
// now open. Opening always fetches matches, points table and leaderboard;
// closing keeps the cached detail. A fetch overtaken by a refresh is retried
// once, and the panel stays closed if it is overtaken again.
func (d *Dashboard) Toggle(ctx context.Context, tournamentID int64) (bool, error) {
	if d.store.IsExpanded(tournamentID) {
		d.store.SetExpanded(tournamentID, false)
		return false, nil
	}
	for range 2 {
		stored, err := d.loadDetail(ctx, tournamentID, true)
		if err != nil {
			return false, err
		}
		if stored {
			return true, nil
		}
	}
	return false, nil
}

// loadDetail fetches the detail panel of tournamentID and reports whether it
// was cached. open also marks the panel expanded in the same update.
func (d *Dashboard) loadDetail(ctx context.Context, tournamentID int64, open bool) (bool, error) {
	epoch := d.store.Epoch()

	var detail TournamentDetail
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := d.api.TournamentMatches(gctx, tournamentID)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", ResMatches, err)
		}
		detail.Matches = orEmpty(v)
		return nil
	})
	g.Go(func() error {
		v, err := d.api.TournamentPointsTable(gctx, tournamentID)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", ResPointsTable, err)
		}
		v = orEmpty(v)
		club.SortPointsTable(v)
		detail.PointsTable = v
		return nil
	})
	g.Go(func() error {
		v, err := d.api.TournamentLeaderboard(gctx, tournamentID)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", ResLeaderboard, err)
		}
		detail.Leaderboard = orEmpty(v)
		return nil
	})
	if err := g.Wait(); err != nil {
		return false, err
	}

	if !d.store.SetDetail(epoch, tournamentID, detail, open) {
		log.Debug("Dropping tournament detail fetched before a refresh", "tournament", tournamentID)
		return false, nil
	}
	return true, nil
}
