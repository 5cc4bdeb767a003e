package dashboard

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/clubhouse/internal/club"
	"github.com/mauv0809/clubhouse/internal/service"
	"golang.org/x/sync/errgroup"
)

func NewAggregator(api service.API) *Aggregator {
	return &Aggregator{api: api}
}

// patch writes one fetched resource into a ViewState.
type patch func(*ViewState)

// Load fetches every resource of role concurrently and merges them. A failed
// secondary resource is left at its empty default and recorded in Failed; only
// a failure of the primary resource fails the load.
func (a *Aggregator) Load(ctx context.Context, role club.Role) (ViewState, error) {
	set, err := ResourcesFor(role)
	if err != nil {
		return ViewState{}, err
	}

	var (
		mu         sync.Mutex
		patches    []patch
		failed     = make(map[Resource]error)
		primaryErr error
	)
	var g errgroup.Group
	for _, r := range append([]Resource{set.Primary}, set.Others...) {
		g.Go(func() error {
			p, err := a.fetch(ctx, r)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if r == set.Primary {
					primaryErr = err
					return nil
				}
				log.Warn("Dashboard resource unavailable, using empty default", "resource", r, "error", err)
				failed[r] = err
				return nil
			}
			patches = append(patches, p)
			return nil
		})
	}
	_ = g.Wait()

	if primaryErr != nil {
		return ViewState{}, fmt.Errorf("failed to load %s: %w", set.Primary, primaryErr)
	}

	vs := ViewState{Role: role, Failed: failed}
	for _, p := range patches {
		p(&vs)
	}
	vs.fillDefaults()
	vs.RelevantTournaments = RelevantTournaments(vs.Tournaments, vs.viewerTeams())
	log.Debug("Dashboard loaded", "role", role, "resources", len(set.Others)+1, "failed", len(failed))
	return vs, nil
}

func (a *Aggregator) fetch(ctx context.Context, r Resource) (patch, error) {
	switch r {
	case ResCoachDashboard:
		return fetchInto(ctx, a.api.CoachDashboard, func(vs *ViewState, v club.CoachDashboard) { vs.CoachDashboard = &v })
	case ResPlayerDashboard:
		return fetchInto(ctx, a.api.PlayerDashboard, func(vs *ViewState, v club.PlayerDashboard) { vs.PlayerDashboard = &v })
	case ResSports:
		return fetchInto(ctx, a.api.ListSports, func(vs *ViewState, v []club.Sport) { vs.Sports = v })
	case ResSessions:
		return fetchInto(ctx, a.api.ListSessions, func(vs *ViewState, v []club.Session) { vs.Sessions = v })
	case ResTeams:
		return fetchInto(ctx, a.api.ListTeams, func(vs *ViewState, v []club.Team) { vs.Teams = v })
	case ResProposals:
		return fetchInto(ctx, a.api.ListProposals, func(vs *ViewState, v []club.TeamProposal) { vs.Proposals = v })
	case ResAssignments:
		return fetchInto(ctx, a.api.ListAssignments, func(vs *ViewState, v []club.TeamAssignment) { vs.Assignments = v })
	case ResLinkRequests:
		return fetchInto(ctx, a.api.ListLinkRequests, func(vs *ViewState, v []club.LinkRequest) { vs.LinkRequests = v })
	case ResNotifications:
		return fetchInto(ctx, a.api.ListNotifications, func(vs *ViewState, v []club.Notification) { vs.Notifications = v })
	case ResTournaments:
		return fetchInto(ctx, a.api.ListTournaments, func(vs *ViewState, v []club.Tournament) { vs.Tournaments = v })
	case ResPromotions:
		return fetchInto(ctx, a.api.ListPromotions, func(vs *ViewState, v []club.PromotionRequest) { vs.Promotions = v })
	case ResProfiles:
		return fetchInto(ctx, a.api.ListPlayerProfiles, func(vs *ViewState, v []club.PlayerSportProfile) { vs.Profiles = v })
	}
	return nil, fmt.Errorf("unknown resource %q", r)
}

func fetchInto[T any](ctx context.Context, get func(context.Context) (T, error), set func(*ViewState, T)) (patch, error) {
	v, err := get(ctx)
	if err != nil {
		return nil, err
	}
	return func(vs *ViewState) { set(vs, v) }, nil
}

// fillDefaults replaces missing sections with empty ones.
func (vs *ViewState) fillDefaults() {
	vs.Sports = orEmpty(vs.Sports)
	vs.Sessions = orEmpty(vs.Sessions)
	vs.Teams = orEmpty(vs.Teams)
	vs.Proposals = orEmpty(vs.Proposals)
	vs.Assignments = orEmpty(vs.Assignments)
	vs.LinkRequests = orEmpty(vs.LinkRequests)
	vs.Notifications = orEmpty(vs.Notifications)
	vs.Tournaments = orEmpty(vs.Tournaments)
	vs.Promotions = orEmpty(vs.Promotions)
	vs.Profiles = orEmpty(vs.Profiles)
	if vs.Failed == nil {
		vs.Failed = make(map[Resource]error)
	}
	if vs.Expanded == nil {
		vs.Expanded = make(map[int64]bool)
	}
	if vs.Details == nil {
		vs.Details = make(map[int64]TournamentDetail)
	}
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// viewerTeams is the team list tournaments are matched against.
func (vs *ViewState) viewerTeams() []club.Team {
	if vs.CoachDashboard != nil {
		return vs.CoachDashboard.Teams
	}
	return vs.Teams
}

// UnreadCount returns how many notifications have not been read.
func (vs *ViewState) UnreadCount() int {
	n := 0
	for _, note := range vs.Notifications {
		if note.Unread() {
			n++
		}
	}
	return n
}
