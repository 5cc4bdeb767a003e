package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/mauv0809/clubhouse/internal/club"
	"github.com/mauv0809/clubhouse/internal/dashboard"
)

func (h *Handlers) CreateTeam(ctx context.Context, in TeamForm) (club.Team, error) {
	const action = "create team"
	if err := required(action, "name", in.Name); err != nil {
		return club.Team{}, err
	}
	sport, err := parseID(action, "sport", in.SportID)
	if err != nil {
		return club.Team{}, err
	}
	coach, err := parseOptionalID(action, "coach", in.CoachID)
	if err != nil {
		return club.Team{}, err
	}
	req := club.NewTeam{Name: strings.TrimSpace(in.Name), SportID: sport, CoachID: coach}

	team, err := run(ctx, h, action, "team:new", func(ctx context.Context) (club.Team, error) {
		return h.api.CreateTeam(ctx, req)
	})
	if err != nil {
		return club.Team{}, err
	}
	h.reconcile(ctx, dashboard.MutCreateTeam, nil, 0)
	return team, nil
}

func (h *Handlers) DeleteTeam(ctx context.Context, id string) error {
	const action = "delete team"
	team, err := parseID(action, "team", id)
	if err != nil {
		return err
	}
	_, err = run(ctx, h, action, fmt.Sprintf("team:%d", team), func(ctx context.Context) (struct{}, error) {
		return struct{}{}, h.api.DeleteTeam(ctx, team)
	})
	if err != nil {
		return err
	}
	h.reconcile(ctx, dashboard.MutDeleteTeam, nil, 0)
	return nil
}

// AssignPlayerToTeam moves the player profile profileID into teamID.
func (h *Handlers) AssignPlayerToTeam(ctx context.Context, profileID, teamID string) (club.PlayerSportProfile, error) {
	const action = "assign player"
	team, err := parseID(action, "team", teamID)
	if err != nil {
		return club.PlayerSportProfile{}, err
	}
	return h.updateProfile(ctx, action, profileID, club.ProfileUpdate{TeamID: &team})
}

func (h *Handlers) RemovePlayerFromTeam(ctx context.Context, profileID string) (club.PlayerSportProfile, error) {
	return h.updateProfile(ctx, "remove player", profileID, club.ProfileUpdate{RemoveFromTeam: true})
}

func (h *Handlers) updateProfile(ctx context.Context, action, profileID string, in club.ProfileUpdate) (club.PlayerSportProfile, error) {
	id, err := parseID(action, "profile", profileID)
	if err != nil {
		return club.PlayerSportProfile{}, err
	}
	p, err := run(ctx, h, action, fmt.Sprintf("profile:%d", id), func(ctx context.Context) (club.PlayerSportProfile, error) {
		return h.api.UpdatePlayerProfile(ctx, id, in)
	})
	if err != nil {
		return club.PlayerSportProfile{}, err
	}
	h.reconcile(ctx, dashboard.MutUpdateProfile, nil, 0)
	return p, nil
}

func (h *Handlers) CreateTournament(ctx context.Context, in TournamentForm) (club.Tournament, error) {
	const action = "create tournament"
	if err := required(action, "name", in.Name); err != nil {
		return club.Tournament{}, err
	}
	sport, err := parseID(action, "sport", in.SportID)
	if err != nil {
		return club.Tournament{}, err
	}
	req := club.NewTournament{
		Name:        strings.TrimSpace(in.Name),
		SportID:     sport,
		Location:    strings.TrimSpace(in.Location),
		Description: in.Description,
		StartDate:   strings.TrimSpace(in.StartDate),
		EndDate:     strings.TrimSpace(in.EndDate),
	}
	t, err := run(ctx, h, action, "tournament:new", func(ctx context.Context) (club.Tournament, error) {
		return h.api.CreateTournament(ctx, req)
	})
	if err != nil {
		return club.Tournament{}, err
	}
	h.reconcile(ctx, dashboard.MutCreateTournament, nil, 0)
	return t, nil
}

func (h *Handlers) AddTeamToTournament(ctx context.Context, tournamentID, teamID string) (club.Tournament, error) {
	const action = "add team"
	tid, err := parseID(action, "tournament", tournamentID)
	if err != nil {
		return club.Tournament{}, err
	}
	team, err := parseID(action, "team", teamID)
	if err != nil {
		return club.Tournament{}, err
	}
	t, err := run(ctx, h, action, fmt.Sprintf("tournament:%d", tid), func(ctx context.Context) (club.Tournament, error) {
		return h.api.AddTeamToTournament(ctx, tid, team)
	})
	if err != nil {
		return club.Tournament{}, err
	}
	h.reconcile(ctx, dashboard.MutAddTournamentTeam, nil, 0)
	return t, nil
}

// ToggleTournament opens or closes a tournament's detail panel and reports whether it is open.
func (h *Handlers) ToggleTournament(ctx context.Context, tournamentID string) (bool, error) {
	const action = "load tournament"
	id, err := parseID(action, "tournament", tournamentID)
	if err != nil {
		return false, err
	}
	dash := h.Dashboard()
	if dash == nil {
		return false, h.fail(action, ErrNotLoggedIn)
	}
	open, err := dash.Toggle(ctx, id)
	if err != nil {
		return false, h.fail(action, err)
	}
	return open, nil
}

// CreateMatch records a match and refreshes the tournament's open detail panel.
func (h *Handlers) CreateMatch(ctx context.Context, in MatchForm) (club.TournamentMatch, error) {
	const action = "create match"
	tid, err := parseID(action, "tournament", in.TournamentID)
	if err != nil {
		return club.TournamentMatch{}, err
	}
	team1, err := parseID(action, "team 1", in.Team1ID)
	if err != nil {
		return club.TournamentMatch{}, err
	}
	team2, err := parseID(action, "team 2", in.Team2ID)
	if err != nil {
		return club.TournamentMatch{}, err
	}
	if team1 == team2 {
		return club.TournamentMatch{}, invalid(action, "a team cannot play itself")
	}
	number, err := parseInt(action, "match number", in.MatchNumber)
	if err != nil {
		return club.TournamentMatch{}, err
	}
	score1, err := parseInt(action, "team 1 score", in.ScoreTeam1)
	if err != nil {
		return club.TournamentMatch{}, err
	}
	score2, err := parseInt(action, "team 2 score", in.ScoreTeam2)
	if err != nil {
		return club.TournamentMatch{}, err
	}
	motm, err := parseOptionalID(action, "man of the match", in.ManOfTheMatchID)
	if err != nil {
		return club.TournamentMatch{}, err
	}
	req := club.NewMatch{
		TournamentID:    tid,
		Team1ID:         team1,
		Team2ID:         team2,
		MatchNumber:     number,
		Date:            strings.TrimSpace(in.Date),
		ScoreTeam1:      score1,
		ScoreTeam2:      score2,
		Location:        strings.TrimSpace(in.Location),
		IsCompleted:     in.Completed,
		ManOfTheMatchID: motm,
		Notes:           in.Notes,
	}

	m, err := run(ctx, h, action, fmt.Sprintf("tournament:%d:match", tid), func(ctx context.Context) (club.TournamentMatch, error) {
		return h.api.CreateTournamentMatch(ctx, req)
	})
	if err != nil {
		return club.TournamentMatch{}, err
	}
	h.reconcile(ctx, dashboard.MutCreateMatch, nil, tid)
	return m, nil
}

func (h *Handlers) MarkRead(ctx context.Context, id string) error {
	const action = "mark notification read"
	nid, err := parseID(action, "notification", id)
	if err != nil {
		return err
	}
	_, err = run(ctx, h, action, fmt.Sprintf("notification:%d", nid), func(ctx context.Context) (struct{}, error) {
		return struct{}{}, h.api.MarkNotificationRead(ctx, nid)
	})
	if err != nil {
		return err
	}
	h.reconcile(ctx, dashboard.MutMarkRead, nil, 0)
	return nil
}
