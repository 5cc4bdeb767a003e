package club_test

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mauv0809/clubhouse/internal/club"
	"github.com/mauv0809/clubhouse/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) club.ClubStore {
	t.Helper()

	db, teardown, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)
	t.Cleanup(teardown)

	clock := clockwork.NewFakeClockAt(time.Date(2025, 4, 2, 10, 0, 0, 0, time.UTC))
	return club.NewWithClock(db, clock)
}

func mkUser(t *testing.T, store club.ClubStore, name string, role club.Role) club.User {
	t.Helper()
	u, err := store.CreateUser(context.Background(), club.User{Username: name, Email: name + "@club.test", Role: role, Verified: true})
	require.NoError(t, err)
	return u
}

func mkSport(t *testing.T, store club.ClubStore, name string) club.Sport {
	t.Helper()
	sp, err := store.CreateSport(context.Background(), name, club.SportTypeTeam)
	require.NoError(t, err)
	return sp
}

// link makes player an active student of coach for sport.
func link(t *testing.T, store club.ClubStore, player, coach club.User, sport club.Sport) {
	t.Helper()
	ctx := context.Background()
	l, err := store.CreateLinkRequest(ctx, club.CoachToPlayer, player.ID, coach.ID, sport.ID)
	require.NoError(t, err)
	_, err = store.DecideLinkRequest(ctx, l.ID, club.StatusAccepted)
	require.NoError(t, err)
}

func TestCreateUser(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	p := mkUser(t, store, "pete", club.RolePlayer)
	c := mkUser(t, store, "carol", club.RoleCoach)
	m := mkUser(t, store, "maria", club.RoleManager)

	assert.Equal(t, "P2500001", p.PublicID)
	assert.Equal(t, "C2500002", c.PublicID)
	assert.Empty(t, m.PublicID)

	byPublic, err := store.GetUserByPublicID(ctx, "P2500001")
	require.NoError(t, err)
	assert.Equal(t, p.ID, byPublic.ID)

	_, err = store.CreateUser(ctx, club.User{Username: "pete", Role: club.RolePlayer})
	assert.ErrorIs(t, err, club.ErrConflict)

	_, err = store.GetUser(ctx, 999)
	assert.ErrorIs(t, err, club.ErrNotFound)
}

func TestTokens(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()
	u := mkUser(t, store, "pete", club.RolePlayer)

	require.NoError(t, store.SaveToken(ctx, "tok", u.ID))
	got, err := store.UserForToken(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	require.NoError(t, store.DeleteToken(ctx, "tok"))
	_, err = store.UserForToken(ctx, "tok")
	assert.ErrorIs(t, err, club.ErrNotFound)
}

func TestVerifyUser(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()
	c, err := store.CreateUser(ctx, club.User{Username: "carol", Email: "carol@example.com", Role: club.RoleCoach})
	require.NoError(t, err)
	assert.False(t, c.Verified)

	c, err = store.VerifyUser(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, c.Verified)

	_, err = store.VerifyUser(ctx, 999)
	assert.ErrorIs(t, err, club.ErrNotFound)

	coaches, err := store.ListUsersByRole(ctx, club.RoleCoach)
	require.NoError(t, err)
	assert.Len(t, coaches, 1)
	admins, err := store.ListUsersByRole(ctx, club.RoleAdmin)
	require.NoError(t, err)
	assert.NotNil(t, admins)
}

func TestProposalTransitionsExactlyOnce(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()
	cricket := mkSport(t, store, "Cricket")
	coach := mkUser(t, store, "carol", club.RoleCoach)
	manager := mkUser(t, store, "maria", club.RoleManager)
	player := mkUser(t, store, "pete", club.RolePlayer)

	p, err := store.CreateProposal(ctx, coach.ID, club.NewProposal{
		ManagerID: manager.ID, SportID: cricket.ID, TeamName: "Falcons", PlayerIDs: []int64{player.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, club.StatusPending, p.Status)
	require.Len(t, p.ProposedPlayers, 1)

	approved, err := store.DecideProposal(ctx, p.ID, manager.ID, club.StatusApproved, "")
	require.NoError(t, err)
	assert.Equal(t, club.StatusApproved, approved.Status)
	require.NotNil(t, approved.CreatedTeamID)
	require.NotNil(t, approved.DecidedBy)
	assert.Equal(t, manager.ID, approved.DecidedBy.ID)

	_, err = store.DecideProposal(ctx, p.ID, manager.ID, club.StatusRejected, "changed my mind")
	require.ErrorIs(t, err, club.ErrNotPending)
	assert.Equal(t, "Team proposal is not pending", err.Error())

	again, err := store.GetProposal(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, club.StatusApproved, again.Status)
	assert.Empty(t, again.Remarks)

	team, err := store.GetTeam(ctx, *approved.CreatedTeamID)
	require.NoError(t, err)
	assert.Equal(t, "Falcons", team.Name)
	require.NotNil(t, team.Coach)
	assert.Equal(t, coach.ID, team.Coach.ID)
	require.Len(t, team.Players, 1)
	assert.Equal(t, player.ID, team.Players[0].ID)

	_, err = store.DecideProposal(ctx, 999, manager.ID, club.StatusApproved, "")
	assert.ErrorIs(t, err, club.ErrNotFound)
}

func TestRejectedProposalKeepsRemarks(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()
	cricket := mkSport(t, store, "Cricket")
	coach := mkUser(t, store, "carol", club.RoleCoach)
	manager := mkUser(t, store, "maria", club.RoleManager)

	p, err := store.CreateProposal(ctx, coach.ID, club.NewProposal{ManagerID: manager.ID, SportID: cricket.ID, TeamName: "Owls"})
	require.NoError(t, err)
	_, err = store.DecideProposal(ctx, p.ID, manager.ID, club.StatusRejected, "X")
	require.NoError(t, err)

	list, err := store.ListProposals(ctx, coach)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, club.StatusRejected, list[0].Status)
	assert.Equal(t, "X", list[0].Remarks)
	assert.Nil(t, list[0].CreatedTeamID)

	managerView, err := store.ListProposals(ctx, manager)
	require.NoError(t, err)
	assert.Len(t, managerView, 1)
}

func TestProposalValidation(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()
	cricket := mkSport(t, store, "Cricket")
	coach := mkUser(t, store, "carol", club.RoleCoach)

	_, err := store.CreateProposal(ctx, coach.ID, club.NewProposal{ManagerID: coach.ID, SportID: cricket.ID, TeamName: "Owls"})
	assert.ErrorIs(t, err, club.ErrInvalid)

	_, err = store.CreateProposal(ctx, coach.ID, club.NewProposal{TeamName: " "})
	assert.ErrorIs(t, err, club.ErrInvalid)
}

func TestAssignmentAcceptSetsCoach(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()
	cricket := mkSport(t, store, "Cricket")
	coach := mkUser(t, store, "carol", club.RoleCoach)
	manager := mkUser(t, store, "maria", club.RoleManager)

	team, err := store.CreateTeam(ctx, manager.ID, club.NewTeam{Name: "Falcons", SportID: cricket.ID})
	require.NoError(t, err)
	assert.Nil(t, team.Coach)

	a, err := store.CreateAssignment(ctx, manager.ID, club.NewAssignment{CoachID: coach.ID, TeamID: team.ID})
	require.NoError(t, err)

	_, err = store.CreateAssignment(ctx, manager.ID, club.NewAssignment{CoachID: coach.ID, TeamID: team.ID})
	assert.ErrorIs(t, err, club.ErrConflict)

	accepted, err := store.DecideAssignment(ctx, a.ID, club.StatusAccepted, "")
	require.NoError(t, err)
	assert.Equal(t, club.StatusAccepted, accepted.Status)

	team, err = store.GetTeam(ctx, team.ID)
	require.NoError(t, err)
	require.NotNil(t, team.Coach)
	assert.Equal(t, coach.ID, team.Coach.ID)

	_, err = store.DecideAssignment(ctx, a.ID, club.StatusRejected, "")
	assert.ErrorIs(t, err, club.ErrNotPending)

	coachView, err := store.ListAssignments(ctx, coach)
	require.NoError(t, err)
	assert.Len(t, coachView, 1)
}

func TestLinkRequests(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()
	cricket := mkSport(t, store, "Cricket")
	coach := mkUser(t, store, "carol", club.RoleCoach)
	player := mkUser(t, store, "pete", club.RolePlayer)

	l, err := store.CreateLinkRequest(ctx, club.PlayerToCoach, player.ID, coach.ID, cricket.ID)
	require.NoError(t, err)

	_, err = store.CreateLinkRequest(ctx, club.CoachToPlayer, player.ID, coach.ID, cricket.ID)
	assert.ErrorIs(t, err, club.ErrConflict)

	_, err = store.DecideLinkRequest(ctx, l.ID, club.StatusAccepted)
	require.NoError(t, err)

	ids, err := store.StudentIDs(ctx, coach.ID, cricket.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{player.PublicID}, ids)

	_, err = store.CreateLinkRequest(ctx, club.CoachToPlayer, player.ID, coach.ID, cricket.ID)
	require.ErrorIs(t, err, club.ErrConflict)
	assert.Equal(t, "Player is already linked to this coach for this sport", err.Error())

	dash, err := store.CoachDashboard(ctx, coach.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, dash.TotalStudents)

	playerDash, err := store.PlayerDashboard(ctx, player.ID)
	require.NoError(t, err)
	require.Len(t, playerDash.Profiles, 1)
	assert.Empty(t, playerDash.AvailableSports)
}

func TestPromotionApprovalMakesCoach(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()
	cricket := mkSport(t, store, "Cricket")
	manager := mkUser(t, store, "maria", club.RoleManager)
	player := mkUser(t, store, "pete", club.RolePlayer)

	r, err := store.CreatePromotion(ctx, player.ID, club.NewPromotion{SportID: cricket.ID, Remarks: "ready"})
	require.NoError(t, err)
	_, err = store.CreatePromotion(ctx, player.ID, club.NewPromotion{SportID: cricket.ID})
	assert.ErrorIs(t, err, club.ErrConflict)

	_, err = store.DecidePromotion(ctx, r.ID, manager.ID, club.StatusApproved, "")
	require.NoError(t, err)

	u, err := store.GetUser(ctx, player.ID)
	require.NoError(t, err)
	assert.Equal(t, club.RoleCoach, u.Role)
}

func TestAttendanceAndEndSession(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()
	cricket := mkSport(t, store, "Cricket")
	coach := mkUser(t, store, "carol", club.RoleCoach)
	p1 := mkUser(t, store, "pete", club.RolePlayer)
	p2 := mkUser(t, store, "paula", club.RolePlayer)
	p3 := mkUser(t, store, "paolo", club.RolePlayer)
	for _, p := range []club.User{p1, p2, p3} {
		link(t, store, p, coach, cricket)
	}

	session, err := store.CreateSession(ctx, coach.ID, club.NewSession{SportID: cricket.ID, Title: "Nets"})
	require.NoError(t, err)
	assert.True(t, session.IsActive)

	updated, err := store.RecordAttendance(ctx, session.ID, []club.AttendanceRow{
		{PlayerID: p1.PublicID, Attended: true, Score: 8},
		{PlayerID: p2.PublicID, Attended: true, Score: 7},
		{PlayerID: p3.PublicID, Attended: false},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, updated)

	// Re-uploading a row overwrites it.
	_, err = store.RecordAttendance(ctx, session.ID, []club.AttendanceRow{{PlayerID: p2.PublicID, Attended: true, Score: 6}})
	require.NoError(t, err)

	summary, err := store.EndSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.TotalPlayers)
	assert.Equal(t, 2, summary.Attended)
	assert.Equal(t, 1, summary.Absent)
	assert.Equal(t, summary.TotalPlayers, summary.Attended+summary.Absent)
	assert.Equal(t, 7.0, summary.AverageRating)

	ended, err := store.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.False(t, ended.IsActive)

	_, err = store.EndSession(ctx, session.ID)
	assert.ErrorIs(t, err, club.ErrInvalid)

	_, err = store.RecordAttendance(ctx, session.ID, []club.AttendanceRow{{PlayerID: p1.PublicID, Attended: true}})
	assert.ErrorIs(t, err, club.ErrInvalid)

	_, err = store.EndSession(ctx, 999)
	assert.ErrorIs(t, err, club.ErrNotFound)
}

func TestTournaments(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()
	cricket := mkSport(t, store, "Cricket")
	football := mkSport(t, store, "Football")
	manager := mkUser(t, store, "maria", club.RoleManager)
	star := mkUser(t, store, "pete", club.RolePlayer)

	a, err := store.CreateTeam(ctx, manager.ID, club.NewTeam{Name: "A", SportID: cricket.ID})
	require.NoError(t, err)
	b, err := store.CreateTeam(ctx, manager.ID, club.NewTeam{Name: "B", SportID: cricket.ID})
	require.NoError(t, err)
	f, err := store.CreateTeam(ctx, manager.ID, club.NewTeam{Name: "F", SportID: football.ID})
	require.NoError(t, err)

	_, err = store.CreateTournament(ctx, manager.ID, club.NewTournament{Name: "Cup", SportID: cricket.ID, StartDate: "2025-05-02", EndDate: "2025-05-01"})
	assert.ErrorIs(t, err, club.ErrInvalid)

	cup, err := store.CreateTournament(ctx, manager.ID, club.NewTournament{Name: "Cup", SportID: cricket.ID, StartDate: "2025-05-01", EndDate: "2025-05-03"})
	require.NoError(t, err)
	assert.Empty(t, cup.Teams)

	require.NoError(t, store.AddTeamToTournament(ctx, cup.ID, a.ID))
	require.NoError(t, store.AddTeamToTournament(ctx, cup.ID, b.ID))

	err = store.AddTeamToTournament(ctx, cup.ID, a.ID)
	assert.ErrorIs(t, err, club.ErrConflict)
	err = store.AddTeamToTournament(ctx, cup.ID, f.ID)
	require.ErrorIs(t, err, club.ErrInvalid)
	assert.Equal(t, "Team sport does not match tournament sport", err.Error())

	_, err = store.CreateTournamentMatch(ctx, club.NewMatch{TournamentID: cup.ID, Team1ID: a.ID, Team2ID: a.ID})
	assert.ErrorIs(t, err, club.ErrInvalid)
	_, err = store.CreateTournamentMatch(ctx, club.NewMatch{TournamentID: cup.ID, Team1ID: a.ID, Team2ID: f.ID})
	assert.ErrorIs(t, err, club.ErrInvalid)

	m, err := store.CreateTournamentMatch(ctx, club.NewMatch{
		TournamentID: cup.ID, Team1ID: a.ID, Team2ID: b.ID, MatchNumber: 1, Date: "2025-05-01",
		ScoreTeam1: 150, ScoreTeam2: 120, IsCompleted: true, ManOfTheMatchID: &star.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, m.ManOfTheMatch)
	assert.Equal(t, star.ID, m.ManOfTheMatch.ID)

	matches, err := store.ListTournamentMatches(ctx, cup.ID)
	require.NoError(t, err)
	require.Len(t, matches, 1)

	got, err := store.GetTournament(ctx, cup.ID)
	require.NoError(t, err)
	table := club.BuildPointsTable(got.Teams, matches)
	require.Len(t, table, 2)
	assert.Equal(t, "A", table[0].Team.Name)
	assert.Equal(t, 2, table[0].Points)
}

func TestNotifications(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()
	u := mkUser(t, store, "pete", club.RolePlayer)
	other := mkUser(t, store, "paula", club.RolePlayer)

	n, err := store.CreateNotification(ctx, u.ID, club.Notification{Title: "Hi", Message: "Welcome", Type: "info"})
	require.NoError(t, err)
	assert.True(t, n.Unread())

	assert.ErrorIs(t, store.MarkNotificationRead(ctx, other.ID, n.ID), club.ErrNotFound)
	require.NoError(t, store.MarkNotificationRead(ctx, u.ID, n.ID))

	list, err := store.ListNotifications(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.False(t, list[0].Unread())
}

func TestUpdateProfile(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()
	cricket := mkSport(t, store, "Cricket")
	football := mkSport(t, store, "Football")
	coach := mkUser(t, store, "carol", club.RoleCoach)
	manager := mkUser(t, store, "maria", club.RoleManager)
	player := mkUser(t, store, "pete", club.RolePlayer)
	link(t, store, player, coach, cricket)

	team, err := store.CreateTeam(ctx, manager.ID, club.NewTeam{Name: "Falcons", SportID: cricket.ID})
	require.NoError(t, err)
	other, err := store.CreateTeam(ctx, manager.ID, club.NewTeam{Name: "Kickers", SportID: football.ID})
	require.NoError(t, err)

	profiles, err := store.ListProfiles(ctx, coach)
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	id := profiles[0].ID

	_, err = store.UpdateProfile(ctx, id, club.ProfileUpdate{TeamID: &other.ID})
	assert.ErrorIs(t, err, club.ErrInvalid)

	p, err := store.UpdateProfile(ctx, id, club.ProfileUpdate{TeamID: &team.ID})
	require.NoError(t, err)
	require.NotNil(t, p.Team)
	assert.Equal(t, team.ID, p.Team.ID)

	p, err = store.UpdateProfile(ctx, id, club.ProfileUpdate{RemoveFromTeam: true})
	require.NoError(t, err)
	assert.Nil(t, p.Team)
}
