package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/mauv0809/clubhouse/internal/auth"
	"github.com/mauv0809/clubhouse/internal/club"
	"github.com/mauv0809/clubhouse/internal/database"
)

// Simplified config loading for the script
func loadConfig() map[string]string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	config := map[string]string{
		"DB_NAME":           "clubhouse.db",
		"TURSO_PRIMARY_URL": "",
		"TURSO_AUTH_TOKEN":  "",
		"SEED_PASSWORD":     "",
	}
	for key := range config {
		if value, ok := os.LookupEnv(key); ok {
			config[key] = value
		}
	}
	if config["SEED_PASSWORD"] == "" {
		config["SEED_PASSWORD"] = uuid.NewString()[:12]
		log.Warn("SEED_PASSWORD not set, generated one", "password", config["SEED_PASSWORD"])
	}
	return config
}

type seeder struct {
	store    club.ClubStore
	auth     *auth.Service
	password string
}

func (s *seeder) user(ctx context.Context, username string, role club.Role, sport *club.Sport) club.User {
	hash, err := s.auth.HashPassword(s.password)
	if err != nil {
		log.Fatalf("Failed to hash password: %s", err)
	}
	u := club.User{Username: username, Email: username + "@clubhouse.test", Role: role, Verified: true, PasswordHash: hash}
	if sport != nil {
		u.PrimarySport = &club.SportRef{ID: sport.ID, Name: sport.Name}
	}
	created, err := s.store.CreateUser(ctx, u)
	if err != nil {
		log.Fatalf("Failed to create user %s: %s", username, err)
	}
	log.Info("Created user", "username", created.Username, "role", created.Role, "publicID", created.PublicID)
	return created
}

func main() {
	log.Info("Starting database seeder...")
	cfg := loadConfig()
	ctx := context.Background()

	db, teardown, err := database.InitDB(cfg["DB_NAME"], cfg["TURSO_PRIMARY_URL"], cfg["TURSO_AUTH_TOKEN"])
	if err != nil {
		log.Fatalf("Failed to open database: %s", err)
	}
	defer teardown()
	startTime := time.Now()

	store := club.New(db)
	s := &seeder{store: store, auth: auth.New(store, 0), password: cfg["SEED_PASSWORD"]}

	cricket, err := store.CreateSport(ctx, "Cricket", club.SportTypeTeam)
	if err != nil {
		log.Fatalf("Failed to create sport: %s", err)
	}
	if _, err := store.CreateSport(ctx, "Tennis", club.SportTypeIndividual); err != nil {
		log.Fatalf("Failed to create sport: %s", err)
	}

	s.user(ctx, "admin", club.RoleAdmin, nil)
	manager := s.user(ctx, "manager", club.RoleManager, nil)
	coach := s.user(ctx, "coach", club.RoleCoach, &cricket)

	const numPlayers = 12
	players := make([]club.User, 0, numPlayers)
	for i := range numPlayers {
		p := s.user(ctx, fmt.Sprintf("player%02d", i+1), club.RolePlayer, &cricket)
		l, err := store.CreateLinkRequest(ctx, club.CoachToPlayer, p.ID, coach.ID, cricket.ID)
		if err != nil {
			log.Fatalf("Failed to link player %s: %s", p.Username, err)
		}
		if _, err := store.DecideLinkRequest(ctx, l.ID, club.StatusAccepted); err != nil {
			log.Fatalf("Failed to accept link for %s: %s", p.Username, err)
		}
		players = append(players, p)
	}
	log.Info("Ensured players exist and train with the coach.", "players", len(players))

	tournament, err := store.CreateTournament(ctx, manager.ID, club.NewTournament{
		Name:      "Seeded Spring Cup",
		SportID:   cricket.ID,
		Location:  "Seeded Oval",
		StartDate: time.Now().Format(time.DateOnly),
	})
	if err != nil {
		log.Fatalf("Failed to create tournament: %s", err)
	}

	teamIDs := make([]int64, 0, 3)
	for i, name := range []string{"Falcons", "Hawks", "Owls"} {
		team, err := store.CreateTeam(ctx, manager.ID, club.NewTeam{Name: name, SportID: cricket.ID, CoachID: &coach.ID})
		if err != nil {
			log.Fatalf("Failed to create team %s: %s", name, err)
		}
		if err := store.AddTeamToTournament(ctx, tournament.ID, team.ID); err != nil {
			log.Fatalf("Failed to enter team %s: %s", name, err)
		}
		profiles, err := store.ListProfiles(ctx, coach)
		if err != nil {
			log.Fatalf("Failed to list profiles: %s", err)
		}
		// Four players per team, in order.
		for _, p := range profiles[i*4 : i*4+4] {
			if _, err := store.UpdateProfile(ctx, p.ID, club.ProfileUpdate{TeamID: &team.ID}); err != nil {
				log.Fatalf("Failed to put %s on %s: %s", p.Player.Username, name, err)
			}
		}
		teamIDs = append(teamIDs, team.ID)
	}

	matchNumber := 0
	for i := range teamIDs {
		for j := i + 1; j < len(teamIDs); j++ {
			matchNumber++
			motm := players[rand.Intn(len(players))].ID
			_, err := store.CreateTournamentMatch(ctx, club.NewMatch{
				TournamentID:    tournament.ID,
				Team1ID:         teamIDs[i],
				Team2ID:         teamIDs[j],
				MatchNumber:     matchNumber,
				Date:            time.Now().Format(time.DateOnly),
				ScoreTeam1:      80 + rand.Intn(120),
				ScoreTeam2:      80 + rand.Intn(120),
				Location:        "Seeded Oval",
				IsCompleted:     true,
				ManOfTheMatchID: &motm,
			})
			if err != nil {
				log.Fatalf("Failed to record match %d: %s", matchNumber, err)
			}
		}
	}

	duration := time.Since(startTime)
	log.Info("Successfully seeded the club.", "matches", matchNumber, "duration", duration)
}
