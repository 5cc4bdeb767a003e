package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mauv0809/clubhouse/internal/auth"
	"github.com/mauv0809/clubhouse/internal/club"
	"github.com/mauv0809/clubhouse/internal/config"
	"github.com/mauv0809/clubhouse/internal/metrics"
	"github.com/mauv0809/clubhouse/internal/processor"
	"github.com/mauv0809/clubhouse/internal/pubsub"
	"github.com/rs/cors"
)

func NewServer(store club.ClubStore, authSvc *auth.Service, metricsSvc metrics.Metrics, metricsHandler http.Handler, cfg config.Config, processor *processor.Processor, pubsub pubsub.PubSubClient) *Server {
	server := &Server{
		Store:          store,
		Auth:           authSvc,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Processor:      processor,
		PubSub:         pubsub,
		Router:         chi.NewRouter(),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	r := s.Router
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Use(s.corsMiddleware())
	r.Use(s.observeMiddleware)

	r.Handle("/metrics", s.MetricsHandler)
	r.Get("/health", s.HealthCheckHandler())
	r.Handle("/pubsub/events", Chain(s.EventPushHandler(), paramsMiddleware))

	staff := requireRole(club.RoleManager, club.RoleAdmin)

	r.Route("/api", func(r chi.Router) {
		r.Use(paramsMiddleware)

		r.Post("/auth/login/", s.LoginHandler())
		r.Post("/auth/signup/", s.SignupHandler())

		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			r.Post("/auth/logout/", s.LogoutHandler())
			r.With(staff).Get("/users/", s.ListUsersHandler())
			r.With(requireRole(club.RoleAdmin)).Post("/users/{id}/verify/", s.VerifyUserHandler())

			r.With(requireRole(club.RoleCoach)).Get("/dashboard/coach/", s.CoachDashboardHandler())
			r.With(requireRole(club.RolePlayer)).Get("/dashboard/player/", s.PlayerDashboardHandler())
			r.Get("/sports/", s.ListSportsHandler())

			r.Route("/sessions", func(r chi.Router) {
				r.Use(requireRole(club.RoleCoach))
				r.Get("/", s.ListSessionsHandler())
				r.Post("/", s.CreateSessionHandler())
				r.Get("/{id}/csv-template/", s.CSVTemplateHandler())
				r.Post("/{id}/upload-csv/", s.UploadCSVHandler())
				r.Post("/{id}/end/", s.EndSessionHandler())
			})

			r.Route("/team-proposals", func(r chi.Router) {
				r.Get("/", s.ListProposalsHandler())
				r.With(requireRole(club.RoleCoach)).Post("/", s.CreateProposalHandler())
				r.Post("/{id}/approve/", s.DecideProposalHandler(club.VerdictApprove))
				r.Post("/{id}/reject/", s.DecideProposalHandler(club.VerdictReject))
			})

			r.Route("/teams", func(r chi.Router) {
				r.Get("/", s.ListTeamsHandler())
				r.With(staff).Post("/", s.CreateTeamHandler())
				r.Get("/{id}/", s.GetTeamHandler())
				r.With(staff).Patch("/{id}/", s.UpdateTeamHandler())
				r.With(staff).Delete("/{id}/", s.DeleteTeamHandler())
			})

			r.Route("/tournaments", func(r chi.Router) {
				r.Get("/", s.ListTournamentsHandler())
				r.With(staff).Post("/", s.CreateTournamentHandler())
				r.With(staff).Post("/{id}/add-team/", s.AddTournamentTeamHandler())
				r.Get("/{id}/matches/", s.TournamentMatchesHandler())
				r.Get("/{id}/points-table/", s.PointsTableHandler())
				r.Get("/{id}/leaderboard/", s.LeaderboardHandler())
			})
			r.With(staff).Post("/tournament-matches/", s.CreateMatchHandler())

			r.Route("/team-assignments", func(r chi.Router) {
				r.Get("/", s.ListAssignmentsHandler())
				r.With(staff).Post("/", s.CreateAssignmentHandler())
				r.Post("/{id}/accept/", s.DecideAssignmentHandler(club.VerdictAccept))
				r.Post("/{id}/reject/", s.DecideAssignmentHandler(club.VerdictReject))
			})

			r.With(requireRole(club.RoleCoach)).Post("/coach-player-links/invite/", s.InvitePlayerHandler())
			r.With(requireRole(club.RolePlayer)).Post("/coach-player-links/request/", s.RequestCoachHandler())
			r.Route("/link-requests", func(r chi.Router) {
				r.Get("/", s.ListLinkRequestsHandler())
				r.Post("/{id}/accept/", s.DecideLinkHandler(club.VerdictAccept))
				r.Post("/{id}/reject/", s.DecideLinkHandler(club.VerdictReject))
			})

			r.Get("/notifications/", s.ListNotificationsHandler())
			r.Post("/notifications/{id}/mark-read/", s.MarkReadHandler())

			r.Route("/promotion", func(r chi.Router) {
				r.With(staff).Get("/", s.ListPromotionsHandler())
				r.With(requireRole(club.RolePlayer)).Post("/", s.RequestPromotionHandler())
				r.Post("/{id}/approve/", s.DecidePromotionHandler(club.VerdictApprove))
				r.Post("/{id}/reject/", s.DecidePromotionHandler(club.VerdictReject))
			})

			r.Get("/player-sport-profiles/", s.ListProfilesHandler())
			r.With(requireRole(club.RoleCoach, club.RoleManager, club.RoleAdmin)).Patch("/player-sport-profiles/{id}/", s.UpdateProfileHandler())
		})
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}

func (s *Server) corsMiddleware() func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   s.Cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "Accept"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
	}).Handler
}
