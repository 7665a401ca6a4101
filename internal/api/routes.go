// Package api wires the HTTP routes to their handlers.
package api

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/funny-life2033/HyperDriveAI-backend/internal/api/handlers"
	apimiddleware "github.com/funny-life2033/HyperDriveAI-backend/internal/api/middleware"
	"github.com/funny-life2033/HyperDriveAI-backend/internal/domain/chat"
	"github.com/funny-life2033/HyperDriveAI-backend/internal/domain/ingest"
	"github.com/funny-life2033/HyperDriveAI-backend/internal/domain/user"
	"github.com/funny-life2033/HyperDriveAI-backend/internal/infra/docstore"
	"github.com/funny-life2033/HyperDriveAI-backend/internal/infra/embed"
	"github.com/funny-life2033/HyperDriveAI-backend/internal/infra/eventbus"
	"github.com/funny-life2033/HyperDriveAI-backend/internal/infra/llm"
	"github.com/funny-life2033/HyperDriveAI-backend/internal/infra/vector"
)

// Deps are the infrastructure collaborators the API needs. Tests swap in
// fakes or httptest-backed clients.
type Deps struct {
	DB       *sql.DB
	Registry *llm.Registry
	Embedder embed.Embedder
	Index    vector.Index
	Docs     docstore.Store
	Bus      eventbus.EventBus
	Splitter ingest.Splitter
	Logger   *slog.Logger
}

// NewRouter builds the chi router with all routes registered.
// /health and the register/login endpoints are public; everything else
// under /api requires a valid Bearer JWT.
func NewRouter(deps Deps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`)) //nolint:errcheck
	})

	users := user.NewService(deps.DB)
	models := chat.NewModelService(deps.DB)
	bots := chat.NewBotService(deps.DB)
	rooms := chat.NewRoomService(deps.DB, bots)
	history := chat.NewHistoryService(deps.DB)
	answers := chat.NewAnswerService(deps.Registry, deps.Logger)
	ingestSvc := ingest.NewService(deps.Docs, deps.Embedder, deps.Index, deps.Splitter, deps.Bus, deps.Logger)

	authHandler := handlers.NewAuthHandler(users)
	modelHandler := handlers.NewModelHandler(models)
	botHandler := handlers.NewBotHandler(bots, models, ingestSvc)
	roomHandler := handlers.NewRoomHandler(rooms)
	chatHandler := handlers.NewChatHandler(rooms, history, answers, deps.Logger)
	searchHandler := handlers.NewSearchHandler(deps.Index)
	ingestionHandler := handlers.NewIngestionHandler(ingestSvc)

	r.Route("/api", func(r chi.Router) {
		r.Post("/users/register", authHandler.Register)
		r.Post("/users/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(apimiddleware.Auth(users))

			r.Post("/users/logout", authHandler.Logout)
			r.Get("/users/session", authHandler.Session)

			r.Route("/models", func(r chi.Router) {
				r.Get("/", modelHandler.List)
				r.Post("/", modelHandler.Create)
				r.Get("/{id}", modelHandler.Get)
			})

			r.Route("/bots", func(r chi.Router) {
				r.Get("/", botHandler.List)
				r.Post("/", botHandler.Create)
				r.Get("/{id}", botHandler.Get)
				r.Post("/{id}/search", searchHandler.Search)
			})

			r.Route("/rooms", func(r chi.Router) {
				r.Get("/", roomHandler.List)
				r.Post("/", roomHandler.Create)
			})

			r.Route("/chats", func(r chi.Router) {
				r.Get("/{room_id}", chatHandler.History)
				r.Post("/{room_id}", chatHandler.Ask)
			})

			r.Route("/ingestions", func(r chi.Router) {
				r.Get("/{id}", ingestionHandler.Get)
				r.Delete("/{id}", ingestionHandler.Cancel)
			})
		})
	})

	return r
}
