package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/webtheme-backend/api/controllers"
	"github.com/angelmondragon/webtheme-backend/api/middleware"
	"github.com/angelmondragon/webtheme-backend/internal/editor"
	"github.com/angelmondragon/webtheme-backend/pkg/config"
	"github.com/angelmondragon/webtheme-backend/pkg/db"
	"github.com/angelmondragon/webtheme-backend/pkg/logger"
)

// RedisClient is the redis surface the router needs for readiness and
// save throttling.
type RedisClient interface {
	Ping(ctx context.Context) error
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient RedisClient,
	gatherer prometheus.Gatherer,
	editorService editor.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	savePolicy := middleware.NewRateLimitPolicy(
		"save",
		cfg.Editor.SaveRateWindow,
		cfg.Editor.SaveRateLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"db":    dbP,
			"redis": redisClient,
		}))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/theme", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Get("/draft", controllers.ThemeDraft(editorService, logg))
		r.Get("/revisions", controllers.ThemeRevisions(editorService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireWriter(logg))

			// Opening the editor re-reads the backend and replaces the draft.
			r.Get("/", controllers.ThemeEditor(editorService, logg))
			r.Post("/reload", controllers.ThemeReload(editorService, logg))
			r.Delete("/draft", controllers.ThemeDiscard(editorService, logg))
			r.Post("/draft/commands", controllers.ThemeApplyCommands(editorService, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RateLimit(savePolicy, redisClient, logg))
				r.Post("/save", controllers.ThemeSave(editorService, logg))
				r.Post("/save/header", controllers.ThemeSaveHeader(editorService, logg))
			})
		})
	})

	return r
}
