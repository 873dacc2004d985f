package router

import (
	"context"
	"database/sql"
	"net/http"
	"os"

	mem "plan-timeline/internal/adapters/storage/memory"
	pg "plan-timeline/internal/adapters/storage/postgres"
	"plan-timeline/internal/domain/plans"
	"plan-timeline/internal/domain/sharing"
	"plan-timeline/internal/domain/timeline"
	"plan-timeline/internal/middleware"
	"plan-timeline/internal/ports/auth"
	"plan-timeline/internal/ports/capabilities"
	"plan-timeline/internal/ports/kv"

	_ "plan-timeline/docs"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // nil means dev mode (X-Debug-User-ID)

	// Optional: with a DB, storage is Postgres. Without, in-memory.
	DB *sql.DB

	// Optional: gates premium features (xlsx export). nil skips the check.
	Capabilities capabilities.Resolver
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	var (
		planRepo   plans.Repository
		grantsRepo sharing.Repository
		backend    kv.Store
	)

	// Without an explicit DB, try env (dev/handoff convenience)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			}
		}
	}

	if db != nil {
		_ = pg.EnsureSchema(context.Background(), db)
		planRepo = pg.NewPlansRepo(db)
		grantsRepo = pg.NewGrantsRepo(db)
		backend = pg.NewKVRepo(db)
	} else {
		planRepo = mem.NewPlanRepo()
		grantsRepo = mem.NewGrantsRepo()
		backend = mem.NewKVStore()
	}

	// Services per module
	plansSvc := plans.NewService(planRepo)
	grantsSvc := sharing.NewService(grantsRepo)
	tracker := timeline.NewTracker(backend)

	// Routes per module
	plans.RegisterRoutes(r, plansSvc, grantsSvc)
	sharing.RegisterRoutes(r, grantsSvc, plansSvc)
	timeline.RegisterRoutes(r, tracker, plansSvc, grantsSvc, opts.Capabilities)

	return r
}
