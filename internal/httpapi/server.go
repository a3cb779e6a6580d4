package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"vaxslots/pkg/types"
)

// Service defines the center operations required by the HTTP API layer.
type Service interface {
	ListCenters(ctx context.Context) ([]types.Center, error)
	AddCenter(ctx context.Context, in types.CenterRequest) (types.Center, error)
	UpdateCenter(ctx context.Context, id int64, in types.CenterRequest) error
	RemoveCenter(ctx context.Context, id int64) error
	Book(ctx context.Context, id int64) (types.Center, error)
	Ready(ctx context.Context) error
}

// Accounts defines the user account operations behind /signup and /login.
type Accounts interface {
	CreateUser(ctx context.Context, name, email, password string) (types.InsertResult, error)
	CheckCredentials(ctx context.Context, email, password string) (bool, error)
}

// NewMux builds the HTTP router. ws, when non-nil, serves the live update
// channel at /ws; it is mounted outside the compressing and instrumenting
// middleware because the upgrade needs the raw connection.
func NewMux(svc Service, accounts Accounts, ws http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	// Preflight requests never match a route, so CORS sits on the root router.
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
			ExposedHeaders: []string{outcomeHeader},
			MaxAge:         300,
		}))
	}

	if ws != nil {
		r.Handle("/ws", ws)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Compress(5))
		r.Use(MetricsMiddleware)
		r.Use(RequestLogger)

		r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
		})

		r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
			if err := svc.Ready(r.Context()); err != nil {
				logError(err, "readiness check")
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte("unavailable"))
				return
			}
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ready"))
		})

		r.Handle("/metrics", promhttp.Handler())

		if accounts != nil {
			r.Post("/signup", signupHandler(accounts))
			r.Post("/login", loginHandler(accounts))
		}

		r.Get("/getVaccinationCenters", listCentersHandler(svc))
		r.Post("/addVaccinationCenter", addCenterHandler(svc))
		r.Put("/updateVaccinationCenter/{id}", updateCenterHandler(svc))
		r.Post("/removeVaccinationCenter", removeCenterHandler(svc))
		r.Post("/bookVaccinationCenter", bookCenterHandler(svc))

		MountSwagger(r)
	})

	return r
}
