package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"gp_planner/pkg/logx"
	"gp_planner/pkg/middlewarex"
)

func (s Server) RegisterRoutes(r chi.Router) {
	r.Route("/v1", func(r chi.Router) {
		r.Route("/goal-plans", func(r chi.Router) {
			r.Post("/", handler(s.postV1GoalPlan))
			r.Get("/{id}", handler(s.getV1GoalPlan))
			r.Post("/{id}/regenerate", handler(s.postV1RegenerateGoalPlan))
		})

		r.Route("/strategies", func(r chi.Router) {
			r.Get("/{id}", handler(s.getV1Strategy))
			r.Get("/{id}/risk", handler(s.getV1StrategyRisk))
		})
	})
}

type RouterOptions struct {
	Masker         logx.SensitiveDataMaskerInterface
	LogFieldMaxLen int
	AllowedOrigins []string
}

// Router builds the full handler with the middleware chain.
func (s Server) Router(opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(
		cors.Handler(cors.Options{
			AllowedOrigins: opts.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Trace-Id"},
			ExposedHeaders: []string{"X-Trace-Id"},
			MaxAge:         300,
		}),
		middlewarex.TraceID,
		middlewarex.Logger,
		middlewarex.Recovery,
		middlewarex.RequestLogging(opts.Masker, opts.LogFieldMaxLen),
		middlewarex.ResponseLogging(opts.Masker, opts.LogFieldMaxLen),
	)

	s.RegisterRoutes(r)

	return r
}

func handler(f func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := f(w, r); err != nil {
			replyError(r.Context(), w, err)
		}
	}
}
