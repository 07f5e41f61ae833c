package scorehttp

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// Options configures the HTTP surface.
type Options struct {
	AllowedOrigins []string
	RateLimit      float64
	RateBurst      int
}

// NewRouter builds the chi router for the read API, health probe and
// metrics endpoint. A nil gatherer leaves /metrics unmounted.
func NewRouter(h *ScoreHTTP, gatherer prometheus.Gatherer, opts Options) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/v1/guilds/{guildID}", func(r chi.Router) {
		r.Use(CORSMiddleware(opts.AllowedOrigins))
		if opts.RateLimit > 0 {
			burst := opts.RateBurst
			if burst <= 0 {
				burst = 1
			}
			r.Use(RateLimitMiddleware(rate.Limit(opts.RateLimit), burst))
		}

		r.Get("/members/{memberID}", h.HandleGetMember)
		r.Get("/members/{memberID}/score", h.HandleGetScore)
		r.Get("/points", h.HandleListPoints)
	})

	return r
}
