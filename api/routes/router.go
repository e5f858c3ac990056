package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pawfectfind/pawfectfind-backend/api/controllers"
	"github.com/pawfectfind/pawfectfind-backend/api/middleware"
	"github.com/pawfectfind/pawfectfind-backend/internal/breeds"
	"github.com/pawfectfind/pawfectfind-backend/internal/bundles"
	"github.com/pawfectfind/pawfectfind-backend/internal/dogs"
	"github.com/pawfectfind/pawfectfind-backend/internal/favorites"
	"github.com/pawfectfind/pawfectfind-backend/internal/matching"
	"github.com/pawfectfind/pawfectfind-backend/internal/products"
	"github.com/pawfectfind/pawfectfind-backend/pkg/config"
	"github.com/pawfectfind/pawfectfind-backend/pkg/db"
	"github.com/pawfectfind/pawfectfind-backend/pkg/logger"
	"github.com/pawfectfind/pawfectfind-backend/pkg/metrics"
	"github.com/pawfectfind/pawfectfind-backend/pkg/redis"
)

// Store is the redis surface the HTTP layer needs: health, rate limits and
// idempotency replay.
type Store interface {
	redis.IdempotencyStore
	redis.Pinger
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (redis.Window, error)
}

// Services groups the domain services mounted by the router.
type Services struct {
	Breeds    breeds.Service
	Products  products.Service
	Matching  matching.Service
	Bundles   bundles.Service
	Dogs      dogs.Service
	Favorites favorites.Service
}

// Observability carries the metrics registry exposed on /metrics.
type Observability struct {
	Gatherer    prometheus.Gatherer
	HTTPMetrics *metrics.HTTPMetrics
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	store Store,
	obs Observability,
	svc Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(obs.HTTPMetrics),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	quotePolicy := middleware.NewRateLimitPolicy("quote", cfg.RateLimit.QuoteWindow, cfg.RateLimit.QuoteLimit)
	idempotent := middleware.Idempotency(store, middleware.DefaultIdempotencyTTL, logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"database": dbP,
			"redis":    store,
		}))
	})
	if obs.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(obs.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalAuth(cfg.JWT, logg))

			r.Get("/breeds", controllers.BreedsList(svc.Breeds, logg))
			r.Get("/breeds/{breedId}", controllers.BreedDetail(svc.Breeds, logg))
			r.Get("/breeds/{breedId}/life-stages", controllers.BreedLifeStages(svc.Breeds, logg))

			r.Get("/products", controllers.ProductsList(svc.Products, logg))
			r.Get("/products/{productId}", controllers.ProductDetail(svc.Products, logg))

			r.Get("/recommendations", controllers.Recommendations(svc.Matching, logg))
			r.Post("/sizing/classify", controllers.SizingClassify(svc.Breeds, logg))
			r.With(middleware.RateLimit(quotePolicy, store, logg)).
				Post("/bundles/quote", controllers.BundleQuote(svc.Bundles, logg))

			r.Get("/guest/dogs", controllers.GuestDogsList(svc.Dogs, logg))
			r.Post("/guest/dogs", controllers.GuestDogCreate(svc.Dogs, logg))
			r.Delete("/guest/dogs/{dogId}", controllers.GuestDogDelete(svc.Dogs, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))

			r.Get("/dogs", controllers.DogsList(svc.Dogs, logg))
			r.Post("/dogs", controllers.DogCreate(svc.Dogs, logg))
			r.With(idempotent).Post("/dogs/reconcile", controllers.DogsReconcile(svc.Dogs, logg))
			r.Get("/dogs/{dogId}", controllers.DogDetail(svc.Dogs, logg))
			r.Put("/dogs/{dogId}", controllers.DogUpdate(svc.Dogs, logg))
			r.Delete("/dogs/{dogId}", controllers.DogDelete(svc.Dogs, logg))
			r.Get("/dogs/{dogId}/metrics", controllers.DogMetrics(svc.Dogs, logg))
			r.Get("/dogs/{dogId}/recommendations", controllers.DogRecommendations(svc.Dogs, logg))
			r.Get("/dogs/{dogId}/growth", controllers.DogGrowth(svc.Dogs, logg))
			r.Get("/dogs/{dogId}/health-records", controllers.DogHealthList(svc.Dogs, logg))
			r.Post("/dogs/{dogId}/health-records", controllers.DogHealthCreate(svc.Dogs, logg))
			r.Put("/dogs/{dogId}/health-records/{recordId}", controllers.DogHealthUpdate(svc.Dogs, logg))
			r.Delete("/dogs/{dogId}/health-records/{recordId}", controllers.DogHealthDelete(svc.Dogs, logg))

			r.Get("/bundles", controllers.BundleList(svc.Bundles, logg))
			r.With(idempotent).Post("/bundles", controllers.BundleCreate(svc.Bundles, logg))
			r.Get("/bundles/{bundleId}", controllers.BundleDetail(svc.Bundles, logg))
			r.Put("/bundles/{bundleId}", controllers.BundleUpdate(svc.Bundles, logg))
			r.Delete("/bundles/{bundleId}", controllers.BundleDelete(svc.Bundles, logg))
			r.With(idempotent).Post("/bundles/{bundleId}/complete", controllers.BundleComplete(svc.Bundles, logg))

			r.Get("/favorites", controllers.FavoritesList(svc.Favorites, logg))
			r.Get("/favorites/ids", controllers.FavoritesIDs(svc.Favorites, logg))
			r.Post("/favorites/{productId}/toggle", controllers.FavoriteToggle(svc.Favorites, logg))
			r.Put("/favorites/{productId}", controllers.FavoriteAdd(svc.Favorites, logg))
			r.Delete("/favorites/{productId}", controllers.FavoriteRemove(svc.Favorites, logg))

			r.With(middleware.RequireAdmin(logg)).
				Put("/admin/breeds/{breedId}/life-stages", controllers.AdminReplaceLifeStages(svc.Breeds, logg))
		})
	})

	return r
}
