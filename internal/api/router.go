package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"printshop-pricing-backend/internal/mw"
	"printshop-pricing-backend/internal/notification"
	"printshop-pricing-backend/internal/store"
)

// RouterOptions tunes the middleware in front of the API group.
type RouterOptions struct {
	RateLimitPerSec float64
	RateLimitBurst  int
	CacheTTL        time.Duration
	RequestIPHeader string
}

// NewRouter creates and configures a new Gin router.
func NewRouter(s store.Store, webpushOptions *webpush.Options, pool *notification.WorkerPool, opts RouterOptions) *gin.Engine {
	r := gin.Default()

	handler := NewHandler(s, webpushOptions, pool)

	if opts.RateLimitPerSec <= 0 {
		opts.RateLimitPerSec = 10
	}
	if opts.RateLimitBurst <= 0 {
		opts.RateLimitBurst = 5
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = time.Minute
	}

	rateLimiter := mw.RateLimiterWithHeader(rate.Limit(opts.RateLimitPerSec), opts.RateLimitBurst, opts.RequestIPHeader)

	cacheStore := cache.New(opts.CacheTTL, 2*opts.CacheTTL)
	caching := mw.Cache(cacheStore, opts.CacheTTL)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.GET("/machines", caching, handler.ListMachines)
		api.POST("/machines", handler.CreateMachine)
		api.GET("/machines/:id", handler.GetMachine)
		api.PUT("/machines/:id", handler.UpdateMachine)
		api.DELETE("/machines/:id", handler.DeleteMachine)

		api.GET("/ink-sets", caching, handler.ListInkSets)
		api.POST("/ink-sets", handler.CreateInkSet)
		api.GET("/ink-sets/:id", handler.GetInkSet)
		api.PUT("/ink-sets/:id", handler.UpdateInkSet)
		api.DELETE("/ink-sets/:id", handler.DeleteInkSet)

		api.GET("/materials", caching, handler.ListMaterials)
		api.POST("/materials", handler.CreateMaterial)
		api.GET("/materials/:id", handler.GetMaterial)
		api.PUT("/materials/:id", handler.UpdateMaterial)
		api.DELETE("/materials/:id", handler.DeleteMaterial)

		api.GET("/margin-profiles", caching, handler.ListMarginProfiles)
		api.POST("/margin-profiles", handler.CreateMarginProfile)
		api.GET("/margin-profiles/:id", handler.GetMarginProfile)
		api.PUT("/margin-profiles/:id", handler.UpdateMarginProfile)
		api.DELETE("/margin-profiles/:id", handler.DeleteMarginProfile)

		api.GET("/pricing-profiles", caching, handler.ListPricingProfiles)
		api.POST("/pricing-profiles", handler.CreatePricingProfile)
		api.GET("/pricing-profiles/:id", handler.GetPricingProfile)
		api.PUT("/pricing-profiles/:id", handler.UpdatePricingProfile)
		api.DELETE("/pricing-profiles/:id", handler.DeletePricingProfile)

		api.POST("/quote", handler.PostQuote)

		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
	}

	return r
}
