package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/ketoslim-funnel/internal/domain/funnel"
	"github.com/yanqian/ketoslim-funnel/internal/infra/config"
	"github.com/yanqian/ketoslim-funnel/pkg/metrics"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler, tokens TokenIssuer, counters *metrics.Funnel, logger *slog.Logger) *http.Server {
	gin.SetMode(gin.ReleaseMode)
	logger = logger.With("component", "http.router")

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestLogger(logger),
		corsMiddleware(cfg.HTTP.AllowedOrigins),
		errorHandlingMiddleware(logger),
	)
	router.GET("/healthz", handler.Health)
	router.NoRoute(func(c *gin.Context) {
		abortWithError(c, NewHTTPError(http.StatusNotFound, "not_found", "route not found", nil))
	})

	cookie := CookieConfig{Name: cfg.Session.CookieName, Secure: cfg.Session.CookieSecure}
	funnelRoutes := router.Group("/",
		rateLimitMiddleware(cfg.HTTP.RateLimit, logger),
		sessionMiddleware(tokens, cookie, counters.SessionStarted, logger),
	)
	{
		funnelRoutes.GET(funnel.RootPath, handler.Page)
		funnelRoutes.GET(funnel.ResultsPath+":step", handler.Page)
		funnelRoutes.GET(funnel.OfferPath, handler.Page)

		api := funnelRoutes.Group("/api/v1")
		api.GET("/funnel", handler.State)
		api.PATCH("/funnel/answers", handler.UpdateAnswers)
		api.POST("/funnel/advance", handler.Advance)
		api.POST("/funnel/retreat", handler.Retreat)
		api.POST("/funnel/decline", handler.Decline)
		api.POST("/funnel/history/back", handler.Back)
		api.POST("/funnel/history/forward", handler.Forward)
		api.POST("/offer/plan", handler.SelectPlan)
		api.POST("/offer/continue", handler.Continue)
	}
	router.GET("/api/v1/funnel/stats", handler.Stats)

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        withRetry(router, cfg.HTTP.Retry, logger),
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}
