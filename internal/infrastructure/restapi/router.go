package restapi

import (
	"net/http"
	"net/http/pprof"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// RouterDeps holds everything SetupRouter wires into routes.
type RouterDeps struct {
	Balances       *BalancesHandler
	Dashboard      *DashboardHandler
	Gatherer       prometheus.Gatherer // nil = /metrics disabled
	AllowedOrigins []string            // empty = allow all
	Pprof          bool
	Logger         *zap.Logger
}

// SetupRouter builds the gin engine with middleware and every route whose handler is set.
func SetupRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	corsConfig := cors.DefaultConfig()
	if len(deps.AllowedOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = deps.AllowedOrigins
	}
	corsConfig.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	router.Use(cors.New(corsConfig))

	if deps.Logger != nil {
		router.Use(ZapLoggerMiddleware(deps.Logger))
	}
	router.Use(gin.Recovery())
	router.SetHTMLTemplate(dashboardTemplate)

	if deps.Balances != nil {
		router.GET("/api/balances/", deps.Balances.GetBalancesHandler)
	}

	if deps.Dashboard != nil {
		router.GET("/", deps.Dashboard.Index)
		router.GET("/healthz", deps.Dashboard.Health)
		table := router.Group("/api/table")
		{
			table.GET("", deps.Dashboard.GetTable)
			table.POST("/refresh", deps.Dashboard.Refresh)
		}
	}

	if deps.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	if deps.Pprof {
		pprofRouter := router.Group("/debug/pprof")
		{
			pprofRouter.GET("/", gin.WrapF(pprof.Index))
			pprofRouter.GET("/cmdline", gin.WrapF(pprof.Cmdline))
			pprofRouter.GET("/profile", gin.WrapF(pprof.Profile))
			pprofRouter.GET("/symbol", gin.WrapF(pprof.Symbol))
			pprofRouter.POST("/symbol", gin.WrapF(pprof.Symbol))
			pprofRouter.GET("/trace", gin.WrapF(pprof.Trace))
			pprofRouter.GET("/heap", gin.WrapH(pprof.Handler("heap")))
			pprofRouter.GET("/goroutine", gin.WrapH(pprof.Handler("goroutine")))
		}
	}

	return router
}
