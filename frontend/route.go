package frontend

import (
	"net/http"

	"lostark_dps/analysis"
	"lostark_dps/config"
	"lostark_dps/skilldb"
	"lostark_dps/telemetry"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	dir = "./frontend/public/"
)

func Route(g *gin.Engine, cfg *config.Config) {
	an := &analysis.Analyzer{
		Telemetry: telemetry.NewClient(cfg.TelemetryHost),
		Skills:    skilldb.NewResolver(cfg.LookupHost),
	}

	g.Use(gin.ErrorLogger())
	g.Use(gin.Recovery())
	g.Use(metricsMiddleware())

	g.Static("/static", dir+"static")
	g.StaticFile("/", dir+"index.htm")

	g.NoMethod(func(c *gin.Context) { c.Redirect(http.StatusTemporaryRedirect, "/") })
	g.NoRoute(func(c *gin.Context) { c.Redirect(http.StatusTemporaryRedirect, "/") })

	g.GET("/api/get-run-data", routeRunData(an))
	g.GET("/ws/analysis", routeAnalysisWS(an))
	g.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
