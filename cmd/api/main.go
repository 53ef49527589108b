package main

import (
	"context"
	"net/http"

	"property-resolver/internal/bootstrap"
	"property-resolver/internal/config"
	"property-resolver/internal/handler"
	"property-resolver/internal/logging"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

func main() {
	config, err := config.LoadConfig("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}
	if err := logging.Setup(config.LogLevel, config.LogFormat); err != nil {
		log.Fatal().Err(err).Msg("cannot set up logging")
	}

	// Sources, stores and resolver
	app, err := bootstrap.Build(context.Background(), config, prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot build resolver")
	}
	defer app.Close()

	propertyHandler := handler.NewPropertyHandler(app.Resolver)
	geoCodeHandler := handler.NewGeoCodeHandler(app.GeoCode)
	zoningHandler := handler.NewZoningHandler(app.Zoning)

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	r.GET("/property", propertyHandler.Resolve)
	r.GET("/geocode", geoCodeHandler.GeoCode)
	r.GET("/zoning", zoningHandler.ZoningAt)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if err := r.Run(config.ServerAddress); err != nil {
		log.Error().Err(err).Msg("server stopped")
	}
}
