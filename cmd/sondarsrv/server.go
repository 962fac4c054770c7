package main

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sondar/sondar/internal/config"
	"github.com/sondar/sondar/pkg/sonar"
	"github.com/sondar/sondar/pkg/sonar/index"
	"github.com/sondar/sondar/pkg/sonarlog"
)

// server wires the sonar library to HTTP handlers and owns the catalogue
// connection for the lifetime of the process.
type server struct {
	store      index.Store
	lib        *sonar.Library
	cfg        serverConfig
	sampleRate int
	log        *sonarlog.Logger
}

func newServer(store index.Store, file *config.File, cfg serverConfig, log *sonarlog.Logger) (*server, error) {
	opts := file.Options()
	if cfg.sampleRate > 0 {
		opts = append(opts, sonar.WithSampleRate(cfg.sampleRate))
	}
	opts = append(opts, sonar.WithLogger(log))

	lib, err := sonar.New(store, opts...)
	if err != nil {
		return nil, err
	}

	sampleRate := cfg.sampleRate
	if sampleRate == 0 {
		sampleRate = file.SampleRate
	}
	if sampleRate == 0 {
		sampleRate = 22050
	}

	return &server{store: store, lib: lib, cfg: cfg, sampleRate: sampleRate, log: log}, nil
}

func (s *server) registerRoutes(r *gin.Engine) {
	r.GET("/healthz", s.handleHealthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/v1")
	{
		v1.GET("/tracks", s.handleListTracks)
		v1.POST("/tracks", s.handleIngestTrack)
		v1.DELETE("/tracks/:id", s.handleDeleteTrack)
		v1.POST("/identify", s.handleIdentify)
	}
}
