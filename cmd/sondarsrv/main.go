// Command sondarsrv exposes the sonar fingerprinting library over HTTP:
// ingest tracks, identify query clips, and inspect the catalogue.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/sondar/sondar/internal/config"
	"github.com/sondar/sondar/pkg/sonarlog"
)

func main() {
	config.LoadEnv(".env")
	log := sonarlog.Get()

	cfg := serverConfigFromEnv()

	file := &config.File{}
	if cfg.configPath != "" {
		loaded, err := config.Load(cfg.configPath)
		if err != nil {
			log.Fatalf("loading config file: %v", err)
		}
		file = loaded
	}

	store, err := config.OpenStore(context.Background(), file, cfg.dbPath)
	if err != nil {
		log.Fatalf("opening catalogue: %v", err)
	}
	defer store.Close()

	srv, err := newServer(store, file, cfg, log)
	if err != nil {
		log.Fatalf("building server: %v", err)
	}

	router := gin.New()
	router.Use(gin.Recovery(), ginLogger(log))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	srv.registerRoutes(router)

	addr := fmt.Sprintf(":%d", cfg.port)
	log.Infof("sondarsrv listening on %s (db=%s, storage=%s)", addr, cfg.dbPath, file.Storage.Driver)
	if err := router.Run(addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

type serverConfig struct {
	port           int
	dbPath         string
	tempDir        string
	sampleRate     int
	configPath     string
	allowedOrigins []string
}

func serverConfigFromEnv() serverConfig {
	cfg := serverConfig{
		port:           8080,
		dbPath:         "sondar.sqlite3",
		tempDir:        os.TempDir(),
		allowedOrigins: []string{"*"},
	}
	if v := os.Getenv("SONAR_DB_PATH"); v != "" {
		cfg.dbPath = v
	}
	if v := os.Getenv("SONAR_TEMP_DIR"); v != "" {
		cfg.tempDir = v
	}
	if v := os.Getenv("SONAR_CONFIG_FILE"); v != "" {
		cfg.configPath = v
	}
	if v := os.Getenv("SONAR_SAMPLE_RATE"); v != "" {
		if rate, err := strconv.Atoi(v); err == nil {
			cfg.sampleRate = rate
		}
	}
	if v := os.Getenv("SONAR_CORS_ORIGINS"); v != "" {
		origins := strings.Split(v, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		cfg.allowedOrigins = origins
	}
	return cfg
}

func ginLogger(log interface{ Infof(string, ...interface{}) }) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		log.Infof("%s %s -> %d", c.Request.Method, c.Request.URL.Path, c.Writer.Status())
	}
}
