package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-retryablehttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/RahulGupta0712/Spotify-to-Youtube/internal/adapters"
	handler "github.com/RahulGupta0712/Spotify-to-Youtube/internal/adapters/http"
	"github.com/RahulGupta0712/Spotify-to-Youtube/internal/adapters/spotify"
	"github.com/RahulGupta0712/Spotify-to-Youtube/internal/adapters/youtube"
	"github.com/RahulGupta0712/Spotify-to-Youtube/internal/adapters/ytsearch"
	"github.com/RahulGupta0712/Spotify-to-Youtube/internal/app"
	"github.com/RahulGupta0712/Spotify-to-Youtube/internal/auth"
	"github.com/RahulGupta0712/Spotify-to-Youtube/internal/config"
	"github.com/RahulGupta0712/Spotify-to-Youtube/internal/session"
	"github.com/RahulGupta0712/Spotify-to-Youtube/web"

	_ "github.com/RahulGupta0712/Spotify-to-Youtube/docs"
)

// @title			Spotify-to-Youtube API
// @version		1.0
// @description	One-way migration of a Spotify playlist (or Liked Songs) to a YouTube playlist.

// @contact.name	Spotify-to-Youtube Support
// @license.name	MIT

// @host		localhost:8080
// @BasePath	/
func main() {
	cfg := config.Load()

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	if lvl, err := log.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(lvl)
	}

	// One retrying HTTP client with a hard timeout for every outbound call,
	// so a slow upstream can never hang a run indefinitely.
	rc := retryablehttp.NewClient()
	rc.RetryMax = 2
	rc.Logger = nil
	httpClient := rc.StandardClient()
	httpClient.Timeout = cfg.HTTPTimeout

	// Provider adapters
	source := spotify.NewClient(httpClient, cfg.SpotifyClientID, cfg.SpotifyClientSecret, logger,
		spotify.WithMaxPages(cfg.MaxTrackPages))
	writer := youtube.NewWriter(httpClient, logger)

	// Search backends
	searchers := adapters.NewSearcherRegistry()
	searchers.Register(ytsearch.NewScraper(httpClient))
	if cfg.YouTubeAPIKey != "" {
		searchers.Register(youtube.NewAPISearcher(httpClient, cfg.YouTubeAPIKey))
	}
	searcher, err := searchers.Get(cfg.SearchBackend)
	if err != nil {
		logger.Fatal("invalid SEARCH_BACKEND", "err", err, "available", searchers.Available())
	}

	// Session + OAuth flows
	store := session.NewStore(cfg.SessionTTL)
	authMgr := auth.NewManager(auth.Config{
		SpotifyClientID:     cfg.SpotifyClientID,
		SpotifyClientSecret: cfg.SpotifyClientSecret,
		SpotifyRedirectURL:  cfg.SpotifyRedirectURL,
		GoogleClientID:      cfg.GoogleClientID,
		GoogleClientSecret:  cfg.GoogleClientSecret,
		GoogleRedirectURL:   cfg.GoogleRedirectURL,
	}, store, httpClient, logger)

	// Application service
	conversionService := app.NewService(source, searcher, writer, cfg.InsertDelay, cfg.SearchTimeout, logger)

	// HTTP server
	r := gin.Default()
	h := handler.NewHandler(conversionService, source, authMgr, logger)
	h.RegisterRoutes(r)
	authMgr.RegisterRoutes(r)
	web.RegisterRoutes(r)

	// Swagger UI
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	addr := ":" + cfg.Port
	logger.Info("starting Spotify-to-Youtube server", "addr", addr)
	logger.Info("search backend", "name", searcher.Name())
	logger.Info("swagger UI", "url", "http://localhost"+addr+"/swagger/index.html")

	if err := r.Run(addr); err != nil {
		logger.Fatal("server exited", "err", err)
	}
}
