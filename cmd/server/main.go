package main

import (
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"docflow/internal/auth"
	"docflow/internal/cache"
	"docflow/internal/config"
	"docflow/internal/gateway/rest"
	"docflow/internal/handler"
	"docflow/internal/middleware"
	"docflow/internal/service"
	"docflow/internal/templates"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	var logOut io.Writer = os.Stdout
	if cfg.LogDir != "" {
		logFile, err := config.SetupLogFile(cfg.LogDir, cfg.LogMaxFiles)
		if err != nil {
			log.Fatalf("Failed to set up log file: %v", err)
		}
		defer logFile.Close()
		logOut = io.MultiWriter(os.Stdout, logFile)
	}

	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"upstream", cfg.UpstreamBaseURL,
	)

	// Create JWT verifier for JWKS-based authentication
	jwtVerifier, err := auth.NewJWKSVerifier(cfg.JWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	// Pick the cache backend: Redis when configured, otherwise in-process
	var store cache.Store
	if cfg.RedisURL != "" {
		redisStore, err := cache.NewRedisStore(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		store = redisStore
		logger.Info("cache backend connected", "backend", "redis")
	} else {
		store = cache.NewMemoryStore()
		logger.Info("cache backend connected", "backend", "memory")
	}
	defer store.Close()

	cacheLayer := cache.New(store, cfg.CacheTTL, logger)

	// Initialize the document template registry from embedded config
	templateRegistry, err := templates.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to initialize template registry: %v", err)
	}
	logger.Info("template registry initialized", "templates", len(templateRegistry.List()))

	// Create the upstream REST client and gateways
	gatewayConfig := &rest.GatewayConfig{
		Client: rest.NewClient(cfg.UpstreamBaseURL, cfg.UpstreamTimeout, logger),
		Logger: logger,
	}
	docGateway := rest.NewDocumentGateway(gatewayConfig)
	versionGateway := rest.NewVersionGateway(gatewayConfig)
	reviewGateway := rest.NewReviewGateway(gatewayConfig)
	generationGateway := rest.NewGenerationGateway(gatewayConfig)

	// View registry with TTL-based expiry for abandoned sessions
	viewRegistry := service.NewViewRegistry(cfg.ViewTTL, logger)
	defer viewRegistry.Stop()

	// Create services
	viewService := service.NewViewService(viewRegistry, docGateway, cacheLayer, logger)
	lifecycleService := service.NewLifecycleService(docGateway, generationGateway, cacheLayer, viewRegistry, templateRegistry, logger)
	sectionService := service.NewSectionService(docGateway, generationGateway, cacheLayer, viewRegistry, templateRegistry, logger)
	versionService := service.NewVersionService(versionGateway, cacheLayer, viewRegistry, logger)
	reviewService := service.NewReviewService(reviewGateway, cacheLayer, viewRegistry, logger)

	// Create handlers
	docHandler := handler.NewDocumentHandler(lifecycleService, sectionService, logger)
	viewHandler := handler.NewViewHandler(viewService, lifecycleService, logger)
	sectionHandler := handler.NewSectionHandler(sectionService, logger)
	versionHandler := handler.NewVersionHandler(versionService, logger)
	reviewHandler := handler.NewReviewHandler(reviewService, logger)
	templateHandler := handler.NewTemplateHandler(templateRegistry)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", docHandler.HealthCheck)

	// Template library routes
	mux.HandleFunc("GET /api/templates", templateHandler.ListTemplates)
	mux.HandleFunc("GET /api/templates/{id}", templateHandler.GetTemplate)

	// Document routes
	mux.HandleFunc("GET /api/documents", docHandler.ListDocuments)
	mux.HandleFunc("POST /api/documents", docHandler.CreateDocument)
	mux.HandleFunc("GET /api/documents/{id}", docHandler.GetDocument)
	mux.HandleFunc("PATCH /api/documents/{id}", docHandler.UpdateDocument)
	mux.HandleFunc("DELETE /api/documents/{id}", docHandler.DeleteDocument)
	mux.HandleFunc("POST /api/documents/{id}/status", docHandler.RequestTransition)
	mux.HandleFunc("GET /api/documents/{id}/sections", docHandler.ListSections)

	// Version routes (read-only, document-scoped)
	mux.HandleFunc("GET /api/documents/{id}/versions", versionHandler.ListVersions)
	mux.HandleFunc("GET /api/documents/{id}/versions/compare", versionHandler.CompareVersions) // Must come before {number} route
	mux.HandleFunc("GET /api/documents/{id}/versions/{number}", versionHandler.GetVersion)

	// Review routes (document-scoped)
	mux.HandleFunc("GET /api/documents/{id}/review", reviewHandler.GetReviewStatus)
	mux.HandleFunc("PUT /api/documents/{id}/review/reviewer", reviewHandler.AssignReviewer)
	mux.HandleFunc("POST /api/documents/{id}/review/recall", reviewHandler.RecallReview)
	mux.HandleFunc("GET /api/documents/{id}/reviews", reviewHandler.ListReviews)
	mux.HandleFunc("GET /api/documents/{id}/reviews/{reviewID}", reviewHandler.GetReview)
	mux.HandleFunc("POST /api/documents/{id}/reviews/{reviewID}/comments/{commentID}/resolve", reviewHandler.ResolveComment)

	// View session routes
	mux.HandleFunc("POST /api/views", viewHandler.OpenView)
	mux.HandleFunc("GET /api/views/{viewID}", viewHandler.GetView)
	mux.HandleFunc("DELETE /api/views/{viewID}", viewHandler.CloseView)
	mux.HandleFunc("POST /api/views/{viewID}/generate", viewHandler.EnsureGenerated)

	// View-scoped section routes
	mux.HandleFunc("POST /api/views/{viewID}/sections", sectionHandler.AddSection)
	mux.HandleFunc("PUT /api/views/{viewID}/sections/order", sectionHandler.ReorderSections)
	mux.HandleFunc("PATCH /api/views/{viewID}/sections/{sectionID}", sectionHandler.UpdateSection)
	mux.HandleFunc("DELETE /api/views/{viewID}/sections/{sectionID}", sectionHandler.RemoveSection)
	mux.HandleFunc("PUT /api/views/{viewID}/sections/{sectionID}/select", sectionHandler.SelectSection)
	mux.HandleFunc("POST /api/views/{viewID}/sections/{sectionID}/editor", sectionHandler.OpenEditor)
	mux.HandleFunc("GET /api/views/{viewID}/sections/{sectionID}/editor", sectionHandler.GetEditor)
	mux.HandleFunc("PUT /api/views/{viewID}/sections/{sectionID}/editor", sectionHandler.SetBuffer)
	mux.HandleFunc("DELETE /api/views/{viewID}/sections/{sectionID}/editor", sectionHandler.CloseEditor)
	mux.HandleFunc("POST /api/views/{viewID}/sections/{sectionID}/save", sectionHandler.SaveSection)
	mux.HandleFunc("POST /api/views/{viewID}/sections/{sectionID}/regenerate", sectionHandler.RegenerateSection)

	// View-scoped version routes
	mux.HandleFunc("POST /api/views/{viewID}/versions", versionHandler.CreateVersion)
	mux.HandleFunc("POST /api/views/{viewID}/versions/restore", versionHandler.RestoreVersion)
	mux.HandleFunc("GET /api/views/{viewID}/compare", versionHandler.CompareSelected)
	mux.HandleFunc("DELETE /api/views/{viewID}/compare", versionHandler.ClearCompareSelection)
	mux.HandleFunc("POST /api/views/{viewID}/compare/{number}", versionHandler.SelectForCompare)

	// View-scoped review routes
	mux.HandleFunc("POST /api/views/{viewID}/review/submit", reviewHandler.SubmitForReview)
	mux.HandleFunc("POST /api/views/{viewID}/review/decision", reviewHandler.SubmitDecision)

	// Build middleware chain
	var root http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS -> Recovery -> Auth -> Routes
	root = middleware.Auth(jwtVerifier, logger)(root)
	root = middleware.Recovery(logger)(root)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	root = corsHandler.Handler(root)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.UpstreamTimeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	logger.Info("listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
