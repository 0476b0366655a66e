// internal/app/bootstrap/routes.go
package bootstrap

import (
	"context"
	"net/http"
	"time"

	bootstrapapifeature "github.com/dalemusser/stratacms/internal/app/features/bootstrapapi"
	contentapifeature "github.com/dalemusser/stratacms/internal/app/features/contentapi"
	healthfeature "github.com/dalemusser/stratacms/internal/app/features/health"
	setupapifeature "github.com/dalemusser/stratacms/internal/app/features/setupapi"
	"github.com/dalemusser/stratacms/internal/app/provision"
	contentstore "github.com/dalemusser/stratacms/internal/app/store/content"
	mediastore "github.com/dalemusser/stratacms/internal/app/store/media"
	menustore "github.com/dalemusser/stratacms/internal/app/store/menus"
	optionstore "github.com/dalemusser/stratacms/internal/app/store/options"
	podstore "github.com/dalemusser/stratacms/internal/app/store/pods"
	"github.com/dalemusser/stratacms/internal/app/store/setupstate"
	termstore "github.com/dalemusser/stratacms/internal/app/store/terms"
	"github.com/dalemusser/stratacms/internal/app/system/runlog"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/middleware"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. At this point you have access to:
//   - coreCfg: WAFFLE core configuration (ports, env, timeouts, etc.)
//   - appCfg: app-specific configuration defined in AppConfig
//   - deps: any DB or backend clients bundled in DBDeps
//   - logger: the fully configured zap.Logger for this app
//
// StrataCMS is headless: every surface is a JSON API. The route map:
//   - /api/v1/*            public content reads (CORS permissive, no auth)
//   - /admin/api/setup/*   provisioning control (setup key auth)
//   - /health, /ready, ... probes
//   - /media/*             uploaded media files (local storage only)
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase

	// Stores
	pods := podstore.New(db)
	content := contentstore.New(db)
	terms := termstore.New(db)
	menus := menustore.New(db)
	media := mediastore.New(db)
	options := optionstore.New(db)
	state := setupstate.New(db)

	// Content-type registry: the cache of provisioned type names that
	// validates /api/v1/content/{type} path params and drives the
	// bootstrap aggregate's per-type sections.
	registry := contentapifeature.NewRegistry(pods, logger)
	{
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := registry.Refresh(ctx); err != nil {
			// A fresh install has no pod definitions yet; the registry
			// repopulates after the first provisioning run.
			logger.Warn("content type registry initial load failed", zap.Error(err))
		}
	}

	// Provisioning pipeline
	runLog, err := runlog.New(appCfg.RunLogPath, logger)
	if err != nil {
		logger.Error("run log init failed", zap.Error(err))
		return nil, err
	}

	orch := provision.NewOrchestrator(
		appCfg.SchemaArtifactPath,
		state,
		provision.NewPodProvisioner(pods, registry, runLog, logger),
		provision.NewSeeder(pods, content, terms, media, runLog, logger),
		provision.NewMediaProvisioner(media, deps.FileStorage, appCfg.MediaSourceDir, runLog, logger),
		provision.NewMenuProvisioner(menus, runLog, logger),
		provision.NewDashboardCustomizer(runLog, logger),
		provision.NewOptionDefaulter(options, runLog, logger),
		runLog,
		logger,
	)

	// Shared read layer
	accessor := contentapifeature.NewAccessor(content, terms, menus, media, options, logger)

	r := chi.NewRouter()

	// ─────────────────────────────────────────────────────────────────────────────
	// Global Middleware (applies to ALL routes)
	// ─────────────────────────────────────────────────────────────────────────────

	// Request timeout middleware: prevents requests from hanging indefinitely.
	r.Use(chimw.Timeout(30 * time.Second))

	// Security headers middleware: adds X-Frame-Options, X-Content-Type-Options, etc.
	r.Use(middleware.SecurityHeadersFromConfig(coreCfg))

	// ─────────────────────────────────────────────────────────────────────────────
	// Routes
	// ─────────────────────────────────────────────────────────────────────────────

	// Public content read API. Per-feature routers apply permissive CORS.
	contentHandler := contentapifeature.NewHandler(accessor, registry, logger)
	bootstrapHandler := bootstrapapifeature.NewHandler(accessor, registry, logger)
	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/bootstrap", bootstrapapifeature.Routes(bootstrapHandler))
		r.Mount("/", contentapifeature.Routes(contentHandler))
	})

	// Setup admin API (setup key auth)
	setupHandler := setupapifeature.NewHandler(orch, runLog, logger)
	r.Mount("/admin/api/setup", setupapifeature.Routes(setupHandler, appCfg.SetupKey, appCfg.SetupKeyHash, logger))

	// Health check endpoints for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, appCfg.SchemaArtifactPath, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	healthfeature.MountRootEndpoints(r, healthHandler)

	// Uploaded media files (local storage only)
	// When using local storage, serve files from the configured path
	if appCfg.StorageType == "local" || appCfg.StorageType == "" {
		r.Handle(appCfg.StorageLocalURL+"/*", fileserver.Handler(appCfg.StorageLocalURL, appCfg.StorageLocalPath))
	}

	return r, nil
}
