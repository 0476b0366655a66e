// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// EnvVarPrefix is the prefix for environment variables.
// Change this constant when forking stratacms for a new project.
const EnvVarPrefix = "STRATACMS"

// appConfigKeys defines the configuration keys for this application.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, schema_artifact_path, etc.
//   - Environment variables: STRATACMS_MONGO_URI, STRATACMS_SCHEMA_ARTIFACT_PATH, etc.
//   - Command-line flags: --mongo_uri, --schema_artifact_path, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "stratacms", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// Schema and provisioning configuration
	{Name: "schema_artifact_path", Default: "./schema/schema.json", Desc: "Path to the compiled schema artifact"},
	{Name: "media_source_dir", Default: "./schema/media", Desc: "Directory holding seed media files"},
	{Name: "run_log_path", Default: "./setup-run.log", Desc: "Append-only provisioning run log file"},

	// Setup key configuration (for the /admin/api/setup endpoints)
	{Name: "setup_key", Default: "", Desc: "Plaintext setup key for provisioning endpoints (leave empty when setup_key_hash is set)"},
	{Name: "setup_key_hash", Default: "", Desc: "bcrypt hash of the setup key (takes precedence over setup_key)"},

	// File storage configuration
	{Name: "storage_type", Default: "local", Desc: "Storage backend: 'local' or 's3'"},
	{Name: "storage_local_path", Default: "./uploads", Desc: "Local storage path for uploaded media"},
	{Name: "storage_local_url", Default: "/media", Desc: "URL prefix for serving local media files"},

	// S3/CloudFront configuration
	{Name: "storage_s3_region", Default: "", Desc: "AWS region for S3"},
	{Name: "storage_s3_bucket", Default: "", Desc: "S3 bucket name"},
	{Name: "storage_s3_prefix", Default: "uploads/", Desc: "S3 key prefix"},
	{Name: "storage_cf_url", Default: "", Desc: "CloudFront distribution URL"},
	{Name: "storage_cf_keypair_id", Default: "", Desc: "CloudFront key pair ID"},
	{Name: "storage_cf_key_path", Default: "", Desc: "Path to CloudFront private key file"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
// CoreConfig comes from the shared WAFFLE layer; AppConfig is specific
// to this app and can be extended as the app grows.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, STRATACMS_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, EnvVarPrefix, appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		// Schema and provisioning
		SchemaArtifactPath: appValues.String("schema_artifact_path"),
		MediaSourceDir:     appValues.String("media_source_dir"),
		RunLogPath:         appValues.String("run_log_path"),

		// Setup key
		SetupKey:     appValues.String("setup_key"),
		SetupKeyHash: appValues.String("setup_key_hash"),

		// File storage
		StorageType:      appValues.String("storage_type"),
		StorageLocalPath: appValues.String("storage_local_path"),
		StorageLocalURL:  appValues.String("storage_local_url"),

		// S3/CloudFront
		StorageS3Region:    appValues.String("storage_s3_region"),
		StorageS3Bucket:    appValues.String("storage_s3_bucket"),
		StorageS3Prefix:    appValues.String("storage_s3_prefix"),
		StorageCFURL:       appValues.String("storage_cf_url"),
		StorageCFKeyPairID: appValues.String("storage_cf_keypair_id"),
		StorageCFKeyPath:   appValues.String("storage_cf_key_path"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// This is the right place to enforce required fields or invariants that
// involve both the core and app configs.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if appCfg.SchemaArtifactPath == "" {
		return fmt.Errorf("schema_artifact_path must not be empty")
	}

	if appCfg.StorageType != "local" && appCfg.StorageType != "s3" {
		return fmt.Errorf("storage_type must be 'local' or 's3', got %q", appCfg.StorageType)
	}

	if appCfg.SetupKey == "" && appCfg.SetupKeyHash == "" {
		logger.Warn("no setup_key or setup_key_hash configured; setup endpoints will reject all requests")
	}

	return nil
}
