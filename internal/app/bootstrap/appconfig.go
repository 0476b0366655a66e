// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like:
//   - HTTP/HTTPS ports and TLS configuration
//   - Logging level and format
//   - Request body size limits
//   - Database connection timeouts
//
// AppConfig is where everything specific to StrataCMS lives: the
// content store connection, the compiled schema artifact, the media
// source directory, and the setup key that guards provisioning.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Maximum connections in pool (default: 100)
	MongoMinPoolSize uint64 // Minimum connections to keep warm (default: 10)

	// Schema and provisioning configuration
	SchemaArtifactPath string // Path to the compiled schema artifact (JSON)
	MediaSourceDir     string // Directory holding seed media files to upload
	RunLogPath         string // Append-only provisioning run log file

	// Setup key authentication (for the /admin/api/setup endpoints).
	// SetupKeyHash (bcrypt) wins when both are set. When neither is
	// set, the setup endpoints reject all requests.
	SetupKey     string
	SetupKeyHash string

	// File storage configuration
	StorageType      string // Storage backend: "local" or "s3"
	StorageLocalPath string // Local storage path (e.g., "./uploads")
	StorageLocalURL  string // URL prefix for serving local files (e.g., "/media")

	// S3/CloudFront configuration (only used if StorageType is "s3")
	StorageS3Region    string // AWS region
	StorageS3Bucket    string // S3 bucket name
	StorageS3Prefix    string // Key prefix (e.g., "uploads/")
	StorageCFURL       string // CloudFront distribution URL
	StorageCFKeyPairID string // CloudFront key pair ID
	StorageCFKeyPath   string // Path to CloudFront private key file
}
