package config

import "time"

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Storage   StorageConfig
	Ingestion IngestionConfig
	Log       LogConfig
	CORS      CORSConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `env:"PORT"                    env-default:"8080"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT"     env-default:"15s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	MaxUploadBytes  int64         `env:"MAX_UPLOAD_BYTES"        env-default:"10485760"`
	GinMode         string        `env:"GIN_MODE"                env-default:"release"`
}

// DatabaseConfig holds the invoice and recipient store settings.
type DatabaseConfig struct {
	Driver           string        `env:"REPOSITORY_DRIVER"           env-default:"postgres"`
	DSN              string        `env:"POSTGRES_DB_URL"`
	MaxConns         int32         `env:"DATABASE_MAX_CONNS"          env-default:"20"`
	MinConns         int32         `env:"DATABASE_MIN_CONNS"          env-default:"2"`
	MaxConnLifetime  time.Duration `env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime  time.Duration `env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	StatementTimeout time.Duration `env:"DATABASE_STATEMENT_TIMEOUT"  env-default:"30s"`
	ApplicationName  string        `env:"DATABASE_APPLICATION_NAME"   env-default:"nfe-ingestion-service"`
}

// StorageConfig selects and configures the raw document blob store.
type StorageConfig struct {
	Driver      string `env:"BLOB_STORAGE_DRIVER" env-default:"fs"`
	BaseDir     string `env:"BLOB_STORAGE_DIR"    env-default:"uploads/xmls"`
	S3Endpoint  string `env:"S3_ENDPOINT"`
	S3Region    string `env:"S3_REGION"           env-default:"us-east-1"`
	S3Bucket    string `env:"S3_BUCKET"           env-default:"nfe-documents"`
	S3Prefix    string `env:"S3_PREFIX"           env-default:"xmls/"`
	S3AccessKey string `env:"S3_ACCESS_KEY"`
	S3SecretKey string `env:"S3_SECRET_KEY"`
	S3PathStyle bool   `env:"S3_FORCE_PATH_STYLE" env-default:"true"`
}

// IngestionConfig tunes the ingestion pipeline and query engine.
type IngestionConfig struct {
	// StoreTimeout bounds every single call to an external store.
	StoreTimeout           time.Duration `env:"STORE_CALL_TIMEOUT"       env-default:"5s"`
	MaxWorkers             int           `env:"MAX_WORKERS"              env-default:"16"`
	DefaultPageSize        int           `env:"DEFAULT_PAGE_SIZE"        env-default:"20"`
	DefaultGroupedPageSize int           `env:"DEFAULT_GROUPED_PAGE_SIZE" env-default:"10"`
	MaxPageSize            int           `env:"MAX_PAGE_SIZE"            env-default:"100"`
	EnrichConcurrency      int           `env:"ENRICH_CONCURRENCY"       env-default:"8"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `env:"LOG_LEVEL"  env-default:"info"`
	Format string `env:"LOG_FORMAT" env-default:"json"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" env-default:"*"`
	AllowedMethods string `env:"CORS_ALLOWED_METHODS" env-default:"GET,POST,OPTIONS"`
	AllowedHeaders string `env:"CORS_ALLOWED_HEADERS" env-default:"Authorization,Content-Type,X-Request-ID"`
	MaxAge         int    `env:"CORS_MAX_AGE"         env-default:"86400"`
}
