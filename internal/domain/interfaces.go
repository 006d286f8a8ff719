package domain

import (
	"context"
)

// ImageClassifier turns a scene photograph into a (possibly partial)
// injury classification. Implementations must honour ctx cancellation.
type ImageClassifier interface {
	ClassifyImage(ctx context.Context, image *ImageInput) (*RawClassification, error)
}

// ConfigManager defines the interface for configuration management
type ConfigManager interface {
	GetConfig() *Config
	GetServerConfig() *ServerConfig
	GetGeminiConfig() *GeminiConfig
	GetCacheConfig() *CacheConfig
	GetLoggingConfig() *LoggingConfig
	Reload() error
	Validate() error
	IsProduction() bool
	IsDevelopment() bool
}
