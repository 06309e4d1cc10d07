package config

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for configuration validation
var (
	ErrConfigNotFound  = goerr.New("configuration file not found")
	ErrInvalidConfig   = goerr.New("invalid configuration")
	ErrDuplicateOrder  = goerr.New("duplicate prompt order")
	ErrMissingText     = goerr.New("prompt text is required")
	ErrInvalidOrder    = goerr.New("prompt order must be positive")
	ErrInvalidBackend  = goerr.New("invalid repository backend")
	ErrMissingSetting  = goerr.New("required setting is missing")
	ErrConflictSetting = goerr.New("conflicting settings")
)

// Context keys for error values
const (
	ConfigPathKey  = "config_path"
	OrderKey       = "order"
	PromptIndexKey = "prompt_index"
	BackendKey     = "backend"
	FlagKey        = "flag"
)
