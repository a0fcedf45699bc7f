package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goran-ethernal/TicketIndexor/internal/common"
	pkgconfig "github.com/goran-ethernal/TicketIndexor/pkg/config"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables that override file configuration.
// Contract addresses are usually supplied this way by deployment tooling.
const (
	EnvRPCURL        = "TICKET_INDEXER_RPC_URL"
	EnvNetwork       = "TICKET_INDEXER_NETWORK"
	EnvAdminRegistry = "TICKET_INDEXER_ADMIN_REGISTRY"
	EnvEventRegistry = "TICKET_INDEXER_EVENT_REGISTRY"
	EnvOfferRegistry = "TICKET_INDEXER_OFFER_REGISTRY"
	EnvStartBlock    = "TICKET_INDEXER_START_BLOCK"
	EnvDBPath        = "TICKET_INDEXER_DB_PATH"
	EnvGatewayURL    = "TICKET_INDEXER_GATEWAY_URL"
	EnvUploadURL     = "TICKET_INDEXER_UPLOAD_URL"
	EnvGatewayToken  = "TICKET_INDEXER_GATEWAY_TOKEN"
)

// Load builds the configuration from an optional file, .env files and the process environment.
// An empty path means the configuration is taken from the environment only.
func Load(path string, envFiles ...string) (*pkgconfig.Config, error) {
	LoadEnvFiles(envFiles...)

	cfg := &pkgconfig.Config{}
	if path != "" {
		var err error
		if cfg, err = decodeFile(path); err != nil {
			return nil, err
		}
	}

	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}

	return processConfig(cfg)
}

// LoadEnvFiles loads variables from the given .env files, later files overriding earlier ones.
// With no arguments ".env" in the working directory is tried. Missing files are ignored.
func LoadEnvFiles(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}

	for _, f := range files {
		_ = godotenv.Overload(f)
	}
}

// ApplyEnv overrides configuration fields with values from the environment.
func ApplyEnv(cfg *pkgconfig.Config) error {
	setFromEnv(EnvRPCURL, &cfg.Chain.RPCURL)
	setFromEnv(EnvNetwork, &cfg.Chain.Network)
	setFromEnv(EnvAdminRegistry, &cfg.Chain.Contracts.AdminRegistry)
	setFromEnv(EnvEventRegistry, &cfg.Chain.Contracts.EventRegistry)
	setFromEnv(EnvOfferRegistry, &cfg.Chain.Contracts.OfferRegistry)
	setFromEnv(EnvDBPath, &cfg.DB.Path)
	setFromEnv(EnvGatewayURL, &cfg.ContentStore.GatewayURL)
	setFromEnv(EnvUploadURL, &cfg.ContentStore.UploadURL)
	setFromEnv(EnvGatewayToken, &cfg.ContentStore.APIToken)

	if v, ok := os.LookupEnv(EnvStartBlock); ok && v != "" {
		block, err := common.ParseBlockNumber(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", common.ErrConfiguration, EnvStartBlock, err)
		}
		cfg.Chain.StartBlock = block
	}

	return nil
}

func setFromEnv(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		*dst = strings.TrimSpace(v)
	}
}

// LoadFromFile loads configuration from a file, auto-detecting the format by extension.
// Supported formats: .yaml, .yml, .json, .toml
func LoadFromFile(path string) (*pkgconfig.Config, error) {
	cfg, err := decodeFile(path)
	if err != nil {
		return nil, err
	}

	return processConfig(cfg)
}

func decodeFile(path string) (*pkgconfig.Config, error) {
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".yaml", ".yml":
		return decodeYAML(path)
	case ".json":
		return decodeJSON(path)
	case ".toml":
		return decodeTOML(path)
	default:
		return nil, fmt.Errorf("unsupported config file format: %s (supported: .yaml, .yml, .json, .toml)", ext)
	}
}

// LoadFromYAML loads configuration from a YAML file.
func LoadFromYAML(path string) (*pkgconfig.Config, error) {
	cfg, err := decodeYAML(path)
	if err != nil {
		return nil, err
	}

	return processConfig(cfg)
}

// LoadFromJSON loads configuration from a JSON file.
func LoadFromJSON(path string) (*pkgconfig.Config, error) {
	cfg, err := decodeJSON(path)
	if err != nil {
		return nil, err
	}

	return processConfig(cfg)
}

// LoadFromTOML loads configuration from a TOML file.
func LoadFromTOML(path string) (*pkgconfig.Config, error) {
	cfg, err := decodeTOML(path)
	if err != nil {
		return nil, err
	}

	return processConfig(cfg)
}

func decodeYAML(path string) (*pkgconfig.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg pkgconfig.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	return &cfg, nil
}

func decodeJSON(path string) (*pkgconfig.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg pkgconfig.Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse JSON config: %w", err)
	}

	return &cfg, nil
}

func decodeTOML(path string) (*pkgconfig.Config, error) {
	var cfg pkgconfig.Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML config: %w", err)
	}

	return &cfg, nil
}

// processConfig applies defaults and validates the configuration.
func processConfig(cfg *pkgconfig.Config) (*pkgconfig.Config, error) {
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}
