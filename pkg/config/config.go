package config

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/goran-ethernal/TicketIndexor/internal/common"
	"github.com/goran-ethernal/TicketIndexor/internal/logger"
)

// Config represents the complete configuration for the TicketIndexor.
type Config struct {
	// Chain contains the node connection and contract configuration
	Chain ChainConfig `yaml:"chain" json:"chain" toml:"chain"`

	// ContentStore contains the off-chain metadata gateway configuration
	ContentStore ContentStoreConfig `yaml:"content_store" json:"content_store" toml:"content_store"`

	// DB contains the projection database configuration
	DB DatabaseConfig `yaml:"db" json:"db" toml:"db"`

	// Processing controls how decoded logs are dispatched to handlers
	Processing *ProcessingConfig `yaml:"processing,omitempty" json:"processing,omitempty" toml:"processing,omitempty"`

	// Maintenance contains optional database maintenance settings
	Maintenance *MaintenanceConfig `yaml:"maintenance,omitempty" json:"maintenance,omitempty" toml:"maintenance,omitempty"` //nolint:lll

	// Logging contains logging configuration
	Logging *LoggingConfig `yaml:"logging,omitempty" json:"logging,omitempty" toml:"logging,omitempty"`

	// Metrics contains Prometheus metrics configuration
	Metrics *MetricsConfig `yaml:"metrics,omitempty" json:"metrics,omitempty" toml:"metrics,omitempty"`

	// API contains the projection query API configuration
	API *APIConfig `yaml:"api,omitempty" json:"api,omitempty" toml:"api,omitempty"`
}

// ChainConfig represents the blockchain node and contract configuration.
type ChainConfig struct {
	// RPCURL is the Ethereum RPC endpoint URL. Subscriptions require a websocket endpoint.
	RPCURL string `yaml:"rpc_url" json:"rpc_url" toml:"rpc_url"`

	// Network is the network identifier (e.g. "sepolia", "polygon-amoy")
	Network string `yaml:"network" json:"network" toml:"network"`

	// Contracts contains the addresses of the three marketplace contracts
	Contracts ContractsConfig `yaml:"contracts" json:"contracts" toml:"contracts"`

	// StartBlock is the first block scanned when no checkpoint exists
	StartBlock uint64 `yaml:"start_block" json:"start_block" toml:"start_block"`

	// ChunkSize is the block range per eth_getLogs call during catch-up
	ChunkSize uint64 `yaml:"chunk_size" json:"chunk_size" toml:"chunk_size"`

	// Finality specifies the head used as catch-up target: "finalized", "safe", or "latest"
	Finality string `yaml:"finality" json:"finality" toml:"finality"`

	// FinalizedLag is the number of blocks behind head to consider finalized
	// Only used when Finality is set to "latest"
	FinalizedLag uint64 `yaml:"finalized_lag" json:"finalized_lag" toml:"finalized_lag"`

	// DisableBackfill turns off the catch-up scan from the last checkpoint
	DisableBackfill bool `yaml:"disable_backfill" json:"disable_backfill" toml:"disable_backfill"`

	// Retry contains RPC retry configuration with exponential backoff
	Retry *RetryConfig `yaml:"retry,omitempty" json:"retry,omitempty" toml:"retry,omitempty"`
}

// ApplyDefaults sets default values for optional chain configuration fields.
func (c *ChainConfig) ApplyDefaults() {
	if c.ChunkSize == 0 {
		c.ChunkSize = 2000
	}
	if c.Finality == "" {
		c.Finality = "latest"
	}
	if c.Retry != nil {
		c.Retry.ApplyDefaults()
	}
}

// Validate checks if the chain configuration is valid.
func (c *ChainConfig) Validate() error {
	if c.RPCURL == "" {
		return configErr("chain.rpc_url is required")
	}
	if c.Network == "" {
		return configErr("chain.network is required")
	}
	if !slices.Contains([]string{"finalized", "safe", "latest"}, c.Finality) {
		return configErr("chain.finality must be one of: 'finalized', 'safe', or 'latest'")
	}

	return c.Contracts.Validate()
}

// ContractsConfig holds the addresses of the marketplace contracts.
type ContractsConfig struct {
	// AdminRegistry emits AdminAdded and AdminRemoved
	AdminRegistry string `yaml:"admin_registry" json:"admin_registry" toml:"admin_registry"`

	// EventRegistry emits EventCreated and EventCancelled
	EventRegistry string `yaml:"event_registry" json:"event_registry" toml:"event_registry"`

	// OfferRegistry emits the offer and escrow lifecycle events
	OfferRegistry string `yaml:"offer_registry" json:"offer_registry" toml:"offer_registry"`
}

// Validate checks that all three contract addresses are present and well formed.
func (c *ContractsConfig) Validate() error {
	addresses := []struct {
		name  string
		value string
	}{
		{name: "admin_registry", value: c.AdminRegistry},
		{name: "event_registry", value: c.EventRegistry},
		{name: "offer_registry", value: c.OfferRegistry},
	}

	for _, a := range addresses {
		if a.value == "" {
			return configErr("chain.contracts.%s is required", a.name)
		}
		if !common.IsHexAddress(a.value) {
			return configErr("chain.contracts.%s: invalid address %q", a.name, a.value)
		}
	}

	return nil
}

// RetryConfig represents retry configuration with exponential backoff.
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts (including initial request)
	MaxAttempts int `yaml:"max_attempts" json:"max_attempts" toml:"max_attempts"`

	// InitialBackoff is the initial backoff duration before first retry
	InitialBackoff common.Duration `yaml:"initial_backoff" json:"initial_backoff" toml:"initial_backoff"`

	// MaxBackoff is the maximum backoff duration
	MaxBackoff common.Duration `yaml:"max_backoff" json:"max_backoff" toml:"max_backoff"`

	// BackoffMultiplier is the multiplier for exponential backoff
	BackoffMultiplier float64 `yaml:"backoff_multiplier" json:"backoff_multiplier" toml:"backoff_multiplier"`
}

// ApplyDefaults sets default values for retry configuration.
func (r *RetryConfig) ApplyDefaults() {
	if r.MaxAttempts == 0 {
		r.MaxAttempts = 5
	}
	if r.InitialBackoff.Duration == 0 {
		r.InitialBackoff = common.NewDuration(1 * time.Second)
	}
	if r.MaxBackoff.Duration == 0 {
		r.MaxBackoff = common.NewDuration(30 * time.Second) //nolint:mnd
	}
	if r.BackoffMultiplier == 0 {
		r.BackoffMultiplier = 2.0
	}
}

// BackOff builds an exponential backoff policy bounded by MaxAttempts and ctx.
// Defaults are applied on a copy so a zero value config is usable.
func (r *RetryConfig) BackOff(ctx context.Context) backoff.BackOff {
	cfg := *r
	cfg.ApplyDefaults()

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = cfg.InitialBackoff.Duration
	b.MaxInterval = cfg.MaxBackoff.Duration
	b.Multiplier = cfg.BackoffMultiplier
	b.RandomizationFactor = 0.25
	b.MaxElapsedTime = 0

	retries := uint64(0)
	if cfg.MaxAttempts > 1 {
		retries = uint64(cfg.MaxAttempts - 1)
	}

	return backoff.WithContext(backoff.WithMaxRetries(b, retries), ctx)
}

// ContentStoreConfig configures the content-addressed metadata gateway.
type ContentStoreConfig struct {
	// GatewayURL is the base URL of the HTTP gateway, e.g. "https://ipfs.io"
	GatewayURL string `yaml:"gateway_url" json:"gateway_url" toml:"gateway_url"`

	// UploadURL is the pinning endpoint used to store new documents (optional)
	UploadURL string `yaml:"upload_url" json:"upload_url" toml:"upload_url"`

	// APIToken is sent as a bearer token on uploads
	APIToken string `yaml:"api_token" json:"api_token" toml:"api_token"`

	// Timeout bounds a single gateway request
	Timeout common.Duration `yaml:"timeout" json:"timeout" toml:"timeout"`

	// CacheSize is the number of fetched documents kept in memory, keyed by content id
	CacheSize int `yaml:"cache_size" json:"cache_size" toml:"cache_size"`

	// Retry contains retry configuration for gateway requests
	Retry *RetryConfig `yaml:"retry,omitempty" json:"retry,omitempty" toml:"retry,omitempty"`
}

// ApplyDefaults sets default values for optional content store fields.
func (c *ContentStoreConfig) ApplyDefaults() {
	if c.Timeout.Duration == 0 {
		c.Timeout = common.NewDuration(15 * time.Second) //nolint:mnd
	}
	if c.CacheSize == 0 {
		c.CacheSize = 1024
	}
	if c.Retry == nil {
		c.Retry = &RetryConfig{MaxAttempts: 3} //nolint:mnd
	}
	c.Retry.ApplyDefaults()
}

// Validate checks if the content store configuration is valid.
func (c *ContentStoreConfig) Validate() error {
	if c.GatewayURL == "" {
		return configErr("content_store.gateway_url is required")
	}
	if _, err := url.ParseRequestURI(c.GatewayURL); err != nil {
		return configErr("content_store.gateway_url: %v", err)
	}
	if c.UploadURL != "" {
		if _, err := url.ParseRequestURI(c.UploadURL); err != nil {
			return configErr("content_store.upload_url: %v", err)
		}
	}
	if c.CacheSize < 0 {
		return configErr("content_store.cache_size must not be negative")
	}

	return nil
}

// DatabaseConfig represents database configuration.
type DatabaseConfig struct {
	// Path is the file path to the SQLite database
	Path string `yaml:"path" json:"path" toml:"path"`

	// JournalMode sets the SQLite journal mode (e.g., "WAL", "DELETE")
	JournalMode string `yaml:"journal_mode" json:"journal_mode" toml:"journal_mode"`

	// Synchronous sets the synchronization level ("FULL", "NORMAL", "OFF")
	Synchronous string `yaml:"synchronous" json:"synchronous" toml:"synchronous"`

	// BusyTimeout is the time in milliseconds to wait when the database is locked
	BusyTimeout int `yaml:"busy_timeout" json:"busy_timeout" toml:"busy_timeout"`

	// CacheSize is the size of the page cache (negative = KB, positive = pages)
	CacheSize int `yaml:"cache_size" json:"cache_size" toml:"cache_size"`

	// MaxOpenConnections is the maximum number of open database connections
	MaxOpenConnections int `yaml:"max_open_connections" json:"max_open_connections" toml:"max_open_connections"`

	// MaxIdleConnections is the maximum number of idle connections in the pool
	MaxIdleConnections int `yaml:"max_idle_connections" json:"max_idle_connections" toml:"max_idle_connections"`

	// EnableForeignKeys enables foreign key constraint enforcement
	EnableForeignKeys bool `yaml:"enable_foreign_keys" json:"enable_foreign_keys" toml:"enable_foreign_keys"`
}

// ApplyDefaults sets default values for optional database configuration fields.
func (d *DatabaseConfig) ApplyDefaults() {
	if d.JournalMode == "" {
		d.JournalMode = "WAL"
	}
	if d.Synchronous == "" {
		d.Synchronous = "NORMAL"
	}
	if d.BusyTimeout == 0 {
		d.BusyTimeout = 5000
	}
	if d.CacheSize == 0 {
		d.CacheSize = 10000
	}
	if d.MaxOpenConnections == 0 {
		d.MaxOpenConnections = 25
	}
	if d.MaxIdleConnections == 0 {
		d.MaxIdleConnections = 5
	}
}

// Validate checks if the database configuration is valid.
func (d *DatabaseConfig) Validate() error {
	if d.Path == "" {
		return configErr("db.path is required")
	}

	if d.JournalMode != "" &&
		!slices.Contains([]string{"WAL", "DELETE", "TRUNCATE", "PERSIST", "MEMORY"}, d.JournalMode) {
		return configErr("db.journal_mode must be one of: WAL, DELETE, TRUNCATE, PERSIST, MEMORY")
	}

	if d.Synchronous != "" && !slices.Contains([]string{"FULL", "NORMAL", "OFF"}, d.Synchronous) {
		return configErr("db.synchronous must be one of: FULL, NORMAL, OFF")
	}

	return nil
}

// ProcessingConfig controls how decoded logs are handed to event handlers.
type ProcessingConfig struct {
	// Workers is the number of ordered lanes. Logs touching the same entity always share a lane.
	Workers int `yaml:"workers" json:"workers" toml:"workers"`

	// QueueSize bounds the number of pending logs per lane
	QueueSize int `yaml:"queue_size" json:"queue_size" toml:"queue_size"`

	// DedupCacheSize is the number of recently processed log ids remembered (0 disables)
	DedupCacheSize int `yaml:"dedup_cache_size" json:"dedup_cache_size" toml:"dedup_cache_size"`

	// HandlerTimeout bounds a single handler invocation including its metadata fetch
	HandlerTimeout common.Duration `yaml:"handler_timeout" json:"handler_timeout" toml:"handler_timeout"`

	// CheckpointInterval is how often the processed block watermark is persisted
	CheckpointInterval common.Duration `yaml:"checkpoint_interval" json:"checkpoint_interval" toml:"checkpoint_interval"` //nolint:lll

	// CheckpointMargin is how many blocks below the newest live block are still treated
	// as incomplete, as the contract subscriptions deliver independently of each other
	CheckpointMargin uint64 `yaml:"checkpoint_margin" json:"checkpoint_margin" toml:"checkpoint_margin"`
}

// DefaultCheckpointMargin is the checkpoint margin used when none is configured.
const DefaultCheckpointMargin = 12

// ApplyDefaults sets default values for optional processing fields.
func (p *ProcessingConfig) ApplyDefaults() {
	if p.Workers == 0 {
		p.Workers = 8
	}
	if p.QueueSize == 0 {
		p.QueueSize = 1024
	}
	if p.HandlerTimeout.Duration == 0 {
		p.HandlerTimeout = common.NewDuration(1 * time.Minute)
	}
	if p.CheckpointInterval.Duration == 0 {
		p.CheckpointInterval = common.NewDuration(10 * time.Second) //nolint:mnd
	}
	if p.CheckpointMargin == 0 {
		p.CheckpointMargin = DefaultCheckpointMargin
	}
}

// Validate checks if the processing configuration is valid.
func (p *ProcessingConfig) Validate() error {
	if p.Workers < 0 {
		return configErr("processing.workers must not be negative")
	}
	if p.QueueSize < 0 {
		return configErr("processing.queue_size must not be negative")
	}
	if p.DedupCacheSize < 0 {
		return configErr("processing.dedup_cache_size must not be negative")
	}

	return nil
}

// MaintenanceConfig configures database maintenance behavior.
type MaintenanceConfig struct {
	// Enabled controls whether background maintenance runs
	Enabled bool `yaml:"enabled" json:"enabled" toml:"enabled"`

	// CheckInterval is how often to run maintenance (e.g., "30m", "1h")
	CheckInterval common.Duration `yaml:"check_interval" json:"check_interval" toml:"check_interval"`

	// VacuumOnStartup runs maintenance immediately on startup
	VacuumOnStartup bool `yaml:"vacuum_on_startup" json:"vacuum_on_startup" toml:"vacuum_on_startup"`

	// WALCheckpointMode controls the WAL checkpoint aggressiveness
	// Options: PASSIVE, FULL, RESTART, TRUNCATE
	WALCheckpointMode string `yaml:"wal_checkpoint_mode" json:"wal_checkpoint_mode" toml:"wal_checkpoint_mode"`
}

// ApplyDefaults sets default values for optional maintenance configuration fields.
func (m *MaintenanceConfig) ApplyDefaults() {
	if m.CheckInterval.Duration == 0 {
		m.CheckInterval = common.NewDuration(30 * time.Minute) //nolint:mnd
	}
	if m.WALCheckpointMode == "" {
		m.WALCheckpointMode = "TRUNCATE"
	}
}

// Validate checks if the maintenance configuration is valid.
func (m *MaintenanceConfig) Validate() error {
	if m.WALCheckpointMode != "" {
		validModes := []string{"PASSIVE", "FULL", "RESTART", "TRUNCATE"}
		if !slices.Contains(validModes, m.WALCheckpointMode) {
			return configErr("maintenance.wal_checkpoint_mode: must be one of: PASSIVE, FULL, RESTART, TRUNCATE")
		}
	}

	return nil
}

// LoggingConfig configures logging behavior with per-component log levels.
type LoggingConfig struct {
	// DefaultLevel is the default log level for all components
	// Options: "debug", "info", "warn", "error"
	DefaultLevel string `yaml:"default_level" json:"default_level" toml:"default_level"`

	// Development enables development mode (stack traces, console encoder)
	Development bool `yaml:"development" json:"development" toml:"development"`

	// ComponentLevels sets log levels for specific components
	// Available components:
	//   - indexer: Service orchestration
	//   - chain-client: RPC connection and subscriptions
	//   - event-router: Decoding and dispatch of logs
	//   - event-handlers: Projection updates per event type
	//   - content-store: Metadata gateway access
	//   - projection-store: Projection database access
	//   - checkpoint: Processed block watermark
	//   - backfill: Catch-up scan of missed blocks
	//   - maintenance: Database maintenance
	//   - api: Projection query API
	ComponentLevels map[string]string `yaml:"component_levels,omitempty" json:"component_levels,omitempty" toml:"component_levels,omitempty"` //nolint:lll
}

// ApplyDefaults sets default values for optional logging configuration fields.
func (l *LoggingConfig) ApplyDefaults() {
	if l.DefaultLevel == "" {
		l.DefaultLevel = "info"
	}
	if l.ComponentLevels == nil {
		l.ComponentLevels = make(map[string]string)
	}
}

// Validate checks if the logging configuration is valid.
func (l *LoggingConfig) Validate() error {
	if l.DefaultLevel != "" {
		if _, valid := logger.ValidLogLevels[common.ToLowerWithTrim(l.DefaultLevel)]; !valid {
			return configErr("logging.default_level: must be one of: debug, info, warn, error")
		}
	}

	for component, level := range l.ComponentLevels {
		if _, validComponent := common.AllComponents[common.ToLowerWithTrim(component)]; !validComponent {
			return configErr("logging.component_levels: unknown component '%s'", component)
		}

		if _, valid := logger.ValidLogLevels[common.ToLowerWithTrim(level)]; !valid {
			return configErr("logging.component_levels[%s]: must be one of: debug, info, warn, error", component)
		}
	}

	return nil
}

// GetComponentLevel returns the log level for a specific component.
// Falls back to DefaultLevel if no component-specific level is set.
func (l *LoggingConfig) GetComponentLevel(component string) string {
	if level, ok := l.ComponentLevels[component]; ok {
		return common.ToLowerWithTrim(level)
	}
	return l.GetDefaultLevel()
}

// GetDefaultLevel returns the default log level.
func (l *LoggingConfig) GetDefaultLevel() string {
	if l.DefaultLevel == "" {
		return "info"
	}
	return common.ToLowerWithTrim(l.DefaultLevel)
}

// IsDevelopment returns whether development mode is enabled.
func (l *LoggingConfig) IsDevelopment() bool {
	return l.Development
}

// MetricsConfig configures Prometheus metrics exposition.
type MetricsConfig struct {
	// Enabled controls whether metrics collection and HTTP endpoint are active
	Enabled bool `yaml:"enabled" json:"enabled" toml:"enabled"`

	// ListenAddress is the address to bind the metrics HTTP server to
	// Format: "host:port" or ":port"
	ListenAddress string `yaml:"listen_address" json:"listen_address" toml:"listen_address"`

	// Path is the HTTP path where metrics are exposed
	Path string `yaml:"path" json:"path" toml:"path"`
}

// ApplyDefaults sets default values for optional metrics configuration fields.
func (m *MetricsConfig) ApplyDefaults() {
	if m.ListenAddress == "" {
		m.ListenAddress = ":9090"
	}
	if m.Path == "" {
		m.Path = "/metrics"
	}
}

// Validate checks if the metrics configuration is valid.
func (m *MetricsConfig) Validate() error {
	if m.Enabled {
		if m.ListenAddress == "" {
			return configErr("metrics.listen_address is required when metrics are enabled")
		}
		if m.Path == "" {
			return configErr("metrics.path is required when metrics are enabled")
		}
		if m.Path[0] != '/' {
			return configErr("metrics.path must start with '/'")
		}
	}
	return nil
}

// APIConfig configures the read-only projection query API.
type APIConfig struct {
	// Enabled controls whether the API server is started
	Enabled bool `yaml:"enabled" json:"enabled" toml:"enabled"`

	// ListenAddress is the address to bind the API server to
	ListenAddress string `yaml:"listen_address" json:"listen_address" toml:"listen_address"`

	// ReadTimeout is the maximum duration for reading a request
	ReadTimeout common.Duration `yaml:"read_timeout" json:"read_timeout" toml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of the response
	WriteTimeout common.Duration `yaml:"write_timeout" json:"write_timeout" toml:"write_timeout"`

	// IdleTimeout is the maximum amount of time to wait for the next request
	IdleTimeout common.Duration `yaml:"idle_timeout" json:"idle_timeout" toml:"idle_timeout"`

	// DefaultPageSize is used when a list request has no limit
	DefaultPageSize int `yaml:"default_page_size" json:"default_page_size" toml:"default_page_size"`

	// MaxPageSize caps the limit of a list request
	MaxPageSize int `yaml:"max_page_size" json:"max_page_size" toml:"max_page_size"`

	// CORS configures cross-origin requests
	CORS CORSConfig `yaml:"cors" json:"cors" toml:"cors"`

	// RateLimit throttles requests per client IP
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit" toml:"rate_limit"`
}

// RateLimitConfig configures per client request throttling.
type RateLimitConfig struct {
	Enabled bool `yaml:"enabled" json:"enabled" toml:"enabled"`

	// MaxRequests is the number of requests a client may make per Interval
	MaxRequests uint64 `yaml:"max_requests" json:"max_requests" toml:"max_requests"`

	Interval common.Duration `yaml:"interval" json:"interval" toml:"interval"`
}

// CORSConfig configures cross-origin resource sharing.
type CORSConfig struct {
	Enabled        bool     `yaml:"enabled" json:"enabled" toml:"enabled"`
	AllowedOrigins []string `yaml:"allowed_origins" json:"allowed_origins" toml:"allowed_origins"`
}

// ApplyDefaults sets default values for optional API configuration fields.
func (a *APIConfig) ApplyDefaults() {
	if a.ListenAddress == "" {
		a.ListenAddress = ":8080"
	}
	if a.ReadTimeout.Duration == 0 {
		a.ReadTimeout = common.NewDuration(15 * time.Second) //nolint:mnd
	}
	if a.WriteTimeout.Duration == 0 {
		a.WriteTimeout = common.NewDuration(15 * time.Second) //nolint:mnd
	}
	if a.IdleTimeout.Duration == 0 {
		a.IdleTimeout = common.NewDuration(60 * time.Second) //nolint:mnd
	}
	if a.DefaultPageSize == 0 {
		a.DefaultPageSize = 50
	}
	if a.MaxPageSize == 0 {
		a.MaxPageSize = 500
	}
	if a.CORS.Enabled && len(a.CORS.AllowedOrigins) == 0 {
		a.CORS.AllowedOrigins = []string{"*"}
	}
	if a.RateLimit.Enabled {
		if a.RateLimit.MaxRequests == 0 {
			a.RateLimit.MaxRequests = 20
		}
		if a.RateLimit.Interval.Duration == 0 {
			a.RateLimit.Interval = common.NewDuration(time.Second)
		}
	}
}

// Validate checks if the API configuration is valid.
func (a *APIConfig) Validate() error {
	if a.Enabled && a.ListenAddress == "" {
		return configErr("api.listen_address is required when the API is enabled")
	}
	if a.DefaultPageSize > a.MaxPageSize {
		return configErr("api.default_page_size must not exceed api.max_page_size")
	}
	if a.RateLimit.Enabled && a.RateLimit.Interval.Duration < 0 {
		return configErr("api.rate_limit.interval must not be negative")
	}
	return nil
}

// ApplyDefaults sets default values for optional configuration fields.
// Optional sections that are absent are created so every consumer can rely on them.
func (c *Config) ApplyDefaults() {
	c.Chain.ApplyDefaults()
	c.ContentStore.ApplyDefaults()
	c.DB.ApplyDefaults()

	if c.Processing == nil {
		c.Processing = &ProcessingConfig{}
	}
	c.Processing.ApplyDefaults()

	if c.Maintenance != nil {
		c.Maintenance.ApplyDefaults()
	}

	if c.Logging == nil {
		c.Logging = &LoggingConfig{}
	}
	c.Logging.ApplyDefaults()

	if c.Metrics != nil {
		c.Metrics.ApplyDefaults()
	}

	if c.API != nil {
		c.API.ApplyDefaults()
	}
}

// Validate checks if the configuration is valid.
// Every returned error wraps common.ErrConfiguration.
func (c *Config) Validate() error {
	if err := c.Chain.Validate(); err != nil {
		return err
	}

	if err := c.ContentStore.Validate(); err != nil {
		return err
	}

	if err := c.DB.Validate(); err != nil {
		return err
	}

	if c.Processing != nil {
		if err := c.Processing.Validate(); err != nil {
			return err
		}
	}

	if c.Maintenance != nil {
		if err := c.Maintenance.Validate(); err != nil {
			return err
		}
	}

	if c.Logging != nil {
		if err := c.Logging.Validate(); err != nil {
			return err
		}
	}

	if c.Metrics != nil {
		if err := c.Metrics.Validate(); err != nil {
			return err
		}
	}

	if c.API != nil {
		if err := c.API.Validate(); err != nil {
			return err
		}
	}

	return nil
}

func configErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", common.ErrConfiguration, fmt.Sprintf(format, args...))
}
