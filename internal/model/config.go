package model

import "time"

// Config is the complete service configuration
type Config struct {
	Owner       string            `yaml:"owner" mapstructure:"owner"` // On-chain address whose claims are aggregated (required)
	Hypercerts  HypercertsConfig  `yaml:"hypercerts" mapstructure:"hypercerts"`
	CMS         CMSConfig         `yaml:"cms" mapstructure:"cms"`
	Server      ServerConfig      `yaml:"server" mapstructure:"server"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit" mapstructure:"rate_limit"`
	Proxy       ProxyConfig       `yaml:"proxy" mapstructure:"proxy"`
	LLM         LLMConfig         `yaml:"llm" mapstructure:"llm"`
}

// HypercertsConfig configures the claim indexer and metadata gateway clients
type HypercertsConfig struct {
	GraphURL     string        `yaml:"graph_url" mapstructure:"graph_url"`     // Indexer GraphQL endpoint
	GatewayURL   string        `yaml:"gateway_url" mapstructure:"gateway_url"` // IPFS gateway base URL
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent    string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	InsecureTLS  bool          `yaml:"insecure_tls" mapstructure:"insecure_tls"`
}

// CMSConfig configures the editorial source client
type CMSConfig struct {
	BaseURL      string        `yaml:"base_url" mapstructure:"base_url"`
	Token        string        `yaml:"token" mapstructure:"token"` // Static bearer token, optional
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
}

// ServerConfig configures the HTTP API server
type ServerConfig struct {
	Addr            string        `yaml:"addr" mapstructure:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

// CacheConfig configures the metadata document cache. This cache holds
// immutable content-addressed documents only; the merged report list is
// never written to it.
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"` // Disk layer location; memory-only when empty
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// ConcurrencyConfig bounds the in-flight per-claim resolution work
type ConcurrencyConfig struct {
	ResolveWorkers int `yaml:"resolve_workers" mapstructure:"resolve_workers"`
}

// RateLimitConfig bounds outbound requests per upstream host
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`
}

// ProxyConfig configures outbound proxying; environment variables apply
// when all fields are empty
type ProxyConfig struct {
	HTTP  string `yaml:"http" mapstructure:"http"`
	HTTPS string `yaml:"https" mapstructure:"https"`
	No    string `yaml:"no" mapstructure:"no"`
}

// LLMConfig configures the optional impact-summary provider
type LLMConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // "openai" or "" (disabled)
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"api_key" mapstructure:"api_key"`
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// DefaultConfig returns sensible defaults. The owner address has no default
// and must come from configuration.
func DefaultConfig() *Config {
	return &Config{
		Hypercerts: HypercertsConfig{
			GraphURL:     "https://api.thegraph.com/subgraphs/name/hypercerts-admin/hypercerts-optimism-mainnet",
			GatewayURL:   "https://ipfs.io",
			Timeout:      30 * time.Second,
			UserAgent:    "reportd/0.1 (+https://github.com/openvillage/reportd)",
			MaxBodyBytes: 2_000_000,
		},
		CMS: CMSConfig{
			Timeout:      30 * time.Second,
			MaxBodyBytes: 10_000_000, // editorial lists carry full story bodies
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Cache: CacheConfig{
			Enabled:   true,
			MemoryTTL: 24 * time.Hour,
			DiskTTL:   30 * 24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			ResolveWorkers: 5,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 10,
			Burst:             5,
		},
		LLM: LLMConfig{
			Timeout:   30,
			MaxTokens: 500,
		},
	}
}
