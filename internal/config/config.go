package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv   = "PAPERRAG_CONFIG"
	serverAddrEnv   = "PAPERRAG_ADDR"
	databaseDSNEnv  = "DATABASE_DSN"
	openAIKeyEnv    = "OPENAI_API_KEY"
	openAIModelEnv  = "OPENAI_MODEL"
	ledgerPathEnv   = "PAPERRAG_LEDGER"
	arxivAPIURLEnv  = "PAPERRAG_ARXIV_API"
	arxivBaseURLEnv = "PAPERRAG_ARXIV_BASE"
)

// Config holds high-level settings required across the application.
type Config struct {
	Server   ServerConfig  `yaml:"server"`
	Arxiv    ArxivConfig   `yaml:"arxiv"`
	Fetch    FetchConfig   `yaml:"fetch"`
	OpenAI   OpenAIConfig  `yaml:"openai"`
	RAG      RAGConfig     `yaml:"rag"`
	Sessions SessionConfig `yaml:"sessions"`
	Ledger   LedgerConfig  `yaml:"ledger"`
	Mirror   MirrorConfig  `yaml:"mirror"`
	Logging  LoggingConfig `yaml:"logging"`
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr                string `yaml:"addr"`
	ShutdownTimeoutSecs int    `yaml:"shutdownTimeoutSecs"`
}

// ShutdownTimeout resolves the configured graceful-shutdown window.
func (s ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(s.ShutdownTimeoutSecs) * time.Second
}

// ArxivConfig holds the arXiv endpoints and search defaults.
type ArxivConfig struct {
	APIURL     string `yaml:"apiUrl"`
	BaseURL    string `yaml:"baseUrl"`
	MaxResults int    `yaml:"maxResults"`
}

// FetchConfig controls the layered-fallback downloader.
type FetchConfig struct {
	TimeoutSecs    int    `yaml:"timeoutSecs"`
	Retries        int    `yaml:"retries"`
	RetryDelaySecs int    `yaml:"retryDelaySecs"`
	UserAgent      string `yaml:"userAgent"`
}

// Timeout resolves the per-request timeout.
func (f FetchConfig) Timeout() time.Duration {
	return time.Duration(f.TimeoutSecs) * time.Second
}

// RetryDelay resolves the fixed inter-attempt delay.
func (f FetchConfig) RetryDelay() time.Duration {
	return time.Duration(f.RetryDelaySecs) * time.Second
}

// OpenAIConfig defines how to contact the chat-completions API.
type OpenAIConfig struct {
	Endpoint     string  `yaml:"endpoint"`
	Model        string  `yaml:"model"`
	APIKey       string  `yaml:"apiKey"`
	SystemPrompt string  `yaml:"systemPrompt"`
	MaxTokens    int     `yaml:"maxTokens"`
	Temperature  float64 `yaml:"temperature"`
	InputBudget  int     `yaml:"inputBudget"`
}

// RAGConfig controls chunking for retrieval sessions.
type RAGConfig struct {
	MaxChunkLen int `yaml:"maxChunkLen"`
}

// SessionConfig bounds the in-memory session store.
type SessionConfig struct {
	TTLSecs     int `yaml:"ttlSecs"`
	MaxSessions int `yaml:"maxSessions"`
}

// TTL resolves the session time-to-live.
func (s SessionConfig) TTL() time.Duration {
	return time.Duration(s.TTLSecs) * time.Second
}

// LedgerConfig locates the used-papers append-only log.
type LedgerConfig struct {
	Path string `yaml:"path"`
}

// MirrorConfig describes the optional Postgres document mirror.
type MirrorConfig struct {
	DSN string `yaml:"dsn"`
}

// LoggingConfig selects the slog level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(serverAddrEnv); v != "" {
		c.Server.Addr = v
	}

	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Mirror.DSN = v
	}

	if v := os.Getenv(openAIKeyEnv); v != "" {
		c.OpenAI.APIKey = v
	}

	if v := os.Getenv(openAIModelEnv); v != "" {
		c.OpenAI.Model = v
	}

	if v := os.Getenv(ledgerPathEnv); v != "" {
		c.Ledger.Path = v
	}

	if v := os.Getenv(arxivAPIURLEnv); v != "" {
		c.Arxiv.APIURL = v
	}

	if v := os.Getenv(arxivBaseURLEnv); v != "" {
		c.Arxiv.BaseURL = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Server.Addr != "" {
		base.Server.Addr = override.Server.Addr
	}
	if override.Server.ShutdownTimeoutSecs > 0 {
		base.Server.ShutdownTimeoutSecs = override.Server.ShutdownTimeoutSecs
	}

	if override.Arxiv.APIURL != "" {
		base.Arxiv.APIURL = override.Arxiv.APIURL
	}
	if override.Arxiv.BaseURL != "" {
		base.Arxiv.BaseURL = override.Arxiv.BaseURL
	}
	if override.Arxiv.MaxResults > 0 {
		base.Arxiv.MaxResults = override.Arxiv.MaxResults
	}

	if override.Fetch.TimeoutSecs > 0 {
		base.Fetch.TimeoutSecs = override.Fetch.TimeoutSecs
	}
	if override.Fetch.Retries > 0 {
		base.Fetch.Retries = override.Fetch.Retries
	}
	if override.Fetch.RetryDelaySecs > 0 {
		base.Fetch.RetryDelaySecs = override.Fetch.RetryDelaySecs
	}
	if override.Fetch.UserAgent != "" {
		base.Fetch.UserAgent = override.Fetch.UserAgent
	}

	if override.OpenAI.Endpoint != "" {
		base.OpenAI.Endpoint = override.OpenAI.Endpoint
	}
	if override.OpenAI.Model != "" {
		base.OpenAI.Model = override.OpenAI.Model
	}
	if override.OpenAI.APIKey != "" {
		base.OpenAI.APIKey = override.OpenAI.APIKey
	}
	if override.OpenAI.SystemPrompt != "" {
		base.OpenAI.SystemPrompt = override.OpenAI.SystemPrompt
	}
	if override.OpenAI.MaxTokens > 0 {
		base.OpenAI.MaxTokens = override.OpenAI.MaxTokens
	}
	if override.OpenAI.Temperature > 0 {
		base.OpenAI.Temperature = override.OpenAI.Temperature
	}
	if override.OpenAI.InputBudget > 0 {
		base.OpenAI.InputBudget = override.OpenAI.InputBudget
	}

	if override.RAG.MaxChunkLen > 0 {
		base.RAG.MaxChunkLen = override.RAG.MaxChunkLen
	}

	if override.Sessions.TTLSecs > 0 {
		base.Sessions.TTLSecs = override.Sessions.TTLSecs
	}
	if override.Sessions.MaxSessions > 0 {
		base.Sessions.MaxSessions = override.Sessions.MaxSessions
	}

	if override.Ledger.Path != "" {
		base.Ledger.Path = override.Ledger.Path
	}

	if override.Mirror.DSN != "" {
		base.Mirror.DSN = override.Mirror.DSN
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr:                ":8080",
			ShutdownTimeoutSecs: 10,
		},
		Arxiv: ArxivConfig{
			APIURL:     "https://export.arxiv.org/api/query",
			BaseURL:    "https://arxiv.org",
			MaxResults: 100,
		},
		Fetch: FetchConfig{
			TimeoutSecs:    20,
			Retries:        3,
			RetryDelaySecs: 2,
			UserAgent:      "Mozilla/5.0 (compatible; PaperRAG/1.0)",
		},
		OpenAI: OpenAIConfig{
			Endpoint:     "https://api.openai.com/v1/chat/completions",
			Model:        "gpt-4o-mini",
			APIKey:       "",
			SystemPrompt: "You are an academic assistant. Summarize research papers precisely and completely from the provided content, without adding opinions or outside information.",
			MaxTokens:    2800,
			Temperature:  0.4,
			InputBudget:  48000,
		},
		RAG: RAGConfig{
			MaxChunkLen: 2000,
		},
		Sessions: SessionConfig{
			TTLSecs:     3600,
			MaxSessions: 1024,
		},
		Ledger: LedgerConfig{
			Path: "used_papers.txt",
		},
		Mirror:  MirrorConfig{DSN: ""},
		Logging: LoggingConfig{Level: "info"},
	}
}
