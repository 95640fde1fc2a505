package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const configPathEnv = "ASSISTANT_CONFIG"

type Config struct {
	Port string `yaml:"port"`

	// Corpus source: the recruiter backend over HTTP, or the database directly.
	BackendURL     string        `yaml:"backendUrl"`
	BackendToken   string        `yaml:"backendToken"`
	BackendTimeout time.Duration `yaml:"backendTimeout"`
	DatabaseURL    string        `yaml:"databaseUrl"`
	RecruiterID    int64         `yaml:"recruiterId"`

	InsightsTTL        time.Duration `yaml:"insightsTtl"`
	SessionIdleTimeout time.Duration `yaml:"sessionIdleTimeout"`
	UploadsDir         string        `yaml:"uploadsDir"`

	// LLM Configuration
	LLMProvider string        `yaml:"llmProvider"` // "openai", "groq", "ollama" or "none"
	LLMModel    string        `yaml:"llmModel"`    // "gpt-4o-mini", "llama-3.3-70b-versatile", ...
	LLMAPIKey   string        `yaml:"llmApiKey"`   // OpenAI or Groq API key
	LLMEndpoint string        `yaml:"llmEndpoint"` // optional override of the provider URL
	LLMTimeout  time.Duration `yaml:"llmTimeout"`
}

func defaultConfig() Config {
	return Config{
		Port:               "8080",
		BackendTimeout:     10 * time.Second,
		InsightsTTL:        60 * time.Second,
		SessionIdleTimeout: 30 * time.Minute,
		UploadsDir:         "./uploads",
		LLMProvider:        "none",
		LLMModel:           "gpt-4o-mini",
		LLMTimeout:         120 * time.Second,
	}
}

// LoadConfig reads .env, then the optional YAML file named by
// ASSISTANT_CONFIG, then applies environment overrides.
func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
		log.Println("Attempting to load from parent directory...")
		err = godotenv.Load("../../.env")
		if err != nil {
			log.Println("Warning: Could not load .env file, using environment variables")
		}
	}

	cfg := defaultConfig()
	if path := os.Getenv(configPathEnv); path != "" {
		fileCfg, err := loadFile(path)
		if err != nil {
			log.Printf("Warning: %v (using defaults)", err)
		} else {
			cfg = merge(cfg, fileCfg)
		}
	}
	cfg.applyEnvOverrides()
	return &cfg
}

func loadFile(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("cannot read config %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("cannot parse config %s: %w", path, err)
	}
	return cfg, nil
}

// merge overlays the non-zero fields of override onto base.
func merge(base, override Config) Config {
	setString(&base.Port, override.Port)
	setString(&base.BackendURL, override.BackendURL)
	setString(&base.BackendToken, override.BackendToken)
	setDuration(&base.BackendTimeout, override.BackendTimeout)
	setString(&base.DatabaseURL, override.DatabaseURL)
	if override.RecruiterID != 0 {
		base.RecruiterID = override.RecruiterID
	}
	setDuration(&base.InsightsTTL, override.InsightsTTL)
	setDuration(&base.SessionIdleTimeout, override.SessionIdleTimeout)
	setString(&base.UploadsDir, override.UploadsDir)
	setString(&base.LLMProvider, override.LLMProvider)
	setString(&base.LLMModel, override.LLMModel)
	setString(&base.LLMAPIKey, override.LLMAPIKey)
	setString(&base.LLMEndpoint, override.LLMEndpoint)
	setDuration(&base.LLMTimeout, override.LLMTimeout)
	return base
}

func (c *Config) applyEnvOverrides() {
	setString(&c.Port, os.Getenv("PORT"))
	setString(&c.BackendURL, os.Getenv("BACKEND_URL"))
	setString(&c.BackendToken, os.Getenv("BACKEND_TOKEN"))
	setDuration(&c.BackendTimeout, envDuration("BACKEND_TIMEOUT"))
	setString(&c.DatabaseURL, os.Getenv("DATABASE_URL"))
	if v := os.Getenv("RECRUITER_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			log.Printf("Warning: ignoring RECRUITER_ID %q: %v", v, err)
		} else {
			c.RecruiterID = id
		}
	}
	setDuration(&c.InsightsTTL, envDuration("INSIGHTS_TTL"))
	setDuration(&c.SessionIdleTimeout, envDuration("SESSION_IDLE_TIMEOUT"))
	setString(&c.UploadsDir, os.Getenv("UPLOADS_DIR"))

	setString(&c.LLMProvider, strings.ToLower(os.Getenv("LLM_PROVIDER")))
	setString(&c.LLMModel, os.Getenv("LLM_MODEL"))
	setString(&c.LLMEndpoint, os.Getenv("LLM_ENDPOINT"))

	// Get API key based on provider
	switch c.LLMProvider {
	case "openai":
		setString(&c.LLMAPIKey, os.Getenv("OPENAI_API_KEY"))
	case "groq":
		setString(&c.LLMAPIKey, os.Getenv("GROQ_API_KEY"))
	}
}

// LLMEnabled reports whether resume analysis can run.
func (c *Config) LLMEnabled() bool {
	switch c.LLMProvider {
	case "openai", "groq":
		return c.LLMAPIKey != ""
	case "ollama":
		return true
	}
	return false
}

func setString(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v time.Duration) {
	if v > 0 {
		*dst = v
	}
}

// envDuration parses key as a Go duration ("10s") or a number of seconds.
func envDuration(key string) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	log.Printf("Warning: ignoring %s=%q: not a duration", key, v)
	return 0
}
