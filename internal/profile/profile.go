package profile

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/pkg/errors"
)

// Profile is configuration to start main server.
type Profile struct {
	// Unified LLM configuration (OpenAI-compatible protocol)
	LLMProvider string // Provider identifier: openai, deepseek, openrouter, siliconflow, ollama
	LLMAPIKey   string // LLM API key
	LLMBaseURL  string // LLM base URL (optional, has default per provider)
	LLMModel    string // Model name: gpt-4o-mini, deepseek-chat, etc.
	LLMTimeout  int    // LLM request timeout in seconds (default: 60)

	// Catalog configuration (Google Sheets CSV export)
	SpreadsheetID  string // Spreadsheet ID from the sheet URL
	StoresSheetGID string // GID of the Stores sheet
	TagsSheetGID   string // GID of the CategoryTags sheet
	CatalogTTL     int    // Catalog cache TTL in seconds (default: 300)

	// Usage accounting webhook
	UsageWebhookURL string // Destination for usage records, empty disables the sink
	UsageTimeout    int    // Webhook request timeout in seconds (default: 10)

	// Generation tuning
	TokenMultiplier float64 // Fallback token estimate: runes * multiplier (default: 1.5)
	CostPerKTokens  float64 // USD per 1000 tokens, used for cost estimates

	// Rate limiting for the generation endpoint
	RateLimitRPS   float64
	RateLimitBurst int

	// Server
	Mode        string
	Addr        string
	Port        int
	InstanceURL string
	Version     string
}

// Provider default configurations for LLM.
// Used when LLM_BASE_URL or LLM_MODEL is not explicitly set.
var llmProviderDefaults = map[string]struct {
	BaseURL string
	Model   string
}{
	"openai": {
		BaseURL: "https://api.openai.com/v1",
		Model:   "gpt-4o-mini",
	},
	"deepseek": {
		BaseURL: "https://api.deepseek.com",
		Model:   "deepseek-chat",
	},
	"openrouter": {
		BaseURL: "https://openrouter.ai/api/v1",
		Model:   "openai/gpt-4o-mini",
	},
	"siliconflow": {
		BaseURL: "https://api.siliconflow.cn/v1",
		Model:   "Qwen/Qwen2.5-72B-Instruct",
	},
	"ollama": {
		BaseURL: "http://localhost:11434",
		Model:   "llama3.1",
	},
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// IsAIEnabled returns true if the LLM API key is configured.
// Local providers (ollama) do not require a key.
func (p *Profile) IsAIEnabled() bool {
	return p.LLMAPIKey != "" || p.LLMProvider == "ollama"
}

// IsCatalogEnabled returns true if the spreadsheet source is configured.
func (p *Profile) IsCatalogEnabled() bool {
	return p.SpreadsheetID != ""
}

// getEnvOrDefault returns environment variable value or default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvOrDefaultInt returns environment variable value as int or default value.
func getEnvOrDefaultInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvOrDefaultFloat returns environment variable value as float64 or default value.
func getEnvOrDefaultFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

// FromEnv loads configuration from environment variables.
func (p *Profile) FromEnv() {
	// Unified LLM configuration
	p.LLMProvider = getEnvOrDefault("REVIEWGEN_LLM_PROVIDER", "openai")
	p.LLMAPIKey = getEnvOrDefault("REVIEWGEN_LLM_API_KEY", "")
	p.LLMBaseURL = getEnvOrDefault("REVIEWGEN_LLM_BASE_URL", "")
	p.LLMModel = getEnvOrDefault("REVIEWGEN_LLM_MODEL", "")
	p.LLMTimeout = getEnvOrDefaultInt("REVIEWGEN_LLM_TIMEOUT_SECONDS", 60)

	// Validate and apply provider defaults if not explicitly set
	if _, ok := llmProviderDefaults[p.LLMProvider]; !ok {
		slog.Warn("Unknown LLM provider, using default: openai", "provider", p.LLMProvider)
		p.LLMProvider = "openai"
	}
	if defaults, ok := llmProviderDefaults[p.LLMProvider]; ok {
		if p.LLMBaseURL == "" {
			p.LLMBaseURL = defaults.BaseURL
		}
		if p.LLMModel == "" {
			p.LLMModel = defaults.Model
		}
	}

	// Catalog configuration
	p.SpreadsheetID = getEnvOrDefault("REVIEWGEN_SPREADSHEET_ID", "")
	p.StoresSheetGID = getEnvOrDefault("REVIEWGEN_STORES_SHEET_GID", "0")
	p.TagsSheetGID = getEnvOrDefault("REVIEWGEN_TAGS_SHEET_GID", "")
	p.CatalogTTL = getEnvOrDefaultInt("REVIEWGEN_CATALOG_TTL_SECONDS", 300)

	// Usage webhook
	p.UsageWebhookURL = getEnvOrDefault("REVIEWGEN_USAGE_WEBHOOK_URL", "")
	p.UsageTimeout = getEnvOrDefaultInt("REVIEWGEN_USAGE_TIMEOUT_SECONDS", 10)

	// Generation tuning. The token multiplier is a placeholder heuristic,
	// kept configurable rather than hard-coded.
	p.TokenMultiplier = getEnvOrDefaultFloat("REVIEWGEN_TOKEN_MULTIPLIER", 1.5)
	p.CostPerKTokens = getEnvOrDefaultFloat("REVIEWGEN_COST_PER_KTOKENS", 0.0006)

	// Rate limiting
	p.RateLimitRPS = getEnvOrDefaultFloat("REVIEWGEN_RATE_LIMIT_RPS", 5)
	p.RateLimitBurst = getEnvOrDefaultInt("REVIEWGEN_RATE_LIMIT_BURST", 10)
}

func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}

	if p.Port < 0 || p.Port > 65535 {
		return errors.Errorf("invalid port %d", p.Port)
	}

	if p.LLMTimeout <= 0 {
		p.LLMTimeout = 60
	}
	if p.CatalogTTL <= 0 {
		p.CatalogTTL = 300
	}
	if p.UsageTimeout <= 0 {
		p.UsageTimeout = 10
	}
	if p.TokenMultiplier <= 0 {
		p.TokenMultiplier = 1.5
	}
	if p.RateLimitRPS <= 0 {
		p.RateLimitRPS = 5
	}
	if p.RateLimitBurst <= 0 {
		p.RateLimitBurst = 10
	}

	return nil
}

func (p *Profile) String() string {
	return fmt.Sprintf("mode=%s addr=%s port=%d provider=%s model=%s", p.Mode, p.Addr, p.Port, p.LLMProvider, p.LLMModel)
}
