package model

import "time"

// ----------------------------------------------------
// ================ Config ================

// LogConfig controls the global zerolog logger
type LogConfig struct {
	Level      string `envconfig:"LOG_LEVEL" default:"info"`
	Format     string `envconfig:"LOG_FORMAT" default:"json"`
	Output     string `envconfig:"LOG_OUTPUT" default:"stdout"`
	FilePath   string `envconfig:"LOG_FILE_PATH" default:"logs/luna.log"`
	TimeFormat string `envconfig:"LOG_TIME_FORMAT" default:"rfc3339"`
}

// ServerConfig holds HTTP listener settings
type ServerConfig struct {
	Port        string `envconfig:"PORT" default:"3000"`
	Environment string `envconfig:"APP_ENV" default:"development"`
}

// LLMConfig holds configuration for the remote chat model
type LLMConfig struct {
	Provider      string        `envconfig:"LLM_PROVIDER" default:"openai"`
	APIKey        string        `envconfig:"LLM_API_KEY"`
	BaseURL       string        `envconfig:"LLM_BASE_URL" default:"https://api.groq.com/openai/v1"`
	Model         string        `envconfig:"LLM_MODEL" default:"llama-3.1-8b-instant"`
	MaxTokens     int           `envconfig:"LLM_MAX_TOKENS" default:"600"`
	Temperature   float64       `envconfig:"LLM_TEMPERATURE" default:"0.8"`
	Timeout       time.Duration `envconfig:"LLM_TIMEOUT" default:"30s"`
	RatePerMinute int           `envconfig:"LLM_RATE_PER_MINUTE" default:"30"`
}

// ConversationConfig holds per-user context store settings
type ConversationConfig struct {
	RedisURL    string        `envconfig:"REDIS_URL"`
	MaxMessages int           `envconfig:"CONVERSATION_MAX_MESSAGES" default:"32"`
	Window      int           `envconfig:"CONVERSATION_WINDOW" default:"8"`
	TTL         time.Duration `envconfig:"CONVERSATION_TTL" default:"24h"`
	JournalSize int           `envconfig:"CONVERSATION_JOURNAL_SIZE" default:"1000"`
	JournalDir  string        `envconfig:"CONVERSATION_JOURNAL_DIR"`
	Retention   time.Duration `envconfig:"CONVERSATION_JOURNAL_RETENTION" default:"720h"`
}

// PersonaConfig points at the personality definition and tunes the emotional engine
type PersonaConfig struct {
	PersonalityPath  string `envconfig:"LUNA_PERSONALITY_PATH" default:"data/luna_personality.yaml"`
	PromptPath       string `envconfig:"LUNA_PROMPT_PATH" default:"data/luna_prompt.txt"`
	UserName         string `envconfig:"LUNA_USER_NAME" default:"Maurom"`
	Timezone         string `envconfig:"LUNA_TIMEZONE" default:"America/Argentina/Buenos_Aires"`
	StateScope       string `envconfig:"LUNA_STATE_SCOPE" default:"shared"`
	DirectExpression bool   `envconfig:"LUNA_DIRECT_EXPRESSIONS" default:"false"`
}

// KeepAliveConfig drives the self ping used on hosts that sleep idle processes
type KeepAliveConfig struct {
	URL        string        `envconfig:"KEEPALIVE_URL"`
	Interval   time.Duration `envconfig:"KEEPALIVE_INTERVAL" default:"14m"`
	Timeout    time.Duration `envconfig:"KEEPALIVE_TIMEOUT" default:"10s"`
	MaxRetries int           `envconfig:"KEEPALIVE_MAX_RETRIES" default:"3"`
}
