package model

// ================ Config ================
type BotConfig struct {
	Mode            string `envconfig:"BOT_MODE" default:"rules"`
	DefaultLanguage string `envconfig:"BOT_DEFAULT_LANGUAGE" default:"en"`
	KnowledgePath   string `envconfig:"KNOWLEDGE_PATH"`
}

type ConversationConfig struct {
	TTL      string `envconfig:"CONVERSATION_TTL" default:"24h"`
	MaxTurns int    `envconfig:"CONVERSATION_MAX_TURNS" default:"20"`
}

type StoreConfig struct {
	Backend         string `envconfig:"STORE_BACKEND" default:"file"`
	SubscribersFile string `envconfig:"SUBSCRIBERS_FILE" default:"broadcast_subscribers.json"`
	SQLitePath      string `envconfig:"SQLITE_PATH" default:"healthbot.db"`
}

type ResponseModelConfig struct {
	Provider    string  `envconfig:"LLM_PROVIDER" default:"gemini"`
	Model       string  `envconfig:"RESPONSE_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"RESPONSE_MAX_TOKENS" default:"1024"`
	Temperature float32 `envconfig:"RESPONSE_TEMPERATURE" default:"0.4"`
	Timeout     string  `envconfig:"GENERATION_TIMEOUT" default:"20s"`
}

type TwilioConfig struct {
	AccountSID        string `envconfig:"TWILIO_ACCOUNT_SID"`
	AuthToken         string `envconfig:"TWILIO_AUTH_TOKEN"`
	PhoneNumber       string `envconfig:"TWILIO_PHONE_NUMBER"`
	ValidateSignature bool   `envconfig:"TWILIO_VALIDATE_SIGNATURE" default:"false"`
	PublicBaseURL     string `envconfig:"PUBLIC_BASE_URL"`
}

type HTTPConfig struct {
	Addr                 string `envconfig:"HTTP_ADDR" default:":8080"`
	BroadcastToken       string `envconfig:"BROADCAST_TOKEN"`
	BroadcastConcurrency int    `envconfig:"BROADCAST_CONCURRENCY" default:"4"`
}
