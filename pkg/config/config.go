package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	StoreAirtable = "airtable"
	StorePostgres = "postgres"
)

type Config struct {
	Env  string
	Port int

	Store     StoreConfig
	Airtable  AirtableConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Twilio    TwilioConfig
	Flex      FlexConfig
	Auth      AuthConfig
	Counselor CounselorConfig
	CORS      CORSConfig
	Log       LogConfig
}

// StoreConfig selects the record-store backend.
type StoreConfig struct {
	Driver  string
	Timeout time.Duration
}

// AirtableConfig holds credentials for the hosted record store.
type AirtableConfig struct {
	APIKey string
	BaseID string
	APIURL string
}

// Configured reports whether both credentials are present.
func (a AirtableConfig) Configured() bool {
	return a.APIKey != "" && a.BaseID != ""
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// TwilioConfig holds messaging provider credentials and the SMS sender number.
type TwilioConfig struct {
	AccountSID  string
	AuthToken   string
	PhoneNumber string
}

// Configured reports whether SMS sending can be attempted.
func (t TwilioConfig) Configured() bool {
	return t.AccountSID != "" && t.AuthToken != "" && t.PhoneNumber != ""
}

// FlexConfig routes human handoffs.
type FlexConfig struct {
	WorkflowSID        string
	WorkspaceSID       string
	VoiceRedirectURL   string
	TaskChannel        string
	VoiceHoldingPhrase string
}

// AuthConfig covers webhook caller tokens and PIN attempt limiting.
type AuthConfig struct {
	JWTSecret     string
	MaxAttempts   int
	AttemptWindow time.Duration
}

// CounselorConfig toggles identity enforcement for conference scheduling.
type CounselorConfig struct {
	RequireIdentity bool
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")

	cfg.Store = StoreConfig{
		Driver:  strings.ToLower(strings.TrimSpace(v.GetString("STORE_DRIVER"))),
		Timeout: parseDuration(v.GetString("STORE_TIMEOUT"), 10*time.Second),
	}

	cfg.Airtable = AirtableConfig{
		APIKey: v.GetString("AIRTABLE_API_KEY"),
		BaseID: v.GetString("AIRTABLE_BASE_ID"),
		APIURL: strings.TrimRight(v.GetString("AIRTABLE_API_URL"), "/"),
	}

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Enabled:  v.GetBool("ENABLE_REDIS"),
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Twilio = TwilioConfig{
		AccountSID:  v.GetString("TWILIO_ACCOUNT_SID"),
		AuthToken:   v.GetString("TWILIO_AUTH_TOKEN"),
		PhoneNumber: v.GetString("TWILIO_PHONE_NUMBER"),
	}

	cfg.Flex = FlexConfig{
		WorkflowSID:        v.GetString("FLEX_WORKFLOW_SID"),
		WorkspaceSID:       v.GetString("FLEX_WORKSPACE_SID"),
		VoiceRedirectURL:   v.GetString("HANDOFF_VOICE_REDIRECT_URL"),
		TaskChannel:        v.GetString("FLEX_TASK_CHANNEL"),
		VoiceHoldingPhrase: v.GetString("HANDOFF_VOICE_PHRASE"),
	}

	cfg.Auth = AuthConfig{
		JWTSecret:     v.GetString("TOOLS_JWT_SECRET"),
		MaxAttempts:   v.GetInt("AUTH_MAX_ATTEMPTS"),
		AttemptWindow: parseDuration(v.GetString("AUTH_ATTEMPT_WINDOW"), 15*time.Minute),
	}

	cfg.Counselor = CounselorConfig{
		RequireIdentity: v.GetBool("COUNSELOR_REQUIRE_IDENTITY"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)

	v.SetDefault("STORE_DRIVER", StoreAirtable)
	v.SetDefault("STORE_TIMEOUT", "10s")

	v.SetDefault("AIRTABLE_API_KEY", "")
	v.SetDefault("AIRTABLE_BASE_ID", "")
	v.SetDefault("AIRTABLE_API_URL", "https://api.airtable.com")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "guardian_tools")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("ENABLE_REDIS", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("TWILIO_ACCOUNT_SID", "")
	v.SetDefault("TWILIO_AUTH_TOKEN", "")
	v.SetDefault("TWILIO_PHONE_NUMBER", "")

	v.SetDefault("FLEX_WORKFLOW_SID", "")
	v.SetDefault("FLEX_WORKSPACE_SID", "")
	v.SetDefault("FLEX_TASK_CHANNEL", "chat")
	v.SetDefault("HANDOFF_VOICE_REDIRECT_URL", "")
	v.SetDefault("HANDOFF_VOICE_PHRASE", "One second while we connect you")

	v.SetDefault("TOOLS_JWT_SECRET", "")
	v.SetDefault("AUTH_MAX_ATTEMPTS", 0)
	v.SetDefault("AUTH_ATTEMPT_WINDOW", "15m")

	v.SetDefault("COUNSELOR_REQUIRE_IDENTITY", false)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
