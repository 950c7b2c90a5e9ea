package config

import (
	"os"
	"strconv"
	"time"

	"github.com/code-100-precent/VoiceDesk/pkg/logger"
)

// Config main configuration structure
type Config struct {
	Server  ServerConfig     `mapstructure:"server"`
	Log     logger.LogConfig `mapstructure:"log"`
	OpenAI  OpenAIConfig     `mapstructure:"openai"`
	Console ConsoleConfig    `mapstructure:"console"`
}

// ServerConfig server configuration
type ServerConfig struct {
	Name string `env:"SERVER_NAME"`
	Addr string `env:"ADDR"`
	Mode string `env:"MODE"`
}

// OpenAIConfig settings for the transcription socket, suggestion model and TTS
type OpenAIConfig struct {
	APIKey          string        `env:"OPENAI_API_KEY"`
	BaseURL         string        `env:"OPENAI_BASE_URL"`
	RealtimeURL     string        `env:"OPENAI_REALTIME_URL"`
	TranscribeModel string        `env:"OPENAI_TRANSCRIBE_MODEL"`
	SuggestModel    string        `env:"OPENAI_SUGGEST_MODEL"`
	TTSModel        string        `env:"OPENAI_TTS_MODEL"`
	TTSVoice        string        `env:"OPENAI_TTS_VOICE"`
	Language        string        `env:"OPENAI_LANGUAGE"`
	RequestTimeout  time.Duration `env:"OPENAI_REQUEST_TIMEOUT"`
}

// ConsoleConfig console pipeline tuning
type ConsoleConfig struct {
	AutoSpeak       bool          `env:"CONSOLE_AUTO_SPEAK"`
	InputSampleRate int           `env:"CONSOLE_INPUT_SAMPLE_RATE"`
	ManualIndexPath string        `env:"MANUAL_INDEX_PATH"`
	SearchCacheTTL  time.Duration `env:"SEARCH_CACHE_TTL"`
	SilenceDuration time.Duration `env:"VAD_SILENCE_DURATION"`
}

// GlobalConfig globally accessible configuration instance
var GlobalConfig *Config

// Load reads the full configuration from environment variables.
func Load() *Config {
	cfg := &Config{
		Server: ServerConfig{
			Name: getStringOrDefault("SERVER_NAME", "voicedesk"),
			Addr: getStringOrDefault("ADDR", ":8090"),
			Mode: getStringOrDefault("MODE", "development"),
		},
		Log: logger.LogConfig{
			Level:      getStringOrDefault("LOG_LEVEL", "info"),
			Filename:   getStringOrDefault("LOG_FILENAME", "voicedesk.log"),
			MaxSize:    getIntOrDefault("LOG_MAX_SIZE", 64),
			MaxAge:     getIntOrDefault("LOG_MAX_AGE", 14),
			MaxBackups: getIntOrDefault("LOG_MAX_BACKUPS", 7),
			Daily:      getBoolOrDefault("LOG_DAILY", false),
		},
		OpenAI: OpenAIConfig{
			APIKey:          os.Getenv("OPENAI_API_KEY"),
			BaseURL:         getStringOrDefault("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			RealtimeURL:     getStringOrDefault("OPENAI_REALTIME_URL", "wss://api.openai.com/v1/realtime?intent=transcription"),
			TranscribeModel: getStringOrDefault("OPENAI_TRANSCRIBE_MODEL", "gpt-4o-mini-transcribe"),
			SuggestModel:    getStringOrDefault("OPENAI_SUGGEST_MODEL", "gpt-4o-mini"),
			TTSModel:        getStringOrDefault("OPENAI_TTS_MODEL", "tts-1"),
			TTSVoice:        getStringOrDefault("OPENAI_TTS_VOICE", "nova"),
			Language:        getStringOrDefault("OPENAI_LANGUAGE", "ko"),
			RequestTimeout:  parseDuration(getStringOrDefault("OPENAI_REQUEST_TIMEOUT", "30s"), 30*time.Second),
		},
		Console: ConsoleConfig{
			AutoSpeak:       getBoolOrDefault("CONSOLE_AUTO_SPEAK", true),
			InputSampleRate: getIntOrDefault("CONSOLE_INPUT_SAMPLE_RATE", 48000),
			ManualIndexPath: getStringOrDefault("MANUAL_INDEX_PATH", ""),
			SearchCacheTTL:  parseDuration(getStringOrDefault("SEARCH_CACHE_TTL", "5m"), 5*time.Minute),
			SilenceDuration: parseDuration(getStringOrDefault("VAD_SILENCE_DURATION", "500ms"), 500*time.Millisecond),
		},
	}

	GlobalConfig = cfg
	return cfg
}

func getStringOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getIntOrDefault(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getBoolOrDefault(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func parseDuration(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	return def
}
