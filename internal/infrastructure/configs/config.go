package configs

import (
	"fmt"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/tutormeet/signaling/internal/infrastructure/env"
)

type Config struct {
	HTTP         HTTPConfig         `koanf:"http"`
	Room         RoomConfig         `koanf:"room"`
	RateLimiter  RateLimiterConfig  `koanf:"rateLimiter"`
	MeetingStore MeetingStoreConfig `koanf:"meeting_store"`
	Tracing      TracingConfig      `koanf:"tracing"`
}

type HTTPConfig struct {
	Host           string        `koanf:"host"`
	Port           uint16        `koanf:"port"`
	AllowedOrigins []string      `koanf:"allowed_origins"`
	ReadTimeout    time.Duration `koanf:"read_timeout"`
	WriteTimeout   time.Duration `koanf:"write_timeout"`
	IdleTimeout    time.Duration `koanf:"idle_timeout"`
}

type RoomConfig struct {
	// Capacity is the maximum number of simultaneous members in one room.
	// Values below 2 are raised to 2.
	Capacity   int `koanf:"capacity"`
	SendBuffer int `koanf:"send_buffer"`
}

type RateLimiterConfig struct {
	RequestsPerTimeFrame int           `koanf:"requestsPerTimeFrame"`
	TimeFrame            time.Duration `koanf:"timeFrame"`
}

type MeetingStoreConfig struct {
	Capacity   uint          `koanf:"capacity"`
	IdleExpiry time.Duration `koanf:"idle_expiry"`
}

type TracingConfig struct {
	Enabled     bool   `koanf:"enabled"`
	ServiceName string `koanf:"service_name"`
	Exporter    string `koanf:"exporter"` // "otlp" or "jaeger"
	Endpoint    string `koanf:"endpoint"`
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	applyDefaults(k)
	applyEnvOverrides(k)

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Room.Capacity < 2 {
		cfg.Room.Capacity = 2
	}

	return &cfg, nil
}

func applyDefaults(k *koanf.Koanf) {
	setDefault(k, "http.host", "0.0.0.0")
	setDefault(k, "http.port", 5000)
	setDefault(k, "http.read_timeout", 10*time.Second)
	setDefault(k, "http.write_timeout", 30*time.Second)
	setDefault(k, "http.idle_timeout", time.Minute)
	setDefault(k, "http.allowed_origins", []string{"*"})

	setDefault(k, "room.capacity", 2)
	setDefault(k, "room.send_buffer", 64)

	setDefault(k, "rateLimiter.requestsPerTimeFrame", 20)
	setDefault(k, "rateLimiter.timeFrame", 5*time.Second)

	setDefault(k, "meeting_store.capacity", 100)
	setDefault(k, "meeting_store.idle_expiry", 24*time.Hour)

	setDefault(k, "tracing.enabled", false)
	setDefault(k, "tracing.service_name", "tutormeet-signaling")
	setDefault(k, "tracing.exporter", "otlp")
	setDefault(k, "tracing.endpoint", "http://localhost:4318")
}

func applyEnvOverrides(k *koanf.Koanf) {
	if host := env.GetString("HTTP_HOST", ""); host != "" {
		k.Set("http.host", host)
	}
	if port := env.GetInt("HTTP_PORT", 0); port > 0 {
		k.Set("http.port", port)
	}
	if readTimeout := env.GetInt("HTTP_READ_TIMEOUT_SECONDS", 0); readTimeout > 0 {
		k.Set("http.read_timeout", time.Duration(readTimeout)*time.Second)
	}
	if writeTimeout := env.GetInt("HTTP_WRITE_TIMEOUT_SECONDS", 0); writeTimeout > 0 {
		k.Set("http.write_timeout", time.Duration(writeTimeout)*time.Second)
	}

	if capacity := env.GetInt("ROOM_CAPACITY", 0); capacity > 0 {
		k.Set("room.capacity", capacity)
	}
	if buffer := env.GetInt("ROOM_SEND_BUFFER", 0); buffer > 0 {
		k.Set("room.send_buffer", buffer)
	}

	if requests := env.GetInt("RATE_LIMIT_REQUESTS", 0); requests > 0 {
		k.Set("rateLimiter.requestsPerTimeFrame", requests)
	}
	if frame := env.GetInt("RATE_LIMIT_TIME_FRAME_SECONDS", 0); frame > 0 {
		k.Set("rateLimiter.timeFrame", time.Duration(frame)*time.Second)
	}

	if capacity := env.GetInt("MEETING_STORE_CAPACITY", 0); capacity > 0 {
		k.Set("meeting_store.capacity", uint(capacity))
	}

	if env.GetBool("TRACING_ENABLED", false) {
		k.Set("tracing.enabled", true)
	}
	if endpoint := env.GetString("TRACING_ENDPOINT", ""); endpoint != "" {
		k.Set("tracing.endpoint", endpoint)
	}
	if exporter := env.GetString("TRACING_EXPORTER", ""); exporter != "" {
		k.Set("tracing.exporter", exporter)
	}
}

// setDefault only sets the value if the key doesn't already exist
func setDefault(k *koanf.Koanf, key string, value interface{}) {
	if !k.Exists(key) {
		k.Set(key, value)
	}
}
