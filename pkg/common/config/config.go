package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Server
	ServerPort     string
	ServerHost     string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	MaxRequestBody int64

	// Database
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// Kafka
	KafkaBrokers      []string
	KafkaGroupID      string
	ProfileEventTopic string
	ActivityTopic     string

	// Auth
	JWTSecret   string
	JWTIssuer   string
	JWTAudience string
	JWTTTL      time.Duration

	// OIDC (optional hospital-partner SSO)
	OIDCIssuer       string
	OIDCClientID     string
	OIDCClientSecret string

	// Matching
	MatchDefaultLimit   int
	MatchWeightsFile    string
	MatchVectorCacheTTL time.Duration
	MatchPoolBatchSize  int

	// Moderation
	ModerationRulesFile string
}

func Load() *Config {
	return &Config{
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		ServerHost:     getEnv("SERVER_HOST", "0.0.0.0"),
		ReadTimeout:    getDuration("READ_TIMEOUT", 30*time.Second),
		WriteTimeout:   getDuration("WRITE_TIMEOUT", 30*time.Second),
		MaxRequestBody: int64(getIntEnv("MAX_REQUEST_BODY_BYTES", 1*1024*1024)),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "we4us"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "we4us_dev_password"),
		PostgresDB:       getEnv("POSTGRES_DB", "we4us_gbm"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getIntEnv("REDIS_DB", 0),

		KafkaBrokers:      getStringSliceEnv("KAFKA_BROKERS", []string{"localhost:9092"}),
		KafkaGroupID:      getEnv("KAFKA_GROUP_ID", "we4us-platform"),
		ProfileEventTopic: getEnv("PROFILE_EVENT_TOPIC", "we4us.profile.updated"),
		ActivityTopic:     getEnv("ACTIVITY_TOPIC", "we4us.community.activity"),

		JWTSecret:   getEnv("JWT_SECRET", "we4us-dev-secret-change-me"),
		JWTIssuer:   getEnv("JWT_ISSUER", "we4us"),
		JWTAudience: getEnv("JWT_AUDIENCE", "we4us-web"),
		JWTTTL:      getDuration("JWT_TTL", 7*24*time.Hour),

		OIDCIssuer:       getEnv("OIDC_ISSUER", ""),
		OIDCClientID:     getEnv("OIDC_CLIENT_ID", ""),
		OIDCClientSecret: getEnv("OIDC_CLIENT_SECRET", ""),

		MatchDefaultLimit:   getIntEnv("MATCH_DEFAULT_LIMIT", 10),
		MatchWeightsFile:    getEnv("MATCH_WEIGHTS_FILE", ""),
		MatchVectorCacheTTL: getDuration("MATCH_VECTOR_CACHE_TTL", 5*time.Minute),
		MatchPoolBatchSize:  getIntEnv("MATCH_POOL_BATCH_SIZE", 1000),

		ModerationRulesFile: getEnv("MODERATION_RULES_FILE", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getStringSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return []string{value}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
