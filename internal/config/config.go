package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	AppEnv  string
	AppName string
	Port    string

	MongoURI      string
	MongoDatabase string

	JWTAccessSecret  string
	JWTRefreshSecret string
	JWTAccessTTL     time.Duration
	JWTRefreshTTL    time.Duration

	OTPTTL           time.Duration
	ResetTokenTTL    time.Duration
	OTPStore         string
	OTPSweepInterval time.Duration

	AllowOrigins    []string
	LogLevel        string
	LogFile         string
	LogstashTCPAddr string

	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOUseSSL    bool
	MinIOBucket    string
	MinIOPublicURL string

	MediaMaxBytes     int64
	MediaMaxDimension int

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	SMTPUseTLS   bool

	AdminSeedName     string
	AdminSeedEmail    string
	AdminSeedHandle   string
	AdminSeedPassword string
}

func (c Config) Production() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// Load reads .env (when present) and the process environment. Missing
// required keys panic so a misconfigured process never starts serving.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_NAME", "Campus Tours")
	v.SetDefault("PORT", "8080")
	v.SetDefault("MONGO_DATABASE", "campus_tours")
	v.SetDefault("JWT_ACCESS_TTL", "15m")
	v.SetDefault("JWT_REFRESH_TTL", "168h")
	v.SetDefault("OTP_TTL", "5m")
	v.SetDefault("RESET_TOKEN_TTL", "10m")
	v.SetDefault("OTP_STORE", "memory")
	v.SetDefault("OTP_SWEEP_INTERVAL", "1m")
	v.SetDefault("ALLOW_ORIGINS", "*")
	v.SetDefault("MINIO_USE_SSL", false)
	v.SetDefault("MINIO_BUCKET", "campus-media")
	v.SetDefault("MEDIA_MAX_BYTES", 5*1024*1024)
	v.SetDefault("MEDIA_MAX_DIMENSION", 6000)
	v.SetDefault("SMTP_PORT", "587")
	v.SetDefault("SMTP_USE_TLS", true)
	v.SetDefault("ADMIN_SEED_NAME", "Administrator")
	v.SetDefault("ADMIN_SEED_HANDLE", "ADMIN0001")
	return v
}

// FromViper maps an already populated viper instance onto Config.
func FromViper(v *viper.Viper) Config {
	accessSecret := must(v, "JWT_ACCESS_SECRET")
	refreshSecret := v.GetString("JWT_REFRESH_SECRET")
	if refreshSecret == "" {
		refreshSecret = accessSecret
	}

	return Config{
		AppEnv:  strings.ToLower(v.GetString("APP_ENV")),
		AppName: v.GetString("APP_NAME"),
		Port:    v.GetString("PORT"),

		MongoURI:      must(v, "MONGO_URI"),
		MongoDatabase: v.GetString("MONGO_DATABASE"),

		JWTAccessSecret:  accessSecret,
		JWTRefreshSecret: refreshSecret,
		JWTAccessTTL:     v.GetDuration("JWT_ACCESS_TTL"),
		JWTRefreshTTL:    v.GetDuration("JWT_REFRESH_TTL"),

		OTPTTL:           v.GetDuration("OTP_TTL"),
		ResetTokenTTL:    v.GetDuration("RESET_TOKEN_TTL"),
		OTPStore:         strings.ToLower(v.GetString("OTP_STORE")),
		OTPSweepInterval: v.GetDuration("OTP_SWEEP_INTERVAL"),

		AllowOrigins:    splitAndTrim(v.GetString("ALLOW_ORIGINS")),
		LogLevel:        v.GetString("LOG_LEVEL"),
		LogFile:         v.GetString("LOG_FILE"),
		LogstashTCPAddr: v.GetString("LOGSTASH_TCP_ADDR"),

		MinIOEndpoint:  v.GetString("MINIO_ENDPOINT"),
		MinIOAccessKey: v.GetString("MINIO_ACCESS_KEY"),
		MinIOSecretKey: v.GetString("MINIO_SECRET_KEY"),
		MinIOUseSSL:    v.GetBool("MINIO_USE_SSL"),
		MinIOBucket:    v.GetString("MINIO_BUCKET"),
		MinIOPublicURL: v.GetString("MINIO_PUBLIC_URL"),

		MediaMaxBytes:     v.GetInt64("MEDIA_MAX_BYTES"),
		MediaMaxDimension: v.GetInt("MEDIA_MAX_DIMENSION"),

		SMTPHost:     v.GetString("SMTP_HOST"),
		SMTPPort:     v.GetString("SMTP_PORT"),
		SMTPUsername: v.GetString("SMTP_USERNAME"),
		SMTPPassword: v.GetString("SMTP_PASSWORD"),
		SMTPFrom:     v.GetString("SMTP_FROM"),
		SMTPUseTLS:   v.GetBool("SMTP_USE_TLS"),

		AdminSeedName:     v.GetString("ADMIN_SEED_NAME"),
		AdminSeedEmail:    v.GetString("ADMIN_SEED_EMAIL"),
		AdminSeedHandle:   v.GetString("ADMIN_SEED_HANDLE"),
		AdminSeedPassword: v.GetString("ADMIN_SEED_PASSWORD"),
	}
}

func splitAndTrim(input string) []string {
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

func must(v *viper.Viper, k string) string {
	val := strings.TrimSpace(v.GetString(k))
	if val == "" {
		panic("missing env: " + k)
	}
	return val
}
