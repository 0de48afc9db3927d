package config

import (
	"bytes"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type AppCfg struct {
	Name string
	Env  string
	Host string
	Port int
}

type LogCfg struct {
	Level string
}

type DBCfg struct {
	DSN         string
	MaxOpen     int
	MaxIdle     int
	AutoMigrate bool
}

type RedisCfg struct {
	Addr     string
	Password string
	DB       int
	PoolSize int
}

type MQExchangeName struct {
	LetterCompose string
}

type MQRoutingKey struct {
	LetterComposeRequest  string
	LetterComposeReminder string
}

type MQCfg struct {
	URL          string
	ExchangeName MQExchangeName
	RoutingKey   MQRoutingKey
}

type S3Cfg struct {
	Endpoint         string
	Region           string
	AccessKey        string
	SecretKey        string
	Bucket           string
	UsePathStyle     bool
	PresignExpireSec int
	SSE              string
	// PublicBaseURL, when set, is joined with the object key to form stored URLs.
	PublicBaseURL string
}

type DocGenCfg struct {
	BaseURL    string
	TimeoutSec int
}

type LetterCfg struct {
	CompanyName       string
	SenderName        string
	KeyPrefix         string
	MaxUploadBytes    int64
	MaxUploadAttempts int
	FallbackContact   string
}

type LockCfg struct {
	// Backend is "redis" or "local".
	Backend string
	TTLSec  int
}

type CORSCfg struct {
	AllowOrigins []string
}

type TelemetryCfg struct {
	Enabled      bool
	OtlpEndpoint string
	SampleRatio  float64
}

type Config struct {
	App       AppCfg
	Log       LogCfg
	Database  DBCfg
	Redis     RedisCfg
	RabbitMQ  MQCfg
	S3        S3Cfg
	DocGen    DocGenCfg
	Letter    LetterCfg
	Lock      LockCfg
	CORS      CORSCfg
	Telemetry TelemetryCfg
}

func Load() (*Config, error) {
	// A missing .env is fine; real env vars always win over it.
	_ = godotenv.Load()

	base := viper.New()
	base.SetConfigName("config")
	base.SetConfigType("yaml")
	base.AddConfigPath("./configs")
	base.AddConfigPath(".")
	base.AutomaticEnv()
	base.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	base.SetEnvPrefix("APP") // e.g. APP_APP_PORT -> app.port

	setDefaults(base)

	if err := base.ReadInConfig(); err == nil {
		// Expand ${ENV} references in the file before parsing it.
		path := base.ConfigFileUsed()
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return parse(os.ExpandEnv(string(raw)))
	}

	cfg := new(Config)
	if err := base.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// parse reads YAML content layered over the defaults and APP_ env overrides.
func parse(content string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewBufferString(content)); err != nil {
		return nil, err
	}
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("APP")
	setDefaults(v)

	cfg := new(Config)
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "vesselworks-dashboard")
	v.SetDefault("app.env", "debug")
	v.SetDefault("app.host", "0.0.0.0")
	v.SetDefault("app.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("database.maxOpen", 20)
	v.SetDefault("database.maxIdle", 5)
	v.SetDefault("redis.poolSize", 10)
	v.SetDefault("rabbitmq.exchangeName.letterCompose", "letter.compose")
	v.SetDefault("rabbitmq.routingKey.letterComposeRequest", "letter.compose.request")
	v.SetDefault("rabbitmq.routingKey.letterComposeReminder", "letter.compose.reminder")
	v.SetDefault("s3.region", "auto")
	v.SetDefault("s3.usePathStyle", true)
	v.SetDefault("s3.presignExpireSec", 900)
	v.SetDefault("docgen.timeoutSec", 30)
	v.SetDefault("letter.companyName", "Vessel Works Engineering")
	v.SetDefault("letter.senderName", "Project Delivery Team")
	v.SetDefault("letter.keyPrefix", "recommendation-letters")
	v.SetDefault("letter.maxUploadBytes", 10<<20)
	v.SetDefault("letter.maxUploadAttempts", 3)
	v.SetDefault("letter.fallbackContact", "Sir/Madam")
	v.SetDefault("lock.backend", "redis")
	v.SetDefault("lock.ttlSec", 60)
	v.SetDefault("cors.allowOrigins", []string{"http://localhost:3000"})
	v.SetDefault("telemetry.sampleRatio", 1.0)
}
