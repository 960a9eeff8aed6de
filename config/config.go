package config

import (
	"log"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

var Cfg Config

type Config struct {
	// 服务配置
	ServerPort  string `env:"SERVER_PORT" envDefault:"8090"`
	ServerHost  string `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"` // development, staging, production
	ServiceName string `env:"SERVICE_NAME" envDefault:"delaywatch"`

	// 数仓只读副本配置（delayed_orders 宽表，上游 ETL 维护）
	WarehouseHost     string `env:"WAREHOUSE_HOST" envDefault:"localhost"`
	WarehousePort     string `env:"WAREHOUSE_PORT" envDefault:"5432"`
	WarehouseUser     string `env:"WAREHOUSE_USER" envDefault:"postgres"`
	WarehousePassword string `env:"WAREHOUSE_PASSWORD" envDefault:"postgres"`
	WarehouseDatabase string `env:"WAREHOUSE_DATABASE" envDefault:"warehouse"`
	WarehouseSchema   string `env:"WAREHOUSE_SCHEMA" envDefault:"public"`
	WarehouseSSLMode  string `env:"WAREHOUSE_SSLMODE" envDefault:"disable"`
	WarehouseMaxIdle  int    `env:"WAREHOUSE_MAX_IDLE" envDefault:"10"`
	WarehouseMaxOpen  int    `env:"WAREHOUSE_MAX_OPEN" envDefault:"50"`

	// 处理工单事务库配置（treatments, 本服务可写）
	TreatmentHost     string `env:"TREATMENT_HOST" envDefault:"localhost"`
	TreatmentPort     string `env:"TREATMENT_PORT" envDefault:"5432"`
	TreatmentUser     string `env:"TREATMENT_USER" envDefault:"postgres"`
	TreatmentPassword string `env:"TREATMENT_PASSWORD" envDefault:"postgres"`
	TreatmentDatabase string `env:"TREATMENT_DATABASE" envDefault:"delaywatch"`
	TreatmentSchema   string `env:"TREATMENT_SCHEMA" envDefault:"public"`
	TreatmentSSLMode  string `env:"TREATMENT_SSLMODE" envDefault:"disable"`
	TreatmentMaxIdle  int    `env:"TREATMENT_MAX_IDLE" envDefault:"10"`
	TreatmentMaxOpen  int    `env:"TREATMENT_MAX_OPEN" envDefault:"50"`

	// Redis 配置
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	RedisPrefix   string `env:"REDIS_PREFIX" envDefault:"dwatch"`

	// RabbitMQ 配置
	RabbitMQAddr     string `env:"RABBITMQ_ADDR" envDefault:"localhost"`
	RabbitMQPort     string `env:"RABBITMQ_PORT" envDefault:"5672"`
	RabbitMQUsername string `env:"RABBITMQ_USERNAME" envDefault:"guest"`
	RabbitMQPassword string `env:"RABBITMQ_PASSWORD" envDefault:"guest"`
	RabbitMQVhost    string `env:"RABBITMQ_VHOST" envDefault:"/"`

	// 告警列表配置
	AlertCacheTTLSeconds   int `env:"ALERT_CACHE_TTL_SECONDS" envDefault:"300"`
	CarrierCacheTTLSeconds int `env:"CARRIER_CACHE_TTL_SECONDS" envDefault:"1800"`
	AlertResultCap         int `env:"ALERT_RESULT_CAP" envDefault:"100"`

	// 首次曝光自动开单
	AutoOpenEnabled bool `env:"AUTO_OPEN_ENABLED" envDefault:"true"`

	// Snowflake ID 生成器配置
	SnowflakeMachineID  int64 `env:"SNOWFLAKE_MACHINE_ID" envDefault:"1"`
	SnowflakeDataCenter int64 `env:"SNOWFLAKE_DATACENTER_ID" envDefault:"1"`

	// 日志配置
	LoggerLevel      string `env:"LOGGER_LEVEL" envDefault:"INFO"`
	LoggerFormat     string `env:"LOGGER_FORMAT" envDefault:"text"` // json, text
	LoggerOutputPath string `env:"LOGGER_OUTPUT_PATH" envDefault:"stdout"`

	// 链路追踪配置
	TracingEnabled bool   `env:"TRACING_ENABLED" envDefault:"false"`
	OTLPEndpoint   string `env:"OTLP_ENDPOINT" envDefault:"localhost:4317"`

	// 速率限制配置, 配置在中间件内
	RateLimitEnabled bool `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	RateLimitRPS     int  `env:"RATE_LIMIT_RPS" envDefault:"100"` // 每秒请求数
}

func init() {

	if err := godotenv.Load(); err != nil {

		log.Printf("WARN: Cannot load .env file: %v, using environment variables", err)
	}

	Cfg = Config{}
	if err := env.Parse(&Cfg); err != nil {
		log.Fatalf("Failed to parse environment variables: %v", err)
	}

	validateConfig()
}

func validateConfig() {
	if Cfg.AlertResultCap <= 0 {
		log.Fatal("ALERT_RESULT_CAP must be positive")
	}

	if Cfg.AlertCacheTTLSeconds <= 0 {
		log.Printf("WARN: ALERT_CACHE_TTL_SECONDS is not positive, alert caching is effectively disabled")
	}

	if Cfg.WarehouseDatabase == "" {
		log.Fatal("WAREHOUSE_DATABASE is required")
	}

	if Cfg.TreatmentDatabase == "" {
		log.Fatal("TREATMENT_DATABASE is required")
	}
}

func (c *Config) GetWarehouseDSN() string {
	return "host=" + c.WarehouseHost +
		" port=" + c.WarehousePort +
		" user=" + c.WarehouseUser +
		" password=" + c.WarehousePassword +
		" dbname=" + c.WarehouseDatabase +
		" sslmode=" + c.WarehouseSSLMode +
		" search_path=" + c.WarehouseSchema
}

func (c *Config) GetTreatmentDSN() string {
	return "host=" + c.TreatmentHost +
		" port=" + c.TreatmentPort +
		" user=" + c.TreatmentUser +
		" password=" + c.TreatmentPassword +
		" dbname=" + c.TreatmentDatabase +
		" sslmode=" + c.TreatmentSSLMode +
		" search_path=" + c.TreatmentSchema
}

func (c *Config) GetRabbitMQURL() string {
	return "amqp://" + c.RabbitMQUsername + ":" + c.RabbitMQPassword + "@" + c.RabbitMQAddr + ":" + c.RabbitMQPort + c.RabbitMQVhost
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
