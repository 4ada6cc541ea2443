package config

import (
	"github.com/AX07/cryptoax07-visual-generator/pkg/config"
	"github.com/AX07/cryptoax07-visual-generator/pkg/logger"
	"go.uber.org/zap"
)

// serviceName 설정 파일 이름과 환경 변수 접두사(STUDIO_)로 사용됩니다.
const serviceName = "studio"

// Config 스튜디오 서비스 설정 구조체
type Config struct {
	Service Service `yaml:"service"`
	Server  Server  `yaml:"server"`
	Log     Log     `yaml:"log"`
	Gemini  Gemini  `yaml:"gemini"`
	Studio  Studio  `yaml:"studio"`
	Redis   Redis   `yaml:"redis"`
	Logger  *zap.Logger
}

// Service 서비스 정보
type Service struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

// Log 로그 설정
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load 설정 파일 로드
func Load() (*Config, error) {
	cfg, err := config.Load(serviceName,
		config.WithDefaults(defaults()),
		config.WithBoundEnv("gemini.api_key", "GEMINI_API_KEY", "STUDIO_GEMINI_API_KEY"),
	)
	if err != nil {
		return nil, err
	}

	appConfig := &Config{}

	appConfig.Service.Name = cfg.GetString("service.name")
	appConfig.Service.Version = cfg.GetString("service.version")

	appConfig.Server.HTTP.Port = cfg.GetString("server.http.port")
	appConfig.Server.HTTP.Timeout = cfg.GetDuration("server.http.timeout")
	appConfig.Server.HTTP.Debug = cfg.GetBool("server.http.debug")
	appConfig.Server.HTTP.AllowOrigins = cfg.GetStringSlice("server.http.allow_origins")

	appConfig.Log.Level = cfg.GetString("log.level")
	appConfig.Log.Format = cfg.GetString("log.format")
	appConfig.Log.Output = cfg.GetString("log.output")

	appConfig.Gemini = loadGemini(cfg)
	appConfig.Studio = loadStudio(cfg)
	appConfig.Redis = loadRedis(cfg)

	appConfig.Logger, err = logger.NewZapLogger(logger.Config{
		Level:       appConfig.Log.Level,
		Format:      appConfig.Log.Format,
		Output:      appConfig.Log.Output,
		Development: appConfig.Server.HTTP.Debug,
	})
	if err != nil {
		return nil, err
	}

	return appConfig, nil
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"service.name":            "cryptoax07-studio",
		"service.version":         "0.1.0",
		"server.http.port":        "8080",
		"server.http.timeout":     "120s",
		"log.level":               "info",
		"log.format":              "json",
		"log.output":              "stdout",
		"gemini.text_model":       "gemini-1.5-flash",
		"gemini.image_model":      "gemini-2.0-flash-exp",
		"gemini.search_model":     "gemini-2.0-flash-exp",
		"gemini.image_timeout":    "25s",
		"gemini.retry_base_delay": "2s",
		"gemini.default_retries":  1,
		"gemini.requests_per_min": 0,
		"gemini.http_timeout":     "60s",
		"studio.item_delay":       "2s",
		"studio.image_retries":    3,
		"studio.http_timeout":     "180s",
		"studio.session_secret":   "change-me-in-production",
		"studio.session_ttl":      "24h",
		"redis.channel":           "studio.events",
	}
}
