package config

import (
	"time"

	"github.com/AX07/cryptoax07-visual-generator/pkg/config"
)

// Studio 세션 워크플로 설정
type Studio struct {
	// ProxyURL 생성 클라이언트가 호출할 프록시 주소. 비어 있으면 자기 자신의 /api/gemini를 사용합니다.
	ProxyURL      string        `yaml:"proxy_url"`
	ItemDelay     time.Duration `yaml:"item_delay"`
	ImageRetries  int           `yaml:"image_retries"`
	HTTPTimeout   time.Duration `yaml:"http_timeout"`
	SessionSecret string        `yaml:"session_secret"`
	SessionTTL    time.Duration `yaml:"session_ttl"`
}

// Redis 세션 변경 이벤트 발행 설정. Addr이 비어 있으면 발행하지 않습니다.
type Redis struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Channel  string `yaml:"channel"`
}

func loadStudio(cfg config.Config) Studio {
	return Studio{
		ProxyURL:      cfg.GetString("studio.proxy_url"),
		ItemDelay:     cfg.GetDuration("studio.item_delay"),
		ImageRetries:  cfg.GetInt("studio.image_retries"),
		HTTPTimeout:   cfg.GetDuration("studio.http_timeout"),
		SessionSecret: cfg.GetString("studio.session_secret"),
		SessionTTL:    cfg.GetDuration("studio.session_ttl"),
	}
}

func loadRedis(cfg config.Config) Redis {
	return Redis{
		Addr:     cfg.GetString("redis.addr"),
		Password: cfg.GetString("redis.password"),
		DB:       cfg.GetInt("redis.db"),
		Channel:  cfg.GetString("redis.channel"),
	}
}
