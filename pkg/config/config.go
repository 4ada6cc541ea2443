// Package config는 viper 기반으로 서비스 설정 파일과 환경 변수를 읽어오는 패키지입니다.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 인터페이스는 설정 값에 액세스하기 위한 메서드를 정의합니다.
type Config interface {
	GetString(key string) string
	GetInt(key string) int
	GetBool(key string) bool
	GetDuration(key string) time.Duration
	GetStringSlice(key string) []string
}

// viperConfig는 viper를 사용하여 Config 인터페이스를 구현합니다.
type viperConfig struct {
	v *viper.Viper
}

func (c *viperConfig) GetString(key string) string          { return c.v.GetString(key) }
func (c *viperConfig) GetInt(key string) int                { return c.v.GetInt(key) }
func (c *viperConfig) GetBool(key string) bool              { return c.v.GetBool(key) }
func (c *viperConfig) GetDuration(key string) time.Duration { return c.v.GetDuration(key) }
func (c *viperConfig) GetStringSlice(key string) []string   { return c.v.GetStringSlice(key) }

// 설정 디렉토리 경로
const configDir = "configs"

// Option은 Load 동작을 조정하는 함수 타입입니다.
type Option func(*viper.Viper)

// WithDefaults는 설정 파일에 없는 키의 기본값을 등록합니다.
func WithDefaults(defaults map[string]interface{}) Option {
	return func(v *viper.Viper) {
		for key, value := range defaults {
			v.SetDefault(key, value)
		}
	}
}

// WithBoundEnv는 접두사 없이 사용하는 환경 변수를 키에 바인딩합니다. (예: GEMINI_API_KEY)
func WithBoundEnv(key string, envNames ...string) Option {
	return func(v *viper.Viper) {
		_ = v.BindEnv(append([]string{key}, envNames...)...)
	}
}

// Load는 지정된 서비스 이름에 해당하는 설정 파일을 로드합니다.
// configs/{APP_ENV}/{service}.yaml 이 없으면 configs/example 을 시도하고,
// 둘 다 없으면 기본값과 환경 변수만으로 동작합니다.
func Load(serviceName string, opts ...Option) (Config, error) {
	v := viper.New()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}

	v.SetConfigType("yaml")

	// STUDIO_SERVER_PORT -> server.port
	v.SetEnvPrefix(strings.ToUpper(serviceName))
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	for _, opt := range opts {
		opt(v)
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = filepath.Join(configDir, env)
	}

	v.SetConfigName(serviceName)
	v.AddConfigPath(configPath)
	v.AddConfigPath(filepath.Join(configDir, "example"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("설정 파일 로드 실패: %w", err)
		}
	}

	return &viperConfig{v: v}, nil
}
