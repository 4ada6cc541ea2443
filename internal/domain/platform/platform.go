// Package platform은 배포 채널별 글쓰기 스타일 지침을 제공합니다.
package platform

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// 지원 플랫폼
const (
	Instagram = "instagram"
	Twitter   = "twitter"
	LinkedIn  = "linkedin"
	Blog      = "blog"
)

//go:embed platforms.yaml
var defaultCatalog []byte

// Catalog는 기본 지침과 플랫폼별 추가 지침을 담습니다.
type Catalog struct {
	Base      string            `yaml:"base"`
	Platforms map[string]string `yaml:"platforms"`
}

// Parse는 YAML 지침 카탈로그를 파싱합니다.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("platform catalog: %w", err)
	}
	if c.Base == "" {
		return nil, fmt.Errorf("platform catalog: base instruction is empty")
	}
	return &c, nil
}

// Default는 내장된 카탈로그를 반환합니다. 내장 파일이 잘못되면 패닉합니다.
func Default() *Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		panic(err)
	}
	return c
}

// Instruction은 플랫폼의 시스템 지침을 반환합니다.
// 알 수 없는 플랫폼은 기본 지침만 사용합니다. 생성과 수정 모두 같은 지침을 씁니다.
func (c *Catalog) Instruction(platform string) string {
	extra, ok := c.Platforms[platform]
	if !ok || extra == "" {
		return c.Base
	}
	return c.Base + "\n" + extra
}

// Names는 등록된 플랫폼 이름을 정렬해 반환합니다.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.Platforms))
	for name := range c.Platforms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
