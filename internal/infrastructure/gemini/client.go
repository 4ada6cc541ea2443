// Package gemini는 google.golang.org/genai SDK로 GenerativeModel을 구현합니다.
package gemini

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/AX07/cryptoax07-visual-generator/internal/domain/entity"
	"github.com/AX07/cryptoax07-visual-generator/internal/domain/repository"
	apperrors "github.com/AX07/cryptoax07-visual-generator/pkg/errors"
)

// Config Gemini 클라이언트 설정
type Config struct {
	APIKey string
	// RequestsPerMinute 분당 최대 호출 수 (0이면 제한 없음)
	RequestsPerMinute int
	// HTTPTimeout 텍스트 호출의 전송 타임아웃
	HTTPTimeout time.Duration
}

// Client는 repository.GenerativeModel의 Gemini 구현체입니다.
type Client struct {
	genai   *genai.Client
	limiter *rate.Limiter
	logger  *zap.Logger
}

var _ repository.GenerativeModel = (*Client)(nil)

// NewClient는 Gemini API 클라이언트를 생성합니다.
func NewClient(ctx context.Context, cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, apperrors.NewAppError(apperrors.ErrConfiguration, "gemini api key is empty", nil)
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.HTTPTimeout > 0 {
		cc.HTTPClient = &http.Client{Timeout: cfg.HTTPTimeout}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, apperrors.Wrap(err, "gemini client 생성 실패")
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), 1)
	}

	return &Client{genai: client, limiter: limiter, logger: logger}, nil
}

// GenerateText는 텍스트(또는 JSON) 응답을 생성합니다.
func (c *Client) GenerateText(ctx context.Context, req repository.TextRequest) (*repository.TextResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	config := &genai.GenerateContentConfig{}
	if req.SystemInstruction != "" {
		config.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: req.SystemInstruction}}}
	}
	if schema := toSchema(req.Schema); schema != nil {
		config.ResponseMIMEType = "application/json"
		config.ResponseSchema = schema
	}
	if req.GoogleSearch {
		config.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}

	start := time.Now()
	resp, err := c.genai.Models.GenerateContent(ctx, req.Model, genai.Text(req.Prompt), config)
	if err != nil {
		c.logger.Warn("Gemini 텍스트 생성 실패", zap.String("model", req.Model), zap.Error(err))
		return nil, err
	}
	c.logger.Debug("Gemini 텍스트 생성 완료",
		zap.String("model", req.Model),
		zap.Duration("latency", time.Since(start)),
	)

	return &repository.TextResponse{
		Text:    collectText(resp),
		Sources: collectSources(resp),
	}, nil
}

// GenerateImage는 이미지 응답을 생성합니다. 인라인 이미지가 없으면 빈 ImageData를 반환합니다.
func (c *Client) GenerateImage(ctx context.Context, req repository.ImageRequest) (*repository.ImageData, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	contents := []*genai.Content{{Parts: []*genai.Part{{Text: req.Prompt}}}}
	config := &genai.GenerateContentConfig{ResponseModalities: []string{"TEXT", "IMAGE"}}

	resp, err := c.genai.Models.GenerateContent(ctx, req.Model, contents, config)
	if err != nil {
		c.logger.Warn("Gemini 이미지 생성 실패", zap.String("model", req.Model), zap.Error(err))
		return nil, err
	}
	return firstImage(resp), nil
}

func toSchema(kind repository.ResponseSchema) *genai.Schema {
	switch kind {
	case repository.SchemaStringArray:
		return &genai.Schema{
			Type:  genai.TypeArray,
			Items: &genai.Schema{Type: genai.TypeString},
		}
	case repository.SchemaDesignPrompts:
		return &genai.Schema{
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"id": {Type: genai.TypeInteger},
					"breakdown": {
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"subject": {
								Type:        genai.TypeString,
								Description: "Highly detailed description of the Single Hero Object including texture, imperfections, material",
							},
							"action": {
								Type:        genai.TypeString,
								Description: "Description of subtle motion blur, floating particles, light spills",
							},
							"environment": {
								Type:        genai.TypeString,
								Description: "Background details (Dark Void), gradients, vignettes",
							},
							"styleAndTech": {
								Type:        genai.TypeString,
								Description: "Camera, Lighting, and Render settings",
							},
							"typographyInstruction": {
								Type:        genai.TypeString,
								Description: "Instruction for text. MUST SPECIFY: 'Bold Sans-Serif, [Keyword] in Metallic Gold, rest in White'.",
							},
						},
						Required: []string{"subject", "action", "environment", "styleAndTech", "typographyInstruction"},
					},
					"fullPrompt": {
						Type:        genai.TypeString,
						Description: "The combined prompt string. Format: [Subject], [Action], [Environment], [Style], Text: [Typography instruction with Gold Keyword]",
					},
				},
				Required: []string{"id", "breakdown", "fullPrompt"},
			},
		}
	default:
		return nil
	}
}

// collectText는 첫 번째 후보의 텍스트 파트를 이어 붙입니다.
func collectText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		sb.WriteString(part.Text)
	}
	return sb.String()
}

// collectSources는 검색 그라운딩 청크에서 웹 출처를 수집합니다.
func collectSources(resp *genai.GenerateContentResponse) []entity.Source {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].GroundingMetadata == nil {
		return nil
	}
	var sources []entity.Source
	for _, chunk := range resp.Candidates[0].GroundingMetadata.GroundingChunks {
		if chunk == nil || chunk.Web == nil {
			continue
		}
		sources = append(sources, entity.Source{Title: chunk.Web.Title, URI: chunk.Web.URI})
	}
	return sources
}

// firstImage는 첫 번째 인라인 이미지 파트를 반환합니다.
func firstImage(resp *genai.GenerateContentResponse) *repository.ImageData {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return &repository.ImageData{}
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return &repository.ImageData{MIMEType: part.InlineData.MIMEType, Data: part.InlineData.Data}
		}
	}
	return &repository.ImageData{}
}
