package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/AX07/cryptoax07-visual-generator/internal/domain/entity"
	"github.com/AX07/cryptoax07-visual-generator/internal/domain/platform"
	"github.com/AX07/cryptoax07-visual-generator/internal/domain/repository"
)

// designBatchSize는 헤드라인 하나당 생성하는 디자인 변형 수입니다.
const designBatchSize = 3

// Models는 작업별로 사용할 모델 이름입니다.
type Models struct {
	Text   string
	Image  string
	Search string
}

// GenerationUseCase는 프록시로 들어온 action을 생성형 서비스 호출로 변환합니다.
type GenerationUseCase struct {
	model     repository.GenerativeModel
	models    Models
	retry     RetryPolicy
	platforms *platform.Catalog
	validate  *validator.Validate
	logger    *zap.Logger
}

// Option GenerationUseCase 생성 옵션
type Option func(*GenerationUseCase)

// WithModels 모델 이름을 설정합니다.
func WithModels(m Models) Option {
	return func(uc *GenerationUseCase) { uc.models = m }
}

// WithRetryPolicy 이미지 생성 재시도 정책을 설정합니다.
func WithRetryPolicy(p RetryPolicy) Option {
	return func(uc *GenerationUseCase) { uc.retry = p }
}

// WithPlatformCatalog 플랫폼 지침 카탈로그를 설정합니다.
func WithPlatformCatalog(c *platform.Catalog) Option {
	return func(uc *GenerationUseCase) { uc.platforms = c }
}

// NewGenerationUseCase는 새로운 GenerationUseCase를 생성합니다.
// model이 nil이면 API 키가 설정되지 않은 것으로 보고 모든 action에 설정 에러를 반환합니다.
func NewGenerationUseCase(model repository.GenerativeModel, logger *zap.Logger, opts ...Option) *GenerationUseCase {
	uc := &GenerationUseCase{
		model: model,
		models: Models{
			Text:   "gemini-1.5-flash",
			Image:  "gemini-2.0-flash-exp",
			Search: "gemini-2.0-flash-exp",
		},
		retry:     DefaultRetryPolicy(),
		platforms: platform.Default(),
		validate:  validator.New(),
		logger:    logger,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Configured는 생성형 서비스 자격 증명이 설정되었는지 반환합니다.
func (uc *GenerationUseCase) Configured() bool {
	return uc.model != nil
}

// Execute는 action과 payload를 받아 action별 응답 값을 반환합니다.
func (uc *GenerationUseCase) Execute(ctx context.Context, action string, payload json.RawMessage) (interface{}, error) {
	if !uc.Configured() {
		return nil, ErrMissingAPIKey
	}

	switch entity.Action(action) {
	case entity.ActionDesignPrompts:
		var p entity.HeadlinePayload
		if err := uc.bind(payload, &p); err != nil {
			return nil, err
		}
		return uc.DesignPrompts(ctx, p.Headline)

	case entity.ActionCarouselScript:
		var p entity.HeadlinePayload
		if err := uc.bind(payload, &p); err != nil {
			return nil, err
		}
		return uc.CarouselScript(ctx, p.Headline)

	case entity.ActionCarouselPrompts:
		var p entity.CarouselPromptsPayload
		if err := uc.bind(payload, &p); err != nil {
			return nil, err
		}
		return uc.CarouselPrompts(ctx, p.Breakdown, p.Slides)

	case entity.ActionSingleCarouselPrompt:
		var p entity.SingleCarouselPromptPayload
		if err := uc.bind(payload, &p); err != nil {
			return nil, err
		}
		prompt, err := uc.SingleCarouselPrompt(ctx, p.Breakdown, p.SlideText)
		if err != nil {
			return nil, err
		}
		return entity.PromptResponse{Prompt: prompt}, nil

	case entity.ActionGenerateImage:
		var p entity.GenerateImagePayload
		if err := uc.bind(payload, &p); err != nil {
			return nil, err
		}
		maxRetries := lo.FromPtrOr(p.MaxRetries, uc.retry.DefaultMaxRetries)
		image, err := uc.GenerateImage(ctx, p.Prompt, maxRetries)
		if err != nil {
			return nil, err
		}
		return entity.ImageResponse{Image: image}, nil

	case entity.ActionSocialContent:
		var p entity.SocialContentPayload
		if err := uc.bind(payload, &p); err != nil {
			return nil, err
		}
		content, err := uc.SocialContent(ctx, p.Topic, p.Platform)
		if err != nil {
			return nil, err
		}
		return entity.ContentResponse{Content: content}, nil

	case entity.ActionRefineContent:
		var p entity.RefineContentPayload
		if err := uc.bind(payload, &p); err != nil {
			return nil, err
		}
		content, err := uc.RefineContent(ctx, p.OriginalContent, p.Feedback, p.Platform)
		if err != nil {
			return nil, err
		}
		return entity.ContentResponse{Content: content}, nil

	case entity.ActionTrendingKeywords:
		return uc.TrendingKeywords(ctx)

	case entity.ActionViralHooks:
		return uc.ViralHooks(ctx)

	default:
		return nil, ErrInvalidAction
	}
}

// bind는 payload를 디코딩하고 검증합니다. 빈 payload는 빈 객체로 취급합니다.
func (uc *GenerationUseCase) bind(payload json.RawMessage, v interface{}) error {
	if len(payload) > 0 && string(payload) != "null" {
		if err := json.Unmarshal(payload, v); err != nil {
			return invalidPayload(err)
		}
	}
	if err := uc.validate.Struct(v); err != nil {
		return invalidPayload(err)
	}
	return nil
}

// generateText는 텍스트 모델을 호출하고 빈 응답을 에러로 처리합니다.
func (uc *GenerationUseCase) generateText(ctx context.Context, req repository.TextRequest) (*repository.TextResponse, error) {
	if req.Model == "" {
		req.Model = uc.models.Text
	}
	resp, err := uc.model.GenerateText(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp == nil || strings.TrimSpace(resp.Text) == "" {
		return nil, ErrNoResponse
	}
	return resp, nil
}

// DesignPrompts는 헤드라인에 대해 정확히 3개의 디자인 변형을 생성합니다.
func (uc *GenerationUseCase) DesignPrompts(ctx context.Context, headline string) ([]entity.DesignPrompt, error) {
	resp, err := uc.generateText(ctx, repository.TextRequest{
		SystemInstruction: designSystemInstruction,
		Prompt:            designPromptsRequest(headline),
		Schema:            repository.SchemaDesignPrompts,
	})
	if err != nil {
		return nil, err
	}

	var prompts []entity.DesignPrompt
	if err := decodeJSON(resp.Text, &prompts); err != nil {
		return nil, parseFailure("design prompts", err)
	}
	if len(prompts) < designBatchSize {
		return nil, parseFailure("design prompts", fmt.Errorf("expected %d variants, got %d", designBatchSize, len(prompts)))
	}
	prompts = prompts[:designBatchSize]

	// 배치 내 ID가 비었거나 중복되면 1..3으로 다시 매깁니다.
	ids := lo.Map(prompts, func(p entity.DesignPrompt, _ int) int { return p.ID })
	renumber := len(lo.Uniq(ids)) != len(ids) || lo.Contains(ids, 0)
	for i := range prompts {
		if renumber {
			prompts[i].ID = i + 1
		}
		prompts[i].Headline = headline
	}
	return prompts, nil
}

// CarouselScript는 캐러셀용 짧은 문구 4개를 생성합니다.
func (uc *GenerationUseCase) CarouselScript(ctx context.Context, headline string) ([]string, error) {
	resp, err := uc.generateText(ctx, repository.TextRequest{
		SystemInstruction: carouselScriptInstruction,
		Prompt:            carouselScriptRequest(headline),
		Schema:            repository.SchemaStringArray,
	})
	if err != nil {
		return nil, err
	}

	var texts []string
	if err := decodeJSON(resp.Text, &texts); err != nil {
		return nil, parseFailure("carousel script", err)
	}
	if len(texts) == 0 {
		return nil, ErrNoResponse
	}
	if len(texts) > entity.CarouselSlideCount {
		texts = texts[:entity.CarouselSlideCount]
	}
	return texts, nil
}

// CarouselPrompts는 고정 스타일을 유지한 슬라이드별 프롬프트를 생성합니다.
func (uc *GenerationUseCase) CarouselPrompts(ctx context.Context, breakdown entity.Breakdown, slides []entity.SlideText) ([]string, error) {
	prompt, err := carouselPromptsRequest(breakdown, slides)
	if err != nil {
		return nil, invalidPayload(err)
	}
	resp, err := uc.generateText(ctx, repository.TextRequest{
		SystemInstruction: carouselPromptsInstruction,
		Prompt:            prompt,
		Schema:            repository.SchemaStringArray,
	})
	if err != nil {
		return nil, err
	}

	var prompts []string
	if err := decodeJSON(resp.Text, &prompts); err != nil {
		return nil, parseFailure("carousel prompts", err)
	}
	return prompts, nil
}

// SingleCarouselPrompt는 슬라이드 하나에 대한 프롬프트를 생성합니다.
func (uc *GenerationUseCase) SingleCarouselPrompt(ctx context.Context, breakdown entity.Breakdown, slideText string) (string, error) {
	prompt, err := singleCarouselPromptRequest(breakdown, slideText)
	if err != nil {
		return "", invalidPayload(err)
	}
	resp, err := uc.generateText(ctx, repository.TextRequest{
		SystemInstruction: fmt.Sprintf(singleCarouselPromptInstruction, slideText),
		Prompt:            prompt,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Text), nil
}

// SocialContent는 플랫폼 스타일에 맞춘 글을 생성합니다.
func (uc *GenerationUseCase) SocialContent(ctx context.Context, topic, platformName string) (string, error) {
	resp, err := uc.generateText(ctx, repository.TextRequest{
		SystemInstruction: uc.platforms.Instruction(platformName),
		Prompt:            "Topic: " + topic,
	})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// RefineContent는 피드백을 반영해 글을 다시 씁니다. 생성과 같은 플랫폼 지침을 사용합니다.
func (uc *GenerationUseCase) RefineContent(ctx context.Context, original, feedback, platformName string) (string, error) {
	resp, err := uc.generateText(ctx, repository.TextRequest{
		SystemInstruction: uc.platforms.Instruction(platformName),
		Prompt:            fmt.Sprintf(refineTemplate, original, feedback),
	})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// TrendingKeywords는 웹 검색 그라운딩으로 트렌드 키워드를 조회합니다.
// 응답을 파싱할 수 없으면 에러 대신 빈 트렌드 목록을 반환합니다.
func (uc *GenerationUseCase) TrendingKeywords(ctx context.Context) (entity.TrendReport, error) {
	resp, err := uc.model.GenerateText(ctx, repository.TextRequest{
		Model:        uc.models.Search,
		Prompt:       trendingPrompt,
		GoogleSearch: true,
	})
	if err != nil {
		return entity.TrendReport{}, err
	}

	report := entity.FallbackTrendReport()
	if resp == nil {
		return report, nil
	}
	if len(resp.Sources) > 0 {
		report.Sources = resp.Sources
	}

	text := resp.Text
	if strings.TrimSpace(text) == "" {
		text = "[]"
	}
	var trends []entity.Trend
	if err := decodeJSON(text, &trends); err != nil {
		uc.logger.Warn("트렌드 응답 파싱 실패, 빈 목록으로 대체", zap.Error(err))
		return report, nil
	}
	if trends != nil {
		report.Trends = trends
	}
	return report, nil
}

// ViralHooks는 헤드라인 후보 목록을 생성합니다.
func (uc *GenerationUseCase) ViralHooks(ctx context.Context) ([]string, error) {
	resp, err := uc.generateText(ctx, repository.TextRequest{
		Prompt: viralHooksPrompt,
		Schema: repository.SchemaStringArray,
	})
	if err != nil {
		return nil, err
	}

	var hooks []string
	if err := decodeJSON(resp.Text, &hooks); err != nil {
		return nil, parseFailure("viral hooks", err)
	}
	return hooks, nil
}
