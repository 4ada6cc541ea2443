// Package genclient는 생성 프록시(/api/gemini)를 호출하는 HTTP 클라이언트입니다.
// 모든 action은 Invoke 하나를 거쳐 {action, payload} 형태로 전송됩니다.
package genclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/AX07/cryptoax07-visual-generator/internal/domain/entity"
	apperrors "github.com/AX07/cryptoax07-visual-generator/pkg/errors"
)

// DefaultImageRetries 클라이언트가 generate-image에 기본으로 보내는 재시도 횟수
const DefaultImageRetries = 3

// ErrMalformedResponse 응답 본문을 해석할 수 없는 경우
var ErrMalformedResponse = errors.New("malformed response")

// APIError는 프록시가 2xx 이외의 상태로 응답한 경우입니다.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// Unwrap은 상태 코드에 대응하는 내부 에러 코드를 노출합니다.
func (e *APIError) Unwrap() error {
	return apperrors.FromHTTPStatus(e.StatusCode, e.Message)
}

// Client 생성 프록시 클라이언트
type Client struct {
	endpoint     string
	httpClient   *http.Client
	imageRetries int
	logger       *zap.Logger
}

// Option Client 생성 옵션
type Option func(*Client)

// WithHTTPClient 전송에 사용할 http.Client를 설정합니다.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithImageRetries generate-image 요청의 maxRetries 값을 설정합니다.
func WithImageRetries(n int) Option {
	return func(c *Client) { c.imageRetries = n }
}

// WithLogger 로거를 설정합니다.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New는 endpoint(예: http://localhost:8080/api/gemini)를 호출하는 클라이언트를 만듭니다.
func New(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint:     endpoint,
		httpClient:   &http.Client{Timeout: 3 * time.Minute},
		imageRetries: DefaultImageRetries,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type invokeRequest struct {
	Action  entity.Action `json:"action"`
	Payload interface{}   `json:"payload"`
}

// Invoke는 action과 payload를 전송하고 응답을 out으로 디코딩합니다.
func (c *Client) Invoke(ctx context.Context, action entity.Action, payload interface{}, out interface{}) error {
	if payload == nil {
		payload = struct{}{}
	}
	body, err := json.Marshal(invokeRequest{Action: action, Payload: payload})
	if err != nil {
		return fmt.Errorf("encode %s request: %w", action, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	c.logger.Debug("generation action completed",
		zap.String("action", string(action)),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(resp, raw)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformedResponse, action, err)
	}
	return nil
}

func newAPIError(resp *http.Response, raw []byte) *APIError {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && body.Error != "" {
		return &APIError{StatusCode: resp.StatusCode, Message: body.Error}
	}
	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    "API Error: " + http.StatusText(resp.StatusCode),
	}
}

// DesignPrompts 헤드라인에 대한 디자인 변형 3개
func (c *Client) DesignPrompts(ctx context.Context, headline string) ([]entity.DesignPrompt, error) {
	var prompts []entity.DesignPrompt
	if err := c.Invoke(ctx, entity.ActionDesignPrompts, entity.HeadlinePayload{Headline: headline}, &prompts); err != nil {
		return nil, err
	}
	if len(prompts) != 3 {
		return nil, fmt.Errorf("%w: expected 3 design prompts, got %d", ErrMalformedResponse, len(prompts))
	}
	return prompts, nil
}

// CarouselScript 캐러셀 문구
func (c *Client) CarouselScript(ctx context.Context, headline string) ([]string, error) {
	var texts []string
	err := c.Invoke(ctx, entity.ActionCarouselScript, entity.HeadlinePayload{Headline: headline}, &texts)
	return texts, err
}

// CarouselPrompts 슬라이드별 스타일 고정 프롬프트
func (c *Client) CarouselPrompts(ctx context.Context, breakdown entity.Breakdown, slides []entity.SlideText) ([]string, error) {
	var prompts []string
	err := c.Invoke(ctx, entity.ActionCarouselPrompts, entity.CarouselPromptsPayload{
		Breakdown: breakdown,
		Slides:    slides,
	}, &prompts)
	return prompts, err
}

// SingleCarouselPrompt 슬라이드 하나의 프롬프트
func (c *Client) SingleCarouselPrompt(ctx context.Context, breakdown entity.Breakdown, slideText string) (string, error) {
	var resp entity.PromptResponse
	err := c.Invoke(ctx, entity.ActionSingleCarouselPrompt, entity.SingleCarouselPromptPayload{
		Breakdown: breakdown,
		SlideText: slideText,
	}, &resp)
	return resp.Prompt, err
}

// GenerateImage 설정된 재시도 횟수로 이미지를 생성합니다.
func (c *Client) GenerateImage(ctx context.Context, prompt string) (string, error) {
	return c.GenerateImageWithRetries(ctx, prompt, c.imageRetries)
}

// GenerateImageWithRetries 지정한 maxRetries로 이미지를 생성하고 data URI를 반환합니다.
func (c *Client) GenerateImageWithRetries(ctx context.Context, prompt string, maxRetries int) (string, error) {
	var resp entity.ImageResponse
	err := c.Invoke(ctx, entity.ActionGenerateImage, entity.GenerateImagePayload{
		Prompt:     prompt,
		MaxRetries: &maxRetries,
	}, &resp)
	if err != nil {
		return "", err
	}
	if resp.Image == "" {
		return "", fmt.Errorf("%w: empty image", ErrMalformedResponse)
	}
	return resp.Image, nil
}

// SocialContent 플랫폼 스타일 글 생성
func (c *Client) SocialContent(ctx context.Context, topic, platform string) (string, error) {
	var resp entity.ContentResponse
	err := c.Invoke(ctx, entity.ActionSocialContent, entity.SocialContentPayload{
		Topic:    topic,
		Platform: platform,
	}, &resp)
	return resp.Content, err
}

// RefineContent 피드백 반영 수정
func (c *Client) RefineContent(ctx context.Context, original, feedback, platform string) (string, error) {
	var resp entity.ContentResponse
	err := c.Invoke(ctx, entity.ActionRefineContent, entity.RefineContentPayload{
		OriginalContent: original,
		Feedback:        feedback,
		Platform:        platform,
	}, &resp)
	return resp.Content, err
}

// TrendingKeywords 트렌드 키워드. 응답을 해석할 수 없으면 빈 목록을 반환합니다.
func (c *Client) TrendingKeywords(ctx context.Context) (entity.TrendReport, error) {
	var report entity.TrendReport
	err := c.Invoke(ctx, entity.ActionTrendingKeywords, nil, &report)
	if errors.Is(err, ErrMalformedResponse) {
		c.logger.Warn("trending keywords response unreadable, using fallback", zap.Error(err))
		return entity.FallbackTrendReport(), nil
	}
	if err != nil {
		return entity.TrendReport{}, err
	}
	if report.Trends == nil {
		report.Trends = []entity.Trend{}
	}
	if report.Sources == nil {
		report.Sources = []entity.Source{}
	}
	return report, nil
}

// ViralHooks 헤드라인 후보
func (c *Client) ViralHooks(ctx context.Context) ([]string, error) {
	var hooks []string
	err := c.Invoke(ctx, entity.ActionViralHooks, nil, &hooks)
	return hooks, err
}
