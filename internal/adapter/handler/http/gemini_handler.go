package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/AX07/cryptoax07-visual-generator/internal/domain/entity"
	"github.com/AX07/cryptoax07-visual-generator/internal/usecase"
	apperrors "github.com/AX07/cryptoax07-visual-generator/pkg/errors"
)

// GeminiRoute는 생성 프록시 엔드포인트 경로입니다.
const GeminiRoute = "/api/gemini"

// ActionExecutor는 action 단위 생성 요청을 처리합니다.
type ActionExecutor interface {
	Configured() bool
	Execute(ctx context.Context, action string, payload json.RawMessage) (interface{}, error)
}

// actionRequest 프록시 요청 본문
type actionRequest struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload"`
}

// GeminiHandler는 생성형 서비스 프록시 HTTP 핸들러입니다
type GeminiHandler struct {
	executor ActionExecutor
	logger   *zap.Logger
}

// NewGeminiHandler는 새로운 GeminiHandler 인스턴스를 생성합니다
func NewGeminiHandler(executor ActionExecutor, logger *zap.Logger) *GeminiHandler {
	return &GeminiHandler{
		executor: executor,
		logger:   logger,
	}
}

// RegisterRoutes는 Echo 라우터에 핸들러 경로를 등록합니다
func (h *GeminiHandler) RegisterRoutes(e *echo.Echo) {
	e.POST(GeminiRoute, h.Invoke)
	e.Match([]string{
		http.MethodGet, http.MethodPut, http.MethodPatch, http.MethodDelete,
	}, GeminiRoute, h.MethodNotAllowed)
}

// Invoke는 {action, payload} 요청을 생성형 서비스 호출로 전달합니다
// @Summary 생성 action 프록시
// @Description design-prompts, generate-image 등 action별 생성 결과를 반환합니다
// @Tags gemini
// @Accept json
// @Produce json
// @Success 200 {object} interface{}
// @Failure 400 {object} map[string]string
// @Failure 405 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/gemini [post]
func (h *GeminiHandler) Invoke(c echo.Context) error {
	if !h.executor.Configured() {
		h.logger.Error("GEMINI_API_KEY 미설정 상태에서 요청 수신")
		return h.fail(c, "", usecase.ErrMissingAPIKey)
	}

	var req actionRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return h.fail(c, "", apperrors.NewAppError(apperrors.ErrInvalidArgument, "Invalid request body", err))
	}
	if !entity.Action(req.Action).Valid() {
		return h.fail(c, req.Action, usecase.ErrInvalidAction)
	}

	result, err := h.executor.Execute(c.Request().Context(), req.Action, req.Payload)
	if err != nil {
		return h.fail(c, req.Action, err)
	}

	return c.JSON(http.StatusOK, result)
}

// MethodNotAllowed는 POST 이외의 메서드에 405를 반환합니다
func (h *GeminiHandler) MethodNotAllowed(c echo.Context) error {
	return c.JSON(http.StatusMethodNotAllowed, map[string]string{
		"error": "Method not allowed",
	})
}

func (h *GeminiHandler) fail(c echo.Context, action string, err error) error {
	apperrors.LogError(h.logger, err, "생성 action 처리 실패", zap.String("action", action))
	return c.JSON(apperrors.ToHTTPStatus(apperrors.CodeOf(err)), map[string]string{
		"error": err.Error(),
	})
}
