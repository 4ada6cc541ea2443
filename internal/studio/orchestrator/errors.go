package orchestrator

import (
	apperrors "github.com/AX07/cryptoax07-visual-generator/pkg/errors"
)

// 사용자에게 표시되는 실패 메시지
const (
	msgAccessDenied       = "Access Denied (403). Check API Key Domain Restrictions."
	msgGenerationFailed   = "Generation Failed"
	msgRegenerationFailed = "Regeneration Failed"
)

// 에러 타입 정의
var (
	ErrInvalidInput            = apperrors.NewAppError(apperrors.ErrInvalidArgument, "Invalid input", nil)
	ErrNotFound                = apperrors.NewAppError(apperrors.ErrNotFound, "Item not found", nil)
	ErrItemBusy                = apperrors.NewAppError(apperrors.ErrConflict, "Item is already being generated", nil)
	ErrNotReady                = apperrors.NewAppError(apperrors.ErrConflict, "Image is not ready", nil)
	ErrConceptGenerationFailed = apperrors.NewAppError(apperrors.ErrUpstream, "Failed to generate concepts", nil)
	ErrScriptGenerationFailed  = apperrors.NewAppError(apperrors.ErrUpstream, "Failed to generate carousel script", nil)
	ErrStyleLockFailed         = apperrors.NewAppError(apperrors.ErrUpstream, "Failed to generate carousel prompts", nil)
	ErrImageGenerationFailed   = apperrors.NewAppError(apperrors.ErrUpstream, "Image generation failed", nil)
	ErrSocialContentFailed     = apperrors.NewAppError(apperrors.ErrUpstream, "Failed to generate content", nil)
	ErrTrendFetchFailed        = apperrors.NewAppError(apperrors.ErrUpstream, "Failed to fetch trends", nil)
	ErrIdeaFetchFailed         = apperrors.NewAppError(apperrors.ErrUpstream, "Failed to fetch ideas", nil)
)
