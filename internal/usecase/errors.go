package usecase

import (
	apperrors "github.com/AX07/cryptoax07-visual-generator/pkg/errors"
)

// 프록시 응답 메시지
const (
	msgMissingAPIKey = "Server configuration error: GEMINI_API_KEY is missing."
	msgInvalidAction = "Invalid action"
	msgNoResponse    = "No response from Gemini"
	msgNoImageData   = "No image data found"
	msgTimeout       = "Timeout"
)

// 에러 타입 정의
var (
	ErrMissingAPIKey = apperrors.NewAppError(apperrors.ErrConfiguration, msgMissingAPIKey, nil)
	ErrInvalidAction = apperrors.NewAppError(apperrors.ErrUnknownAction, msgInvalidAction, nil)
	ErrNoResponse    = apperrors.NewAppError(apperrors.ErrInvalidResponse, msgNoResponse, nil)
	ErrNoImageData   = apperrors.New(msgNoImageData)
	ErrImageTimeout  = apperrors.New(msgTimeout)
)

func invalidPayload(err error) error {
	return apperrors.NewAppError(apperrors.ErrInvalidArgument, "Invalid payload", err)
}

func parseFailure(what string, err error) error {
	return apperrors.NewAppError(apperrors.ErrInvalidResponse, "Failed to parse "+what, err)
}
