package session

import (
	"fmt"

	apperrors "github.com/AX07/cryptoax07-visual-generator/pkg/errors"
)

// 에러 타입 정의
var (
	ErrNotFound    = apperrors.NewAppError(apperrors.ErrNotFound, "Item not found", nil)
	ErrClosed      = apperrors.NewAppError(apperrors.ErrConflict, "Session closed", nil)
	ErrInvalidDate = apperrors.NewAppError(apperrors.ErrInvalidArgument, "Invalid scheduled date", nil)
)

func invalidDate(err error) error {
	return fmt.Errorf("%w: %w", ErrInvalidDate, err)
}
