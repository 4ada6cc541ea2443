package errors

import "net/http"

// 코드별 HTTP 상태 매핑 테이블
// 생성형 서비스 관련 실패는 프록시 계약에 따라 모두 500으로 응답합니다.
var codeMapping = map[string]int{
	ErrInternal:        http.StatusInternalServerError,
	ErrNotFound:        http.StatusNotFound,
	ErrInvalidArgument: http.StatusBadRequest,
	ErrConflict:        http.StatusConflict,
	ErrTimeout:         http.StatusGatewayTimeout,
	ErrNotImplemented:  http.StatusNotImplemented,
	ErrConfiguration:   http.StatusInternalServerError,
	ErrInvalidResponse: http.StatusInternalServerError,
	ErrUpstream:        http.StatusInternalServerError,
	ErrUnknownAction:   http.StatusBadRequest,
}

// GetCodeMapping은 에러 코드에 대응하는 HTTP 상태 코드를 반환합니다
func GetCodeMapping(code string) int {
	if status, ok := codeMapping[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
