package errors

// 공통 에러 코드 정의
const (
	ErrInternal        = "INTERNAL"
	ErrNotFound        = "NOT_FOUND"
	ErrInvalidArgument = "INVALID_ARGUMENT"
	ErrConflict        = "CONFLICT"
	ErrTimeout         = "TIMEOUT"
	ErrNotImplemented  = "NOT_IMPLEMENTED"

	// 생성형 서비스 연동 에러 코드
	ErrConfiguration   = "CONFIGURATION"    // 서버 설정 누락 (API 키 등)
	ErrInvalidResponse = "INVALID_RESPONSE" // 빈 응답 또는 JSON 파싱 실패
	ErrUpstream        = "UPSTREAM"         // 외부 서비스 호출 실패
	ErrUnknownAction   = "UNKNOWN_ACTION"   // 지원하지 않는 action
)
