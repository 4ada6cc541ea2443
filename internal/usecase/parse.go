package usecase

import (
	"encoding/json"
	"regexp"
	"strings"
)

// 모델이 JSON을 ```json ... ``` 로 감싸 반환하는 경우가 있습니다.
var codeFence = regexp.MustCompile("```json\\n?|\\n?```")

// cleanJSON은 코드 펜스를 제거하고 앞뒤 공백을 정리합니다.
func cleanJSON(text string) string {
	return strings.TrimSpace(codeFence.ReplaceAllString(text, ""))
}

// decodeJSON은 펜스를 제거한 뒤 v로 디코딩합니다.
func decodeJSON(text string, v interface{}) error {
	return json.Unmarshal([]byte(cleanJSON(text)), v)
}
