package repository

import (
	"context"

	"github.com/AX07/cryptoax07-visual-generator/internal/domain/entity"
)

// ResponseSchema는 구조화 응답에 사용할 스키마 종류입니다.
type ResponseSchema int

const (
	// SchemaNone 자유 텍스트 응답
	SchemaNone ResponseSchema = iota
	// SchemaStringArray 문자열 배열 JSON
	SchemaStringArray
	// SchemaDesignPrompts id, breakdown, fullPrompt 객체 배열 JSON
	SchemaDesignPrompts
)

// TextRequest 텍스트 생성 요청
type TextRequest struct {
	Model             string
	SystemInstruction string
	Prompt            string
	Schema            ResponseSchema
	// GoogleSearch가 true면 웹 검색 그라운딩을 사용합니다.
	GoogleSearch bool
}

// TextResponse 텍스트 생성 결과. Sources는 검색 그라운딩을 사용한 경우에만 채워집니다.
type TextResponse struct {
	Text    string
	Sources []entity.Source
}

// ImageRequest 이미지 생성 요청
type ImageRequest struct {
	Model  string
	Prompt string
}

// ImageData 생성된 이미지 바이너리. Data가 비어 있으면 이미지가 반환되지 않은 것입니다.
type ImageData struct {
	MIMEType string
	Data     []byte
}

// GenerativeModel은 외부 생성형 AI 서비스에 대한 추상화입니다.
type GenerativeModel interface {
	GenerateText(ctx context.Context, req TextRequest) (*TextResponse, error)
	GenerateImage(ctx context.Context, req ImageRequest) (*ImageData, error)
}
