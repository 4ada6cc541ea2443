package entity

// Action은 프록시가 처리하는 생성 작업 이름입니다.
type Action string

const (
	ActionDesignPrompts        Action = "design-prompts"
	ActionCarouselScript       Action = "carousel-script"
	ActionCarouselPrompts      Action = "carousel-prompts"
	ActionSingleCarouselPrompt Action = "single-carousel-prompt"
	ActionGenerateImage        Action = "generate-image"
	ActionSocialContent        Action = "social-content"
	ActionRefineContent        Action = "refine-content"
	ActionTrendingKeywords     Action = "trending-keywords"
	ActionViralHooks           Action = "viral-hooks"
)

// Valid는 알려진 action인지 확인합니다.
func (a Action) Valid() bool {
	switch a {
	case ActionDesignPrompts, ActionCarouselScript, ActionCarouselPrompts,
		ActionSingleCarouselPrompt, ActionGenerateImage, ActionSocialContent,
		ActionRefineContent, ActionTrendingKeywords, ActionViralHooks:
		return true
	}
	return false
}

// 액션별 요청 페이로드

type HeadlinePayload struct {
	Headline string `json:"headline" validate:"required"`
}

type CarouselPromptsPayload struct {
	Breakdown Breakdown   `json:"breakdown"`
	Slides    []SlideText `json:"slides" validate:"required,min=1,dive"`
}

type SingleCarouselPromptPayload struct {
	Breakdown Breakdown `json:"breakdown"`
	SlideText string    `json:"slideText" validate:"required"`
}

type GenerateImagePayload struct {
	Prompt     string `json:"prompt" validate:"required"`
	MaxRetries *int   `json:"maxRetries,omitempty" validate:"omitempty,min=0,max=5"`
}

type SocialContentPayload struct {
	Topic    string `json:"topic" validate:"required"`
	Platform string `json:"platform"`
}

type RefineContentPayload struct {
	OriginalContent string `json:"originalContent" validate:"required"`
	Feedback        string `json:"feedback" validate:"required"`
	Platform        string `json:"platform"`
}

// 액션별 응답

type PromptResponse struct {
	Prompt string `json:"prompt"`
}

type ImageResponse struct {
	Image string `json:"image"`
}

type ContentResponse struct {
	Content string `json:"content"`
}
