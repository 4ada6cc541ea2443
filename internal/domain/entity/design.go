package entity

// Breakdown은 이미지 프롬프트를 구성하는 세부 항목입니다.
type Breakdown struct {
	Subject               string `json:"subject"`
	Action                string `json:"action"`
	Environment           string `json:"environment"`
	StyleAndTech          string `json:"styleAndTech"`
	TypographyInstruction string `json:"typographyInstruction"`
}

// DesignPrompt는 헤드라인 하나에 대해 생성되는 디자인 변형입니다.
// ID는 배치 내 순번(1..3)이며 이미지 결과와 짝을 맞추는 데 사용합니다.
type DesignPrompt struct {
	ID         int       `json:"id"`
	Headline   string    `json:"headline"`
	FullPrompt string    `json:"fullPrompt"`
	Breakdown  Breakdown `json:"breakdown"`
}

// GeneratedImage는 DesignPrompt 하나에 대응하는 이미지 생성 상태입니다.
// Loading이 false가 되면 ImageURL과 Error 중 하나만 채워집니다.
type GeneratedImage struct {
	PromptID int    `json:"promptId"`
	ImageURL string `json:"imageUrl"`
	Loading  bool   `json:"loading"`
	Error    string `json:"error,omitempty"`
}

// GenerationResult는 디자인과 이미지의 쌍입니다.
type GenerationResult struct {
	Design DesignPrompt   `json:"design"`
	Image  GeneratedImage `json:"image"`
}

// NewPendingResult는 이미지 생성 대기 상태의 결과를 만듭니다.
func NewPendingResult(design DesignPrompt) GenerationResult {
	return GenerationResult{
		Design: design,
		Image:  GeneratedImage{PromptID: design.ID, Loading: true},
	}
}

// Succeeded는 이미지 생성 성공 상태로 전이합니다.
func (img GeneratedImage) Succeeded(url string) GeneratedImage {
	img.ImageURL = url
	img.Loading = false
	img.Error = ""
	return img
}

// Failed는 이미지 생성 실패 상태로 전이합니다. 기존 이미지는 비웁니다.
func (img GeneratedImage) Failed(message string) GeneratedImage {
	img.ImageURL = ""
	img.Loading = false
	img.Error = message
	return img
}

// Pending은 재생성 요청 시 로딩 상태로 되돌립니다.
func (img GeneratedImage) Pending() GeneratedImage {
	img.Loading = true
	img.Error = ""
	return img
}
