package entity

// CarouselSlideCount는 캐러셀 한 세트의 슬라이드 수입니다.
const CarouselSlideCount = 4

// CarouselSlide는 캐러셀 슬라이드 하나의 상태입니다.
type CarouselSlide struct {
	ID       int    `json:"id"`
	Text     string `json:"text"`
	ImageURL string `json:"imageUrl"`
	Loading  bool   `json:"loading"`
	Prompt   string `json:"prompt,omitempty"`
}

// SlideText는 스타일 고정 프롬프트 요청에 쓰이는 슬라이드 식별자와 문구입니다.
type SlideText struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

// SeedSlides는 스크립트 문구로 초기 슬라이드를 만듭니다. 최대 4장까지만 사용합니다.
func SeedSlides(texts []string) []CarouselSlide {
	if len(texts) > CarouselSlideCount {
		texts = texts[:CarouselSlideCount]
	}
	slides := make([]CarouselSlide, 0, len(texts))
	for i, text := range texts {
		slides = append(slides, CarouselSlide{ID: i, Text: text})
	}
	return slides
}
