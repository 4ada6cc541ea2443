package orchestrator

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/AX07/cryptoax07-visual-generator/internal/domain/entity"
	"github.com/AX07/cryptoax07-visual-generator/internal/domain/platform"
)

const defaultContentTitle = "Generated Content"

// SaveDesign 완성된 디자인 이미지를 캘린더에 staged 상태로 저장합니다.
func (o *Orchestrator) SaveDesign(id int) (entity.CalendarItem, error) {
	result, ok := o.store.GenerationResult(id)
	if !ok {
		return entity.CalendarItem{}, ErrNotFound
	}
	if result.Image.Loading || result.Image.ImageURL == "" {
		return entity.CalendarItem{}, ErrNotReady
	}
	return o.store.AddCalendarItem(entity.CalendarDraft{
		Type:     entity.CalendarItemImage,
		Content:  result.Image.ImageURL,
		Title:    result.Design.Headline,
		Platform: platform.Instagram,
	})
}

// SaveSlide 완성된 슬라이드 하나를 저장합니다.
func (o *Orchestrator) SaveSlide(slideID int) (entity.CalendarItem, error) {
	design, slides, _ := o.store.Carousel()
	slide, ok := lo.Find(slides, func(s entity.CarouselSlide) bool { return s.ID == slideID })
	if design == nil || !ok {
		return entity.CalendarItem{}, ErrNotFound
	}
	if !slideReady(slide) {
		return entity.CalendarItem{}, ErrNotReady
	}
	return o.store.AddCalendarItem(slideDraft(*design, slide))
}

// SaveAllSlides 이미지가 완성된 슬라이드만 저장합니다.
func (o *Orchestrator) SaveAllSlides() ([]entity.CalendarItem, error) {
	design, slides, _ := o.store.Carousel()
	if design == nil {
		return nil, ErrNotFound
	}
	saved := make([]entity.CalendarItem, 0, len(slides))
	for _, slide := range lo.Filter(slides, func(s entity.CarouselSlide, _ int) bool { return slideReady(s) }) {
		item, err := o.store.AddCalendarItem(slideDraft(*design, slide))
		if err != nil {
			return saved, err
		}
		saved = append(saved, item)
	}
	return saved, nil
}

// SaveContent 작성한 글을 저장합니다. 주제가 비어 있으면 기본 제목을 사용합니다.
func (o *Orchestrator) SaveContent(topic, platformName, content string) (entity.CalendarItem, error) {
	if content == "" {
		return entity.CalendarItem{}, ErrInvalidInput
	}
	title := topic
	if title == "" {
		title = defaultContentTitle
	}
	return o.store.AddCalendarItem(entity.CalendarDraft{
		Type:     entity.CalendarItemText,
		Content:  content,
		Title:    title,
		Platform: platformName,
	})
}

func slideReady(s entity.CarouselSlide) bool {
	return s.ImageURL != "" && !s.Loading
}

func slideDraft(design entity.DesignPrompt, slide entity.CarouselSlide) entity.CalendarDraft {
	return entity.CalendarDraft{
		Type:     entity.CalendarItemImage,
		Content:  slide.ImageURL,
		Title:    fmt.Sprintf("%s - Slide %d", design.Headline, slide.ID+1),
		Platform: platform.Instagram,
	}
}
