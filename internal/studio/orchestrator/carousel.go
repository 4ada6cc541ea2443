package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/AX07/cryptoax07-visual-generator/internal/domain/entity"
	"github.com/AX07/cryptoax07-visual-generator/internal/studio/sequencer"
)

// fallbackSlidePrompt는 스타일 고정 프롬프트가 없을 때 사용하는 슬라이드 프롬프트입니다.
func fallbackSlidePrompt(design entity.DesignPrompt, text string) string {
	return fmt.Sprintf("%s Text: '%s'", design.FullPrompt, text)
}

// StartCarousel은 designID 디자인을 기준으로 캐러셀을 시작하고 슬라이드 문구를 채웁니다.
// 스크립트 생성에 실패하면 슬라이드는 빈 상태로 남습니다.
func (o *Orchestrator) StartCarousel(ctx context.Context, designID int) ([]entity.CarouselSlide, error) {
	result, ok := o.store.GenerationResult(designID)
	if !ok {
		return nil, ErrNotFound
	}

	runCtx, version, done := o.beginRun(ctx, &o.carouselRun, func() uint64 {
		return o.store.StartCarousel(result.Design)
	})
	defer done()

	texts, err := o.gen.CarouselScript(runCtx, result.Design.Headline)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err != nil {
		return nil, wrap(ErrScriptGenerationFailed, err)
	}

	slides := entity.SeedSlides(texts)
	o.store.SetSlides(version, slides)
	return slides, nil
}

// EditSlideText 슬라이드 문구를 수정합니다.
func (o *Orchestrator) EditSlideText(slideID int, text string) error {
	_, _, version := o.store.Carousel()
	ok := o.store.UpdateSlide(version, slideID, func(s entity.CarouselSlide) entity.CarouselSlide {
		s.Text = text
		return s
	})
	if !ok {
		return ErrNotFound
	}
	return nil
}

// GenerateCarousel은 모든 슬라이드를 로딩 상태로 바꾸고, 스타일 고정 프롬프트를 받은 뒤
// 슬라이드 이미지를 순서대로 생성합니다. 프롬프트를 받지 못한 슬라이드는
// 기준 디자인 프롬프트에 슬라이드 문구를 붙여 사용합니다.
func (o *Orchestrator) GenerateCarousel(ctx context.Context) error {
	if design, slides, _ := o.store.Carousel(); design == nil || len(slides) == 0 {
		return ErrNotFound
	}

	runCtx, version, done := o.beginRun(ctx, &o.carouselRun, o.store.RestartCarousel)
	defer done()

	if !o.store.UpdateAllSlides(version, func(s entity.CarouselSlide) entity.CarouselSlide {
		s.Loading = true
		return s
	}) {
		return nil
	}
	design, slides, current := o.store.Carousel()
	if current != version || design == nil {
		return nil
	}

	prompts, err := o.gen.CarouselPrompts(runCtx, design.Breakdown, lo.Map(slides, func(s entity.CarouselSlide, _ int) entity.SlideText {
		return entity.SlideText{ID: s.ID, Text: s.Text}
	}))
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if runCtx.Err() != nil {
		o.logger.Info("carousel render superseded", zap.Uint64("carousel", version))
		return nil
	}
	if err != nil {
		o.logger.Warn("style lock failed, using fallback prompts", zap.Error(wrap(ErrStyleLockFailed, err)))
		prompts = nil
	}

	tasks := make([]sequencer.Task, 0, len(slides))
	for i, slide := range slides {
		prompt := fallbackSlidePrompt(*design, slide.Text)
		if i < len(prompts) && strings.TrimSpace(prompts[i]) != "" {
			prompt = prompts[i]
		}
		slideID := slide.ID
		tasks = append(tasks, sequencer.Task{ID: slideKey(version, slideID), Work: func(ctx context.Context) error {
			return o.renderSlide(ctx, version, slideID, prompt)
		}})
	}

	if _, err := o.seq.Run(runCtx, tasks); err != nil {
		if superseded(ctx, runCtx) {
			o.logger.Info("carousel render superseded", zap.Uint64("carousel", version))
			return nil
		}
		return err
	}
	return nil
}

func (o *Orchestrator) renderSlide(ctx context.Context, version uint64, slideID int, prompt string) error {
	key := slideKey(version, slideID)
	if !o.locks.TryAcquire(key) {
		o.logger.Debug("slide busy, skipping batch render", zap.Int("id", slideID))
		return nil
	}
	defer o.locks.Release(key)

	image, err := o.gen.GenerateImage(ctx, prompt)
	if ctx.Err() != nil {
		return ctx.Err()
	}

	o.store.UpdateSlide(version, slideID, func(s entity.CarouselSlide) entity.CarouselSlide {
		s.Loading = false
		s.Prompt = prompt
		if err == nil {
			s.ImageURL = image
		}
		return s
	})
	if err != nil {
		return wrap(ErrImageGenerationFailed, err)
	}
	return nil
}

// RegenerateSlide는 슬라이드 하나의 프롬프트를 새로 받아 이미지를 다시 생성합니다.
// 실패하면 슬라이드는 로딩을 해제하고 기존 이미지를 유지합니다.
func (o *Orchestrator) RegenerateSlide(ctx context.Context, slideID int) error {
	design, slides, version := o.store.Carousel()
	slide, ok := lo.Find(slides, func(s entity.CarouselSlide) bool { return s.ID == slideID })
	if design == nil || !ok {
		return ErrNotFound
	}

	key := slideKey(version, slideID)
	if !o.locks.TryAcquire(key) {
		return ErrItemBusy
	}
	defer o.locks.Release(key)

	setLoading := func(loading bool) {
		o.store.UpdateSlide(version, slideID, func(s entity.CarouselSlide) entity.CarouselSlide {
			s.Loading = loading
			return s
		})
	}
	setLoading(true)

	prompt, err := o.gen.SingleCarouselPrompt(ctx, design.Breakdown, slide.Text)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		setLoading(false)
		return wrap(ErrImageGenerationFailed, err)
	}

	image, err := o.gen.GenerateImage(ctx, prompt)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		setLoading(false)
		return wrap(ErrImageGenerationFailed, err)
	}

	o.store.UpdateSlide(version, slideID, func(s entity.CarouselSlide) entity.CarouselSlide {
		s.ImageURL = image
		s.Prompt = prompt
		s.Loading = false
		return s
	})
	return nil
}
