package orchestrator

import (
	"context"
	"strings"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/AX07/cryptoax07-visual-generator/internal/domain/entity"
	"github.com/AX07/cryptoax07-visual-generator/internal/studio/sequencer"
)

// DefaultItemDelay 이미지 생성 호출 사이의 대기 시간
const DefaultItemDelay = 2 * time.Second

// GenerateDesigns는 헤드라인으로 디자인 3종을 만들고 이미지를 순서대로 생성합니다.
// 프롬프트가 준비되면 세 항목을 모두 로딩 상태로 기록한 뒤, 하나씩 성공 또는 실패로 전이합니다.
// 개별 이미지 실패는 해당 항목에만 기록되고 에러로 반환되지 않습니다.
func (o *Orchestrator) GenerateDesigns(ctx context.Context, headline string) error {
	headline = strings.TrimSpace(headline)
	if headline == "" {
		return ErrInvalidInput
	}

	prompts, err := o.gen.DesignPrompts(ctx, headline)
	if err != nil {
		return wrap(ErrConceptGenerationFailed, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	results := lo.Map(prompts, func(p entity.DesignPrompt, _ int) entity.GenerationResult {
		return entity.NewPendingResult(p)
	})
	runCtx, version, done := o.beginRun(ctx, &o.designRun, func() uint64 {
		return o.store.SetGenerationResults(results)
	})
	defer done()

	o.logger.Info("design batch started",
		zap.String("headline", headline),
		zap.Int("count", len(prompts)),
		zap.Uint64("batch", version),
	)

	tasks := lo.Map(prompts, func(p entity.DesignPrompt, _ int) sequencer.Task {
		return sequencer.Task{ID: designKey(version, p.ID), Work: func(ctx context.Context) error {
			return o.renderDesign(ctx, version, p)
		}}
	})
	if _, err := o.seq.Run(runCtx, tasks); err != nil {
		if superseded(ctx, runCtx) {
			o.logger.Info("design batch superseded", zap.Uint64("batch", version))
			return nil
		}
		return err
	}
	return nil
}

// renderDesign은 배치 항목 하나의 이미지를 생성합니다.
// 같은 항목을 재생성 중이면 그 결과를 우선하고 건너뜁니다.
func (o *Orchestrator) renderDesign(ctx context.Context, version uint64, p entity.DesignPrompt) error {
	key := designKey(version, p.ID)
	if !o.locks.TryAcquire(key) {
		o.logger.Debug("design busy, skipping batch render", zap.Int("id", p.ID))
		return nil
	}
	defer o.locks.Release(key)

	image, err := o.gen.GenerateImage(ctx, p.FullPrompt)
	if ctx.Err() != nil {
		return ctx.Err()
	}

	o.store.UpdateGenerationResultIn(version, p.ID, func(r entity.GenerationResult) entity.GenerationResult {
		if err != nil {
			r.Image = r.Image.Failed(failureMessage(err, msgGenerationFailed))
		} else {
			r.Image = r.Image.Succeeded(image)
		}
		return r
	})
	if err != nil {
		return wrap(ErrImageGenerationFailed, err)
	}
	return nil
}

// RegenerateDesign은 id 항목의 프롬프트를 fullPrompt로 바꾸고 이미지를 다시 생성합니다.
// 다른 항목은 변경하지 않습니다.
func (o *Orchestrator) RegenerateDesign(ctx context.Context, id int, fullPrompt string) error {
	fullPrompt = strings.TrimSpace(fullPrompt)
	if fullPrompt == "" {
		return ErrInvalidInput
	}

	version := o.store.ResultsVersion()
	key := designKey(version, id)
	if !o.locks.TryAcquire(key) {
		return ErrItemBusy
	}
	defer o.locks.Release(key)

	ok := o.store.UpdateGenerationResultIn(version, id, func(r entity.GenerationResult) entity.GenerationResult {
		r.Design.FullPrompt = fullPrompt
		r.Image = r.Image.Pending()
		return r
	})
	if !ok {
		return ErrNotFound
	}

	image, err := o.gen.GenerateImage(ctx, fullPrompt)
	if ctx.Err() != nil {
		return ctx.Err()
	}

	o.store.UpdateGenerationResultIn(version, id, func(r entity.GenerationResult) entity.GenerationResult {
		if err != nil {
			r.Image = r.Image.Failed(failureMessage(err, msgRegenerationFailed))
		} else {
			r.Image = r.Image.Succeeded(image)
		}
		return r
	})
	if err != nil {
		return wrap(ErrImageGenerationFailed, err)
	}
	return nil
}
