package usecase

import (
	"context"
	"encoding/base64"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/AX07/cryptoax07-visual-generator/internal/domain/repository"
)

const defaultImageMIMEType = "image/png"

// RetryPolicy는 generate-image 재시도 정책입니다.
// maxRetries+1회 시도하며 시도 사이에 BaseDelay * 2^attempt 만큼 대기합니다.
type RetryPolicy struct {
	AttemptTimeout    time.Duration
	BaseDelay         time.Duration
	DefaultMaxRetries int
}

// DefaultRetryPolicy 기본 재시도 정책 (시도당 25초, 2초부터 두 배씩, 재시도 1회)
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		AttemptTimeout:    25 * time.Second,
		BaseDelay:         2 * time.Second,
		DefaultMaxRetries: 1,
	}
}

func (p RetryPolicy) backOff(ctx context.Context, maxRetries int) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.BaseDelay
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxInterval = p.BaseDelay << uint(maxRetries)
	b.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(maxRetries)), ctx)
}

// GenerateImage는 프롬프트로 이미지를 생성하고 data URI를 반환합니다.
// 모든 시도가 실패하면 마지막 에러를 반환합니다.
func (uc *GenerationUseCase) GenerateImage(ctx context.Context, prompt string, maxRetries int) (string, error) {
	if !uc.Configured() {
		return "", ErrMissingAPIKey
	}
	if maxRetries < 0 {
		maxRetries = 0
	}

	attempt := 0
	var dataURI string
	operation := func() error {
		attempt++
		uc.logger.Debug("이미지 생성 시도",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", maxRetries+1),
		)

		uri, err := uc.generateImageOnce(ctx, prompt)
		if err != nil {
			return err
		}
		dataURI = uri
		return nil
	}
	notify := func(err error, wait time.Duration) {
		uc.logger.Warn("이미지 생성 실패, 재시도 대기",
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
	}

	if err := backoff.RetryNotify(operation, uc.retry.backOff(ctx, maxRetries), notify); err != nil {
		uc.logger.Error("이미지 생성 최종 실패", zap.Int("attempts", attempt), zap.Error(err))
		return "", err
	}
	return dataURI, nil
}

// generateImageOnce는 한 번의 시도를 AttemptTimeout과 경쟁시킵니다.
// 하위 호출이 컨텍스트를 무시하더라도 타임아웃 시점에 반환합니다.
func (uc *GenerationUseCase) generateImageOnce(ctx context.Context, prompt string) (string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, uc.retry.AttemptTimeout)
	defer cancel()

	type result struct {
		data *repository.ImageData
		err  error
	}
	done := make(chan result, 1)
	go func() {
		data, err := uc.model.GenerateImage(attemptCtx, repository.ImageRequest{
			Model:  uc.models.Image,
			Prompt: prompt,
		})
		done <- result{data, err}
	}()

	select {
	case <-attemptCtx.Done():
		if ctx.Err() != nil {
			return "", backoff.Permanent(ctx.Err())
		}
		return "", ErrImageTimeout
	case r := <-done:
		if r.err != nil {
			return "", r.err
		}
		if r.data == nil || len(r.data.Data) == 0 {
			return "", ErrNoImageData
		}
		mime := r.data.MIMEType
		if mime == "" {
			mime = defaultImageMIMEType
		}
		return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(r.data.Data), nil
	}
}
