// Package sequencer는 작업을 하나씩 순서대로 실행하고 작업 사이에 고정 지연을 둡니다.
// 이미지 생성 API의 호출 빈도 제한을 맞추기 위해 사용합니다.
package sequencer

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Task 순차 실행 단위
type Task struct {
	ID   string
	Work func(ctx context.Context) error
}

// Result 작업 실행 결과
type Result struct {
	ID  string
	Err error
}

// Sequencer 순차 실행기
type Sequencer struct {
	delay  time.Duration
	logger *zap.Logger
}

// Option Sequencer 옵션
type Option func(*Sequencer)

// WithLogger 로거를 설정합니다.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Sequencer) { s.logger = logger }
}

// New는 작업 사이에 delay를 두는 Sequencer를 생성합니다.
func New(delay time.Duration, opts ...Option) *Sequencer {
	s := &Sequencer{delay: delay, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run은 tasks를 순서대로 실행합니다. 실패한 작업이 있어도 다음 작업을 계속 진행하며,
// 지연은 작업 사이에만 적용됩니다. ctx가 취소되면 남은 작업을 실행하지 않고
// 그때까지의 결과와 ctx.Err()를 반환합니다.
func (s *Sequencer) Run(ctx context.Context, tasks []Task) ([]Result, error) {
	results := make([]Result, 0, len(tasks))
	for i, task := range tasks {
		if i > 0 {
			if err := sleep(ctx, s.delay); err != nil {
				return results, err
			}
		}
		if err := ctx.Err(); err != nil {
			return results, err
		}

		err := task.Work(ctx)
		if err != nil {
			s.logger.Warn("sequenced task failed",
				zap.String("task", task.ID),
				zap.Int("index", i),
				zap.Error(err),
			)
		}
		results = append(results, Result{ID: task.ID, Err: err})
	}
	return results, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
