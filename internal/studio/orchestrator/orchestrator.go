// Package orchestrator는 스튜디오 세션의 생성 흐름을 조율합니다.
// 디자인 3종 생성, 캐러셀 제작, 글 작성, 트렌드 조사, 아이디어 관리를 담당하며
// 결과는 session.Store에 기록합니다.
package orchestrator

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/AX07/cryptoax07-visual-generator/internal/domain/entity"
	"github.com/AX07/cryptoax07-visual-generator/internal/studio/sequencer"
	"github.com/AX07/cryptoax07-visual-generator/internal/studio/session"
)

// Generator는 생성 프록시가 제공하는 action 집합입니다.
type Generator interface {
	DesignPrompts(ctx context.Context, headline string) ([]entity.DesignPrompt, error)
	CarouselScript(ctx context.Context, headline string) ([]string, error)
	CarouselPrompts(ctx context.Context, breakdown entity.Breakdown, slides []entity.SlideText) ([]string, error)
	SingleCarouselPrompt(ctx context.Context, breakdown entity.Breakdown, slideText string) (string, error)
	GenerateImage(ctx context.Context, prompt string) (string, error)
	SocialContent(ctx context.Context, topic, platform string) (string, error)
	RefineContent(ctx context.Context, original, feedback, platform string) (string, error)
	TrendingKeywords(ctx context.Context) (entity.TrendReport, error)
	ViralHooks(ctx context.Context) ([]string, error)
}

// Orchestrator 세션 하나의 생성 흐름 조율기
type Orchestrator struct {
	gen    Generator
	store  *session.Store
	seq    *sequencer.Sequencer
	locks  *keyLock
	logger *zap.Logger

	mu          sync.Mutex
	designRun   *run
	carouselRun *run
}

// Option Orchestrator 옵션
type Option func(*Orchestrator)

// WithSequencer 이미지 순차 실행기를 설정합니다.
func WithSequencer(seq *sequencer.Sequencer) Option {
	return func(o *Orchestrator) { o.seq = seq }
}

// WithLogger 로거를 설정합니다.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) { o.logger = logger }
}

// New는 store에 결과를 기록하는 Orchestrator를 생성합니다.
// 기본 순차 실행기는 이미지 사이에 2초를 기다립니다.
func New(gen Generator, store *session.Store, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		gen:    gen,
		store:  store,
		locks:  newKeyLock(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.seq == nil {
		o.seq = sequencer.New(DefaultItemDelay, sequencer.WithLogger(o.logger))
	}
	return o
}

func designKey(version uint64, id int) string {
	return "design:" + strconv.FormatUint(version, 10) + ":" + strconv.Itoa(id)
}

func slideKey(version uint64, id int) string {
	return "slide:" + strconv.FormatUint(version, 10) + ":" + strconv.Itoa(id)
}

// failureMessage는 이미지 생성 실패를 사용자 메시지로 바꿉니다.
func failureMessage(err error, fallback string) string {
	msg := err.Error()
	if strings.Contains(msg, "403") {
		return msgAccessDenied
	}
	if msg == "" {
		return fallback
	}
	return msg
}

func wrap(sentinel, err error) error {
	return fmt.Errorf("%w: %w", sentinel, err)
}
