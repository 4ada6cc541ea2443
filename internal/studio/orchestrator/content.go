package orchestrator

import (
	"context"
	"strings"

	"github.com/samber/lo"

	"github.com/AX07/cryptoax07-visual-generator/internal/domain/entity"
)

// WriteContent 주제와 플랫폼으로 글을 작성합니다.
func (o *Orchestrator) WriteContent(ctx context.Context, topic, platform string) (string, error) {
	if strings.TrimSpace(topic) == "" {
		return "", ErrInvalidInput
	}
	content, err := o.gen.SocialContent(ctx, topic, platform)
	if err != nil {
		return "", wrap(ErrSocialContentFailed, err)
	}
	return content, nil
}

// RefineContent 피드백을 반영해 글을 수정합니다.
func (o *Orchestrator) RefineContent(ctx context.Context, original, feedback, platform string) (string, error) {
	if strings.TrimSpace(original) == "" || strings.TrimSpace(feedback) == "" {
		return "", ErrInvalidInput
	}
	content, err := o.gen.RefineContent(ctx, original, feedback, platform)
	if err != nil {
		return "", wrap(ErrSocialContentFailed, err)
	}
	return content, nil
}

// ResearchTrends 트렌드 키워드를 조회합니다.
// 호출에 실패해도 빈 보고서를 함께 반환하므로 화면은 빈 목록으로 그릴 수 있습니다.
func (o *Orchestrator) ResearchTrends(ctx context.Context) (entity.TrendReport, error) {
	report, err := o.gen.TrendingKeywords(ctx)
	if err != nil {
		return entity.FallbackTrendReport(), wrap(ErrTrendFetchFailed, err)
	}
	return report, nil
}

// FreshIdeas 헤드라인 후보 중 이미 승인한 아이디어를 제외해 반환합니다.
func (o *Orchestrator) FreshIdeas(ctx context.Context) ([]string, error) {
	hooks, err := o.gen.ViralHooks(ctx)
	if err != nil {
		return nil, wrap(ErrIdeaFetchFailed, err)
	}
	approved := o.store.ApprovedIdeas()
	return lo.Filter(hooks, func(h string, _ int) bool {
		return !lo.Contains(approved, h)
	}), nil
}

// RunWorkflow 아이디어를 헤드라인으로 디자인 생성을 시작합니다.
func (o *Orchestrator) RunWorkflow(ctx context.Context, idea string) error {
	return o.GenerateDesigns(ctx, idea)
}
