package orchestrator

import "context"

// run은 결과 집합 하나를 채우는 진행 중 작업입니다.
type run struct {
	cancel context.CancelFunc
}

// beginRun은 slot의 이전 작업을 취소하고 bump로 새 번호를 발급받은 뒤
// 그 번호에 묶인 하위 컨텍스트를 돌려줍니다. 작업이 끝나면 done을 호출해야 합니다.
func (o *Orchestrator) beginRun(ctx context.Context, slot **run, bump func() uint64) (context.Context, uint64, func()) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if *slot != nil {
		(*slot).cancel()
	}
	runCtx, cancel := context.WithCancel(ctx)
	r := &run{cancel: cancel}
	*slot = r
	version := bump()

	done := func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		r.cancel()
		if *slot == r {
			*slot = nil
		}
	}
	return runCtx, version, done
}

// superseded는 상위 컨텍스트는 살아 있고 작업만 새 작업에 밀려 취소되었는지 확인합니다.
func superseded(parent, runCtx context.Context) bool {
	return parent.Err() == nil && runCtx.Err() != nil
}
