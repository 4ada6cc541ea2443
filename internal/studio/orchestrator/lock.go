package orchestrator

import (
	"sync"

	"golang.org/x/sync/semaphore"
)

// keyLock은 항목 키(예: "design:3:1")별로 동시에 하나의 생성 작업만 허용합니다.
// 키에는 배치 번호가 들어가므로 해제된 키는 바로 정리합니다.
type keyLock struct {
	mu   sync.Mutex
	sems map[string]*semaphore.Weighted
}

func newKeyLock() *keyLock {
	return &keyLock{sems: make(map[string]*semaphore.Weighted)}
}

func (l *keyLock) TryAcquire(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	sem, ok := l.sems[key]
	if !ok {
		sem = semaphore.NewWeighted(1)
		l.sems[key] = sem
	}
	return sem.TryAcquire(1)
}

func (l *keyLock) Release(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if sem, ok := l.sems[key]; ok {
		sem.Release(1)
		delete(l.sems, key)
	}
}

// held 잡혀 있는 키 수
func (l *keyLock) held() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.sems)
}
