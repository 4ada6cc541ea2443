// Package session은 스튜디오 세션 하나의 작업 상태(디자인 결과, 캐러셀, 캘린더, 아이디어)를 보관합니다.
// 모든 변경은 잠금 아래에서 새 슬라이스로 교체되며, 조회는 복사본을 반환합니다.
package session

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/AX07/cryptoax07-visual-generator/internal/domain/entity"
)

// 변경 대상 컬렉션
const (
	CollectionResults  = "results"
	CollectionCarousel = "carousel"
	CollectionCalendar = "calendar"
	CollectionIdeas    = "ideas"
)

// Change는 Observer에 전달되는 변경 알림입니다.
type Change struct {
	Collection string `json:"collection"`
	Op         string `json:"op"`
	ID         string `json:"id,omitempty"`
}

// Observer 변경 알림 콜백. 잠금 밖에서 호출됩니다.
type Observer func(Change)

// Store 세션 상태 저장소
type Store struct {
	mu sync.RWMutex

	results        []entity.GenerationResult
	resultsVersion uint64

	carouselDesign  *entity.DesignPrompt
	slides          []entity.CarouselSlide
	carouselVersion uint64

	calendar      []entity.CalendarItem
	lastCreatedAt int64

	ideas []string

	closed    bool
	now       func() time.Time
	observers []Observer
}

// Option Store 옵션
type Option func(*Store)

// WithClock 시각 함수를 교체합니다.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithObserver 변경 알림 콜백을 등록합니다.
func WithObserver(o Observer) Option {
	return func(s *Store) { s.observers = append(s.observers, o) }
}

// NewStore 빈 저장소를 생성합니다.
func NewStore(opts ...Option) *Store {
	s := &Store{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Close 이후의 모든 변경은 무시됩니다. 조회는 계속 가능합니다.
func (s *Store) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

// Closed 종료 여부
func (s *Store) Closed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

func (s *Store) notify(c Change) {
	for _, o := range s.observers {
		o(c)
	}
}

// mutate는 잠금 아래에서 fn을 실행하고, 변경이 있었으면 잠금 해제 후 알림을 보냅니다.
func (s *Store) mutate(fn func() (Change, bool)) bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	change, changed := fn()
	s.mu.Unlock()

	if changed {
		s.notify(change)
	}
	return changed
}

// ---------------------------------------------------------------------------
// 디자인 결과
// ---------------------------------------------------------------------------

// GenerationResults 현재 배치의 결과 복사본
func (s *Store) GenerationResults() []entity.GenerationResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entity.GenerationResult(nil), s.results...)
}

// GenerationResult id에 해당하는 결과
func (s *Store) GenerationResult(id int) (entity.GenerationResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lo.Find(s.results, func(r entity.GenerationResult) bool { return r.Design.ID == id })
}

// ResultsVersion 현재 배치 번호. SetGenerationResults마다 증가합니다.
func (s *Store) ResultsVersion() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resultsVersion
}

// SetGenerationResults 결과 목록 전체를 교체하고 새 배치 번호를 반환합니다.
func (s *Store) SetGenerationResults(results []entity.GenerationResult) uint64 {
	var version uint64
	s.mutate(func() (Change, bool) {
		s.results = append([]entity.GenerationResult(nil), results...)
		s.resultsVersion++
		version = s.resultsVersion
		return Change{Collection: CollectionResults, Op: "replace"}, true
	})
	return version
}

// UpdateGenerationResult id 항목에 fn을 적용합니다. 배치와 무관하게 현재 목록을 대상으로 합니다.
func (s *Store) UpdateGenerationResult(id int, fn func(entity.GenerationResult) entity.GenerationResult) bool {
	return s.updateResult(0, false, id, fn)
}

// UpdateGenerationResultIn version 배치가 아직 현재 배치일 때만 fn을 적용합니다.
func (s *Store) UpdateGenerationResultIn(version uint64, id int, fn func(entity.GenerationResult) entity.GenerationResult) bool {
	return s.updateResult(version, true, id, fn)
}

func (s *Store) updateResult(version uint64, pinned bool, id int, fn func(entity.GenerationResult) entity.GenerationResult) bool {
	return s.mutate(func() (Change, bool) {
		if pinned && version != s.resultsVersion {
			return Change{}, false
		}
		_, idx, ok := lo.FindIndexOf(s.results, func(r entity.GenerationResult) bool { return r.Design.ID == id })
		if !ok {
			return Change{}, false
		}
		next := append([]entity.GenerationResult(nil), s.results...)
		next[idx] = fn(next[idx])
		s.results = next
		return Change{Collection: CollectionResults, Op: "update", ID: strconv.Itoa(id)}, true
	})
}

// ---------------------------------------------------------------------------
// 캐러셀
// ---------------------------------------------------------------------------

// Carousel 현재 캐러셀의 기준 디자인과 슬라이드 복사본
func (s *Store) Carousel() (*entity.DesignPrompt, []entity.CarouselSlide, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var design *entity.DesignPrompt
	if s.carouselDesign != nil {
		d := *s.carouselDesign
		design = &d
	}
	return design, append([]entity.CarouselSlide(nil), s.slides...), s.carouselVersion
}

// Slides 슬라이드 복사본
func (s *Store) Slides() []entity.CarouselSlide {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entity.CarouselSlide(nil), s.slides...)
}

// StartCarousel 기준 디자인을 지정하고 슬라이드를 비운 뒤 새 캐러셀 번호를 반환합니다.
func (s *Store) StartCarousel(design entity.DesignPrompt) uint64 {
	var version uint64
	s.mutate(func() (Change, bool) {
		s.carouselDesign = &design
		s.slides = nil
		s.carouselVersion++
		version = s.carouselVersion
		return Change{Collection: CollectionCarousel, Op: "start", ID: strconv.Itoa(design.ID)}, true
	})
	return version
}

// RestartCarousel 기준 디자인과 슬라이드는 그대로 두고 캐러셀 번호만 올립니다.
// 이전 번호로 진행 중인 갱신은 이후 반영되지 않습니다.
func (s *Store) RestartCarousel() uint64 {
	var version uint64
	s.mutate(func() (Change, bool) {
		if s.carouselDesign != nil {
			s.carouselVersion++
		}
		version = s.carouselVersion
		return Change{Collection: CollectionCarousel, Op: "restart"}, s.carouselDesign != nil
	})
	return version
}

// SetSlides version 캐러셀이 현재일 때 슬라이드를 교체합니다.
func (s *Store) SetSlides(version uint64, slides []entity.CarouselSlide) bool {
	return s.mutate(func() (Change, bool) {
		if version != s.carouselVersion {
			return Change{}, false
		}
		s.slides = append([]entity.CarouselSlide(nil), slides...)
		return Change{Collection: CollectionCarousel, Op: "replace"}, true
	})
}

// UpdateSlide version 캐러셀의 id 슬라이드에 fn을 적용합니다.
func (s *Store) UpdateSlide(version uint64, id int, fn func(entity.CarouselSlide) entity.CarouselSlide) bool {
	return s.mutate(func() (Change, bool) {
		if version != s.carouselVersion {
			return Change{}, false
		}
		_, idx, ok := lo.FindIndexOf(s.slides, func(sl entity.CarouselSlide) bool { return sl.ID == id })
		if !ok {
			return Change{}, false
		}
		next := append([]entity.CarouselSlide(nil), s.slides...)
		next[idx] = fn(next[idx])
		s.slides = next
		return Change{Collection: CollectionCarousel, Op: "update", ID: strconv.Itoa(id)}, true
	})
}

// UpdateAllSlides version 캐러셀의 모든 슬라이드에 fn을 적용합니다.
func (s *Store) UpdateAllSlides(version uint64, fn func(entity.CarouselSlide) entity.CarouselSlide) bool {
	return s.mutate(func() (Change, bool) {
		if version != s.carouselVersion || len(s.slides) == 0 {
			return Change{}, false
		}
		s.slides = lo.Map(s.slides, func(sl entity.CarouselSlide, _ int) entity.CarouselSlide { return fn(sl) })
		return Change{Collection: CollectionCarousel, Op: "update"}, true
	})
}

// ---------------------------------------------------------------------------
// 캘린더
// ---------------------------------------------------------------------------

// CalendarItems 전체 항목 복사본(최신 항목이 앞)
func (s *Store) CalendarItems() []entity.CalendarItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entity.CalendarItem(nil), s.calendar...)
}

// AddCalendarItem 새 ID와 생성 시각을 부여해 항목을 맨 앞에 추가합니다.
// createdAt은 밀리초이며 이전 항목보다 작아지지 않습니다.
func (s *Store) AddCalendarItem(draft entity.CalendarDraft) (entity.CalendarItem, error) {
	if draft.ScheduledDate != "" {
		if err := entity.ValidateDate(draft.ScheduledDate); err != nil {
			return entity.CalendarItem{}, invalidDate(err)
		}
	}

	var item entity.CalendarItem
	ok := s.mutate(func() (Change, bool) {
		createdAt := s.now().UnixMilli()
		if createdAt < s.lastCreatedAt {
			createdAt = s.lastCreatedAt
		}
		s.lastCreatedAt = createdAt

		item = entity.CalendarItem{
			ID:            uuid.Must(uuid.NewV7()).String(),
			Type:          draft.Type,
			Content:       draft.Content,
			Title:         draft.Title,
			Platform:      draft.Platform,
			ScheduledDate: draft.ScheduledDate,
			CreatedAt:     createdAt,
		}
		s.calendar = append([]entity.CalendarItem{item}, s.calendar...)
		return Change{Collection: CollectionCalendar, Op: "add", ID: item.ID}, true
	})
	if !ok {
		return entity.CalendarItem{}, ErrClosed
	}
	return item, nil
}

// UpdateCalendarItem id가 같은 항목을 교체합니다. ID와 createdAt은 유지됩니다.
func (s *Store) UpdateCalendarItem(item entity.CalendarItem) error {
	if item.ScheduledDate != "" {
		if err := entity.ValidateDate(item.ScheduledDate); err != nil {
			return invalidDate(err)
		}
	}
	return s.updateCalendar(item.ID, func(cur entity.CalendarItem) entity.CalendarItem {
		item.CreatedAt = cur.CreatedAt
		return item
	})
}

// Schedule 항목에 날짜를 지정합니다.
func (s *Store) Schedule(id, date string) error {
	if err := entity.ValidateDate(date); err != nil {
		return invalidDate(err)
	}
	return s.updateCalendar(id, func(cur entity.CalendarItem) entity.CalendarItem {
		cur.ScheduledDate = date
		return cur
	})
}

// Unschedule 항목을 staged 상태로 되돌립니다.
func (s *Store) Unschedule(id string) error {
	return s.updateCalendar(id, func(cur entity.CalendarItem) entity.CalendarItem {
		cur.ScheduledDate = ""
		return cur
	})
}

func (s *Store) updateCalendar(id string, fn func(entity.CalendarItem) entity.CalendarItem) error {
	found := false
	ok := s.mutate(func() (Change, bool) {
		_, idx, exists := lo.FindIndexOf(s.calendar, func(i entity.CalendarItem) bool { return i.ID == id })
		if !exists {
			return Change{}, false
		}
		found = true
		next := append([]entity.CalendarItem(nil), s.calendar...)
		next[idx] = fn(next[idx])
		s.calendar = next
		return Change{Collection: CollectionCalendar, Op: "update", ID: id}, true
	})
	if ok {
		return nil
	}
	if !found && !s.Closed() {
		return ErrNotFound
	}
	return ErrClosed
}

// DeleteCalendarItem 항목을 삭제합니다. 없는 ID는 무시합니다.
func (s *Store) DeleteCalendarItem(id string) {
	s.mutate(func() (Change, bool) {
		next := lo.Reject(s.calendar, func(i entity.CalendarItem, _ int) bool { return i.ID == id })
		if len(next) == len(s.calendar) {
			return Change{}, false
		}
		s.calendar = next
		return Change{Collection: CollectionCalendar, Op: "delete", ID: id}, true
	})
}

// Staged 날짜가 없는 항목
func (s *Store) Staged() []entity.CalendarItem {
	return lo.Filter(s.CalendarItems(), func(i entity.CalendarItem, _ int) bool { return i.Staged() })
}

// Scheduled 날짜가 지정된 항목
func (s *Store) Scheduled() []entity.CalendarItem {
	return lo.Reject(s.CalendarItems(), func(i entity.CalendarItem, _ int) bool { return i.Staged() })
}

// OnDate date(YYYY-MM-DD)에 예약된 항목
func (s *Store) OnDate(date string) []entity.CalendarItem {
	return lo.Filter(s.CalendarItems(), func(i entity.CalendarItem, _ int) bool { return i.ScheduledDate == date })
}

// CompletedTitles 캘린더에 저장된 항목 제목
func (s *Store) CompletedTitles() []string {
	return lo.Map(s.CalendarItems(), func(i entity.CalendarItem, _ int) string { return i.Title })
}

// ---------------------------------------------------------------------------
// 아이디어
// ---------------------------------------------------------------------------

// ApprovedIdeas 승인된 아이디어 복사본
func (s *Store) ApprovedIdeas() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.ideas...)
}

// ApproveIdea 아이디어를 목록 끝에 추가합니다. 중복은 확인하지 않습니다.
func (s *Store) ApproveIdea(text string) bool {
	return s.mutate(func() (Change, bool) {
		if text == "" {
			return Change{}, false
		}
		s.ideas = append(append([]string(nil), s.ideas...), text)
		return Change{Collection: CollectionIdeas, Op: "add"}, true
	})
}

// DismissIdea 같은 텍스트의 아이디어를 모두 제거합니다.
func (s *Store) DismissIdea(text string) bool {
	return s.mutate(func() (Change, bool) {
		next := lo.Without(s.ideas, text)
		if len(next) == len(s.ideas) {
			return Change{}, false
		}
		s.ideas = next
		return Change{Collection: CollectionIdeas, Op: "delete"}, true
	})
}

// IsIdeaCompleted 캘린더 제목 중 아이디어와 같거나 아이디어를 포함하는 것이 있는지 확인합니다.
func (s *Store) IsIdeaCompleted(idea string) bool {
	if idea == "" {
		return false
	}
	return lo.ContainsBy(s.CompletedTitles(), func(title string) bool {
		return title == idea || strings.Contains(title, idea)
	})
}
