package orchestrator_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/AX07/cryptoax07-visual-generator/internal/domain/entity"
	"github.com/AX07/cryptoax07-visual-generator/internal/studio/orchestrator"
	"github.com/AX07/cryptoax07-visual-generator/internal/studio/sequencer"
	"github.com/AX07/cryptoax07-visual-generator/internal/studio/session"
)

// MockGenerator is a mock implementation of orchestrator.Generator
type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) DesignPrompts(ctx context.Context, headline string) ([]entity.DesignPrompt, error) {
	args := m.Called(ctx, headline)
	prompts, _ := args.Get(0).([]entity.DesignPrompt)
	return prompts, args.Error(1)
}

func (m *MockGenerator) CarouselScript(ctx context.Context, headline string) ([]string, error) {
	args := m.Called(ctx, headline)
	texts, _ := args.Get(0).([]string)
	return texts, args.Error(1)
}

func (m *MockGenerator) CarouselPrompts(ctx context.Context, breakdown entity.Breakdown, slides []entity.SlideText) ([]string, error) {
	args := m.Called(ctx, breakdown, slides)
	prompts, _ := args.Get(0).([]string)
	return prompts, args.Error(1)
}

func (m *MockGenerator) SingleCarouselPrompt(ctx context.Context, breakdown entity.Breakdown, slideText string) (string, error) {
	args := m.Called(ctx, breakdown, slideText)
	return args.String(0), args.Error(1)
}

func (m *MockGenerator) GenerateImage(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func (m *MockGenerator) SocialContent(ctx context.Context, topic, platform string) (string, error) {
	args := m.Called(ctx, topic, platform)
	return args.String(0), args.Error(1)
}

func (m *MockGenerator) RefineContent(ctx context.Context, original, feedback, platform string) (string, error) {
	args := m.Called(ctx, original, feedback, platform)
	return args.String(0), args.Error(1)
}

func (m *MockGenerator) TrendingKeywords(ctx context.Context) (entity.TrendReport, error) {
	args := m.Called(ctx)
	report, _ := args.Get(0).(entity.TrendReport)
	return report, args.Error(1)
}

func (m *MockGenerator) ViralHooks(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	hooks, _ := args.Get(0).([]string)
	return hooks, args.Error(1)
}

const testDelay = 30 * time.Millisecond

func newOrchestrator(gen *MockGenerator, opts ...session.Option) (*orchestrator.Orchestrator, *session.Store) {
	store := session.NewStore(opts...)
	o := orchestrator.New(gen, store,
		orchestrator.WithSequencer(sequencer.New(testDelay)),
		orchestrator.WithLogger(zap.NewNop()),
	)
	return o, store
}

var breakdown = entity.Breakdown{Subject: "bear", StyleAndTech: "neon"}

func bearMarketPrompts() []entity.DesignPrompt {
	return []entity.DesignPrompt{
		{ID: 1, Headline: "BEAR MARKET", FullPrompt: "p1", Breakdown: breakdown},
		{ID: 2, Headline: "BEAR MARKET", FullPrompt: "p2", Breakdown: breakdown},
		{ID: 3, Headline: "BEAR MARKET", FullPrompt: "p3", Breakdown: breakdown},
	}
}

// seedDesigns runs a batch where every image succeeds.
func seedDesigns(t *testing.T, o *orchestrator.Orchestrator, gen *MockGenerator) {
	t.Helper()
	gen.On("DesignPrompts", mock.Anything, "BEAR MARKET").Return(bearMarketPrompts(), nil).Once()
	gen.On("GenerateImage", mock.Anything, "p1").Return("img1", nil).Once()
	gen.On("GenerateImage", mock.Anything, "p2").Return("img2", nil).Once()
	gen.On("GenerateImage", mock.Anything, "p3").Return("img3", nil).Once()
	require.NoError(t, o.GenerateDesigns(context.Background(), "BEAR MARKET"))
}

func TestGenerateDesigns(t *testing.T) {
	t.Run("sequential batch with one access-denied failure", func(t *testing.T) {
		gen := new(MockGenerator)

		var mu sync.Mutex
		var snapshots [][]entity.GenerationResult
		var store *session.Store
		o, s := newOrchestrator(gen, session.WithObserver(func(c session.Change) {
			mu.Lock()
			defer mu.Unlock()
			snapshots = append(snapshots, store.GenerationResults())
		}))
		store = s

		var calls []time.Time
		record := func(mock.Arguments) { calls = append(calls, time.Now()) }
		gen.On("DesignPrompts", mock.Anything, "BEAR MARKET").Return(bearMarketPrompts(), nil)
		gen.On("GenerateImage", mock.Anything, "p1").Run(record).Return("data:image/png;base64,ONE", nil)
		gen.On("GenerateImage", mock.Anything, "p2").Run(record).Return("", errors.New("Error 403: PERMISSION_DENIED"))
		gen.On("GenerateImage", mock.Anything, "p3").Run(record).Return("data:image/png;base64,THREE", nil)

		require.NoError(t, o.GenerateDesigns(context.Background(), "BEAR MARKET"))

		results := store.GenerationResults()
		require.Len(t, results, 3)
		assert.Equal(t, "data:image/png;base64,ONE", results[0].Image.ImageURL)
		assert.Empty(t, results[1].Image.ImageURL)
		assert.Equal(t, "Access Denied (403). Check API Key Domain Restrictions.", results[1].Image.Error)
		assert.Equal(t, "data:image/png;base64,THREE", results[2].Image.ImageURL)
		for _, r := range results {
			assert.False(t, r.Image.Loading)
		}

		require.Len(t, calls, 3)
		assert.GreaterOrEqual(t, calls[1].Sub(calls[0]), testDelay)
		assert.GreaterOrEqual(t, calls[2].Sub(calls[1]), testDelay)

		mu.Lock()
		defer mu.Unlock()
		require.Len(t, snapshots, 4)
		for _, r := range snapshots[0] {
			assert.True(t, r.Image.Loading, "all items start loading")
		}
		for i := 1; i < len(snapshots); i++ {
			for j, r := range snapshots[i] {
				assert.Equal(t, j >= i, r.Image.Loading, "snapshot %d item %d", i, j)
			}
		}
		gen.AssertExpectations(t)
	})

	t.Run("generic failure message", func(t *testing.T) {
		gen := new(MockGenerator)
		o, store := newOrchestrator(gen)
		gen.On("DesignPrompts", mock.Anything, "H").Return(bearMarketPrompts()[:1], nil)
		gen.On("GenerateImage", mock.Anything, "p1").Return("", errors.New("Timeout"))

		require.NoError(t, o.GenerateDesigns(context.Background(), "H"))

		got, ok := store.GenerationResult(1)
		require.True(t, ok)
		assert.Equal(t, "Timeout", got.Image.Error)
	})

	t.Run("prompt failure leaves previous results", func(t *testing.T) {
		gen := new(MockGenerator)
		o, store := newOrchestrator(gen)
		gen.On("DesignPrompts", mock.Anything, "H").Return(nil, errors.New("upstream down"))

		err := o.GenerateDesigns(context.Background(), "H")

		assert.ErrorIs(t, err, orchestrator.ErrConceptGenerationFailed)
		assert.Empty(t, store.GenerationResults())
		gen.AssertNotCalled(t, "GenerateImage", mock.Anything, mock.Anything)
	})

	t.Run("empty headline is rejected", func(t *testing.T) {
		o, _ := newOrchestrator(new(MockGenerator))

		assert.ErrorIs(t, o.GenerateDesigns(context.Background(), "  "), orchestrator.ErrInvalidInput)
	})

	t.Run("cancellation drops in-flight results", func(t *testing.T) {
		gen := new(MockGenerator)
		o, store := newOrchestrator(gen)
		ctx, cancel := context.WithCancel(context.Background())
		gen.On("DesignPrompts", mock.Anything, "H").Return(bearMarketPrompts(), nil)
		gen.On("GenerateImage", mock.Anything, "p1").Run(func(mock.Arguments) { cancel() }).Return("img1", nil)

		err := o.GenerateDesigns(ctx, "H")

		assert.ErrorIs(t, err, context.Canceled)
		for _, r := range store.GenerationResults() {
			assert.True(t, r.Image.Loading)
		}
		gen.AssertNumberOfCalls(t, "GenerateImage", 1)
	})
}

func TestRegenerateDesign(t *testing.T) {
	t.Run("only the target item changes", func(t *testing.T) {
		gen := new(MockGenerator)
		o, store := newOrchestrator(gen)
		seedDesigns(t, o, gen)
		before := store.GenerationResults()
		gen.On("GenerateImage", mock.Anything, "p2 but darker").Return("img2b", nil).Once()

		require.NoError(t, o.RegenerateDesign(context.Background(), 2, "p2 but darker"))

		after := store.GenerationResults()
		assert.Equal(t, before[0], after[0])
		assert.Equal(t, before[2], after[2])
		assert.Equal(t, "p2 but darker", after[1].Design.FullPrompt)
		assert.Equal(t, "img2b", after[1].Image.ImageURL)
		assert.False(t, after[1].Image.Loading)
	})

	t.Run("failure uses regeneration message", func(t *testing.T) {
		gen := new(MockGenerator)
		o, store := newOrchestrator(gen)
		seedDesigns(t, o, gen)
		gen.On("GenerateImage", mock.Anything, "again").Return("", errors.New("")).Once()

		err := o.RegenerateDesign(context.Background(), 1, "again")

		assert.ErrorIs(t, err, orchestrator.ErrImageGenerationFailed)
		got, _ := store.GenerationResult(1)
		assert.Equal(t, "Regeneration Failed", got.Image.Error)
		assert.Empty(t, got.Image.ImageURL)
		assert.False(t, got.Image.Loading)
	})

	t.Run("concurrent regeneration of the same item is rejected", func(t *testing.T) {
		gen := new(MockGenerator)
		o, _ := newOrchestrator(gen)
		seedDesigns(t, o, gen)

		started := make(chan struct{})
		release := make(chan struct{})
		gen.On("GenerateImage", mock.Anything, "slow").Run(func(mock.Arguments) {
			close(started)
			<-release
		}).Return("img", nil).Once()

		done := make(chan error, 1)
		go func() { done <- o.RegenerateDesign(context.Background(), 3, "slow") }()
		<-started

		assert.ErrorIs(t, o.RegenerateDesign(context.Background(), 3, "other"), orchestrator.ErrItemBusy)

		close(release)
		assert.NoError(t, <-done)
	})

	t.Run("unknown id", func(t *testing.T) {
		o, _ := newOrchestrator(new(MockGenerator))

		assert.ErrorIs(t, o.RegenerateDesign(context.Background(), 7, "p"), orchestrator.ErrNotFound)
	})
}

func startCarousel(t *testing.T, o *orchestrator.Orchestrator, gen *MockGenerator) {
	t.Helper()
	seedDesigns(t, o, gen)
	gen.On("CarouselScript", mock.Anything, "BEAR MARKET").
		Return([]string{"Cycles repeat", "Fear peaks", "Builders build", "Stay liquid"}, nil).Once()
	slides, err := o.StartCarousel(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, slides, 4)
}

func TestCarousel(t *testing.T) {
	t.Run("style lock failure falls back to templated prompts", func(t *testing.T) {
		gen := new(MockGenerator)
		o, store := newOrchestrator(gen)
		startCarousel(t, o, gen)

		gen.On("CarouselPrompts", mock.Anything, breakdown, mock.Anything).Return(nil, errors.New("parse failure")).Once()
		for i, text := range []string{"Cycles repeat", "Fear peaks", "Builders build", "Stay liquid"} {
			prompt := "p2 Text: '" + text + "'"
			gen.On("GenerateImage", mock.Anything, prompt).Return("slide"+string(rune('A'+i)), nil).Once()
		}

		require.NoError(t, o.GenerateCarousel(context.Background()))

		slides := store.Slides()
		require.Len(t, slides, 4)
		for i, s := range slides {
			assert.False(t, s.Loading)
			assert.Equal(t, "slide"+string(rune('A'+i)), s.ImageURL)
		}
		assert.Equal(t, "p2 Text: 'Fear peaks'", slides[1].Prompt)
		gen.AssertExpectations(t)
	})

	t.Run("short prompt list is padded with fallbacks and failures clear loading", func(t *testing.T) {
		gen := new(MockGenerator)
		o, store := newOrchestrator(gen)
		startCarousel(t, o, gen)

		gen.On("CarouselPrompts", mock.Anything, breakdown, mock.Anything).Return([]string{"s0", "s1"}, nil).Once()
		gen.On("GenerateImage", mock.Anything, "s0").Return("a", nil).Once()
		gen.On("GenerateImage", mock.Anything, "s1").Return("", errors.New("No image data found")).Once()
		gen.On("GenerateImage", mock.Anything, "p2 Text: 'Builders build'").Return("c", nil).Once()
		gen.On("GenerateImage", mock.Anything, "p2 Text: 'Stay liquid'").Return("d", nil).Once()

		require.NoError(t, o.GenerateCarousel(context.Background()))

		slides := store.Slides()
		assert.Equal(t, "a", slides[0].ImageURL)
		assert.Empty(t, slides[1].ImageURL)
		assert.False(t, slides[1].Loading)
		assert.Equal(t, "d", slides[3].ImageURL)
		gen.AssertExpectations(t)
	})

	t.Run("script failure leaves an empty deck", func(t *testing.T) {
		gen := new(MockGenerator)
		o, store := newOrchestrator(gen)
		seedDesigns(t, o, gen)
		gen.On("CarouselScript", mock.Anything, "BEAR MARKET").Return(nil, errors.New("boom")).Once()

		_, err := o.StartCarousel(context.Background(), 1)

		assert.ErrorIs(t, err, orchestrator.ErrScriptGenerationFailed)
		assert.Empty(t, store.Slides())
	})

	t.Run("edit then regenerate a single slide", func(t *testing.T) {
		gen := new(MockGenerator)
		o, store := newOrchestrator(gen)
		startCarousel(t, o, gen)

		require.NoError(t, o.EditSlideText(0, "Cycles always repeat"))
		gen.On("SingleCarouselPrompt", mock.Anything, breakdown, "Cycles always repeat").Return("fresh", nil).Once()
		gen.On("GenerateImage", mock.Anything, "fresh").Return("img-fresh", nil).Once()

		require.NoError(t, o.RegenerateSlide(context.Background(), 0))

		slides := store.Slides()
		assert.Equal(t, "img-fresh", slides[0].ImageURL)
		assert.Equal(t, "fresh", slides[0].Prompt)
		assert.False(t, slides[0].Loading)
		assert.Empty(t, slides[1].ImageURL)
	})

	t.Run("failed slide regeneration keeps previous image", func(t *testing.T) {
		gen := new(MockGenerator)
		o, store := newOrchestrator(gen)
		startCarousel(t, o, gen)
		gen.On("SingleCarouselPrompt", mock.Anything, breakdown, "Fear peaks").Return("first", nil).Once()
		gen.On("GenerateImage", mock.Anything, "first").Return("img-first", nil).Once()
		require.NoError(t, o.RegenerateSlide(context.Background(), 1))

		gen.On("SingleCarouselPrompt", mock.Anything, breakdown, "Fear peaks").Return("second", nil).Once()
		gen.On("GenerateImage", mock.Anything, "second").Return("", errors.New("Timeout")).Once()

		err := o.RegenerateSlide(context.Background(), 1)

		assert.ErrorIs(t, err, orchestrator.ErrImageGenerationFailed)
		slide := store.Slides()[1]
		assert.Equal(t, "img-first", slide.ImageURL)
		assert.False(t, slide.Loading)
	})

	t.Run("generate without a carousel", func(t *testing.T) {
		o, _ := newOrchestrator(new(MockGenerator))

		assert.ErrorIs(t, o.GenerateCarousel(context.Background()), orchestrator.ErrNotFound)
		assert.ErrorIs(t, o.EditSlideText(0, "x"), orchestrator.ErrNotFound)
	})
}

func TestContentAndTrends(t *testing.T) {
	t.Run("write and refine", func(t *testing.T) {
		gen := new(MockGenerator)
		o, _ := newOrchestrator(gen)
		gen.On("SocialContent", mock.Anything, "ETF", "twitter").Return("draft", nil)
		gen.On("RefineContent", mock.Anything, "draft", "shorter", "twitter").Return("final", nil)

		draft, err := o.WriteContent(context.Background(), "ETF", "twitter")
		require.NoError(t, err)
		final, err := o.RefineContent(context.Background(), draft, "shorter", "twitter")
		require.NoError(t, err)

		assert.Equal(t, "final", final)
	})

	t.Run("content failure is wrapped", func(t *testing.T) {
		gen := new(MockGenerator)
		o, _ := newOrchestrator(gen)
		gen.On("SocialContent", mock.Anything, "ETF", "blog").Return("", errors.New("boom"))

		_, err := o.WriteContent(context.Background(), "ETF", "blog")

		assert.ErrorIs(t, err, orchestrator.ErrSocialContentFailed)
	})

	t.Run("trend failure returns fallback report", func(t *testing.T) {
		gen := new(MockGenerator)
		o, _ := newOrchestrator(gen)
		gen.On("TrendingKeywords", mock.Anything).Return(entity.TrendReport{}, errors.New("down"))

		report, err := o.ResearchTrends(context.Background())

		assert.ErrorIs(t, err, orchestrator.ErrTrendFetchFailed)
		assert.NotNil(t, report.Trends)
		assert.Empty(t, report.Trends)
	})

	t.Run("fresh ideas exclude approved ones", func(t *testing.T) {
		gen := new(MockGenerator)
		o, store := newOrchestrator(gen)
		store.ApproveIdea("ETH TO 10K")
		gen.On("ViralHooks", mock.Anything).Return([]string{"ETH TO 10K", "SOL SUMMER"}, nil)

		ideas, err := o.FreshIdeas(context.Background())
		require.NoError(t, err)

		assert.Equal(t, []string{"SOL SUMMER"}, ideas)
	})
}

func TestSave(t *testing.T) {
	t.Run("design and slides", func(t *testing.T) {
		gen := new(MockGenerator)
		o, store := newOrchestrator(gen)
		startCarousel(t, o, gen)
		gen.On("SingleCarouselPrompt", mock.Anything, breakdown, "Builders build").Return("s2", nil).Once()
		gen.On("GenerateImage", mock.Anything, "s2").Return("img-s2", nil).Once()
		require.NoError(t, o.RegenerateSlide(context.Background(), 2))

		design, err := o.SaveDesign(1)
		require.NoError(t, err)
		assert.Equal(t, entity.CalendarItemImage, design.Type)
		assert.Equal(t, "BEAR MARKET", design.Title)
		assert.Equal(t, "instagram", design.Platform)
		assert.True(t, design.Staged())

		saved, err := o.SaveAllSlides()
		require.NoError(t, err)
		require.Len(t, saved, 1)
		assert.Equal(t, "BEAR MARKET - Slide 3", saved[0].Title)

		_, err = o.SaveSlide(0)
		assert.ErrorIs(t, err, orchestrator.ErrNotReady)
		assert.Len(t, store.CalendarItems(), 2)
		assert.True(t, store.IsIdeaCompleted("BEAR MARKET"))
	})

	t.Run("failed design is not savable", func(t *testing.T) {
		gen := new(MockGenerator)
		o, _ := newOrchestrator(gen)
		gen.On("DesignPrompts", mock.Anything, "H").Return(bearMarketPrompts()[:1], nil)
		gen.On("GenerateImage", mock.Anything, "p1").Return("", errors.New("Timeout"))
		require.NoError(t, o.GenerateDesigns(context.Background(), "H"))

		_, err := o.SaveDesign(1)

		assert.ErrorIs(t, err, orchestrator.ErrNotReady)
	})

	t.Run("content uses default title", func(t *testing.T) {
		o, _ := newOrchestrator(new(MockGenerator))

		item, err := o.SaveContent("", "linkedin", "body")
		require.NoError(t, err)

		assert.Equal(t, "Generated Content", item.Title)
		assert.Equal(t, entity.CalendarItemText, item.Type)
	})
}

func promptsFor(headline string, prefix string) []entity.DesignPrompt {
	return []entity.DesignPrompt{
		{ID: 1, Headline: headline, FullPrompt: prefix + "1", Breakdown: breakdown},
		{ID: 2, Headline: headline, FullPrompt: prefix + "2", Breakdown: breakdown},
		{ID: 3, Headline: headline, FullPrompt: prefix + "3", Breakdown: breakdown},
	}
}

func TestOverlappingBatches(t *testing.T) {
	t.Run("newer design batch settles every item", func(t *testing.T) {
		gen := new(MockGenerator)
		o, store := newOrchestrator(gen)

		started := make(chan struct{})
		release := make(chan struct{})
		gen.On("DesignPrompts", mock.Anything, "OLD").Return(promptsFor("OLD", "old"), nil).Once()
		gen.On("DesignPrompts", mock.Anything, "NEW").Return(promptsFor("NEW", "new"), nil).Once()
		gen.On("GenerateImage", mock.Anything, "old1").Run(func(mock.Arguments) {
			close(started)
			<-release
		}).Return("stale", nil).Once()
		gen.On("GenerateImage", mock.Anything, "new1").Return("img1", nil).Once()
		gen.On("GenerateImage", mock.Anything, "new2").Return("img2", nil).Once()
		gen.On("GenerateImage", mock.Anything, "new3").Return("img3", nil).Once()

		oldDone := make(chan error, 1)
		go func() { oldDone <- o.GenerateDesigns(context.Background(), "OLD") }()
		<-started

		require.NoError(t, o.GenerateDesigns(context.Background(), "NEW"))
		close(release)
		require.NoError(t, <-oldDone)

		results := store.GenerationResults()
		require.Len(t, results, 3)
		for i, r := range results {
			assert.Equal(t, "NEW", r.Design.Headline)
			assert.False(t, r.Image.Loading, "item %d", i+1)
			assert.Equal(t, "img"+string(rune('1'+i)), r.Image.ImageURL)
		}
		gen.AssertNotCalled(t, "GenerateImage", mock.Anything, "old2")
		gen.AssertNotCalled(t, "GenerateImage", mock.Anything, "old3")
		gen.AssertExpectations(t)
	})

	t.Run("superseded batch is cancelled", func(t *testing.T) {
		gen := new(MockGenerator)
		o, store := newOrchestrator(gen)

		started := make(chan struct{})
		cancelled := make(chan struct{})
		gen.On("DesignPrompts", mock.Anything, "OLD").Return(promptsFor("OLD", "old"), nil).Once()
		gen.On("DesignPrompts", mock.Anything, "NEW").Return(promptsFor("NEW", "new")[:1], nil).Once()
		gen.On("GenerateImage", mock.Anything, "old1").Run(func(args mock.Arguments) {
			close(started)
			<-args.Get(0).(context.Context).Done()
			close(cancelled)
		}).Return("", context.Canceled).Once()
		gen.On("GenerateImage", mock.Anything, "new1").Return("img1", nil).Once()

		oldDone := make(chan error, 1)
		go func() { oldDone <- o.GenerateDesigns(context.Background(), "OLD") }()
		<-started

		require.NoError(t, o.GenerateDesigns(context.Background(), "NEW"))
		select {
		case <-cancelled:
		case <-time.After(time.Second):
			t.Fatal("old batch context was not cancelled")
		}
		require.NoError(t, <-oldDone)

		gen.AssertNumberOfCalls(t, "GenerateImage", 2)
		got, ok := store.GenerationResult(1)
		require.True(t, ok)
		assert.Equal(t, "img1", got.Image.ImageURL)
	})

	t.Run("regeneration from an older batch does not block the new one", func(t *testing.T) {
		gen := new(MockGenerator)
		o, store := newOrchestrator(gen)
		seedDesigns(t, o, gen)

		started := make(chan struct{})
		release := make(chan struct{})
		gen.On("GenerateImage", mock.Anything, "slow").Run(func(mock.Arguments) {
			close(started)
			<-release
		}).Return("stale", nil).Once()
		regenDone := make(chan error, 1)
		go func() { regenDone <- o.RegenerateDesign(context.Background(), 1, "slow") }()
		<-started

		gen.On("DesignPrompts", mock.Anything, "NEW").Return(promptsFor("NEW", "new"), nil).Once()
		gen.On("GenerateImage", mock.Anything, "new1").Return("img1", nil).Once()
		gen.On("GenerateImage", mock.Anything, "new2").Return("img2", nil).Once()
		gen.On("GenerateImage", mock.Anything, "new3").Return("img3", nil).Once()
		require.NoError(t, o.GenerateDesigns(context.Background(), "NEW"))

		close(release)
		require.NoError(t, <-regenDone)

		got, ok := store.GenerationResult(1)
		require.True(t, ok)
		assert.Equal(t, "new1", got.Design.FullPrompt)
		assert.Equal(t, "img1", got.Image.ImageURL)
		assert.False(t, got.Image.Loading)
	})

	t.Run("restarted carousel render settles every slide", func(t *testing.T) {
		gen := new(MockGenerator)
		o, store := newOrchestrator(gen)
		startCarousel(t, o, gen)

		started := make(chan struct{})
		release := make(chan struct{})
		gen.On("CarouselPrompts", mock.Anything, breakdown, mock.Anything).Return([]string{"a0", "a1", "a2", "a3"}, nil).Once()
		gen.On("CarouselPrompts", mock.Anything, breakdown, mock.Anything).Return([]string{"b0", "b1", "b2", "b3"}, nil).Once()
		gen.On("GenerateImage", mock.Anything, "a0").Run(func(mock.Arguments) {
			close(started)
			<-release
		}).Return("stale", nil).Once()
		for _, p := range []string{"b0", "b1", "b2", "b3"} {
			gen.On("GenerateImage", mock.Anything, p).Return("img-"+p, nil).Once()
		}

		firstDone := make(chan error, 1)
		go func() { firstDone <- o.GenerateCarousel(context.Background()) }()
		<-started

		require.NoError(t, o.GenerateCarousel(context.Background()))
		close(release)
		require.NoError(t, <-firstDone)

		for i, s := range store.Slides() {
			assert.False(t, s.Loading, "slide %d", i)
			assert.Equal(t, "img-b"+string(rune('0'+i)), s.ImageURL)
		}
		gen.AssertNotCalled(t, "GenerateImage", mock.Anything, "a1")
		gen.AssertExpectations(t)
	})
}
