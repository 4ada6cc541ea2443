package orchestrator_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	handler "github.com/AX07/cryptoax07-visual-generator/internal/adapter/handler/http"
	"github.com/AX07/cryptoax07-visual-generator/internal/domain/repository"
	"github.com/AX07/cryptoax07-visual-generator/internal/studio/genclient"
	"github.com/AX07/cryptoax07-visual-generator/internal/studio/orchestrator"
	"github.com/AX07/cryptoax07-visual-generator/internal/studio/sequencer"
	"github.com/AX07/cryptoax07-visual-generator/internal/studio/session"
	"github.com/AX07/cryptoax07-visual-generator/internal/usecase"
)

// MockGenerativeModel is a mock implementation of repository.GenerativeModel
type MockGenerativeModel struct {
	mock.Mock
}

func (m *MockGenerativeModel) GenerateText(ctx context.Context, req repository.TextRequest) (*repository.TextResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*repository.TextResponse)
	return resp, args.Error(1)
}

func (m *MockGenerativeModel) GenerateImage(ctx context.Context, req repository.ImageRequest) (*repository.ImageData, error) {
	args := m.Called(ctx, req)
	data, _ := args.Get(0).(*repository.ImageData)
	return data, args.Error(1)
}

func imagePrompt(prompt string) interface{} {
	return mock.MatchedBy(func(req repository.ImageRequest) bool { return req.Prompt == prompt })
}

const bearMarketDesigns = `[
 {"id": 1, "fullPrompt": "gold bull", "breakdown": {"subject": "bull"}},
 {"id": 2, "fullPrompt": "gold flag", "breakdown": {"subject": "flag"}},
 {"id": 3, "fullPrompt": "gold vault", "breakdown": {"subject": "vault"}}
]`

// TestBearMarketScenario drives a design batch through the client, the proxy
// handler and the image retry with scaled timings.
func TestBearMarketScenario(t *testing.T) {
	policy := usecase.RetryPolicy{
		AttemptTimeout:    60 * time.Millisecond,
		BaseDelay:         40 * time.Millisecond,
		DefaultMaxRetries: 1,
	}

	model := new(MockGenerativeModel)
	model.On("GenerateText", mock.Anything, mock.Anything).
		Return(&repository.TextResponse{Text: bearMarketDesigns}, nil).Once()
	model.On("GenerateImage", mock.Anything, imagePrompt("gold bull")).
		Return(&repository.ImageData{MIMEType: "image/png", Data: []byte("one")}, nil).Once()
	model.On("GenerateImage", mock.Anything, imagePrompt("gold flag")).
		Return(&repository.ImageData{MIMEType: "image/png", Data: []byte("two")}, nil).Once()
	model.On("GenerateImage", mock.Anything, imagePrompt("gold vault")).
		Run(func(mock.Arguments) { time.Sleep(3 * policy.AttemptTimeout) }).
		Return(&repository.ImageData{Data: []byte("late")}, nil).Once()
	model.On("GenerateImage", mock.Anything, imagePrompt("gold vault")).
		Return(&repository.ImageData{}, nil).Once()

	e := echo.New()
	uc := usecase.NewGenerationUseCase(model, zap.NewNop(), usecase.WithRetryPolicy(policy))
	handler.NewGeminiHandler(uc, zap.NewNop()).RegisterRoutes(e)
	srv := httptest.NewServer(e)
	defer srv.Close()

	client := genclient.New(srv.URL+handler.GeminiRoute, genclient.WithImageRetries(1))
	store := session.NewStore()
	o := orchestrator.New(client, store,
		orchestrator.WithSequencer(sequencer.New(testDelay)),
		orchestrator.WithLogger(zap.NewNop()),
	)

	start := time.Now()
	require.NoError(t, o.GenerateDesigns(context.Background(), "BEAR MARKET"))
	elapsed := time.Since(start)

	results := store.GenerationResults()
	require.Len(t, results, 3)
	assert.Equal(t, "data:image/png;base64,b25l", results[0].Image.ImageURL)
	assert.Equal(t, "data:image/png;base64,dHdv", results[1].Image.ImageURL)
	assert.Empty(t, results[2].Image.ImageURL)
	assert.Equal(t, "No image data found", results[2].Image.Error)
	for _, r := range results {
		assert.False(t, r.Image.Loading)
		assert.Equal(t, "BEAR MARKET", r.Design.Headline)
	}

	assert.GreaterOrEqual(t, elapsed, policy.AttemptTimeout+policy.BaseDelay+2*testDelay)
	model.AssertExpectations(t)
}
