package genclient_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AX07/cryptoax07-visual-generator/internal/domain/entity"
	"github.com/AX07/cryptoax07-visual-generator/internal/studio/genclient"
	apperrors "github.com/AX07/cryptoax07-visual-generator/pkg/errors"
)

type capturedRequest struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload"`
}

// newProxy는 고정 응답을 돌려주는 테스트 서버를 띄웁니다.
func newProxy(t *testing.T, status int, body string, seen *capturedRequest) *genclient.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		if seen != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(seen))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return genclient.New(srv.URL)
}

func TestInvoke(t *testing.T) {
	t.Run("sends action envelope", func(t *testing.T) {
		var seen capturedRequest
		client := newProxy(t, http.StatusOK, `{"content":"gm"}`, &seen)

		content, err := client.SocialContent(context.Background(), "ETF flows", "twitter")
		require.NoError(t, err)

		assert.Equal(t, "gm", content)
		assert.Equal(t, "social-content", seen.Action)
		assert.JSONEq(t, `{"topic":"ETF flows","platform":"twitter"}`, string(seen.Payload))
	})

	t.Run("surfaces server error message", func(t *testing.T) {
		client := newProxy(t, http.StatusBadRequest, `{"error":"Invalid action"}`, nil)

		err := client.Invoke(context.Background(), entity.Action("bogus"), nil, nil)

		var apiErr *genclient.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
		assert.Equal(t, "Invalid action", apiErr.Error())
		assert.Equal(t, apperrors.ErrInvalidArgument, apperrors.CodeOf(err))
	})

	t.Run("falls back to status text", func(t *testing.T) {
		client := newProxy(t, http.StatusInternalServerError, `not json`, nil)

		_, err := client.ViralHooks(context.Background())

		require.Error(t, err)
		assert.Equal(t, "API Error: Internal Server Error", err.Error())
		assert.Equal(t, apperrors.ErrUpstream, apperrors.CodeOf(err))
	})

	t.Run("malformed success body", func(t *testing.T) {
		client := newProxy(t, http.StatusOK, `{"prompt":`, nil)

		_, err := client.SingleCarouselPrompt(context.Background(), entity.Breakdown{}, "slide")

		assert.True(t, errors.Is(err, genclient.ErrMalformedResponse))
	})

	t.Run("context cancellation aborts the call", func(t *testing.T) {
		client := newProxy(t, http.StatusOK, `[]`, nil)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := client.CarouselScript(ctx, "headline")

		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestGenerateImage(t *testing.T) {
	t.Run("sends default retries", func(t *testing.T) {
		var seen capturedRequest
		client := newProxy(t, http.StatusOK, `{"image":"data:image/png;base64,AAA"}`, &seen)

		img, err := client.GenerateImage(context.Background(), "neon bull")
		require.NoError(t, err)

		assert.Equal(t, "data:image/png;base64,AAA", img)
		assert.JSONEq(t, `{"prompt":"neon bull","maxRetries":3}`, string(seen.Payload))
	})

	t.Run("empty image is malformed", func(t *testing.T) {
		client := newProxy(t, http.StatusOK, `{"image":""}`, nil)

		_, err := client.GenerateImage(context.Background(), "neon bull")

		assert.ErrorIs(t, err, genclient.ErrMalformedResponse)
	})
}

func TestDesignPrompts(t *testing.T) {
	t.Run("decodes three prompts", func(t *testing.T) {
		client := newProxy(t, http.StatusOK,
			`[{"id":1,"headline":"H","fullPrompt":"a"},{"id":2,"headline":"H","fullPrompt":"b"},{"id":3,"headline":"H","fullPrompt":"c"}]`, nil)

		prompts, err := client.DesignPrompts(context.Background(), "H")
		require.NoError(t, err)

		require.Len(t, prompts, 3)
		assert.Equal(t, "b", prompts[1].FullPrompt)
	})

	t.Run("rejects wrong count", func(t *testing.T) {
		client := newProxy(t, http.StatusOK, `[{"id":1}]`, nil)

		_, err := client.DesignPrompts(context.Background(), "H")

		assert.ErrorIs(t, err, genclient.ErrMalformedResponse)
	})
}

func TestTrendingKeywords(t *testing.T) {
	t.Run("unreadable body degrades to empty report", func(t *testing.T) {
		client := newProxy(t, http.StatusOK, `"oops"`, nil)

		report, err := client.TrendingKeywords(context.Background())
		require.NoError(t, err)

		assert.Empty(t, report.Trends)
		assert.NotNil(t, report.Trends)
		assert.NotNil(t, report.Sources)
	})

	t.Run("transport failure is returned", func(t *testing.T) {
		client := newProxy(t, http.StatusInternalServerError, `{"error":"boom"}`, nil)

		_, err := client.TrendingKeywords(context.Background())

		assert.EqualError(t, err, "boom")
	})

	t.Run("decodes report", func(t *testing.T) {
		client := newProxy(t, http.StatusOK,
			`{"trends":[{"category":"DeFi","keywords":["restaking"]}],"sources":[{"title":"t","uri":"https://x"}]}`, nil)

		report, err := client.TrendingKeywords(context.Background())
		require.NoError(t, err)

		require.Len(t, report.Trends, 1)
		assert.Equal(t, []string{"restaking"}, report.Trends[0].Keywords)
		assert.Equal(t, "https://x", report.Sources[0].URI)
	})
}
