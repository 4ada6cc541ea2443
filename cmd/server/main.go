package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	_ "go.uber.org/automaxprocs"
	"go.uber.org/zap"

	handler "github.com/AX07/cryptoax07-visual-generator/internal/adapter/handler/http"
	"github.com/AX07/cryptoax07-visual-generator/internal/config"
	"github.com/AX07/cryptoax07-visual-generator/internal/domain/repository"
	"github.com/AX07/cryptoax07-visual-generator/internal/infrastructure/gemini"
	httpServer "github.com/AX07/cryptoax07-visual-generator/internal/infrastructure/http"
	"github.com/AX07/cryptoax07-visual-generator/internal/studio/genclient"
	"github.com/AX07/cryptoax07-visual-generator/internal/studio/workspace"
	"github.com/AX07/cryptoax07-visual-generator/internal/usecase"
	"github.com/AX07/cryptoax07-visual-generator/pkg/messaging"
)

func main() {
	// .env가 없으면 환경 변수만 사용
	_ = godotenv.Load()

	// 설정 로드
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("설정 로드 실패: %v", err)
	}
	logger := cfg.Logger
	defer logger.Sync()

	logger.Info("스튜디오 서비스 시작 중...",
		zap.String("service", cfg.Service.Name),
		zap.String("version", cfg.Service.Version),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 생성형 서비스 클라이언트. 키가 없으면 프록시가 설정 에러를 반환합니다.
	var model repository.GenerativeModel
	if cfg.Gemini.APIKey != "" {
		client, err := gemini.NewClient(ctx, gemini.Config{
			APIKey:            cfg.Gemini.APIKey,
			RequestsPerMinute: cfg.Gemini.RequestsPerMin,
			HTTPTimeout:       cfg.Gemini.HTTPTimeout,
		}, logger)
		if err != nil {
			logger.Fatal("Gemini 클라이언트 생성 실패", zap.Error(err))
		}
		model = client
	} else {
		logger.Warn("GEMINI_API_KEY가 설정되지 않았습니다. 생성 요청은 설정 에러로 응답합니다.")
	}

	generation := usecase.NewGenerationUseCase(model, logger,
		usecase.WithModels(usecase.Models{
			Text:   cfg.Gemini.TextModel,
			Image:  cfg.Gemini.ImageModel,
			Search: cfg.Gemini.SearchModel,
		}),
		usecase.WithRetryPolicy(usecase.RetryPolicy{
			AttemptTimeout:    cfg.Gemini.ImageTimeout,
			BaseDelay:         cfg.Gemini.RetryBaseDelay,
			DefaultMaxRetries: cfg.Gemini.DefaultRetries,
		}),
	)

	// 세션 변경 이벤트 발행
	var publisher messaging.Publisher = messaging.NopPublisher{}
	if cfg.Redis.Addr != "" {
		publisher, err = messaging.NewRedisPublisher(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Fatal("Redis 연결 실패", zap.Error(err))
		}
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error("Redis 연결 종료 실패", zap.Error(err))
		}
	}()

	port := parseInt(cfg.Server.HTTP.Port, 8080)

	// 스튜디오는 생성 프록시를 HTTP로 호출합니다. 주소가 없으면 자기 자신을 사용합니다.
	proxyURL := cfg.Studio.ProxyURL
	if proxyURL == "" {
		proxyURL = fmt.Sprintf("http://127.0.0.1:%d%s", port, handler.GeminiRoute)
	}
	generator := genclient.New(proxyURL,
		genclient.WithHTTPClient(&http.Client{Timeout: cfg.Studio.HTTPTimeout}),
		genclient.WithImageRetries(cfg.Studio.ImageRetries),
		genclient.WithLogger(logger),
	)

	registry := workspace.NewRegistry(generator,
		workspace.WithItemDelay(cfg.Studio.ItemDelay),
		workspace.WithTTL(cfg.Studio.SessionTTL),
		workspace.WithPublisher(publisher, cfg.Redis.Channel),
		workspace.WithLogger(logger),
	)
	go registry.RunJanitor(ctx, time.Minute)

	geminiHandler := handler.NewGeminiHandler(generation, logger)
	studioHandler := handler.NewStudioHandler(registry, cfg.Studio.SessionSecret, cfg.Studio.SessionTTL, logger)

	server := httpServer.NewServer(
		httpServer.WithPort(port),
		httpServer.WithLogger(logger),
		httpServer.WithAllowOrigins(cfg.Server.HTTP.AllowOrigins),
		httpServer.WithWriteTimeout(cfg.Server.HTTP.Timeout),
	)
	server.RegisterRoutes(func(e *echo.Echo) {
		geminiHandler.RegisterRoutes(e)
		studioHandler.RegisterRoutes(e)
	})

	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal("HTTP 서버 시작 실패", zap.Error(err))
		}
	}()

	// 종료 신호 처리
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("서버 종료 중...")
	cancel()

	// 세션을 먼저 닫아 진행 중인 생성 결과를 버립니다
	registry.Shutdown()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP 서버 종료 오류", zap.Error(err))
	}

	logger.Info("서버 정상 종료")
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
