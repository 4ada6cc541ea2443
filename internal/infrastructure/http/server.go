package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/AX07/cryptoax07-visual-generator/pkg/logger"
)

// Server HTTP 서버 구조체입니다.
type Server struct {
	echo         *echo.Echo
	logger       *zap.Logger
	port         int
	allowOrigins []string
	timeout      time.Duration
}

// ServerOption Server 생성을 위한 옵션 함수 타입입니다.
type ServerOption func(*Server)

// WithPort 서버 포트를 설정하는 옵션입니다.
func WithPort(port int) ServerOption {
	return func(s *Server) {
		s.port = port
	}
}

// WithLogger 로거를 설정하는 옵션입니다.
func WithLogger(logger *zap.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithAllowOrigins CORS 허용 오리진을 설정합니다. 비어 있으면 모든 오리진을 허용합니다.
func WithAllowOrigins(origins []string) ServerOption {
	return func(s *Server) {
		s.allowOrigins = origins
	}
}

// WithWriteTimeout 응답 쓰기 타임아웃을 설정합니다. 이미지 재시도를 포함하므로 넉넉하게 잡아야 합니다.
func WithWriteTimeout(d time.Duration) ServerOption {
	return func(s *Server) {
		s.timeout = d
	}
}

// NewServer HTTP 서버를 생성합니다.
func NewServer(opts ...ServerOption) *Server {
	s := &Server{
		echo:   echo.New(),
		logger: zap.NewNop(),
		port:   8080,
	}

	for _, opt := range opts {
		opt(s)
	}

	e := s.echo
	e.HideBanner = true
	e.HidePort = true
	if s.timeout > 0 {
		e.Server.WriteTimeout = s.timeout
	}

	logger.WithEchoLogger(e, s.logger)

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	if len(s.allowOrigins) > 0 {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     s.allowOrigins,
			AllowCredentials: true,
		}))
	} else {
		e.Use(middleware.CORS())
	}
	e.Use(logger.NewEchoRequestLogger(s.logger))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status": "healthy",
		})
	})

	return s
}

// RegisterRoutes 라우트를 등록하는 메서드입니다.
func (s *Server) RegisterRoutes(registerFunc func(e *echo.Echo)) {
	registerFunc(s.echo)
}

// Start 서버를 시작합니다. 정상 종료 시 nil을 반환합니다.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("HTTP 서버 시작", zap.String("addr", addr))

	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown 서버를 안전하게 종료합니다.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("HTTP 서버 종료 중...")
	return s.echo.Shutdown(ctx)
}
