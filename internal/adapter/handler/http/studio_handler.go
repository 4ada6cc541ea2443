package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/AX07/cryptoax07-visual-generator/internal/domain/entity"
	"github.com/AX07/cryptoax07-visual-generator/internal/studio/orchestrator"
	"github.com/AX07/cryptoax07-visual-generator/internal/studio/workspace"
	apperrors "github.com/AX07/cryptoax07-visual-generator/pkg/errors"
)

// StudioRoute 스튜디오 API 경로
const StudioRoute = "/api/v1/studio"

const (
	// studioCookie 세션 쿠키 이름
	studioCookie = "studio"
	// sessionIDKey 쿠키에 저장하는 워크스페이스 세션 ID 키
	sessionIDKey = "sid"
	// workspaceKey echo.Context에 워크스페이스 세션을 저장할 때 사용하는 키
	workspaceKey = "studio_workspace"
)

// StudioHandler는 쿠키 세션 단위로 스튜디오 작업 흐름을 제공하는 HTTP 핸들러입니다
type StudioHandler struct {
	registry *workspace.Registry
	cookies  sessions.Store
	validate *validator.Validate
	logger   *zap.Logger
}

// NewStudioHandler는 새로운 StudioHandler 인스턴스를 생성합니다.
// secret은 세션 쿠키 서명 키이고 ttl은 쿠키 만료 시간입니다.
func NewStudioHandler(registry *workspace.Registry, secret string, ttl time.Duration, logger *zap.Logger) *StudioHandler {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	return &StudioHandler{
		registry: registry,
		cookies:  store,
		validate: validator.New(),
		logger:   logger,
	}
}

// RegisterRoutes는 Echo 라우터에 핸들러 경로를 등록합니다
func (h *StudioHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group(StudioRoute, session.Middleware(h.cookies), h.workspaceMiddleware)

	g.DELETE("/session", h.EndSession)

	// 디자인
	g.GET("/designs", h.ListDesigns)
	g.POST("/designs", h.GenerateDesigns)
	g.POST("/designs/:id/regenerate", h.RegenerateDesign)
	g.POST("/designs/:id/save", h.SaveDesign)

	// 캐러셀
	g.GET("/carousel", h.GetCarousel)
	g.POST("/carousel", h.StartCarousel)
	g.POST("/carousel/generate", h.GenerateCarousel)
	g.POST("/carousel/save", h.SaveAllSlides)
	g.PUT("/carousel/slides/:id", h.EditSlide)
	g.POST("/carousel/slides/:id/regenerate", h.RegenerateSlide)
	g.POST("/carousel/slides/:id/save", h.SaveSlide)

	// 글
	g.POST("/content", h.WriteContent)
	g.POST("/content/refine", h.RefineContent)
	g.POST("/content/save", h.SaveContent)

	// 트렌드와 아이디어
	g.GET("/trends", h.ResearchTrends)
	g.GET("/ideas", h.ListIdeas)
	g.GET("/ideas/fresh", h.FreshIdeas)
	g.POST("/ideas", h.ApproveIdea)
	g.DELETE("/ideas", h.DismissIdea)
	g.POST("/ideas/run", h.RunWorkflow)

	// 캘린더
	g.GET("/calendar", h.ListCalendar)
	g.POST("/calendar", h.AddCalendarItem)
	g.PUT("/calendar/:id", h.UpdateCalendarItem)
	g.DELETE("/calendar/:id", h.DeleteCalendarItem)
	g.POST("/calendar/:id/schedule", h.Schedule)
	g.DELETE("/calendar/:id/schedule", h.Unschedule)
}

// workspaceMiddleware는 쿠키의 세션 ID로 워크스페이스를 찾고, 없으면 새로 만들어 쿠키에 저장합니다.
func (h *StudioHandler) workspaceMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		// 서명이 맞지 않는 쿠키는 새 세션으로 대체
		sess, err := session.Get(studioCookie, c)
		if sess == nil {
			return h.fail(c, "세션 저장소 없음", err)
		}
		if err != nil {
			h.logger.Debug("세션 쿠키 복원 실패, 새 세션 발급", zap.Error(err))
		}

		id, _ := sess.Values[sessionIDKey].(string)
		ws, ok := h.registry.Get(id)
		if !ok {
			ws, err = h.registry.Create()
			if err != nil {
				return h.fail(c, "세션 생성 실패", err)
			}
			sess.Values[sessionIDKey] = ws.ID
			if err := sess.Save(c.Request(), c.Response()); err != nil {
				return h.fail(c, "세션 저장 실패", err)
			}
		}

		c.Set(workspaceKey, ws)
		return next(c)
	}
}

func current(c echo.Context) *workspace.Session {
	return c.Get(workspaceKey).(*workspace.Session)
}

func (h *StudioHandler) fail(c echo.Context, msg string, err error) error {
	apperrors.LogError(h.logger, err, msg, zap.String("path", c.Path()))
	return c.JSON(apperrors.ToHTTPStatus(apperrors.CodeOf(err)), map[string]string{
		"error": err.Error(),
	})
}

func badRequest(message string, err error) error {
	return apperrors.NewAppError(apperrors.ErrInvalidArgument, message, err)
}

func pathID(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return 0, badRequest("Invalid id", err)
	}
	return id, nil
}

func accepted(c echo.Context, workflow string) error {
	return c.JSON(http.StatusAccepted, map[string]string{"status": "accepted", "workflow": workflow})
}

// EndSession 세션을 종료하고 진행 중인 생성 결과를 버립니다
func (h *StudioHandler) EndSession(c echo.Context) error {
	ws := current(c)
	h.registry.Close(ws.ID)

	sess, _ := session.Get(studioCookie, c)
	sess.Options.MaxAge = -1
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		return h.fail(c, "세션 쿠키 삭제 실패", err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ---------------------------------------------------------------------------
// 디자인
// ---------------------------------------------------------------------------

type headlineRequest struct {
	Headline string `json:"headline"`
}

type promptRequest struct {
	FullPrompt string `json:"fullPrompt"`
}

// ListDesigns 현재 배치의 디자인과 이미지 상태
func (h *StudioHandler) ListDesigns(c echo.Context) error {
	return c.JSON(http.StatusOK, current(c).Store.GenerationResults())
}

// GenerateDesigns 디자인 3종 생성을 백그라운드로 시작합니다
func (h *StudioHandler) GenerateDesigns(c echo.Context) error {
	var req headlineRequest
	if err := c.Bind(&req); err != nil || req.Headline == "" {
		return h.fail(c, "잘못된 디자인 요청", badRequest("headline is required", err))
	}

	ws := current(c)
	if err := ws.Go("designs", func(ctx context.Context) error {
		return ws.Orchestrator.GenerateDesigns(ctx, req.Headline)
	}); err != nil {
		return h.fail(c, "디자인 생성 시작 실패", err)
	}
	return accepted(c, "designs")
}

// RegenerateDesign 디자인 하나를 새 프롬프트로 다시 생성합니다
func (h *StudioHandler) RegenerateDesign(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return h.fail(c, "잘못된 디자인 ID", err)
	}
	var req promptRequest
	if err := c.Bind(&req); err != nil {
		return h.fail(c, "잘못된 재생성 요청", badRequest("Invalid request body", err))
	}

	ws := current(c)
	if err := ws.Orchestrator.RegenerateDesign(ws.Context(), id, req.FullPrompt); err != nil {
		return h.fail(c, "디자인 재생성 실패", err)
	}
	result, _ := ws.Store.GenerationResult(id)
	return c.JSON(http.StatusOK, result)
}

// SaveDesign 완성된 디자인을 캘린더에 저장합니다
func (h *StudioHandler) SaveDesign(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return h.fail(c, "잘못된 디자인 ID", err)
	}
	item, err := current(c).Orchestrator.SaveDesign(id)
	if err != nil {
		return h.fail(c, "디자인 저장 실패", err)
	}
	return c.JSON(http.StatusCreated, item)
}

// ---------------------------------------------------------------------------
// 캐러셀
// ---------------------------------------------------------------------------

type carouselRequest struct {
	DesignID int `json:"designId"`
}

type slideTextRequest struct {
	Text string `json:"text"`
}

type carouselResponse struct {
	Design *entity.DesignPrompt   `json:"design"`
	Slides []entity.CarouselSlide `json:"slides"`
}

// GetCarousel 현재 캐러셀 상태
func (h *StudioHandler) GetCarousel(c echo.Context) error {
	design, slides, _ := current(c).Store.Carousel()
	if slides == nil {
		slides = []entity.CarouselSlide{}
	}
	return c.JSON(http.StatusOK, carouselResponse{Design: design, Slides: slides})
}

// StartCarousel 디자인을 기준으로 캐러셀 문구를 생성합니다
func (h *StudioHandler) StartCarousel(c echo.Context) error {
	var req carouselRequest
	if err := c.Bind(&req); err != nil {
		return h.fail(c, "잘못된 캐러셀 요청", badRequest("Invalid request body", err))
	}

	ws := current(c)
	slides, err := ws.Orchestrator.StartCarousel(ws.Context(), req.DesignID)
	if err != nil {
		return h.fail(c, "캐러셀 시작 실패", err)
	}
	return c.JSON(http.StatusOK, slides)
}

// GenerateCarousel 슬라이드 이미지 생성을 백그라운드로 시작합니다
func (h *StudioHandler) GenerateCarousel(c echo.Context) error {
	ws := current(c)
	if design, slides, _ := ws.Store.Carousel(); design == nil || len(slides) == 0 {
		return h.fail(c, "캐러셀 없음", orchestrator.ErrNotFound)
	}
	if err := ws.Go("carousel", ws.Orchestrator.GenerateCarousel); err != nil {
		return h.fail(c, "캐러셀 생성 시작 실패", err)
	}
	return accepted(c, "carousel")
}

// EditSlide 슬라이드 문구를 수정합니다
func (h *StudioHandler) EditSlide(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return h.fail(c, "잘못된 슬라이드 ID", err)
	}
	var req slideTextRequest
	if err := c.Bind(&req); err != nil {
		return h.fail(c, "잘못된 슬라이드 요청", badRequest("Invalid request body", err))
	}
	if err := current(c).Orchestrator.EditSlideText(id, req.Text); err != nil {
		return h.fail(c, "슬라이드 수정 실패", err)
	}
	return c.JSON(http.StatusOK, current(c).Store.Slides())
}

// RegenerateSlide 슬라이드 하나를 다시 생성합니다
func (h *StudioHandler) RegenerateSlide(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return h.fail(c, "잘못된 슬라이드 ID", err)
	}
	ws := current(c)
	if err := ws.Orchestrator.RegenerateSlide(ws.Context(), id); err != nil {
		return h.fail(c, "슬라이드 재생성 실패", err)
	}
	return c.JSON(http.StatusOK, ws.Store.Slides())
}

// SaveSlide 슬라이드 하나를 저장합니다
func (h *StudioHandler) SaveSlide(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return h.fail(c, "잘못된 슬라이드 ID", err)
	}
	item, err := current(c).Orchestrator.SaveSlide(id)
	if err != nil {
		return h.fail(c, "슬라이드 저장 실패", err)
	}
	return c.JSON(http.StatusCreated, item)
}

// SaveAllSlides 완성된 슬라이드를 모두 저장합니다
func (h *StudioHandler) SaveAllSlides(c echo.Context) error {
	items, err := current(c).Orchestrator.SaveAllSlides()
	if err != nil {
		return h.fail(c, "슬라이드 일괄 저장 실패", err)
	}
	return c.JSON(http.StatusCreated, items)
}

// ---------------------------------------------------------------------------
// 글
// ---------------------------------------------------------------------------

type contentRequest struct {
	Topic    string `json:"topic"`
	Platform string `json:"platform"`
	Content  string `json:"content,omitempty"`
}

type refineRequest struct {
	OriginalContent string `json:"originalContent"`
	Feedback        string `json:"feedback"`
	Platform        string `json:"platform"`
}

// WriteContent 플랫폼 스타일 글을 작성합니다
func (h *StudioHandler) WriteContent(c echo.Context) error {
	var req contentRequest
	if err := c.Bind(&req); err != nil {
		return h.fail(c, "잘못된 글 요청", badRequest("Invalid request body", err))
	}
	ws := current(c)
	content, err := ws.Orchestrator.WriteContent(ws.Context(), req.Topic, req.Platform)
	if err != nil {
		return h.fail(c, "글 작성 실패", err)
	}
	return c.JSON(http.StatusOK, entity.ContentResponse{Content: content})
}

// RefineContent 피드백으로 글을 수정합니다
func (h *StudioHandler) RefineContent(c echo.Context) error {
	var req refineRequest
	if err := c.Bind(&req); err != nil {
		return h.fail(c, "잘못된 수정 요청", badRequest("Invalid request body", err))
	}
	ws := current(c)
	content, err := ws.Orchestrator.RefineContent(ws.Context(), req.OriginalContent, req.Feedback, req.Platform)
	if err != nil {
		return h.fail(c, "글 수정 실패", err)
	}
	return c.JSON(http.StatusOK, entity.ContentResponse{Content: content})
}

// SaveContent 작성한 글을 캘린더에 저장합니다
func (h *StudioHandler) SaveContent(c echo.Context) error {
	var req contentRequest
	if err := c.Bind(&req); err != nil {
		return h.fail(c, "잘못된 저장 요청", badRequest("Invalid request body", err))
	}
	item, err := current(c).Orchestrator.SaveContent(req.Topic, req.Platform, req.Content)
	if err != nil {
		return h.fail(c, "글 저장 실패", err)
	}
	return c.JSON(http.StatusCreated, item)
}

// ---------------------------------------------------------------------------
// 트렌드와 아이디어
// ---------------------------------------------------------------------------

type ideaRequest struct {
	Text string `json:"text"`
}

type ideasResponse struct {
	Approved  []string `json:"approved"`
	Completed []string `json:"completed"`
}

type trendsResponse struct {
	entity.TrendReport
	Error string `json:"error,omitempty"`
}

// ResearchTrends 트렌드 키워드를 조회합니다. 실패 시에도 빈 목록을 함께 반환합니다
func (h *StudioHandler) ResearchTrends(c echo.Context) error {
	ws := current(c)
	report, err := ws.Orchestrator.ResearchTrends(ws.Context())
	if err != nil {
		apperrors.LogError(h.logger, err, "트렌드 조회 실패")
		return c.JSON(apperrors.ToHTTPStatus(apperrors.CodeOf(err)), trendsResponse{
			TrendReport: report,
			Error:       err.Error(),
		})
	}
	return c.JSON(http.StatusOK, trendsResponse{TrendReport: report})
}

// ListIdeas 승인한 아이디어와 완료 여부
func (h *StudioHandler) ListIdeas(c echo.Context) error {
	store := current(c).Store
	approved := store.ApprovedIdeas()
	completed := make([]string, 0, len(approved))
	for _, idea := range approved {
		if store.IsIdeaCompleted(idea) {
			completed = append(completed, idea)
		}
	}
	if approved == nil {
		approved = []string{}
	}
	return c.JSON(http.StatusOK, ideasResponse{Approved: approved, Completed: completed})
}

// FreshIdeas 승인하지 않은 헤드라인 후보
func (h *StudioHandler) FreshIdeas(c echo.Context) error {
	ws := current(c)
	ideas, err := ws.Orchestrator.FreshIdeas(ws.Context())
	if err != nil {
		return h.fail(c, "아이디어 조회 실패", err)
	}
	return c.JSON(http.StatusOK, ideas)
}

// ApproveIdea 아이디어를 승인 목록에 추가합니다
func (h *StudioHandler) ApproveIdea(c echo.Context) error {
	var req ideaRequest
	if err := c.Bind(&req); err != nil || req.Text == "" {
		return h.fail(c, "잘못된 아이디어 요청", badRequest("text is required", err))
	}
	store := current(c).Store
	store.ApproveIdea(req.Text)
	return c.JSON(http.StatusOK, store.ApprovedIdeas())
}

// DismissIdea ?text= 아이디어를 승인 목록에서 제거합니다
func (h *StudioHandler) DismissIdea(c echo.Context) error {
	text := c.QueryParam("text")
	if text == "" {
		return h.fail(c, "잘못된 아이디어 요청", badRequest("text is required", nil))
	}
	store := current(c).Store
	store.DismissIdea(text)
	return c.JSON(http.StatusOK, store.ApprovedIdeas())
}

// RunWorkflow 아이디어로 디자인 생성을 시작합니다
func (h *StudioHandler) RunWorkflow(c echo.Context) error {
	var req ideaRequest
	if err := c.Bind(&req); err != nil || req.Text == "" {
		return h.fail(c, "잘못된 워크플로 요청", badRequest("text is required", err))
	}
	ws := current(c)
	if err := ws.Go("workflow", func(ctx context.Context) error {
		return ws.Orchestrator.RunWorkflow(ctx, req.Text)
	}); err != nil {
		return h.fail(c, "워크플로 시작 실패", err)
	}
	return accepted(c, "workflow")
}

// ---------------------------------------------------------------------------
// 캘린더
// ---------------------------------------------------------------------------

type scheduleRequest struct {
	Date string `json:"date"`
}

// ListCalendar 캘린더 항목. ?date=YYYY-MM-DD 또는 ?staged=true 로 필터링합니다
func (h *StudioHandler) ListCalendar(c echo.Context) error {
	store := current(c).Store
	var items []entity.CalendarItem
	switch {
	case c.QueryParam("date") != "":
		date := c.QueryParam("date")
		if err := entity.ValidateDate(date); err != nil {
			return h.fail(c, "잘못된 날짜", badRequest(err.Error(), err))
		}
		items = store.OnDate(date)
	case c.QueryParam("staged") == "true":
		items = store.Staged()
	case c.QueryParam("scheduled") == "true":
		items = store.Scheduled()
	default:
		items = store.CalendarItems()
	}
	if items == nil {
		items = []entity.CalendarItem{}
	}
	return c.JSON(http.StatusOK, items)
}

// AddCalendarItem 항목을 직접 추가합니다
func (h *StudioHandler) AddCalendarItem(c echo.Context) error {
	var draft entity.CalendarDraft
	if err := c.Bind(&draft); err != nil {
		return h.fail(c, "잘못된 캘린더 요청", badRequest("Invalid request body", err))
	}
	if err := h.validate.Struct(draft); err != nil {
		return h.fail(c, "잘못된 캘린더 요청", badRequest("Invalid calendar item", err))
	}
	item, err := current(c).Store.AddCalendarItem(draft)
	if err != nil {
		return h.fail(c, "캘린더 추가 실패", err)
	}
	return c.JSON(http.StatusCreated, item)
}

// UpdateCalendarItem 항목을 교체합니다
func (h *StudioHandler) UpdateCalendarItem(c echo.Context) error {
	var item entity.CalendarItem
	if err := c.Bind(&item); err != nil {
		return h.fail(c, "잘못된 캘린더 요청", badRequest("Invalid request body", err))
	}
	item.ID = c.Param("id")
	if err := h.validate.Struct(item); err != nil {
		return h.fail(c, "잘못된 캘린더 요청", badRequest("Invalid calendar item", err))
	}
	store := current(c).Store
	if err := store.UpdateCalendarItem(item); err != nil {
		return h.fail(c, "캘린더 수정 실패", err)
	}
	return c.JSON(http.StatusOK, findItem(store.CalendarItems(), item.ID))
}

// DeleteCalendarItem 항목을 삭제합니다
func (h *StudioHandler) DeleteCalendarItem(c echo.Context) error {
	current(c).Store.DeleteCalendarItem(c.Param("id"))
	return c.NoContent(http.StatusNoContent)
}

// Schedule 항목에 날짜를 지정합니다
func (h *StudioHandler) Schedule(c echo.Context) error {
	var req scheduleRequest
	if err := c.Bind(&req); err != nil {
		return h.fail(c, "잘못된 예약 요청", badRequest("Invalid request body", err))
	}
	store := current(c).Store
	id := c.Param("id")
	if err := store.Schedule(id, req.Date); err != nil {
		return h.fail(c, "예약 실패", err)
	}
	return c.JSON(http.StatusOK, findItem(store.CalendarItems(), id))
}

// Unschedule 항목을 staged 상태로 되돌립니다
func (h *StudioHandler) Unschedule(c echo.Context) error {
	store := current(c).Store
	id := c.Param("id")
	if err := store.Unschedule(id); err != nil {
		return h.fail(c, "예약 해제 실패", err)
	}
	return c.JSON(http.StatusOK, findItem(store.CalendarItems(), id))
}

func findItem(items []entity.CalendarItem, id string) entity.CalendarItem {
	item, _ := lo.Find(items, func(i entity.CalendarItem) bool { return i.ID == id })
	return item
}
