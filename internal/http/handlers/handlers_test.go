package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/beyondchart/go-study-backend/internal/ai"
	"github.com/beyondchart/go-study-backend/internal/domain"
	"github.com/beyondchart/go-study-backend/internal/services"
)

// ---------- flexible service stubs ----------

type stubAuthSvc struct {
	register func(context.Context, string, string, string) (*domain.User, string, error)
	login    func(context.Context, string, string) (*domain.User, string, error)
}

func (s stubAuthSvc) Register(ctx context.Context, name, email, pw string) (*domain.User, string, error) {
	if s.register != nil {
		return s.register(ctx, name, email, pw)
	}
	return &domain.User{ID: "u1", Name: name, Email: email}, "tok", nil
}

func (s stubAuthSvc) Login(ctx context.Context, email, pw string) (*domain.User, string, error) {
	if s.login != nil {
		return s.login(ctx, email, pw)
	}
	return &domain.User{ID: "u1", Name: "Maria", Email: email}, "tok", nil
}

type stubPdfSvc struct {
	upload func(context.Context, string, string, string, io.Reader) (*domain.Pdf, error)
	list   func(context.Context, string) ([]domain.Pdf, []domain.Pdf, error)
	get    func(context.Context, string, string) (*domain.Pdf, error)
}

func (s stubPdfSvc) Upload(ctx context.Context, uid, name, ct string, r io.Reader) (*domain.Pdf, error) {
	if s.upload != nil {
		return s.upload(ctx, uid, name, ct, r)
	}
	return &domain.Pdf{ID: "p1", OriginalName: name}, nil
}

func (s stubPdfSvc) List(ctx context.Context, uid string) ([]domain.Pdf, []domain.Pdf, error) {
	if s.list != nil {
		return s.list(ctx, uid)
	}
	return nil, nil, nil
}

func (s stubPdfSvc) Get(ctx context.Context, uid, id string) (*domain.Pdf, error) {
	if s.get != nil {
		return s.get(ctx, uid, id)
	}
	return &domain.Pdf{ID: id}, nil
}

type stubChatSvc struct {
	create func(context.Context, string, string, *string) (*domain.Chat, error)
	list   func(context.Context, string) ([]domain.Chat, error)
	get    func(context.Context, string, string) (*domain.Chat, error)
	del    func(context.Context, string, string) error
	answer func(context.Context, string, string, string) (*services.AnswerResult, error)
}

func (s stubChatSvc) Create(ctx context.Context, uid, title string, pdfID *string) (*domain.Chat, error) {
	if s.create != nil {
		return s.create(ctx, uid, title, pdfID)
	}
	return &domain.Chat{ID: "c1", UserID: uid, Title: title, PdfID: pdfID}, nil
}

func (s stubChatSvc) List(ctx context.Context, uid string) ([]domain.Chat, error) {
	if s.list != nil {
		return s.list(ctx, uid)
	}
	return nil, nil
}

func (s stubChatSvc) Get(ctx context.Context, uid, id string) (*domain.Chat, error) {
	if s.get != nil {
		return s.get(ctx, uid, id)
	}
	return &domain.Chat{ID: id, UserID: uid}, nil
}

func (s stubChatSvc) Delete(ctx context.Context, uid, id string) error {
	if s.del != nil {
		return s.del(ctx, uid, id)
	}
	return nil
}

func (s stubChatSvc) Answer(ctx context.Context, uid, id, q string) (*services.AnswerResult, error) {
	if s.answer != nil {
		return s.answer(ctx, uid, id, q)
	}
	return &services.AnswerResult{Answer: "ok", Chat: &domain.Chat{ID: id}}, nil
}

type stubQuizSvc struct {
	generate func(context.Context, string, string, int) ([]services.PageQuiz, error)
	submit   func(context.Context, string, *string, []services.SubmittedQuestion, map[string]any) (*services.SubmitResult, error)
	history  func(context.Context, string, int) ([]services.Attempt, error)
}

func (s stubQuizSvc) Generate(ctx context.Context, uid, pdfID string, count int) ([]services.PageQuiz, error) {
	if s.generate != nil {
		return s.generate(ctx, uid, pdfID, count)
	}
	return nil, nil
}

func (s stubQuizSvc) Submit(ctx context.Context, uid string, pdfID *string, qs []services.SubmittedQuestion, ans map[string]any) (*services.SubmitResult, error) {
	if s.submit != nil {
		return s.submit(ctx, uid, pdfID, qs, ans)
	}
	return &services.SubmitResult{}, nil
}

func (s stubQuizSvc) History(ctx context.Context, uid string, limit int) ([]services.Attempt, error) {
	if s.history != nil {
		return s.history(ctx, uid, limit)
	}
	return nil, nil
}

type stubDashSvc struct {
	summarize func(context.Context, string) (*services.Summary, error)
}

func (s stubDashSvc) Summarize(ctx context.Context, uid string) (*services.Summary, error) {
	if s.summarize != nil {
		return s.summarize(ctx, uid)
	}
	return &services.Summary{}, nil
}

type stubVideoSvc struct {
	recommend func(context.Context, string, string) ([]ai.Video, string, error)
}

func (s stubVideoSvc) Recommend(ctx context.Context, uid, pdfID string) ([]ai.Video, string, error) {
	if s.recommend != nil {
		return s.recommend(ctx, uid, pdfID)
	}
	return nil, "", nil
}

// ---------- harness ----------

type handlerOverrides struct {
	auth    AuthService
	pdf     PdfService
	chat    ChatService
	quiz    QuizService
	dash    DashboardService
	video   VideoService
	db      *gorm.DB
	idemTTL time.Duration
}

// newTestHandlers builds a Handlers value with stub defaults, replacing any
// service set in o.
func newTestHandlers(o handlerOverrides) *Handlers {
	h := New(stubAuthSvc{}, stubPdfSvc{}, stubChatSvc{}, stubQuizSvc{}, stubDashSvc{}, stubVideoSvc{}, o.db, o.idemTTL)
	if o.auth != nil {
		h.authSvc = o.auth
	}
	if o.pdf != nil {
		h.pdfSvc = o.pdf
	}
	if o.chat != nil {
		h.chatSvc = o.chat
	}
	if o.quiz != nil {
		h.quizSvc = o.quiz
	}
	if o.dash != nil {
		h.dashSvc = o.dash
	}
	if o.video != nil {
		h.videoSvc = o.video
	}
	return h
}

// asUser simulates the auth middleware attaching a user to the context.
func asUser(id string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", id)
		c.Next()
	}
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return out
}

func TestUserIDHelper(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c := gin.CreateTestContextOnly(httptest.NewRecorder(), gin.New())
	if got := userID(c); got != "" {
		t.Fatalf("unauthenticated userID = %q", got)
	}
	c.Set("userID", "u1")
	if got := userID(c); got != "u1" {
		t.Fatalf("ctx userID = %q", got)
	}
	c.Set("userID", 123)
	if got := userID(c); got != "" {
		t.Fatalf("wrong-type userID = %q", got)
	}
}

func TestFailEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/boom", func(c *gin.Context) {
		c.Header("X-Request-ID", "req-9")
		Fail(c, http.StatusNotFound, ErrCodeNotFound, "Chat not found")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d", w.Code)
	}
	out := decode[ErrorResponse](t, w)
	if out.Code != ErrCodeNotFound || out.Message != "Chat not found" || out.RequestID != "req-9" {
		t.Fatalf("envelope = %#v", out)
	}
}
