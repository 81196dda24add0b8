package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/iyunix/go-kanoon/internal/auth"
	"github.com/iyunix/go-kanoon/internal/catalog"
	"github.com/iyunix/go-kanoon/internal/domain"
	"github.com/iyunix/go-kanoon/internal/ratelimit"
	chatrepo "github.com/iyunix/go-kanoon/internal/repository/chat"
	connrepo "github.com/iyunix/go-kanoon/internal/repository/connection"
	docrepo "github.com/iyunix/go-kanoon/internal/repository/document"
	"github.com/iyunix/go-kanoon/internal/repository/message"
	"github.com/iyunix/go-kanoon/internal/repository/reset"
	userrepo "github.com/iyunix/go-kanoon/internal/repository/user"
	"github.com/iyunix/go-kanoon/internal/services"
	"github.com/iyunix/go-kanoon/internal/services/ai"
	"github.com/iyunix/go-kanoon/internal/services/chat"
	"github.com/iyunix/go-kanoon/internal/services/documents"
	"github.com/iyunix/go-kanoon/internal/services/lawyers"
	"github.com/iyunix/go-kanoon/internal/services/user_services"
	"github.com/iyunix/go-kanoon/internal/storage"
	"github.com/iyunix/go-kanoon/internal/testutil"
	"github.com/iyunix/go-kanoon/web"
)

const testSecret = "handler-test-secret"

type fakeLLM struct {
	mu      sync.Mutex
	reply   string
	json    string
	deltas  []string
	err     error
	streamE error
}

func (f *fakeLLM) Complete(_ context.Context, req ai.CompletionRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	if req.JSON {
		return f.json, nil
	}
	return f.reply, nil
}

func (f *fakeLLM) StreamComplete(_ context.Context, _ ai.CompletionRequest, onDelta func(string) error) error {
	f.mu.Lock()
	deltas, err := f.deltas, f.streamE
	f.mu.Unlock()
	for _, d := range deltas {
		if cbErr := onDelta(d); cbErr != nil {
			return cbErr
		}
	}
	return err
}

func (f *fakeLLM) HealthCheck(context.Context) error { return nil }

type noSearch struct{}

func (noSearch) Enabled() bool { return false }
func (noSearch) TopDocuments(context.Context, string, int) ([]domain.LegalReference, error) {
	return nil, nil
}

type captureMailer struct {
	mu    sync.Mutex
	codes map[string]string
}

func (m *captureMailer) SendPasswordReset(_ context.Context, to, _, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.codes[to] = code
	return nil
}

func (m *captureMailer) code(email string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.codes[email]
}

type testEnv struct {
	t       *testing.T
	db      *gorm.DB
	handler http.Handler
	llm     *fakeLLM
	mailer  *captureMailer
	auth    *user_services.AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.NewDB(t)
	logger := services.NoOpLogger{}

	users := userrepo.NewGormUserRepository(db)
	conns := connrepo.NewConnectionRepository(db)
	store, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	llm := &fakeLLM{
		reply: "Under Section 420 IPC, cheating is punishable. Please consult a qualified lawyer.",
		json:  `{"summary":"A rental agreement.","key_points":["Rent is due monthly"],"important_sections":["Clause 4"],"legal_implications":["Binding"],"recommendations":["Keep a copy"]}`,
	}
	mailer := &captureMailer{codes: map[string]string{}}
	cat, err := catalog.Load()
	require.NoError(t, err)

	authSvc := user_services.NewAuthService(users, auth.NewMemoryRevoker(), user_services.NewLockoutService(logger), testSecret, time.Hour, logger)
	userSvc := user_services.NewUserService(users, logger)
	resetSvc := user_services.NewPasswordResetService(users, reset.NewGormResetRepository(db), mailer, logger)
	chatSvc, err := chat.NewService(chat.DefaultConfig(), chatrepo.NewSessionRepository(db), message.NewMessageRepository(db), llm, noSearch{}, logger)
	require.NoError(t, err)
	docCfg := documents.DefaultConfig()
	docCfg.MaxFileSize = 1 << 20
	docSvc := documents.NewService(docCfg, docrepo.NewDocumentRepository(db), store, llm, logger)
	lawyerSvc := lawyers.NewService(users, conns, cat, logger)

	pages, err := NewPageHandler(web.Templates)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)

	authLimiter := ratelimit.NewMemoryRateLimiter(ratelimit.DefaultAuthConfig())
	resetLimiter := ratelimit.NewMemoryRateLimiter(ratelimit.StrictAuthConfig())
	t.Cleanup(authLimiter.Close)
	t.Cleanup(resetLimiter.Close)

	h := NewRouter(RouterConfig{
		Auth:          NewAuthHandler(authSvc, userSvc, resetSvc, false, logger),
		Chat:          NewChatHandler(chatSvc, cat, logger),
		Documents:     NewDocumentHandler(docSvc, docCfg.MaxFileSize, logger),
		Lawyers:       NewLawyerHandler(lawyerSvc, logger),
		Health:        NewHealthHandler(sqlDB, logger),
		Log:           NewLogHandler(logger),
		Pages:         pages,
		Authenticator: authSvc,
		CORSOrigins:   []string{"http://localhost:3000"},
		AuthLimiter:   authLimiter,
		ResetLimiter:  resetLimiter,
		Static:        web.Static(),
	})

	return &testEnv{t: t, db: db, handler: h, llm: llm, mailer: mailer, auth: authSvc}
}

// user creates an account directly and returns it with a token.
func (e *testEnv) user(name, email string, userType domain.UserType) (*domain.User, string) {
	e.t.Helper()
	u := testutil.CreateUser(e.t, e.db, &domain.User{Name: name, Email: email, UserType: userType}, "secret123")
	token, err := auth.GenerateJWT(u.ID, string(u.UserType), []byte(testSecret), time.Hour)
	require.NoError(e.t, err)
	return u, token
}

func (e *testEnv) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	e.t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(e.t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}
