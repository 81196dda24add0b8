package chat

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iyunix/go-kanoon/internal/domain"
	chatrepo "github.com/iyunix/go-kanoon/internal/repository/chat"
	"github.com/iyunix/go-kanoon/internal/repository/message"
	"github.com/iyunix/go-kanoon/internal/services"
	"github.com/iyunix/go-kanoon/internal/services/ai"
	"github.com/iyunix/go-kanoon/internal/testutil"
)

type fakeLLM struct {
	mu       sync.Mutex
	reply    string
	deltas   []string
	err      error
	requests []ai.CompletionRequest
}

func (f *fakeLLM) Complete(_ context.Context, req ai.CompletionRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	return f.reply, f.err
}

func (f *fakeLLM) StreamComplete(_ context.Context, req ai.CompletionRequest, onDelta func(string) error) error {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	deltas, err := f.deltas, f.err
	f.mu.Unlock()
	for _, d := range deltas {
		if cbErr := onDelta(d); cbErr != nil {
			return cbErr
		}
	}
	return err
}

func (f *fakeLLM) HealthCheck(context.Context) error { return nil }

func (f *fakeLLM) lastRequest() ai.CompletionRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

type fakeSearch struct {
	enabled bool
	refs    []domain.LegalReference
	err     error
	queries []string
}

func (f *fakeSearch) Enabled() bool { return f.enabled }

func (f *fakeSearch) TopDocuments(_ context.Context, query string, n int) ([]domain.LegalReference, error) {
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}
	if len(f.refs) > n {
		return f.refs[:n], nil
	}
	return f.refs, nil
}

type fixture struct {
	svc    *Service
	llm    *fakeLLM
	search *fakeSearch
	user   *domain.User
	other  *domain.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	llm := &fakeLLM{reply: "Under Section 420 IPC cheating is punishable."}
	search := &fakeSearch{}
	svc, err := NewService(DefaultConfig(), chatrepo.NewSessionRepository(db), message.NewMessageRepository(db), llm, search, services.NoOpLogger{})
	require.NoError(t, err)
	return &fixture{
		svc:    svc,
		llm:    llm,
		search: search,
		user:   testutil.CreateUser(t, db, &domain.User{Name: "Asha", Email: "asha@example.in"}, "secret123"),
		other:  testutil.CreateUser(t, db, &domain.User{Name: "Ravi", Email: "ravi@example.in"}, "secret123"),
	}
}

func TestCreateSession_DefaultTitle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	session, err := f.svc.CreateSession(ctx, f.user.ID, "  ")
	require.NoError(t, err)
	assert.Regexp(t, `^Chat Session \d{4}-\d{2}-\d{2} \d{2}:\d{2}$`, session.SessionTitle)

	named, err := f.svc.CreateSession(ctx, f.user.ID, "Tenancy dispute")
	require.NoError(t, err)
	assert.Equal(t, "Tenancy dispute", named.SessionTitle)

	sessions, err := f.svc.ListSessions(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Len(t, sessions, 2)
}

func TestSendMessage_StoresExchange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	session, err := f.svc.CreateSession(ctx, f.user.ID, "Fraud")
	require.NoError(t, err)

	ex, err := f.svc.SendMessage(ctx, f.user.ID, session.ID, "What is the punishment for cheating?")
	require.NoError(t, err)
	assert.Equal(t, domain.MessageTypeUser, ex.UserMessage.MessageType)
	assert.Equal(t, f.llm.reply, ex.AssistantMessage.Content)
	assert.Equal(t, []string{"IPC", "Section"}, ex.AssistantMessage.Metadata.Data().Sources)

	req := f.llm.lastRequest()
	assert.Equal(t, SystemPrompt, req.System)
	assert.Empty(t, req.History)
	assert.InDelta(t, 0.3, req.Temperature, 0.001)

	// Second turn replays the first one as history.
	_, err = f.svc.SendMessage(ctx, f.user.ID, session.ID, "And for attempt?")
	require.NoError(t, err)
	history := f.llm.lastRequest().History
	require.Len(t, history, 2)
	assert.Equal(t, ai.RoleUser, history[0].Role)
	assert.Equal(t, ai.RoleAssistant, history[1].Role)

	_, msgs, err := f.svc.GetMessages(ctx, f.user.ID, session.ID)
	require.NoError(t, err)
	assert.Len(t, msgs, 4)

	sessions, err := f.svc.ListSessions(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, sessions[0].MessageCount)
}

func TestSendMessage_UsesLegalReferences(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.search.enabled = true
	f.search.refs = []domain.LegalReference{
		{Title: "State v. Kumar", Source: "Delhi High Court", Link: "https://indiankanoon.org/doc/7/", Excerpt: "cheating and dishonest inducement"},
	}
	session, err := f.svc.CreateSession(ctx, f.user.ID, "")
	require.NoError(t, err)

	ex, err := f.svc.SendMessage(ctx, f.user.ID, session.ID, "Explain section 420 of IPC")
	require.NoError(t, err)
	assert.Contains(t, f.llm.lastRequest().Prompt, "Title: State v. Kumar")
	assert.Contains(t, f.llm.lastRequest().Prompt, "Excerpt: cheating and dishonest inducement")

	refs := ex.AssistantMessage.Metadata.Data().References
	require.Len(t, refs, 1)
	assert.Equal(t, "https://indiankanoon.org/doc/7/", refs[0].Link)
}

func TestSendMessage_SkipsSearchForNonLegalText(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.search.enabled = true
	session, err := f.svc.CreateSession(ctx, f.user.ID, "")
	require.NoError(t, err)

	_, err = f.svc.SendMessage(ctx, f.user.ID, session.ID, "hello there")
	require.NoError(t, err)
	assert.Empty(t, f.search.queries)
}

func TestSendMessage_SearchFailureIsIgnored(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.search.enabled = true
	f.search.err = errors.New("search down")
	session, err := f.svc.CreateSession(ctx, f.user.ID, "")
	require.NoError(t, err)

	ex, err := f.svc.SendMessage(ctx, f.user.ID, session.ID, "Indian contract act question")
	require.NoError(t, err)
	assert.Empty(t, ex.AssistantMessage.Metadata.Data().References)
}

func TestSendMessage_AIFailureStoresApology(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.llm.err = errors.New("upstream 500")
	session, err := f.svc.CreateSession(ctx, f.user.ID, "")
	require.NoError(t, err)

	ex, err := f.svc.SendMessage(ctx, f.user.ID, session.ID, "Can I get bail?")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAIUnavailable)
	require.NotNil(t, ex)
	assert.Equal(t, ApologyMessage, ex.AssistantMessage.Content)

	_, msgs, err := f.svc.GetMessages(ctx, f.user.ID, session.ID)
	require.NoError(t, err)
	assert.Len(t, msgs, 2)
}

func TestSendMessage_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	session, err := f.svc.CreateSession(ctx, f.user.ID, "")
	require.NoError(t, err)

	_, err = f.svc.SendMessage(ctx, f.user.ID, session.ID, "   ")
	assert.True(t, IsValidationError(err))

	long := make([]rune, DefaultConfig().MaxMessageLength+1)
	for i := range long {
		long[i] = 'a'
	}
	_, err = f.svc.SendMessage(ctx, f.user.ID, session.ID, string(long))
	assert.True(t, IsValidationError(err))
}

func TestSessionOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	session, err := f.svc.CreateSession(ctx, f.user.ID, "")
	require.NoError(t, err)

	_, _, err = f.svc.GetMessages(ctx, f.other.ID, session.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = f.svc.SendMessage(ctx, f.other.ID, session.ID, "question about law")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	assert.ErrorIs(t, f.svc.DeleteSession(ctx, f.other.ID, session.ID), ErrSessionNotFound)
	require.NoError(t, f.svc.DeleteSession(ctx, f.user.ID, session.ID))

	_, _, err = f.svc.GetMessages(ctx, f.user.ID, session.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound, "deleted sessions are hidden")
}

func TestStreamMessage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.llm.deltas = []string{"Article 21 ", "protects life."}
	session, err := f.svc.CreateSession(ctx, f.user.ID, "")
	require.NoError(t, err)

	var got []string
	ex, err := f.svc.StreamMessage(ctx, f.user.ID, session.ID, "What does article 21 say?", func(d string) error {
		got = append(got, d)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, f.llm.deltas, got)
	assert.Equal(t, "Article 21 protects life.", ex.AssistantMessage.Content)
	assert.Equal(t, []string{"Article"}, ex.AssistantMessage.Metadata.Data().Sources)
}

func TestStreamMessage_FailureBeforeAnyToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.llm.err = errors.New("stream refused")
	session, err := f.svc.CreateSession(ctx, f.user.ID, "")
	require.NoError(t, err)

	ex, err := f.svc.StreamMessage(ctx, f.user.ID, session.ID, "question", func(string) error { return nil })
	assert.ErrorIs(t, err, ErrAIUnavailable)
	require.NotNil(t, ex)
	assert.Equal(t, ApologyMessage, ex.AssistantMessage.Content)
}

func TestQuickQuestion(t *testing.T) {
	f := newFixture(t)
	ans, err := f.svc.QuickQuestion(context.Background(), "What is Section 420 IPC?")
	require.NoError(t, err)
	assert.Equal(t, f.llm.reply, ans.Response)
	assert.Equal(t, []string{"IPC", "Section"}, ans.Sources)

	f.llm.err = errors.New("boom")
	_, err = f.svc.QuickQuestion(context.Background(), "again")
	assert.ErrorIs(t, err, ErrAIUnavailable)
}
