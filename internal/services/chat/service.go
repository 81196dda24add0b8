// File: internal/services/chat/service.go
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"

	"github.com/iyunix/go-kanoon/internal/domain"
	chatrepo "github.com/iyunix/go-kanoon/internal/repository/chat"
	"github.com/iyunix/go-kanoon/internal/repository/message"
	"github.com/iyunix/go-kanoon/internal/services/ai"
)

const dbSaveTimeout = 5 * time.Second

// Service runs the legal chat pipeline: history, legal search, completion and
// persistence.
type Service struct {
	config   *Config
	sessions chatrepo.SessionRepository
	messages message.MessageRepository
	llm      ai.CompletionProvider
	search   LegalSearcher
	logger   Logger
}

var _ Provider = (*Service)(nil)

func NewService(
	config *Config,
	sessions chatrepo.SessionRepository,
	messages message.MessageRepository,
	llm ai.CompletionProvider,
	search LegalSearcher,
	logger Logger,
) (*Service, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid chat config: %w", err)
	}
	if llm == nil {
		return nil, errors.New("completion provider is required")
	}
	return &Service{
		config:   config,
		sessions: sessions,
		messages: messages,
		llm:      llm,
		search:   search,
		logger:   logger,
	}, nil
}

func (s *Service) ListSessions(ctx context.Context, userID uint) ([]domain.ChatSession, error) {
	sessions, err := s.sessions.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, NewStorageError("list_sessions", "failed to fetch chat sessions", err)
	}
	return sessions, nil
}

// CreateSession opens a session. A blank title gets a timestamped default.
func (s *Service) CreateSession(ctx context.Context, userID uint, title string) (*domain.ChatSession, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		title = "Chat Session " + time.Now().Format("2006-01-02 15:04")
	}
	session, err := s.sessions.Create(ctx, &domain.ChatSession{UserID: userID, SessionTitle: title})
	if err != nil {
		return nil, NewStorageError("create_session", "failed to create chat session", err)
	}
	s.logger.Info("chat session created", "session_id", session.ID, "user_id", userID)
	return session, nil
}

func (s *Service) GetMessages(ctx context.Context, userID, sessionID uint) (*domain.ChatSession, []domain.ChatMessage, error) {
	session, err := s.ownedSession(ctx, "get_messages", userID, sessionID)
	if err != nil {
		return nil, nil, err
	}
	messages, err := s.messages.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, nil, NewStorageError("get_messages", "failed to fetch messages", err)
	}
	return session, messages, nil
}

func (s *Service) DeleteSession(ctx context.Context, userID, sessionID uint) error {
	if err := s.sessions.SoftDelete(ctx, sessionID, userID); err != nil {
		if errors.Is(err, chatrepo.ErrSessionNotFound) {
			return NewNotFoundError(userID, sessionID)
		}
		return NewStorageError("delete_session", "failed to delete chat session", err)
	}
	s.logger.Info("chat session deleted", "session_id", sessionID, "user_id", userID)
	return nil
}

// SendMessage stores the question, asks the model and stores the reply. When
// the model fails an apology is stored instead and the exchange is returned
// together with ErrAIUnavailable.
func (s *Service) SendMessage(ctx context.Context, userID, sessionID uint, text string) (*Exchange, error) {
	turn, err := s.beginTurn(ctx, "send_message", userID, sessionID, text)
	if err != nil {
		return nil, err
	}

	llmCtx, cancel := context.WithTimeout(ctx, s.config.LLMTimeout)
	defer cancel()
	reply, llmErr := s.llm.Complete(llmCtx, turn.request)

	return s.finishTurn(ctx, "send_message", turn, reply, llmErr)
}

// QuickQuestion answers a one-off question without storing anything.
func (s *Service) QuickQuestion(ctx context.Context, question string) (*QuickAnswer, error) {
	question, err := s.validateMessage("quick_question", question)
	if err != nil {
		return nil, err
	}

	refs := s.fetchReferences(ctx, question)
	llmCtx, cancel := context.WithTimeout(ctx, s.config.LLMTimeout)
	defer cancel()
	reply, err := s.llm.Complete(llmCtx, ai.CompletionRequest{
		System:      SystemPrompt,
		Prompt:      BuildPrompt(question, refs),
		Temperature: s.config.Temperature,
	})
	if err != nil {
		s.logger.Error("quick question completion failed", "error", err)
		return nil, NewAIError("quick_question", err)
	}

	return &QuickAnswer{
		Question:   question,
		Response:   reply,
		Sources:    ExtractSources(reply),
		References: refs,
	}, nil
}

// pendingTurn carries state between saving the question and saving the reply.
type pendingTurn struct {
	session     *domain.ChatSession
	userMessage *domain.ChatMessage
	references  []domain.LegalReference
	request     ai.CompletionRequest
}

func (s *Service) beginTurn(ctx context.Context, operation string, userID, sessionID uint, text string) (*pendingTurn, error) {
	text, err := s.validateMessage(operation, text)
	if err != nil {
		return nil, err
	}
	session, err := s.ownedSession(ctx, operation, userID, sessionID)
	if err != nil {
		return nil, err
	}

	var history []domain.ChatMessage
	if s.config.HistoryLimit > 0 {
		history, err = s.messages.RecentBySession(ctx, sessionID, s.config.HistoryLimit)
		if err != nil {
			return nil, NewStorageError(operation, "failed to load history", err)
		}
	}

	userMessage, err := s.messages.Create(ctx, &domain.ChatMessage{
		SessionID:   sessionID,
		MessageType: domain.MessageTypeUser,
		Content:     text,
	})
	if err != nil {
		return nil, NewStorageError(operation, "failed to save message", err)
	}

	refs := s.fetchReferences(ctx, text)
	return &pendingTurn{
		session:     session,
		userMessage: userMessage,
		references:  refs,
		request: ai.CompletionRequest{
			System:      SystemPrompt,
			History:     historyTurns(history),
			Prompt:      BuildPrompt(text, refs),
			Temperature: s.config.Temperature,
		},
	}, nil
}

func (s *Service) finishTurn(ctx context.Context, operation string, turn *pendingTurn, reply string, llmErr error) (*Exchange, error) {
	sessionID := turn.session.ID
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), dbSaveTimeout)
	defer cancel()

	assistant := &domain.ChatMessage{
		SessionID:   sessionID,
		MessageType: domain.MessageTypeAssistant,
	}
	failed := llmErr != nil || strings.TrimSpace(reply) == ""
	if failed {
		if llmErr == nil {
			llmErr = errors.New("empty reply")
		}
		s.logger.Error("chat completion failed", "operation", operation, "session_id", sessionID, "error", llmErr)
		assistant.Content = ApologyMessage
		assistant.Metadata = datatypes.NewJSONType(domain.MessageMetadata{Timestamp: time.Now().UTC()})
	} else {
		assistant.Content = reply
		assistant.Metadata = datatypes.NewJSONType(domain.MessageMetadata{
			Sources:    ExtractSources(reply),
			References: turn.references,
			Timestamp:  time.Now().UTC(),
		})
	}

	saved, err := s.messages.Create(saveCtx, assistant)
	if err != nil {
		return nil, NewStorageError(operation, "failed to save reply", err)
	}
	if err := s.sessions.Touch(saveCtx, sessionID, 2); err != nil {
		s.logger.Warn("failed to touch chat session", "session_id", sessionID, "error", err)
	}

	exchange := &Exchange{UserMessage: turn.userMessage, AssistantMessage: saved}
	if failed {
		return exchange, NewAIError(operation, llmErr)
	}
	s.logger.Info("chat reply stored", "session_id", sessionID, "reply_length", len(reply), "references", len(turn.references))
	return exchange, nil
}

// fetchReferences returns nil when search is off, the text does not look
// legal, or the search fails.
func (s *Service) fetchReferences(ctx context.Context, text string) []domain.LegalReference {
	if s.search == nil || !s.search.Enabled() || s.config.ReferenceCount == 0 || !IsIndianLawRelated(text) {
		return nil
	}
	searchCtx, cancel := context.WithTimeout(ctx, s.config.SearchTimeout)
	defer cancel()

	refs, err := s.search.TopDocuments(searchCtx, text, s.config.ReferenceCount)
	if err != nil {
		s.logger.Warn("legal search failed, answering without references", "error", err)
		return nil
	}
	return refs
}

func (s *Service) ownedSession(ctx context.Context, operation string, userID, sessionID uint) (*domain.ChatSession, error) {
	session, err := s.sessions.FindByIDAndUser(ctx, sessionID, userID)
	if err != nil {
		if errors.Is(err, chatrepo.ErrSessionNotFound) {
			return nil, NewNotFoundError(userID, sessionID)
		}
		return nil, NewStorageError(operation, "failed to load chat session", err)
	}
	return session, nil
}
