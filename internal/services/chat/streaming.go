// File: internal/services/chat/streaming.go
package chat

import (
	"context"
	"strings"
)

// StreamMessage runs the SendMessage pipeline but forwards reply tokens to
// onDelta as they arrive. The reply is stored once the stream ends. If
// onDelta fails (client went away) the partial reply is still stored.
func (s *Service) StreamMessage(
	ctx context.Context,
	userID, sessionID uint,
	text string,
	onDelta func(string) error,
) (*Exchange, error) {
	s.logger.Info("starting stream chat", "user_id", userID, "session_id", sessionID)

	turn, err := s.beginTurn(ctx, "stream_message", userID, sessionID, text)
	if err != nil {
		return nil, err
	}

	var fullReply strings.Builder
	llmCtx, cancel := context.WithTimeout(ctx, s.config.LLMTimeout)
	defer cancel()
	streamErr := s.llm.StreamComplete(llmCtx, turn.request, func(token string) error {
		fullReply.WriteString(token)
		return onDelta(token)
	})

	reply := fullReply.String()
	if streamErr != nil && strings.TrimSpace(reply) != "" {
		s.logger.Warn("stream interrupted, keeping partial reply", "session_id", sessionID, "error", streamErr)
		streamErr = nil
	}
	return s.finishTurn(ctx, "stream_message", turn, reply, streamErr)
}
