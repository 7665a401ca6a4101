package chat

import (
	"context"
	"log/slog"

	"github.com/funny-life2033/HyperDriveAI-backend/internal/infra/llm"
)

// UnimplementedEngineAnswer is the answer a room gets when its model's
// dispatch key has no registered provider. A registry miss is a normal
// outcome, not an error.
const UnimplementedEngineAnswer = "Engine not implemented yet"

// AnswerService turns a user question into a bot answer by dispatching to
// the provider registered for the room's model.
type AnswerService struct {
	registry *llm.Registry
	logger   *slog.Logger
}

// NewAnswerService creates an AnswerService.
func NewAnswerService(registry *llm.Registry, logger *slog.Logger) *AnswerService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnswerService{registry: registry, logger: logger}
}

// GenerateAnswer resolves the room's provider and generates an answer.
// The question is forwarded as-is, with the bot's behavior as system
// prompt; each turn is independent of earlier history. Upstream failures
// come back as *llm.UpstreamError for the handler to classify.
func (s *AnswerService) GenerateAnswer(ctx context.Context, room *Room, question string) (string, error) {
	identifier := room.Bot.Base.Model

	provider, ok := s.registry.Resolve(identifier)
	if !ok {
		return UnimplementedEngineAnswer, nil
	}

	answer, err := provider.Generate(ctx, room.Bot.Behavior, question)
	if err != nil {
		s.logger.Error("provider call failed",
			"provider", provider.Name(),
			"model", identifier,
			"room", room.ID,
			"err", err,
		)
		return "", err
	}
	return answer, nil
}
