package ai

import (
	"context"
	"strings"
	"time"

	"github.com/gerunddev/marky/internal/convert"
	"github.com/gerunddev/marky/internal/logger"
)

// Service turns model replies into well-formed mindmap markdown
type Service struct {
	completer Completer
	model     string
	log       *logger.Logger
}

// NewService creates a service; model is only used for logging
func NewService(c Completer, model string, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Discard()
	}
	return &Service{completer: c, model: model, log: log}
}

// Create generates a new mindmap for a request
func (s *Service) Create(ctx context.Context, request string) (string, error) {
	return s.run(ctx, "create", request, CreatePrompt(request))
}

// ConvertText organizes free text into a mindmap
func (s *Service) ConvertText(ctx context.Context, text string) (string, error) {
	return s.run(ctx, "convert", text, ConvertTextPrompt(text))
}

// Improve reorganizes an existing mindmap
func (s *Service) Improve(ctx context.Context, markdown string) (string, error) {
	return s.run(ctx, "improve", markdown, ImprovePrompt(markdown))
}

// Suggest proposes additional branches for an existing mindmap
func (s *Service) Suggest(ctx context.Context, markdown string) (string, error) {
	return s.run(ctx, "suggest", markdown, SuggestPrompt(markdown))
}

func (s *Service) run(ctx context.Context, kind, input, prompt string) (string, error) {
	if strings.TrimSpace(input) == "" {
		return "", ErrEmptyPrompt
	}

	start := time.Now()
	reply, err := s.completer.Complete(ctx, prompt, DefaultSystemPrompt)
	s.log.AIRequest(kind, s.model, time.Since(start), err)
	if err != nil {
		return "", err
	}

	return Normalize(reply), nil
}

// Normalize strips a surrounding code fence from a reply and re-serializes
// it so the result obeys the heading depth policy
func Normalize(reply string) string {
	return convert.Serialize(convert.Parse(stripFence(reply)))
}

func stripFence(text string) string {
	text = strings.TrimSpace(text)
	for _, prefix := range []string{"```markdown", "```md", "```"} {
		if strings.HasPrefix(text, prefix) {
			text = strings.TrimPrefix(text, prefix)
			text = strings.TrimSuffix(strings.TrimSpace(text), "```")
			break
		}
	}
	return strings.TrimSpace(text)
}
