package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompleter struct {
	reply        string
	err          error
	prompt       string
	systemPrompt string
}

func (f *fakeCompleter) Complete(_ context.Context, prompt, systemPrompt string) (string, error) {
	f.prompt = prompt
	f.systemPrompt = systemPrompt
	return f.reply, f.err
}

func TestServiceOperations(t *testing.T) {
	tests := []struct {
		name     string
		call     func(*Service) (string, error)
		contains string
	}{
		{"create", func(s *Service) (string, error) { return s.Create(context.Background(), "learn go") }, `based on this request: "learn go"`},
		{"convert", func(s *Service) (string, error) { return s.ConvertText(context.Background(), "some notes") }, "Text to convert:\nsome notes"},
		{"improve", func(s *Service) (string, error) { return s.Improve(context.Background(), "# Map") }, "Current mindmap:\n# Map"},
		{"suggest", func(s *Service) (string, error) { return s.Suggest(context.Background(), "# Map") }, "suggest additional content"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeCompleter{reply: "# Go\n## Basics"}
			svc := NewService(fake, "test/model", nil)

			md, err := tt.call(svc)
			require.NoError(t, err)
			assert.Equal(t, "# Go\n## Basics\n", md)
			assert.Contains(t, fake.prompt, tt.contains)
			assert.Equal(t, DefaultSystemPrompt, fake.systemPrompt)
		})
	}
}

func TestServiceNormalizesReplies(t *testing.T) {
	fake := &fakeCompleter{reply: "```markdown\n# Web\n## Frontend\n### React\n#### Hooks\n* state\n```"}
	svc := NewService(fake, "", nil)

	md, err := svc.Create(context.Background(), "web")
	require.NoError(t, err)
	assert.Equal(t, "# Web\n## Frontend\n### React\n\n- Hooks\n  - state\n", md)
}

func TestServiceErrors(t *testing.T) {
	svc := NewService(&fakeCompleter{err: errors.New("down")}, "", nil)

	_, err := svc.Improve(context.Background(), "# Map")
	assert.EqualError(t, err, "down")

	_, err = svc.Suggest(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyPrompt)
}

func TestStripFence(t *testing.T) {
	assert.Equal(t, "# A", stripFence("```markdown\n# A\n```"))
	assert.Equal(t, "# A", stripFence("```\n# A\n```\n"))
	assert.Equal(t, "# A", stripFence("  # A  "))
}
