// Package answer turns retrieved notes into grounded natural-language answers.
package answer

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/notably-app/notably/internal/domain"
	domanswer "github.com/notably-app/notably/internal/domain/answer"
	"github.com/notably-app/notably/internal/domain/chat"
	domnote "github.com/notably-app/notably/internal/domain/note"
	logpkg "github.com/notably-app/notably/internal/logger"
)

const (
	answerModel  = "gpt-3.5-turbo"
	projectModel = "gpt-4"
	webModel     = "gpt-4o"

	maxAnswerTokens = 500

	notesSystemPrompt = "You are a helpful assistant that answers questions based only on the provided notes. " +
		"If the answer cannot be found in the provided notes, say so - do not use any external knowledge."

	projectSystemPrompt = "You are a helpful assistant that answers questions based on the provided project notes and files. " +
		"Use the information from both sources to provide comprehensive answers. " +
		"If the available information is not sufficient to answer the question, say so."

	webSystemPrompt = "You are a helpful assistant that searches the web for information. " +
		"Provide a concise summary of what you would find if you searched the web for the following query."

	// DefaultProjectAnswer is returned when the model yields nothing usable.
	DefaultProjectAnswer = "I could not generate an answer based on the available information."
	// DefaultWebAnswer is returned when the web fallback yields nothing.
	DefaultWebAnswer = "I could not find a good answer to your question."

	noWebResults = "No results found"
)

// ProjectAnswer is a project question's reply plus where it came from.
type ProjectAnswer struct {
	Text   string
	Source chat.Source
}

// Service generates answers from note and file context.
type Service struct {
	completer Completer
	logger    *zap.Logger

	answerModel  string
	projectModel string
	webModel     string
	maxTokens    int
}

// New creates an answer service with the default models.
func New(completer Completer, logger *zap.Logger) *Service {
	return &Service{
		completer:    completer,
		logger:       logger,
		answerModel:  answerModel,
		projectModel: projectModel,
		webModel:     webModel,
		maxTokens:    maxAnswerTokens,
	}
}

// WithModels overrides the models used per answer kind. Empty values keep
// the current setting.
func (s *Service) WithModels(answer, project, web string) *Service {
	if answer != "" {
		s.answerModel = answer
	}
	if project != "" {
		s.projectModel = project
	}
	if web != "" {
		s.webModel = web
	}
	return s
}

// WithMaxTokens overrides the answer length cap.
func (s *Service) WithMaxTokens(n int) *Service {
	if n > 0 {
		s.maxTokens = n
	}
	return s
}

// Generate answers the query using only the given notes. It returns ""
// without calling the model when there are no notes, and "" when the model
// produces nothing; the caller decides how to phrase an empty answer.
func (s *Service) Generate(ctx context.Context, query string, notes []domnote.Note) (string, error) {
	if len(notes) == 0 {
		return "", nil
	}

	contexts := make([]string, 0, len(notes))
	for _, n := range notes {
		contexts = append(contexts, fmt.Sprintf("Note %q:\n%s", n.Title, n.Content))
	}

	userPrompt := fmt.Sprintf(
		"Here are the notes to use as context:\n\n%s\n\nQuestion: %s\n\n"+
			"Answer only using information from the provided notes. "+
			"If the information isn't in these notes, say so.",
		strings.Join(contexts, "\n\n"), query,
	)

	text, err := s.completer.Complete(ctx, domain.CompletionRequest{
		Model:        s.answerModel,
		SystemPrompt: notesSystemPrompt,
		UserPrompt:   userPrompt,
		MaxTokens:    s.maxTokens,
		Temperature:  0.7,
	})
	if err != nil {
		return "", fmt.Errorf("generate answer: %w", err)
	}
	return text, nil
}

// GenerateProject answers the query from a project's notes and extracted
// file texts. When the model admits the context is insufficient and the
// context really is thin, it retries as a web search and tags the answer
// accordingly.
func (s *Service) GenerateProject(
	ctx context.Context, query string, notes []domnote.Note, files []FileContext,
) ProjectAnswer {
	text, err := s.completer.Complete(ctx, domain.CompletionRequest{
		Model:        s.projectModel,
		SystemPrompt: projectSystemPrompt,
		UserPrompt:   fmt.Sprintf("Context:\n%s\n\nQuestion: %s", buildProjectContext(notes, files), query),
		MaxTokens:    s.maxTokens,
		Temperature:  0.5,
	})
	if err != nil {
		logpkg.FromContext(ctx, s.logger).Warn("Project answer generation failed", zap.Error(err))
		text = ""
	}
	if text == "" {
		text = DefaultProjectAnswer
	}

	outcome := domanswer.Classify(text)
	if outcome.Kind == domanswer.KindInsufficient && len(notes) < 2 && filesWithText(files) < 2 {
		web, err := s.searchWeb(ctx, query)
		if err != nil {
			logpkg.FromContext(ctx, s.logger).Warn("Web search fallback failed", zap.Error(err))
			web = DefaultWebAnswer
		}
		return ProjectAnswer{Text: web, Source: chat.SourceWebSearch}
	}

	return ProjectAnswer{Text: text, Source: chat.SourceProjectData}
}

// searchWeb stands in for a real web search: the model summarizes what a
// search for the query would surface.
func (s *Service) searchWeb(ctx context.Context, query string) (string, error) {
	text, err := s.completer.Complete(ctx, domain.CompletionRequest{
		Model:        s.webModel,
		SystemPrompt: webSystemPrompt,
		UserPrompt:   "Web search query: " + query,
		MaxTokens:    s.maxTokens,
		Temperature:  0.7,
	})
	if err != nil {
		return "", fmt.Errorf("search web: %w", err)
	}
	if text == "" {
		return noWebResults, nil
	}
	return text, nil
}

func buildProjectContext(notes []domnote.Note, files []FileContext) string {
	parts := make([]string, 0, len(notes)+len(files))
	for _, n := range notes {
		parts = append(parts, fmt.Sprintf("Note Title: %s\nContent: %s", n.Title, n.Content))
	}
	for _, f := range files {
		if f.Content == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("File: %s\nContent: %s", f.Name, f.Content))
	}
	return strings.Join(parts, "\n\n")
}

func filesWithText(files []FileContext) int {
	n := 0
	for _, f := range files {
		if f.Content != "" {
			n++
		}
	}
	return n
}
