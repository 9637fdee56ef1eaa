package services

import (
	"context"
	_ "embed"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/curalink/curalink-backend/internal/clients/openai"
	"github.com/curalink/curalink-backend/internal/platform/apierr"
	"github.com/curalink/curalink-backend/internal/platform/logger"
)

//go:embed faq.yaml
var faqCorpusRaw []byte

const faqSystemPrompt = `You are a helpful assistant for a platform that connects ` +
	`patients with medical researchers, clinical trials, and publications. Answer ` +
	`briefly and plainly. Never give medical advice; direct users to their physician ` +
	`for anything clinical.`

const spellSystemPrompt = `You correct the spelling of medical search terms. Reply ` +
	`with ONLY the corrected term, no punctuation or commentary. If the term is ` +
	`already correct, reply with it unchanged.`

const faqApology = "I'm not able to answer that right now. Please try again later " +
	"or browse the help topics on the support page."

type faqEntry struct {
	Keywords []string `yaml:"keywords"`
	Answer   string   `yaml:"answer"`
}

type faqCorpus struct {
	Entries []faqEntry `yaml:"entries"`
}

// AssistantService answers help questions and cleans up search terms. Both
// operations degrade instead of failing: a dead model falls back to the
// embedded corpus, and spellcheck falls back to the caller's own term.
type AssistantService interface {
	AnswerFAQ(ctx context.Context, question string) (string, error)
	CorrectSpelling(ctx context.Context, term string) (string, error)
}

type assistantService struct {
	log    *logger.Logger
	model  openai.Client
	corpus faqCorpus
}

// NewAssistantService builds the service. model may be nil when no provider
// is configured; the fallback corpus then serves every question.
func NewAssistantService(log *logger.Logger, model openai.Client) (AssistantService, error) {
	var corpus faqCorpus
	if err := yaml.Unmarshal(faqCorpusRaw, &corpus); err != nil {
		return nil, err
	}
	return &assistantService{
		log:    log.With("service", "AssistantService"),
		model:  model,
		corpus: corpus,
	}, nil
}

func (s *assistantService) AnswerFAQ(ctx context.Context, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", apierr.Invalid("question required")
	}
	if s.model != nil {
		answer, err := s.model.GenerateText(ctx, faqSystemPrompt, question)
		if err == nil && strings.TrimSpace(answer) != "" {
			return strings.TrimSpace(answer), nil
		}
		if err != nil {
			s.log.Warn("faq model call failed, using corpus", "error", err)
		}
	}
	if answer, ok := s.corpusAnswer(question); ok {
		return answer, nil
	}
	return faqApology, nil
}

func (s *assistantService) corpusAnswer(question string) (string, bool) {
	q := strings.ToLower(question)
	for _, e := range s.corpus.Entries {
		for _, kw := range e.Keywords {
			if strings.Contains(q, kw) {
				return strings.TrimSpace(e.Answer), true
			}
		}
	}
	return "", false
}

func (s *assistantService) CorrectSpelling(ctx context.Context, term string) (string, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return "", apierr.Invalid("term required")
	}
	if s.model == nil {
		return term, nil
	}
	corrected, err := s.model.GenerateText(ctx, spellSystemPrompt, term)
	if err != nil {
		s.log.Warn("spellcheck model call failed, returning term as-is", "error", err)
		return term, nil
	}
	corrected = strings.TrimSpace(strings.Trim(strings.TrimSpace(corrected), `"`))
	if corrected == "" || strings.ContainsAny(corrected, "\n\r") {
		return term, nil
	}
	return corrected, nil
}
