// Package ai drafts cover letters and interview questions from an applicant
// profile via a configurable LLM provider.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/manav-1/jobfill/internal/ai/gemini"
	"github.com/manav-1/jobfill/internal/ai/openai"
	"github.com/manav-1/jobfill/internal/secrets"
	"github.com/manav-1/jobfill/profile"
)

// JobInfo describes the posting a draft is generated for.
type JobInfo struct {
	Title   string `json:"title"`
	Company string `json:"company"`
	Reason  string `json:"reason,omitempty"`
}

// Question is one generated interview question.
type Question struct {
	Question        string `json:"question"`
	Category        string `json:"category"`
	SuggestedAnswer string `json:"suggested_answer"`
}

// QuestionsJSON encodes questions for storage.
func QuestionsJSON(qs []Question) (string, error) {
	data, err := json.Marshal(qs)
	if err != nil {
		return "", fmt.Errorf("encoding questions: %w", err)
	}
	return string(data), nil
}

// Provider generates drafts. Implementations wrap one LLM backend.
type Provider interface {
	Name() string
	GenerateCoverLetter(ctx context.Context, job JobInfo, p *profile.Profile) (string, error)
	GenerateInterviewQuestions(ctx context.Context, jobTitle string, p *profile.Profile) ([]Question, error)
}

// Config selects and configures a provider.
type Config struct {
	// Provider is "openai" or "gemini".
	Provider string
	// Key is the API key source for the selected provider.
	Key secrets.Source
	// Model overrides the provider's default model.
	Model string
	// BaseURL overrides the OpenAI endpoint, e.g. for a compatible proxy.
	BaseURL string
}

// SupportedProviders lists the valid Config.Provider values.
func SupportedProviders() []string {
	return []string{"openai", "gemini"}
}

// New builds the configured provider.
func New(ctx context.Context, cfg Config) (Provider, error) {
	key, err := secrets.Load(cfg.Key)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "openai":
		opts := []openai.Option{openai.WithModel(cfg.Model)}
		if cfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
		}
		client, err := openai.New(key, opts...)
		if err != nil {
			return nil, err
		}
		return &openaiProvider{client: client}, nil
	case "gemini":
		gen, err := gemini.NewGenerator(ctx, key, cfg.Model)
		if err != nil {
			return nil, err
		}
		return &geminiProvider{gen: gen}, nil
	default:
		return nil, fmt.Errorf("unsupported ai provider %q (supported: %s)",
			cfg.Provider, strings.Join(SupportedProviders(), ", "))
	}
}

type openaiProvider struct {
	client *openai.Client
}

func (o *openaiProvider) Name() string { return "openai" }

func (o *openaiProvider) GenerateCoverLetter(ctx context.Context, job JobInfo, p *profile.Profile) (string, error) {
	return o.client.Complete(ctx, coverLetterSystem, BuildCoverLetterPrompt(job, p), 800)
}

func (o *openaiProvider) GenerateInterviewQuestions(ctx context.Context, jobTitle string, p *profile.Profile) ([]Question, error) {
	content, err := o.client.Complete(ctx, interviewSystem, BuildInterviewQuestionsPrompt(jobTitle, p), 1000)
	if err != nil {
		return nil, err
	}
	return ParseQuestions(content)
}

type geminiProvider struct {
	gen *gemini.Generator
}

func (g *geminiProvider) Name() string { return "gemini" }

func (g *geminiProvider) GenerateCoverLetter(ctx context.Context, job JobInfo, p *profile.Profile) (string, error) {
	prompt := coverLetterSystem + "\n\n" + BuildCoverLetterPrompt(job, p)
	return g.gen.Generate(ctx, prompt)
}

func (g *geminiProvider) GenerateInterviewQuestions(ctx context.Context, jobTitle string, p *profile.Profile) ([]Question, error) {
	prompt := interviewSystem + "\n\n" + BuildInterviewQuestionsPrompt(jobTitle, p)
	content, err := g.gen.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return ParseQuestions(content)
}
