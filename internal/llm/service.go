package llm

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	apphttp "recruiter-assistant/pkg/http"
)

type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderOllama Provider = "ollama"
	ProviderGroq   Provider = "groq"
	ProviderNone   Provider = "none"
)

// ErrNotConfigured is returned when no LLM provider is set up.
var ErrNotConfigured = errors.New("LLM provider not configured")

var defaultEndpoints = map[Provider]string{
	ProviderOpenAI: "https://api.openai.com/v1/chat/completions",
	ProviderGroq:   "https://api.groq.com/openai/v1/chat/completions",
	ProviderOllama: "http://localhost:11434/api/generate",
}

// maxResumeChars caps the resume text sent in one prompt.
const maxResumeChars = 12000

type Service struct {
	provider Provider
	apiKey   string
	model    string
	endpoint string
	http     *apphttp.Client
}

func NewService(provider, apiKey, model string, timeout time.Duration) *Service {
	p := Provider(strings.ToLower(strings.TrimSpace(provider)))
	if p == "" {
		p = ProviderNone
	}
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Service{
		provider: p,
		apiKey:   apiKey,
		model:    model,
		endpoint: defaultEndpoints[p],
		http:     apphttp.NewClient(timeout),
	}
}

// WithEndpoint overrides the provider URL (self-hosted gateways, tests).
func (s *Service) WithEndpoint(url string) *Service {
	cp := *s
	cp.endpoint = url
	return &cp
}

// Enabled reports whether Generate can reach a provider.
func (s *Service) Enabled() bool {
	return s != nil && s.provider != ProviderNone && s.endpoint != ""
}

// Generate sends a prompt to the configured provider and returns its text.
func (s *Service) Generate(ctx context.Context, prompt string) (string, error) {
	if !s.Enabled() {
		return "", ErrNotConfigured
	}

	start := time.Now()
	var (
		response string
		err      error
	)
	switch s.provider {
	case ProviderOpenAI, ProviderGroq:
		response, err = s.callChatCompletions(ctx, prompt)
	case ProviderOllama:
		response, err = s.callOllama(ctx, prompt)
	default:
		return "", fmt.Errorf("unknown provider: %s", s.provider)
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", s.provider, err)
	}

	log.Printf("[LLM] %s/%s answered in %v (%d chars)", s.provider, s.model, time.Since(start), len(response))
	return strings.TrimSpace(response), nil
}

// AnalyzeResume produces the recruiter-facing assessment shown next to an
// application with a resume attached.
func (s *Service) AnalyzeResume(ctx context.Context, name, email, resumeText string) (string, error) {
	if strings.TrimSpace(resumeText) == "" {
		return "", errors.New("empty resume text")
	}
	if r := []rune(resumeText); len(r) > maxResumeChars {
		resumeText = string(r[:maxResumeChars])
	}
	return s.Generate(ctx, buildResumePrompt(name, email, resumeText))
}

func buildResumePrompt(name, email, resumeText string) string {
	return fmt.Sprintf(`Analyze this resume/CV and provide a concise, well-formatted candidate assessment:

Candidate: %[1]s
Email: %[2]s

Resume Content:
%[3]s

Provide a CONCISE analysis in this EXACT format:

 **PROFILE**
 %[1]s | %[2]s
 Experience: [X years/Entry-level/Student]
 Education: [Degree, Institution, Year]
 Location: [City, State/Country]

 **TECHNICAL SKILLS**
 Languages: [Top 3-4 programming languages]
 Technologies: [Key frameworks/tools]
 Specialization: [Main domain/expertise]

 **EXPERIENCE & ACHIEVEMENTS**
 Current Role: [Position or Student status]
 Key Projects: [1-2 notable projects/achievements]
 Strengths: [Top 2-3 strengths]

 **RECRUITMENT ASSESSMENT**
 Best Fit: [Suitable role types]
 Level: [Junior/Mid/Senior]
 Recommendation: [Hire/Interview/Pass with brief reason]
 Next Steps: [Interview focus areas]

Keep each bullet point to 1 line maximum. Be concise and professional.`, name, email, resumeText)
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// callChatCompletions covers OpenAI and Groq, which share the wire format.
func (s *Service) callChatCompletions(ctx context.Context, prompt string) (string, error) {
	req := chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: "You are a technical recruiter assessing candidates."},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.2,
	}

	var result chatResponse
	if err := s.http.WithBearerToken(s.apiKey).PostJSON(ctx, s.endpoint, req, &result); err != nil {
		return "", err
	}
	if result.Error.Message != "" {
		return "", errors.New(result.Error.Message)
	}
	if len(result.Choices) == 0 {
		return "", errors.New("no choices in response")
	}
	return result.Choices[0].Message.Content, nil
}

func (s *Service) callOllama(ctx context.Context, prompt string) (string, error) {
	req := map[string]interface{}{
		"model":  s.model,
		"prompt": prompt,
		"stream": false,
	}

	var result struct {
		Response string `json:"response"`
		Error    string `json:"error"`
	}
	if err := s.http.PostJSON(ctx, s.endpoint, req, &result); err != nil {
		return "", fmt.Errorf("connection failed (is Ollama running?): %w", err)
	}
	if result.Error != "" {
		return "", errors.New(result.Error)
	}
	return result.Response, nil
}
