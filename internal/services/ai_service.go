package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/vladimiradmaev/nurture-diary/internal/config"
	"github.com/vladimiradmaev/nurture-diary/internal/domain"
	apperrors "github.com/vladimiradmaev/nurture-diary/internal/errors"
	"github.com/vladimiradmaev/nurture-diary/internal/logger"
)

// completion is one provider round trip: system text, user prompt and an
// optional image in, raw model text out.
type completion interface {
	complete(ctx context.Context, system, prompt string, in domain.FoodInput) (string, error)
	Close() error
}

// AIService resolves a typed description or a photo into a nutrition estimate.
type AIService struct {
	provider string
	language string
	backend  completion
}

func NewAIService(ctx context.Context, cfg config.AIConfig) (*AIService, error) {
	var (
		backend completion
		err     error
	)
	switch cfg.Provider {
	case config.ProviderGemini:
		backend, err = newGeminiBackend(ctx, cfg.Gemini)
	case config.ProviderOpenAI:
		backend = newOpenAIBackend(cfg.OpenAI)
	case config.ProviderVertex:
		backend, err = newVertexBackend(ctx, cfg.Vertex)
	default:
		return nil, fmt.Errorf("unsupported AI provider: %s", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s client: %w", cfg.Provider, err)
	}

	logger.Info("AI provider ready", "provider", cfg.Provider)
	return newAIService(cfg.Provider, cfg.Language, backend), nil
}

func newAIService(provider, language string, backend completion) *AIService {
	if language == "" {
		language = "English"
	}
	return &AIService{provider: provider, language: language, backend: backend}
}

// Resolve asks the provider once. Any transport, decoding or shape problem
// comes back as a provider error.
func (s *AIService) Resolve(ctx context.Context, in domain.FoodInput) (*domain.FoodEstimate, error) {
	prompt := fmt.Sprintf("Analyze this food: %q", in.Text)
	if in.IsImage() {
		prompt = "Estimate the calories and macros for the food in this photo."
	}

	raw, err := s.backend.complete(ctx, systemInstruction(s.language), prompt, in)
	if err != nil {
		return nil, apperrors.NewProviderError(err, s.provider)
	}

	estimate, err := parseEstimate(raw)
	if err != nil {
		logger.Warn("Unusable provider response", "provider", s.provider, "error", err)
		return nil, apperrors.NewProviderError(err, s.provider)
	}
	return estimate, nil
}

func (s *AIService) Provider() string {
	return s.provider
}

func (s *AIService) Close() error {
	return s.backend.Close()
}

func systemInstruction(language string) string {
	return fmt.Sprintf(`You are a professional nutritionist.
Your goal is to estimate the nutritional value of food items described in text or shown in photos.
Respond in %s.
Always provide a single consolidated food item entry.`, language)
}

// jsonContract is appended for providers that cannot enforce a response schema.
const jsonContract = `

CRITICAL JSON FORMAT REQUIREMENTS:
- Your response MUST be a single valid JSON object and nothing else
- The JSON must have these exact fields:
  {
    "name": "food item name",
    "portion": "quantity or portion size, e.g. 1 cup 350ml",
    "calories": 123.4,
    "protein": 12.3,
    "fat": 4.5,
    "carbs": 20.1
  }
- calories are kcal; protein, fat and carbs are grams`

type rawEstimate struct {
	Name     *string  `json:"name"`
	Portion  *string  `json:"portion"`
	Calories *float64 `json:"calories"`
	Protein  *float64 `json:"protein"`
	Fat      *float64 `json:"fat"`
	Carbs    *float64 `json:"carbs"`
}

func parseEstimate(text string) (*domain.FoodEstimate, error) {
	jsonStr := extractJSON(text)
	if jsonStr == "" {
		return nil, errors.New("no valid JSON found in response")
	}

	var raw rawEstimate
	if err := json.Unmarshal([]byte(jsonStr), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	var missing []string
	for _, f := range []struct {
		name    string
		present bool
	}{
		{"name", raw.Name != nil},
		{"portion", raw.Portion != nil},
		{"calories", raw.Calories != nil},
		{"protein", raw.Protein != nil},
		{"fat", raw.Fat != nil},
		{"carbs", raw.Carbs != nil},
	} {
		if !f.present {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("response is missing fields: %s", strings.Join(missing, ", "))
	}

	name := strings.TrimSpace(*raw.Name)
	if name == "" {
		return nil, errors.New("response has an empty name")
	}
	amounts := domain.NutritionAmounts{
		Calories: *raw.Calories,
		Protein:  *raw.Protein,
		Fat:      *raw.Fat,
		Carbs:    *raw.Carbs,
	}
	if amounts.Calories < 0 || amounts.Protein < 0 || amounts.Fat < 0 || amounts.Carbs < 0 {
		return nil, fmt.Errorf("response has negative amounts: %+v", amounts)
	}

	return &domain.FoodEstimate{
		Name:             name,
		Portion:          strings.TrimSpace(*raw.Portion),
		NutritionAmounts: amounts,
	}, nil
}

// extractJSON returns the outermost {...} of s, which also strips markdown
// code fences some models wrap around their answer.
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	if start == -1 {
		return ""
	}
	end := strings.LastIndex(s, "}")
	if end == -1 || end <= start {
		return ""
	}
	return s[start : end+1]
}
