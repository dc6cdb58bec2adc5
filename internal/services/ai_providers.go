package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	vertexgenai "cloud.google.com/go/vertexai/genai"
	"github.com/google/generative-ai-go/genai"
	"github.com/sashabaranov/go-openai"
	"google.golang.org/api/option"

	"github.com/vladimiradmaev/nurture-diary/internal/config"
	"github.com/vladimiradmaev/nurture-diary/internal/domain"
)

var errEmptyResponse = errors.New("provider returned no content")

type geminiBackend struct {
	client *genai.Client
	model  string
}

func newGeminiBackend(ctx context.Context, cfg config.GeminiConfig) (*geminiBackend, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, err
	}
	return &geminiBackend{client: client, model: cfg.Model}, nil
}

// nutritionSchema makes Gemini return exactly the estimate object.
var nutritionSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"name":     {Type: genai.TypeString, Description: "The food item name"},
		"portion":  {Type: genai.TypeString, Description: "The quantity or portion size (e.g., 1 cup 350ml)"},
		"calories": {Type: genai.TypeNumber, Description: "Estimated calories in kcal"},
		"protein":  {Type: genai.TypeNumber, Description: "Estimated protein in grams"},
		"fat":      {Type: genai.TypeNumber, Description: "Estimated fat in grams"},
		"carbs":    {Type: genai.TypeNumber, Description: "Estimated carbohydrates in grams"},
	},
	Required: []string{"name", "portion", "calories", "protein", "fat", "carbs"},
}

func (b *geminiBackend) complete(ctx context.Context, system, prompt string, in domain.FoodInput) (string, error) {
	model := b.client.GenerativeModel(b.model)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = nutritionSchema

	parts := []genai.Part{genai.Text(prompt)}
	if in.IsImage() {
		parts = []genai.Part{genai.Blob{MIMEType: in.MIMEType, Data: in.Image}, genai.Text(prompt)}
	}

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errEmptyResponse
	}
	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if t, ok := p.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	return sb.String(), nil
}

func (b *geminiBackend) Close() error {
	return b.client.Close()
}

type openAIBackend struct {
	client *openai.Client
	model  string
}

func newOpenAIBackend(cfg config.OpenAIConfig) *openAIBackend {
	return &openAIBackend{client: openai.NewClient(cfg.APIKey), model: cfg.Model}
}

func (b *openAIBackend) complete(ctx context.Context, system, prompt string, in domain.FoodInput) (string, error) {
	user := openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: prompt}
	if in.IsImage() {
		user = openai.ChatCompletionMessage{
			Role: openai.ChatMessageRoleUser,
			MultiContent: []openai.ChatMessagePart{
				{
					Type: openai.ChatMessagePartTypeText,
					Text: prompt,
				},
				{
					Type: openai.ChatMessagePartTypeImageURL,
					ImageURL: &openai.ChatMessageImageURL{
						URL: dataURL(in.MIMEType, in.Image),
					},
				},
			},
		}
	}

	resp, err := b.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: b.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system + jsonContract},
			user,
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}

func (b *openAIBackend) Close() error {
	return nil
}

type vertexBackend struct {
	client *vertexgenai.Client
	model  string
}

func newVertexBackend(ctx context.Context, cfg config.VertexConfig) (*vertexBackend, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	client, err := vertexgenai.NewClient(ctx, cfg.ProjectID, cfg.Location, opts...)
	if err != nil {
		return nil, err
	}
	return &vertexBackend{client: client, model: cfg.Model}, nil
}

func (b *vertexBackend) complete(ctx context.Context, system, prompt string, in domain.FoodInput) (string, error) {
	model := b.client.GenerativeModel(b.model)

	text := vertexgenai.Text(system + jsonContract + "\n\n" + prompt)
	parts := []vertexgenai.Part{text}
	if in.IsImage() {
		parts = []vertexgenai.Part{vertexgenai.Blob{MIMEType: in.MIMEType, Data: in.Image}, text}
	}

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("failed to call ai: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errEmptyResponse
	}
	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if t, ok := p.(vertexgenai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	return sb.String(), nil
}

func (b *vertexBackend) Close() error {
	return b.client.Close()
}

func dataURL(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
