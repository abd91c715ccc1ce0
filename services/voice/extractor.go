package voice

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"receptionist/models"

	genai "github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

const defaultGeminiModel = "models/gemini-1.5-pro"

// GeminiExtractor asks Gemini to fill the service's requirement fields as JSON.
type GeminiExtractor struct {
	client *genai.Client
	model  *genai.GenerativeModel
	logger *zap.Logger
}

func NewGeminiExtractor(ctx context.Context, apiKey, modelName string, logger *zap.Logger) (*GeminiExtractor, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	if modelName == "" {
		modelName = defaultGeminiModel
	}
	model := client.GenerativeModel(modelName)
	model.SetTemperature(0)
	model.ResponseMIMEType = "application/json"
	return &GeminiExtractor{client: client, model: model, logger: logger}, nil
}

func (g *GeminiExtractor) ExtractArgs(ctx context.Context, service models.Service, utterance string) (*models.QuoteRequestArgs, error) {
	if strings.TrimSpace(utterance) == "" {
		return nil, ErrEmptyUtterance
	}
	resp, err := g.model.GenerateContent(ctx, genai.Text(buildPrompt(service, utterance)))
	if err != nil {
		return nil, fmt.Errorf("gemini generate error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, ErrNoCandidates
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	args, err := parseArgs(sb.String())
	if err != nil {
		g.logger.Warn("unparseable extraction", zap.String("service", service.ID), zap.Error(err))
		return nil, err
	}
	return args, nil
}

func (g *GeminiExtractor) Close() error {
	return g.client.Close()
}

func buildPrompt(service models.Service, utterance string) string {
	fields := service.AIRequirementFields
	if len(fields) == 0 {
		fields = []string{"quantity", "job_scope", "pickup_address", "dropoff_address", "service_address"}
	}
	var b strings.Builder
	fmt.Fprintf(&b, "You extract booking details for the service %q.\n", service.Name)
	fmt.Fprintf(&b, "Return one JSON object using only these keys: %s.\n", strings.Join(fields, ", "))
	b.WriteString("Numbers are integers. Addresses are full street addresses as spoken. Omit keys the caller did not mention.\n")
	if len(service.JobScopes) > 0 {
		fmt.Fprintf(&b, "job_scope must be one of: %s.\n", strings.Join(service.JobScopes, ", "))
	}
	fmt.Fprintf(&b, "Caller said: %q\n", utterance)
	return b.String()
}

// parseArgs accepts bare JSON or JSON wrapped in a markdown code fence.
func parseArgs(raw string) (*models.QuoteRequestArgs, error) {
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var args models.QuoteRequestArgs
	if err := json.Unmarshal([]byte(text), &args); err != nil {
		return nil, fmt.Errorf("decode extracted args: %w", err)
	}
	return &args, nil
}
