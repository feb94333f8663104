package relatorio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
	"go.uber.org/zap"
	"vistoria.app/api/utils"
)

const systemPrompt = `Você é um engenheiro civil que redige relatórios técnicos de vistoria de imóveis em português do Brasil.
Escreva em texto corrido, sem markdown, um parágrafo por cômodo na ordem recebida, citando apenas as condições informadas.
Termine com uma seção "CONCLUSÃO TÉCNICA:" com recomendações objetivas.`

// OpenAIComposer asks a chat model for the narrative.
type OpenAIComposer struct {
	client *openai.Client
	model  string
	log    *zap.Logger
}

// NewOpenAIComposer never retries; a failed call fails the report.
func NewOpenAIComposer(apiKey, model string, log *zap.Logger, opts ...option.RequestOption) *OpenAIComposer {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(0)}, opts...)
	c := openai.NewClient(opts...)
	return &OpenAIComposer{client: &c, model: model, log: log}
}

type promptComodo struct {
	Comodo string  `json:"comodo"`
	Campos []Campo `json:"campos"`
}

type promptInput struct {
	Local   string         `json:"local"`
	Comodos []promptComodo `json:"comodos"`
}

func (c *OpenAIComposer) Compose(ctx context.Context, in NarrativeInput) (string, error) {
	p := promptInput{Local: local(in.Contexto)}
	for _, name := range in.Comodos.Presentes() {
		p.Comodos = append(p.Comodos, promptComodo{Comodo: name, Campos: in.Comodos[name].Campos()})
	}
	payload, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("marshal prompt: %w", err)
	}

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: shared.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(string(payload)),
		},
	})
	if err != nil {
		c.log.Error("text generation failed", zap.Error(err))
		return "", utils.Upstream("text generation", err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", utils.Upstream("text generation", errors.New("empty completion"))
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
