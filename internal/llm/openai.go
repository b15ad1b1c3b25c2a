package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"github.com/gearline-ai/parts-assistant/internal/model"
)

const systemPrompt = `You are a parts sales assistant for an auto parts retailer, chatting over an instant messaging channel.
Answer in the customer's language, briefly and concretely.
A structured decision object follows; it is the only source of truth about vehicles, part matches and products. Never invent references, prices or availability.
If ask_clarifying_question is true, ask exactly one short closed question to narrow down the part the customer needs, and recommend nothing yet.
If a product is present, recommend it by name and reference, mention the price when known, and offer the alternatives only if the customer asks.`

// OpenAIClient implements Embedder and Generator on the OpenAI API.
type OpenAIClient struct {
	client         *openai.Client
	embeddingModel openai.EmbeddingModel
	chatModel      string
}

// NewOpenAIClient creates an OpenAI-backed client.
func NewOpenAIClient(apiKey, embeddingModel, chatModel string) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}
	if embeddingModel == "" {
		embeddingModel = string(openai.SmallEmbedding3)
	}
	if chatModel == "" {
		chatModel = openai.GPT4oMini
	}
	return &OpenAIClient{
		client:         openai.NewClient(apiKey),
		embeddingModel: openai.EmbeddingModel(embeddingModel),
		chatModel:      chatModel,
	}, nil
}

// Embed computes the embedding of one text.
func (c *OpenAIClient) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: c.embeddingModel,
	})
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, errors.New("embedding response contained no vectors")
	}
	return resp.Data[0].Embedding, nil
}

// Generate produces the reply text for a turn.
func (c *OpenAIClient) Generate(ctx context.Context, history []model.Message, decision *model.Decision) (string, error) {
	decisionJSON, err := json.Marshal(decision)
	if err != nil {
		return "", fmt.Errorf("failed to encode decision: %w", err)
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt + "\n\nDecision:\n" + string(decisionJSON),
	})
	for _, msg := range history {
		role := openai.ChatMessageRoleUser
		if msg.Role == model.RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: msg.Content,
		})
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.chatModel,
		Messages:    messages,
		MaxTokens:   512,
		Temperature: 0.4,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
