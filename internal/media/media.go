// Package media wraps the speech-to-text and image-description providers
// used to turn audio and image messages into text the pipeline can match.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Transcriber converts an audio media URL into text.
type Transcriber interface {
	Transcribe(ctx context.Context, mediaURL string) (string, error)
}

// Describer produces a short textual description of an image media URL.
type Describer interface {
	Describe(ctx context.Context, mediaURL string) (string, error)
}

const maxMediaBytes = 25 << 20

// OpenAIProvider implements both providers on the OpenAI API: Whisper for
// transcription and a vision-capable chat model for description.
type OpenAIProvider struct {
	client      *openai.Client
	visionModel string
	http        *http.Client
}

// NewOpenAIProvider creates a media provider.
func NewOpenAIProvider(apiKey, visionModel string) (*OpenAIProvider, error) {
	if apiKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}
	if visionModel == "" {
		visionModel = openai.GPT4oMini
	}
	return &OpenAIProvider{
		client:      openai.NewClient(apiKey),
		visionModel: visionModel,
		http:        http.DefaultClient,
	}, nil
}

// Transcribe downloads the audio and runs it through Whisper.
func (p *OpenAIProvider) Transcribe(ctx context.Context, mediaURL string) (string, error) {
	body, err := p.download(ctx, mediaURL)
	if err != nil {
		return "", err
	}
	defer body.Close()

	resp, err := p.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: fileNameFor(mediaURL, "audio.ogg"),
		Reader:   body,
	})
	if err != nil {
		return "", fmt.Errorf("transcription failed: %w", err)
	}
	return strings.TrimSpace(resp.Text), nil
}

// Describe asks the vision model for a one-sentence description.
func (p *OpenAIProvider) Describe(ctx context.Context, mediaURL string) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     p.visionModel,
		MaxTokens: 200,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: "Describe what this photo shows in one or two sentences. If it shows a vehicle part, name the part.",
					},
					{
						Type:     openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{URL: mediaURL},
					},
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("image description failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("image description returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (p *OpenAIProvider) download(ctx context.Context, mediaURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, mediaURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create media request: %w", err)
	}
	res, err := p.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("media download failed: %w", err)
	}
	if res.StatusCode != http.StatusOK {
		res.Body.Close()
		return nil, fmt.Errorf("media download returned %s", res.Status)
	}
	return readCloser{io.LimitReader(res.Body, maxMediaBytes), res.Body}, nil
}

func fileNameFor(mediaURL, fallback string) string {
	base := path.Base(strings.SplitN(mediaURL, "?", 2)[0])
	if base == "" || base == "." || base == "/" {
		return fallback
	}
	return base
}

type readCloser struct {
	io.Reader
	io.Closer
}
