package suggest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Request carries everything the suggestion prompt needs: the spoken query,
// the top manual excerpts and the resolved CRM screen context.
type Request struct {
	Query       string
	Contexts    []string
	ScreenLabel string
	Keywords    []string
}

// Config for the suggestion/speech client.
type Config struct {
	APIKey   string
	BaseURL  string
	Model    string
	TTSModel string
	TTSVoice string
	// RequestTimeout bounds each completion and speech call.
	RequestTimeout time.Duration
}

// Client produces streamed Korean response drafts and synthesizes them to
// speech through the same API account.
type Client struct {
	config *Config
	api    *openai.Client
}

func NewClient(config *Config) *Client {
	apiConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		apiConfig.BaseURL = config.BaseURL
	}
	if config.RequestTimeout > 0 {
		apiConfig.HTTPClient = &http.Client{Timeout: config.RequestTimeout}
	}
	return &Client{config: config, api: openai.NewClientWithConfig(apiConfig)}
}

const systemPromptTemplate = `당신은 통신사 AI 상담사입니다. 고객의 문의에 대해 매뉴얼을 기반으로 정확하고 친절하게 응대합니다.

규칙:
- 반드시 제공된 매뉴얼 내용만 기반으로 답변하세요
- 200자 이내로 간결하게 답변하세요
- 존댓말을 사용하세요
- 구체적인 금액, 조건 등을 포함하세요
- 고객이 바로 이해할 수 있는 자연스러운 한국어로 답변하세요
- 인사말 없이 바로 본론으로 들어가세요
- 응답 마지막에 반드시 고객에게 확인 질문을 포함하세요 (예: "~도와드릴까요?", "~진행할까요?", "~신청해드릴까요?")

현재 CRM 화면: %s
관련 키워드: %s`

func buildSystemPrompt(req Request) string {
	screen := req.ScreenLabel
	if screen == "" {
		screen = "없음"
	}
	keywords := "없음"
	if len(req.Keywords) > 0 {
		keywords = strings.Join(req.Keywords, ", ")
	}
	return fmt.Sprintf(systemPromptTemplate, screen, keywords)
}

func buildUserPrompt(req Request) string {
	limit := len(req.Contexts)
	if limit > 3 {
		limit = 3
	}
	var b strings.Builder
	for i := 0; i < limit; i++ {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "[매뉴얼 %d]\n%s", i+1, req.Contexts[i])
	}
	return fmt.Sprintf("고객 문의: %q\n\n참고 매뉴얼:\n%s", req.Query, b.String())
}

// Generate streams the suggested response; onDelta fires per text chunk in
// order. The complete text is returned once the stream finishes.
func (c *Client) Generate(ctx context.Context, req Request, onDelta func(string)) (string, error) {
	if req.Query == "" || len(req.Contexts) == 0 {
		return "", errors.New("query and contexts are required")
	}

	stream, err := c.api.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model: c.config.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: buildSystemPrompt(req)},
			{Role: openai.ChatMessageRoleUser, Content: buildUserPrompt(req)},
		},
		MaxTokens:   300,
		Temperature: 0.7,
		Stream:      true,
	})
	if err != nil {
		return "", fmt.Errorf("create suggestion stream err: %w", err)
	}
	defer stream.Close()

	var full strings.Builder
	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return full.String(), fmt.Errorf("suggestion stream recv err: %w", err)
		}
		if len(resp.Choices) == 0 {
			continue
		}
		delta := resp.Choices[0].Delta.Content
		if delta == "" {
			continue
		}
		full.WriteString(delta)
		if onDelta != nil {
			onDelta(delta)
		}
	}
	return full.String(), nil
}

// Synthesize renders text to MP3 audio.
func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("text is empty")
	}
	resp, err := c.api.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(c.config.TTSModel),
		Input:          text,
		Voice:          openai.SpeechVoice(c.config.TTSVoice),
		ResponseFormat: openai.SpeechResponseFormatMp3,
	})
	if err != nil {
		return nil, fmt.Errorf("create speech err: %w", err)
	}
	defer resp.Close()

	audio, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("read speech audio err: %w", err)
	}
	return audio, nil
}
