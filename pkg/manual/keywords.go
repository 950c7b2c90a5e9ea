package manual

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
)

// KeywordExtractor turns a spoken query into search keywords.
type KeywordExtractor interface {
	Extract(ctx context.Context, query string) []string
}

const keywordSystemPrompt = `통신사 고객센터 매뉴얼 검색 시스템입니다.
고객의 질문에서 매뉴얼 검색용 핵심 키워드를 추출하세요.
고객의 구어체를 통신사 공식 용어로 변환하고, 동의어도 포함하세요.

매뉴얼 주요 주제: 요금제, 요금/청구/납부, 부가서비스, 데이터, 보험, 멤버십, 기기변경, 신규가입, 번호이동(MNP), 약정/할부, 분실/도난, 로밍, 명의변경, 일시정지, 해지, 네트워크/품질, 속도저하, 민원/VOC

예시:
- "유럽가요" → ["로밍", "해외", "유럽", "국제"]
- "여행갈때 폰 쓰고싶어요" → ["로밍", "해외", "여행"]
- "데이터가 모자라요" → ["데이터", "리필", "소진", "쿠폰"]
- "데이터가 끊겨요" → ["데이터", "속도저하", "네트워크", "장애"]
- "폰을 바꿨는데요" → ["기기변경", "개통", "단말"]
- "요금 너무 많이 나왔어" → ["요금", "청구", "과금", "이의"]
- "폰 잃어버렸어요" → ["분실", "도난", "정지", "보험"]
- "번호 옮기고 싶어요" → ["번호이동", "MNP", "전입"]
- "해지하고 싶어요" → ["해지", "위약금", "해약"]
- "인터넷이 느려요" → ["속도", "저하", "데이터", "네트워크"]

JSON 배열만 출력하세요. 최대 6개.`

var jsonArrayPattern = regexp.MustCompile(`\[[\s\S]*\]`)

// OpenAIExtractor extracts keywords with a small chat model. Any failure
// degrades to the raw query so search always has at least one term.
type OpenAIExtractor struct {
	api   *openai.Client
	model string
}

func NewOpenAIExtractor(apiKey, baseURL, model string) *OpenAIExtractor {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &OpenAIExtractor{api: openai.NewClientWithConfig(config), model: model}
}

func (e *OpenAIExtractor) Extract(ctx context.Context, query string) []string {
	resp, err := e.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: keywordSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: query},
		},
		Temperature: 0,
		MaxTokens:   100,
	})
	if err != nil {
		logrus.WithField("error", err.Error()).Warn("keyword extraction failed, falling back to raw query")
		return []string{query}
	}
	if len(resp.Choices) == 0 {
		return []string{query}
	}
	return parseKeywords(resp.Choices[0].Message.Content, query)
}

// parseKeywords pulls the first JSON array out of the model output. Models
// occasionally wrap the array in prose or code fences; the regex tolerates
// both.
func parseKeywords(raw, query string) []string {
	match := jsonArrayPattern.FindString(strings.TrimSpace(raw))
	if match == "" {
		return []string{query}
	}
	var keywords []string
	if err := json.Unmarshal([]byte(match), &keywords); err != nil {
		return []string{query}
	}
	cleaned := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if kw = strings.TrimSpace(kw); kw != "" {
			cleaned = append(cleaned, kw)
		}
	}
	if len(cleaned) == 0 {
		return []string{query}
	}
	if len(cleaned) > 6 {
		cleaned = cleaned[:6]
	}
	return cleaned
}
