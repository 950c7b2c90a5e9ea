// Package confirm classifies a free-text utterance as an affirmative or
// negative answer to the pending confirm question.
package confirm

import "strings"

type Result string

const (
	Yes     Result = "yes"
	No      Result = "no"
	Unknown Result = "unknown"
)

// List order matters: the first matching keyword decides, and the negative
// list is checked in full before any positive keyword. A polite decline that
// happens to contain a positive token ("아니 괜찮아요") therefore resolves to No.
var negativeKeywords = []string{
	"아니",
	"아니요",
	"아뇨",
	"안 해",
	"안해",
	"됐어",
	"됐습니다",
	"취소",
	"괜찮아",
	"괜찮습니다",
	"싫어",
	"싫어요",
	"말아",
	"하지 마",
	"하지마",
	"안 할",
	"안할",
	"필요 없",
	"필요없",
	"다음에",
	"나중에",
	"생각해",
	"고민",
	"ㄴㄴ",
	"노노",
}

var positiveKeywords = []string{
	"네",
	"예",
	"응",
	"어",
	"해주세요",
	"해줘",
	"좋아",
	"좋아요",
	"진행",
	"부탁",
	"부탁해",
	"부탁드려요",
	"그래",
	"그래요",
	"신청",
	"변경",
	"개통",
	"정지",
	"맞아",
	"맞아요",
	"알겠어",
	"동의",
	"할게요",
	"할래요",
	"해볼게요",
	"그렇게",
	"오케이",
	"ㅇㅇ",
	"ㅇㅋ",
	"네네",
	"넵",
	"당연",
}

// Classify maps an utterance to yes/no/unknown by substring membership.
func Classify(text string) Result {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return Unknown
	}

	for _, kw := range negativeKeywords {
		if strings.Contains(normalized, kw) {
			return No
		}
	}

	for _, kw := range positiveKeywords {
		if strings.Contains(normalized, kw) {
			return Yes
		}
	}

	return Unknown
}
