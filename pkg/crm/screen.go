package crm

import "strings"

// ScreenType identifies one of the six CRM workflow screens.
type ScreenType string

const (
	ScreenRoaming      ScreenType = "roaming"
	ScreenLostStolen   ScreenType = "lost-stolen"
	ScreenCancellation ScreenType = "cancellation"
	ScreenDeviceChange ScreenType = "device-change"
	ScreenPlanChange   ScreenType = "plan-change"
	ScreenDataAddon    ScreenType = "data-addon"
)

// ScreenLabels Korean display names per screen.
var ScreenLabels = map[ScreenType]string{
	ScreenRoaming:      "로밍 설정",
	ScreenLostStolen:   "분실/도난 신고",
	ScreenCancellation: "해지 처리",
	ScreenDeviceChange: "기기변경/개통",
	ScreenPlanChange:   "요금제 변경",
	ScreenDataAddon:    "데이터/부가서비스",
}

type screenRule struct {
	screen   ScreenType
	keywords []string
}

// Rule order is part of the contract: roaming is checked before plan-change
// so "해외 요금" routes to roaming, not billing. First matching rule wins.
var screenRules = []screenRule{
	{
		screen:   ScreenRoaming,
		keywords: []string{"로밍", "해외", "국제", "유럽", "여행", "일본", "미국", "중국", "태국", "베트남", "호주", "동남아", "대양주", "캐나다", "하와이", "괌", "사이판", "필리핀", "싱가포르"},
	},
	{
		screen:   ScreenLostStolen,
		keywords: []string{"분실", "도난", "정지", "잠금", "보험"},
	},
	{
		screen:   ScreenCancellation,
		keywords: []string{"해지", "위약금", "해약", "탈퇴"},
	},
	{
		screen:   ScreenDeviceChange,
		keywords: []string{"기기변경", "개통", "단말", "번호이동", "mnp", "전입", "신규가입"},
	},
	{
		screen:   ScreenPlanChange,
		keywords: []string{"요금제", "요금", "청구", "과금", "납부", "약정", "할부", "이의", "업그레이드", "다운그레이드", "플랜"},
	},
	{
		screen:   ScreenDataAddon,
		keywords: []string{"데이터", "부가서비스", "리필", "소진", "쿠폰", "속도", "네트워크", "멤버십"},
	},
}

// tokensMatch reports a case-insensitive substring match in either direction.
func tokensMatch(a, b string) bool {
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// ResolveScreen maps extracted search keywords to a CRM screen using the
// ordered rule table. Falls back to the data/addon screen when nothing
// matches; resolution never fails.
func ResolveScreen(keywords []string) ScreenType {
	lower := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			lower = append(lower, k)
		}
	}
	for _, rule := range screenRules {
		for _, rk := range rule.keywords {
			for _, k := range lower {
				if tokensMatch(k, rk) {
					return rule.screen
				}
			}
		}
	}
	return ScreenDataAddon
}
