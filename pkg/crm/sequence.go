package crm

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// StepAction what the console cursor does at a step target.
type StepAction string

const (
	ActionHighlight StepAction = "highlight"
	ActionClick     StepAction = "click"
	ActionSelect    StepAction = "select"
)

// Step one timed UI action. ElementID is an opaque stable identifier of an
// addressable console element; the planner only produces and orders them.
type Step struct {
	ElementID   string        `json:"elementId"`
	Action      StepAction    `json:"action"`
	Value       string        `json:"value,omitempty"`
	Label       string        `json:"label"`
	DelayBefore time.Duration `json:"delayBefore"`
	DelayAfter  time.Duration `json:"delayAfter"`
}

// Sequence ordered steps paired 1:1 with state commands; dispatch i fires
// when step i completes.
type Sequence struct {
	Steps      []Step
	Dispatches []Command
}

// BuildSequence plans the timed action sequence for a screen from the
// keyword set. Pure: identical inputs always produce identical sequences.
// Returns nil when the screen has no sequence.
func BuildSequence(screen ScreenType, keywords []string) *Sequence {
	switch screen {
	case ScreenRoaming:
		return buildRoamingSequence(keywords)
	case ScreenPlanChange:
		return buildPlanChangeSequence(keywords)
	case ScreenDeviceChange:
		return buildDeviceChangeSequence(keywords)
	case ScreenLostStolen:
		return buildLostStolenSequence(keywords)
	case ScreenCancellation:
		return buildCancellationSequence(keywords)
	case ScreenDataAddon:
		return buildDataAddonSequence(keywords)
	default:
		return nil
	}
}

func joinKeywords(keywords []string) string {
	return strings.ToLower(strings.Join(keywords, " "))
}

var digitRun = regexp.MustCompile(`\d+`)

// parsePrice strips every non-digit rune before parsing, so "1,698,400원"
// and "11,000원/일" both become comparable integers. Returns 0 on garbage.
func parsePrice(price string) int {
	var b strings.Builder
	for _, r := range price {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	n, err := strconv.Atoi(b.String())
	if err != nil {
		return 0
	}
	return n
}

// parseDataGB maps the leading integer of a data allowance to GB, with the
// 무제한 sentinel as +Inf so unlimited plans win any "most data" comparison.
func parseDataGB(data string) float64 {
	if data == "무제한" {
		return math.Inf(1)
	}
	m := digitRun.FindString(data)
	if m == "" {
		return 0
	}
	n, _ := strconv.Atoi(m)
	return float64(n)
}

// --- roaming ---

type regionRule struct {
	region   string
	keywords []string
}

// Ordered: first region whose alias list hits the keyword set wins.
var regionRules = []regionRule{
	{region: "유럽", keywords: []string{"유럽", "프랑스", "독일", "영국", "이탈리아", "스페인", "스위스", "네덜란드", "오스트리아"}},
	{region: "미주", keywords: []string{"미국", "미주", "캐나다", "하와이", "괌", "사이판"}},
	{region: "아시아", keywords: []string{"아시아"}},
	{region: "일본", keywords: []string{"일본", "도쿄", "오사카", "교토", "후쿠오카", "삿포로"}},
	{region: "중국", keywords: []string{"중국", "베이징", "상하이", "광저우", "선전"}},
	{region: "동남아", keywords: []string{"동남아", "베트남", "태국", "필리핀", "싱가포르", "인도네시아", "발리", "방콕", "다낭", "세부"}},
	{region: "대양주", keywords: []string{"대양주", "호주", "뉴질랜드", "시드니", "멜버른"}},
}

var asiaRegions = map[string]bool{"아시아": true, "일본": true, "중국": true, "동남아": true}

func resolveRoamingRegion(keywords []string) string {
	lower := make([]string, 0, len(keywords))
	for _, k := range keywords {
		lower = append(lower, strings.ToLower(k))
	}
	for _, rule := range regionRules {
		for _, rk := range rule.keywords {
			for _, k := range lower {
				if strings.Contains(k, rk) {
					return rule.region
				}
			}
		}
	}
	return "유럽"
}

// resolveRoamingProduct picks the product whose coverage matches the region:
// Asia-family regions get the Asia product, Europe/Americas the 유럽/미주 one,
// everything else the worldwide pass.
func resolveRoamingProduct(region string) (int, string) {
	if asiaRegions[region] {
		for i, p := range RoamingProducts {
			if p.Region == "아시아" {
				return i, p.Name
			}
		}
	}
	if region == "유럽" || region == "미주" {
		for i, p := range RoamingProducts {
			if strings.Contains(p.Region, "유럽") {
				return i, p.Name
			}
		}
	}
	for i, p := range RoamingProducts {
		if p.Region == "전세계" {
			return i, p.Name
		}
	}
	return 0, RoamingProducts[0].Name
}

func buildRoamingSequence(keywords []string) *Sequence {
	region := resolveRoamingRegion(keywords)
	productIdx, productName := resolveRoamingProduct(region)

	return &Sequence{
		Steps: []Step{
			{
				ElementID:   "region-" + region,
				Action:      ActionClick,
				Label:       region + " 지역 선택",
				DelayBefore: 400 * time.Millisecond,
				DelayAfter:  800 * time.Millisecond,
			},
			{
				ElementID:   fmt.Sprintf("product-%d", productIdx),
				Action:      ActionClick,
				Label:       productName + " 선택",
				DelayBefore: 300 * time.Millisecond,
				DelayAfter:  800 * time.Millisecond,
			},
			{
				ElementID:   "apply-roaming",
				Action:      ActionClick,
				Label:       "로밍 신청 처리",
				DelayBefore: 300 * time.Millisecond,
				DelayAfter:  1000 * time.Millisecond,
			},
		},
		Dispatches: []Command{
			{Type: CmdRoamingSelectRegion, Region: region},
			{Type: CmdRoamingSelectProduct, Index: productIdx},
			{Type: CmdRoamingApply},
		},
	}
}

// --- plan change ---

type planIntent string

const (
	planIntentCheapest  planIntent = "cheapest"
	planIntentExpensive planIntent = "expensive"
	planIntentUp        planIntent = "up"
	planIntentDown      planIntent = "down"
	planIntentData      planIntent = "data"
	planIntentUnknown   planIntent = "unknown"
)

var planIntentRules = []struct {
	intent   planIntent
	keywords []string
}{
	{planIntentCheapest, []string{"싼", "저렴", "최저", "제일 싼", "가장 싼", "싸게", "절약", "아끼"}},
	{planIntentExpensive, []string{"비싼", "최고", "프리미엄", "제일 비싼", "가장 비싼", "좋은", "최상"}},
	{planIntentUp, []string{"올려", "올리", "업그레이드", "높은", "높여", "더 비싼", "한 단계 위", "하나 위", "상위"}},
	{planIntentDown, []string{"내려", "내리", "다운그레이드", "낮은", "낮춰", "더 싼", "한 단계 아래", "하나 아래", "하위"}},
	{planIntentData, []string{"데이터 많", "데이터 무제한", "무제한", "데이터 크", "용량 큰", "용량 많"}},
}

func cheapestPlan() int {
	minIdx := 0
	minPrice := parsePrice(AvailablePlans[0].Price)
	for i := 1; i < len(AvailablePlans); i++ {
		if p := parsePrice(AvailablePlans[i].Price); p < minPrice {
			minPrice = p
			minIdx = i
		}
	}
	return minIdx
}

func mostExpensivePlan() int {
	maxIdx := 0
	maxPrice := parsePrice(AvailablePlans[0].Price)
	for i := 1; i < len(AvailablePlans); i++ {
		if p := parsePrice(AvailablePlans[i].Price); p > maxPrice {
			maxPrice = p
			maxIdx = i
		}
	}
	return maxIdx
}

// resolvePlan layered resolution: direct name match wins, then the intent
// table drives a numeric comparison over the candidate list, then the first
// candidate as documented default.
func resolvePlan(keywords []string) (int, string) {
	joined := joinKeywords(keywords)

	for i, p := range AvailablePlans {
		if strings.Contains(joined, strings.ToLower(p.Name)) {
			return i, p.Name
		}
	}

	intent := planIntentUnknown
	for _, rule := range planIntentRules {
		for _, kw := range rule.keywords {
			if strings.Contains(joined, kw) {
				intent = rule.intent
				break
			}
		}
		if intent != planIntentUnknown {
			break
		}
	}

	currentPrice := parsePrice(CurrentPlan.Price)

	switch intent {
	case planIntentCheapest:
		idx := cheapestPlan()
		return idx, AvailablePlans[idx].Name
	case planIntentExpensive:
		idx := mostExpensivePlan()
		return idx, AvailablePlans[idx].Name
	case planIntentUp:
		// Cheapest plan strictly above the current price.
		bestIdx := -1
		bestPrice := math.MaxInt
		for i, p := range AvailablePlans {
			if price := parsePrice(p.Price); price > currentPrice && price < bestPrice {
				bestPrice = price
				bestIdx = i
			}
		}
		if bestIdx < 0 {
			bestIdx = mostExpensivePlan()
		}
		return bestIdx, AvailablePlans[bestIdx].Name
	case planIntentDown:
		// Most expensive plan strictly below the current price.
		bestIdx := -1
		bestPrice := 0
		for i, p := range AvailablePlans {
			if price := parsePrice(p.Price); price < currentPrice && price > bestPrice {
				bestPrice = price
				bestIdx = i
			}
		}
		if bestIdx < 0 {
			bestIdx = cheapestPlan()
		}
		return bestIdx, AvailablePlans[bestIdx].Name
	case planIntentData:
		maxIdx := 0
		maxData := parseDataGB(AvailablePlans[0].Data)
		for i := 1; i < len(AvailablePlans); i++ {
			if d := parseDataGB(AvailablePlans[i].Data); d > maxData {
				maxData = d
				maxIdx = i
			}
		}
		return maxIdx, AvailablePlans[maxIdx].Name
	default:
		return 0, AvailablePlans[0].Name
	}
}

func buildPlanChangeSequence(keywords []string) *Sequence {
	idx, name := resolvePlan(keywords)

	return &Sequence{
		Steps: []Step{
			{
				ElementID:   fmt.Sprintf("plan-%d", idx),
				Action:      ActionClick,
				Label:       name + " 선택",
				DelayBefore: 400 * time.Millisecond,
				DelayAfter:  800 * time.Millisecond,
			},
			{
				ElementID:   "apply-plan",
				Action:      ActionClick,
				Label:       "요금제 변경 처리",
				DelayBefore: 300 * time.Millisecond,
				DelayAfter:  1000 * time.Millisecond,
			},
		},
		Dispatches: []Command{
			{Type: CmdPlanSelect, Index: idx},
			{Type: CmdPlanChange},
		},
	}
}

// --- device change ---

func resolveDevice(keywords []string) (int, string) {
	joined := joinKeywords(keywords)

	for i, d := range AvailableDevices {
		if strings.Contains(joined, strings.ToLower(d.Name)) {
			return i, d.Name
		}
	}

	brandRules := []struct {
		keywords []string
		match    string
	}{
		{[]string{"아이폰", "iphone", "애플"}, "iphone"},
		{[]string{"폴드", "fold", "접는", "폴더블"}, "fold"},
		{[]string{"갤럭시", "galaxy", "삼성", "s25"}, "galaxy s"},
	}
	for _, rule := range brandRules {
		idx := -1
		for i, d := range AvailableDevices {
			if strings.Contains(strings.ToLower(d.Name), rule.match) {
				idx = i
				break
			}
		}
		if idx < 0 {
			continue
		}
		for _, kw := range rule.keywords {
			if strings.Contains(joined, kw) {
				return idx, AvailableDevices[idx].Name
			}
		}
	}

	if containsAny(joined, "싼", "저렴", "싸게") {
		minIdx := 0
		minPrice := parsePrice(AvailableDevices[0].Price)
		for i := 1; i < len(AvailableDevices); i++ {
			if p := parsePrice(AvailableDevices[i].Price); p < minPrice {
				minPrice = p
				minIdx = i
			}
		}
		return minIdx, AvailableDevices[minIdx].Name
	}
	if containsAny(joined, "비싼", "최고", "최상") {
		maxIdx := 0
		maxPrice := parsePrice(AvailableDevices[0].Price)
		for i := 1; i < len(AvailableDevices); i++ {
			if p := parsePrice(AvailableDevices[i].Price); p > maxPrice {
				maxPrice = p
				maxIdx = i
			}
		}
		return maxIdx, AvailableDevices[maxIdx].Name
	}

	return 0, AvailableDevices[0].Name
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func resolveDeviceOption(keywords []string) string {
	joined := joinKeywords(keywords)
	if containsAny(joined, "약정", "할인", "선택약정") {
		return DeviceOptions[1]
	}
	return DeviceOptions[0]
}

func buildDeviceChangeSequence(keywords []string) *Sequence {
	deviceIdx, deviceName := resolveDevice(keywords)
	option := resolveDeviceOption(keywords)

	return &Sequence{
		Steps: []Step{
			{
				ElementID:   "option-" + option,
				Action:      ActionClick,
				Label:       option + " 선택",
				DelayBefore: 400 * time.Millisecond,
				DelayAfter:  600 * time.Millisecond,
			},
			{
				ElementID:   fmt.Sprintf("device-%d", deviceIdx),
				Action:      ActionClick,
				Label:       deviceName + " 선택",
				DelayBefore: 300 * time.Millisecond,
				DelayAfter:  800 * time.Millisecond,
			},
			{
				ElementID:   "apply-device",
				Action:      ActionClick,
				Label:       "기기변경 개통 처리",
				DelayBefore: 300 * time.Millisecond,
				DelayAfter:  1000 * time.Millisecond,
			},
		},
		Dispatches: []Command{
			{Type: CmdDeviceSelectOption, Option: option},
			{Type: CmdDeviceSelect, Index: deviceIdx},
			{Type: CmdDeviceOpen},
		},
	}
}

// --- lost / stolen ---

func resolveSuspendOption(keywords []string) string {
	joined := joinKeywords(keywords)
	if containsAny(joined, "도난", "훔", "도둑", "절도") {
		return SuspendOptions[1].Label
	}
	return SuspendOptions[0].Label
}

func buildLostStolenSequence(keywords []string) *Sequence {
	option := resolveSuspendOption(keywords)

	return &Sequence{
		Steps: []Step{
			{
				ElementID:   "option-" + option,
				Action:      ActionClick,
				Label:       option + " 선택",
				DelayBefore: 400 * time.Millisecond,
				DelayAfter:  800 * time.Millisecond,
			},
			{
				ElementID:   "apply-suspend",
				Action:      ActionClick,
				Label:       "긴급 정지 처리",
				DelayBefore: 300 * time.Millisecond,
				DelayAfter:  1000 * time.Millisecond,
			},
		},
		Dispatches: []Command{
			{Type: CmdLostSelectOption, Option: option},
			{Type: CmdLostSuspend},
		},
	}
}

// --- cancellation ---

var cancelReasonRules = []struct {
	reason   string
	keywords []string
}{
	{"타사 이동", []string{"타사", "번호이동", "이동", "다른 통신사", "kt", "lg"}},
	{"요금 불만", []string{"요금", "비싸", "비싼", "과금", "청구", "돈"}},
	{"서비스 불만", []string{"서비스", "불만", "불편", "품질", "속도", "느려"}},
	{"해외 이주", []string{"해외", "이민", "이주", "유학", "출국"}},
}

func resolveCancellationReason(keywords []string) string {
	joined := joinKeywords(keywords)
	for _, rule := range cancelReasonRules {
		if !containsReason(rule.reason) {
			continue
		}
		for _, kw := range rule.keywords {
			if strings.Contains(joined, kw) {
				return rule.reason
			}
		}
	}
	return "기타"
}

func containsReason(reason string) bool {
	for _, r := range CancellationData.Reasons {
		if r == reason {
			return true
		}
	}
	return false
}

func buildCancellationSequence(keywords []string) *Sequence {
	reason := resolveCancellationReason(keywords)

	return &Sequence{
		Steps: []Step{
			{
				ElementID:   "reason-" + reason,
				Action:      ActionSelect,
				Value:       reason,
				Label:       "\"" + reason + "\" 사유 선택",
				DelayBefore: 400 * time.Millisecond,
				DelayAfter:  600 * time.Millisecond,
			},
			{
				ElementID:   "apply-cancel",
				Action:      ActionClick,
				Label:       "해지 처리 실행",
				DelayBefore: 300 * time.Millisecond,
				DelayAfter:  1000 * time.Millisecond,
			},
		},
		Dispatches: []Command{
			{Type: CmdCancelSelectReason, Reason: reason},
			{Type: CmdCancelProcess},
		},
	}
}

// --- data addon ---

var addonRules = []struct {
	keywords []string
	match    func(name string) bool
}{
	{[]string{"2gb", "2기가", "리필 2", "쿠폰 2"}, func(n string) bool { return strings.Contains(n, "2GB") }},
	{[]string{"1gb", "1기가", "리필 1", "쿠폰 1", "리필"}, func(n string) bool { return strings.Contains(n, "1GB") }},
	{[]string{"통화", "전화"}, func(n string) bool { return strings.Contains(n, "통화") }},
	{[]string{"멤버십", "vip"}, func(n string) bool { return strings.Contains(strings.ToLower(n), "멤버십") }},
	{[]string{"스팸", "차단"}, func(n string) bool { return strings.Contains(n, "스팸") }},
	{[]string{"보험", "안심", "가드"}, func(n string) bool { return strings.Contains(n, "가드") || strings.Contains(n, "안심") }},
}

func resolveAddon(keywords []string) (int, string) {
	joined := joinKeywords(keywords)

	for i, a := range DataAddons {
		if strings.Contains(joined, strings.ToLower(a.Name)) {
			return i, a.Name
		}
	}

	for _, rule := range addonRules {
		hit := false
		for _, kw := range rule.keywords {
			if strings.Contains(joined, kw) {
				hit = true
				break
			}
		}
		if !hit {
			continue
		}
		for i, a := range DataAddons {
			if rule.match(a.Name) {
				return i, a.Name
			}
		}
	}

	// Default: the first addon the customer does not have yet.
	for i, a := range DataAddons {
		if !a.Active {
			return i, a.Name
		}
	}
	return 0, DataAddons[0].Name
}

func buildDataAddonSequence(keywords []string) *Sequence {
	idx, name := resolveAddon(keywords)

	return &Sequence{
		Steps: []Step{
			{
				ElementID:   fmt.Sprintf("addon-%d", idx),
				Action:      ActionClick,
				Label:       name + " 선택",
				DelayBefore: 400 * time.Millisecond,
				DelayAfter:  800 * time.Millisecond,
			},
			{
				ElementID:   "apply-addon",
				Action:      ActionClick,
				Label:       "부가서비스 추가",
				DelayBefore: 300 * time.Millisecond,
				DelayAfter:  800 * time.Millisecond,
			},
		},
		Dispatches: []Command{
			{Type: CmdDataSelectAddon, Index: idx},
			{Type: CmdDataAddAddon},
		},
	}
}
