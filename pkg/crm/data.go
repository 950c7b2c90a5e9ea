package crm

// Reference data for the simulated CRM console. This is the fixed demo
// dataset the resolvers and reducers operate on; the planner treats display
// names, prices and data allowances here as the source of truth.

// Customer is the demo account shown in the console header.
type Customer struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Grade       string `json:"grade"`
	Plan        string `json:"plan"`
	JoinDate    string `json:"joinDate"`
	ContractEnd string `json:"contractEnd"`
	Device      string `json:"device"`
	IMEI        string `json:"imei"`
	MonthlyFee  string `json:"monthlyFee"`
	DataUsed    string `json:"dataUsed"`
	DataTotal   string `json:"dataTotal"`
}

var DemoCustomer = Customer{
	Name:        "김민수",
	Phone:       "010-1234-5678",
	Grade:       "VIP",
	Plan:        "T플랜 에센셜",
	JoinDate:    "2021-03-15",
	ContractEnd: "2025-09-14",
	Device:      "Galaxy S24 Ultra",
	IMEI:        "354832110XXXXXX",
	MonthlyFee:  "69,000",
	DataUsed:    "42.3GB",
	DataTotal:   "100GB",
}

type RoamingProduct struct {
	Name   string `json:"name"`
	Region string `json:"region"`
	Price  string `json:"price"`
	Data   string `json:"data"`
}

var RoamingProducts = []RoamingProduct{
	{Name: "baro 로밍 데이터", Region: "유럽/미주", Price: "11,000원/일", Data: "무제한(1GB후 속도제한)"},
	{Name: "baro 로밍 데이터 미니", Region: "유럽/미주", Price: "7,700원/일", Data: "500MB"},
	{Name: "baro 로밍 OnePass", Region: "전세계", Price: "33,000원/5일", Data: "5GB"},
	{Name: "T로밍 데이터 무제한", Region: "아시아", Price: "9,900원/일", Data: "무제한"},
}

var RoamingRegions = []string{"유럽", "미주", "아시아", "일본", "중국", "동남아", "대양주"}

type Plan struct {
	Name    string `json:"name"`
	Data    string `json:"data"`
	Call    string `json:"call"`
	Message string `json:"message"`
	Price   string `json:"price"`
	Diff    string `json:"diff,omitempty"`
}

var CurrentPlan = Plan{Name: "T플랜 에센셜", Data: "100GB", Call: "무제한", Message: "무제한", Price: "69,000원"}

var AvailablePlans = []Plan{
	{Name: "T플랜 스페셜", Data: "150GB", Call: "무제한", Message: "무제한", Price: "79,000원", Diff: "+10,000원"},
	{Name: "T플랜 프리미엄", Data: "무제한", Call: "무제한", Message: "무제한", Price: "99,000원", Diff: "+30,000원"},
	{Name: "T플랜 라이트", Data: "50GB", Call: "무제한", Message: "무제한", Price: "55,000원", Diff: "-14,000원"},
	{Name: "0 청년 요금제", Data: "60GB", Call: "무제한", Message: "무제한", Price: "55,000원", Diff: "-14,000원"},
}

type Device struct {
	Name        string `json:"name"`
	Price       string `json:"price"`
	Subsidy     string `json:"subsidy"`
	Installment string `json:"installment"`
}

var AvailableDevices = []Device{
	{Name: "Galaxy S25 Ultra", Price: "1,698,400원", Subsidy: "264,000원", Installment: "월 59,800원"},
	{Name: "iPhone 16 Pro Max", Price: "1,900,000원", Subsidy: "198,000원", Installment: "월 70,900원"},
	{Name: "Galaxy Z Fold6", Price: "2,098,700원", Subsidy: "330,000원", Installment: "월 73,700원"},
}

// DeviceOptions: index 0 is the default subsidy option, index 1 the contract
// discount. Planner picks by keyword.
var DeviceOptions = []string{"공시지원금", "선택약정(25%할인)"}

type SuspendOption struct {
	Label string `json:"label"`
	Desc  string `json:"desc"`
}

var SuspendOptions = []SuspendOption{
	{Label: "분실 정지", Desc: "일시정지 후 복구 가능"},
	{Label: "도난 정지", Desc: "긴급 정지 + 경찰 신고 접수"},
}

type PenaltyItem struct {
	Item   string `json:"item"`
	Amount string `json:"amount"`
}

type CancellationInfo struct {
	ContractType     string        `json:"contractType"`
	ContractStart    string        `json:"contractStart"`
	ContractEnd      string        `json:"contractEnd"`
	RemainingMonths  int           `json:"remainingMonths"`
	Penalty          string        `json:"penalty"`
	PenaltyBreakdown []PenaltyItem `json:"penaltyBreakdown"`
	Reasons          []string      `json:"reasons"`
}

var CancellationData = CancellationInfo{
	ContractType:    "선택약정(24개월)",
	ContractStart:   "2024-03-15",
	ContractEnd:     "2026-03-14",
	RemainingMonths: 14,
	Penalty:         "186,300원",
	PenaltyBreakdown: []PenaltyItem{
		{Item: "약정할인 반환금", Amount: "142,800원"},
		{Item: "단말 잔여 할부금", Amount: "43,500원"},
	},
	Reasons: []string{"타사 이동", "요금 불만", "서비스 불만", "해외 이주", "기타"},
}

type Addon struct {
	Name   string `json:"name"`
	Price  string `json:"price"`
	Active bool   `json:"active"`
}

var DataAddons = []Addon{
	{Name: "T 데이터 리필 쿠폰 1GB", Price: "3,300원", Active: false},
	{Name: "T 데이터 리필 쿠폰 2GB", Price: "5,500원", Active: false},
	{Name: "통화 매니아", Price: "2,200원/월", Active: true},
	{Name: "T멤버십 VIP", Price: "무료", Active: true},
	{Name: "스팸 차단 서비스", Price: "무료", Active: true},
	{Name: "T가드(안심보험)", Price: "9,900원/월", Active: true},
}

type CounselRecord struct {
	Date    string `json:"date"`
	Time    string `json:"time"`
	Type    string `json:"type"`
	Channel string `json:"channel"`
	Summary string `json:"summary"`
	Agent   string `json:"agent"`
}

var CounselHistory = []CounselRecord{
	{Date: "2025-01-28", Time: "14:32", Type: "요금 문의", Channel: "전화", Summary: "1월 청구 요금 이의 - 데이터 초과 과금 안내, 리필쿠폰 추천", Agent: "박상담"},
	{Date: "2025-01-15", Time: "10:15", Type: "부가서비스", Channel: "채팅", Summary: "T멤버십 VIP 혜택 안내 및 스팸차단 서비스 가입 처리", Agent: "이상담"},
	{Date: "2024-12-20", Time: "16:45", Type: "기기 문의", Channel: "전화", Summary: "Galaxy S25 Ultra 사전예약 관련 문의 - 출시일/가격 안내", Agent: "김상담"},
	{Date: "2024-11-05", Time: "09:30", Type: "로밍", Channel: "전화", Summary: "일본 여행 로밍 신청 - baro 로밍 데이터 미니 3일 가입", Agent: "최상담"},
}

type BillingRecord struct {
	Month     string        `json:"month"`
	Total     string        `json:"total"`
	Breakdown []PenaltyItem `json:"breakdown"`
	Status    string        `json:"status"`
	PayDate   string        `json:"payDate"`
}

var BillingHistory = []BillingRecord{
	{
		Month: "2025년 1월",
		Total: "78,900원",
		Breakdown: []PenaltyItem{
			{Item: "기본요금 (T플랜 에센셜)", Amount: "69,000원"},
			{Item: "T가드(안심보험)", Amount: "9,900원"},
			{Item: "할인 (선택약정 25%)", Amount: "-17,250원"},
			{Item: "부가세", Amount: "17,250원"},
		},
		Status:  "납부완료",
		PayDate: "2025-01-25",
	},
	{
		Month: "2024년 12월",
		Total: "82,400원",
		Breakdown: []PenaltyItem{
			{Item: "기본요금 (T플랜 에센셜)", Amount: "69,000원"},
			{Item: "T가드(안심보험)", Amount: "9,900원"},
			{Item: "데이터 초과 (2GB)", Amount: "3,500원"},
			{Item: "할인 (선택약정 25%)", Amount: "-17,250원"},
			{Item: "부가세", Amount: "17,250원"},
		},
		Status:  "납부완료",
		PayDate: "2024-12-26",
	},
	{
		Month: "2024년 11월",
		Total: "91,700원",
		Breakdown: []PenaltyItem{
			{Item: "기본요금 (T플랜 에센셜)", Amount: "69,000원"},
			{Item: "T가드(안심보험)", Amount: "9,900원"},
			{Item: "baro 로밍 데이터 미니 3일", Amount: "23,100원"},
			{Item: "할인 (선택약정 25%)", Amount: "-17,250원"},
			{Item: "부가세", Amount: "6,950원"},
		},
		Status:  "납부완료",
		PayDate: "2024-11-25",
	},
}
