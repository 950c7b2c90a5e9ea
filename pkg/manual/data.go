package manual

// SeedPages is the built-in consultation manual used by the demo console.
// Content mirrors the paper manual: one entry per page, Korean official
// terminology so extracted keywords hit reliably.
var SeedPages = []Page{
	{
		ID:         "manual-roaming-1",
		Filename:   "해외로밍 업무 매뉴얼.pdf",
		PageNumber: 3,
		Content: "해외로밍 데이터 상품 안내. baro 로밍 데이터: 유럽/미주 지역 1일 11,000원, 데이터 무제한(1GB 소진 후 속도제한). " +
			"baro 로밍 데이터 미니: 유럽/미주 지역 1일 7,700원, 500MB 제공. baro 로밍 OnePass: 전세계 5일 33,000원, 5GB 제공. " +
			"T로밍 데이터 무제한: 아시아 지역 1일 9,900원, 데이터 무제한. 로밍 상품은 출국 전 신청 시 현지 도착 즉시 적용됩니다.",
	},
	{
		ID:         "manual-roaming-2",
		Filename:   "해외로밍 업무 매뉴얼.pdf",
		PageNumber: 4,
		Content: "로밍 신청 절차. 고객 본인 확인 후 여행 지역과 기간을 확인합니다. 지역 선택(유럽, 미주, 아시아, 일본, 중국, 동남아, 대양주) 후 " +
			"적합한 로밍 상품을 선택하고 신청 처리합니다. 해외 체류 중에도 고객센터 또는 앱에서 신청 가능하며, 일 단위 과금 상품은 현지 자정 기준으로 갱신됩니다.",
	},
	{
		ID:         "manual-plan-1",
		Filename:   "요금제 업무 매뉴얼.pdf",
		PageNumber: 12,
		Content: "요금제 변경 안내. T플랜 스페셜: 월 79,000원, 데이터 150GB, 통화/문자 무제한. T플랜 프리미엄: 월 99,000원, 데이터 무제한. " +
			"T플랜 라이트: 월 55,000원, 데이터 50GB. 0 청년 요금제: 월 55,000원, 데이터 60GB, 만 34세 이하 가입 가능. " +
			"요금제 변경은 월 1회 무료이며 변경 즉시 적용, 당월 요금은 일할 계산됩니다.",
	},
	{
		ID:         "manual-plan-2",
		Filename:   "요금제 업무 매뉴얼.pdf",
		PageNumber: 15,
		Content: "요금 청구 및 납부 안내. 청구서는 매월 고지되며 납부 기한 경과 시 연체료가 부과됩니다. 요금 과다 청구 이의 접수 시 " +
			"최근 3개월 청구 내역을 확인하고 부가서비스, 소액결제, 데이터 초과 사용 여부를 안내합니다. 자동이체 할인과 제휴 카드 할인이 적용될 수 있습니다.",
	},
	{
		ID:         "manual-device-1",
		Filename:   "기기변경 업무 매뉴얼.pdf",
		PageNumber: 7,
		Content: "기기변경 및 개통 안내. 공시지원금: 단말 구매 시 출고가에서 지원금을 즉시 할인, 24개월 약정. " +
			"선택약정(25%할인): 단말 지원금 대신 월 통신요금의 25%를 할인. 주요 단말: Galaxy S25 Ultra 출고가 1,698,400원, " +
			"iPhone 16 Pro Max 출고가 1,900,000원, Galaxy Z Fold6 출고가 2,098,700원. 기기변경 개통은 유심 이동 포함 즉시 처리됩니다.",
	},
	{
		ID:         "manual-device-2",
		Filename:   "기기변경 업무 매뉴얼.pdf",
		PageNumber: 9,
		Content: "번호이동(MNP) 및 신규가입 안내. 번호이동 전입 고객은 기존 통신사 위약금 확인 후 개통 처리합니다. " +
			"할부 개월 수는 12/24/36개월 중 선택 가능하며 할부 수수료가 부과됩니다. 개통 완료 후 익일부터 요금제가 정상 적용됩니다.",
	},
	{
		ID:         "manual-lost-1",
		Filename:   "분실도난 업무 매뉴얼.pdf",
		PageNumber: 2,
		Content: "분실/도난 신고 및 긴급 정지 안내. 분실 정지: 고객 요청 시 발신/수신/데이터를 즉시 차단하며 재개통 시까지 기본료는 일할 감면됩니다. " +
			"도난 정지: 도난 신고 접수 시 단말 IMEI를 차단하여 타 유심 사용을 방지합니다. 분실보험(T가드) 가입 고객은 보상 접수를 함께 안내합니다.",
	},
	{
		ID:         "manual-lost-2",
		Filename:   "분실도난 업무 매뉴얼.pdf",
		PageNumber: 3,
		Content: "일시정지 및 재사용 안내. 군입대, 해외 체류 등 사유의 일시정지는 연 최대 183일까지 가능합니다. " +
			"분실 정지 해제는 본인 확인 후 즉시 처리되며, 단말을 찾은 경우 IMEI 차단 해제를 함께 진행합니다.",
	},
	{
		ID:         "manual-cancel-1",
		Filename:   "해지 업무 매뉴얼.pdf",
		PageNumber: 5,
		Content: "해지 처리 안내. 해지 접수 시 위약금을 반드시 사전 고지합니다. 약정 기간 내 해지 시 할인반환금(약정 위약금)과 " +
			"단말 잔여 할부금이 청구됩니다. 해지 사유(타사 이동, 요금 불만, 서비스 불만, 해외 이주, 기타)를 기록하고 " +
			"사유별 방어 상담(요금제 하향, 일시정지 대안)을 먼저 안내합니다.",
	},
	{
		ID:         "manual-data-1",
		Filename:   "부가서비스 업무 매뉴얼.pdf",
		PageNumber: 8,
		Content: "데이터 부가서비스 안내. T 데이터 리필 쿠폰 1GB: 3,300원, 즉시 충전. T 데이터 리필 쿠폰 2GB: 5,500원. " +
			"데이터 소진 고객에게는 리필 쿠폰 또는 요금제 상향을 안내합니다. 통화 매니아: 월 2,200원, 부가 통화 제공. " +
			"스팸 차단 서비스: 무료. T멤버십 VIP: 무료, 제휴 할인 제공.",
	},
	{
		ID:         "manual-data-2",
		Filename:   "부가서비스 업무 매뉴얼.pdf",
		PageNumber: 11,
		Content: "네트워크 품질 및 속도저하 안내. 데이터 속도저하 문의 시 커버리지, 단말 재부팅, 요금제 데이터 소진 여부를 순서대로 확인합니다. " +
			"기본 제공량 소진 후에는 속도 제어(QoS)가 적용되며, 리필 쿠폰 사용 시 정상 속도로 복원됩니다. 지속적 품질 민원은 VOC로 접수합니다.",
	},
	{
		ID:         "manual-etc-1",
		Filename:   "고객상담 공통 매뉴얼.pdf",
		PageNumber: 1,
		Content: "상담 공통 원칙. 고객 본인 확인을 최우선으로 하며, 금액과 조건은 매뉴얼에 기재된 수치를 그대로 안내합니다. " +
			"명의변경, 일시정지, 청구지 변경 등 계정 업무는 본인 확인 강화 절차를 따릅니다. 모든 처리 결과는 처리 직후 고객에게 확인 안내합니다.",
	},
}
