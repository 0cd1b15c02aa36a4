package models

// Response type categories used to tag expected responses and to interpret
// catalog indexes coming back from the conversation engine.
const (
	CategoryException = 0
	CategoryRisk      = 1
	CategoryDesire    = 2
	CategoryDeepDive  = 3
)

// CatalogEntry is one entry of a fixed type catalog. Indexes are 1-based.
type CatalogEntry struct {
	Index int    `json:"index"`
	Label string `json:"label"`
}

var RiskTypes = []CatalogEntry{
	{1, "요금체납"},
	{2, "주거위기"},
	{3, "고용위기"},
	{4, "급여/서비스 탈락 및 미이용"},
	{5, "긴급상황 위기"},
	{6, "건강위기"},
	{7, "에너지위기"},
	{8, "기타"},
}

var DesireTypes = []CatalogEntry{
	{1, "안전"},
	{2, "건강"},
	{3, "일상생활유지"},
	{4, "가족관계"},
	{5, "사회적 관계"},
	{6, "경제"},
	{7, "교육"},
	{8, "고용"},
	{9, "생활환경"},
	{10, "법률 및 권익보장"},
	{11, "기타"},
}

var ExceptionTypes = []CatalogEntry{
	{1, "신상정보불일치"},
	{2, "상담거부"},
	{3, "의사소통불가"},
	{4, "부적절한답변"},
	{5, "연결끊어짐"},
	{6, "전화미수신"},
}

var DeepDiveTypes = []CatalogEntry{
	{1, "심층상담을 원함"},
	{2, "알아낸 취약 정보가 중대함"},
}

func lookupLabel(catalog []CatalogEntry, index int) string {
	for _, e := range catalog {
		if e.Index == index {
			return e.Label
		}
	}
	return ""
}

// RiskTypeLabel returns the label for a risk catalog index, or "".
func RiskTypeLabel(index int) string { return lookupLabel(RiskTypes, index) }

// DesireTypeLabel returns the label for a desire catalog index, or "".
func DesireTypeLabel(index int) string { return lookupLabel(DesireTypes, index) }
