package models

import (
	"time"

	"gorm.io/datatypes"
)

// Consultation result codes.
const (
	ResultNotPossible    = 0
	ResultNoActionNeeded = 1
	ResultDeepDiveNeeded = 2
)

// RiskDetail is one risk raised during a consultation.
type RiskDetail struct {
	RiskIndexList []int  `json:"riskIndexList"`
	Content       string `json:"content"`
}

// DesireDetail is one desire raised during a consultation.
type DesireDetail struct {
	DesireIndexList []int  `json:"desireIndexList"`
	Content         string `json:"content"`
}

// VulnerabilityInfo carries the vulnerability delta of one consultation,
// plus per-catalog-index occurrence counts used by the dashboard.
type VulnerabilityInfo struct {
	RiskList         []RiskDetail   `json:"riskList"`
	DesireList       []DesireDetail `json:"desireList"`
	RiskIndexCount   map[string]int `json:"riskIndexCount"`
	DesireIndexCount map[string]int `json:"desireIndexCount"`
}

// Consultation is the stored result of one completed call: transcript,
// summary, outcome codes and the vulnerability deltas extracted by the
// conversation engine.
type Consultation struct {
	ID            string `gorm:"primaryKey;size:36" json:"id"`
	AccountID     string `gorm:"size:20;index" json:"accountId"`
	SessionIndex  int    `gorm:"column:s_index" json:"sIndex"`
	VulnerableID  string `gorm:"size:30;index" json:"vId"`
	QuestionSetID string `gorm:"size:50;index" json:"qId"`

	Time    time.Time `gorm:"index" json:"time"`
	Runtime int64     `json:"runtime"` // seconds

	OverallScript string `gorm:"type:text" json:"overallScript"`
	Summary       string `gorm:"type:text" json:"summary"`

	Result    int `gorm:"not null;default:0" json:"result"`
	FailCode  int `gorm:"not null;default:0" json:"failCode"`
	NeedHuman int `gorm:"not null;default:0" json:"needHuman"`

	ResultVulnerabilities *VulnerabilityInfo `gorm:"serializer:json" json:"resultVulnerabilities,omitempty"`
	DeleteVulnerabilities *VulnerabilityInfo `gorm:"serializer:json" json:"deleteVulnerabilities,omitempty"`
	NewVulnerabilities    *VulnerabilityInfo `gorm:"serializer:json" json:"newVulnerabilities,omitempty"`

	// RawResult keeps the orchestrator callback verbatim for auditing.
	RawResult datatypes.JSON `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
}

// ResultLabel maps a result code to its display label.
func ResultLabel(code int) string {
	switch code {
	case ResultNotPossible:
		return "상담 불가"
	case ResultNoActionNeeded:
		return "상담 양호"
	case ResultDeepDiveNeeded:
		return "심층 상담 필요"
	default:
		return "알 수 없음"
	}
}

// CallHistoryRow is the paginated history-table row.
type CallHistoryRow struct {
	ID           string `json:"id"`
	VName        string `json:"vName"`
	QTitle       string `json:"qTitle"`
	StartTime    string `json:"startTime"`
	Result       string `json:"result"`
	RiskCount    int    `json:"riskCount"`
	DesireCount  int    `json:"desireCount"`
	SessionIndex int    `json:"sIndex"`
}
