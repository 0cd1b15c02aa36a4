package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"callbot-management/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func sampleVulnerable() *models.Vulnerable {
	return &models.Vulnerable{
		UserID:      "U20250521",
		Name:        "김복지",
		Gender:      "F",
		BirthDate:   datatypes.Date(time.Date(1945, 5, 21, 0, 0, 0, 0, time.UTC)),
		PhoneNumber: "010-1234-5678",
		Address: models.Address{
			State:    "서울특별시",
			City:     "관악구",
			Address1: "봉천로 123",
			Address2: "101호",
		},
		Vulnerabilities: &models.Vulnerabilities{
			Summary: "독거, 만성질환",
			RiskList: []models.VulnerabilityDetail{
				{Type: []int{6}, Content: "고혈압 진단"},
			},
			DesireList: []models.VulnerabilityDetail{
				{Type: []int{2}, Content: "정기 건강 확인 희망"},
			},
		},
	}
}

func sampleQuestionSet() *models.QuestionSet {
	return &models.QuestionSet{
		QuestionsID: "QS001",
		Title:       "정기 안부 확인",
		Flow: []models.QuestionStep{
			{
				Text: "요즘 건강은 어떠세요?",
				ExpectedResponses: []models.ExpectedResponse{
					{
						Text: "아프다",
						ResponseTypeList: []models.ResponseTypeTag{
							{ResponseType: models.CategoryRisk, ResponseIndex: 6},
						},
					},
					{Text: "괜찮다"},
				},
			},
		},
	}
}

func TestBuildOrchestratorRequest(t *testing.T) {
	req := BuildOrchestratorRequest(sampleVulnerable(), sampleQuestionSet(), 3)

	assert.Equal(t, "U20250521", req.VulnerableID)
	assert.Equal(t, 3, req.SessionIndex)
	assert.Equal(t, "1945-05-21", req.BirthDate)
	assert.Equal(t, "서울특별시", req.Address.State)

	require.Len(t, req.QuestionList, 1)
	require.Len(t, req.QuestionList[0].ExpectedAnswer, 2)
	require.Len(t, req.QuestionList[0].ExpectedAnswer[0].ResponseTypeList, 1)
	assert.Equal(t, models.CategoryRisk, req.QuestionList[0].ExpectedAnswer[0].ResponseTypeList[0].ResponseType)
	assert.Equal(t, 6, req.QuestionList[0].ExpectedAnswer[0].ResponseTypeList[0].ResponseIndex)

	require.Len(t, req.Vulnerabilities.RiskList, 1)
	assert.Equal(t, []int{6}, req.Vulnerabilities.RiskList[0].RiskIndexList)
	require.Len(t, req.Vulnerabilities.DesireList, 1)
	assert.Equal(t, []int{2}, req.Vulnerabilities.DesireList[0].DesireType)
}

func TestBuildOrchestratorRequestWireShape(t *testing.T) {
	raw, err := json.Marshal(BuildOrchestratorRequest(sampleVulnerable(), sampleQuestionSet(), 1))
	require.NoError(t, err)

	var wire map[string]any
	require.NoError(t, json.Unmarshal(raw, &wire))

	// The orchestrator contract is snake_case.
	for _, key := range []string{"vulnerable_id", "s_index", "birth_date", "question_list", "vulnerabilities"} {
		assert.Contains(t, wire, key)
	}
	vulns := wire["vulnerabilities"].(map[string]any)
	assert.Contains(t, vulns, "risk_list")
	assert.Contains(t, vulns, "desire_list")
}

func TestBuildOrchestratorRequestEmptyProfile(t *testing.T) {
	v := sampleVulnerable()
	v.Vulnerabilities = nil

	req := BuildOrchestratorRequest(v, sampleQuestionSet(), 1)

	// Empty, not nil: the orchestrator expects the lists to be present.
	assert.NotNil(t, req.Vulnerabilities.RiskList)
	assert.Empty(t, req.Vulnerabilities.RiskList)
	assert.NotNil(t, req.Vulnerabilities.DesireList)
}

func TestOrchestratorClientStartConsultation(t *testing.T) {
	var gotPath string
	var gotBody OrchestratorRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewOrchestratorClient(server.URL)
	err := client.StartConsultation(context.Background(), BuildOrchestratorRequest(sampleVulnerable(), sampleQuestionSet(), 2))

	require.NoError(t, err)
	assert.Equal(t, "/api/receive", gotPath)
	assert.Equal(t, "U20250521", gotBody.VulnerableID)
	assert.Equal(t, 2, gotBody.SessionIndex)
}

func TestOrchestratorClientErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "engine busy", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewOrchestratorClient(server.URL)
	err := client.StartConsultation(context.Background(), OrchestratorRequest{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}
