package services

import (
	"context"
	"fmt"
	"time"

	"callbot-management/models"

	"github.com/go-resty/resty/v2"
)

// Wire types for the orchestrator's /api/receive contract. Field names are
// fixed by the conversation engine and are snake_case on the wire.

type orchestratorAddress struct {
	State    string `json:"state"`
	City     string `json:"city"`
	Address1 string `json:"address1"`
	Address2 string `json:"address2"`
}

type orchestratorRisk struct {
	RiskIndexList []int  `json:"risk_index_list"`
	Content       string `json:"content"`
}

type orchestratorDesire struct {
	DesireType []int  `json:"desire_type"`
	Content    string `json:"content"`
}

type orchestratorVulnerabilities struct {
	RiskList   []orchestratorRisk   `json:"risk_list"`
	DesireList []orchestratorDesire `json:"desire_list"`
}

type orchestratorResponseType struct {
	ResponseType  int `json:"response_type"`
	ResponseIndex int `json:"response_index"`
}

type orchestratorExpectedAnswer struct {
	Text             string                     `json:"text"`
	ResponseTypeList []orchestratorResponseType `json:"response_type_list"`
}

type orchestratorQuestion struct {
	Text           string                       `json:"text"`
	ExpectedAnswer []orchestratorExpectedAnswer `json:"expected_answer"`
}

// OrchestratorRequest is the full call-start payload.
type OrchestratorRequest struct {
	VulnerableID    string                      `json:"vulnerable_id"`
	SessionIndex    int                         `json:"s_index"`
	Name            string                      `json:"name"`
	Phone           string                      `json:"phone"`
	Gender          string                      `json:"gender"`
	BirthDate       string                      `json:"birth_date"`
	Address         orchestratorAddress         `json:"address"`
	QuestionList    []orchestratorQuestion      `json:"question_list"`
	Vulnerabilities orchestratorVulnerabilities `json:"vulnerabilities"`
}

// BuildOrchestratorRequest flattens a vulnerable record and question set
// into the orchestrator's wire shape.
func BuildOrchestratorRequest(v *models.Vulnerable, qs *models.QuestionSet, sessionIndex int) OrchestratorRequest {
	req := OrchestratorRequest{
		VulnerableID: v.UserID,
		SessionIndex: sessionIndex,
		Name:         v.Name,
		Phone:        v.PhoneNumber,
		Gender:       v.Gender,
		BirthDate:    time.Time(v.BirthDate).Format("2006-01-02"),
		Address: orchestratorAddress{
			State:    v.Address.State,
			City:     v.Address.City,
			Address1: v.Address.Address1,
			Address2: v.Address.Address2,
		},
		QuestionList:    make([]orchestratorQuestion, 0, len(qs.Flow)),
		Vulnerabilities: orchestratorVulnerabilities{RiskList: []orchestratorRisk{}, DesireList: []orchestratorDesire{}},
	}

	if v.Vulnerabilities != nil {
		for _, r := range v.Vulnerabilities.RiskList {
			req.Vulnerabilities.RiskList = append(req.Vulnerabilities.RiskList, orchestratorRisk{
				RiskIndexList: r.Type,
				Content:       r.Content,
			})
		}
		for _, d := range v.Vulnerabilities.DesireList {
			req.Vulnerabilities.DesireList = append(req.Vulnerabilities.DesireList, orchestratorDesire{
				DesireType: d.Type,
				Content:    d.Content,
			})
		}
	}

	for _, step := range qs.Flow {
		q := orchestratorQuestion{
			Text:           step.Text,
			ExpectedAnswer: make([]orchestratorExpectedAnswer, 0, len(step.ExpectedResponses)),
		}
		for _, er := range step.ExpectedResponses {
			answer := orchestratorExpectedAnswer{
				Text:             er.Text,
				ResponseTypeList: make([]orchestratorResponseType, 0, len(er.ResponseTypeList)),
			}
			for _, tag := range er.ResponseTypeList {
				answer.ResponseTypeList = append(answer.ResponseTypeList, orchestratorResponseType{
					ResponseType:  tag.ResponseType,
					ResponseIndex: tag.ResponseIndex,
				})
			}
			q.ExpectedAnswer = append(q.ExpectedAnswer, answer)
		}
		req.QuestionList = append(req.QuestionList, q)
	}
	return req
}

// OrchestratorClient talks to the external call orchestrator.
type OrchestratorClient struct {
	http *resty.Client
}

func NewOrchestratorClient(baseURL string) *OrchestratorClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(120 * time.Second). // a full dial attempt can take a while
		SetRetryCount(2).
		SetRetryWaitTime(2 * time.Second).
		SetRetryMaxWaitTime(10 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &OrchestratorClient{http: client}
}

// StartConsultation hands one consultation to the orchestrator. The call
// blocks until the orchestrator accepts or rejects the dial; the actual
// conversation result arrives later via the result callback.
func (c *OrchestratorClient) StartConsultation(ctx context.Context, req OrchestratorRequest) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		Post("/api/receive")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("orchestrator returned %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}
