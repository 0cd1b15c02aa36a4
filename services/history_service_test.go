package services

import (
	"testing"
	"time"

	"callbot-management/models"

	"github.com/stretchr/testify/assert"
)

func TestParseSortClause(t *testing.T) {
	cases := map[string]string{
		"":             "time DESC",
		"time,desc":    "time DESC",
		"time,asc":     "time ASC",
		"runtime,asc":  "runtime ASC",
		"sIndex,desc":  "s_index DESC",
		"s_index,asc":  "s_index ASC",
		"result":       "result DESC",
		"bogus,asc":    "time DESC",
		"time;drop,up": "time DESC",
	}
	for input, expect := range cases {
		assert.Equal(t, expect, ParseSortClause(input), "input %q", input)
	}
}

func TestPageCount(t *testing.T) {
	assert.Equal(t, 0, PageCount(0, 10))
	assert.Equal(t, 1, PageCount(1, 10))
	assert.Equal(t, 1, PageCount(10, 10))
	assert.Equal(t, 2, PageCount(11, 10))
	assert.Equal(t, 4, PageCount(10, 3))
	assert.Equal(t, 0, PageCount(5, 0))
}

func TestBuildHistoryRow(t *testing.T) {
	c := models.Consultation{
		ID:            "c-1",
		VulnerableID:  "U1",
		QuestionSetID: "Q1",
		Time:          time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC),
		Result:        models.ResultDeepDiveNeeded,
		SessionIndex:  2,
		ResultVulnerabilities: &models.VulnerabilityInfo{
			RiskList:   []models.RiskDetail{{RiskIndexList: []int{2}, Content: "집세 밀림"}},
			DesireList: []models.DesireDetail{{DesireIndexList: []int{1}, Content: "안전 확인"}, {DesireIndexList: []int{6}, Content: "생활비"}},
		},
	}
	names := map[string]string{"U1": "김복지"}
	titles := map[string]string{"Q1": "정기 안부 확인"}

	row := BuildHistoryRow(c, names, titles)

	assert.Equal(t, "c-1", row.ID)
	assert.Equal(t, "김복지", row.VName)
	assert.Equal(t, "정기 안부 확인", row.QTitle)
	assert.Equal(t, "2026-03-14 10:30:00", row.StartTime)
	assert.Equal(t, "심층 상담 필요", row.Result)
	assert.Equal(t, 1, row.RiskCount)
	assert.Equal(t, 2, row.DesireCount)
	assert.Equal(t, 2, row.SessionIndex)
}

func TestBuildHistoryRowWithoutVulnerabilities(t *testing.T) {
	row := BuildHistoryRow(models.Consultation{ID: "c-2", Result: models.ResultNotPossible}, nil, nil)
	assert.Equal(t, "상담 불가", row.Result)
	assert.Equal(t, 0, row.RiskCount)
	assert.Equal(t, 0, row.DesireCount)
	assert.Equal(t, "", row.VName)
}

func TestExportFilename(t *testing.T) {
	assert.Equal(t, "call-history-2026-09-01.xlsx", ExportFilename("2026-09-01"))
}
