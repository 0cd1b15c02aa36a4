package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCatalogLabels(t *testing.T) {
	assert.Equal(t, "요금체납", RiskTypeLabel(1))
	assert.Equal(t, "건강위기", RiskTypeLabel(6))
	assert.Equal(t, "", RiskTypeLabel(99))

	assert.Equal(t, "안전", DesireTypeLabel(1))
	assert.Equal(t, "기타", DesireTypeLabel(11))
	assert.Equal(t, "", DesireTypeLabel(0))
}

func TestCatalogIndexesAreSequential(t *testing.T) {
	for _, catalog := range [][]CatalogEntry{RiskTypes, DesireTypes, ExceptionTypes, DeepDiveTypes} {
		for i, entry := range catalog {
			assert.Equal(t, i+1, entry.Index)
			assert.NotEmpty(t, entry.Label)
		}
	}
}

func TestResultLabel(t *testing.T) {
	assert.Equal(t, "상담 불가", ResultLabel(ResultNotPossible))
	assert.Equal(t, "상담 양호", ResultLabel(ResultNoActionNeeded))
	assert.Equal(t, "심층 상담 필요", ResultLabel(ResultDeepDiveNeeded))
	assert.Equal(t, "알 수 없음", ResultLabel(7))
}
