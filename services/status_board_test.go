package services

import (
	"testing"

	"callbot-management/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusBoardReplacesInPlace(t *testing.T) {
	board := NewStatusBoard()

	board.Apply(models.ConsultationStatus{VulnerableID: "U1", Status: models.StatusWaiting, Version: 1})
	board.Apply(models.ConsultationStatus{VulnerableID: "U2", Status: models.StatusWaiting, Version: 2})
	board.Apply(models.ConsultationStatus{VulnerableID: "U1", Status: models.StatusInProgress, Version: 3})

	snapshot := board.Snapshot()
	require.Len(t, snapshot, 2)
	// U1 keeps its original position and only its state changes.
	assert.Equal(t, "U1", snapshot[0].VulnerableID)
	assert.Equal(t, models.StatusInProgress, snapshot[0].Status)
	assert.Equal(t, "U2", snapshot[1].VulnerableID)
}

func TestStatusBoardAppendsUnknownID(t *testing.T) {
	board := NewStatusBoard()

	board.Apply(models.ConsultationStatus{VulnerableID: "U1", Status: models.StatusWaiting, Version: 1})
	applied := board.Apply(models.ConsultationStatus{VulnerableID: "U2", Status: models.StatusWaiting, Version: 2})

	assert.True(t, applied)
	snapshot := board.Snapshot()
	require.Len(t, snapshot, 2)
	assert.Equal(t, "U2", snapshot[1].VulnerableID)
}

func TestStatusBoardDropsStaleVersions(t *testing.T) {
	board := NewStatusBoard()

	board.Apply(models.ConsultationStatus{VulnerableID: "U1", Status: models.StatusCompleted, Version: 10})
	applied := board.Apply(models.ConsultationStatus{VulnerableID: "U1", Status: models.StatusInProgress, Version: 5})

	assert.False(t, applied)
	got, ok := board.Get("U1")
	require.True(t, ok)
	assert.Equal(t, models.StatusCompleted, got.Status)
}

func TestStatusBoardOrderIndependentReconciliation(t *testing.T) {
	// A stream event may land before the snapshot entry for the same id;
	// the later-versioned update must win either way.
	early := models.ConsultationStatus{VulnerableID: "U1", Status: models.StatusWaiting, Version: 1}
	late := models.ConsultationStatus{VulnerableID: "U1", Status: models.StatusInProgress, Version: 2}

	forward := NewStatusBoard()
	forward.Apply(early)
	forward.Apply(late)

	reversed := NewStatusBoard()
	reversed.Apply(late)
	reversed.Apply(early)

	f, _ := forward.Get("U1")
	r, _ := reversed.Get("U1")
	assert.Equal(t, f.Status, r.Status)
	assert.Equal(t, models.StatusInProgress, r.Status)
	assert.Len(t, reversed.Snapshot(), 1)
}

func TestStatusBoardStampAssignsMonotonicVersions(t *testing.T) {
	board := NewStatusBoard()
	tick := int64(0)
	board.clock = func() int64 { tick++; return tick }

	first := models.ConsultationStatus{VulnerableID: "U1"}
	second := models.ConsultationStatus{VulnerableID: "U1"}
	board.Stamp(&first)
	board.Stamp(&second)

	assert.Less(t, first.Version, second.Version)

	// Pre-stamped updates keep their version.
	replay := models.ConsultationStatus{VulnerableID: "U1", Version: 99}
	board.Stamp(&replay)
	assert.Equal(t, int64(99), replay.Version)
}

func TestStatusBoardProgress(t *testing.T) {
	board := NewStatusBoard()
	board.Apply(models.ConsultationStatus{VulnerableID: "U1", Status: models.StatusCompleted, Version: 1})
	board.Apply(models.ConsultationStatus{VulnerableID: "U2", Status: models.StatusFailed, Version: 2})
	board.Apply(models.ConsultationStatus{VulnerableID: "U3", Status: models.StatusWaiting, Version: 3})
	board.Apply(models.ConsultationStatus{VulnerableID: "U4", Status: models.StatusInProgress, Version: 4})

	p := board.Progress()
	assert.Equal(t, 4, p.Total)
	assert.Equal(t, 1, p.ByStatus[models.StatusCompleted])
	assert.Equal(t, 1, p.ByStatus[models.StatusFailed])
	assert.InDelta(t, 50.0, p.Percentage, 0.001)
}

func TestStatusBoardProgressEmpty(t *testing.T) {
	p := NewStatusBoard().Progress()
	assert.Equal(t, 0, p.Total)
	assert.Equal(t, 0.0, p.Percentage)
}

func TestStatusBoardReset(t *testing.T) {
	board := NewStatusBoard()
	board.Apply(models.ConsultationStatus{VulnerableID: "U1", Status: models.StatusWaiting, Version: 1})
	board.Reset()

	assert.Empty(t, board.Snapshot())
	_, ok := board.Get("U1")
	assert.False(t, ok)
}
