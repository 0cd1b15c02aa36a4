package services

import (
	"testing"
	"time"

	"callbot-management/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receiveOrTimeout(t *testing.T, ch <-chan models.ConsultationStatus) models.ConsultationStatus {
	t.Helper()
	select {
	case s := <-ch:
		return s
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for status update")
		return models.ConsultationStatus{}
	}
}

func TestMonitoringPublishDeliversToSubscribers(t *testing.T) {
	m := NewMonitoringService(NewStatusBoard())

	ch1, cancel1 := m.Subscribe("admin1")
	ch2, cancel2 := m.Subscribe("admin2")
	defer cancel1()
	defer cancel2()

	m.Publish(models.ConsultationStatus{VulnerableID: "U1", Status: models.StatusWaiting})

	got1 := receiveOrTimeout(t, ch1)
	got2 := receiveOrTimeout(t, ch2)
	assert.Equal(t, "U1", got1.VulnerableID)
	assert.Equal(t, got1, got2)

	// The update also landed on the board.
	entry, ok := m.Board.Get("U1")
	require.True(t, ok)
	assert.Equal(t, models.StatusWaiting, entry.Status)
}

func TestMonitoringUnsubscribeStopsDelivery(t *testing.T) {
	m := NewMonitoringService(NewStatusBoard())

	ch, cancel := m.Subscribe("admin1")
	cancel()
	assert.Equal(t, 0, m.SubscriberCount())

	// Channel is closed after cancel; publish must not panic.
	m.Publish(models.ConsultationStatus{VulnerableID: "U1", Status: models.StatusWaiting})
	_, open := <-ch
	assert.False(t, open)
}

func TestMonitoringCancelIsIdempotent(t *testing.T) {
	m := NewMonitoringService(NewStatusBoard())
	_, cancel := m.Subscribe("admin1")
	cancel()
	cancel()
	assert.Equal(t, 0, m.SubscriberCount())
}

func TestMonitoringStaleUpdateNotBroadcast(t *testing.T) {
	m := NewMonitoringService(NewStatusBoard())

	m.Publish(models.ConsultationStatus{VulnerableID: "U1", Status: models.StatusCompleted, Version: 10})

	ch, cancel := m.Subscribe("admin1")
	defer cancel()

	m.Publish(models.ConsultationStatus{VulnerableID: "U1", Status: models.StatusWaiting, Version: 5})

	select {
	case s := <-ch:
		t.Fatalf("stale update should not be broadcast, got %+v", s)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestMonitoringSlowSubscriberDoesNotBlock(t *testing.T) {
	m := NewMonitoringService(NewStatusBoard())

	_, cancel := m.Subscribe("slow") // never reads
	defer cancel()

	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriberBuffer*2; i++ {
			m.Publish(models.ConsultationStatus{VulnerableID: "U1", Status: models.StatusInProgress})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
}
