package services

import (
	"sync"

	"callbot-management/models"

	"github.com/sirupsen/logrus"
)

// subscriberBuffer bounds each SSE subscriber channel. A subscriber that
// falls this far behind starts losing intermediate updates; the board
// snapshot on reconnect recovers the current state.
const subscriberBuffer = 32

// MonitoringService fans consultation status updates out to SSE
// subscribers and keeps the status board current. Publish is the single
// write path: every update is reconciled into the board first and only
// broadcast if it was not stale.
type MonitoringService struct {
	Board *StatusBoard

	mu          sync.Mutex
	subscribers map[chan models.ConsultationStatus]struct{}
}

func NewMonitoringService(board *StatusBoard) *MonitoringService {
	return &MonitoringService{
		Board:       board,
		subscribers: make(map[chan models.ConsultationStatus]struct{}),
	}
}

// Subscribe registers an SSE listener. The returned cancel func must be
// called on disconnect.
func (m *MonitoringService) Subscribe(adminID string) (<-chan models.ConsultationStatus, func()) {
	ch := make(chan models.ConsultationStatus, subscriberBuffer)

	m.mu.Lock()
	m.subscribers[ch] = struct{}{}
	total := len(m.subscribers)
	m.mu.Unlock()

	logrus.WithFields(logrus.Fields{"adminId": adminID, "subscribers": total}).Info("sse subscriber added")

	cancel := func() {
		m.mu.Lock()
		if _, ok := m.subscribers[ch]; ok {
			delete(m.subscribers, ch)
			close(ch)
		}
		remaining := len(m.subscribers)
		m.mu.Unlock()
		logrus.WithFields(logrus.Fields{"adminId": adminID, "subscribers": remaining}).Info("sse subscriber removed")
	}
	return ch, cancel
}

// Publish reconciles an update and broadcasts it. Sends never block: a
// full subscriber buffer drops the update for that subscriber only.
func (m *MonitoringService) Publish(s models.ConsultationStatus) {
	m.Board.Stamp(&s)
	if !m.Board.Apply(s) {
		logrus.WithFields(logrus.Fields{"vId": s.VulnerableID, "status": s.Status}).Debug("stale status update dropped")
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for ch := range m.subscribers {
		select {
		case ch <- s:
		default:
		}
	}
}

// SubscriberCount reports the number of connected listeners.
func (m *MonitoringService) SubscriberCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subscribers)
}
