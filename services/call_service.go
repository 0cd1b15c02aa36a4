package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"callbot-management/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	waitingQueueKey     = "queue:waiting"
	questionCachePrefix = "questions:"
	questionCacheTTL    = time.Hour
)

// CallService owns the consultation queue. Batch enqueue pushes items onto
// the Redis waiting list and seeds the status board; the pump pops one
// item at a time, hands it to the orchestrator and drives the
// waiting -> in-progress -> completed|failed transitions through the
// monitoring hub.
type CallService struct {
	DB           *gorm.DB
	RDB          *redis.Client
	Monitor      *MonitoringService
	Orchestrator *OrchestratorClient
	Vulnerables  *VulnerableService
	Questions    *QuestionService
}

func NewCallService(
	db *gorm.DB,
	rdb *redis.Client,
	monitor *MonitoringService,
	orchestrator *OrchestratorClient,
	vulnerables *VulnerableService,
	questions *QuestionService,
) *CallService {
	return &CallService{
		DB:           db,
		RDB:          rdb,
		Monitor:      monitor,
		Orchestrator: orchestrator,
		Vulnerables:  vulnerables,
		Questions:    questions,
	}
}

// EnqueueBatch validates the question set and every target, caches the
// question set and queues one item per target. Returns the queue ids in
// enqueue order.
func (s *CallService) EnqueueBatch(ctx context.Context, vulnerableIDs []string, questionSetID, accountID string) ([]string, error) {
	if len(vulnerableIDs) == 0 {
		return nil, errors.New("no vulnerable ids given")
	}

	qs, err := s.Questions.GetByID(questionSetID)
	if err != nil {
		return nil, err
	}

	if err := s.cacheQuestionSet(ctx, qs); err != nil {
		logrus.WithError(err).Warn("question set cache write failed")
	}

	queueIDs := make([]string, 0, len(vulnerableIDs))
	for _, vID := range vulnerableIDs {
		v, err := s.Vulnerables.GetByID(vID)
		if err != nil {
			return nil, fmt.Errorf("vulnerable %s: %w", vID, err)
		}

		item := models.QueueItem{
			QueueID:       uuid.NewString(),
			VulnerableID:  vID,
			QuestionSetID: questionSetID,
			AccountID:     accountID,
			State:         models.StatusWaiting,
			CreatedTime:   time.Now(),
		}
		raw, err := json.Marshal(item)
		if err != nil {
			return nil, err
		}
		if err := s.RDB.RPush(ctx, waitingQueueKey, raw).Err(); err != nil {
			return nil, err
		}
		queueIDs = append(queueIDs, item.QueueID)

		s.Monitor.Publish(models.ConsultationStatus{
			VulnerableID:   vID,
			VulnerableName: v.Name,
			QuestionSetID:  questionSetID,
			QuestionTitle:  qs.Title,
			Status:         models.StatusWaiting,
		})
		logrus.WithFields(logrus.Fields{"queueId": item.QueueID, "vId": vID}).Info("queued consultation")
	}
	return queueIDs, nil
}

// QueueStatus returns the current board snapshot and derived progress.
func (s *CallService) QueueStatus() ([]models.ConsultationStatus, models.QueueProgress) {
	return s.Monitor.Board.Snapshot(), s.Monitor.Board.Progress()
}

// StartNext pops one waiting item and starts its consultation. Returns
// redis.Nil semantics as a no-op: an empty queue is not an error.
func (s *CallService) StartNext(ctx context.Context) error {
	raw, err := s.RDB.LPop(ctx, waitingQueueKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return err
	}

	var item models.QueueItem
	if err := json.Unmarshal([]byte(raw), &item); err != nil {
		return fmt.Errorf("corrupt queue item: %w", err)
	}

	v, err := s.Vulnerables.GetByID(item.VulnerableID)
	if err != nil {
		logrus.WithField("vId", item.VulnerableID).Warn("queued vulnerable no longer exists, skipping")
		return nil
	}

	qs, err := s.loadQuestionSet(ctx, item.QuestionSetID)
	if err != nil {
		s.Monitor.Publish(models.ConsultationStatus{
			VulnerableID:   item.VulnerableID,
			VulnerableName: v.Name,
			QuestionSetID:  item.QuestionSetID,
			Status:         models.StatusFailed,
			ErrorMessage:   err.Error(),
		})
		return err
	}

	sessionIndex, err := s.nextSessionIndex(item.VulnerableID)
	if err != nil {
		return err
	}

	now := time.Now()
	item.State = models.StatusInProgress
	item.StartTime = &now

	s.Monitor.Publish(models.ConsultationStatus{
		VulnerableID:   item.VulnerableID,
		VulnerableName: v.Name,
		QuestionSetID:  qs.QuestionsID,
		QuestionTitle:  qs.Title,
		Status:         models.StatusInProgress,
		CurrentStep:    "상담 연결 중",
	})
	logrus.WithFields(logrus.Fields{"vId": item.VulnerableID, "sIndex": sessionIndex}).Info("starting consultation")

	req := BuildOrchestratorRequest(v, qs, sessionIndex)

	// The dial runs detached from the pump tick; its outcome only feeds
	// the status board.
	go func() {
		dialCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		status := models.ConsultationStatus{
			VulnerableID:   item.VulnerableID,
			VulnerableName: v.Name,
			QuestionSetID:  qs.QuestionsID,
			QuestionTitle:  qs.Title,
		}
		if err := s.Orchestrator.StartConsultation(dialCtx, req); err != nil {
			logrus.WithError(err).WithField("vId", item.VulnerableID).Error("consultation failed")
			status.Status = models.StatusFailed
			status.ErrorMessage = err.Error()
		} else {
			status.Status = models.StatusCompleted
			status.CurrentStep = "상담 완료"
		}
		s.Monitor.Publish(status)
	}()

	return nil
}

// CallResultPayload is the orchestrator's result callback body. The wire
// contract is snake_case and mirrors the stored consultation document.
type CallResultPayload struct {
	AccountID             string                    `json:"account_id"`
	SessionIndex          int                       `json:"s_index"`
	VulnerableID          string                    `json:"v_id"`
	QuestionSetID         string                    `json:"q_id"`
	Time                  string                    `json:"time"`
	Runtime               int64                     `json:"runtime"`
	OverallScript         string                    `json:"overall_script"`
	Summary               string                    `json:"summary"`
	Result                int                       `json:"result"`
	FailCode              int                       `json:"fail_code"`
	NeedHuman             int                       `json:"need_human"`
	ResultVulnerabilities *models.VulnerabilityInfo `json:"result_vulnerabilities"`
	DeleteVulnerabilities *models.VulnerabilityInfo `json:"delete_vulnerabilities"`
	NewVulnerabilities    *models.VulnerabilityInfo `json:"new_vulnerabilities"`
}

// HandleResult persists the consultation and merges the vulnerability
// delta back onto the individual.
func (s *CallService) HandleResult(payload CallResultPayload, raw []byte) (*models.Consultation, error) {
	when := time.Now()
	if payload.Time != "" {
		if parsed, err := time.Parse(time.RFC3339, payload.Time); err == nil {
			when = parsed
		} else if parsed, err := time.Parse("2006-01-02T15:04:05", payload.Time); err == nil {
			when = parsed
		} else {
			logrus.WithField("time", payload.Time).Warn("unparseable result time, using now")
		}
	}

	consultation := models.Consultation{
		ID:                    uuid.NewString(),
		AccountID:             payload.AccountID,
		SessionIndex:          payload.SessionIndex,
		VulnerableID:          payload.VulnerableID,
		QuestionSetID:         payload.QuestionSetID,
		Time:                  when,
		Runtime:               payload.Runtime,
		OverallScript:         payload.OverallScript,
		Summary:               payload.Summary,
		Result:                payload.Result,
		FailCode:              payload.FailCode,
		NeedHuman:             payload.NeedHuman,
		ResultVulnerabilities: payload.ResultVulnerabilities,
		DeleteVulnerabilities: payload.DeleteVulnerabilities,
		NewVulnerabilities:    payload.NewVulnerabilities,
		RawResult:             raw,
	}

	if err := s.DB.Create(&consultation).Error; err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"consultationId": consultation.ID, "vId": consultation.VulnerableID}).Info("consultation result stored")

	if err := s.Vulnerables.ApplyConsultationResult(payload.VulnerableID, payload.Summary, payload.ResultVulnerabilities); err != nil {
		// The consultation record is authoritative; a missing target only
		// loses the profile merge.
		logrus.WithError(err).WithField("vId", payload.VulnerableID).Warn("could not merge result onto vulnerable profile")
	}

	return &consultation, nil
}

func (s *CallService) cacheQuestionSet(ctx context.Context, qs *models.QuestionSet) error {
	raw, err := json.Marshal(qs)
	if err != nil {
		return err
	}
	return s.RDB.Set(ctx, questionCachePrefix+qs.QuestionsID, raw, questionCacheTTL).Err()
}

// loadQuestionSet prefers the Redis cache and falls back to the database.
func (s *CallService) loadQuestionSet(ctx context.Context, id string) (*models.QuestionSet, error) {
	raw, err := s.RDB.Get(ctx, questionCachePrefix+id).Result()
	if err == nil {
		var qs models.QuestionSet
		if jsonErr := json.Unmarshal([]byte(raw), &qs); jsonErr == nil {
			return &qs, nil
		}
		logrus.WithField("questionsId", id).Warn("corrupt cached question set, falling back to db")
	}
	return s.Questions.GetByID(id)
}

// nextSessionIndex bumps and returns the per-vulnerable consultation round.
func (s *CallService) nextSessionIndex(vulnerableID string) (int, error) {
	var session models.VulnerableSession
	err := s.DB.Where("vulnerable_id = ?", vulnerableID).First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		session = models.VulnerableSession{VulnerableID: vulnerableID}
	} else if err != nil {
		return 0, err
	}

	session.SessionIndex++
	if err := s.DB.Save(&session).Error; err != nil {
		return 0, err
	}
	return session.SessionIndex, nil
}
