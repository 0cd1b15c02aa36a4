package services

import (
	"errors"

	"callbot-management/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrDuplicateQuestionSet = errors.New("question set id already exists")
	ErrQuestionSetNotFound  = errors.New("question set not found")
)

type QuestionService struct {
	DB *gorm.DB
}

func NewQuestionService(db *gorm.DB) *QuestionService {
	return &QuestionService{DB: db}
}

func (s *QuestionService) Create(qs *models.QuestionSet) error {
	var count int64
	if err := s.DB.Model(&models.QuestionSet{}).Where("questions_id = ?", qs.QuestionsID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicateQuestionSet
	}
	if qs.Version == 0 {
		qs.Version = 1
	}
	if err := s.DB.Create(qs).Error; err != nil {
		return err
	}
	logrus.WithField("questionsId", qs.QuestionsID).Info("question set created")
	return nil
}

func (s *QuestionService) GetAll() ([]models.QuestionSetTableItem, error) {
	var sets []models.QuestionSet
	if err := s.DB.Order("created_at DESC").Find(&sets).Error; err != nil {
		return nil, err
	}

	items := make([]models.QuestionSetTableItem, 0, len(sets))
	for _, qs := range sets {
		items = append(items, models.QuestionSetTableItem{
			QuestionsID:   qs.QuestionsID,
			Title:         qs.Title,
			Version:       qs.Version,
			QuestionCount: len(qs.Flow),
			CreatedAt:     qs.CreatedAt,
		})
	}
	return items, nil
}

func (s *QuestionService) GetByID(id string) (*models.QuestionSet, error) {
	var qs models.QuestionSet
	if err := s.DB.Where("questions_id = ?", id).First(&qs).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuestionSetNotFound
		}
		return nil, err
	}
	return &qs, nil
}

// Update replaces title and flow and bumps the version so the conversation
// engine can tell which revision produced a given call.
func (s *QuestionService) Update(id string, in *models.QuestionSet) (*models.QuestionSet, error) {
	existing, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	existing.Title = in.Title
	existing.Flow = in.Flow
	existing.Version++

	if err := s.DB.Save(existing).Error; err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *QuestionService) Delete(id string) error {
	res := s.DB.Where("questions_id = ?", id).Delete(&models.QuestionSet{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrQuestionSetNotFound
	}
	return nil
}
