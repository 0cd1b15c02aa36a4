package services

import (
	"errors"

	"callbot-management/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrDuplicateVulnerable = errors.New("vulnerable id already exists")
	ErrVulnerableNotFound  = errors.New("vulnerable not found")
)

type VulnerableService struct {
	DB *gorm.DB
}

func NewVulnerableService(db *gorm.DB) *VulnerableService {
	return &VulnerableService{DB: db}
}

func (s *VulnerableService) Create(v *models.Vulnerable) error {
	var count int64
	if err := s.DB.Model(&models.Vulnerable{}).Where("user_id = ?", v.UserID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicateVulnerable
	}
	if err := s.DB.Create(v).Error; err != nil {
		return err
	}
	logrus.WithField("userId", v.UserID).Info("vulnerable registered")
	return nil
}

func (s *VulnerableService) GetAll() ([]models.Vulnerable, error) {
	var list []models.Vulnerable
	err := s.DB.Order("created_at DESC").Find(&list).Error
	return list, err
}

func (s *VulnerableService) GetByID(userID string) (*models.Vulnerable, error) {
	var v models.Vulnerable
	if err := s.DB.Where("user_id = ?", userID).First(&v).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVulnerableNotFound
		}
		return nil, err
	}
	return &v, nil
}

// Update replaces the record's mutable fields. The whole profile is taken
// from the request; the backend is the authority on shape, not content.
func (s *VulnerableService) Update(userID string, in *models.Vulnerable) (*models.Vulnerable, error) {
	existing, err := s.GetByID(userID)
	if err != nil {
		return nil, err
	}

	existing.Name = in.Name
	existing.Gender = in.Gender
	existing.BirthDate = in.BirthDate
	existing.PhoneNumber = in.PhoneNumber
	existing.Address = in.Address
	existing.Vulnerabilities = in.Vulnerabilities

	if err := s.DB.Save(existing).Error; err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *VulnerableService) Delete(userID string) error {
	res := s.DB.Where("user_id = ?", userID).Delete(&models.Vulnerable{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrVulnerableNotFound
	}
	return nil
}

// BatchDelete deletes each id independently and reports per-id outcomes.
// One failing id never aborts the rest.
func (s *VulnerableService) BatchDelete(userIDs []string) []models.BatchDeleteResult {
	results := make([]models.BatchDeleteResult, 0, len(userIDs))
	for _, id := range userIDs {
		r := models.BatchDeleteResult{UserID: id}
		if err := s.Delete(id); err != nil {
			r.Error = err.Error()
		} else {
			r.Deleted = true
		}
		results = append(results, r)
	}
	return results
}

// SearchByName is the case-insensitive substring search backing the call
// screen's target picker.
func (s *VulnerableService) SearchByName(name string) ([]models.VulnerableSummary, error) {
	var list []models.Vulnerable
	err := s.DB.Where("LOWER(name) LIKE LOWER(?)", "%"+name+"%").Order("name ASC").Find(&list).Error
	if err != nil {
		return nil, err
	}

	summaries := make([]models.VulnerableSummary, 0, len(list))
	for _, v := range list {
		summaries = append(summaries, models.VulnerableSummary{
			UserID:      v.UserID,
			Name:        v.Name,
			PhoneNumber: v.PhoneNumber,
			Address:     v.Address.Joined(),
		})
	}
	return summaries, nil
}

// ApplyConsultationResult merges a consultation's vulnerability delta back
// onto the individual's stored profile.
func (s *VulnerableService) ApplyConsultationResult(userID, summary string, info *models.VulnerabilityInfo) error {
	if info == nil {
		return nil
	}
	v, err := s.GetByID(userID)
	if err != nil {
		return err
	}

	profile := v.Vulnerabilities
	if profile == nil {
		profile = &models.Vulnerabilities{}
	}
	profile.Summary = summary

	risks := make([]models.VulnerabilityDetail, 0, len(info.RiskList))
	for _, r := range info.RiskList {
		risks = append(risks, models.VulnerabilityDetail{Type: r.RiskIndexList, Content: r.Content})
	}
	desires := make([]models.VulnerabilityDetail, 0, len(info.DesireList))
	for _, d := range info.DesireList {
		desires = append(desires, models.VulnerabilityDetail{Type: d.DesireIndexList, Content: d.Content})
	}
	profile.RiskList = risks
	profile.DesireList = desires

	v.Vulnerabilities = profile
	return s.DB.Save(v).Error
}
