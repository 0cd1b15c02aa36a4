package services

import (
	"errors"
	"fmt"
	"strings"

	"callbot-management/models"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

var ErrConsultationNotFound = errors.New("consultation not found")

// HistoryQuery carries the list parameters: zero-based page, page size,
// "field,direction" sort, free-text search and optional session round.
type HistoryQuery struct {
	Page         int
	Size         int
	Sort         string
	SearchTerm   string
	SessionIndex *int
}

// HistoryPage is one page of the call-history table.
type HistoryPage struct {
	Content       []models.CallHistoryRow `json:"content"`
	Page          int                     `json:"page"`
	Size          int                     `json:"size"`
	TotalElements int64                   `json:"totalElements"`
	TotalPages    int                     `json:"totalPages"`
}

type HistoryService struct {
	DB *gorm.DB
}

func NewHistoryService(db *gorm.DB) *HistoryService {
	return &HistoryService{DB: db}
}

var historySortColumns = map[string]string{
	"time":    "time",
	"runtime": "runtime",
	"result":  "result",
	"sIndex":  "s_index",
	"s_index": "s_index",
}

// ParseSortClause maps a "field,direction" sort parameter onto a safe SQL
// ORDER BY clause. Unknown fields fall back to newest-first.
func ParseSortClause(sort string) string {
	column := "time"
	direction := "DESC"

	if sort != "" {
		parts := strings.SplitN(sort, ",", 2)
		if mapped, ok := historySortColumns[strings.TrimSpace(parts[0])]; ok {
			column = mapped
			if len(parts) == 2 && strings.EqualFold(strings.TrimSpace(parts[1]), "asc") {
				direction = "ASC"
			}
		}
	}
	return column + " " + direction
}

// PageCount is ceil(total/size).
func PageCount(total int64, size int) int {
	if size <= 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}

func (s *HistoryService) baseQuery(q HistoryQuery) *gorm.DB {
	tx := s.DB.Model(&models.Consultation{})

	if q.SessionIndex != nil {
		tx = tx.Where("s_index = ?", *q.SessionIndex)
	}

	if term := strings.TrimSpace(q.SearchTerm); term != "" {
		like := "%" + term + "%"
		tx = tx.Where(
			"id = ? OR vulnerable_id IN (?) OR question_set_id IN (?)",
			term,
			s.DB.Unscoped().Model(&models.Vulnerable{}).Select("user_id").Where("LOWER(name) LIKE LOWER(?)", like),
			s.DB.Unscoped().Model(&models.QuestionSet{}).Select("questions_id").Where("LOWER(title) LIKE LOWER(?)", like),
		)
	}
	return tx
}

func (s *HistoryService) fetch(q HistoryQuery, paginate bool) ([]models.Consultation, int64, error) {
	var total int64
	if err := s.baseQuery(q).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	tx := s.baseQuery(q).Order(ParseSortClause(q.Sort))
	if paginate {
		tx = tx.Offset(q.Page * q.Size).Limit(q.Size)
	}

	var consultations []models.Consultation
	if err := tx.Find(&consultations).Error; err != nil {
		return nil, 0, err
	}
	return consultations, total, nil
}

// rowLookups batch-resolves the display names referenced by a result set.
// Soft-deleted individuals and question sets still label their history.
func (s *HistoryService) rowLookups(consultations []models.Consultation) (map[string]string, map[string]string, error) {
	vIDs := make([]string, 0, len(consultations))
	qIDs := make([]string, 0, len(consultations))
	seenV := map[string]bool{}
	seenQ := map[string]bool{}
	for _, c := range consultations {
		if !seenV[c.VulnerableID] {
			seenV[c.VulnerableID] = true
			vIDs = append(vIDs, c.VulnerableID)
		}
		if !seenQ[c.QuestionSetID] {
			seenQ[c.QuestionSetID] = true
			qIDs = append(qIDs, c.QuestionSetID)
		}
	}

	names := make(map[string]string, len(vIDs))
	if len(vIDs) > 0 {
		var vulnerables []models.Vulnerable
		if err := s.DB.Unscoped().Where("user_id IN ?", vIDs).Find(&vulnerables).Error; err != nil {
			return nil, nil, err
		}
		for _, v := range vulnerables {
			names[v.UserID] = v.Name
		}
	}

	titles := make(map[string]string, len(qIDs))
	if len(qIDs) > 0 {
		var sets []models.QuestionSet
		if err := s.DB.Unscoped().Where("questions_id IN ?", qIDs).Find(&sets).Error; err != nil {
			return nil, nil, err
		}
		for _, qs := range sets {
			titles[qs.QuestionsID] = qs.Title
		}
	}
	return names, titles, nil
}

// BuildHistoryRow maps one consultation to its table row.
func BuildHistoryRow(c models.Consultation, names, titles map[string]string) models.CallHistoryRow {
	riskCount, desireCount := 0, 0
	if c.ResultVulnerabilities != nil {
		riskCount = len(c.ResultVulnerabilities.RiskList)
		desireCount = len(c.ResultVulnerabilities.DesireList)
	}
	return models.CallHistoryRow{
		ID:           c.ID,
		VName:        names[c.VulnerableID],
		QTitle:       titles[c.QuestionSetID],
		StartTime:    c.Time.Format("2006-01-02 15:04:05"),
		Result:       models.ResultLabel(c.Result),
		RiskCount:    riskCount,
		DesireCount:  desireCount,
		SessionIndex: c.SessionIndex,
	}
}

// List returns one page of the call-history table.
func (s *HistoryService) List(q HistoryQuery) (*HistoryPage, error) {
	if q.Size <= 0 {
		q.Size = 10
	}
	if q.Page < 0 {
		q.Page = 0
	}

	consultations, total, err := s.fetch(q, true)
	if err != nil {
		return nil, err
	}

	names, titles, err := s.rowLookups(consultations)
	if err != nil {
		return nil, err
	}

	rows := make([]models.CallHistoryRow, 0, len(consultations))
	for _, c := range consultations {
		rows = append(rows, BuildHistoryRow(c, names, titles))
	}

	return &HistoryPage{
		Content:       rows,
		Page:          q.Page,
		Size:          q.Size,
		TotalElements: total,
		TotalPages:    PageCount(total, q.Size),
	}, nil
}

// Detail returns the full stored consultation.
func (s *HistoryService) Detail(id string) (*models.Consultation, error) {
	var c models.Consultation
	if err := s.DB.Where("id = ?", id).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConsultationNotFound
		}
		return nil, err
	}
	return &c, nil
}

var historyExportHeader = []string{"ID", "대상자", "질문 세트", "상담 시각", "결과", "위기 수", "욕구 수", "회차"}

// Export writes the filtered history (unpaginated) into an xlsx workbook.
func (s *HistoryService) Export(q HistoryQuery) (*excelize.File, error) {
	consultations, _, err := s.fetch(q, false)
	if err != nil {
		return nil, err
	}
	names, titles, err := s.rowLookups(consultations)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	const sheet = "CallHistory"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	for col, h := range historyExportHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	for i, c := range consultations {
		row := BuildHistoryRow(c, names, titles)
		values := []interface{}{
			row.ID, row.VName, row.QTitle, row.StartTime,
			row.Result, row.RiskCount, row.DesireCount, row.SessionIndex,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}
	return f, nil
}

// ExportFilename names the download by the current day.
func ExportFilename(day string) string {
	return fmt.Sprintf("call-history-%s.xlsx", day)
}
