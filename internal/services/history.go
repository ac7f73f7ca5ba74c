package services

import (
	"log"

	"ems-web/internal/models"

	"github.com/google/uuid"
)

// HistoryService records panel-initiated actions in the local database.
type HistoryService struct{}

func NewHistoryService() *HistoryService {
	return &HistoryService{}
}

// Record writes one history row. A panel running without a local database
// drops the entry; the remote API keeps its own authoritative history.
func (s *HistoryService) Record(entry *models.SystemHistory) {
	if models.DB == nil {
		return
	}
	if entry.TraceID == "" {
		entry.TraceID = uuid.NewString()
	}
	if err := models.DB.Create(entry).Error; err != nil {
		log.Printf("Warning: failed to record history for %s/%s: %v", entry.EntityName, entry.EntityID, err)
	}
}

// HistoryQuery filters and pages the local history listing.
type HistoryQuery struct {
	EntityName string
	Action     string
	PageNumber int
	PageSize   int
}

// List returns a page of history entries, newest first.
func (s *HistoryService) List(q HistoryQuery) (*models.PagedResult[models.SystemHistory], error) {
	page := q.PageNumber
	if page <= 0 {
		page = 1
	}
	size := q.PageSize
	if size <= 0 {
		size = 10
	}

	result := &models.PagedResult[models.SystemHistory]{
		Items:      []models.SystemHistory{},
		PageNumber: page,
		PageSize:   size,
	}

	if models.DB == nil {
		return result, nil
	}

	tx := models.DB.Model(&models.SystemHistory{})
	if q.EntityName != "" {
		tx = tx.Where("entity_name = ?", q.EntityName)
	}
	if q.Action != "" {
		tx = tx.Where("action = ?", q.Action)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, err
	}
	result.TotalCount = int(total)

	err := tx.Order("created_at DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&result.Items).Error
	if err != nil {
		return nil, err
	}
	return result, nil
}
