package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/johnquangdev/atlas/internal/domain/entities"
	"github.com/johnquangdev/atlas/internal/domain/repositories"
)

// MeetingRepository implements the meeting repository interface using GORM
type MeetingRepository struct {
	db *gorm.DB
}

// NewMeetingRepository creates a new meeting repository
func NewMeetingRepository(db *gorm.DB) *MeetingRepository {
	return &MeetingRepository{db: db}
}

// CreateWithTasks inserts the meeting and its mirrored tasks in one transaction
func (r *MeetingRepository) CreateWithTasks(ctx context.Context, meeting *entities.Meeting, tasks []*entities.Task) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(meeting).Error; err != nil {
			return fmt.Errorf("failed to create meeting: %w", err)
		}
		if len(tasks) == 0 {
			return nil
		}
		for _, t := range tasks {
			t.MeetingID = &meeting.ID
			t.UserID = meeting.UserID
		}
		if err := tx.Create(&tasks).Error; err != nil {
			return fmt.Errorf("failed to create meeting tasks: %w", err)
		}
		return nil
	})
}

// FindByID finds a meeting owned by userID
func (r *MeetingRepository) FindByID(ctx context.Context, userID, id uuid.UUID) (*entities.Meeting, error) {
	var meeting entities.Meeting
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&meeting).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, entities.ErrMeetingNotFound
		}
		return nil, fmt.Errorf("failed to find meeting: %w", err)
	}
	return &meeting, nil
}

// List returns meetings ordered by date desc
func (r *MeetingRepository) List(ctx context.Context, userID uuid.UUID, filters repositories.MeetingFilters) ([]*entities.Meeting, int64, error) {
	query := r.db.WithContext(ctx).Model(&entities.Meeting{}).Where("user_id = ?", userID)
	if filters.Since != nil {
		query = query.Where("date >= ?", *filters.Since)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count meetings: %w", err)
	}

	var meetings []*entities.Meeting
	query = query.Order("date DESC").Order("created_at DESC")
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit).Offset(filters.Offset)
	}
	if err := query.Find(&meetings).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list meetings: %w", err)
	}
	return meetings, total, nil
}

// ListRecent returns the most recently created meetings
func (r *MeetingRepository) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*entities.Meeting, error) {
	var meetings []*entities.Meeting
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&meetings).Error; err != nil {
		return nil, fmt.Errorf("failed to list recent meetings: %w", err)
	}
	return meetings, nil
}

// Update updates a meeting
func (r *MeetingRepository) Update(ctx context.Context, meeting *entities.Meeting) error {
	if err := r.db.WithContext(ctx).Save(meeting).Error; err != nil {
		return fmt.Errorf("failed to update meeting: %w", err)
	}
	return nil
}

// Delete removes a meeting and detaches its tasks
func (r *MeetingRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entities.Task{}).
			Where("meeting_id = ? AND user_id = ?", id, userID).
			Update("meeting_id", nil).Error; err != nil {
			return fmt.Errorf("failed to detach meeting tasks: %w", err)
		}
		res := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&entities.Meeting{})
		if res.Error != nil {
			return fmt.Errorf("failed to delete meeting: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return entities.ErrMeetingNotFound
		}
		return nil
	})
}
