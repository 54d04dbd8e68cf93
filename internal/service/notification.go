package service

import (
	"context"
	"errors"
	"fmt"

	"food_app/internal/domain"

	"gorm.io/gorm"
)

// Notifier stores a message for a user. The order workflow calls it after commit.
type Notifier interface {
	Notify(ctx context.Context, userID uint, title, message string) error
}

// NotificationService is the polling-based notification inbox
type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

// Notify inserts an unread notification
func (s *NotificationService) Notify(ctx context.Context, userID uint, title, message string) error {
	n := domain.Notification{UserID: userID, Title: title, Message: message}
	if err := s.db.WithContext(ctx).Create(&n).Error; err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// ListByUser returns the user's notifications, newest first
func (s *NotificationService) ListByUser(ctx context.Context, userID uint) ([]domain.Notification, error) {
	list := []domain.Notification{}
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at desc").Order("id desc").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return list, nil
}

// Get returns one notification
func (s *NotificationService) Get(ctx context.Context, id uint) (*domain.Notification, error) {
	var n domain.Notification
	if err := s.db.WithContext(ctx).First(&n, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, fmt.Errorf("load notification: %w", err)
	}
	return &n, nil
}

// MarkRead flags one notification as read
func (s *NotificationService) MarkRead(ctx context.Context, id uint) error {
	n, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if n.IsRead {
		return nil
	}
	return s.db.WithContext(ctx).Model(n).Update("is_read", true).Error
}

// MarkAllRead flags every unread notification of the user and returns how many changed
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	res := s.db.WithContext(ctx).Model(&domain.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	if res.Error != nil {
		return 0, fmt.Errorf("mark notifications read: %w", res.Error)
	}
	return res.RowsAffected, nil
}
