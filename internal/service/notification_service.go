package service

import (
	"context"
	"strconv"

	"github.com/Ryan-Dia/friendly-anon-pulse/internal/domain"
	"github.com/Ryan-Dia/friendly-anon-pulse/internal/repository"
	apperrors "github.com/Ryan-Dia/friendly-anon-pulse/pkg/errors"
	"github.com/Ryan-Dia/friendly-anon-pulse/pkg/logger"
	"github.com/Ryan-Dia/friendly-anon-pulse/pkg/redis"
)

// NotificationService serves the per-recipient notification feed.
type NotificationService struct {
	notifications repository.NotificationRepository
	redis         *redis.Client // may be nil
	realtime      *RealtimeService
	log           *logger.Logger
}

func NewNotificationService(
	notifications repository.NotificationRepository,
	redisClient *redis.Client,
	realtime *RealtimeService,
	log *logger.Logger,
) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		redis:         redisClient,
		realtime:      realtime,
		log:           log,
	}
}

// GetNotifications returns the recipient's feed, newest first.
func (s *NotificationService) GetNotifications(ctx context.Context, recipientID string) ([]*domain.Notification, error) {
	notifications, err := s.notifications.ListByRecipient(ctx, recipientID)
	if err != nil {
		return nil, apperrors.NewExternalError("failed to list notifications", err)
	}
	return notifications, nil
}

// MarkAsRead flips one notification to read. Ownership is checked before the
// write so a non-owner can never flip someone else's notification.
func (s *NotificationService) MarkAsRead(ctx context.Context, recipientID, notificationID string) (*domain.Notification, error) {
	notification, err := s.notifications.GetByID(ctx, notificationID)
	if err != nil {
		return nil, apperrors.NewExternalError("failed to get notification", err)
	}
	if notification == nil {
		return nil, apperrors.NewNotFoundError("notification not found")
	}
	if notification.RecipientID != recipientID {
		return nil, apperrors.NewAuthorizationError("not your notification")
	}

	notification, err = s.notifications.MarkRead(ctx, notificationID)
	if err != nil {
		return nil, apperrors.NewExternalError("failed to mark notification read", err)
	}
	if notification == nil {
		return nil, apperrors.NewNotFoundError("notification not found")
	}

	s.invalidateUnread(ctx, recipientID)
	s.realtime.Publish(ctx, TableNotifications)
	return notification, nil
}

// MarkAllAsRead flips every unread notification of the recipient. Idempotent:
// a repeat call finds nothing unread and changes nothing.
func (s *NotificationService) MarkAllAsRead(ctx context.Context, recipientID string) error {
	changed, err := s.notifications.MarkAllRead(ctx, recipientID)
	if err != nil {
		return apperrors.NewExternalError("failed to mark notifications read", err)
	}

	if changed > 0 {
		s.invalidateUnread(ctx, recipientID)
		s.realtime.Publish(ctx, TableNotifications)
	}
	return nil
}

// GetUnreadCount returns the badge count, cached briefly in Redis.
func (s *NotificationService) GetUnreadCount(ctx context.Context, recipientID string) (int, error) {
	if s.redis != nil {
		key := s.redis.KeyBuilder.KeyUnreadCount(recipientID)
		if raw, err := s.redis.Get(ctx, key); err == nil {
			if count, parseErr := strconv.Atoi(raw); parseErr == nil {
				return count, nil
			}
		}
	}

	count, err := s.notifications.CountUnread(ctx, recipientID)
	if err != nil {
		return 0, apperrors.NewExternalError("failed to count unread notifications", err)
	}

	if s.redis != nil {
		key := s.redis.KeyBuilder.KeyUnreadCount(recipientID)
		_ = s.redis.Set(ctx, key, strconv.Itoa(count), redis.TTLUnreadCount)
	}

	return count, nil
}

func (s *NotificationService) invalidateUnread(ctx context.Context, recipientID string) {
	if s.redis == nil {
		return
	}
	_ = s.redis.Delete(ctx, s.redis.KeyBuilder.KeyUnreadCount(recipientID))
}
