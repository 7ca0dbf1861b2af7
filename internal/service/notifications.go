package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"car_chronicle/internal/models"
	"car_chronicle/internal/repository"
)

type NotificationService struct {
	notificationRepo repository.NotificationRepo
}

func NewNotificationService(notificationRepo repository.NotificationRepo) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo}
}

var errInvalidTimeRange = errors.New("invalid time range: From must be <= To")

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

// normalizeNotificationType trims spaces and uppercases the type filter.
func normalizeNotificationType(s string) string {
	return strings.TrimSpace(strings.ToUpper(s))
}

// normalizeAndValidateFilter prepares query parameters and validates the time range.
func normalizeAndValidateFilter(f NotificationFilter) (time.Time, time.Time, string, error) {
	from := normalizeToUTC(f.From)
	to := normalizeToUTC(f.To)

	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return time.Time{}, time.Time{}, "", errInvalidTimeRange
	}

	return from, to, normalizeNotificationType(f.Type), nil
}

func (s *NotificationService) List(ctx context.Context, f NotificationFilter) ([]models.Notification, error) {
	from, to, typ, err := normalizeAndValidateFilter(f)
	if err != nil {
		return nil, err
	}
	return s.notificationRepo.List(ctx, from, to, typ)
}
