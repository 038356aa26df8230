package notifications

import (
	"context"
	"errors"
	"log/slog"
)

type Mailer interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

// Publisher delivers an event to the live channel of one user. An error means
// the event was not delivered; callers treat delivery as best-effort.
type Publisher interface {
	Publish(ctx context.Context, userID, event string, payload any) error
}

type PushRecorder interface {
	RecordPush(delivered bool)
}

type Service struct {
	store       StoreAPI
	Publisher   Publisher
	Mailer      Mailer
	EmailMirror bool
	DefaultFrom string
	Metrics     PushRecorder
}

func New(store StoreAPI, publisher Publisher) *Service {
	return &Service{store: store, Publisher: publisher, DefaultFrom: "no-reply@example.com"}
}

// Notify stores a notification for userID and then attempts a live push.
// Only the durable write can fail the call.
func (s *Service) Notify(ctx context.Context, userID, title, message string) (Notification, error) {
	n, err := s.store.CreateNotification(ctx, userID, title, message)
	if err != nil {
		return Notification{}, err
	}
	s.push(ctx, n)
	s.mirrorEmail(ctx, n)
	return n, nil
}

// NotifyMany stores one row per distinct recipient in a single write, then
// attempts one push per recipient.
func (s *Service) NotifyMany(ctx context.Context, userIDs []string, title, message string) ([]Notification, error) {
	recipients := uniqueIDs(userIDs)
	if len(recipients) == 0 {
		return nil, nil
	}
	created, err := s.store.CreateNotifications(ctx, recipients, title, message)
	if err != nil {
		return nil, err
	}
	for _, n := range created {
		s.push(ctx, n)
		s.mirrorEmail(ctx, n)
	}
	return created, nil
}

func (s *Service) push(ctx context.Context, n Notification) {
	if s.Publisher == nil {
		return
	}
	err := s.Publisher.Publish(ctx, n.UserID, EventNewNotification, pushedNotification{
		ID:        n.ID,
		Title:     n.Title,
		Message:   n.Message,
		CreatedAt: n.CreatedAt,
	})
	s.recordPush(n.UserID, EventNewNotification, err)
	s.pushUnreadCount(ctx, n.UserID)
}

// pushUnreadCount recomputes the unread total from stored rows and pushes it.
func (s *Service) pushUnreadCount(ctx context.Context, userID string) {
	if s.Publisher == nil {
		return
	}
	count, err := s.store.CountUnread(ctx, userID)
	if err != nil {
		slog.Warn("unread count lookup failed", "userId", userID, "err", err)
		return
	}
	err = s.Publisher.Publish(ctx, userID, EventUnreadCount, unreadCountPayload{Count: count})
	s.recordPush(userID, EventUnreadCount, err)
}

func (s *Service) recordPush(userID, event string, err error) {
	if s.Metrics != nil {
		s.Metrics.RecordPush(err == nil)
	}
	if err != nil {
		slog.Debug("realtime push skipped", "userId", userID, "event", event, "err", err)
	}
}

func (s *Service) mirrorEmail(ctx context.Context, n Notification) {
	if !s.EmailMirror || s.Mailer == nil {
		return
	}
	email, err := s.store.UserEmail(ctx, n.UserID)
	if err != nil {
		slog.Warn("notification email lookup failed", "userId", n.UserID, "err", err)
		return
	}
	if email == "" {
		return
	}
	if err := s.Mailer.Send(ctx, s.DefaultFrom, email, n.Title, n.Message); err != nil {
		slog.Warn("notification email send failed", "userId", n.UserID, "err", err)
	}
}

func (s *Service) List(ctx context.Context, userID string, limit, offset int) (Page, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	items, err := s.store.ListNotifications(ctx, userID, limit, offset)
	if err != nil {
		return Page{}, err
	}
	total, err := s.store.CountNotifications(ctx, userID)
	if err != nil {
		return Page{}, err
	}
	unread, err := s.store.CountUnread(ctx, userID)
	if err != nil {
		return Page{}, err
	}
	return Page{Items: items, Total: total, UnreadCount: unread}, nil
}

func (s *Service) UnreadCount(ctx context.Context, userID string) (int, error) {
	return s.store.CountUnread(ctx, userID)
}

func (s *Service) MarkRead(ctx context.Context, userID, notificationID string) (Notification, error) {
	n, err := s.store.MarkRead(ctx, userID, notificationID)
	if err != nil {
		return Notification{}, err
	}
	s.pushUnreadCount(ctx, userID)
	return n, nil
}

func (s *Service) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	updated, err := s.store.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, err
	}
	s.pushUnreadCount(ctx, userID)
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, userID, notificationID string) error {
	if err := s.store.DeleteNotification(ctx, userID, notificationID); err != nil {
		return err
	}
	s.pushUnreadCount(ctx, userID)
	return nil
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
