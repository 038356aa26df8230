package notifications

import "context"

type StoreAPI interface {
	CreateNotification(ctx context.Context, userID, title, message string) (Notification, error)
	CreateNotifications(ctx context.Context, userIDs []string, title, message string) ([]Notification, error)
	ListNotifications(ctx context.Context, userID string, limit, offset int) ([]Notification, error)
	CountNotifications(ctx context.Context, userID string) (int, error)
	CountUnread(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, userID, notificationID string) (Notification, error)
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	DeleteNotification(ctx context.Context, userID, notificationID string) error
	UserEmail(ctx context.Context, userID string) (string, error)
	AdminUserIDs(ctx context.Context) ([]string, error)
	DivisionUserIDs(ctx context.Context, divisionID string) ([]string, error)
	EmployeeUserID(ctx context.Context, employeeID string) (string, error)
}
