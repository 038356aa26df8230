package notifications

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

const notificationColumns = "id, user_id, title, message, is_read, read_at, created_at"

func scanNotification(row pgx.Row) (Notification, error) {
	var n Notification
	if err := row.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.IsRead, &n.ReadAt, &n.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Notification{}, ErrNotFound
		}
		return Notification{}, err
	}
	return n, nil
}

func (s *Store) CreateNotification(ctx context.Context, userID, title, message string) (Notification, error) {
	return scanNotification(s.DB.QueryRow(ctx, `
    INSERT INTO notifications (user_id, title, message)
    VALUES ($1,$2,$3)
    RETURNING `+notificationColumns, userID, title, message))
}

// CreateNotifications writes one row per recipient in a single statement.
func (s *Store) CreateNotifications(ctx context.Context, userIDs []string, title, message string) ([]Notification, error) {
	rows, err := s.DB.Query(ctx, `
    INSERT INTO notifications (user_id, title, message)
    SELECT recipient::uuid, $2, $3 FROM unnest($1::text[]) AS recipient
    RETURNING `+notificationColumns, userIDs, title, message)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Notification, 0, len(userIDs))
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *Store) ListNotifications(ctx context.Context, userID string, limit, offset int) ([]Notification, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+notificationColumns+`
    FROM notifications
    WHERE user_id = $1
    ORDER BY created_at DESC
    LIMIT $2 OFFSET $3
  `, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Notification{}
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *Store) CountNotifications(ctx context.Context, userID string) (int, error) {
	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM notifications WHERE user_id = $1", userID).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) CountUnread(ctx context.Context, userID string) (int, error) {
	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM notifications WHERE user_id = $1 AND is_read = false", userID).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) MarkRead(ctx context.Context, userID, notificationID string) (Notification, error) {
	return scanNotification(s.DB.QueryRow(ctx, `
    UPDATE notifications
    SET is_read = true, read_at = COALESCE(read_at, now())
    WHERE user_id = $1 AND id = $2
    RETURNING `+notificationColumns, userID, notificationID))
}

func (s *Store) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE notifications SET is_read = true, read_at = now()
    WHERE user_id = $1 AND is_read = false
  `, userID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (s *Store) DeleteNotification(ctx context.Context, userID, notificationID string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM notifications WHERE user_id = $1 AND id = $2", userID, notificationID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) UserEmail(ctx context.Context, userID string) (string, error) {
	var email string
	if err := s.DB.QueryRow(ctx, "SELECT email FROM users WHERE id = $1", userID).Scan(&email); err != nil {
		return "", err
	}
	return email, nil
}

func (s *Store) AdminUserIDs(ctx context.Context) ([]string, error) {
	return s.collectIDs(ctx, "SELECT id FROM users WHERE role = 'ADMIN' ORDER BY created_at")
}

func (s *Store) DivisionUserIDs(ctx context.Context, divisionID string) ([]string, error) {
	return s.collectIDs(ctx, `
    SELECT u.id
    FROM users u
    JOIN employees e ON e.id = u.employee_id
    WHERE e.division_id = $1
    ORDER BY u.created_at
  `, divisionID)
}

// EmployeeUserID returns the linked user id, or "" when the employee has none.
func (s *Store) EmployeeUserID(ctx context.Context, employeeID string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, "SELECT id FROM users WHERE employee_id = $1", employeeID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	return id, err
}

func (s *Store) collectIDs(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
