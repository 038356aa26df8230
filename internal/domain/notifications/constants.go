package notifications

// Real-time event names pushed to a user's channel.
const (
	EventNewNotification = "new_notification"
	EventUnreadCount     = "unread_count"
)

const DefaultPageSize = 10

const (
	statusExcellent        = "Excellent"
	statusGood             = "Good"
	statusNeedsImprovement = "Needs Improvement"
)
