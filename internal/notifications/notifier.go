package notifications

import "context"

// CriticalBlockerInput describes a blocker that was escalated to Critical.
type CriticalBlockerInput struct {
	StandupID   int64
	UserID      int64
	UserName    string
	TeamID      int64
	JiraID      string
	Description string
	LeadEmails  []string
}

type Notifier interface {
	NotifyCriticalBlocker(ctx context.Context, input CriticalBlockerInput) error
}
