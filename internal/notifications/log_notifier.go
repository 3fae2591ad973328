package notifications

import (
	"context"
	"log/slog"
)

// LogNotifier "delivers" notifications as structured log lines, one per lead.
type LogNotifier struct {
	log *slog.Logger
}

func NewLogNotifier(log *slog.Logger) *LogNotifier {
	if log == nil {
		log = slog.Default()
	}
	return &LogNotifier{log: log}
}

func (n *LogNotifier) NotifyCriticalBlocker(ctx context.Context, in CriticalBlockerInput) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	for _, email := range in.LeadEmails {
		n.log.InfoContext(ctx, "notification.critical_blocker",
			"to", email,
			"standup_id", in.StandupID,
			"user_id", in.UserID,
			"user_name", in.UserName,
			"team_id", in.TeamID,
			"jira_id", in.JiraID,
			"blocker", in.Description,
		)
	}
	return nil
}
