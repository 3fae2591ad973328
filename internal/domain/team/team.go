package team

import (
	"errors"
	"time"

	"github.com/geocoder89/standupbot/internal/domain/user"
)

var ErrNotFound = errors.New("team not found")

type Team struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// SubmissionStatus partitions a team's members by whether they submitted a
// standup on Date.
type SubmissionStatus struct {
	TeamID         int64       `json:"teamId"`
	Date           string      `json:"date"`
	TotalMembers   int         `json:"totalMembers"`
	SubmittedCount int         `json:"submittedCount"`
	Submitted      []user.User `json:"submitted"`
	Pending        []user.User `json:"pending"`
}
