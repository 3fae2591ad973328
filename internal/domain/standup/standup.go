package standup

import (
	"strings"
	"time"
)

const (
	MinPercentage = 0
	MaxPercentage = 100
)

type Standup struct {
	ID                 int64          `json:"id"`
	UserID             int64          `json:"userId"`
	UserName           string         `json:"userName"`
	TeamID             int64          `json:"-"`
	Date               Day            `json:"date"`
	JiraID             string         `json:"jiraId"`
	TaskDescription    string         `json:"taskDescription"`
	PercentageComplete int            `json:"percentageComplete"`
	HasBlocker         bool           `json:"hasBlocker"`
	BlockerDescription *string        `json:"blockerDescription"`
	BlockerStatus      *BlockerStatus `json:"blockerStatus"`
	NextTask           string         `json:"nextTask"`
	CreatedAt          time.Time      `json:"createdAt"`
	UpdatedAt          *time.Time     `json:"updatedAt"`
}

// Summary is the history shape; it leaves out the description bodies.
type Summary struct {
	ID                 int64          `json:"id"`
	Date               Day            `json:"date"`
	JiraID             string         `json:"jiraId"`
	PercentageComplete int            `json:"percentageComplete"`
	HasBlocker         bool           `json:"hasBlocker"`
	BlockerStatus      *BlockerStatus `json:"blockerStatus"`
	NextTask           string         `json:"nextTask"`
	CreatedAt          time.Time      `json:"createdAt"`
	UpdatedAt          *time.Time     `json:"updatedAt"`
}

func (s Standup) Summary() Summary {
	return Summary{
		ID:                 s.ID,
		Date:               s.Date,
		JiraID:             s.JiraID,
		PercentageComplete: s.PercentageComplete,
		HasBlocker:         s.HasBlocker,
		BlockerStatus:      s.BlockerStatus,
		NextTask:           s.NextTask,
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
	}
}

type CreateRequest struct {
	JiraID             string  `json:"jiraId" binding:"required,max=50"`
	TaskDescription    string  `json:"taskDescription" binding:"required,max=2000"`
	PercentageComplete int     `json:"percentageComplete"`
	HasBlocker         bool    `json:"hasBlocker"`
	BlockerDescription *string `json:"blockerDescription" binding:"omitempty,max=2000"`
	NextTask           string  `json:"nextTask" binding:"required,max=2000"`
}

// UpdateRequest is a partial patch; only fields present in the payload are
// applied.
type UpdateRequest struct {
	JiraID             Field[string] `json:"jiraId,omitzero"`
	TaskDescription    Field[string] `json:"taskDescription,omitzero"`
	PercentageComplete Field[int]    `json:"percentageComplete,omitzero"`
	HasBlocker         Field[bool]   `json:"hasBlocker,omitzero"`
	BlockerDescription Field[string] `json:"blockerDescription,omitzero"`
	NextTask           Field[string] `json:"nextTask,omitzero"`
}

type BlockerStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// New builds an unsaved standup for userID on day from a create request.
func New(userID int64, day Day, req CreateRequest, now time.Time) (Standup, error) {
	s := Standup{
		UserID:             userID,
		Date:               day,
		JiraID:             strings.TrimSpace(req.JiraID),
		TaskDescription:    strings.TrimSpace(req.TaskDescription),
		PercentageComplete: req.PercentageComplete,
		HasBlocker:         req.HasBlocker,
		NextTask:           strings.TrimSpace(req.NextTask),
		CreatedAt:          now.UTC(),
	}

	if req.HasBlocker {
		if req.BlockerDescription != nil {
			d := strings.TrimSpace(*req.BlockerDescription)
			s.BlockerDescription = &d
		}
		st := BlockerNew
		s.BlockerStatus = &st
	}

	if err := s.Validate(); err != nil {
		return Standup{}, err
	}
	return s, nil
}

// Apply patches s in place and re-validates it. On error s may be partially
// modified and must be discarded.
func (s *Standup) Apply(req UpdateRequest, now time.Time) error {
	if err := patchText(&s.JiraID, req.JiraID, "jiraId"); err != nil {
		return err
	}
	if err := patchText(&s.TaskDescription, req.TaskDescription, "taskDescription"); err != nil {
		return err
	}
	if err := patchText(&s.NextTask, req.NextTask, "nextTask"); err != nil {
		return err
	}

	if req.PercentageComplete.Set {
		if req.PercentageComplete.Null {
			return invalid("percentageComplete", "cannot be null")
		}
		s.PercentageComplete = req.PercentageComplete.Value
	}

	if req.BlockerDescription.Set {
		if req.BlockerDescription.Null {
			s.BlockerDescription = nil
		} else {
			d := strings.TrimSpace(req.BlockerDescription.Value)
			s.BlockerDescription = &d
		}
	}

	if req.HasBlocker.Set {
		if req.HasBlocker.Null {
			return invalid("hasBlocker", "cannot be null")
		}
		s.HasBlocker = req.HasBlocker.Value
	}

	if !s.HasBlocker {
		s.BlockerDescription = nil
		s.BlockerStatus = nil
	} else if s.BlockerStatus == nil {
		st := BlockerNew
		s.BlockerStatus = &st
	}

	t := now.UTC()
	s.UpdatedAt = &t

	return s.Validate()
}

// SetBlockerStatus moves the blocker to status. The standup must carry a
// blocker; callers treat a blocker-less standup as not found.
func (s *Standup) SetBlockerStatus(status BlockerStatus, now time.Time) error {
	if !s.HasBlocker || s.BlockerStatus == nil {
		return ErrNotFound
	}
	if !CanTransition(*s.BlockerStatus, status) {
		return invalid("status", "cannot move a "+string(*s.BlockerStatus)+" blocker to "+string(status))
	}

	s.BlockerStatus = &status
	t := now.UTC()
	s.UpdatedAt = &t
	return nil
}

// Validate checks the row-level invariants.
func (s Standup) Validate() error {
	if s.JiraID == "" {
		return invalid("jiraId", "is required")
	}
	if s.TaskDescription == "" {
		return invalid("taskDescription", "is required")
	}
	if s.NextTask == "" {
		return invalid("nextTask", "is required")
	}
	if s.PercentageComplete < MinPercentage || s.PercentageComplete > MaxPercentage {
		return invalid("percentageComplete", "must be between 0 and 100")
	}

	if s.HasBlocker {
		if s.BlockerDescription == nil || strings.TrimSpace(*s.BlockerDescription) == "" {
			return invalid("blockerDescription", "is required when hasBlocker is true")
		}
		if s.BlockerStatus == nil || !s.BlockerStatus.IsValid() {
			return invalid("blockerStatus", "is required when hasBlocker is true")
		}
		return nil
	}

	if s.BlockerDescription != nil || s.BlockerStatus != nil {
		return invalid("hasBlocker", "blocker fields must be empty when hasBlocker is false")
	}
	return nil
}

func patchText(dst *string, f Field[string], name string) error {
	if !f.Set {
		return nil
	}
	if f.Null {
		return invalid(name, "cannot be null")
	}
	*dst = strings.TrimSpace(f.Value)
	return nil
}
