package models

import (
	"encoding/json"
	"fmt"
)

type AssignmentStatus string

const (
	StatusPending    AssignmentStatus = "pending"
	StatusInProgress AssignmentStatus = "in_progress"
	StatusForReview  AssignmentStatus = "for_review"
	StatusRevision   AssignmentStatus = "revision"
	StatusApproved   AssignmentStatus = "approved"
	StatusCompleted  AssignmentStatus = "completed"
)

var statusLabels = map[AssignmentStatus]string{
	StatusPending:    "Pending",
	StatusInProgress: "In Progress",
	StatusForReview:  "For Review",
	StatusRevision:   "Revision",
	StatusApproved:   "Approved",
	StatusCompleted:  "Completed",
}

func (s AssignmentStatus) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

func (s AssignmentStatus) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// IsTerminal reports whether the status is a terminal success state.
// "approved" and "completed" are one and the same terminal state; "approved"
// is canonical and is what the approve operation produces.
func (s AssignmentStatus) IsTerminal() bool {
	return s == StatusApproved || s == StatusCompleted
}

// Canonical collapses the completed/approved aliasing to the canonical value.
func (s AssignmentStatus) Canonical() AssignmentStatus {
	if s == StatusCompleted {
		return StatusApproved
	}
	return s
}

// UnmarshalJSON accepts both shapes the backend uses interchangeably: a bare
// string ("pending") and an object ({"value":"pending","label":"Pending"}).
// Everything past this boundary sees only the bare value.
func (s *AssignmentStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		var obj struct {
			Value string `json:"value"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return fmt.Errorf("unrecognized status payload: %s", data)
		}
		raw = obj.Value
	}
	status := AssignmentStatus(raw)
	if raw != "" && !status.Valid() {
		return fmt.Errorf("unknown status %q", raw)
	}
	*s = status
	return nil
}

func (s AssignmentStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}
