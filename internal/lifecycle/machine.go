package lifecycle

import (
	"fmt"
	"time"

	"assetregister/pkg/apperrors"
	"assetregister/pkg/metadata"
	"assetregister/pkg/models"
)

type Event string

const (
	EventStartMaintenance    Event = "start_maintenance"
	EventCompleteMaintenance Event = "complete_maintenance"
	EventMarkIdle            Event = "mark_idle"
	EventAssign              Event = "assign"
	EventInitiateDisposal    Event = "initiate_disposal"
	EventCompleteDisposal    Event = "complete_disposal"
)

func NewEvent(value string) (Event, error) {
	event := Event(value)
	switch event {
	case EventStartMaintenance, EventCompleteMaintenance, EventMarkIdle,
		EventAssign, EventInitiateDisposal, EventCompleteDisposal:
		return event, nil
	default:
		return "", fmt.Errorf("invalid lifecycle event: %s", value)
	}
}

type Outcome string

const (
	OutcomeResolved           Outcome = "resolved"
	OutcomeNeedsFurtherRepair Outcome = "needs_further_repair"
)

// Payload carries the event-specific inputs. At defaults to the current
// time when zero.
type Payload struct {
	Outcome Outcome `json:"outcome,omitempty"`
	UserID  *int    `json:"user_id,omitempty"`
	Reason  string  `json:"reason,omitempty"`
	At      time.Time
}

var allowedSources = map[Event][]metadata.Status{
	EventStartMaintenance:    {metadata.StatusActive, metadata.StatusIdle},
	EventCompleteMaintenance: {metadata.StatusUnderMaintenance},
	EventMarkIdle:            {metadata.StatusActive},
	EventAssign:              {metadata.StatusIdle},
	EventInitiateDisposal:    {metadata.StatusIdle, metadata.StatusInRepair},
	EventCompleteDisposal:    {metadata.StatusCondemned},
}

// Apply runs one lifecycle transition as a pure function: the input asset is
// never mutated, and on error the returned asset is the zero value. Entering
// condemned stamps StatusChangedAt, the depreciation freeze point; disposal
// records its own date and leaves the freeze point alone.
func Apply(asset models.Asset, event Event, payload Payload) (models.Asset, error) {
	if !allowed(event, asset.Status) {
		return models.Asset{}, &apperrors.InvalidTransitionError{
			From:  asset.Status.String(),
			Event: string(event),
		}
	}

	at := payload.At
	if at.IsZero() {
		at = time.Now()
	}

	next := asset

	switch event {
	case EventStartMaintenance:
		next.Status = metadata.StatusUnderMaintenance

	case EventCompleteMaintenance:
		switch payload.Outcome {
		case OutcomeResolved:
			next.Status = metadata.StatusActive
		case OutcomeNeedsFurtherRepair:
			next.Status = metadata.StatusInRepair
		default:
			return models.Asset{}, fmt.Errorf("invalid maintenance outcome: %q", payload.Outcome)
		}

	case EventMarkIdle:
		next.Status = metadata.StatusIdle
		next.AssignedToID = nil

	case EventAssign:
		if payload.UserID == nil {
			return models.Asset{}, fmt.Errorf("assign requires a user id")
		}
		userID := *payload.UserID
		next.Status = metadata.StatusActive
		next.AssignedToID = &userID

	case EventInitiateDisposal:
		next.Status = metadata.StatusCondemned
		if payload.Reason != "" {
			reason := payload.Reason
			next.DisposalReason = &reason
		}
		if next.StatusChangedAt == nil {
			frozenAt := at
			next.StatusChangedAt = &frozenAt
		}

	case EventCompleteDisposal:
		next.Status = metadata.StatusDisposed
		disposedAt := at
		next.DisposedAt = &disposedAt
		if next.StatusChangedAt == nil {
			next.StatusChangedAt = &disposedAt
		}
	}

	return next, nil
}

func allowed(event Event, from metadata.Status) bool {
	for _, source := range allowedSources[event] {
		if source == from {
			return true
		}
	}
	return false
}
