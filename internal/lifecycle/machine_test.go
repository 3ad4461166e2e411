package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"assetregister/pkg/apperrors"
	"assetregister/pkg/metadata"
	"assetregister/pkg/models"
)

func assetWithStatus(status metadata.Status) models.Asset {
	return models.Asset{
		ID:     42,
		Serial: "SN-042",
		Status: status,
	}
}

func TestApplyAllowedTransitions(t *testing.T) {
	userID := 7

	tests := []struct {
		name     string
		from     metadata.Status
		event    Event
		payload  Payload
		expected metadata.Status
	}{
		{"active to maintenance", metadata.StatusActive, EventStartMaintenance, Payload{}, metadata.StatusUnderMaintenance},
		{"idle to maintenance", metadata.StatusIdle, EventStartMaintenance, Payload{}, metadata.StatusUnderMaintenance},
		{"maintenance resolved", metadata.StatusUnderMaintenance, EventCompleteMaintenance, Payload{Outcome: OutcomeResolved}, metadata.StatusActive},
		{"maintenance needs repair", metadata.StatusUnderMaintenance, EventCompleteMaintenance, Payload{Outcome: OutcomeNeedsFurtherRepair}, metadata.StatusInRepair},
		{"active to idle", metadata.StatusActive, EventMarkIdle, Payload{}, metadata.StatusIdle},
		{"idle assigned", metadata.StatusIdle, EventAssign, Payload{UserID: &userID}, metadata.StatusActive},
		{"idle condemned", metadata.StatusIdle, EventInitiateDisposal, Payload{Reason: "beyond repair"}, metadata.StatusCondemned},
		{"in repair condemned", metadata.StatusInRepair, EventInitiateDisposal, Payload{}, metadata.StatusCondemned},
		{"condemned disposed", metadata.StatusCondemned, EventCompleteDisposal, Payload{}, metadata.StatusDisposed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, err := Apply(assetWithStatus(tt.from), tt.event, tt.payload)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, next.Status)
		})
	}
}

func TestApplyRejectsDisallowedTransitions(t *testing.T) {
	tests := []struct {
		name  string
		from  metadata.Status
		event Event
	}{
		{"active cannot be condemned directly", metadata.StatusActive, EventInitiateDisposal},
		{"in repair cannot start maintenance", metadata.StatusInRepair, EventStartMaintenance},
		{"idle cannot be marked idle", metadata.StatusIdle, EventMarkIdle},
		{"active cannot be assigned", metadata.StatusActive, EventAssign},
		{"disposed is terminal", metadata.StatusDisposed, EventStartMaintenance},
		{"condemned cannot return to maintenance", metadata.StatusCondemned, EventStartMaintenance},
		{"active cannot complete disposal", metadata.StatusActive, EventCompleteDisposal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := assetWithStatus(tt.from)
			snapshot := original

			_, err := Apply(original, tt.event, Payload{})

			var invalid *apperrors.InvalidTransitionError
			assert.ErrorAs(t, err, &invalid)
			assert.Equal(t, tt.from.String(), invalid.From)
			assert.Equal(t, string(tt.event), invalid.Event)
			assert.Equal(t, snapshot, original, "input asset must stay unchanged on rejection")
		})
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	userID := 3
	original := assetWithStatus(metadata.StatusIdle)
	snapshot := original

	next, err := Apply(original, EventAssign, Payload{UserID: &userID})
	assert.NoError(t, err)
	assert.Equal(t, snapshot, original)
	assert.Equal(t, metadata.StatusActive, next.Status)
	assert.Equal(t, 3, *next.AssignedToID)
}

func TestMarkIdleClearsCustodian(t *testing.T) {
	userID := 11
	asset := assetWithStatus(metadata.StatusActive)
	asset.AssignedToID = &userID

	next, err := Apply(asset, EventMarkIdle, Payload{})
	assert.NoError(t, err)
	assert.Nil(t, next.AssignedToID)
}

func TestTerminalTransitionsFreezeOnce(t *testing.T) {
	condemnedAt := time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC)
	disposedAt := time.Date(2025, time.June, 1, 10, 0, 0, 0, time.UTC)

	asset := assetWithStatus(metadata.StatusInRepair)
	condemned, err := Apply(asset, EventInitiateDisposal, Payload{Reason: "water damage", At: condemnedAt})
	assert.NoError(t, err)
	assert.NotNil(t, condemned.StatusChangedAt)
	assert.Equal(t, condemnedAt, *condemned.StatusChangedAt)
	assert.Equal(t, "water damage", *condemned.DisposalReason)

	disposed, err := Apply(condemned, EventCompleteDisposal, Payload{At: disposedAt})
	assert.NoError(t, err)
	assert.Equal(t, metadata.StatusDisposed, disposed.Status)
	assert.Equal(t, disposedAt, *disposed.DisposedAt)
	// The valuation freeze point stays at the condemnation date.
	assert.Equal(t, condemnedAt, *disposed.StatusChangedAt)
}

func TestCompleteMaintenanceRequiresOutcome(t *testing.T) {
	_, err := Apply(assetWithStatus(metadata.StatusUnderMaintenance), EventCompleteMaintenance, Payload{})
	assert.Error(t, err)

	_, err = Apply(assetWithStatus(metadata.StatusUnderMaintenance), EventCompleteMaintenance, Payload{Outcome: Outcome("shrugged")})
	assert.Error(t, err)
}

func TestNewEvent(t *testing.T) {
	event, err := NewEvent("mark_idle")
	assert.NoError(t, err)
	assert.Equal(t, EventMarkIdle, event)

	_, err = NewEvent("teleport")
	assert.Error(t, err)
}
