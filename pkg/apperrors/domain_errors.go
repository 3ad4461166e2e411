package apperrors

import (
	"fmt"
	"time"
)

// Domain failures are user-recoverable and never fatal: engines return them
// unwrapped so handlers can map each to an actionable HTTP response. On any
// of these errors no partial mutation has been applied.

type InvalidAsOfDateError struct {
	AsOf         time.Time
	PurchaseDate time.Time
}

func (e *InvalidAsOfDateError) Error() string {
	return fmt.Sprintf("as-of date %s precedes purchase date %s",
		e.AsOf.Format("2006-01-02"), e.PurchaseDate.Format("2006-01-02"))
}

type InvalidTransitionError struct {
	From  string
	Event string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("event %q is not allowed from status %q", e.Event, e.From)
}

type NoOpTransferError struct {
	AssetID int
}

func (e *NoOpTransferError) Error() string {
	return fmt.Sprintf("transfer for asset %d changes neither location nor department", e.AssetID)
}

type StaleTransferRequestError struct {
	RequestID int
	AssetID   int
}

func (e *StaleTransferRequestError) Error() string {
	return fmt.Sprintf("transfer request %d is stale: asset %d no longer matches the requested snapshot", e.RequestID, e.AssetID)
}

type AlreadyFinalizedError struct {
	RequestID int
	Status    string
}

func (e *AlreadyFinalizedError) Error() string {
	return fmt.Sprintf("transfer request %d is already %s", e.RequestID, e.Status)
}

type AuditAlreadyClosedError struct {
	AuditID int
}

func (e *AuditAlreadyClosedError) Error() string {
	return fmt.Sprintf("audit %d is already completed", e.AuditID)
}
