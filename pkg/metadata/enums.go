package metadata

import "fmt"

type DepreciationMethod string

const (
	MethodStraightLine     DepreciationMethod = "straight_line"
	MethodWrittenDownValue DepreciationMethod = "written_down_value"
)

func NewDepreciationMethod(value string) (DepreciationMethod, error) {
	method := DepreciationMethod(value)
	switch method {
	case MethodStraightLine, MethodWrittenDownValue:
		return method, nil
	default:
		return "", fmt.Errorf("invalid depreciation method: %s", value)
	}
}

type TransferType string

const (
	TransferPermanent TransferType = "permanent"
	TransferTemporary TransferType = "temporary"
)

func NewTransferType(value string) (TransferType, error) {
	tt := TransferType(value)
	switch tt {
	case TransferPermanent, TransferTemporary:
		return tt, nil
	default:
		return "", fmt.Errorf("invalid transfer type: %s", value)
	}
}

type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

type AuditState string

const (
	AuditPlanned    AuditState = "planned"
	AuditInProgress AuditState = "in_progress"
	AuditCompleted  AuditState = "completed"
)

type DiscrepancyKind string

const (
	DiscrepancyMissing DiscrepancyKind = "missing"
	DiscrepancyExcess  DiscrepancyKind = "excess"
)
