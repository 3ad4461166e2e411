package metadata

import (
	"fmt"
	"strings"
)

// Acquisition records how an asset entered the register. Procurement and
// grant-funded purchases are the common paths; donated and leased equipment
// still gets a register entry so audits can account for it.
type Acquisition string

const (
	AcquisitionPurchase Acquisition = "purchase"
	AcquisitionGrant    Acquisition = "grant"
	AcquisitionDonation Acquisition = "donation"
	AcquisitionLease    Acquisition = "lease"
	AcquisitionOther    Acquisition = "other"
)

func (a Acquisition) IsValid() bool {
	switch a {
	case AcquisitionPurchase, AcquisitionGrant, AcquisitionDonation, AcquisitionLease:
		return true
	default:
		return false
	}
}

func (a Acquisition) isPredefined() bool {
	return a.ContainsKeyword(string(AcquisitionOther))
}

func NewAcquisition(value string) (Acquisition, error) {
	normalized := strings.Replace(strings.ToLower(strings.TrimSpace(value)), " ", "-", -1)
	acquisition := Acquisition(normalized)
	if !acquisition.IsValid() && !acquisition.isPredefined() {
		return acquisition, fmt.Errorf(
			"value not valid, only valid values are: %s, %s, %s, %s, %s",
			AcquisitionPurchase, AcquisitionGrant, AcquisitionDonation, AcquisitionLease, AcquisitionOther,
		)
	}

	return acquisition, nil
}

func (a Acquisition) String() string {
	return string(a)
}

func (a Acquisition) ContainsKeyword(keyword string) bool {
	return strings.Contains(string(a), keyword)
}
