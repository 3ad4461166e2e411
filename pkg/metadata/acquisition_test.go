package metadata

import (
	"testing"
)

// TestIsValid tests the IsValid method of the Acquisition type.
func TestIsValid(t *testing.T) {
	tests := []struct {
		name        string
		acquisition Acquisition
		expected    bool
	}{
		{"purchase acquisition", AcquisitionPurchase, true},
		{"grant acquisition", AcquisitionGrant, true},
		{"donation acquisition", AcquisitionDonation, true},
		{"other acquisition", AcquisitionOther, false},
		{"unknown acquisition", Acquisition("unknown"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.acquisition.IsValid(); got != tt.expected {
				t.Errorf("IsValid() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestNewAcquisition(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid purchase", "purchase", false},
		{"valid uppercase GRANT", "GRANT", false},
		{"invalid unknown", "unknown", true},
		{"valid other with spaces", "  other ", false},
		{"valid lease", "lease", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewAcquisition(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewAcquisition() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if err == nil && !got.IsValid() && !got.isPredefined() {
				t.Errorf("NewAcquisition() = %v is neither valid nor predefined", got)
			}
		})
	}
}
