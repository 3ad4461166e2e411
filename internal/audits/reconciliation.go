package audits

// Reconciliation tracks one audit run's physical count against the
// expected-present set snapshotted at creation. Sets, not counters, back
// the tallies so duplicate scans cannot double count.
type Reconciliation struct {
	expected map[int]struct{}
	verified map[int]struct{}
	excess   map[int]struct{}
}

type VerifyOutcome int

const (
	// OutcomeVerified marks a first-time confirmation of an in-scope asset.
	OutcomeVerified VerifyOutcome = iota
	// OutcomeDuplicate is a repeat scan; the tallies are unchanged.
	OutcomeDuplicate
	// OutcomeExcess is an asset found in the scanned scope that the
	// register places elsewhere.
	OutcomeExcess
)

func NewReconciliation(expectedIDs []int) *Reconciliation {
	expected := make(map[int]struct{}, len(expectedIDs))
	for _, id := range expectedIDs {
		expected[id] = struct{}{}
	}
	return &Reconciliation{
		expected: expected,
		verified: make(map[int]struct{}),
		excess:   make(map[int]struct{}),
	}
}

// Restore replays previously recorded scans, used when a run's state is
// loaded back from the store.
func (r *Reconciliation) Restore(verifiedIDs, excessIDs []int) {
	for _, id := range verifiedIDs {
		if _, ok := r.expected[id]; ok {
			r.verified[id] = struct{}{}
		}
	}
	for _, id := range excessIDs {
		r.excess[id] = struct{}{}
	}
}

func (r *Reconciliation) Verify(assetID int) VerifyOutcome {
	if _, inScope := r.expected[assetID]; !inScope {
		r.excess[assetID] = struct{}{}
		return OutcomeExcess
	}
	if _, seen := r.verified[assetID]; seen {
		return OutcomeDuplicate
	}
	r.verified[assetID] = struct{}{}
	return OutcomeVerified
}

// Missing lists the expected assets never confirmed during the run.
func (r *Reconciliation) Missing() []int {
	missing := make([]int, 0)
	for id := range r.expected {
		if _, ok := r.verified[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}

func (r *Reconciliation) TotalAssets() int    { return len(r.expected) }
func (r *Reconciliation) VerifiedAssets() int { return len(r.verified) }
func (r *Reconciliation) ExcessAssets() int   { return len(r.excess) }
func (r *Reconciliation) MissingAssets() int  { return len(r.expected) - len(r.verified) }
