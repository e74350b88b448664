package ingest

import "github.com/verona-ai/profilesearch/v1/profile"

// State classifies an ingest by what is already stored.
type State int

const (
	NoExistingRecord State = iota
	ExistingNotCirculateable
	ExistingCirculateable
)

func (s State) String() string {
	switch s {
	case NoExistingRecord:
		return "no_existing_record"
	case ExistingNotCirculateable:
		return "existing_not_circulateable"
	case ExistingCirculateable:
		return "existing_circulateable"
	default:
		return "unknown"
	}
}

// Outcome names the write path that was taken.
type Outcome string

const (
	OutcomeFullUpsert        Outcome = "full_upsert"
	OutcomeEligibilityUpdate Outcome = "eligibility_update"
	OutcomePartialUpdate     Outcome = "partial_update"
	OutcomeUnchanged         Outcome = "unchanged"
)

// classify picks the state from the stored record (nil when absent) and the
// freshly normalized profile.
func classify(stored *profile.Profile, cur *profile.Profile) State {
	switch {
	case stored == nil:
		return NoExistingRecord
	case !cur.IsCirculateable:
		return ExistingNotCirculateable
	default:
		return ExistingCirculateable
	}
}

// Result reports what an ingest did.
type Result struct {
	Profile *profile.Profile `json:"profile"`
	State   string           `json:"state"`
	Outcome Outcome          `json:"outcome"`

	// VectorsWritten lists the named vectors sent to the store.
	VectorsWritten []string `json:"vectors_written"`
	// VectorsRemoved lists named vectors dropped because their text is now
	// empty.
	VectorsRemoved []string `json:"vectors_removed,omitempty"`
	// PayloadFields lists the payload keys sent to the store. A full upsert
	// reports "*".
	PayloadFields []string `json:"payload_fields"`

	// Degraded lists derived fields left at their stored value after a
	// collaborator failure.
	Degraded []string `json:"degraded,omitempty"`
}
