package profile

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"reflect"
	"sort"
	"time"
)

// LastActiveThreshold is the minimum drift for a last_active-only update.
const LastActiveThreshold = 2 * time.Hour

// ScalarFields are the payload fields compared on every update of an
// existing circulateable profile. Derived text fields and their hashes are
// tracked separately, as is last_active.
var ScalarFields = []string{
	"is_circulateable", "is_paused", "name",
	"gender", "height", "dob", "age", "current_location", "annual_income",
	"religion", "caste", "fitness", "religiosity", "smoking", "drinking",
	"family_type", "food_habits", "intent", "open_to_children", "marital_status",
	"blurb", "interests", "photo_collection",
}

// EligibilityFields are the only fields written for an existing profile
// that is no longer circulateable.
var EligibilityFields = []string{"is_circulateable", "is_paused", "last_active"}

// ChangeSet classifies what differs between a stored and a fresh Profile.
type ChangeSet struct {
	Education  bool
	Profession bool

	// ContentChangedForReport is true when any vibe report input changed
	// (education, profession, blurb, interests, the set of photo ids) or no
	// report exists yet.
	ContentChangedForReport bool

	// ReportInputHash is the hash of the current report inputs.
	ReportInputHash string

	// Payload holds the scalar fields whose value changed, with new values.
	Payload map[string]any

	prevLastActive *time.Time
	curLastActive  *time.Time
}

// HasFieldChanges reports whether any derived text or scalar field changed.
func (c ChangeSet) HasFieldChanges() bool {
	return c.Education || c.Profession || len(c.Payload) > 0
}

// UpdateLastActive applies the last_active rule: with other writes pending,
// any difference is written; alone, only a drift above
// LastActiveThreshold is.
func (c ChangeSet) UpdateLastActive(hasOtherWrites bool) bool {
	if c.curLastActive == nil {
		return false
	}
	if c.prevLastActive == nil {
		return true
	}
	cur, prev := c.curLastActive.UTC(), c.prevLastActive.UTC()
	if hasOtherWrites {
		return !cur.Equal(prev)
	}
	delta := cur.Sub(prev)
	if delta < 0 {
		delta = -delta
	}
	return delta > LastActiveThreshold
}

// LastActive returns the current last_active value.
func (c ChangeSet) LastActive() *time.Time { return c.curLastActive }

// Diff compares cur against prev. A nil prev marks everything changed.
func Diff(prev, cur *Profile) (ChangeSet, error) {
	reportHash := ReportInputHash(cur)
	cs := ChangeSet{
		ReportInputHash: reportHash,
		Payload:         map[string]any{},
		curLastActive:   cur.LastActive,
	}

	curPayload, err := cur.Payload()
	if err != nil {
		return cs, err
	}

	if prev == nil {
		cs.Education = true
		cs.Profession = true
		cs.ContentChangedForReport = true
		for _, f := range ScalarFields {
			cs.Payload[f] = curPayload[f]
		}
		return cs, nil
	}

	prevPayload, err := prev.Payload()
	if err != nil {
		return cs, err
	}

	cs.prevLastActive = prev.LastActive
	cs.Education = prev.EducationHash != cur.EducationHash
	cs.Profession = prev.ProfessionHash != cur.ProfessionHash
	cs.ContentChangedForReport = prev.VibeReport == "" || prev.VibeReportHash != reportHash

	for _, f := range ScalarFields {
		if !samePayloadValue(f, prevPayload[f], curPayload[f]) {
			cs.Payload[f] = curPayload[f]
		}
	}
	return cs, nil
}

// reportInput fields are declared in key order so the encoding is canonical.
type reportInput struct {
	Blurb      string   `json:"blurb"`
	Education  string   `json:"education"`
	Interests  []string `json:"interests"`
	PhotoIDs   []string `json:"photo_ids"`
	Profession string   `json:"profession"`
}

// ReportInputHash fingerprints the inputs of the vibe report. Photo ids and
// interests are sets: reordering either alone does not change it.
func ReportInputHash(p *Profile) string {
	ids := make([]string, 0, len(p.PhotoCollection))
	for _, ph := range p.PhotoCollection {
		ids = append(ids, ph.ShowCaseID)
	}
	sort.Strings(ids)

	in := reportInput{
		Education:  p.Education,
		Profession: p.Profession,
		Interests:  sortedCopy(p.Interests),
		Blurb:      p.Blurb,
		PhotoIDs:   ids,
	}
	data, _ := json.Marshal(in)
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}

// samePayloadValue compares decoded payload values. interests is a set.
func samePayloadValue(field string, a, b any) bool {
	if field == "interests" {
		as, aok := stringSet(a)
		bs, bok := stringSet(b)
		if aok && bok {
			return reflect.DeepEqual(as, bs)
		}
	}
	return reflect.DeepEqual(a, b)
}

func stringSet(v any) ([]string, bool) {
	switch t := v.(type) {
	case nil:
		return []string{}, true
	case []string:
		return sortedCopy(t), true
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			s, ok := e.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		sort.Strings(out)
		return out, true
	default:
		return nil, false
	}
}

func sortedCopy(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	sort.Strings(out)
	return out
}
