package profile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Profile is the canonical stored entity. Its JSON form is the store payload.
type Profile struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Name      string `json:"name,omitempty"`

	IsCirculateable bool       `json:"is_circulateable"`
	IsPaused        bool       `json:"is_paused"`
	LastActive      *time.Time `json:"last_active,omitempty"`

	Gender          string   `json:"gender"`
	Height          int      `json:"height"`
	DOB             string   `json:"dob"`
	Age             *int     `json:"age,omitempty"`
	CurrentLocation string   `json:"current_location"`
	AnnualIncome    *float64 `json:"annual_income,omitempty"`

	Religion       string `json:"religion"`
	Caste          string `json:"caste,omitempty"`
	Fitness        string `json:"fitness,omitempty"`
	Religiosity    string `json:"religiosity,omitempty"`
	Smoking        string `json:"smoking,omitempty"`
	Drinking       string `json:"drinking,omitempty"`
	FamilyType     string `json:"family_type,omitempty"`
	FoodHabits     string `json:"food_habits,omitempty"`
	Intent         string `json:"intent,omitempty"`
	OpenToChildren string `json:"open_to_children,omitempty"`
	MaritalStatus  string `json:"marital_status,omitempty"`

	Profession     string `json:"profession,omitempty"`
	ProfessionHash string `json:"profession_hash,omitempty"`
	Education      string `json:"education,omitempty"`
	EducationHash  string `json:"education_hash,omitempty"`
	VibeReport     string `json:"vibe_report,omitempty"`
	VibeReportHash string `json:"vibe_report_hash,omitempty"`

	Blurb           string           `json:"blurb,omitempty"`
	ProfileHook     string           `json:"profile_hook,omitempty"`
	LifeStyleTags   []string         `json:"life_style_tags"`
	Interests       []string         `json:"interests"`
	PhotoCollection []ProcessedPhoto `json:"photo_collection"`
}

// ProcessedPhoto is a show-case photo resolved to its CDN URL.
type ProcessedPhoto struct {
	ShowCaseID string `json:"show_case_id"`
	URL        string `json:"url"`
	CroppedURL string `json:"cropped_url,omitempty"`
}

// PointID derives the deterministic store point id for an external id
// (UUIDv5 in the DNS namespace).
func PointID(id string) string {
	return uuid.NewSHA1(uuid.NameSpaceDNS, []byte(id)).String()
}

// PointIDs maps external ids to store point ids.
func PointIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, PointID(id))
	}
	return out
}

// PointID returns the store point id of p.
func (p *Profile) PointID() string {
	return PointID(p.ID)
}

// Payload renders p as a generic JSON document, the form the store keeps.
func (p *Profile) Payload() (map[string]any, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("[Profile] encode payload: %w", err)
	}
	out, err := decodeMap(data)
	if err != nil {
		return nil, fmt.Errorf("[Profile] decode payload: %w", err)
	}
	return out, nil
}

// FromPayload rebuilds a Profile from a stored payload.
func FromPayload(payload map[string]any) (*Profile, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("[Profile] encode stored payload: %w", err)
	}
	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("[Profile] decode stored payload: %w", err)
	}
	return &p, nil
}

// Canonical converts any payload map into plain JSON types so values read
// back from the store compare equal to freshly rendered ones.
func Canonical(payload map[string]any) map[string]any {
	data, err := json.Marshal(payload)
	if err != nil {
		return payload
	}
	out, err := decodeMap(data)
	if err != nil {
		return payload
	}
	return out
}

// decodeMap decodes a JSON object keeping whole numbers as int64, so integer
// payload indexes see integers rather than doubles.
func decodeMap(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var out map[string]any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	for k, v := range out {
		out[k] = normalizeNumbers(v)
	}
	return out, nil
}

func normalizeNumbers(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		f, _ := t.Float64()
		return f
	case map[string]any:
		for k, item := range t {
			t[k] = normalizeNumbers(item)
		}
		return t
	case []any:
		for i, item := range t {
			t[i] = normalizeNumbers(item)
		}
		return t
	default:
		return v
	}
}
