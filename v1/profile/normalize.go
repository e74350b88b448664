package profile

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidProfile is returned for raw input missing identity or required
// demographic fields.
var ErrInvalidProfile = errors.New("invalid profile")

const imageMediaType = "IMAGE_JPEG"

// Normalizer turns raw ingest records into canonical Profiles. It holds no
// mutable state and is safe for concurrent use.
type Normalizer struct {
	cdn      CDNConfig
	validate *validator.Validate
	now      func() time.Time
}

// NewNormalizer returns a Normalizer resolving photo URLs against cdn.
func NewNormalizer(cdn CDNConfig) *Normalizer {
	return &Normalizer{
		cdn:      cdn,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		now:      time.Now,
	}
}

// WithClock overrides the clock used for age computation.
func (n *Normalizer) WithClock(now func() time.Time) *Normalizer {
	cp := *n
	cp.now = now
	return &cp
}

// Validate rejects raw input that cannot produce a Profile.
func (n *Normalizer) Validate(raw *RawProfile) error {
	if raw == nil {
		return fmt.Errorf("%w: nil record", ErrInvalidProfile)
	}
	if err := n.validate.Struct(raw); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fe.Namespace())
			}
			return fmt.Errorf("%w: %s", ErrInvalidProfile, strings.Join(fields, ", "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}
	return nil
}

// Normalize derives the canonical Profile from raw. Identical input always
// yields an identical Profile, hashes included, for a fixed clock date.
func (n *Normalizer) Normalize(raw *RawProfile) (*Profile, error) {
	if err := n.Validate(raw); err != nil {
		return nil, err
	}

	isPaused := raw.PauseDetails != nil && raw.PauseDetails.IsPaused
	profession := BuildProfession(raw.ProfessionalJourneyDetails, raw.HighlightedProfessionalDetailID)
	education := BuildEducation(raw.EducationDetails)

	name := raw.Name
	if name == "" && (raw.FirstName != "" || raw.LastName != "") {
		name = strings.TrimSpace(raw.FirstName + " " + raw.LastName)
	}

	p := &Profile{
		ID:              raw.ID,
		FirstName:       raw.FirstName,
		LastName:        raw.LastName,
		Name:            name,
		IsCirculateable: IsCirculateable(raw),
		IsPaused:        isPaused,
		LastActive:      raw.AppVersionDetails.LastUpdatedOn,
		Gender:          raw.Gender,
		Height:          raw.Height,
		DOB:             raw.DOB,
		Age:             ComputeAge(raw.DOB, n.now()),
		CurrentLocation: raw.CurrentLocation,
		AnnualIncome:    raw.AnnualIncome,
		Religion:        raw.Religion,
		Caste:           raw.Caste,
		Fitness:         raw.Fitness,
		Religiosity:     raw.Religiosity,
		Smoking:         raw.Smoking,
		Drinking:        raw.Drinking,
		FamilyType:      raw.FamilyType,
		FoodHabits:      raw.FoodHabits,
		Intent:          raw.Intent,
		OpenToChildren:  raw.OpenToChildren,
		MaritalStatus:   raw.MaritalStatus,
		Profession:      profession,
		ProfessionHash:  Hash(profession),
		Education:       education,
		EducationHash:   Hash(education),
		Blurb:           raw.Blurb,
		LifeStyleTags:   []string{},
		Interests:       nonNil(raw.SimilarInterestsV2),
		PhotoCollection: n.BuildPhotoCollection(raw.PhotoCollection, raw.ShowCaseProfileIDs),
	}
	return p, nil
}

// IsCirculateable is true only when every eligibility condition holds.
func IsCirculateable(raw *RawProfile) bool {
	paused := raw.PauseDetails != nil && raw.PauseDetails.IsPaused
	testLead := raw.TestLead != nil && *raw.TestLead
	return raw.IsQL &&
		raw.IsActive &&
		raw.IsVerified &&
		raw.OnboardedOn != nil &&
		!raw.IsNonServiceable &&
		!raw.IsSoftDeleted &&
		!paused &&
		!testLead
}

// BuildProfession formats the highlighted entry, or the last one, as
// "{designation} at {company}". *Other fields take precedence.
func BuildProfession(details []ProfessionalDetail, highlightedID string) string {
	if len(details) == 0 {
		return ""
	}

	var selected *ProfessionalDetail
	if highlightedID != "" {
		for i := range details {
			if details[i].ID == highlightedID {
				selected = &details[i]
				break
			}
		}
	}
	if selected == nil {
		selected = &details[len(details)-1]
	}

	designation := firstNonEmpty(selected.DesignationOther, selected.Designation)
	company := firstNonEmpty(selected.CompanyOther, selected.Company)

	switch {
	case designation != "" && company != "":
		return designation + " at " + company
	case designation != "":
		return designation
	default:
		return company
	}
}

// BuildEducation joins every entry as "{degree} from {college}" with "; ".
func BuildEducation(details []EducationDetail) string {
	parts := make([]string, 0, len(details))
	for _, edu := range details {
		degree := firstNonEmpty(edu.DegreeOther, edu.Degree)
		college := firstNonEmpty(edu.CollegeOther, edu.College)
		switch {
		case degree != "" && college != "":
			parts = append(parts, degree+" from "+college)
		case degree != "":
			parts = append(parts, degree)
		case college != "":
			parts = append(parts, college)
		}
	}
	return strings.Join(parts, "; ")
}

// BuildPhotoCollection keeps the non-removed photos referenced by showCase,
// in showCase order. A show-case id matches a photo's ShowCaseID first, then
// its MediaID when the photo is a JPEG image.
func (n *Normalizer) BuildPhotoCollection(photos []PhotoDoc, showCase []string) []ProcessedPhoto {
	out := []ProcessedPhoto{}
	if len(photos) == 0 || len(showCase) == 0 {
		return out
	}

	live := make([]PhotoDoc, 0, len(photos))
	for _, p := range photos {
		if !p.IsRemoved {
			live = append(live, p)
		}
	}

	for _, id := range showCase {
		match := findPhoto(live, func(p PhotoDoc) bool { return p.ShowCaseID == id })
		if match == nil {
			match = findPhoto(live, func(p PhotoDoc) bool { return p.MediaID == id && p.MediaType == imageMediaType })
		}
		if match == nil || match.Key == "" {
			continue
		}
		out = append(out, ProcessedPhoto{
			ShowCaseID: id,
			URL:        n.cdn.URL(firstNonEmpty(match.CroppedKey, match.Key)),
		})
	}
	return out
}

func findPhoto(photos []PhotoDoc, pred func(PhotoDoc) bool) *PhotoDoc {
	for i := range photos {
		if pred(photos[i]) {
			return &photos[i]
		}
	}
	return nil
}

// ComputeAge returns the age in whole years at now, or nil for a malformed dob.
func ComputeAge(dob string, now time.Time) *int {
	birth, err := time.Parse(time.DateOnly, dob)
	if err != nil {
		return nil
	}
	age := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}
	return &age
}

// Hash is the hex MD5 of text, or "" for empty text.
func Hash(text string) string {
	if text == "" {
		return ""
	}
	sum := md5.Sum([]byte(text))
	return hex.EncodeToString(sum[:])
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
