package profile

import "time"

// RawProfile is the ingest wire shape. Field names follow the upstream
// document store (camelCase, Mongo-style _id).
type RawProfile struct {
	ID        string `json:"_id" validate:"required"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Name      string `json:"name,omitempty"`

	IsQL             bool          `json:"isQL"`
	IsActive         bool          `json:"isActive"`
	IsVerified       bool          `json:"isVerified"`
	IsNonServiceable bool          `json:"isNonServiceable"`
	IsSoftDeleted    bool          `json:"isSoftDeleted"`
	PauseDetails     *PauseDetails `json:"pauseDetails,omitempty"`
	OnboardedOn      *time.Time    `json:"onboardedOn,omitempty"`
	TestLead         *bool         `json:"testLead,omitempty"`

	ForceUpdate bool `json:"forceUpdate"`

	Gender          string   `json:"gender" validate:"required"`
	Height          int      `json:"height" validate:"required,gt=0"`
	DOB             string   `json:"dob" validate:"required"`
	CurrentLocation string   `json:"currentLocation" validate:"required"`
	AnnualIncome    *float64 `json:"annualIncome,omitempty"`

	Religion       string `json:"religion" validate:"required"`
	Caste          string `json:"caste,omitempty"`
	Fitness        string `json:"fitness,omitempty"`
	Religiosity    string `json:"religiosity,omitempty"`
	Smoking        string `json:"smoking,omitempty"`
	Drinking       string `json:"drinking,omitempty"`
	FoodHabits     string `json:"foodHabits,omitempty"`
	Intent         string `json:"intent,omitempty"`
	OpenToChildren string `json:"openToChildren,omitempty"`
	FamilyType     string `json:"familyType,omitempty"`
	MaritalStatus  string `json:"maritalStatus,omitempty"`

	AppVersionDetails *AppVersionDetails `json:"appVersionDetails" validate:"required"`

	EducationDetails                []EducationDetail    `json:"educationDetails,omitempty"`
	ProfessionalJourneyDetails      []ProfessionalDetail `json:"professionalJourneyDetails,omitempty"`
	HighlightedProfessionalDetailID string               `json:"highlightedProfessionalDetailId,omitempty"`
	SimilarInterestsV2              []string             `json:"similarInterestsV2,omitempty"`
	Blurb                           string               `json:"blurb,omitempty"`
	PhotoCollection                 []PhotoDoc           `json:"photoCollection,omitempty"`
	ShowCaseProfileIDs              []string             `json:"showCaseProfileIds,omitempty"`
}

type PauseDetails struct {
	IsPaused bool `json:"isPaused"`
}

type AppVersionDetails struct {
	LastUpdatedOn *time.Time `json:"lastUpdatedOn,omitempty"`
}

type EducationDetail struct {
	ID           string `json:"id,omitempty"`
	College      string `json:"college,omitempty"`
	CollegeOther string `json:"collegeOther,omitempty"`
	Degree       string `json:"degree,omitempty"`
	DegreeOther  string `json:"degreeOther,omitempty"`
	DegreeType   string `json:"degreeType,omitempty"`
	Tier         *int   `json:"tier,omitempty"`
	IsVerified   *bool  `json:"isVerified,omitempty"`
}

type ProfessionalDetail struct {
	ID               string `json:"id,omitempty"`
	Company          string `json:"company,omitempty"`
	CompanyOther     string `json:"companyOther,omitempty"`
	Designation      string `json:"designation,omitempty"`
	DesignationOther string `json:"designationOther,omitempty"`
	IsVerified       *bool  `json:"isVerified,omitempty"`
}

// PhotoDoc is one uploaded photo. Removed photos are kept upstream with
// IsRemoved set.
type PhotoDoc struct {
	Key        string `json:"key,omitempty"`
	CroppedKey string `json:"croppedKey,omitempty"`
	IsRemoved  bool   `json:"isRemoved,omitempty"`
	ShowCaseID string `json:"showCaseId,omitempty"`
	MediaID    string `json:"mediaId,omitempty"`
	MediaType  string `json:"mediaType,omitempty"`
	IsCropped  bool   `json:"isCropped,omitempty"`
}
