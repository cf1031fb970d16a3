package models

// Category identifies a target prospect category.
type Category string

// Known prospect categories.
const (
	CategoryTreatmentCenter  Category = "treatment_center"
	CategoryTherapistProfile Category = "therapist_profile"
	CategorySchoolConsultant Category = "school_consultant"
	CategoryPediatrician     Category = "pediatrician"
)

// SourceType identifies which extraction strategy family produced a record.
type SourceType string

const (
	SourceTreatmentCenter  SourceType = "treatment_center"
	SourceDirectoryProfile SourceType = "directory_profile"
	SourceSchoolConsultant SourceType = "school_consultant"
	SourceGeneric          SourceType = "generic"
)

// ContactInfo holds the contact channels discovered for a prospect.
type ContactInfo struct {
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Website  string `json:"website,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
}

// DiscoveredProspect is one candidate contact record produced by an
// extraction pass. Name is always a validator-approved person name;
// records that fail name validation are never emitted.
type DiscoveredProspect struct {
	Name         string         `json:"name"`
	Title        string         `json:"title,omitempty"`
	Organization string         `json:"organization,omitempty"`
	Location     string         `json:"location,omitempty"`
	Specialty    []string       `json:"specialty,omitempty"`
	Contact      ContactInfo    `json:"contact"`
	Source       SourceType     `json:"source"`
	SourceURL    string         `json:"source_url"`
	FitScore     int            `json:"fit_score"`
	RawData      map[string]any `json:"raw_data,omitempty"`
}

// ContactFields counts how many contact-adjacent fields are populated.
// Used when merging duplicates to decide which candidate is richer.
func (p *DiscoveredProspect) ContactFields() int {
	n := 0
	if p.Title != "" {
		n++
	}
	if p.Organization != "" {
		n++
	}
	if p.Contact.Email != "" {
		n++
	}
	if p.Contact.Phone != "" {
		n++
	}
	if p.Contact.Website != "" {
		n++
	}
	if p.Contact.LinkedIn != "" {
		n++
	}
	return n
}
