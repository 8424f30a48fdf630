// Package types provides type definitions for the resume document and the
// request payloads exchanged with the HTTP API.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Template identifiers understood by the rendering projections.
const (
	TemplateModern   = "modern"
	TemplateClassic  = "classic"
	TemplateMinimal  = "minimal"
	TemplateCreative = "creative"

	// DefaultTemplate is the template a fresh document starts with.
	DefaultTemplate = TemplateModern
)

// Templates lists every template id in display order.
var Templates = []string{TemplateModern, TemplateClassic, TemplateMinimal, TemplateCreative}

// IsKnownTemplate reports whether id names one of the built-in templates.
func IsKnownTemplate(id string) bool {
	for _, t := range Templates {
		if t == id {
			return true
		}
	}
	return false
}

// SkillCategory classifies a skill.
type SkillCategory string

// Skill categories
const (
	SkillTechnical SkillCategory = "technical"
	SkillSoft      SkillCategory = "soft"
)

// SkillProficiency is the self-assessed level of a skill.
type SkillProficiency string

// Skill proficiency levels, lowest first
const (
	SkillBeginner     SkillProficiency = "beginner"
	SkillIntermediate SkillProficiency = "intermediate"
	SkillAdvanced     SkillProficiency = "advanced"
	SkillExpert       SkillProficiency = "expert"
)

// LanguageProficiency is the level of a spoken language.
type LanguageProficiency string

// Spoken language proficiency levels, lowest first
const (
	LanguageBasic          LanguageProficiency = "basic"
	LanguageConversational LanguageProficiency = "conversational"
	LanguageFluent         LanguageProficiency = "fluent"
	LanguageNative         LanguageProficiency = "native"
)

// Levels given to entries created without one.
const (
	DefaultSkillCategory       = SkillTechnical
	DefaultSkillProficiency    = SkillIntermediate
	DefaultLanguageProficiency = LanguageConversational
)

// Resume is the root document aggregating every section of a profile.
// Collection order is display order.
type Resume struct {
	PersonalInfo     PersonalInfo     `json:"personalInfo"`
	WorkExperience   []WorkExperience `json:"workExperience"`
	Education        []Education      `json:"education"`
	Skills           []Skill          `json:"skills"`
	Languages        []Language       `json:"languages"`
	Projects         []Project        `json:"projects"`
	Certifications   []Certification  `json:"certifications"`
	SelectedTemplate string           `json:"selectedTemplate"`
}

// PersonalInfo is the singleton header record of a resume.
type PersonalInfo struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Location  string `json:"location"`
	LinkedIn  string `json:"linkedin"`
	Website   string `json:"website"`
	Summary   string `json:"summary"`
}

// WorkExperience is a single position held. EndDate is ignored when Current is set.
type WorkExperience struct {
	ID               string   `json:"id"`
	Company          string   `json:"company"`
	Position         string   `json:"position"`
	StartDate        string   `json:"startDate"`
	EndDate          string   `json:"endDate"`
	Current          bool     `json:"current"`
	Location         string   `json:"location"`
	Responsibilities []string `json:"responsibilities"`
	Achievements     []string `json:"achievements"`
}

// Education is a degree or program attended.
type Education struct {
	ID          string `json:"id"`
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Field       string `json:"field"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	GPA         string `json:"gpa,omitempty"`
	Location    string `json:"location"`
}

// Skill is a named technical or soft skill.
type Skill struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Category    SkillCategory    `json:"category" validate:"omitempty,oneof=technical soft"`
	Proficiency SkillProficiency `json:"proficiency" validate:"omitempty,oneof=beginner intermediate advanced expert"`
}

// Language is a spoken language entry.
type Language struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Proficiency LanguageProficiency `json:"proficiency" validate:"omitempty,oneof=basic conversational fluent native"`
}

// Project is a personal or professional project.
type Project struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	URL          string   `json:"url,omitempty"`
	StartDate    string   `json:"startDate"`
	EndDate      string   `json:"endDate"`
}

// Certification is a credential obtained from an issuer.
type Certification struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Issuer string `json:"issuer"`
	Date   string `json:"date"`
	URL    string `json:"url,omitempty"`
}

// EmptyResume returns the all-empty document a session starts with.
func EmptyResume() Resume {
	return Resume{
		WorkExperience:   []WorkExperience{},
		Education:        []Education{},
		Skills:           []Skill{},
		Languages:        []Language{},
		Projects:         []Project{},
		Certifications:   []Certification{},
		SelectedTemplate: DefaultTemplate,
	}
}

// Clone returns a deep copy of r. Nil collections come back as empty slices.
func (r Resume) Clone() Resume {
	out := Resume{
		PersonalInfo:     r.PersonalInfo,
		WorkExperience:   make([]WorkExperience, len(r.WorkExperience)),
		Education:        append([]Education{}, r.Education...),
		Skills:           append([]Skill{}, r.Skills...),
		Languages:        append([]Language{}, r.Languages...),
		Projects:         make([]Project, len(r.Projects)),
		Certifications:   append([]Certification{}, r.Certifications...),
		SelectedTemplate: r.SelectedTemplate,
	}
	for i, w := range r.WorkExperience {
		w.Responsibilities = cloneStrings(w.Responsibilities)
		w.Achievements = cloneStrings(w.Achievements)
		out.WorkExperience[i] = w
	}
	for i, p := range r.Projects {
		p.Technologies = cloneStrings(p.Technologies)
		out.Projects[i] = p
	}
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return append(make([]string, 0, len(in)), in...)
}

// FullName joins first and last name with a single space.
func (p PersonalInfo) FullName() string {
	switch {
	case p.FirstName == "":
		return p.LastName
	case p.LastName == "":
		return p.FirstName
	default:
		return p.FirstName + " " + p.LastName
	}
}

// GetID returns the entry's id.
func (w WorkExperience) GetID() string { return w.ID }

// GetID returns the entry's id.
func (e Education) GetID() string { return e.ID }

// WithDefaults fills an empty category or proficiency with the defaults.
func (s Skill) WithDefaults() Skill {
	if s.Category == "" {
		s.Category = DefaultSkillCategory
	}
	if s.Proficiency == "" {
		s.Proficiency = DefaultSkillProficiency
	}
	return s
}

// WithDefaults fills an empty proficiency with the default.
func (l Language) WithDefaults() Language {
	if l.Proficiency == "" {
		l.Proficiency = DefaultLanguageProficiency
	}
	return l
}

// GetID returns the skill's id.
func (s Skill) GetID() string { return s.ID }

// GetID returns the language's id.
func (l Language) GetID() string { return l.ID }

// GetID returns the project's id.
func (p Project) GetID() string { return p.ID }

// GetID returns the certification's id.
func (c Certification) GetID() string { return c.ID }
