package types

import (
	"encoding/json"
	"fmt"
)

// Candidate is a possibly incomplete document produced by an external
// collaborator. A nil collection means the collaborator omitted it; a nil
// PersonalInfo means the whole section was omitted.
type Candidate struct {
	PersonalInfo     *PersonalInfo    `json:"personalInfo,omitempty"`
	WorkExperience   []WorkExperience `json:"workExperience,omitempty"`
	Education        []Education      `json:"education,omitempty"`
	Skills           []Skill          `json:"skills,omitempty"`
	Languages        []Language       `json:"languages,omitempty"`
	Projects         []Project        `json:"projects,omitempty"`
	Certifications   []Certification  `json:"certifications,omitempty"`
	SelectedTemplate string           `json:"selectedTemplate,omitempty"`
}

// ParseCandidate decodes a candidate document from JSON. Fields missing from
// the input stay at their zero value, which the merge step treats as absent.
func ParseCandidate(data []byte) (Candidate, error) {
	var c Candidate
	if err := json.Unmarshal(data, &c); err != nil {
		return Candidate{}, fmt.Errorf("failed to parse candidate document: %w", err)
	}
	return c, nil
}

// CandidateFromResume lifts a complete document into a candidate. Every
// collection is marked present, even when empty.
func CandidateFromResume(r Resume) Candidate {
	c := r.Clone()
	info := c.PersonalInfo
	return Candidate{
		PersonalInfo:     &info,
		WorkExperience:   c.WorkExperience,
		Education:        c.Education,
		Skills:           c.Skills,
		Languages:        c.Languages,
		Projects:         c.Projects,
		Certifications:   c.Certifications,
		SelectedTemplate: c.SelectedTemplate,
	}
}
