package store

import "github.com/jonathan/resume-builder/internal/types"

// Merge builds the document that replaces current when a candidate is loaded.
//
// PersonalInfo is the candidate's record over all-empty defaults, never the
// live record. Each collection is taken verbatim when present and empty when
// absent. The template is the candidate's when non-empty, else current's.
// Entries are not validated here; callers run the schema first.
func Merge(current types.Resume, c types.Candidate) types.Resume {
	out := types.Resume{
		WorkExperience:   []types.WorkExperience{},
		Education:        []types.Education{},
		Skills:           []types.Skill{},
		Languages:        []types.Language{},
		Projects:         []types.Project{},
		Certifications:   []types.Certification{},
		SelectedTemplate: current.SelectedTemplate,
	}

	if c.PersonalInfo != nil {
		out.PersonalInfo = *c.PersonalInfo
	}
	if c.WorkExperience != nil {
		out.WorkExperience = c.WorkExperience
	}
	if c.Education != nil {
		out.Education = c.Education
	}
	if c.Skills != nil {
		out.Skills = c.Skills
	}
	if c.Languages != nil {
		out.Languages = c.Languages
	}
	if c.Projects != nil {
		out.Projects = c.Projects
	}
	if c.Certifications != nil {
		out.Certifications = c.Certifications
	}
	if c.SelectedTemplate != "" {
		out.SelectedTemplate = c.SelectedTemplate
	}

	// Detach from the caller's slices.
	return out.Clone()
}
