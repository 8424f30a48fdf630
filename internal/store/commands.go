// Package store holds the live resume document and editor navigation state,
// and defines the closed set of commands that may change them.
package store

import "github.com/jonathan/resume-builder/internal/types"

// Command is a tagged variant consumed by Reduce. The set is closed: only
// types declared in this package implement it.
type Command interface {
	command()
}

// UpdatePersonalInfo replaces the personal info record wholesale.
type UpdatePersonalInfo struct{ Info types.PersonalInfo }

// AddWorkExperience appends an entry; the caller supplies the id.
type AddWorkExperience struct{ Entry types.WorkExperience }

// UpdateWorkExperience replaces the entry with the given id.
type UpdateWorkExperience struct {
	ID    string
	Entry types.WorkExperience
}

// DeleteWorkExperience removes the entry with the given id.
type DeleteWorkExperience struct{ ID string }

// AddEducation appends an entry; the caller supplies the id.
type AddEducation struct{ Entry types.Education }

// UpdateEducation replaces the entry with the given id.
type UpdateEducation struct {
	ID    string
	Entry types.Education
}

// DeleteEducation removes the entry with the given id.
type DeleteEducation struct{ ID string }

// AddSkill appends a skill; the caller supplies the id.
type AddSkill struct{ Entry types.Skill }

// UpdateSkill replaces the skill with the given id.
type UpdateSkill struct {
	ID    string
	Entry types.Skill
}

// DeleteSkill removes the skill with the given id.
type DeleteSkill struct{ ID string }

// AddLanguage appends a spoken language; the caller supplies the id.
type AddLanguage struct{ Entry types.Language }

// UpdateLanguage replaces the language with the given id.
type UpdateLanguage struct {
	ID    string
	Entry types.Language
}

// DeleteLanguage removes the language with the given id.
type DeleteLanguage struct{ ID string }

// AddProject appends a project; the caller supplies the id.
type AddProject struct{ Entry types.Project }

// UpdateProject replaces the project with the given id.
type UpdateProject struct {
	ID    string
	Entry types.Project
}

// DeleteProject removes the project with the given id.
type DeleteProject struct{ ID string }

// AddCertification appends a certification; the caller supplies the id.
type AddCertification struct{ Entry types.Certification }

// UpdateCertification replaces the certification with the given id.
type UpdateCertification struct {
	ID    string
	Entry types.Certification
}

// DeleteCertification removes the certification with the given id.
type DeleteCertification struct{ ID string }

// SetTemplate selects a template. The id is not checked here; projections
// fall back to the default for unknown ids.
type SetTemplate struct{ Template string }

// SetStep moves the editor to another section.
type SetStep struct{ Step int }

// TogglePreview flips between edit and preview mode.
type TogglePreview struct{}

// LoadResume replaces the document with a defaults-filled candidate.
type LoadResume struct{ Candidate types.Candidate }

func (UpdatePersonalInfo) command()   {}
func (AddWorkExperience) command()    {}
func (UpdateWorkExperience) command() {}
func (DeleteWorkExperience) command() {}
func (AddEducation) command()         {}
func (UpdateEducation) command()      {}
func (DeleteEducation) command()      {}
func (AddSkill) command()             {}
func (UpdateSkill) command()          {}
func (DeleteSkill) command()          {}
func (AddLanguage) command()          {}
func (UpdateLanguage) command()       {}
func (DeleteLanguage) command()       {}
func (AddProject) command()           {}
func (UpdateProject) command()        {}
func (DeleteProject) command()        {}
func (AddCertification) command()     {}
func (UpdateCertification) command()  {}
func (DeleteCertification) command()  {}
func (SetTemplate) command()          {}
func (SetStep) command()              {}
func (TogglePreview) command()        {}
func (LoadResume) command()           {}
