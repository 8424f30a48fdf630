package store

import (
	"slices"

	"github.com/jonathan/resume-builder/internal/types"
)

type entity interface {
	GetID() string
}

// Reduce is the single transition function of the store. It never mutates
// its input: every collection it changes is a freshly allocated slice, and
// untouched collections keep sharing backing arrays with s.
func Reduce(s State, cmd Command) State {
	r := s.Resume

	switch c := cmd.(type) {
	case UpdatePersonalInfo:
		r.PersonalInfo = c.Info

	case AddWorkExperience:
		r.WorkExperience = appendEntry(r.WorkExperience, normalizeWork(c.Entry))
	case UpdateWorkExperience:
		r.WorkExperience = replaceEntry(r.WorkExperience, c.ID, normalizeWork(c.Entry))
	case DeleteWorkExperience:
		r.WorkExperience = removeEntry(r.WorkExperience, c.ID)

	case AddEducation:
		r.Education = appendEntry(r.Education, c.Entry)
	case UpdateEducation:
		r.Education = replaceEntry(r.Education, c.ID, c.Entry)
	case DeleteEducation:
		r.Education = removeEntry(r.Education, c.ID)

	case AddSkill:
		r.Skills = appendEntry(r.Skills, c.Entry)
	case UpdateSkill:
		r.Skills = replaceEntry(r.Skills, c.ID, c.Entry)
	case DeleteSkill:
		r.Skills = removeEntry(r.Skills, c.ID)

	case AddLanguage:
		r.Languages = appendEntry(r.Languages, c.Entry)
	case UpdateLanguage:
		r.Languages = replaceEntry(r.Languages, c.ID, c.Entry)
	case DeleteLanguage:
		r.Languages = removeEntry(r.Languages, c.ID)

	case AddProject:
		r.Projects = appendEntry(r.Projects, normalizeProject(c.Entry))
	case UpdateProject:
		r.Projects = replaceEntry(r.Projects, c.ID, normalizeProject(c.Entry))
	case DeleteProject:
		r.Projects = removeEntry(r.Projects, c.ID)

	case AddCertification:
		r.Certifications = appendEntry(r.Certifications, c.Entry)
	case UpdateCertification:
		r.Certifications = replaceEntry(r.Certifications, c.ID, c.Entry)
	case DeleteCertification:
		r.Certifications = removeEntry(r.Certifications, c.ID)

	case SetTemplate:
		r.SelectedTemplate = c.Template

	case SetStep:
		s.CurrentStep = c.Step
		return s
	case TogglePreview:
		s.IsPreviewMode = !s.IsPreviewMode
		return s

	case LoadResume:
		r = Merge(s.Resume, c.Candidate)

	default:
		return s
	}

	s.Resume = r
	return s
}

func appendEntry[T any](list []T, e T) []T {
	out := make([]T, 0, len(list)+1)
	out = append(out, list...)
	return append(out, e)
}

// replaceEntry returns list unchanged when no entry has the id.
func replaceEntry[T entity](list []T, id string, e T) []T {
	if !slices.ContainsFunc(list, func(x T) bool { return x.GetID() == id }) {
		return list
	}
	out := slices.Clone(list)
	for i := range out {
		if out[i].GetID() == id {
			out[i] = e
		}
	}
	return out
}

// removeEntry returns list unchanged when no entry has the id.
func removeEntry[T entity](list []T, id string) []T {
	if !slices.ContainsFunc(list, func(x T) bool { return x.GetID() == id }) {
		return list
	}
	out := make([]T, 0, len(list)-1)
	for _, x := range list {
		if x.GetID() != id {
			out = append(out, x)
		}
	}
	return out
}

// Entries created through the store always carry non-nil lists so that the
// document keeps the schema's shape.
func normalizeWork(w types.WorkExperience) types.WorkExperience {
	if w.Responsibilities == nil {
		w.Responsibilities = []string{}
	}
	if w.Achievements == nil {
		w.Achievements = []string{}
	}
	return w
}

func normalizeProject(p types.Project) types.Project {
	if p.Technologies == nil {
		p.Technologies = []string{}
	}
	return p
}
