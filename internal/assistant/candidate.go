package assistant

import (
	"github.com/jonathan/resume-builder/internal/types"
)

var personalInfoFields = []string{
	"firstName", "lastName", "email", "phone", "location", "linkedin", "website", "summary",
}

var collectionFields = []string{
	"workExperience", "education", "skills", "languages", "projects", "certifications",
}

// completeCandidate applies the load defaults to a raw reply at document
// level: absent personal info fields become empty strings, absent
// collections become empty, and an empty template keeps current's. Entries
// inside collections are left untouched so the schema still checks them.
func completeCandidate(raw map[string]any, current types.Resume) map[string]any {
	out := make(map[string]any, len(raw)+len(collectionFields)+2)
	for k, v := range raw {
		out[k] = v
	}

	info, ok := raw["personalInfo"].(map[string]any)
	switch {
	case ok:
		filled := make(map[string]any, len(personalInfoFields))
		for k, v := range info {
			filled[k] = v
		}
		for _, f := range personalInfoFields {
			if _, present := filled[f]; !present {
				filled[f] = ""
			}
		}
		out["personalInfo"] = filled
	case raw["personalInfo"] == nil:
		out["personalInfo"] = emptyPersonalInfo()
	}

	for _, c := range collectionFields {
		if v, present := raw[c]; !present || v == nil {
			out[c] = []any{}
		}
	}

	switch t := raw["selectedTemplate"].(type) {
	case nil:
		out["selectedTemplate"] = current.SelectedTemplate
	case string:
		if t == "" {
			out["selectedTemplate"] = current.SelectedTemplate
		}
	}
	return out
}

func emptyPersonalInfo() map[string]any {
	m := make(map[string]any, len(personalInfoFields))
	for _, f := range personalInfoFields {
		m[f] = ""
	}
	return m
}
