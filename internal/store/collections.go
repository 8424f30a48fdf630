package store

import (
	"fmt"
	"slices"

	"github.com/jonathan/resume-builder/internal/types"
)

// Collection names one of the document's ordered entity lists.
type Collection string

// Collections, named by their JSON field.
const (
	CollectionWorkExperience Collection = "workExperience"
	CollectionEducation      Collection = "education"
	CollectionSkills         Collection = "skills"
	CollectionLanguages      Collection = "languages"
	CollectionProjects       Collection = "projects"
	CollectionCertifications Collection = "certifications"
)

// Collections lists every collection in document order.
var Collections = []Collection{
	CollectionWorkExperience,
	CollectionEducation,
	CollectionSkills,
	CollectionLanguages,
	CollectionProjects,
	CollectionCertifications,
}

// ParseCollection maps a JSON field name to a Collection.
func ParseCollection(name string) (Collection, error) {
	c := Collection(name)
	if !slices.Contains(Collections, c) {
		return "", fmt.Errorf("unknown collection %q", name)
	}
	return c, nil
}

// IDs returns the ids of the collection's entries in order.
func IDs(r types.Resume, c Collection) []string {
	switch c {
	case CollectionWorkExperience:
		return idsOf(r.WorkExperience)
	case CollectionEducation:
		return idsOf(r.Education)
	case CollectionSkills:
		return idsOf(r.Skills)
	case CollectionLanguages:
		return idsOf(r.Languages)
	case CollectionProjects:
		return idsOf(r.Projects)
	case CollectionCertifications:
		return idsOf(r.Certifications)
	}
	return nil
}

func idsOf[T entity](list []T) []string {
	out := make([]string, len(list))
	for i, e := range list {
		out[i] = e.GetID()
	}
	return out
}
