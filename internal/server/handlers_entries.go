package server

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/store"
	"github.com/jonathan/resume-builder/internal/types"
)

// entryRoute binds a URL collection name to its store commands.
type entryRoute struct {
	collection store.Collection
	// add decodes a new entry, assigning an id when it has none.
	add    func(w http.ResponseWriter, r *http.Request) (store.Command, string, error)
	update func(w http.ResponseWriter, r *http.Request, id string) (store.Command, error)
	remove func(id string) store.Command
}

type identified interface {
	GetID() string
}

// newEntryRoute builds an entryRoute for entries of type T.
func newEntryRoute[T identified](
	c store.Collection,
	withID func(T, string) T,
	add func(T) store.Command,
	update func(string, T) store.Command,
	remove func(string) store.Command,
) entryRoute {
	decode := func(w http.ResponseWriter, r *http.Request) (T, error) {
		var entry T
		if err := decodeJSON(w, r, &entry); err != nil {
			return entry, err
		}
		if d, ok := any(entry).(interface{ WithDefaults() T }); ok {
			entry = d.WithDefaults()
		}
		if err := types.ValidateEntry(entry); err != nil {
			return entry, validationError(err)
		}
		return entry, nil
	}

	return entryRoute{
		collection: c,
		add: func(w http.ResponseWriter, r *http.Request) (store.Command, string, error) {
			entry, err := decode(w, r)
			if err != nil {
				return nil, "", err
			}
			if entry.GetID() == "" {
				entry = withID(entry, uuid.NewString())
			}
			return add(entry), entry.GetID(), nil
		},
		update: func(w http.ResponseWriter, r *http.Request, id string) (store.Command, error) {
			entry, err := decode(w, r)
			if err != nil {
				return nil, err
			}
			// The path id wins over any id in the body.
			return update(id, withID(entry, id)), nil
		},
		remove: remove,
	}
}

var entryRoutes = map[string]entryRoute{
	"work-experience": newEntryRoute(store.CollectionWorkExperience,
		func(e types.WorkExperience, id string) types.WorkExperience { e.ID = id; return e },
		func(e types.WorkExperience) store.Command { return store.AddWorkExperience{Entry: e} },
		func(id string, e types.WorkExperience) store.Command { return store.UpdateWorkExperience{ID: id, Entry: e} },
		func(id string) store.Command { return store.DeleteWorkExperience{ID: id} },
	),
	"education": newEntryRoute(store.CollectionEducation,
		func(e types.Education, id string) types.Education { e.ID = id; return e },
		func(e types.Education) store.Command { return store.AddEducation{Entry: e} },
		func(id string, e types.Education) store.Command { return store.UpdateEducation{ID: id, Entry: e} },
		func(id string) store.Command { return store.DeleteEducation{ID: id} },
	),
	"skills": newEntryRoute(store.CollectionSkills,
		func(e types.Skill, id string) types.Skill { e.ID = id; return e },
		func(e types.Skill) store.Command { return store.AddSkill{Entry: e} },
		func(id string, e types.Skill) store.Command { return store.UpdateSkill{ID: id, Entry: e} },
		func(id string) store.Command { return store.DeleteSkill{ID: id} },
	),
	"languages": newEntryRoute(store.CollectionLanguages,
		func(e types.Language, id string) types.Language { e.ID = id; return e },
		func(e types.Language) store.Command { return store.AddLanguage{Entry: e} },
		func(id string, e types.Language) store.Command { return store.UpdateLanguage{ID: id, Entry: e} },
		func(id string) store.Command { return store.DeleteLanguage{ID: id} },
	),
	"projects": newEntryRoute(store.CollectionProjects,
		func(e types.Project, id string) types.Project { e.ID = id; return e },
		func(e types.Project) store.Command { return store.AddProject{Entry: e} },
		func(id string, e types.Project) store.Command { return store.UpdateProject{ID: id, Entry: e} },
		func(id string) store.Command { return store.DeleteProject{ID: id} },
	),
	"certifications": newEntryRoute(store.CollectionCertifications,
		func(e types.Certification, id string) types.Certification { e.ID = id; return e },
		func(e types.Certification) store.Command { return store.AddCertification{Entry: e} },
		func(id string, e types.Certification) store.Command { return store.UpdateCertification{ID: id, Entry: e} },
		func(id string) store.Command { return store.DeleteCertification{ID: id} },
	),
}

// entryTarget resolves the session and collection of an entry request.
func (s *Server) entryTarget(r *http.Request) (*Session, entryRoute, error) {
	sess, err := s.session(r)
	if err != nil {
		return nil, entryRoute{}, err
	}
	route, ok := entryRoutes[r.PathValue("collection")]
	if !ok {
		return nil, entryRoute{}, &ErrValidation{Field: "collection", Message: "unknown collection " + r.PathValue("collection")}
	}
	return sess, route, nil
}

func (s *Server) handleAddEntry(w http.ResponseWriter, r *http.Request) {
	sess, route, err := s.entryTarget(r)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	cmd, id, err := route.add(w, r)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	state, ok := sess.Store.AddEntry(route.collection, id, cmd)
	if !ok {
		s.errorResponse(w, r, &ErrEntryExists{Collection: string(route.collection), ID: id})
		return
	}
	s.jsonResponse(w, http.StatusCreated, types.EntryResponse{ID: id, State: state})
}

// handleUpdateEntry reports 404 for unknown ids; the store itself treats
// them as a no-op.
func (s *Server) handleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	sess, route, err := s.entryTarget(r)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	id := r.PathValue("entry_id")
	cmd, err := route.update(w, r, id)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.changeEntry(w, r, sess, route.collection, id, cmd)
}

func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	sess, route, err := s.entryTarget(r)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	id := r.PathValue("entry_id")
	s.changeEntry(w, r, sess, route.collection, id, route.remove(id))
}

func (s *Server) changeEntry(w http.ResponseWriter, r *http.Request, sess *Session, c store.Collection, id string, cmd store.Command) {
	state, ok := sess.Store.ChangeEntry(c, id, cmd)
	if !ok {
		s.errorResponse(w, r, &ErrEntryNotFound{Collection: string(c), ID: id})
		return
	}
	s.jsonResponse(w, http.StatusOK, state)
}
