package store

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/jonathan/resume-builder/internal/types"
)

// Observer receives a private snapshot after every dispatched command.
// Observers must not dispatch synchronously from the callback.
type Observer func(State)

// Store owns a State and serializes every transition applied to it.
type Store struct {
	mu    sync.Mutex
	state State

	// notifyMu keeps observer callbacks in dispatch order.
	notifyMu  sync.Mutex
	observers map[int]Observer
	nextID    int

	logger *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for dispatch tracing.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithState seeds the store with an existing state, e.g. one restored from
// persistence.
func WithState(st State) Option {
	return func(s *Store) {
		s.state = st.Clone()
	}
}

// New creates a store holding InitialState.
func New(opts ...Option) *Store {
	s := &Store{
		state:     InitialState(),
		observers: make(map[int]Observer),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dispatch applies cmd and returns a snapshot of the resulting state.
func (s *Store) Dispatch(cmd Command) State {
	st, _ := s.dispatchIf(nil, cmd)
	return st
}

// AddEntry applies cmd only when c has no entry with id. It reports false,
// with the unchanged state, when the id is already taken.
func (s *Store) AddEntry(c Collection, id string, cmd Command) (State, bool) {
	return s.dispatchIf(func(st State) bool {
		return !slices.Contains(IDs(st.Resume, c), id)
	}, cmd)
}

// ChangeEntry applies cmd only when c holds an entry with id. It reports
// false, with the unchanged state, when the id is missing.
func (s *Store) ChangeEntry(c Collection, id string, cmd Command) (State, bool) {
	return s.dispatchIf(func(st State) bool {
		return slices.Contains(IDs(st.Resume, c), id)
	}, cmd)
}

// dispatchIf applies cmd when cond holds for the current state. The check and
// the transition happen under the same lock.
func (s *Store) dispatchIf(cond func(State) bool, cmd Command) (State, bool) {
	s.mu.Lock()
	if cond != nil && !cond(s.state) {
		snap := s.state.Clone()
		s.mu.Unlock()
		return snap, false
	}
	s.state = Reduce(s.state, cmd)
	snap := s.state.Clone()
	observers := make([]Observer, 0, len(s.observers))
	for id := 0; id < s.nextID; id++ {
		if o, ok := s.observers[id]; ok {
			observers = append(observers, o)
		}
	}
	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()

	s.logger.Debug("dispatched command", "command", fmt.Sprintf("%T", cmd), "step", snap.CurrentStep)

	for _, o := range observers {
		o(snap.Clone())
	}
	return snap, true
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Resume returns a deep copy of the current document.
func (s *Store) Resume() types.Resume {
	return s.Snapshot().Resume
}

// Subscribe registers o and returns a function that removes it.
func (s *Store) Subscribe(o Observer) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.observers[id] = o
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.observers, id)
			s.mu.Unlock()
		})
	}
}

// Has reports whether the collection currently holds an entry with id.
func (s *Store) Has(c Collection, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Contains(IDs(s.state.Resume, c), id)
}

// UpdatePersonalInfo replaces the whole personal info record.
func (s *Store) UpdatePersonalInfo(info types.PersonalInfo) {
	s.Dispatch(UpdatePersonalInfo{Info: info})
}

// AddWorkExperience appends an entry.
func (s *Store) AddWorkExperience(e types.WorkExperience) { s.Dispatch(AddWorkExperience{Entry: e}) }

// UpdateWorkExperience replaces the entry with id. Unknown ids are ignored.
func (s *Store) UpdateWorkExperience(id string, e types.WorkExperience) {
	s.Dispatch(UpdateWorkExperience{ID: id, Entry: e})
}

// DeleteWorkExperience removes the entry with id.
func (s *Store) DeleteWorkExperience(id string) { s.Dispatch(DeleteWorkExperience{ID: id}) }

// AddEducation appends an entry.
func (s *Store) AddEducation(e types.Education) { s.Dispatch(AddEducation{Entry: e}) }

// UpdateEducation replaces the entry with id. Unknown ids are ignored.
func (s *Store) UpdateEducation(id string, e types.Education) {
	s.Dispatch(UpdateEducation{ID: id, Entry: e})
}

// DeleteEducation removes the entry with id.
func (s *Store) DeleteEducation(id string) { s.Dispatch(DeleteEducation{ID: id}) }

// AddSkill appends a skill.
func (s *Store) AddSkill(e types.Skill) { s.Dispatch(AddSkill{Entry: e}) }

// UpdateSkill replaces the skill with id. Unknown ids are ignored.
func (s *Store) UpdateSkill(id string, e types.Skill) { s.Dispatch(UpdateSkill{ID: id, Entry: e}) }

// DeleteSkill removes the skill with id.
func (s *Store) DeleteSkill(id string) { s.Dispatch(DeleteSkill{ID: id}) }

// AddLanguage appends a language.
func (s *Store) AddLanguage(e types.Language) { s.Dispatch(AddLanguage{Entry: e}) }

// UpdateLanguage replaces the language with id. Unknown ids are ignored.
func (s *Store) UpdateLanguage(id string, e types.Language) {
	s.Dispatch(UpdateLanguage{ID: id, Entry: e})
}

// DeleteLanguage removes the language with id.
func (s *Store) DeleteLanguage(id string) { s.Dispatch(DeleteLanguage{ID: id}) }

// AddProject appends a project.
func (s *Store) AddProject(e types.Project) { s.Dispatch(AddProject{Entry: e}) }

// UpdateProject replaces the project with id. Unknown ids are ignored.
func (s *Store) UpdateProject(id string, e types.Project) {
	s.Dispatch(UpdateProject{ID: id, Entry: e})
}

// DeleteProject removes the project with id.
func (s *Store) DeleteProject(id string) { s.Dispatch(DeleteProject{ID: id}) }

// AddCertification appends a certification.
func (s *Store) AddCertification(e types.Certification) { s.Dispatch(AddCertification{Entry: e}) }

// UpdateCertification replaces the certification with id. Unknown ids are ignored.
func (s *Store) UpdateCertification(id string, e types.Certification) {
	s.Dispatch(UpdateCertification{ID: id, Entry: e})
}

// DeleteCertification removes the certification with id.
func (s *Store) DeleteCertification(id string) { s.Dispatch(DeleteCertification{ID: id}) }

// SetTemplate records the selected template id.
func (s *Store) SetTemplate(id string) { s.Dispatch(SetTemplate{Template: id}) }

// SetStep moves the editor to step.
func (s *Store) SetStep(step int) { s.Dispatch(SetStep{Step: step}) }

// TogglePreview flips between edit and preview mode.
func (s *Store) TogglePreview() { s.Dispatch(TogglePreview{}) }

// LoadResume merges a candidate document into the store. See Merge.
func (s *Store) LoadResume(c types.Candidate) { s.Dispatch(LoadResume{Candidate: c}) }
