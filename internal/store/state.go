package store

import "github.com/jonathan/resume-builder/internal/types"

// Editor sections, in navigation order.
const (
	StepPersonalInfo = iota
	StepWorkExperience
	StepEducation
	StepSkills
	StepProjects
	StepFinalize
)

// StepCount is the number of editor sections.
const StepCount = StepFinalize + 1

// State is the complete state owned by a Store.
type State struct {
	Resume        types.Resume `json:"resume"`
	CurrentStep   int          `json:"currentStep"`
	IsPreviewMode bool         `json:"isPreviewMode"`
}

// InitialState is the state of a freshly opened session.
func InitialState() State {
	return State{
		Resume:      types.EmptyResume(),
		CurrentStep: StepPersonalInfo,
	}
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	s.Resume = s.Resume.Clone()
	return s
}
