package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/jonathan/resume-builder/internal/schemas"
	"github.com/jonathan/resume-builder/internal/types"
)

// maxJSONBody caps JSON request bodies.
const maxJSONBody = 1 << 20

// decodeJSON reads a JSON body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &ErrValidation{Field: "body", Message: fmt.Sprintf("invalid JSON: %v", err)}
	}
	return nil
}

// validationError converts a validator error into an ErrValidation.
func validationError(err error) error {
	return &ErrValidation{Field: "body", Message: err.Error()}
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Create(r.Context())
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	token, err := s.jwtService.GenerateToken(sess.ID)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, types.CreateSessionResponse{
		SessionID: sess.ID.String(),
		Token:     token,
		State:     sess.Store.Snapshot(),
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, sess.Store.Snapshot())
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	if err := s.sessions.Delete(r.Context(), sess.ID); err != nil {
		s.errorResponse(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUpdatePersonalInfo(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	var info types.PersonalInfo
	if err := decodeJSON(w, r, &info); err != nil {
		s.errorResponse(w, r, err)
		return
	}
	sess.Store.UpdatePersonalInfo(info)
	s.jsonResponse(w, http.StatusOK, sess.Store.Snapshot())
}

func (s *Server) handleSetTemplate(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	var req types.SetTemplateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, r, validationError(err))
		return
	}
	sess.Store.SetTemplate(req.Template)
	s.jsonResponse(w, http.StatusOK, sess.Store.Snapshot())
}

func (s *Server) handleSetStep(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	var req types.SetStepRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, r, validationError(err))
		return
	}
	sess.Store.SetStep(*req.Step)
	s.jsonResponse(w, http.StatusOK, sess.Store.Snapshot())
}

func (s *Server) handleTogglePreview(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	sess.Store.TogglePreview()
	s.jsonResponse(w, http.StatusOK, sess.Store.Snapshot())
}

// handleLoad validates a complete document and merges it into the session.
func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err != nil {
		s.errorResponse(w, r, &ErrValidation{Field: "body", Message: err.Error()})
		return
	}
	resume, err := schemas.ValidateResume(body)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	sess.Store.LoadResume(types.CandidateFromResume(*resume))
	s.jsonResponse(w, http.StatusOK, sess.Store.Snapshot())
}
