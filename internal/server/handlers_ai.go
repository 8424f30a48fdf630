package server

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/jonathan/resume-builder/internal/assistant"
	"github.com/jonathan/resume-builder/internal/ingestion"
	"github.com/jonathan/resume-builder/internal/types"
)

// handleOptimize tailors the session's resume to a job posting given inline
// or by URL.
func (s *Server) handleOptimize(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	var req types.OptimizeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, r, validationError(err))
		return
	}

	release, err := sess.TryBeginAI()
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	defer release()

	job := req.JobDescription
	if strings.TrimSpace(job) == "" && req.JobURL != "" {
		job, err = s.postings(r.Context(), req.JobURL)
		if err != nil {
			s.errorResponse(w, r, &assistant.CollaboratorError{
				Op:      assistant.OpImport,
				Message: "could not import the job posting",
				Cause:   err,
			})
			return
		}
	}

	if _, err := s.assistant.Optimize(r.Context(), sess.Store, assistant.OptimizeInput{
		JobDescription: job,
		Locale:         s.requestLocale(r, req.Locale),
		APIKey:         req.APIKey,
	}); err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, sess.Store.Snapshot())
}

// handleUpload structures an uploaded PDF or DOCX resume into the session.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, ingestion.MaxUploadBytes+(1<<20))
	if err := r.ParseMultipartForm(ingestion.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.errorResponse(w, r, &ErrValidation{Field: "file", Message: "document exceeds the upload limit"})
			return
		}
		s.errorResponse(w, r, &ErrValidation{Field: "body", Message: "expected a multipart form: " + err.Error()})
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	req := types.UploadRequest{
		Locale: r.FormValue("locale"),
		APIKey: r.FormValue("api_key"),
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, r, validationError(err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.errorResponse(w, r, &ErrValidation{Field: "file", Message: "a document is required"})
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(io.LimitReader(file, ingestion.MaxUploadBytes+1))
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	if len(data) > ingestion.MaxUploadBytes {
		s.errorResponse(w, r, &ErrValidation{Field: "file", Message: "document exceeds the upload limit"})
		return
	}

	release, err := sess.TryBeginAI()
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	defer release()

	if _, err := s.assistant.ParseDocument(r.Context(), sess.Store, assistant.ParseInput{
		Data:     data,
		MimeType: header.Header.Get("Content-Type"),
		FileName: header.Filename,
		Locale:   s.requestLocale(r, req.Locale),
		APIKey:   req.APIKey,
	}); err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, sess.Store.Snapshot())
}
