package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/jonathan/resume-builder/internal/rendering"
)

// handlePreview returns the resume as a standalone HTML page.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	html, err := rendering.RenderHTML(sess.Store.Resume(), s.requestLocale(r, ""))
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(html))
}

// handleExport renders the resume to an A4 PDF download.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	export, err := rendering.ExportPDF(r.Context(), sess.Store.Resume(), s.requestLocale(r, ""), s.renderer)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(export.PDF)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(export.PDF)
}
