package server

import (
	"net/http"
	"strings"

	"github.com/jonathan/jobhunt-tracker/internal/tracker"
	"github.com/jonathan/jobhunt-tracker/internal/types"
)

// handleListCompanies returns the user's companies, most recently updated first.
// Optional query parameters: q (name/industry substring) and status.
func (s *Server) handleListCompanies(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	var status types.SelectionStatus
	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
		parsed, err := types.ParseSelectionStatus(raw)
		if err != nil {
			s.writeError(w, r, &ErrValidation{Field: "status", Message: "選考状況の値が不正です"})
			return
		}
		status = parsed
	}

	companies, err := s.store.ListCompanies(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := tracker.Filter(companies, r.URL.Query().Get("q"), status)
	tracker.SortByUpdated(out)
	s.jsonResponse(w, http.StatusOK, out)
}

func (s *Server) handleCreateCompany(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	var req types.CreateCompanyRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	company, err := tracker.FromRequest(req, s.now())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.SaveCompany(r.Context(), userID, &company); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, company)
}

func (s *Server) handleGetCompany(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	company, err := s.store.GetCompany(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, company)
}

// handleReplaceCompany overwrites the whole company document. The stored id
// and createdAt are kept.
func (s *Server) handleReplaceCompany(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	var next types.Company
	if err := decodeBody(w, r, &next); err != nil {
		s.writeError(w, r, err)
		return
	}

	now := s.now()
	updated, err := s.store.UpdateCompany(r.Context(), userID, r.PathValue("id"), func(c *types.Company) error {
		replaced, err := tracker.Replace(*c, next, now)
		if err != nil {
			return err
		}
		*c = replaced
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteCompany(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	if err := s.store.DeleteCompany(r.Context(), userID, r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleUpdateStatus is the quick pipeline status change from the list view.
func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	var req types.UpdateStatusRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	now := s.now()
	updated, err := s.store.UpdateCompany(r.Context(), userID, r.PathValue("id"), func(c *types.Company) error {
		next, err := tracker.QuickStatusUpdate(*c, req.Status, now)
		if err != nil {
			return err
		}
		*c = next
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, updated)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	companies, err := s.store.ListCompanies(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, tracker.Summarize(companies))
}
