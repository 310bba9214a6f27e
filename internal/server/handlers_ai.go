package server

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/jonathan/jobhunt-tracker/internal/logging"
	"github.com/jonathan/jobhunt-tracker/internal/tracker"
	"github.com/jonathan/jobhunt-tracker/internal/types"
)

const msgGatewayDisabled = "生成AIが設定されていません"

// aiUser returns the authenticated user when the gateway is configured.
func (s *Server) aiUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := s.userID(w, r)
	if !ok {
		return uuid.Nil, false
	}
	if s.gateway == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, msgGatewayDisabled)
		return uuid.Nil, false
	}
	return userID, true
}

// handleDraftES drafts an entry-sheet answer from the stored self-analysis and,
// when companyId is given, the stored company.
func (s *Server) handleDraftES(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.aiUser(w, r)
	if !ok {
		return
	}

	var req types.ESDraftRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	var company *types.Company
	if req.CompanyID != "" {
		c, err := s.store.GetCompany(r.Context(), userID, req.CompanyID)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		company = c
	}

	selfAnalysis, err := s.store.GetSelfAnalysis(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp, err := s.gateway.DraftES(r.Context(), req, company, selfAnalysis)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

func (s *Server) handleCompanyInfo(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.aiUser(w, r); !ok {
		return
	}

	var req types.CompanyInfoRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	info, err := s.gateway.LookupCompany(r.Context(), req.CompanyName)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, info)
}

// handleCompanyResearch summarizes up to five pages. With a companyId the
// analysis is saved onto the company, and only when the run succeeded.
func (s *Server) handleCompanyResearch(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.aiUser(w, r)
	if !ok {
		return
	}

	var req types.ResearchRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	if req.CompanyID != "" {
		company, err := s.store.GetCompany(r.Context(), userID, req.CompanyID)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if req.CompanyName == "" {
			req.CompanyName = company.Name
		}
	}

	resp, err := s.gateway.Research(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if req.CompanyID != "" && resp.Success {
		now := s.now()
		_, err := s.store.UpdateCompany(r.Context(), userID, req.CompanyID, func(c *types.Company) error {
			c.CompanyAnalysis.AIResearch = &types.AIResearchResult{
				ResearchedAt:     now,
				ResearchAnalysis: resp.Analysis,
			}
			*c = tracker.Touch(*c, now)
			return nil
		})
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.log.Info("research saved", logging.String("company_id", req.CompanyID))
	}

	s.jsonResponse(w, http.StatusOK, resp)
}

func (s *Server) handleCompanyURLs(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.aiUser(w, r); !ok {
		return
	}

	var req types.URLSuggestionRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	suggestions, err := s.gateway.SuggestURLs(r.Context(), req.CompanyName)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, suggestions)
}

// handleCoach runs one coaching turn. The stored self-analysis is used only
// when the request does not carry one.
func (s *Server) handleCoach(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.aiUser(w, r)
	if !ok {
		return
	}

	var req types.CoachRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	var stored *types.SelfAnalysisData
	if req.SelfAnalysisData == nil {
		data, err := s.store.GetSelfAnalysis(r.Context(), userID)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		stored = data
	}

	resp, err := s.gateway.Coach(r.Context(), req, stored)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, resp)
}
