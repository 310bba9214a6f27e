package server

import (
	"net/http"

	"github.com/jonathan/jobhunt-tracker/internal/selection"
	"github.com/jonathan/jobhunt-tracker/internal/server/middleware"
	"github.com/jonathan/jobhunt-tracker/internal/tracker"
	"github.com/jonathan/jobhunt-tracker/internal/types"
)

// stepResponse returns the step that was created or changed along with the
// company so clients can refresh both views from one call.
type stepResponse struct {
	Step    *types.SelectionStep `json:"step,omitempty"`
	Company *types.Company       `json:"company"`
}

// mutateSteps runs fn over the company's steps inside one store transaction
// and stamps updatedAt.
func (s *Server) mutateSteps(r *http.Request, fn func([]types.SelectionStep) ([]types.SelectionStep, error)) (*types.Company, error) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		return nil, err
	}
	now := s.now()
	return s.store.UpdateCompany(r.Context(), userID, r.PathValue("id"), func(c *types.Company) error {
		steps, err := fn(c.SelectionSteps)
		if err != nil {
			return err
		}
		c.SelectionSteps = steps
		*c = tracker.Touch(*c, now)
		return nil
	})
}

func (s *Server) handleAddStep(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.userID(w, r); !ok {
		return
	}

	var req types.AddStepRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	var added types.SelectionStep
	company, err := s.mutateSteps(r, func(steps []types.SelectionStep) ([]types.SelectionStep, error) {
		next, step, err := selection.AddStep(steps, selection.NewStep{
			Name:          req.Name,
			Deadline:      req.Deadline,
			ScheduledDate: req.ScheduledDate,
			Notes:         req.Notes,
		})
		added = step
		return next, err
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, stepResponse{Step: &added, Company: company})
}

func (s *Server) handlePatchStep(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.userID(w, r); !ok {
		return
	}

	var patch types.StepPatch
	if err := decodeBody(w, r, &patch); err != nil {
		s.writeError(w, r, err)
		return
	}

	stepID := r.PathValue("step_id")
	company, err := s.mutateSteps(r, func(steps []types.SelectionStep) ([]types.SelectionStep, error) {
		return selection.UpdateStep(steps, stepID, patch)
	})
	s.respondStep(w, r, company, stepID, err)
}

func (s *Server) handleSetStepStatus(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.userID(w, r); !ok {
		return
	}

	var req types.SetStepStatusRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	stepID := r.PathValue("step_id")
	now := s.now()
	company, err := s.mutateSteps(r, func(steps []types.SelectionStep) ([]types.SelectionStep, error) {
		return selection.SetStatus(steps, stepID, req.Status, now)
	})
	s.respondStep(w, r, company, stepID, err)
}

// handleToggleStep flips a step between completed and pending.
func (s *Server) handleToggleStep(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.userID(w, r); !ok {
		return
	}

	stepID := r.PathValue("step_id")
	now := s.now()
	company, err := s.mutateSteps(r, func(steps []types.SelectionStep) ([]types.SelectionStep, error) {
		return selection.ToggleDone(steps, stepID, now)
	})
	s.respondStep(w, r, company, stepID, err)
}

func (s *Server) handleDeleteStep(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.userID(w, r); !ok {
		return
	}

	stepID := r.PathValue("step_id")
	company, err := s.mutateSteps(r, func(steps []types.SelectionStep) ([]types.SelectionStep, error) {
		return selection.DeleteStep(steps, stepID)
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, stepResponse{Company: company})
}

func (s *Server) respondStep(w http.ResponseWriter, r *http.Request, company *types.Company, stepID string, err error) {
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp := stepResponse{Company: company}
	if step, ok := selection.Find(company.SelectionSteps, stepID); ok {
		resp.Step = &step
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleStepPresets lists the step names offered as quick picks.
func (s *Server) handleStepPresets(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string][]string{"presets": selection.PresetSteps})
}
