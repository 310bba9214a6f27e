// Package tracker implements the company-level operations of the job-search
// tracker: creation, status changes, filtering and summary statistics.
package tracker

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/jobhunt-tracker/internal/selection"
	"github.com/jonathan/jobhunt-tracker/internal/types"
)

// NewCompany returns a company in the interested state with empty collections.
func NewCompany(name string, now time.Time) (types.Company, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return types.Company{}, &ValidationError{Field: "name", Message: "company name is required"}
	}
	return types.Company{
		ID:                 uuid.NewString(),
		Name:               name,
		CurrentStatus:      types.StatusInterested,
		SelectionSteps:     []types.SelectionStep{},
		ESQuestions:        []types.ESQuestion{},
		SubmittedDocuments: []types.SubmittedDocument{},
		InterviewLogs:      []types.InterviewLog{},
		Priority:           types.PriorityMedium,
		CreatedAt:          now,
		UpdatedAt:          now,
	}, nil
}

// FromRequest builds a new company from a create request.
func FromRequest(req types.CreateCompanyRequest, now time.Time) (types.Company, error) {
	c, err := NewCompany(req.Name, now)
	if err != nil {
		return types.Company{}, err
	}
	if req.CurrentStatus != "" {
		if !req.CurrentStatus.Valid() {
			return types.Company{}, &ValidationError{Field: "currentStatus", Message: "unknown selection status"}
		}
		c.CurrentStatus = req.CurrentStatus
	}
	if req.Priority != "" {
		if !req.Priority.Valid() {
			return types.Company{}, &ValidationError{Field: "priority", Message: "unknown priority"}
		}
		c.Priority = req.Priority
	}
	c.Industry = req.Industry
	c.EmployeeCount = req.EmployeeCount
	c.Location = req.Location
	c.Website = req.Website
	c.Description = req.Description
	c.JobType = req.JobType
	c.Salary = req.Salary
	c.WorkLocation = req.WorkLocation
	c.Benefits = req.Benefits
	c.Favorite = req.Favorite
	c.Notes = req.Notes
	return c, nil
}

// Replace applies a full-document edit to existing. The id and createdAt of the
// stored record win over whatever the client sent.
func Replace(existing, next types.Company, now time.Time) (types.Company, error) {
	next.Name = strings.TrimSpace(next.Name)
	if next.Name == "" {
		return types.Company{}, &ValidationError{Field: "name", Message: "company name is required"}
	}
	if !next.CurrentStatus.Valid() {
		return types.Company{}, &ValidationError{Field: "currentStatus", Message: "unknown selection status"}
	}
	if next.Priority == "" {
		next.Priority = types.PriorityMedium
	}
	if !next.Priority.Valid() {
		return types.Company{}, &ValidationError{Field: "priority", Message: "unknown priority"}
	}
	next.ID = existing.ID
	next.CreatedAt = existing.CreatedAt
	return Touch(normalize(next), now), nil
}

// Touch stamps updatedAt. Every mutation goes through it.
func Touch(c types.Company, now time.Time) types.Company {
	c.UpdatedAt = now
	return c
}

// QuickStatusUpdate moves the company to another pipeline status.
func QuickStatusUpdate(c types.Company, status types.SelectionStatus, now time.Time) (types.Company, error) {
	if !status.Valid() {
		return c, &ValidationError{Field: "status", Message: "unknown selection status"}
	}
	c.CurrentStatus = status
	return Touch(c, now), nil
}

// Filter keeps the companies whose name or industry contains query
// (case-insensitive) and, when status is non-empty, whose status matches.
func Filter(companies []types.Company, query string, status types.SelectionStatus) []types.Company {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]types.Company, 0, len(companies))
	for _, c := range companies {
		if status != "" && c.CurrentStatus != status {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(c.Name), q) &&
			!strings.Contains(strings.ToLower(c.Industry), q) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// SortByUpdated orders companies most recently updated first.
func SortByUpdated(companies []types.Company) {
	sort.SliceStable(companies, func(i, j int) bool {
		return companies[i].UpdatedAt.After(companies[j].UpdatedAt)
	})
}

// Summarize counts companies per status. In-progress excludes offer, rejected
// and declined.
func Summarize(companies []types.Company) types.CompanyStats {
	stats := types.CompanyStats{
		Total:    len(companies),
		ByStatus: make(map[types.SelectionStatus]int),
	}
	for _, c := range companies {
		stats.ByStatus[c.CurrentStatus]++
		switch c.CurrentStatus {
		case types.StatusOffer:
			stats.Offers++
		case types.StatusRejected:
			stats.Rejected++
		}
		if !c.CurrentStatus.IsClosed() {
			stats.InProgress++
		}
		if c.Favorite {
			stats.Favorites++
		}
	}
	return stats
}

// NextScheduledStep returns the step with the earliest scheduled date at or
// after now. Ties go to the lower order.
func NextScheduledStep(c types.Company, now time.Time) (types.SelectionStep, bool) {
	var (
		next  types.SelectionStep
		found bool
	)
	for _, s := range selection.Sorted(c.SelectionSteps) {
		if s.ScheduledDate == nil || s.ScheduledDate.Before(now) {
			continue
		}
		if !found || s.ScheduledDate.Before(*next.ScheduledDate) {
			next, found = s, true
		}
	}
	return next, found
}

// StepProgress returns completed and total step counts.
func StepProgress(c types.Company) (completed, total int) {
	return selection.Progress(c.SelectionSteps)
}

func normalize(c types.Company) types.Company {
	if c.SelectionSteps == nil {
		c.SelectionSteps = []types.SelectionStep{}
	}
	if c.ESQuestions == nil {
		c.ESQuestions = []types.ESQuestion{}
	}
	if c.SubmittedDocuments == nil {
		c.SubmittedDocuments = []types.SubmittedDocument{}
	}
	if c.InterviewLogs == nil {
		c.InterviewLogs = []types.InterviewLog{}
	}
	return c
}
