package server

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/jobhunt-tracker/internal/export"
	"github.com/jonathan/jobhunt-tracker/internal/schedule"
	"github.com/jonathan/jobhunt-tracker/internal/types"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// handleEvents returns the calendar events derived from every company's steps,
// sorted by date. from and to accept RFC 3339 or YYYY-MM-DD; a date-only to
// includes that whole day. on=YYYY-MM-DD selects a single calendar day and
// takes precedence over the range.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	loc := s.now().Location()
	if raw := strings.TrimSpace(r.URL.Query().Get("on")); raw != "" {
		day, err := time.ParseInLocation("2006-01-02", raw, loc)
		if err != nil {
			s.writeError(w, r, &ErrValidation{Field: "on", Message: "日付の形式が正しくありません"})
			return
		}
		companies, err := s.store.ListCompanies(r.Context(), userID)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		events := schedule.EventsOn(schedule.DeriveEvents(companies), day)
		if events == nil {
			events = []types.CalendarEvent{}
		}
		s.jsonResponse(w, http.StatusOK, events)
		return
	}

	from, err := parseBound(r.URL.Query().Get("from"), loc, false)
	if err != nil {
		s.writeError(w, r, &ErrValidation{Field: "from", Message: "日付の形式が正しくありません"})
		return
	}
	to, err := parseBound(r.URL.Query().Get("to"), loc, true)
	if err != nil {
		s.writeError(w, r, &ErrValidation{Field: "to", Message: "日付の形式が正しくありません"})
		return
	}

	companies, err := s.store.ListCompanies(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	events := schedule.EventsBetween(schedule.DeriveEvents(companies), from, to)
	if events == nil {
		events = []types.CalendarEvent{}
	}
	s.jsonResponse(w, http.StatusOK, events)
}

// handleSchedule returns upcoming events grouped into today, tomorrow, this
// week, next week and later. limit caps the number of events per group.
func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			s.writeError(w, r, &ErrValidation{Field: "limit", Message: "limit は0以上の整数で指定してください"})
			return
		}
		limit = n
	}

	companies, err := s.store.ListCompanies(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	now := s.now()
	groups := schedule.GroupUpcoming(schedule.DeriveEvents(companies), now)
	s.jsonResponse(w, http.StatusOK, scheduleView(groups, now, limit))
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	companies, err := s.store.ListCompanies(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	now := s.now()
	var buf bytes.Buffer
	if err := export.Write(&buf, companies, now); err != nil {
		s.writeError(w, r, fmt.Errorf("export workbook: %w", err))
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="jobhunt-%s.xlsx"`, now.Format("20060102")))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleGetSelfAnalysis(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	data, err := s.store.GetSelfAnalysis(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, data)
}

// handlePutSelfAnalysis overwrites the whole self-analysis document.
func (s *Server) handlePutSelfAnalysis(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	var data types.SelfAnalysisData
	if err := decodeBody(w, r, &data); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.SaveSelfAnalysis(r.Context(), userID, &data); err != nil {
		s.writeError(w, r, err)
		return
	}

	saved, err := s.store.GetSelfAnalysis(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, saved)
}

// scheduleView annotates grouped events with the urgent flag and a relative label.
func scheduleView(groups []schedule.Group, now time.Time, limit int) []types.ScheduleGroup {
	out := make([]types.ScheduleGroup, 0, len(groups))
	for _, g := range groups {
		events := g.Events
		if limit > 0 && len(events) > limit {
			events = events[:limit]
		}
		entries := make([]types.ScheduleEntry, 0, len(events))
		for _, e := range events {
			entries = append(entries, types.ScheduleEntry{
				CalendarEvent: e,
				Urgent:        schedule.IsUrgent(e, now),
				RelativeDate:  schedule.RelativeDateLabel(e.Date, now),
			})
		}
		out = append(out, types.ScheduleGroup{Key: string(g.Key), Label: g.Label, Events: entries})
	}
	return out
}

// parseBound parses an events query bound. Empty is open.
func parseBound(raw string, loc *time.Location, end bool) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	day, err := time.ParseInLocation("2006-01-02", raw, loc)
	if err != nil {
		return time.Time{}, err
	}
	if end {
		return day.AddDate(0, 0, 1), nil
	}
	return day, nil
}
