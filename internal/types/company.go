// Package types defines the records shared by the store, the schedule views and the HTTP API.
package types

import (
	"fmt"
	"time"
)

// SelectionStatus is the company-level position in the hiring pipeline.
type SelectionStatus string

const (
	StatusInterested        SelectionStatus = "interested"
	StatusESWriting         SelectionStatus = "es_writing"
	StatusESSubmitted       SelectionStatus = "es_submitted"
	StatusDocumentScreening SelectionStatus = "document_screening"
	StatusInterview1        SelectionStatus = "interview_1"
	StatusInterview2        SelectionStatus = "interview_2"
	StatusInterview3        SelectionStatus = "interview_3"
	StatusInterviewFinal    SelectionStatus = "interview_final"
	StatusOffer             SelectionStatus = "offer"
	StatusRejected          SelectionStatus = "rejected"
	StatusDeclined          SelectionStatus = "declined"
)

// SelectionStatuses lists every pipeline status in display order.
var SelectionStatuses = []SelectionStatus{
	StatusInterested,
	StatusESWriting,
	StatusESSubmitted,
	StatusDocumentScreening,
	StatusInterview1,
	StatusInterview2,
	StatusInterview3,
	StatusInterviewFinal,
	StatusOffer,
	StatusRejected,
	StatusDeclined,
}

// StatusLabels holds the Japanese display label for each pipeline status.
var StatusLabels = map[SelectionStatus]string{
	StatusInterested:        "興味あり",
	StatusESWriting:         "ES作成中",
	StatusESSubmitted:       "ES提出済み",
	StatusDocumentScreening: "書類選考中",
	StatusInterview1:        "一次面接",
	StatusInterview2:        "二次面接",
	StatusInterview3:        "三次面接",
	StatusInterviewFinal:    "最終面接",
	StatusOffer:             "内定",
	StatusRejected:          "不合格",
	StatusDeclined:          "辞退",
}

// Valid reports whether s is one of the known pipeline statuses.
func (s SelectionStatus) Valid() bool {
	_, ok := StatusLabels[s]
	return ok
}

// Label returns the display label, or the raw value when unknown.
func (s SelectionStatus) Label() string {
	if label, ok := StatusLabels[s]; ok {
		return label
	}
	return string(s)
}

// IsClosed reports whether the pipeline has ended for the company.
func (s SelectionStatus) IsClosed() bool {
	return s == StatusOffer || s == StatusRejected || s == StatusDeclined
}

// ParseSelectionStatus validates a raw status string.
func ParseSelectionStatus(raw string) (SelectionStatus, error) {
	s := SelectionStatus(raw)
	if !s.Valid() {
		return "", fmt.Errorf("unknown selection status: %q", raw)
	}
	return s, nil
}

// Priority ranks how much the user cares about a company.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// PriorityLabels holds the display label for each priority.
var PriorityLabels = map[Priority]string{
	PriorityHigh:   "高",
	PriorityMedium: "中",
	PriorityLow:    "低",
}

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	_, ok := PriorityLabels[p]
	return ok
}

// Company is one employer the user is applying to. It is stored as a single document.
type Company struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Industry      string `json:"industry,omitempty"`
	EmployeeCount string `json:"employeeCount,omitempty"`
	Location      string `json:"location,omitempty"`
	Website       string `json:"website,omitempty"`
	Description   string `json:"description,omitempty"`

	JobType      string `json:"jobType,omitempty"`
	Salary       string `json:"salary,omitempty"`
	WorkLocation string `json:"workLocation,omitempty"`
	Benefits     string `json:"benefits,omitempty"`

	CurrentStatus  SelectionStatus `json:"currentStatus"`
	SelectionSteps []SelectionStep `json:"selectionSteps"`

	ESQuestions        []ESQuestion        `json:"esQuestions"`
	SubmittedDocuments []SubmittedDocument `json:"submittedDocuments"`

	InterviewLogs []InterviewLog `json:"interviewLogs"`
	WebTestType   string         `json:"webTestType,omitempty"`

	CompanyAnalysis    CompanyAnalysis    `json:"companyAnalysis"`
	AdministrativeInfo AdministrativeInfo `json:"administrativeInfo"`

	Priority Priority `json:"priority"`
	Favorite bool     `json:"favorite"`
	Notes    string   `json:"notes,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ESQuestion is an entry-sheet question and the user's answer.
type ESQuestion struct {
	ID             string `json:"id"`
	Question       string `json:"question"`
	Answer         string `json:"answer"`
	CharacterLimit *int   `json:"characterLimit,omitempty"`
	Order          int    `json:"order"`
}

// SubmittedDocument records a document handed to the company.
type SubmittedDocument struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Type          string     `json:"type"`
	SubmittedDate *time.Time `json:"submittedDate,omitempty"`
	Notes         string     `json:"notes,omitempty"`
}

// InterviewLog is the user's record of one interview round.
type InterviewLog struct {
	ID               string              `json:"id"`
	Round            string              `json:"round"`
	Date             *time.Time          `json:"date,omitempty"`
	Interviewers     []InterviewerInfo   `json:"interviewers"`
	Questions        []InterviewQuestion `json:"questions"`
	ReverseQuestions string              `json:"reverseQuestions,omitempty"`
	Impression       string              `json:"impression,omitempty"`
	Result           string              `json:"result,omitempty"`
}

// InterviewerInfo describes one interviewer.
type InterviewerInfo struct {
	ID         string `json:"id"`
	Name       string `json:"name,omitempty"`
	Position   string `json:"position,omitempty"`
	Department string `json:"department,omitempty"`
	Impression string `json:"impression,omitempty"`
}

// InterviewQuestion is a question asked during an interview.
type InterviewQuestion struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Reaction string `json:"reaction,omitempty"`
	Order    int    `json:"order"`
}

// CompanyAnalysis holds the user's own notes plus the last saved research run.
type CompanyAnalysis struct {
	WhyThisCompany     string            `json:"whyThisCompany,omitempty"`
	EmployeeImpression string            `json:"employeeImpression,omitempty"`
	MatchingPoints     string            `json:"matchingPoints,omitempty"`
	Concerns           string            `json:"concerns,omitempty"`
	AIResearch         *AIResearchResult `json:"aiResearch,omitempty"`
}

// IsEmpty reports whether the user has written nothing in the analysis notes.
func (a CompanyAnalysis) IsEmpty() bool {
	return a.WhyThisCompany == "" && a.EmployeeImpression == "" && a.MatchingPoints == "" && a.Concerns == ""
}

// AdministrativeInfo keeps the portal login and recruiter contact details.
type AdministrativeInfo struct {
	MyPageURL      string `json:"myPageUrl,omitempty"`
	MyPageID       string `json:"myPageId,omitempty"`
	MyPagePassword string `json:"myPagePassword,omitempty"`
	ContactEmail   string `json:"contactEmail,omitempty"`
	ContactPhone   string `json:"contactPhone,omitempty"`
	ContactName    string `json:"contactName,omitempty"`
}

// CompanyStats summarizes a user's company list.
type CompanyStats struct {
	Total      int                     `json:"total"`
	InProgress int                     `json:"inProgress"`
	Offers     int                     `json:"offers"`
	Rejected   int                     `json:"rejected"`
	Favorites  int                     `json:"favorites"`
	ByStatus   map[SelectionStatus]int `json:"byStatus"`
}
