package types

import "time"

// ResearchSource is a page the research summary drew from.
type ResearchSource struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	UsedFor string `json:"usedFor"`
}

// CompanyOverview summarizes the business.
type CompanyOverview struct {
	Summary       string   `json:"summary"`
	Strengths     []string `json:"strengths"`
	Challenges    []string `json:"challenges"`
	BusinessAreas []string `json:"businessAreas"`
}

// CultureSummary describes philosophy and ways of working.
type CultureSummary struct {
	Philosophy string   `json:"philosophy"`
	Values     []string `json:"values"`
	WorkStyle  string   `json:"workStyle"`
}

// RecruitmentSummary describes who the company is hiring.
type RecruitmentSummary struct {
	TargetPersonality string   `json:"targetPersonality"`
	RequiredSkills    []string `json:"requiredSkills"`
	CareerPath        string   `json:"careerPath"`
	AppealPoints      string   `json:"appealPoints"`
}

// StrategySummary describes where the company is heading.
type StrategySummary struct {
	FutureDirection string   `json:"futureDirection"`
	GrowthAreas     []string `json:"growthAreas"`
}

// InterviewPrep lists likely questions and keywords.
type InterviewPrep struct {
	LikelyQuestions []string `json:"likelyQuestions"`
	KeywordsToUse   []string `json:"keywordsToUse"`
}

// ResearchAnalysis is the structured research summary produced from fetched pages.
type ResearchAnalysis struct {
	CompanyOverview       CompanyOverview    `json:"companyOverview"`
	Culture               CultureSummary     `json:"culture"`
	Recruitment           RecruitmentSummary `json:"recruitment"`
	Strategy              StrategySummary    `json:"strategy"`
	InterviewPrep         InterviewPrep      `json:"interviewPrep"`
	Sources               []ResearchSource   `json:"sources"`
	RawSummaryForAnalysis string             `json:"rawSummaryForAnalysis,omitempty"`
}

// AIResearchResult is a research analysis saved onto a company.
type AIResearchResult struct {
	ResearchedAt time.Time `json:"researchedAt"`
	ResearchAnalysis
}
