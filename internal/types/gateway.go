package types

// Tone is the writing register requested for an ES draft.
type Tone string

const (
	TonePassionate Tone = "passionate"
	ToneCalm       Tone = "calm"
	ToneHumble     Tone = "humble"
	ToneLogical    Tone = "logical"
)

// ToneLabels holds the display label for each tone.
var ToneLabels = map[Tone]string{
	TonePassionate: "情熱的に",
	ToneCalm:       "冷静に",
	ToneHumble:     "謙虚に",
	ToneLogical:    "論理的に",
}

// ESDraftRequest asks for an entry-sheet answer draft.
type ESDraftRequest struct {
	CompanyID          string   `json:"companyId,omitempty"`
	Question           string   `json:"question" validate:"required"`
	CharacterLimit     int      `json:"characterLimit,omitempty" validate:"gte=0,lte=10000"`
	SelectedEpisodes   []string `json:"selectedEpisodes,omitempty"`
	SelectedStrengths  []string `json:"selectedStrengths,omitempty"`
	Tone               Tone     `json:"tone,omitempty" validate:"omitempty,oneof=passionate calm humble logical"`
	UseCompanyAnalysis bool     `json:"useCompanyAnalysis,omitempty"`
}

// ESDraftResponse carries the generated text and its length in characters.
type ESDraftResponse struct {
	GeneratedText  string `json:"generatedText"`
	CharacterCount int    `json:"characterCount"`
}

// CompanyInfoRequest asks for a company's public profile.
type CompanyInfoRequest struct {
	CompanyName string `json:"companyName" validate:"required"`
}

// CompanyInfo is the flat public profile returned by the lookup.
type CompanyInfo struct {
	Name          string `json:"name"`
	Industry      string `json:"industry"`
	EmployeeCount string `json:"employeeCount"`
	Location      string `json:"location"`
	Website       string `json:"website"`
	Description   string `json:"description"`
	JobType       string `json:"jobType"`
	Salary        string `json:"salary"`
	WorkLocation  string `json:"workLocation"`
	Benefits      string `json:"benefits"`
}

// ResearchRequest asks for a structured summary of up to five pages.
// When CompanyID is set a successful result is saved onto that company.
type ResearchRequest struct {
	URLs        []string `json:"urls" validate:"required,min=1,max=5,dive,required,url"`
	CompanyName string   `json:"companyName,omitempty"`
	CompanyID   string   `json:"companyId,omitempty"`
}

// PageRef identifies a fetched page.
type PageRef struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// FailedPage identifies a page that could not be fetched.
type FailedPage struct {
	URL   string `json:"url"`
	Error string `json:"error"`
}

// ResearchResponse is the research result plus per-page fetch outcomes.
type ResearchResponse struct {
	Success      bool             `json:"success"`
	Analysis     ResearchAnalysis `json:"analysis"`
	FetchedPages []PageRef        `json:"fetchedPages"`
	FailedPages  []FailedPage     `json:"failedPages"`
}

// URLType classifies a suggested official page.
type URLType string

const (
	URLRecruit  URLType = "recruit"
	URLAbout    URLType = "about"
	URLIR       URLType = "ir"
	URLBusiness URLType = "business"
	URLNews     URLType = "news"
)

// URLSuggestionRequest asks for candidate official pages of a company.
type URLSuggestionRequest struct {
	CompanyName string `json:"companyName" validate:"required"`
}

// SuggestedURL is a candidate page annotated with a liveness result.
type SuggestedURL struct {
	URL         string  `json:"url"`
	Type        URLType `json:"type"`
	Label       string  `json:"label"`
	Description string  `json:"description"`
	Alive       bool    `json:"alive"`
}

// URLSuggestions is the set of candidate pages for a company.
type URLSuggestions struct {
	OfficialDomain string         `json:"officialDomain"`
	URLs           []SuggestedURL `json:"urls"`
}

// ChatMessage is one turn of a coaching conversation.
// Role is "user" for the user; any other value is treated as the model.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CoachRequest is a coaching turn. When SelfAnalysisData is nil the stored document is used.
type CoachRequest struct {
	Message             string            `json:"message" validate:"required"`
	ConversationHistory []ChatMessage     `json:"conversationHistory"`
	SelfAnalysisData    *SelfAnalysisData `json:"selfAnalysisData,omitempty"`
}

// CoachResponse is the coach's reply.
type CoachResponse struct {
	Message string `json:"message"`
}
