package types

import "time"

// EpisodeCategory groups self-analysis episodes.
type EpisodeCategory string

const (
	CategoryGakunika  EpisodeCategory = "gakunika"
	CategorySuccess   EpisodeCategory = "success"
	CategoryFailure   EpisodeCategory = "failure"
	CategoryChallenge EpisodeCategory = "challenge"
	CategoryOther     EpisodeCategory = "other"
)

// EpisodeCategoryLabels holds the display label for each category.
var EpisodeCategoryLabels = map[EpisodeCategory]string{
	CategoryGakunika:  "ガクチカ",
	CategorySuccess:   "成功体験",
	CategoryFailure:   "挫折経験",
	CategoryChallenge: "困難克服",
	CategoryOther:     "その他",
}

// Episode is a concrete experience the user can cite in applications.
type Episode struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Category  EpisodeCategory `json:"category"`
	What      string          `json:"what"`
	Why       string          `json:"why"`
	How       string          `json:"how"`
	Result    string          `json:"result"`
	Learning  string          `json:"learning"`
	Tags      []string        `json:"tags"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// ValueAndMotivation records what drives the user.
type ValueAndMotivation struct {
	ID               string    `json:"id"`
	ImportantValues  string    `json:"importantValues"`
	MotivationSource string    `json:"motivationSource"`
	ExcitingMoments  string    `json:"excitingMoments"`
	LifeAxis         string    `json:"lifeAxis"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// StrengthAndWeakness is one strength or weakness with supporting evidence.
type StrengthAndWeakness struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Evidence    string    `json:"evidence"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// FutureVision is the user's career outlook.
type FutureVision struct {
	ID                 string    `json:"id"`
	ShortTerm          string    `json:"shortTerm"`
	MidTerm            string    `json:"midTerm"`
	LongTerm           string    `json:"longTerm"`
	SocialContribution string    `json:"socialContribution"`
	IdealCareer        string    `json:"idealCareer"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// FreeNote is an unstructured memo card.
type FreeNote struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SelfAnalysisData is the single self-analysis document kept per user.
type SelfAnalysisData struct {
	Episodes   []Episode             `json:"episodes"`
	Values     *ValueAndMotivation   `json:"values"`
	Strengths  []StrengthAndWeakness `json:"strengths"`
	Weaknesses []StrengthAndWeakness `json:"weaknesses"`
	Vision     *FutureVision         `json:"vision"`
	FreeNotes  []FreeNote            `json:"freeNotes"`
}

// EmptySelfAnalysis returns a document with non-nil collections.
func EmptySelfAnalysis() *SelfAnalysisData {
	return &SelfAnalysisData{
		Episodes:   []Episode{},
		Strengths:  []StrengthAndWeakness{},
		Weaknesses: []StrengthAndWeakness{},
		FreeNotes:  []FreeNote{},
	}
}

// EpisodesByID returns the episodes with the given ids, in the order requested.
// Unknown ids are skipped.
func (d *SelfAnalysisData) EpisodesByID(ids []string) []Episode {
	if d == nil {
		return nil
	}
	index := make(map[string]Episode, len(d.Episodes))
	for _, ep := range d.Episodes {
		index[ep.ID] = ep
	}
	out := make([]Episode, 0, len(ids))
	for _, id := range ids {
		if ep, ok := index[id]; ok {
			out = append(out, ep)
		}
	}
	return out
}

// StrengthsByID returns the strengths with the given ids, in the order requested.
func (d *SelfAnalysisData) StrengthsByID(ids []string) []StrengthAndWeakness {
	if d == nil {
		return nil
	}
	index := make(map[string]StrengthAndWeakness, len(d.Strengths))
	for _, s := range d.Strengths {
		index[s.ID] = s
	}
	out := make([]StrengthAndWeakness, 0, len(ids))
	for _, id := range ids {
		if s, ok := index[id]; ok {
			out = append(out, s)
		}
	}
	return out
}
