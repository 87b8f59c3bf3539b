package models

// ReplyStyle tags one of the three required reply registers.
type ReplyStyle string

const (
	StyleProfessional ReplyStyle = "professional"
	StyleFriendly     ReplyStyle = "friendly"
	StylePractical    ReplyStyle = "practical"
)

// ReplyStyles lists the required styles in output order.
var ReplyStyles = []ReplyStyle{StyleProfessional, StyleFriendly, StylePractical}

// Valid reports whether s is one of the three known styles.
func (s ReplyStyle) Valid() bool {
	switch s {
	case StyleProfessional, StyleFriendly, StylePractical:
		return true
	}
	return false
}

// ReplyCandidate is one generated reply in a given style.
type ReplyCandidate struct {
	Style   ReplyStyle `json:"style"`
	Content string     `json:"content"`
}

// ScoredPost is a post that survived both filter stages, with its fetched
// comments and the three capped sub-scores. Created once, never mutated.
type ScoredPost struct {
	Post       Post          `json:"post"`
	Comments   []Comment     `json:"comments"`
	Total      float64       `json:"score"`
	Relevance  float64       `json:"relevanceScore"`
	Engagement float64       `json:"engagementScore"`
	ReplyValue float64       `json:"replyValueScore"`
	Verdict    FilterVerdict `json:"aiAnalysis"`
}

// AnalysisResult is the unit rendered downstream: one finalist post with
// its reply candidates and a human-readable sub-score summary.
type AnalysisResult struct {
	Post           Post             `json:"post"`
	TopComments    []Comment        `json:"topComments"`
	Score          float64          `json:"score"`
	Summary        string           `json:"summary"`
	Tone           string           `json:"tone"`
	SuggestedStyle ReplyStyle       `json:"suggestedStyle"`
	Replies        []ReplyCandidate `json:"replies"`
}
