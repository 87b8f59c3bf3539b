package models

// FilterVerdict is the outcome of one filtering stage. The pre-filter
// only fills Passed/Reason/IsAd/IsScoreShowing; the classification gate
// also carries the 1-10 sub-scores. A zero sub-score means "absent".
type FilterVerdict struct {
	Passed                 bool   `json:"passed"`
	Reason                 string `json:"reason,omitempty"`
	IsAd                   bool   `json:"isAd,omitempty"`
	IsScoreShowing         bool   `json:"isScoreShowing,omitempty"`
	HasSubstantiveQuestion bool   `json:"hasSubstantiveQuestion,omitempty"`
	DiscussionValue        int    `json:"discussionValue,omitempty"`
	ReplyWorthiness        int    `json:"replyWorthiness,omitempty"`
}

// ClassificationResponse is the exact JSON schema the classification
// prompt asks the model for. Pointer fields let the parser tell a
// missing field from a legitimate false/zero.
type ClassificationResponse struct {
	IsAd                   *bool `json:"isAd"`
	IsScoreShowing         *bool `json:"isScoreShowing"`
	HasSubstantiveQuestion *bool `json:"hasSubstantiveQuestion"`
	DiscussionValue        *int  `json:"discussionValue"`
	ReplyWorthiness        *int  `json:"replyWorthiness"`
}
