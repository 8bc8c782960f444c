// Package interview holds the domain model for one interview attempt and the
// state machine that governs its lifecycle.
package interview

// Question is one generated interview question. The ID is assigned locally
// when the question list is parsed and never changes afterwards; it is used
// only as a mapping key for answers.
type Question struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Answer is the candidate's response to one question. Text accumulates from
// transcription fragments during capture and is frozen on submission. Clip
// optionally carries the recorded media, Metrics whatever client-side
// analysis produced.
type Answer struct {
	QuestionID string             `json:"questionId"`
	Text       string             `json:"text"`
	Clip       []byte             `json:"-"`
	Metrics    map[string]float64 `json:"metrics,omitempty"`
}

// VideoMetrics is the speculative server-side video analysis contract. No
// analyzer backend exists yet; see MetricsAnalyzer.
type VideoMetrics struct {
	ConfidenceScore float64  `json:"confidenceScore"`
	EyeContactScore float64  `json:"eyeContactScore"`
	ClarityScore    float64  `json:"clarityScore"`
	PaceScore       float64  `json:"paceScore"`
	Tips            []string `json:"tips"`
}

// Feedback is the structured evaluation of a full answer set. Produced once
// per session and immutable after creation.
type Feedback struct {
	Score           float64       `json:"score"`
	Strengths       []string      `json:"strengths"`
	Improvements    []string      `json:"improvements"`
	Recommendations string        `json:"recommendations"`
	VideoMetrics    *VideoMetrics `json:"videoMetrics,omitempty"`
}
