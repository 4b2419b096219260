package domain

// UserLocation is the caller-reported position with reported accuracy.
type UserLocation struct {
	Lat       float64
	Lng       float64
	AccuracyM float64
}

// Query is one retrieval request.
type Query struct {
	Text         string
	UserLocation *UserLocation // nil when the caller shared no position
	Timestamp    string        // display string, passed through untouched
}

// Point returns the user position as plain coordinates.
func (u *UserLocation) Point() Coordinates {
	return Coordinates{Lat: u.Lat, Lng: u.Lng}
}

// Candidate is a document returned by the retriever before ranking.
type Candidate struct {
	Document      Document
	SemanticScore float64 // normalized similarity in [0,1], higher = more similar
}

// RankedCandidate is a candidate with geographic signals folded in.
// Created fresh per request and discarded after the response is built.
type RankedCandidate struct {
	Document      Document
	SemanticScore float64
	DistanceKm    *float64 // nil when no reference point or document coordinates
	LocaleMatch   bool
	CombinedScore float64 // in [0,1]
}

// SourceInfo is the externally visible citation backing an answer.
type SourceInfo struct {
	Title         string  `json:"title"`
	Type          string  `json:"type"`
	Content       string  `json:"content"`
	LocationScore float64 `json:"location_score"`
}

// Answer is the packaged response for one user turn.
type Answer struct {
	Text    string       `json:"answer"`
	Sources []SourceInfo `json:"sources"`
	Success bool         `json:"success"`
	ErrCode string       `json:"error,omitempty"`
}
