package fukui

// UserLocation is the caller-reported position with reported accuracy.
type UserLocation struct {
	Lat       float64
	Lng       float64
	AccuracyM float64
}

// Source is a citation backing an answer.
type Source struct {
	Title         string
	Type          string
	Content       string
	LocationScore float64
}

// Answer is the packaged response for one question.
type Answer struct {
	Text    string
	Sources []Source
	Success bool
	ErrCode string
}

// Coordinates is a WGS84 point.
type Coordinates struct {
	Lat float64
	Lng float64
}

// Place is one corpus record as exposed by Locations.
type Place struct {
	ID           string
	Title        string
	Category     string
	Municipality string
	Coordinates  *Coordinates // nil = unknown
	Rating       float64
}
