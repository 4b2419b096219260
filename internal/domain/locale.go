package domain

// Locale is a named municipality used to constrain or bias retrieval.
// The registry of locales is immutable after process start; lookups never
// need synchronization.
type Locale struct {
	LocalName   string       // Japanese name as it appears in queries and metadata
	DisplayName string       // romanized display name
	Centroid    *Coordinates // nil when no centroid is known
}
