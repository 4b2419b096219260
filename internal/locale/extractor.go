package locale

import (
	"strings"

	"github.com/yuan1108code/Fukui-LLM-Tourism/internal/domain"
	"github.com/yuan1108code/Fukui-LLM-Tourism/internal/domain/geo"
)

// DefaultNearbyRadiusKm bounds how far a user can be from a centroid and
// still have coordinate proximity pin the locale.
const DefaultNearbyRadiusKm = 50.0

// Extractor resolves the most relevant municipality for a query.
// Pure and side-effect free; safe for concurrent use.
type Extractor struct {
	registry *Registry
	radiusKm float64
}

// NewExtractor creates an extractor over the given registry.
func NewExtractor(registry *Registry) *Extractor {
	return &Extractor{registry: registry, radiusKm: DefaultNearbyRadiusKm}
}

// WithNearbyRadius overrides the proximity threshold in kilometers.
func (e *Extractor) WithNearbyRadius(km float64) *Extractor {
	if km > 0 {
		e.radiusKm = km
	}
	return e
}

// Resolve determines the locale for a query, or nil when unconstrained.
// Priority order: explicit mention in the text, then coordinate proximity.
// When the text mentions several locales, the one appearing earliest wins;
// at the same offset a longer alias wins (南越前町 over the embedded 越前町),
// then registration order. Deterministic for any input.
func (e *Extractor) Resolve(queryText string, userLocation *domain.UserLocation) *domain.Locale {
	if l := e.matchText(queryText); l != nil {
		return l
	}
	if userLocation != nil {
		return e.matchNearby(userLocation.Point())
	}
	return nil
}

func (e *Extractor) matchText(queryText string) *domain.Locale {
	if queryText == "" {
		return nil
	}
	text := strings.ToLower(queryText)

	bestIdx := -1
	bestOffset := len(text) + 1
	bestAliasLen := 0

	for i := range e.registry.entries {
		for _, alias := range e.registry.entries[i].aliases {
			off := indexAlias(text, alias)
			if off < 0 {
				continue
			}
			if off < bestOffset || (off == bestOffset && len(alias) > bestAliasLen) {
				bestIdx = i
				bestOffset = off
				bestAliasLen = len(alias)
			}
		}
	}

	if bestIdx < 0 {
		return nil
	}
	l := e.registry.entries[bestIdx].locale
	return &l
}

// indexAlias returns the byte offset of the first occurrence of alias in
// text, or -1. Romanized aliases ("ono", "oi") only count at word boundaries
// so they cannot fire inside unrelated English words; Japanese aliases match
// as plain substrings.
func indexAlias(text, alias string) int {
	if !isASCIILetters(alias) {
		return strings.Index(text, alias)
	}
	for start := 0; start < len(text); {
		off := strings.Index(text[start:], alias)
		if off < 0 {
			return -1
		}
		abs := start + off
		before := abs == 0 || !isASCIILetter(text[abs-1])
		afterIdx := abs + len(alias)
		after := afterIdx >= len(text) || !isASCIILetter(text[afterIdx])
		if before && after {
			return abs
		}
		start = abs + 1
	}
	return -1
}

func isASCIILetters(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isASCIILetter(s[i]) && s[i] != ' ' {
			return false
		}
	}
	return true
}

func isASCIILetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func (e *Extractor) matchNearby(point domain.Coordinates) *domain.Locale {
	if !geo.ValidateCoordinates(point.Lat, point.Lng) {
		return nil
	}

	var nearest *domain.Locale
	nearestKm := e.radiusKm

	for i := range e.registry.entries {
		l := e.registry.entries[i].locale
		if l.Centroid == nil {
			continue
		}
		d := geo.HaversineKm(point.Lat, point.Lng, l.Centroid.Lat, l.Centroid.Lng)
		// <= admits the radius boundary; equal distances keep the earlier entry.
		if (nearest == nil && d <= nearestKm) || (nearest != nil && d < nearestKm) {
			nearest = &e.registry.entries[i].locale
			nearestKm = d
		}
	}

	if nearest == nil {
		return nil
	}
	l := *nearest
	return &l
}
