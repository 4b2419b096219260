// Package locale resolves which Fukui municipality a query is about.
// The registry is built once at startup and never mutated afterwards, so
// request handlers can share it without synchronization.
package locale

import (
	"strings"

	"github.com/yuan1108code/Fukui-LLM-Tourism/internal/domain"
)

// entry is one registry row plus its precomputed match aliases.
type entry struct {
	locale  domain.Locale
	aliases []string // lowercased names matched against query text
}

// Registry is the immutable table of known municipalities.
type Registry struct {
	entries []entry
	byName  map[string]int
}

// fukuiMunicipalities lists the 17 municipalities of Fukui Prefecture.
// Centroids for the five cities the corpus concentrates on come from the
// ingestion pipeline's reference table; the rest are town-hall coordinates.
var fukuiMunicipalities = []domain.Locale{
	{LocalName: "福井市", DisplayName: "Fukui", Centroid: &domain.Coordinates{Lat: 36.0642, Lng: 136.2206}},
	{LocalName: "敦賀市", DisplayName: "Tsuruga", Centroid: &domain.Coordinates{Lat: 35.6444, Lng: 136.0531}},
	{LocalName: "小浜市", DisplayName: "Obama", Centroid: &domain.Coordinates{Lat: 35.4953, Lng: 135.7456}},
	{LocalName: "大野市", DisplayName: "Ono", Centroid: &domain.Coordinates{Lat: 35.9789, Lng: 136.4858}},
	{LocalName: "勝山市", DisplayName: "Katsuyama", Centroid: &domain.Coordinates{Lat: 36.0611, Lng: 136.5011}},
	{LocalName: "鯖江市", DisplayName: "Sabae", Centroid: &domain.Coordinates{Lat: 35.9565, Lng: 136.1843}},
	{LocalName: "あわら市", DisplayName: "Awara", Centroid: &domain.Coordinates{Lat: 36.2112, Lng: 136.2290}},
	{LocalName: "越前市", DisplayName: "Echizen", Centroid: &domain.Coordinates{Lat: 35.9034, Lng: 136.1690}},
	{LocalName: "坂井市", DisplayName: "Sakai", Centroid: &domain.Coordinates{Lat: 36.1831, Lng: 136.2242}},
	{LocalName: "永平寺町", DisplayName: "Eiheiji", Centroid: &domain.Coordinates{Lat: 36.0922, Lng: 136.2986}},
	{LocalName: "池田町", DisplayName: "Ikeda", Centroid: &domain.Coordinates{Lat: 35.8901, Lng: 136.3435}},
	{LocalName: "南越前町", DisplayName: "Minamiechizen", Centroid: &domain.Coordinates{Lat: 35.8036, Lng: 136.1860}},
	{LocalName: "越前町", DisplayName: "Echizen Town", Centroid: &domain.Coordinates{Lat: 35.9757, Lng: 136.1294}},
	{LocalName: "美浜町", DisplayName: "Mihama", Centroid: &domain.Coordinates{Lat: 35.6007, Lng: 135.9407}},
	{LocalName: "高浜町", DisplayName: "Takahama", Centroid: &domain.Coordinates{Lat: 35.4917, Lng: 135.5510}},
	{LocalName: "おおい町", DisplayName: "Oi", Centroid: &domain.Coordinates{Lat: 35.4772, Lng: 135.6154}},
	{LocalName: "若狭町", DisplayName: "Wakasa", Centroid: &domain.Coordinates{Lat: 35.5481, Lng: 135.9075}},
}

// NewRegistry builds the default Fukui Prefecture registry.
func NewRegistry() *Registry {
	return NewRegistryFrom(fukuiMunicipalities)
}

// NewRegistryFrom builds a registry from an explicit locale table.
// Order is preserved and acts as the final tie-break during extraction.
func NewRegistryFrom(locales []domain.Locale) *Registry {
	r := &Registry{
		entries: make([]entry, 0, len(locales)),
		byName:  make(map[string]int, len(locales)*2),
	}
	for _, l := range locales {
		e := entry{locale: l, aliases: buildAliases(l)}
		idx := len(r.entries)
		r.entries = append(r.entries, e)
		r.byName[l.LocalName] = idx
		r.byName[strings.ToLower(l.DisplayName)] = idx
	}
	return r
}

// buildAliases returns the lowercased names an entry is matched by: the local
// name, the local name without its 市/町/村 suffix (queries say 永平寺, not
// 永平寺町), and the display name.
func buildAliases(l domain.Locale) []string {
	aliases := []string{strings.ToLower(l.LocalName)}
	for _, suffix := range []string{"市", "町", "村"} {
		if trimmed, ok := strings.CutSuffix(l.LocalName, suffix); ok && trimmed != "" {
			aliases = append(aliases, strings.ToLower(trimmed))
			break
		}
	}
	if l.DisplayName != "" {
		aliases = append(aliases, strings.ToLower(l.DisplayName))
	}
	return aliases
}

// Lookup returns the locale registered under name (local or display).
// A miss is not an error; callers treat it as "no locale constraint".
func (r *Registry) Lookup(name string) (domain.Locale, bool) {
	if idx, ok := r.byName[name]; ok {
		return r.entries[idx].locale, true
	}
	if idx, ok := r.byName[strings.ToLower(name)]; ok {
		return r.entries[idx].locale, true
	}
	return domain.Locale{}, false
}

// All returns every locale in registration order.
func (r *Registry) All() []domain.Locale {
	out := make([]domain.Locale, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.locale
	}
	return out
}

// Len returns the number of registered locales.
func (r *Registry) Len() int { return len(r.entries) }
