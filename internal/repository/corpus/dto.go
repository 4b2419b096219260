package corpus

import (
	"encoding/binary"
	"encoding/json"
	"math"
	"strconv"

	"github.com/yuan1108code/Fukui-LLM-Tourism/internal/domain"
)

// Hash field names. __vector is aliased to "vector" in the FT index schema.
const (
	fieldTitle        = "title"
	fieldContent      = "content"
	fieldCategory     = "category"
	fieldMunicipality = "municipality"
	fieldRating       = "rating"
	fieldLat          = "lat"
	fieldLng          = "lng"
	fieldAddress      = "address"
	fieldOpeningHours = "opening_hours"
	fieldTags         = "tags"
	fieldDeities      = "deities"
	fieldFestivals    = "festivals"
	fieldVector       = "__vector"
)

// buildHashFields converts a domain Document plus its embedding into a flat
// map[string]string for HSET. String slices are stored as JSON arrays.
func buildHashFields(doc *domain.Document, vector []float32) map[string]string {
	m := map[string]string{
		fieldTitle:    doc.Title,
		fieldContent:  doc.Content,
		fieldCategory: string(doc.Category),
	}
	if doc.Municipality != "" {
		m[fieldMunicipality] = doc.Municipality
	}
	if doc.Rating != 0 {
		m[fieldRating] = strconv.FormatFloat(doc.Rating, 'f', -1, 64)
	}
	if doc.Coordinates != nil {
		m[fieldLat] = strconv.FormatFloat(doc.Coordinates.Lat, 'f', -1, 64)
		m[fieldLng] = strconv.FormatFloat(doc.Coordinates.Lng, 'f', -1, 64)
	}
	if doc.Attraction != nil {
		if doc.Attraction.Address != "" {
			m[fieldAddress] = doc.Attraction.Address
		}
		if doc.Attraction.OpeningHours != "" {
			m[fieldOpeningHours] = doc.Attraction.OpeningHours
		}
		if len(doc.Attraction.Tags) > 0 {
			m[fieldTags] = marshalStrings(doc.Attraction.Tags)
		}
	}
	if doc.Shrine != nil {
		if len(doc.Shrine.EnshrinedDeities) > 0 {
			m[fieldDeities] = marshalStrings(doc.Shrine.EnshrinedDeities)
		}
		if doc.Shrine.Festivals != "" {
			m[fieldFestivals] = doc.Shrine.Festivals
		}
	}
	if len(vector) > 0 {
		m[fieldVector] = vectorToBytes(vector)
	}
	return m
}

// parseHashFields converts a flat hash map back into a domain Document.
// Unknown fields are ignored; the embedding is not materialized.
func parseHashFields(id string, m map[string]string) domain.Document {
	doc := domain.Document{
		ID:           id,
		Title:        m[fieldTitle],
		Content:      m[fieldContent],
		Category:     domain.Category(m[fieldCategory]),
		Municipality: m[fieldMunicipality],
	}

	if v, ok := m[fieldRating]; ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			doc.Rating = f
		}
	}

	latStr, okLat := m[fieldLat]
	lngStr, okLng := m[fieldLng]
	if okLat && okLng {
		lat, errLat := strconv.ParseFloat(latStr, 64)
		lng, errLng := strconv.ParseFloat(lngStr, 64)
		if errLat == nil && errLng == nil {
			doc.Coordinates = &domain.Coordinates{Lat: lat, Lng: lng}
		}
	}

	if doc.Category == domain.CategoryAttraction {
		doc.Attraction = &domain.AttractionInfo{
			Address:      m[fieldAddress],
			OpeningHours: m[fieldOpeningHours],
			Tags:         unmarshalStrings(m[fieldTags]),
		}
	}
	if doc.Category == domain.CategoryShrine {
		doc.Shrine = &domain.ShrineInfo{
			EnshrinedDeities: unmarshalStrings(m[fieldDeities]),
			Festivals:        m[fieldFestivals],
		}
	}

	return doc
}

func marshalStrings(ss []string) string {
	data, err := json.Marshal(ss)
	if err != nil {
		return ""
	}
	return string(data)
}

func unmarshalStrings(s string) []string {
	if s == "" {
		return nil
	}
	var ss []string
	if err := json.Unmarshal([]byte(s), &ss); err != nil {
		return nil
	}
	return ss
}

// vectorToBytes serializes []float32 to a binary string (4 bytes per float, little-endian).
func vectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}
