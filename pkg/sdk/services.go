package fukui

import (
	"context"
	"fmt"
	"time"

	"github.com/yuan1108code/Fukui-LLM-Tourism/internal/domain"
)

// Ask runs one full question and answer turn: retrieval, ranking and
// answer generation. The returned Answer is renderable even when err is
// non-nil; check err with the package sentinels for the failure class.
func (c *Client) Ask(ctx context.Context, question string, loc *UserLocation) (Answer, error) {
	start := time.Now()
	var err error
	defer func() { c.obs.observe("ask", start, err) }()

	var ans domain.Answer
	ans, err = c.answerSvc.Answer(ctx, domain.Query{
		Text:         question,
		UserLocation: toDomainLocation(loc),
	})
	if err != nil {
		return toAnswer(ans), fmt.Errorf("ask: %w", err)
	}
	return toAnswer(ans), nil
}

// Search returns ranked sources for a query without generating an answer.
// No completer is required.
func (c *Client) Search(ctx context.Context, query string, limit int, loc *UserLocation) ([]Source, error) {
	start := time.Now()
	var err error
	defer func() { c.obs.observe("search", start, err) }()

	var infos []domain.SourceInfo
	infos, err = c.answerSvc.Search(ctx, domain.Query{
		Text:         query,
		UserLocation: toDomainLocation(loc),
	}, limit)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	sources := make([]Source, 0, len(infos))
	for _, s := range infos {
		sources = append(sources, Source{
			Title:         s.Title,
			Type:          s.Type,
			Content:       s.Content,
			LocationScore: s.LocationScore,
		})
	}
	return sources, nil
}

// Locations pages through the corpus. It returns the page of places and
// the total corpus size.
func (c *Client) Locations(ctx context.Context, offset, limit int) ([]Place, int, error) {
	start := time.Now()
	var err error
	defer func() { c.obs.observe("locations", start, err) }()

	var docs []domain.Document
	var total int
	docs, total, err = c.corpusSvc.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("locations: %w", err)
	}

	places := make([]Place, 0, len(docs))
	for _, d := range docs {
		places = append(places, toPlace(d))
	}
	return places, total, nil
}

func toDomainLocation(loc *UserLocation) *domain.UserLocation {
	if loc == nil {
		return nil
	}
	return &domain.UserLocation{
		Lat:       loc.Lat,
		Lng:       loc.Lng,
		AccuracyM: loc.AccuracyM,
	}
}

func toAnswer(ans domain.Answer) Answer {
	sources := make([]Source, 0, len(ans.Sources))
	for _, s := range ans.Sources {
		sources = append(sources, Source{
			Title:         s.Title,
			Type:          s.Type,
			Content:       s.Content,
			LocationScore: s.LocationScore,
		})
	}
	return Answer{
		Text:    ans.Text,
		Sources: sources,
		Success: ans.Success,
		ErrCode: ans.ErrCode,
	}
}

func toPlace(d domain.Document) Place {
	p := Place{
		ID:           d.ID,
		Title:        d.Title,
		Category:     string(d.Category),
		Municipality: d.Municipality,
		Rating:       d.Rating,
	}
	if d.Coordinates != nil {
		p.Coordinates = &Coordinates{Lat: d.Coordinates.Lat, Lng: d.Coordinates.Lng}
	}
	return p
}
