package chi

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/yuan1108code/Fukui-LLM-Tourism/internal/domain"
	healthuc "github.com/yuan1108code/Fukui-LLM-Tourism/internal/usecase/health"
	usageuc "github.com/yuan1108code/Fukui-LLM-Tourism/internal/usecase/usage"
)

type mockAnswerer struct {
	answer    domain.Answer
	err       error
	sources   []domain.SourceInfo
	searchErr error

	gotQuery domain.Query
	gotLimit int
}

func (m *mockAnswerer) Answer(_ context.Context, query domain.Query) (domain.Answer, error) {
	m.gotQuery = query
	return m.answer, m.err
}

func (m *mockAnswerer) Search(_ context.Context, query domain.Query, limit int) ([]domain.SourceInfo, error) {
	m.gotQuery = query
	m.gotLimit = limit
	return m.sources, m.searchErr
}

type mockLister struct {
	docs []domain.Document
	err  error
}

func (m *mockLister) List(_ context.Context, _, _ int) ([]domain.Document, int, error) {
	return m.docs, len(m.docs), m.err
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

type stubCounter struct {
	n   int
	err error
}

func (c stubCounter) Count(context.Context) (int, error) { return c.n, c.err }

func newTestServer(answers *mockAnswerer, locations *mockLister, health *healthuc.Service) (*Server, http.Handler) {
	if health == nil {
		health = healthuc.New(stubPinger{}, nil, nil)
	}
	srv := NewServer(answers, locations, health, usageuc.New(nil), zap.NewNop())
	return srv, srv.Router(Options{})
}

func coordsOf(lat, lng float64) *domain.Coordinates {
	return &domain.Coordinates{Lat: lat, Lng: lng}
}
