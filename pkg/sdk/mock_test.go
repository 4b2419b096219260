package fukui

import (
	"context"

	"github.com/yuan1108code/Fukui-LLM-Tourism/internal/domain"
	healthuc "github.com/yuan1108code/Fukui-LLM-Tourism/internal/usecase/health"
	usageuc "github.com/yuan1108code/Fukui-LLM-Tourism/internal/usecase/usage"
)

// --- answerUseCase mock ---

type mockAnswerUC struct {
	answerFn func(ctx context.Context, query domain.Query) (domain.Answer, error)
	searchFn func(ctx context.Context, query domain.Query, limit int) ([]domain.SourceInfo, error)
}

func (m *mockAnswerUC) Answer(ctx context.Context, query domain.Query) (domain.Answer, error) {
	return m.answerFn(ctx, query)
}

func (m *mockAnswerUC) Search(
	ctx context.Context, query domain.Query, limit int,
) ([]domain.SourceInfo, error) {
	return m.searchFn(ctx, query, limit)
}

// --- corpusUseCase mock ---

type mockCorpusUC struct {
	listFn func(ctx context.Context, offset, limit int) ([]domain.Document, int, error)
}

func (m *mockCorpusUC) List(ctx context.Context, offset, limit int) ([]domain.Document, int, error) {
	return m.listFn(ctx, offset, limit)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(_ context.Context) healthuc.Report {
	return m.report
}

// --- usageUseCase mock ---

type mockUsageUC struct {
	report usageuc.Report
}

func (m *mockUsageUC) GetReport(_ context.Context, _ usageuc.Period) usageuc.Report {
	return m.report
}

// --- helpers ---

func testClient(
	answerSvc answerUseCase,
	corpusSvc corpusUseCase,
	healthSvc healthUseCase,
	usageSvc usageUseCase,
) *Client {
	return &Client{
		answerSvc: answerSvc,
		corpusSvc: corpusSvc,
		healthSvc: healthSvc,
		usageSvc:  usageSvc,
	}
}
