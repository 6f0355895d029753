package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"suratapi/internal/model"
)

type MockExtractor struct {
	mock.Mock
}

func (m *MockExtractor) FromMedia(ctx context.Context, data []byte, mimeType string) (*model.AnalysisResult, error) {
	args := m.Called(ctx, data, mimeType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AnalysisResult), args.Error(1)
}

func (m *MockExtractor) FromText(ctx context.Context, text string) (*model.AnalysisResult, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AnalysisResult), args.Error(1)
}
