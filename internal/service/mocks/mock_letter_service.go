package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"suratapi/internal/letter"
	"suratapi/internal/model"
	"suratapi/internal/service"
	"suratapi/internal/storage"
)

type MockLetterService struct {
	mock.Mock
}

func (m *MockLetterService) AnalyzeMedia(ctx context.Context, data []byte, mimeType string) (*model.AnalysisResult, error) {
	args := m.Called(ctx, data, mimeType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AnalysisResult), args.Error(1)
}

func (m *MockLetterService) AnalyzeText(ctx context.Context, text string) (*model.AnalysisResult, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AnalysisResult), args.Error(1)
}

func (m *MockLetterService) Finalize(ctx context.Context, draft letter.Draft, file *service.SourceFile) (*model.Letter, error) {
	args := m.Called(ctx, draft, file)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Letter), args.Error(1)
}

func (m *MockLetterService) List(ctx context.Context, letterType, search string) ([]model.Letter, error) {
	args := m.Called(ctx, letterType, search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Letter), args.Error(1)
}

func (m *MockLetterService) Stats(ctx context.Context) (*service.ArchiveStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ArchiveStats), args.Error(1)
}

func (m *MockLetterService) ClearArchive(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockLetterService) Download(ctx context.Context, fileName string) (io.ReadCloser, storage.ObjectInfo, error) {
	args := m.Called(ctx, fileName)
	rc, _ := args.Get(0).(io.ReadCloser)
	info, _ := args.Get(1).(storage.ObjectInfo)
	return rc, info, args.Error(2)
}

func (m *MockLetterService) ExportCSV(ctx context.Context) (*service.ExportResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ExportResult), args.Error(1)
}
