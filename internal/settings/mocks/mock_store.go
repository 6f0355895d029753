package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"suratapi/internal/model"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Load(ctx context.Context) (model.AppSettings, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.AppSettings), args.Error(1)
}

func (m *MockStore) Save(ctx context.Context, s model.AppSettings) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockStore) Reset(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
