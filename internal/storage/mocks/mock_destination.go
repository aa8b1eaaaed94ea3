package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockDestination struct {
	mock.Mock
}

func (m *MockDestination) Exists(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockDestination) Write(ctx context.Context, name string, data []byte) (string, error) {
	args := m.Called(ctx, name, data)
	return args.String(0), args.Error(1)
}
