package mocks

import (
	"context"

	"pdfstamp/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockStampService struct {
	mock.Mock
}

func (m *MockStampService) ProcessBatch(ctx context.Context, files []model.InputFile, opts model.StampOptions) (*model.BatchResult, error) {
	args := m.Called(ctx, files, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BatchResult), args.Error(1)
}

func (m *MockStampService) PersistBatch(ctx context.Context, files []model.InputFile, opts model.StampOptions) (*model.BatchResult, error) {
	args := m.Called(ctx, files, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BatchResult), args.Error(1)
}

func (m *MockStampService) ProcessDir(ctx context.Context, inputDir, destDir string, opts model.StampOptions) (*model.BatchResult, error) {
	args := m.Called(ctx, inputDir, destDir, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BatchResult), args.Error(1)
}
