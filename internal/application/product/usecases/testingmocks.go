package usecases

import (
	"context"
	"io"
	"log/slog"

	"github.com/stretchr/testify/mock"

	"vechnost/internal/domain/product"
	"vechnost/internal/shared/logger"
)

func discardLogger() logger.Interface {
	return logger.NewLoggerWithSlog(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

type mockProductRepo struct {
	mock.Mock
}

func (m *mockProductRepo) Upsert(ctx context.Context, p *product.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *mockProductRepo) GetByID(ctx context.Context, id int64) (*product.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *mockProductRepo) ListAll(ctx context.Context) ([]*product.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*product.Product), args.Error(1)
}

type mockProviderGateway struct {
	mock.Mock
}

func (m *mockProviderGateway) ListProducts(ctx context.Context) ([]CatalogProduct, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]CatalogProduct), args.Error(1)
}

func (m *mockProviderGateway) CreatePaymentLink(ctx context.Context, req PaymentLinkRequest) (*PaymentLink, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*PaymentLink), args.Error(1)
}
