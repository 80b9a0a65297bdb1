package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"vechnost/internal/domain/product"
	apperrors "vechnost/internal/shared/errors"
)

func TestSyncProducts_Success(t *testing.T) {
	productRepo := new(mockProductRepo)
	gateway := new(mockProviderGateway)

	stars := int64(50)
	gateway.On("ListProducts", mock.Anything).Return([]CatalogProduct{
		{ID: 1, Type: "digital", Name: "Deck", Amount: 900, Currency: "RUB", StarsAmount: &stars, WebLink: "https://example.com/p/1"},
		{ID: 2, Type: "subscription", Name: "Monthly", Amount: 500, Currency: "RUB"},
	}, nil)
	productRepo.On("Upsert", mock.Anything, mock.AnythingOfType("*product.Product")).Return(nil)

	uc := NewSyncProductsUseCase(productRepo, gateway, discardLogger())
	result, err := uc.Execute(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 2, result.Synced)
	productRepo.AssertNumberOfCalls(t, "Upsert", 2)

	first := productRepo.Calls[0].Arguments.Get(1).(*product.Product)
	assert.Equal(t, int64(1), first.ID())
	assert.Equal(t, "https://example.com/p/1", first.WebLink())
	if assert.NotNil(t, first.StarsAmount()) {
		assert.Equal(t, int64(50), *first.StarsAmount())
	}
}

func TestSyncProducts_SkipsInvalidEntries(t *testing.T) {
	productRepo := new(mockProductRepo)
	gateway := new(mockProviderGateway)

	gateway.On("ListProducts", mock.Anything).Return([]CatalogProduct{
		{ID: 0, Name: "broken", Currency: "RUB"},
		{ID: 3, Type: "digital", Name: "Deck", Amount: 900, Currency: "RUB"},
	}, nil)
	productRepo.On("Upsert", mock.Anything, mock.AnythingOfType("*product.Product")).Return(nil)

	uc := NewSyncProductsUseCase(productRepo, gateway, discardLogger())
	result, err := uc.Execute(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 1, result.Synced)
	productRepo.AssertNumberOfCalls(t, "Upsert", 1)
}

func TestSyncProducts_GatewayFailure(t *testing.T) {
	gateway := new(mockProviderGateway)
	gateway.On("ListProducts", mock.Anything).Return(nil, assert.AnError)

	uc := NewSyncProductsUseCase(new(mockProductRepo), gateway, discardLogger())
	result, err := uc.Execute(context.Background())

	assert.Nil(t, result)
	assert.True(t, apperrors.IsInternalError(err))
}

func TestCreatePaymentLink_Success(t *testing.T) {
	productRepo := new(mockProductRepo)
	gateway := new(mockProviderGateway)

	p, _ := product.NewProduct(7, "digital", "Deck", 900, "RUB")
	productRepo.On("GetByID", mock.Anything, int64(7)).Return(p, nil)
	gateway.On("CreatePaymentLink", mock.Anything, PaymentLinkRequest{
		TelegramUserID: 42,
		ProductID:      7,
		Amount:         900,
		Currency:       "RUB",
		Description:    "Deck",
	}).Return(&PaymentLink{PaymentID: "pay_1", PaymentURL: "https://t.me/tribute/pay_1"}, nil)

	uc := NewCreatePaymentLinkUseCase(productRepo, gateway, discardLogger())
	link, err := uc.Execute(context.Background(), CreatePaymentLinkCommand{TelegramUserID: 42, ProductID: 7})

	assert.NoError(t, err)
	assert.Equal(t, "pay_1", link.PaymentID)
	gateway.AssertExpectations(t)
}

func TestCreatePaymentLink_UnknownProduct(t *testing.T) {
	productRepo := new(mockProductRepo)
	productRepo.On("GetByID", mock.Anything, int64(99)).Return(nil, nil)

	uc := NewCreatePaymentLinkUseCase(productRepo, new(mockProviderGateway), discardLogger())
	link, err := uc.Execute(context.Background(), CreatePaymentLinkCommand{TelegramUserID: 1, ProductID: 99})

	assert.Nil(t, link)
	assert.True(t, apperrors.IsNotFoundError(err))
}

func TestCreatePaymentLink_Validation(t *testing.T) {
	uc := NewCreatePaymentLinkUseCase(new(mockProductRepo), new(mockProviderGateway), discardLogger())

	_, err := uc.Execute(context.Background(), CreatePaymentLinkCommand{ProductID: 1})
	assert.True(t, apperrors.IsValidationError(err))

	_, err = uc.Execute(context.Background(), CreatePaymentLinkCommand{TelegramUserID: 1})
	assert.True(t, apperrors.IsValidationError(err))
}
