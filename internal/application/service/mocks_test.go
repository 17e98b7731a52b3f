package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/pos-billing/internal/domain/entity"
	"github.com/sangkips/pos-billing/internal/domain/repository"
	"github.com/stretchr/testify/mock"
)

// -- Mocks --

type ledgerMock struct {
	mock.Mock
}

func (m *ledgerMock) GetAvailable(ctx context.Context, unitKey string) (int, error) {
	args := m.Called(ctx, unitKey)
	return args.Int(0), args.Error(1)
}

func (m *ledgerMock) Adjust(ctx context.Context, unitKey string, delta int) (bool, error) {
	args := m.Called(ctx, unitKey, delta)
	return args.Bool(0), args.Error(1)
}

func (m *ledgerMock) GetByUnitKey(ctx context.Context, unitKey string) (*entity.StockUnit, error) {
	args := m.Called(ctx, unitKey)
	res := args.Get(0)
	if res == nil {
		return nil, args.Error(1)
	}
	return res.(*entity.StockUnit), args.Error(1)
}

type invoiceRepoMock struct {
	mock.Mock
}

func (m *invoiceRepoMock) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *invoiceRepoMock) Create(ctx context.Context, invoice *entity.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *invoiceRepoMock) CreateItems(ctx context.Context, items []entity.InvoiceItem) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}

func (m *invoiceRepoMock) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *invoiceRepoMock) GetByNumber(ctx context.Context, invoiceNumber string) (*entity.Invoice, error) {
	args := m.Called(ctx, invoiceNumber)
	res := args.Get(0)
	if res == nil {
		return nil, args.Error(1)
	}
	return res.(*entity.Invoice), args.Error(1)
}

func (m *invoiceRepoMock) UpdateItemDelivery(ctx context.Context, invoiceNumber, unitKey string, delivered bool) (bool, error) {
	args := m.Called(ctx, invoiceNumber, unitKey, delivered)
	return args.Bool(0), args.Error(1)
}

type bookingRepoMock struct {
	mock.Mock
}

func (m *bookingRepoMock) MarkInvoiced(ctx context.Context, customerMobile string, unitKeys []string, invoiceNumber string) (int64, error) {
	args := m.Called(ctx, customerMobile, unitKeys, invoiceNumber)
	return args.Get(0).(int64), args.Error(1)
}

type procedureMock struct {
	mock.Mock
}

func (m *procedureMock) Create(ctx context.Context, invoice *entity.Invoice, items []entity.InvoiceItem) (*repository.ProcedureResult, error) {
	args := m.Called(ctx, invoice, items)
	res := args.Get(0)
	if res == nil {
		return nil, args.Error(1)
	}
	return res.(*repository.ProcedureResult), args.Error(1)
}
