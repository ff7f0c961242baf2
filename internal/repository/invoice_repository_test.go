package repository_test

import (
	"testing"

	"github.com/AndresTafur217/StorePrototypeApi/internal/domain"
	"github.com/AndresTafur217/StorePrototypeApi/internal/port"
	"github.com/AndresTafur217/StorePrototypeApi/internal/repository"
	"github.com/AndresTafur217/StorePrototypeApi/internal/store"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/goleak"
)

type invoiceRepositorySuite struct {
	suite.Suite

	repo port.InvoiceRepository
}

// entry point to run the tests in the suite
func TestInvoiceRepositorySuite(t *testing.T) {
	// Verifies no leaks after all tests in the suite run.
	defer goleak.VerifyNone(t)

	suite.Run(t, new(invoiceRepositorySuite))
}

// before each test
func (suite *invoiceRepositorySuite) SetupTest() {
	s, err := store.New(suite.T().TempDir(), store.DefaultLockTimeout)
	suite.NoError(err)

	suite.repo, err = repository.NewInvoice(s)
	suite.NoError(err)
}

func randomInvoice() domain.Invoice {
	return domain.Invoice{
		OrderID: uuid.MustParse(gofakeit.UUID()),
		BuyerID: gofakeit.Username(),
		Amount:  randomMoney(),
	}
}

func (suite *invoiceRepositorySuite) TestCreateInvoice() {
	t := suite.T()
	ctx := t.Context()

	invoice := randomInvoice()

	created, err := suite.repo.CreateInvoice(ctx, invoice)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, invoice.OrderID, created.OrderID)
	assert.Equal(t, invoice.BuyerID, created.BuyerID)
	assert.Equal(t, domain.InvoiceStatusPending, created.Status)
	assert.Nil(t, created.Method)
	assert.Nil(t, created.PaidAt)
	assert.False(t, created.CreatedAt.IsZero())

	actual, err := suite.repo.GetInvoice(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, actual.ID)

	byOrder, err := suite.repo.GetInvoiceByOrder(ctx, invoice.OrderID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, byOrder.ID)
}

func (suite *invoiceRepositorySuite) TestCreateInvoiceDuplicateOrder() {
	t := suite.T()
	ctx := t.Context()

	invoice := randomInvoice()

	_, err := suite.repo.CreateInvoice(ctx, invoice)
	require.NoError(t, err)

	// exactly one invoice per order
	_, err = suite.repo.CreateInvoice(ctx, invoice)
	require.ErrorIs(t, err, domain.ErrInvoiceExists)

	invoices, err := suite.repo.ListInvoices(ctx)
	require.NoError(t, err)
	assert.Len(t, invoices, 1)
}

func (suite *invoiceRepositorySuite) TestMarkPaid() {
	tests := []struct {
		name        string
		prepareFunc func(uuid.UUID) error // runs after insert, before MarkPaid
		targetFunc  func(uuid.UUID) uuid.UUID
		method      domain.PaymentMethod
		wantError   error
		wantErrText string
	}{
		{
			name:   "pending invoice: ok",
			method: domain.PaymentMethodStripe,
		},
		{
			name:   "already paid: conflict",
			method: domain.PaymentMethodStripe,
			prepareFunc: func(id uuid.UUID) error {
				_, err := suite.repo.MarkPaid(suite.T().Context(), id, domain.PaymentMethodPayPal)
				return err
			},
			wantError: domain.ErrInvoiceAlreadyPaid,
		},
		{
			name:   "unknown invoice: not found",
			method: domain.PaymentMethodStripe,
			targetFunc: func(uuid.UUID) uuid.UUID {
				return uuid.MustParse(gofakeit.UUID())
			},
			wantError: domain.ErrInvoiceNotFound,
		},
		{
			name:        "empty method: error",
			method:      "",
			wantErrText: "method is empty",
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := t.Context()

			created, err := suite.repo.CreateInvoice(ctx, randomInvoice())
			require.NoError(t, err)

			if tt.prepareFunc != nil {
				require.NoError(t, tt.prepareFunc(created.ID))
			}

			target := created.ID
			if tt.targetFunc != nil {
				target = tt.targetFunc(created.ID)
			}

			paid, err := suite.repo.MarkPaid(ctx, target, tt.method)
			if tt.wantError != nil {
				require.ErrorIs(t, err, tt.wantError)
				return
			}
			if tt.wantErrText != "" {
				require.EqualError(t, err, tt.wantErrText)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, domain.InvoiceStatusPaid, paid.Status)
			require.NotNil(t, paid.Method)
			assert.Equal(t, tt.method, *paid.Method)
			require.NotNil(t, paid.PaidAt)
		})
	}
}

func (suite *invoiceRepositorySuite) TestDeleteInvoiceByOrder() {
	t := suite.T()
	ctx := t.Context()

	created, err := suite.repo.CreateInvoice(ctx, randomInvoice())
	require.NoError(t, err)

	err = suite.repo.DeleteInvoiceByOrder(ctx, created.OrderID)
	require.NoError(t, err)

	_, err = suite.repo.GetInvoiceByOrder(ctx, created.OrderID)
	require.ErrorIs(t, err, domain.ErrInvoiceNotFound)
}
