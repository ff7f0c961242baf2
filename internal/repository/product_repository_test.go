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

type productRepositorySuite struct {
	suite.Suite

	repo port.ProductRepository
}

// entry point to run the tests in the suite
func TestProductRepositorySuite(t *testing.T) {
	// Verifies no leaks after all tests in the suite run.
	defer goleak.VerifyNone(t)

	suite.Run(t, new(productRepositorySuite))
}

// before each test
func (suite *productRepositorySuite) SetupTest() {
	s, err := store.New(suite.T().TempDir(), store.DefaultLockTimeout)
	suite.NoError(err)

	suite.repo, err = repository.NewProduct(s, domain.DefaultLowStockThreshold)
	suite.NoError(err)
}

func (suite *productRepositorySuite) TestInsertProduct() {
	tests := []struct {
		name        string
		productFunc func() domain.Product
		wantStatus  domain.ProductStatus
		wantError   string
	}{
		{
			name:        "plenty of stock: available",
			productFunc: randomProduct,
			wantStatus:  domain.ProductStatusAvailable,
		},
		{
			name: "stock below threshold: low",
			productFunc: func() domain.Product {
				p := randomProduct()
				p.Stock = 3
				return p
			},
			wantStatus: domain.ProductStatusLow,
		},
		{
			name: "no stock: out",
			productFunc: func() domain.Product {
				p := randomProduct()
				p.Stock = 0
				return p
			},
			wantStatus: domain.ProductStatusOut,
		},
		{
			name: "empty name: fail",
			productFunc: func() domain.Product {
				p := randomProduct()
				p.Name = ""
				return p
			},
			wantError: "product.Validate: name is empty",
		},
		{
			name: "negative stock: fail",
			productFunc: func() domain.Product {
				p := randomProduct()
				p.Stock = -1
				return p
			},
			wantError: "product.Validate: stock is negative",
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := t.Context()

			product := tt.productFunc()

			productID, err := suite.repo.InsertProduct(ctx, product)
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)
				return
			}

			require.NoError(t, err)

			actual, err := suite.repo.GetProduct(ctx, productID)
			require.NoError(t, err)

			expected := product
			expected.Status = tt.wantStatus
			assertProduct(t, expected, actual)
		})
	}
}

func (suite *productRepositorySuite) TestGetProductNotFound() {
	t := suite.T()
	ctx := t.Context()

	_, err := suite.repo.GetProduct(ctx, uuid.MustParse(gofakeit.UUID()))
	require.ErrorIs(t, err, domain.ErrProductNotFound)
}

func (suite *productRepositorySuite) TestListProducts() {
	t := suite.T()
	ctx := t.Context()

	for i := 0; i < 3; i++ {
		_, err := suite.repo.InsertProduct(ctx, randomProduct())
		require.NoError(t, err)
	}

	products, err := suite.repo.ListProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 3)
}

func (suite *productRepositorySuite) TestDeleteProduct() {
	t := suite.T()
	ctx := t.Context()

	productID, err := suite.repo.InsertProduct(ctx, randomProduct())
	require.NoError(t, err)

	require.NoError(t, suite.repo.DeleteProduct(ctx, productID))

	_, err = suite.repo.GetProduct(ctx, productID)
	require.ErrorIs(t, err, domain.ErrProductNotFound)

	err = suite.repo.DeleteProduct(ctx, productID)
	require.ErrorIs(t, err, domain.ErrProductNotFound)
}
