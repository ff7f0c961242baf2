package service_test

import (
	"testing"
	"time"

	"github.com/AndresTafur217/StorePrototypeApi/internal/domain"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/goleak"
)

type favoriteServiceSuite struct {
	suite.Suite

	h *harness
}

// entry point to run the tests in the suite
func TestFavoriteServiceSuite(t *testing.T) {
	// Verifies no leaks after all tests in the suite run.
	defer goleak.VerifyNone(t)

	suite.Run(t, new(favoriteServiceSuite))
}

// before each test
func (suite *favoriteServiceSuite) SetupTest() {
	suite.h = newHarness(suite.T())
}

func (suite *favoriteServiceSuite) TestAddFavorite() {
	t := suite.T()
	ctx := t.Context()
	h := suite.h

	actor := domain.Actor{ID: gofakeit.Username(), Role: domain.RoleCustomer}
	product := h.seedProduct(t, "10.00", 5, "seller-a")

	favorite, err := h.favoriteService.AddFavorite(ctx, actor, product.ID)
	require.NoError(t, err)
	assert.Equal(t, actor.ID, favorite.UserID)
	assert.Equal(t, product.ID, favorite.ProductID)

	// the same product twice conflicts
	_, err = h.favoriteService.AddFavorite(ctx, actor, product.ID)
	require.ErrorIs(t, err, domain.ErrFavoriteExists)

	// an unknown product cannot be bookmarked
	_, err = h.favoriteService.AddFavorite(ctx, actor, uuid.MustParse(gofakeit.UUID()))
	require.ErrorIs(t, err, domain.ErrProductNotFound)
}

func (suite *favoriteServiceSuite) TestListFavoritesHydratesProducts() {
	t := suite.T()
	ctx := t.Context()
	h := suite.h

	actor := domain.Actor{ID: gofakeit.Username(), Role: domain.RoleCustomer}
	kept := h.seedProduct(t, "10.00", 5, "seller-a")
	removed := h.seedProduct(t, "20.00", 3, "seller-a")

	_, err := h.favoriteService.AddFavorite(ctx, actor, kept.ID)
	require.NoError(t, err)

	_, err = h.favoriteService.AddFavorite(ctx, actor, removed.ID)
	require.NoError(t, err)

	// the product disappears after it was bookmarked
	require.NoError(t, h.products.DeleteProduct(ctx, removed.ID))

	views, err := h.favoriteService.ListFavorites(ctx, actor, nil)
	require.NoError(t, err)
	require.Len(t, views, 2)

	withProduct := lo.CountBy(views, func(v domain.FavoriteView) bool {
		return v.Product != nil
	})
	assert.Equal(t, 1, withProduct)

	// another user's view is empty
	other := domain.Actor{ID: gofakeit.Username(), Role: domain.RoleCustomer}
	views, err = h.favoriteService.ListFavorites(ctx, other, nil)
	require.NoError(t, err)
	assert.Empty(t, views)
}

func (suite *favoriteServiceSuite) TestListFavoritesTimeRange() {
	t := suite.T()
	ctx := t.Context()
	h := suite.h

	actor := domain.Actor{ID: gofakeit.Username(), Role: domain.RoleCustomer}
	product := h.seedProduct(t, "10.00", 5, "seller-a")

	_, err := h.favoriteService.AddFavorite(ctx, actor, product.ID)
	require.NoError(t, err)

	// a range ending in the past matches nothing
	past := time.Now().UTC().AddDate(-1, 0, 0)

	views, err := h.favoriteService.ListFavorites(ctx, actor, &domain.TimeRange{Before: &past})
	require.NoError(t, err)
	assert.Empty(t, views)

	// an invalid range is rejected
	_, err = h.favoriteService.ListFavorites(ctx, actor, &domain.TimeRange{})
	require.EqualError(t, err, "createdAt.Validate: both Before and After are nil")
}

func (suite *favoriteServiceSuite) TestRemoveFavorite() {
	t := suite.T()
	ctx := t.Context()
	h := suite.h

	actor := domain.Actor{ID: gofakeit.Username(), Role: domain.RoleCustomer}
	product := h.seedProduct(t, "10.00", 5, "seller-a")

	favorite, err := h.favoriteService.AddFavorite(ctx, actor, product.ID)
	require.NoError(t, err)

	// an intruder's removal reports not found
	intruder := domain.Actor{ID: "intruder", Role: domain.RoleCustomer}
	err = h.favoriteService.RemoveFavorite(ctx, intruder, favorite.ID)
	require.ErrorIs(t, err, domain.ErrFavoriteNotFound)

	err = h.favoriteService.RemoveFavorite(ctx, actor, favorite.ID)
	require.NoError(t, err)

	views, err := h.favoriteService.ListFavorites(ctx, actor, nil)
	require.NoError(t, err)
	assert.Empty(t, views)
}
