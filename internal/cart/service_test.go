package cart

import (
	"context"
	"testing"

	"github.com/elvis1056/fivepapa-backend/internal/products"
	"github.com/elvis1056/fivepapa-backend/pkg/db"
	"github.com/elvis1056/fivepapa-backend/pkg/db/models"
	pkgerrors "github.com/elvis1056/fivepapa-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCartService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.User{}, &models.Product{}, &models.Cart{}, &models.CartItem{}))

	svc, err := NewService(NewRepository(conn), products.NewRepository(conn), db.FromGorm(conn), nil)
	require.NoError(t, err)
	return svc, conn
}

func seedProduct(t *testing.T, conn *gorm.DB, name, price string, stock int, active bool) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:   name,
		Price:  decimal.RequireFromString(price),
		Stock:  stock,
		Active: active,
	}
	require.NoError(t, conn.Create(product).Error)
	return product
}

func requireCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	typed := pkgerrors.As(err)
	require.NotNil(t, typed, "expected typed error, got %v", err)
	require.Equal(t, code, typed.Code())
}

func TestGetCreatesEmptyCartLazily(t *testing.T) {
	svc, _ := setupCartService(t)
	ctx := context.Background()

	cart, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	require.NotZero(t, cart.ID)
	require.Empty(t, cart.Items)
	require.Equal(t, "0.00", cart.TotalAmount)

	again, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, cart.ID, again.ID)
}

func TestAddItemComputesAggregates(t *testing.T) {
	svc, conn := setupCartService(t)
	ctx := context.Background()
	pen := seedProduct(t, conn, "Pen", "9.90", 3, true)

	cart, err := svc.AddItem(ctx, 1, AddItemInput{ProductID: pen.ID, Quantity: 2})
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	require.Equal(t, 2, cart.Items[0].Quantity)
	require.Equal(t, "19.80", cart.Items[0].Subtotal)
	require.Equal(t, 1, cart.TotalItems)
	require.Equal(t, 2, cart.TotalQuantity)
	require.Equal(t, "19.80", cart.TotalAmount)
}

func TestAddSameProductMergesLineItem(t *testing.T) {
	svc, conn := setupCartService(t)
	ctx := context.Background()
	pen := seedProduct(t, conn, "Pen", "9.90", 3, true)

	_, err := svc.AddItem(ctx, 1, AddItemInput{ProductID: pen.ID, Quantity: 2})
	require.NoError(t, err)

	cart, err := svc.AddItem(ctx, 1, AddItemInput{ProductID: pen.ID, Quantity: 1})
	require.NoError(t, err)
	require.Len(t, cart.Items, 1, "merge must not duplicate the line item")
	require.Equal(t, 3, cart.Items[0].Quantity)

	_, err = svc.AddItem(ctx, 1, AddItemInput{ProductID: pen.ID, Quantity: 1})
	requireCode(t, err, pkgerrors.CodeInsufficientStock)
}

func TestAddItemStockBoundary(t *testing.T) {
	svc, conn := setupCartService(t)
	ctx := context.Background()
	pen := seedProduct(t, conn, "Pen", "5.00", 4, true)

	cart, err := svc.AddItem(ctx, 1, AddItemInput{ProductID: pen.ID, Quantity: 4})
	require.NoError(t, err, "quantity equal to stock must pass")
	require.Equal(t, 4, cart.Items[0].Quantity)

	other := seedProduct(t, conn, "Pencil", "1.00", 4, true)
	_, err = svc.AddItem(ctx, 2, AddItemInput{ProductID: other.ID, Quantity: 5})
	requireCode(t, err, pkgerrors.CodeInsufficientStock)
}

func TestAddItemValidation(t *testing.T) {
	svc, conn := setupCartService(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, 1, AddItemInput{ProductID: 1, Quantity: 0})
	requireCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.AddItem(ctx, 1, AddItemInput{ProductID: 999, Quantity: 1})
	requireCode(t, err, pkgerrors.CodeNotFound)

	inactive := seedProduct(t, conn, "Retired", "2.00", 10, false)
	_, err = svc.AddItem(ctx, 1, AddItemInput{ProductID: inactive.ID, Quantity: 1})
	requireCode(t, err, pkgerrors.CodeProductInactive)
}

func TestUpdateItemSetsAbsoluteQuantity(t *testing.T) {
	svc, conn := setupCartService(t)
	ctx := context.Background()
	pen := seedProduct(t, conn, "Pen", "9.90", 5, true)

	cart, err := svc.AddItem(ctx, 1, AddItemInput{ProductID: pen.ID, Quantity: 2})
	require.NoError(t, err)
	itemID := cart.Items[0].ID

	updated, err := svc.UpdateItem(ctx, 1, itemID, UpdateItemInput{Quantity: 5})
	require.NoError(t, err)
	require.Equal(t, 5, updated.Items[0].Quantity)

	_, err = svc.UpdateItem(ctx, 1, itemID, UpdateItemInput{Quantity: 6})
	requireCode(t, err, pkgerrors.CodeInsufficientStock)

	_, err = svc.UpdateItem(ctx, 1, 9999, UpdateItemInput{Quantity: 1})
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestOwnershipEnforcedAcrossUsers(t *testing.T) {
	svc, conn := setupCartService(t)
	ctx := context.Background()
	pen := seedProduct(t, conn, "Pen", "9.90", 5, true)

	bobCart, err := svc.AddItem(ctx, 2, AddItemInput{ProductID: pen.ID, Quantity: 1})
	require.NoError(t, err)
	bobItem := bobCart.Items[0].ID

	_, err = svc.UpdateItem(ctx, 1, bobItem, UpdateItemInput{Quantity: 2})
	requireCode(t, err, pkgerrors.CodeForbidden)

	_, err = svc.RemoveItem(ctx, 1, bobItem)
	requireCode(t, err, pkgerrors.CodeForbidden)

	cart, err := svc.Get(ctx, 2)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1, "foreign mutations must leave the cart untouched")
}

func TestRemoveItem(t *testing.T) {
	svc, conn := setupCartService(t)
	ctx := context.Background()
	pen := seedProduct(t, conn, "Pen", "9.90", 5, true)

	cart, err := svc.AddItem(ctx, 1, AddItemInput{ProductID: pen.ID, Quantity: 1})
	require.NoError(t, err)

	after, err := svc.RemoveItem(ctx, 1, cart.Items[0].ID)
	require.NoError(t, err)
	require.Empty(t, after.Items)
	require.Equal(t, "0.00", after.TotalAmount)
}

func TestClearIsIdempotentAndKeepsCart(t *testing.T) {
	svc, conn := setupCartService(t)
	ctx := context.Background()
	pen := seedProduct(t, conn, "Pen", "9.90", 5, true)

	before, err := svc.AddItem(ctx, 1, AddItemInput{ProductID: pen.ID, Quantity: 2})
	require.NoError(t, err)

	require.NoError(t, svc.Clear(ctx, 1))
	require.NoError(t, svc.Clear(ctx, 1))

	cart, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, before.ID, cart.ID, "cart row must survive clear")
	require.Empty(t, cart.Items)
}
