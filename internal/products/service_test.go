package products

import (
	"context"
	"testing"

	"github.com/elvis1056/fivepapa-backend/internal/categories"
	"github.com/elvis1056/fivepapa-backend/pkg/db/models"
	pkgerrors "github.com/elvis1056/fivepapa-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupProductService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.Category{}, &models.Product{}))

	svc, err := NewService(NewRepository(conn), categories.NewRepository(conn), nil)
	require.NoError(t, err)
	return svc, conn
}

func requireCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	typed := pkgerrors.As(err)
	require.NotNil(t, typed, "expected typed error, got %v", err)
	require.Equal(t, code, typed.Code())
}

func saveInput(name, price string, stock int) SaveProductInput {
	return SaveProductInput{
		Name:  name,
		Price: decimal.RequireFromString(price),
		Stock: stock,
	}
}

func TestCreateAndGetProduct(t *testing.T) {
	svc, _ := setupProductService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, saveInput("Pen", "9.90", 3))
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	require.Equal(t, "9.90", created.Price)
	require.True(t, created.Active)

	got, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Pen", got.Name)
	require.Equal(t, 3, got.Stock)
}

func TestCreateProductValidation(t *testing.T) {
	svc, _ := setupProductService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, saveInput("", "9.90", 3))
	requireCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.Create(ctx, saveInput("Pen", "0", 3))
	requireCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.Create(ctx, saveInput("Pen", "9.90", -1))
	requireCode(t, err, pkgerrors.CodeValidation)
}

func TestCreateProductUnknownCategory(t *testing.T) {
	svc, _ := setupProductService(t)
	ctx := context.Background()

	missing := uint(99)
	input := saveInput("Pen", "9.90", 3)
	input.CategoryID = &missing

	_, err := svc.Create(ctx, input)
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestUpdateProduct(t *testing.T) {
	svc, _ := setupProductService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, saveInput("Pen", "9.90", 3))
	require.NoError(t, err)

	inactive := false
	input := saveInput("Fancy Pen", "12.00", 5)
	input.Active = &inactive

	updated, err := svc.Update(ctx, created.ID, input)
	require.NoError(t, err)
	require.Equal(t, "Fancy Pen", updated.Name)
	require.Equal(t, "12.00", updated.Price)
	require.False(t, updated.Active)

	_, err = svc.Update(ctx, 9999, saveInput("Pen", "9.90", 3))
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestListProductsFilters(t *testing.T) {
	svc, _ := setupProductService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, saveInput("Blue Pen", "5.00", 10))
	require.NoError(t, err)
	cheap, err := svc.Create(ctx, saveInput("Pencil", "1.50", 10))
	require.NoError(t, err)

	inactive := false
	input := saveInput("Red Pen", "5.00", 10)
	input.Active = &inactive
	_, err = svc.Create(ctx, input)
	require.NoError(t, err)

	byName, err := svc.List(ctx, ListFilter{Name: "pen"})
	require.NoError(t, err)
	require.Len(t, byName, 3)

	active := true
	byActive, err := svc.List(ctx, ListFilter{Active: &active})
	require.NoError(t, err)
	require.Len(t, byActive, 2)

	max := decimal.RequireFromString("2.00")
	byPrice, err := svc.List(ctx, ListFilter{MaxPrice: &max})
	require.NoError(t, err)
	require.Len(t, byPrice, 1)
	require.Equal(t, cheap.ID, byPrice[0].ID)
}

func TestDeleteProduct(t *testing.T) {
	svc, _ := setupProductService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, saveInput("Pen", "9.90", 3))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))
	requireCode(t, svc.Delete(ctx, created.ID), pkgerrors.CodeNotFound)
}
