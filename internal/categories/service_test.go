package categories

import (
	"context"
	"testing"

	"github.com/elvis1056/fivepapa-backend/pkg/db/models"
	pkgerrors "github.com/elvis1056/fivepapa-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCategoryService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.Category{}, &models.Product{}))

	svc, err := NewService(NewRepository(conn), nil)
	require.NoError(t, err)
	return svc, conn
}

func requireCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	typed := pkgerrors.As(err)
	require.NotNil(t, typed, "expected typed error, got %v", err)
	require.Equal(t, code, typed.Code())
}

func TestCreateAndGetCategory(t *testing.T) {
	svc, _ := setupCategoryService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateCategoryInput{Name: "Stationery", Description: "pens and paper"})
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	require.True(t, created.Active)
	require.Nil(t, created.ParentID)

	got, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Stationery", got.Name)
	require.Zero(t, got.ProductCount)
}

func TestCreateCategoryDuplicateName(t *testing.T) {
	svc, _ := setupCategoryService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateCategoryInput{Name: "Books"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateCategoryInput{Name: "books"})
	requireCode(t, err, pkgerrors.CodeDuplicateCategoryName)
}

func TestCreateCategoryDepthLimit(t *testing.T) {
	svc, _ := setupCategoryService(t)
	ctx := context.Background()

	top, err := svc.Create(ctx, CreateCategoryInput{Name: "Top"})
	require.NoError(t, err)

	child, err := svc.Create(ctx, CreateCategoryInput{Name: "Child", ParentID: &top.ID})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateCategoryInput{Name: "Grandchild", ParentID: &child.ID})
	requireCode(t, err, pkgerrors.CodeCategoryDepth)
}

func TestUpdateCategorySelfParentRejected(t *testing.T) {
	svc, _ := setupCategoryService(t)
	ctx := context.Background()

	cat, err := svc.Create(ctx, CreateCategoryInput{Name: "Loop"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, cat.ID, UpdateCategoryInput{Name: "Loop", ParentID: &cat.ID})
	requireCode(t, err, pkgerrors.CodeCategoryCycle)
}

func TestUpdateCategoryWithChildrenCannotGainParent(t *testing.T) {
	svc, _ := setupCategoryService(t)
	ctx := context.Background()

	top, err := svc.Create(ctx, CreateCategoryInput{Name: "Top"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateCategoryInput{Name: "Child", ParentID: &top.ID})
	require.NoError(t, err)
	other, err := svc.Create(ctx, CreateCategoryInput{Name: "Other"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, top.ID, UpdateCategoryInput{Name: "Top", ParentID: &other.ID})
	requireCode(t, err, pkgerrors.CodeCategoryDepth)
}

func TestDeleteCategoryWithChildren(t *testing.T) {
	svc, _ := setupCategoryService(t)
	ctx := context.Background()

	top, err := svc.Create(ctx, CreateCategoryInput{Name: "Top"})
	require.NoError(t, err)
	child, err := svc.Create(ctx, CreateCategoryInput{Name: "Child", ParentID: &top.ID})
	require.NoError(t, err)

	requireCode(t, svc.Delete(ctx, top.ID), pkgerrors.CodeCategoryInUse)

	require.NoError(t, svc.Delete(ctx, child.ID))
	require.NoError(t, svc.Delete(ctx, top.ID))
}

func TestDeleteCategoryWithProducts(t *testing.T) {
	svc, conn := setupCategoryService(t)
	ctx := context.Background()

	cat, err := svc.Create(ctx, CreateCategoryInput{Name: "Pens"})
	require.NoError(t, err)

	product := models.Product{
		Name:       "Pen",
		Price:      decimal.RequireFromString("9.90"),
		Stock:      3,
		CategoryID: &cat.ID,
		Active:     true,
	}
	require.NoError(t, conn.Create(&product).Error)

	requireCode(t, svc.Delete(ctx, cat.ID), pkgerrors.CodeCategoryInUse)

	require.NoError(t, conn.Delete(&product).Error)
	require.NoError(t, svc.Delete(ctx, cat.ID))
}

func TestListTopLevelAndChildren(t *testing.T) {
	svc, _ := setupCategoryService(t)
	ctx := context.Background()

	top, err := svc.Create(ctx, CreateCategoryInput{Name: "Top"})
	require.NoError(t, err)
	child, err := svc.Create(ctx, CreateCategoryInput{Name: "Child", ParentID: &top.ID})
	require.NoError(t, err)

	topLevel, err := svc.ListTopLevel(ctx)
	require.NoError(t, err)
	require.Len(t, topLevel, 1)
	require.Equal(t, top.ID, topLevel[0].ID)

	children, err := svc.Children(ctx, top.ID)
	require.NoError(t, err)
	require.Len(t, children, 1)
	require.Equal(t, child.ID, children[0].ID)

	_, err = svc.Children(ctx, 9999)
	requireCode(t, err, pkgerrors.CodeNotFound)
}
