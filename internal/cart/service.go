package cart

import (
	"context"
	"fmt"

	"github.com/elvis1056/fivepapa-backend/internal/products"
	"github.com/elvis1056/fivepapa-backend/pkg/db"
	"github.com/elvis1056/fivepapa-backend/pkg/db/models"
	pkgerrors "github.com/elvis1056/fivepapa-backend/pkg/errors"
	"github.com/elvis1056/fivepapa-backend/pkg/logger"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes the per-user cart operations. Every mutation runs in
// one transaction; the user id always comes from the authenticated
// principal, never from request input.
type Service interface {
	Get(ctx context.Context, userID uint) (*CartDTO, error)
	AddItem(ctx context.Context, userID uint, input AddItemInput) (*CartDTO, error)
	UpdateItem(ctx context.Context, userID, itemID uint, input UpdateItemInput) (*CartDTO, error)
	RemoveItem(ctx context.Context, userID, itemID uint) (*CartDTO, error)
	Clear(ctx context.Context, userID uint) error
}

type service struct {
	repo     *Repository
	products *products.Repository
	tx       txRunner
	logg     *logger.Logger
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo *Repository, productRepo *products.Repository, tx txRunner, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if productRepo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, products: productRepo, tx: tx, logg: logg}, nil
}

// Get returns the user's cart, lazily creating an empty one.
func (s *service) Get(ctx context.Context, userID uint) (*CartDTO, error) {
	var dto *CartDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		cart, err := s.getOrCreate(ctx, tx, userID)
		if err != nil {
			return err
		}
		dto, err = s.buildDTO(ctx, tx, cart)
		return err
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// AddItem adds a product to the cart, merging into an existing line item
// when the product is already present.
func (s *service) AddItem(ctx context.Context, userID uint, input AddItemInput) (*CartDTO, error) {
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1").
			WithDetails(map[string]string{"quantity": "must be at least 1"})
	}

	var dto *CartDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		cart, err := s.getOrCreate(ctx, tx, userID)
		if err != nil {
			return err
		}

		product, err := s.loadSellableProduct(ctx, tx, input.ProductID)
		if err != nil {
			return err
		}
		if input.Quantity > product.Stock {
			return pkgerrors.New(pkgerrors.CodeInsufficientStock,
				fmt.Sprintf("requested quantity %d exceeds available stock %d", input.Quantity, product.Stock))
		}

		if err := s.upsertItem(ctx, repo, cart.ID, product, input.Quantity); err != nil {
			return err
		}

		fresh, err := repo.GetByUserID(ctx, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload cart")
		}
		dto, err = s.buildDTO(ctx, tx, fresh)
		return err
	})
	if err != nil {
		return nil, err
	}

	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{"product_id": input.ProductID, "quantity": input.Quantity})
		s.logg.Info(logCtx, "cart.item_added")
	}
	return dto, nil
}

// upsertItem merges the quantity into an existing line item or inserts a
// new one. A unique violation on (cart_id, product_id) means a
// concurrent insert won; re-read and merge into that row.
func (s *service) upsertItem(ctx context.Context, repo *Repository, cartID uint, product *models.Product, qty int) error {
	existing, err := repo.GetItemByCartAndProduct(ctx, cartID, product.ID)
	switch {
	case err == nil:
		return s.mergeQuantity(ctx, repo, existing, product, qty)
	case db.IsNotFound(err):
	default:
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart item")
	}

	item := &models.CartItem{CartID: cartID, ProductID: product.ID, Quantity: qty}
	if err := repo.SaveItem(ctx, item); err != nil {
		if db.IsUniqueViolation(err) {
			existing, rerr := repo.GetItemByCartAndProduct(ctx, cartID, product.ID)
			if rerr != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, rerr, "reload cart item after conflict")
			}
			return s.mergeQuantity(ctx, repo, existing, product, qty)
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "insert cart item")
	}
	return nil
}

func (s *service) mergeQuantity(ctx context.Context, repo *Repository, item *models.CartItem, product *models.Product, qty int) error {
	newQty := item.Quantity + qty
	if newQty > product.Stock {
		return pkgerrors.New(pkgerrors.CodeInsufficientStock,
			fmt.Sprintf("cart would hold %d units but only %d are in stock", newQty, product.Stock))
	}
	item.Quantity = newQty
	if err := repo.SaveItem(ctx, item); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update cart item")
	}
	return nil
}

// UpdateItem sets a line item quantity absolutely after ownership and
// stock checks.
func (s *service) UpdateItem(ctx context.Context, userID, itemID uint, input UpdateItemInput) (*CartDTO, error) {
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1").
			WithDetails(map[string]string{"quantity": "must be at least 1"})
	}

	var dto *CartDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		item, err := s.loadOwnedItem(ctx, repo, userID, itemID)
		if err != nil {
			return err
		}

		product, err := s.loadSellableProduct(ctx, tx, item.ProductID)
		if err != nil {
			return err
		}
		if input.Quantity > product.Stock {
			return pkgerrors.New(pkgerrors.CodeInsufficientStock,
				fmt.Sprintf("requested quantity %d exceeds available stock %d", input.Quantity, product.Stock))
		}

		item.Quantity = input.Quantity
		if err := repo.SaveItem(ctx, item); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update cart item")
		}

		fresh, err := repo.GetByUserID(ctx, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload cart")
		}
		dto, err = s.buildDTO(ctx, tx, fresh)
		return err
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// RemoveItem deletes a line item after the ownership check.
func (s *service) RemoveItem(ctx context.Context, userID, itemID uint) (*CartDTO, error) {
	var dto *CartDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		item, err := s.loadOwnedItem(ctx, repo, userID, itemID)
		if err != nil {
			return err
		}
		if err := repo.DeleteItem(ctx, item.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete cart item")
		}

		fresh, err := repo.GetByUserID(ctx, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload cart")
		}
		dto, err = s.buildDTO(ctx, tx, fresh)
		return err
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// Clear removes every line item; the cart row survives. Clearing an
// already-empty cart is a no-op.
func (s *service) Clear(ctx context.Context, userID uint) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		cart, err := s.getOrCreate(ctx, tx, userID)
		if err != nil {
			return err
		}
		if err := repo.DeleteItemsByCartID(ctx, cart.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear cart")
		}
		return nil
	})
}

func (s *service) getOrCreate(ctx context.Context, tx *gorm.DB, userID uint) (*models.Cart, error) {
	repo := s.repo.WithTx(tx)

	cart, err := repo.GetByUserID(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !db.IsNotFound(err) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}

	if err := repo.EnsureForUser(ctx, userID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create cart")
	}
	cart, err = repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload cart")
	}
	return cart, nil
}

func (s *service) loadOwnedItem(ctx context.Context, repo *Repository, userID, itemID uint) (*models.CartItem, error) {
	item, err := repo.GetItemByID(ctx, itemID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart item")
	}

	owner, err := repo.GetCartByID(ctx, item.CartID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	if owner.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "cart item belongs to another user")
	}
	return item, nil
}

func (s *service) loadSellableProduct(ctx context.Context, tx *gorm.DB, productID uint) (*models.Product, error) {
	product, err := s.products.WithTx(tx).GetByID(ctx, productID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	if !product.Active {
		return nil, pkgerrors.New(pkgerrors.CodeProductInactive, "product is not available")
	}
	return product, nil
}

func (s *service) buildDTO(ctx context.Context, tx *gorm.DB, cart *models.Cart) (*CartDTO, error) {
	productRepo := s.products.WithTx(tx)

	productsByID := make(map[uint]*models.Product, len(cart.Items))
	for i := range cart.Items {
		id := cart.Items[i].ProductID
		if _, ok := productsByID[id]; ok {
			continue
		}
		product, err := productRepo.GetByID(ctx, id)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart product")
		}
		productsByID[id] = product
	}
	return buildCartDTO(cart, productsByID), nil
}
