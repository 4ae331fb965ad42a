package controllers

import (
	"net/http"

	"github.com/elvis1056/fivepapa-backend/api/responses"
	"github.com/elvis1056/fivepapa-backend/api/validators"
	"github.com/elvis1056/fivepapa-backend/internal/products"
	pkgerrors "github.com/elvis1056/fivepapa-backend/pkg/errors"
	"github.com/elvis1056/fivepapa-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type productRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	Price       string `json:"price" validate:"required"`
	Stock       int    `json:"stock" validate:"gte=0"`
	ImageURL    string `json:"imageUrl" validate:"omitempty,url"`
	CategoryID  *uint  `json:"categoryId,omitempty"`
	Active      *bool  `json:"active,omitempty"`
	Featured    *bool  `json:"featured,omitempty"`
}

func (b productRequest) toInput() (products.SaveProductInput, error) {
	price, err := decimal.NewFromString(b.Price)
	if err != nil {
		return products.SaveProductInput{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid product").
			WithDetails(map[string]string{"price": "must be a decimal number"})
	}
	return products.SaveProductInput{
		Name:        b.Name,
		Description: b.Description,
		Price:       price,
		Stock:       b.Stock,
		ImageURL:    b.ImageURL,
		CategoryID:  b.CategoryID,
		Active:      b.Active,
		Featured:    b.Featured,
	}, nil
}

// ProductList serves products with optional query filters: name
// substring, active, featured, categoryId, minPrice and maxPrice.
func ProductList(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := listFilterFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// ProductGet serves one product by id.
func ProductGet(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// ProductCreate creates a product.
func ProductCreate(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body productRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := body.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// ProductUpdate updates a product.
func ProductUpdate(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body productRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := body.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// ProductDelete removes a product.
func ProductDelete(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusNoContent, nil)
	}
}

func listFilterFromQuery(r *http.Request) (products.ListFilter, error) {
	filter := products.ListFilter{Name: r.URL.Query().Get("name")}

	active, err := validators.ParseQueryBool(r, "active")
	if err != nil {
		return filter, err
	}
	filter.Active = active

	featured, err := validators.ParseQueryBool(r, "featured")
	if err != nil {
		return filter, err
	}
	filter.Featured = featured

	if raw := r.URL.Query().Get("categoryId"); raw != "" {
		id, err := validators.ParsePathID(raw)
		if err != nil {
			return filter, err
		}
		filter.CategoryID = &id
	}

	minPrice, err := validators.ParseQueryDecimal(r, "minPrice")
	if err != nil {
		return filter, err
	}
	filter.MinPrice = minPrice

	maxPrice, err := validators.ParseQueryDecimal(r, "maxPrice")
	if err != nil {
		return filter, err
	}
	filter.MaxPrice = maxPrice

	return filter, nil
}
