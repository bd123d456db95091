package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/eyad6789/book-store-platfotms-sub000/api/responses"
	"github.com/eyad6789/book-store-platfotms-sub000/api/validators"
	"github.com/eyad6789/book-store-platfotms-sub000/internal/catalog"
	pkgerrors "github.com/eyad6789/book-store-platfotms-sub000/pkg/errors"
	"github.com/eyad6789/book-store-platfotms-sub000/pkg/logger"
)

type createBookRequest struct {
	Title         string   `json:"title" validate:"required"`
	Author        string   `json:"author" validate:"required"`
	ISBN          *string  `json:"isbn,omitempty"`
	Description   *string  `json:"description,omitempty"`
	Categories    []string `json:"categories,omitempty"`
	PriceCents    int      `json:"price_cents" validate:"min=0"`
	StockQuantity int      `json:"stock_quantity" validate:"min=0"`
	IsActive      bool     `json:"is_active"`
}

type updateBookRequest struct {
	Title         *string   `json:"title,omitempty"`
	Author        *string   `json:"author,omitempty"`
	ISBN          *string   `json:"isbn,omitempty"`
	Description   *string   `json:"description,omitempty"`
	Categories    *[]string `json:"categories,omitempty"`
	PriceCents    *int      `json:"price_cents,omitempty" validate:"omitempty,min=0"`
	StockQuantity *int      `json:"stock_quantity,omitempty" validate:"omitempty,min=0"`
	IsActive      *bool     `json:"is_active,omitempty"`
}

// CreateBook adds a listing to the authenticated vendor's catalog.
func CreateBook(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		vendorID, err := vendorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createBookRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		book, err := svc.CreateBook(r.Context(), vendorID, catalog.CreateBookInput{
			Title:         payload.Title,
			Author:        payload.Author,
			ISBN:          payload.ISBN,
			Description:   payload.Description,
			Categories:    payload.Categories,
			PriceCents:    payload.PriceCents,
			StockQuantity: payload.StockQuantity,
			IsActive:      payload.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, book)
	}
}

// UpdateBook applies a partial update to one of the vendor's listings.
func UpdateBook(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		vendorID, err := vendorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		bookID, err := parseBookID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateBookRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		book, err := svc.UpdateBook(r.Context(), vendorID, bookID, catalog.UpdateBookInput{
			Title:         payload.Title,
			Author:        payload.Author,
			ISBN:          payload.ISBN,
			Description:   payload.Description,
			Categories:    payload.Categories,
			PriceCents:    payload.PriceCents,
			StockQuantity: payload.StockQuantity,
			IsActive:      payload.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, book)
	}
}

// GetBook returns a single listing.
func GetBook(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		bookID, err := parseBookID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		book, err := svc.GetBook(r.Context(), bookID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, book)
	}
}

// ListVendorBooks returns the authenticated vendor's catalog.
func ListVendorBooks(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		vendorID, err := vendorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		books, err := svc.ListVendorBooks(r.Context(), vendorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, books)
	}
}

func parseBookID(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "bookID"))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "book id is required")
	}
	bookID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid book id")
	}
	return bookID, nil
}
