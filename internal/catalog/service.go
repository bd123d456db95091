package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/eyad6789/book-store-platfotms-sub000/pkg/db/models"
	pkgerrors "github.com/eyad6789/book-store-platfotms-sub000/pkg/errors"
)

// Service exposes vendor catalog management operations.
type Service interface {
	CreateBook(ctx context.Context, vendorID uuid.UUID, input CreateBookInput) (*BookDTO, error)
	UpdateBook(ctx context.Context, vendorID, bookID uuid.UUID, input UpdateBookInput) (*BookDTO, error)
	GetBook(ctx context.Context, bookID uuid.UUID) (*BookDTO, error)
	ListVendorBooks(ctx context.Context, vendorID uuid.UUID) ([]BookDTO, error)
}

type service struct {
	repo *Repository
}

// NewService constructs a catalog service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

// CreateBook creates a listing under the vendor after checking it may sell.
func (s *service) CreateBook(ctx context.Context, vendorID uuid.UUID, input CreateBookInput) (*BookDTO, error) {
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	vendor, err := s.repo.FindVendorByID(ctx, vendorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading vendor")
	}
	if !vendor.Sellable() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "vendor is not approved to sell")
	}

	book := buildBook(vendorID, input)
	created, err := s.repo.CreateBook(ctx, book)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating book")
	}
	return toBookDTO(created), nil
}

// UpdateBook applies the provided fields to a book owned by the vendor.
func (s *service) UpdateBook(ctx context.Context, vendorID, bookID uuid.UUID, input UpdateBookInput) (*BookDTO, error) {
	book, err := s.repo.FindByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "book not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading book")
	}
	if book.VendorID != vendorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "book belongs to a different vendor")
	}

	applyUpdate(book, input)
	if err := validateBookFields(book.Title, book.Author, book.PriceCents, book.StockQuantity); err != nil {
		return nil, err
	}

	changes := updateColumns(input)
	if len(changes) == 0 {
		return toBookDTO(book), nil
	}
	updated, err := s.repo.UpdateBookColumns(ctx, bookID, changes)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating book")
	}
	return toBookDTO(updated), nil
}

// GetBook returns a single listing.
func (s *service) GetBook(ctx context.Context, bookID uuid.UUID) (*BookDTO, error) {
	book, err := s.repo.FindByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "book not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading book")
	}
	return toBookDTO(book), nil
}

// ListVendorBooks returns all listings for the vendor.
func (s *service) ListVendorBooks(ctx context.Context, vendorID uuid.UUID) ([]BookDTO, error) {
	books, err := s.repo.ListByVendor(ctx, vendorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing books")
	}
	dtos := make([]BookDTO, 0, len(books))
	for i := range books {
		dtos = append(dtos, *toBookDTO(&books[i]))
	}
	return dtos, nil
}

func validateCreateInput(input CreateBookInput) error {
	return validateBookFields(input.Title, input.Author, input.PriceCents, input.StockQuantity)
}

func validateBookFields(title, author string, priceCents, stockQuantity int) error {
	if strings.TrimSpace(title) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if strings.TrimSpace(author) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "author is required")
	}
	if priceCents < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "price_cents cannot be negative")
	}
	if stockQuantity < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "stock_quantity cannot be negative")
	}
	return nil
}

func buildBook(vendorID uuid.UUID, input CreateBookInput) *models.Book {
	return &models.Book{
		VendorID:      vendorID,
		Title:         strings.TrimSpace(input.Title),
		Author:        strings.TrimSpace(input.Author),
		ISBN:          input.ISBN,
		Description:   input.Description,
		Categories:    pq.StringArray(input.Categories),
		PriceCents:    input.PriceCents,
		StockQuantity: input.StockQuantity,
		IsActive:      input.IsActive,
	}
}

func applyUpdate(book *models.Book, input UpdateBookInput) {
	if input.Title != nil {
		book.Title = strings.TrimSpace(*input.Title)
	}
	if input.Author != nil {
		book.Author = strings.TrimSpace(*input.Author)
	}
	if input.ISBN != nil {
		book.ISBN = input.ISBN
	}
	if input.Description != nil {
		book.Description = input.Description
	}
	if input.Categories != nil {
		book.Categories = pq.StringArray(*input.Categories)
	}
	if input.PriceCents != nil {
		book.PriceCents = *input.PriceCents
	}
	if input.StockQuantity != nil {
		book.StockQuantity = *input.StockQuantity
	}
	if input.IsActive != nil {
		book.IsActive = *input.IsActive
	}
}

// updateColumns maps the provided fields to their columns. Only edited
// columns are written; stock_quantity appears solely on an explicit restock
// and sold_count is owned by the order engine, never by listing edits.
func updateColumns(input UpdateBookInput) map[string]any {
	changes := map[string]any{}
	if input.Title != nil {
		changes["title"] = strings.TrimSpace(*input.Title)
	}
	if input.Author != nil {
		changes["author"] = strings.TrimSpace(*input.Author)
	}
	if input.ISBN != nil {
		changes["isbn"] = *input.ISBN
	}
	if input.Description != nil {
		changes["description"] = *input.Description
	}
	if input.Categories != nil {
		changes["categories"] = pq.StringArray(*input.Categories)
	}
	if input.PriceCents != nil {
		changes["price_cents"] = *input.PriceCents
	}
	if input.StockQuantity != nil {
		changes["stock_quantity"] = *input.StockQuantity
	}
	if input.IsActive != nil {
		changes["is_active"] = *input.IsActive
	}
	return changes
}
