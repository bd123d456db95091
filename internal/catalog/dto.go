package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/eyad6789/book-store-platfotms-sub000/pkg/db/models"
)

// BookDTO is the API-facing projection of a book listing.
type BookDTO struct {
	ID            uuid.UUID `json:"id"`
	VendorID      uuid.UUID `json:"vendor_id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	ISBN          *string   `json:"isbn,omitempty"`
	Description   *string   `json:"description,omitempty"`
	Categories    []string  `json:"categories,omitempty"`
	PriceCents    int       `json:"price_cents"`
	StockQuantity int       `json:"stock_quantity"`
	SoldCount     int       `json:"sold_count"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CreateBookInput holds the validated payload to create a book.
type CreateBookInput struct {
	Title         string
	Author        string
	ISBN          *string
	Description   *string
	Categories    []string
	PriceCents    int
	StockQuantity int
	IsActive      bool
}

// UpdateBookInput holds optional mutation values for a book.
type UpdateBookInput struct {
	Title         *string
	Author        *string
	ISBN          *string
	Description   *string
	Categories    *[]string
	PriceCents    *int
	StockQuantity *int
	IsActive      *bool
}

func toBookDTO(book *models.Book) *BookDTO {
	return &BookDTO{
		ID:            book.ID,
		VendorID:      book.VendorID,
		Title:         book.Title,
		Author:        book.Author,
		ISBN:          book.ISBN,
		Description:   book.Description,
		Categories:    []string(book.Categories),
		PriceCents:    book.PriceCents,
		StockQuantity: book.StockQuantity,
		SoldCount:     book.SoldCount,
		IsActive:      book.IsActive,
		CreatedAt:     book.CreatedAt,
		UpdatedAt:     book.UpdatedAt,
	}
}
