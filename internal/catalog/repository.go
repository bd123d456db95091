package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/eyad6789/book-store-platfotms-sub000/pkg/db/models"
)

// Repository wires together book and vendor persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// CreateBook persists a new book listing.
func (r *Repository) CreateBook(ctx context.Context, book *models.Book) (*models.Book, error) {
	if book.ID == uuid.Nil {
		book.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(book).Error; err != nil {
		return nil, err
	}
	return book, nil
}

// UpdateBookColumns writes only the provided columns. Unedited columns,
// stock_quantity and sold_count in particular, are never written back from an
// earlier read, so a concurrent order decrement or cancellation restore
// cannot be clobbered by a listing edit.
func (r *Repository) UpdateBookColumns(ctx context.Context, id uuid.UUID, changes map[string]any) (*models.Book, error) {
	if len(changes) > 0 {
		err := r.db.WithContext(ctx).
			Model(&models.Book{}).
			Where("id = ?", id).
			Updates(changes).Error
		if err != nil {
			return nil, err
		}
	}
	return r.FindByID(ctx, id)
}

// FindByID loads the book without associations.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Book, error) {
	var book models.Book
	if err := r.db.WithContext(ctx).First(&book, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

// FindVendorByID loads the vendor record.
func (r *Repository) FindVendorByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := r.db.WithContext(ctx).First(&vendor, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &vendor, nil
}

// ListByVendor returns the vendor's books, newest first.
func (r *Repository) ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]models.Book, error) {
	var books []models.Book
	err := r.db.WithContext(ctx).
		Where("vendor_id = ?", vendorID).
		Order("created_at DESC").
		Find(&books).Error
	if err != nil {
		return nil, err
	}
	return books, nil
}

// FindSellableByIDs loads the requested books together with their vendors so
// callers can check purchasability in one round trip. Missing IDs are simply
// absent from the result.
func (r *Repository) FindSellableByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Book, error) {
	var books []models.Book
	err := r.db.WithContext(ctx).
		Preload("Vendor").
		Where("id IN ?", ids).
		Find(&books).Error
	if err != nil {
		return nil, err
	}
	return books, nil
}

// DecrementStock subtracts quantity from the book's stock if enough remains,
// bumping sold_count in the same statement. Returns false when stock was
// insufficient; the row is left untouched in that case.
func (r *Repository) DecrementStock(ctx context.Context, bookID uuid.UUID, quantity int) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Book{}).
		Where("id = ? AND stock_quantity >= ?", bookID, quantity).
		Updates(map[string]any{
			"stock_quantity": gorm.Expr("stock_quantity - ?", quantity),
			"sold_count":     gorm.Expr("sold_count + ?", quantity),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// RestoreStock adds quantity back to the book's stock and unwinds sold_count.
// sold_count is floored at zero so repeated restores cannot drive it negative.
func (r *Repository) RestoreStock(ctx context.Context, bookID uuid.UUID, quantity int) error {
	return r.db.WithContext(ctx).
		Model(&models.Book{}).
		Where("id = ?", bookID).
		Updates(map[string]any{
			"stock_quantity": gorm.Expr("stock_quantity + ?", quantity),
			"sold_count":     gorm.Expr("CASE WHEN sold_count >= ? THEN sold_count - ? ELSE 0 END", quantity, quantity),
		}).Error
}
