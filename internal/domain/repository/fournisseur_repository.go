package repository

import (
	"context"
	"errors"

	"github.com/youcode/tricol-fournisseurs/internal/domain/entity"
)

// ErrDuplicateKey is returned by Save when the store rejects a record because
// its email or ICE is already taken.
var ErrDuplicateKey = errors.New("duplicate key")

// ErrNotFound is returned by Save when the record to overwrite no longer exists.
var ErrNotFound = errors.New("record not found")

// FournisseurRepository defines the interface for supplier data operations.
// Single-record lookups return (nil, nil) when nothing matches.
type FournisseurRepository interface {
	FindByID(ctx context.Context, id uint64) (*entity.Fournisseur, error)
	FindAll(ctx context.Context) ([]entity.Fournisseur, error)
	FindAllOrderByCompany(ctx context.Context) ([]entity.Fournisseur, error)
	FindAllOrderByCityAndCompany(ctx context.Context) ([]entity.Fournisseur, error)
	FindByCity(ctx context.Context, city string) ([]entity.Fournisseur, error)
	FindByCityOrderByCompany(ctx context.Context, city string) ([]entity.Fournisseur, error)
	FindByTaxID(ctx context.Context, taxID string) (*entity.Fournisseur, error)
	FindByCompany(ctx context.Context, company string) (*entity.Fournisseur, error)
	// FindByCompanyContaining matches a case-insensitive substring of the company name.
	FindByCompanyContaining(ctx context.Context, text string) ([]entity.Fournisseur, error)
	FindByEmailEndingWith(ctx context.Context, suffix string) ([]entity.Fournisseur, error)
	// Search matches a case-insensitive substring of company, city or contact.
	Search(ctx context.Context, keyword string) ([]entity.Fournisseur, error)
	ExistsByID(ctx context.Context, id uint64) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByTaxID(ctx context.Context, taxID string) (bool, error)
	Count(ctx context.Context) (int64, error)
	CountByCity(ctx context.Context, city string) (int64, error)
	// Save inserts the record when its ID is zero and overwrites it otherwise.
	// Overwriting a deleted record fails with ErrNotFound; ids are never reused.
	Save(ctx context.Context, fournisseur *entity.Fournisseur) error
	DeleteByID(ctx context.Context, id uint64) error
}
