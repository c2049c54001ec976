package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/youcode/tricol-fournisseurs/internal/domain/entity"
	domainRepo "github.com/youcode/tricol-fournisseurs/internal/domain/repository"
	"gorm.io/gorm"
)

// PostgreSQL unique_violation
const pgUniqueViolation = "23505"

// ESCAPE is spelled out because SQLite has no default LIKE escape character.
const searchClause = `LOWER(societe) LIKE ? ESCAPE '\' OR LOWER(ville) LIKE ? ESCAPE '\' OR LOWER(contact) LIKE ? ESCAPE '\'`

type fournisseurRepository struct {
	db *gorm.DB
}

// NewFournisseurRepository creates a new supplier repository
func NewFournisseurRepository(db *gorm.DB) domainRepo.FournisseurRepository {
	return &fournisseurRepository{db: db}
}

func (r *fournisseurRepository) FindByID(ctx context.Context, id uint64) (*entity.Fournisseur, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *fournisseurRepository) FindAll(ctx context.Context) ([]entity.Fournisseur, error) {
	return r.find(r.db.WithContext(ctx).Order("id ASC"))
}

func (r *fournisseurRepository) FindAllOrderByCompany(ctx context.Context) ([]entity.Fournisseur, error) {
	return r.find(r.db.WithContext(ctx).Order("societe ASC").Order("id ASC"))
}

func (r *fournisseurRepository) FindAllOrderByCityAndCompany(ctx context.Context) ([]entity.Fournisseur, error) {
	return r.find(r.db.WithContext(ctx).Order("ville ASC").Order("societe ASC").Order("id ASC"))
}

func (r *fournisseurRepository) FindByCity(ctx context.Context, city string) ([]entity.Fournisseur, error) {
	return r.find(r.db.WithContext(ctx).Where("ville = ?", city).Order("id ASC"))
}

func (r *fournisseurRepository) FindByCityOrderByCompany(ctx context.Context, city string) ([]entity.Fournisseur, error) {
	return r.find(r.db.WithContext(ctx).Where("ville = ?", city).Order("societe ASC").Order("id ASC"))
}

func (r *fournisseurRepository) FindByTaxID(ctx context.Context, taxID string) (*entity.Fournisseur, error) {
	return r.first(ctx, "ice = ?", taxID)
}

func (r *fournisseurRepository) FindByCompany(ctx context.Context, company string) (*entity.Fournisseur, error) {
	return r.first(ctx, "societe = ?", company)
}

func (r *fournisseurRepository) FindByCompanyContaining(ctx context.Context, text string) ([]entity.Fournisseur, error) {
	return r.find(r.db.WithContext(ctx).
		Where(`LOWER(societe) LIKE ? ESCAPE '\'`, containsPattern(text)).
		Order("id ASC"))
}

func (r *fournisseurRepository) FindByEmailEndingWith(ctx context.Context, suffix string) ([]entity.Fournisseur, error) {
	return r.find(r.db.WithContext(ctx).
		Where(`LOWER(email) LIKE ? ESCAPE '\'`, "%"+escapeLike(strings.ToLower(suffix))).
		Order("id ASC"))
}

// Search uses LOWER(...) LIKE instead of ILIKE so the same query runs on
// PostgreSQL and SQLite. SQLite's LOWER folds ASCII letters only, so there
// "salé" does not match a stored "SALÉ"; PostgreSQL folds both.
func (r *fournisseurRepository) Search(ctx context.Context, keyword string) ([]entity.Fournisseur, error) {
	pattern := containsPattern(keyword)
	return r.find(r.db.WithContext(ctx).
		Where(searchClause, pattern, pattern, pattern).
		Order("id ASC"))
}

func (r *fournisseurRepository) ExistsByID(ctx context.Context, id uint64) (bool, error) {
	return r.exists(ctx, "id = ?", id)
}

func (r *fournisseurRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email = ?", email)
}

func (r *fournisseurRepository) ExistsByTaxID(ctx context.Context, taxID string) (bool, error) {
	return r.exists(ctx, "ice = ?", taxID)
}

func (r *fournisseurRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&entity.Fournisseur{}).Count(&total).Error
	return total, err
}

func (r *fournisseurRepository) CountByCity(ctx context.Context, city string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&entity.Fournisseur{}).Where("ville = ?", city).Count(&total).Error
	return total, err
}

func (r *fournisseurRepository) Save(ctx context.Context, fournisseur *entity.Fournisseur) error {
	if fournisseur.IsNew() {
		return translateError(r.db.WithContext(ctx).Create(fournisseur).Error)
	}

	// gorm's Save would insert the row again when the UPDATE matches nothing.
	result := r.db.WithContext(ctx).
		Model(fournisseur).
		Select("*").
		Omit("id", "created_at").
		Updates(fournisseur)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domainRepo.ErrNotFound
	}
	return nil
}

func (r *fournisseurRepository) DeleteByID(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&entity.Fournisseur{}, "id = ?", id).Error
}

func (r *fournisseurRepository) first(ctx context.Context, query string, args ...interface{}) (*entity.Fournisseur, error) {
	var fournisseur entity.Fournisseur
	err := r.db.WithContext(ctx).Where(query, args...).Order("id ASC").First(&fournisseur).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &fournisseur, nil
}

func (r *fournisseurRepository) find(query *gorm.DB) ([]entity.Fournisseur, error) {
	fournisseurs := make([]entity.Fournisseur, 0)
	if err := query.Find(&fournisseurs).Error; err != nil {
		return nil, err
	}
	return fournisseurs, nil
}

func (r *fournisseurRepository) exists(ctx context.Context, query string, args ...interface{}) (bool, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&entity.Fournisseur{}).Where(query, args...).Limit(1).Count(&total).Error
	return total > 0, err
}

func containsPattern(text string) string {
	return "%" + escapeLike(strings.ToLower(text)) + "%"
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func translateError(err error) error {
	if isDuplicateKey(err) {
		return domainRepo.ErrDuplicateKey
	}
	return err
}

// isDuplicateKey recognises unique-constraint violations whether or not the
// dialect translated them into gorm.ErrDuplicatedKey.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
