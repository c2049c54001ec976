package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/youcode/tricol-fournisseurs/internal/domain/entity"
	"github.com/youcode/tricol-fournisseurs/internal/domain/repository"
	"github.com/youcode/tricol-fournisseurs/pkg/apperror"
)

const (
	msgEmailTaken   = "Un fournisseur avec cet email existe déjà"
	msgTaxIDTaken   = "Un fournisseur avec cet ICE existe déjà"
	msgDuplicateKey = "Un fournisseur avec cet email ou cet ICE existe déjà"
)

// FournisseurService handles supplier-related operations
type FournisseurService struct {
	repo repository.FournisseurRepository
	now  func() time.Time
}

// Option customises a FournisseurService
type Option func(*FournisseurService)

// WithClock replaces the time source used for created_at/updated_at
func WithClock(now func() time.Time) Option {
	return func(s *FournisseurService) {
		s.now = now
	}
}

// NewFournisseurService creates a new supplier service
func NewFournisseurService(repo repository.FournisseurRepository, opts ...Option) *FournisseurService {
	s := &FournisseurService{
		repo: repo,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FournisseurInput carries the mutable fields of a supplier
type FournisseurInput struct {
	Company string
	Address string
	Contact string
	Email   string
	Phone   string
	City    string
	TaxID   string
}

func notFound(id uint64) error {
	return apperror.NewNotFoundError(fmt.Sprintf("Fournisseur non trouvé avec l'ID: %d", id))
}

// timestamp is truncated to microseconds, the precision PostgreSQL keeps.
func (s *FournisseurService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

// Create persists a new supplier after checking that its email and ICE are free
func (s *FournisseurService) Create(ctx context.Context, input *FournisseurInput) (*entity.Fournisseur, error) {
	if err := s.ensureEmailFree(ctx, input.Email); err != nil {
		return nil, err
	}
	if err := s.ensureTaxIDFree(ctx, input.TaxID); err != nil {
		return nil, err
	}

	now := s.timestamp()
	fournisseur := &entity.Fournisseur{CreatedAt: now, UpdatedAt: now}
	input.applyTo(fournisseur)

	if err := s.save(ctx, fournisseur); err != nil {
		return nil, err
	}
	return fournisseur, nil
}

// Update overwrites every mutable field of an existing supplier. Uniqueness
// is only re-checked for an email or ICE that actually changed.
func (s *FournisseurService) Update(ctx context.Context, id uint64, input *FournisseurInput) (*entity.Fournisseur, error) {
	fournisseur, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.NewInternalError(err)
	}
	if fournisseur == nil {
		return nil, notFound(id)
	}

	if fournisseur.Email != input.Email {
		if err := s.ensureEmailFree(ctx, input.Email); err != nil {
			return nil, err
		}
	}
	if fournisseur.TaxID != input.TaxID {
		if err := s.ensureTaxIDFree(ctx, input.TaxID); err != nil {
			return nil, err
		}
	}

	input.applyTo(fournisseur)
	if now := s.timestamp(); now.After(fournisseur.UpdatedAt) {
		fournisseur.UpdatedAt = now
	}

	if err := s.save(ctx, fournisseur); err != nil {
		return nil, err
	}
	return fournisseur, nil
}

// Delete removes a supplier
func (s *FournisseurService) Delete(ctx context.Context, id uint64) error {
	exists, err := s.repo.ExistsByID(ctx, id)
	if err != nil {
		return apperror.NewInternalError(err)
	}
	if !exists {
		return notFound(id)
	}
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return apperror.NewInternalError(err)
	}
	return nil
}

// GetByID returns the supplier or nil when it does not exist
func (s *FournisseurService) GetByID(ctx context.Context, id uint64) (*entity.Fournisseur, error) {
	return wrapOne(s.repo.FindByID(ctx, id))
}

// GetAll returns every supplier in store order
func (s *FournisseurService) GetAll(ctx context.Context) ([]entity.Fournisseur, error) {
	return wrapMany(s.repo.FindAll(ctx))
}

// GetAllSortedByName returns every supplier ordered by company name
func (s *FournisseurService) GetAllSortedByName(ctx context.Context) ([]entity.Fournisseur, error) {
	return wrapMany(s.repo.FindAllOrderByCompany(ctx))
}

// GetAllSortedByCityAndName returns every supplier ordered by city, then company name
func (s *FournisseurService) GetAllSortedByCityAndName(ctx context.Context) ([]entity.Fournisseur, error) {
	return wrapMany(s.repo.FindAllOrderByCityAndCompany(ctx))
}

func (s *FournisseurService) FindByCompany(ctx context.Context, company string) (*entity.Fournisseur, error) {
	return wrapOne(s.repo.FindByCompany(ctx, company))
}

func (s *FournisseurService) FindByCity(ctx context.Context, city string) ([]entity.Fournisseur, error) {
	return wrapMany(s.repo.FindByCity(ctx, city))
}

// FindByCityOrderedByName returns the suppliers of a city ordered by company name
func (s *FournisseurService) FindByCityOrderedByName(ctx context.Context, city string) ([]entity.Fournisseur, error) {
	return wrapMany(s.repo.FindByCityOrderByCompany(ctx, city))
}

func (s *FournisseurService) FindByTaxID(ctx context.Context, taxID string) (*entity.Fournisseur, error) {
	return wrapOne(s.repo.FindByTaxID(ctx, taxID))
}

// FindByEmailDomain returns the suppliers whose email ends with "@"+domain.
// A leading "@" in domain is accepted.
func (s *FournisseurService) FindByEmailDomain(ctx context.Context, domain string) ([]entity.Fournisseur, error) {
	if len(domain) == 0 || domain[0] != '@' {
		domain = "@" + domain
	}
	return wrapMany(s.repo.FindByEmailEndingWith(ctx, domain))
}

// SearchByCompanyKeyword matches a case-insensitive substring of the company name only
func (s *FournisseurService) SearchByCompanyKeyword(ctx context.Context, text string) ([]entity.Fournisseur, error) {
	return wrapMany(s.repo.FindByCompanyContaining(ctx, text))
}

// Search matches a case-insensitive substring of company, city or contact
func (s *FournisseurService) Search(ctx context.Context, keyword string) ([]entity.Fournisseur, error) {
	return wrapMany(s.repo.Search(ctx, keyword))
}

func (s *FournisseurService) Count(ctx context.Context) (int64, error) {
	return wrapCount(s.repo.Count(ctx))
}

func (s *FournisseurService) CountByCity(ctx context.Context, city string) (int64, error) {
	return wrapCount(s.repo.CountByCity(ctx, city))
}

func (s *FournisseurService) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return wrapExists(s.repo.ExistsByEmail(ctx, email))
}

func (s *FournisseurService) ExistsByTaxID(ctx context.Context, taxID string) (bool, error) {
	return wrapExists(s.repo.ExistsByTaxID(ctx, taxID))
}

func (s *FournisseurService) ensureEmailFree(ctx context.Context, email string) error {
	taken, err := s.ExistsByEmail(ctx, email)
	if err != nil {
		return err
	}
	if taken {
		return apperror.NewConflictError(msgEmailTaken)
	}
	return nil
}

func (s *FournisseurService) ensureTaxIDFree(ctx context.Context, taxID string) error {
	taken, err := s.ExistsByTaxID(ctx, taxID)
	if err != nil {
		return err
	}
	if taken {
		return apperror.NewConflictError(msgTaxIDTaken)
	}
	return nil
}

// save maps a unique-index rejection to a conflict; the pre-checks above
// cannot see a concurrent insert of the same email or ICE. A record deleted
// since it was read is reported as not found.
func (s *FournisseurService) save(ctx context.Context, fournisseur *entity.Fournisseur) error {
	err := s.repo.Save(ctx, fournisseur)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrDuplicateKey):
		return apperror.NewConflictError(msgDuplicateKey)
	case errors.Is(err, repository.ErrNotFound):
		return notFound(fournisseur.ID)
	default:
		return apperror.NewInternalError(err)
	}
}

func (in *FournisseurInput) applyTo(f *entity.Fournisseur) {
	f.Company = in.Company
	f.Address = in.Address
	f.Contact = in.Contact
	f.Email = in.Email
	f.Phone = in.Phone
	f.City = in.City
	f.TaxID = in.TaxID
}

func wrapOne(f *entity.Fournisseur, err error) (*entity.Fournisseur, error) {
	if err != nil {
		return nil, apperror.NewInternalError(err)
	}
	return f, nil
}

func wrapMany(list []entity.Fournisseur, err error) ([]entity.Fournisseur, error) {
	if err != nil {
		return nil, apperror.NewInternalError(err)
	}
	return list, nil
}

func wrapCount(n int64, err error) (int64, error) {
	if err != nil {
		return 0, apperror.NewInternalError(err)
	}
	return n, nil
}

func wrapExists(ok bool, err error) (bool, error) {
	if err != nil {
		return false, apperror.NewInternalError(err)
	}
	return ok, nil
}
