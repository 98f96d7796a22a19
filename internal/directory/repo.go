package directory

import (
	"context"

	"gorm.io/gorm"

	"github.com/angelmondragon/materialhub-backend/pkg/db/models"
)

// Repository reads vendor and client site records.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListVendors(ctx context.Context) ([]models.Vendor, error)
	FindVendor(ctx context.Context, id string) (*models.Vendor, error)
	FindClientSite(ctx context.Context, id string) (*models.ClientSite, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a directory repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// ListVendors returns every vendor with its materials in entry order.
func (r *repository) ListVendors(ctx context.Context) ([]models.Vendor, error) {
	var vendors []models.Vendor
	err := r.db.WithContext(ctx).
		Preload("Materials", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("position ASC, id ASC")
		}).
		Order("created_at ASC, id ASC").
		Find(&vendors).Error
	if err != nil {
		return nil, err
	}
	return vendors, nil
}

func (r *repository) FindVendor(ctx context.Context, id string) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&vendor).Error; err != nil {
		return nil, err
	}
	return &vendor, nil
}

func (r *repository) FindClientSite(ctx context.Context, id string) (*models.ClientSite, error) {
	var site models.ClientSite
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&site).Error; err != nil {
		return nil, err
	}
	return &site, nil
}
