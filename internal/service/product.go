package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"food_app/internal/domain"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductLookup resolves catalog entries for the order workflow
type ProductLookup interface {
	FindByID(ctx context.Context, id uint) (*domain.Product, error)
}

// ProductInput carries the editable product fields
type ProductInput struct {
	Name        string
	Price       decimal.Decimal
	Description string
	ImagePath   string
	Category    string
}

// ProductService is the catalog
type ProductService struct {
	db *gorm.DB
}

func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{db: db}
}

// List returns products, optionally filtered by category and a name substring
func (s *ProductService) List(ctx context.Context, category, search string) ([]domain.Product, error) {
	q := s.db.WithContext(ctx).Model(&domain.Product{})
	if category != "" && category != "All" {
		q = q.Where("category = ?", category)
	}
	if search = strings.TrimSpace(search); search != "" {
		q = q.Where("name LIKE ?", "%"+search+"%")
	}
	products := []domain.Product{}
	if err := q.Order("id desc").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// FindByID returns one product or ErrProductNotFound
func (s *ProductService) FindByID(ctx context.Context, id uint) (*domain.Product, error) {
	var p domain.Product
	if err := s.db.WithContext(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("load product: %w", err)
	}
	return &p, nil
}

// Create adds a product to the catalog
func (s *ProductService) Create(ctx context.Context, in ProductInput) (*domain.Product, error) {
	if err := validateProduct(&in); err != nil {
		return nil, err
	}
	p := domain.Product{
		Name:        in.Name,
		Price:       in.Price,
		Description: in.Description,
		ImagePath:   in.ImagePath,
		Category:    in.Category,
	}
	if err := s.db.WithContext(ctx).Create(&p).Error; err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return &p, nil
}

// Update replaces the editable fields of a product
func (s *ProductService) Update(ctx context.Context, id uint, in ProductInput) (*domain.Product, error) {
	if err := validateProduct(&in); err != nil {
		return nil, err
	}
	p, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	err = s.db.WithContext(ctx).Model(p).Updates(map[string]any{
		"name":        in.Name,
		"price":       in.Price,
		"description": in.Description,
		"image_path":  in.ImagePath,
		"category":    in.Category,
	}).Error
	if err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	return s.FindByID(ctx, id)
}

// Delete removes a product; order items keep their name snapshot
func (s *ProductService) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&domain.Product{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func validateProduct(in *ProductInput) error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" || !in.Price.IsPositive() {
		return fmt.Errorf("%w: name and a positive price are required", ErrValidation)
	}
	if !domain.IsMoney(in.Price) {
		return fmt.Errorf("%w: price has more than %d decimal places", ErrValidation, domain.MoneyScale)
	}
	if in.Category == "" {
		in.Category = domain.DefaultCategory
	}
	return nil
}
