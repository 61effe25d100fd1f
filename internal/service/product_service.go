package service

import (
	"context"
	"fmt"
	"time"

	"autoparts/internal/model"
	"autoparts/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// productService implements ProductService.
type productService struct {
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(productRepo repository.ProductRepository, logger zerolog.Logger) ProductService {
	return &productService{
		productRepo: productRepo,
		logger:      logger.With().Str("service", "product").Logger(),
	}
}

// GetAll retrieves products with pagination.
func (s *productService) GetAll(ctx context.Context, limit, offset int) ([]model.Product, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.productRepo.GetAll(ctx, limit, offset)
}

// GetByID retrieves a single product.
func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}
	return product, nil
}

// Create adds a new product to the catalogue.
func (s *productService) Create(ctx context.Context, req *model.ProductRequest) (*model.Product, error) {
	if err := validateProductRequest(req); err != nil {
		return nil, err
	}

	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}

	product := &model.Product{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price.Round(2),
		CategoryID:  req.CategoryID,
		Images:      req.Images,
		IsAvailable: available,
		CreatedAt:   time.Now(),
	}
	if product.Images == nil {
		product.Images = []string{}
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("product_id", product.ID.String()).
		Str("name", product.Name).
		Msg("product created")

	return product, nil
}

// Update replaces a product's mutable fields.
func (s *productService) Update(ctx context.Context, id uuid.UUID, req *model.ProductRequest) (*model.Product, error) {
	if err := validateProductRequest(req); err != nil {
		return nil, err
	}

	existing, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if existing == nil {
		return nil, model.ErrProductNotFound
	}

	existing.Name = req.Name
	existing.Description = req.Description
	existing.Price = req.Price.Round(2)
	existing.CategoryID = req.CategoryID
	if req.Images != nil {
		existing.Images = req.Images
	}
	if req.IsAvailable != nil {
		existing.IsAvailable = *req.IsAvailable
	}

	updated, err := s.productRepo.Update(ctx, existing)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, model.ErrProductNotFound
	}

	return existing, nil
}

// Delete removes a product from the catalogue. Existing order items keep
// their name/price snapshots.
func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	removed, err := s.productRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !removed {
		return model.ErrProductNotFound
	}

	s.logger.Info().Str("product_id", id.String()).Msg("product deleted")
	return nil
}

// AddImage appends an image URL to a product.
func (s *productService) AddImage(ctx context.Context, id uuid.UUID, url string) (*model.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}

	product.Images = append(product.Images, url)

	updated, err := s.productRepo.Update(ctx, product)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, model.ErrProductNotFound
	}

	return product, nil
}

// ListCategories returns all categories.
func (s *productService) ListCategories(ctx context.Context) ([]model.Category, error) {
	return s.productRepo.ListCategories(ctx)
}

// CreateCategory adds a new category.
func (s *productService) CreateCategory(ctx context.Context, req *model.CategoryRequest) (*model.Category, error) {
	if req.Name == "" {
		return nil, model.ValidationError(model.ErrCodeInvalidJSON, "category name is required")
	}

	category := &model.Category{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
	}

	if err := s.productRepo.CreateCategory(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

// DeleteCategory removes a category.
func (s *productService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	removed, err := s.productRepo.DeleteCategory(ctx, id)
	if err != nil {
		return err
	}
	if !removed {
		return model.NotFoundError(model.ErrCodeCategoryNotFound, "category not found")
	}
	return nil
}

func validateProductRequest(req *model.ProductRequest) error {
	if req == nil {
		return fmt.Errorf("product request is nil")
	}
	if req.Name == "" {
		return model.ValidationError(model.ErrCodeInvalidJSON, "product name is required")
	}
	if req.Price.LessThan(decimal.Zero) {
		return model.ValidationError(model.ErrCodeInvalidJSON, "product price cannot be negative")
	}
	if req.CategoryID == uuid.Nil {
		return model.ValidationError(model.ErrCodeInvalidJSON, "product category is required")
	}
	return nil
}
