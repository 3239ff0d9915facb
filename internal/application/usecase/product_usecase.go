package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/smartstore/backend/internal/application/dto"
	"github.com/smartstore/backend/internal/domain"
	"github.com/smartstore/backend/internal/domain/entity"
	"github.com/smartstore/backend/internal/domain/repository"
)

// Valores por defecto del catálogo.
const (
	DefaultCategory = "عام"
	DefaultUnit     = "قطعة"
)

// ProductUseCase gestión del catálogo de productos. La cantidad en stock no
// se edita por aquí: solo ventas, reposiciones y ajustes la mueven.
type ProductUseCase struct {
	products repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(products repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{products: products}
}

// Create da de alta un producto. La cantidad inicial se registra tal cual;
// los movimientos posteriores quedan en el libro de inventario.
func (uc *ProductUseCase) Create(ctx context.Context, userID int64, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
	}
	if in.PurchasePrice.IsNegative() || in.SellingPrice.IsNegative() {
		return nil, fmt.Errorf("%w: los precios deben ser no negativos", domain.ErrInvalidInput)
	}
	if in.Quantity.IsNegative() || in.MinQuantity.IsNegative() {
		return nil, fmt.Errorf("%w: las cantidades deben ser no negativas", domain.ErrInvalidInput)
	}
	if in.ExpiryDate != nil && in.ExpiryDate.Before(time.Now()) {
		return nil, fmt.Errorf("%w: fecha %s", domain.ErrExpiryDateInPast, in.ExpiryDate.Format("2006-01-02"))
	}

	now := time.Now()
	p := &entity.Product{
		Barcode:       in.Barcode,
		Name:          in.Name,
		Category:      in.Category,
		Unit:          in.Unit,
		PurchasePrice: in.PurchasePrice,
		SellingPrice:  in.SellingPrice,
		Quantity:      in.Quantity,
		MinQuantity:   in.MinQuantity,
		ExpiryDate:    in.ExpiryDate,
		Notes:         in.Notes,
		IsActive:      true,
		CreatedBy:     userID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if p.Category == "" {
		p.Category = DefaultCategory
	}
	if p.Unit == "" {
		p.Unit = DefaultUnit
	}
	if err := uc.products.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return toProductResponse(p), nil
}

// GetByID devuelve un producto del catálogo.
func (uc *ProductUseCase) GetByID(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	p, err := uc.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: producto %d", domain.ErrProductNotFound, id)
	}
	return toProductResponse(p), nil
}

// Update edita los campos del catálogo presentes en la petición.
func (uc *ProductUseCase) Update(ctx context.Context, id int64, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := uc.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: producto %d", domain.ErrProductNotFound, id)
	}

	if in.Name != "" {
		p.Name = in.Name
	}
	if in.Category != "" {
		p.Category = in.Category
	}
	if in.Unit != "" {
		p.Unit = in.Unit
	}
	if in.PurchasePrice != nil {
		if in.PurchasePrice.IsNegative() {
			return nil, fmt.Errorf("%w: precio de compra negativo", domain.ErrInvalidInput)
		}
		p.PurchasePrice = *in.PurchasePrice
	}
	if in.SellingPrice != nil {
		if in.SellingPrice.IsNegative() {
			return nil, fmt.Errorf("%w: precio de venta negativo", domain.ErrInvalidInput)
		}
		p.SellingPrice = *in.SellingPrice
	}
	if in.MinQuantity != nil {
		if in.MinQuantity.IsNegative() {
			return nil, fmt.Errorf("%w: cantidad mínima negativa", domain.ErrInvalidInput)
		}
		p.MinQuantity = *in.MinQuantity
	}
	if in.ExpiryDate != nil {
		p.ExpiryDate = in.ExpiryDate
	}
	if in.Notes != "" {
		p.Notes = in.Notes
	}
	p.UpdatedAt = time.Now()

	if err := uc.products.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	return toProductResponse(p), nil
}

// List devuelve una página del catálogo con estadísticas del resultado.
func (uc *ProductUseCase) List(ctx context.Context, in dto.ProductListRequest) (*dto.ProductListResponse, error) {
	page := in.PageRequest
	page.DefaultPage()
	filter := repository.ProductFilter{
		Category:     in.Category,
		Search:       in.Search,
		LowStock:     in.LowStock,
		ExpiringSoon: in.ExpiringSoon,
		Limit:        page.Limit,
		Offset:       page.Offset,
	}
	products, total, err := uc.products.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	resp := &dto.ProductListResponse{
		Data:       make([]dto.ProductResponse, 0, len(products)),
		Pagination: dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}
	for _, p := range products {
		resp.Data = append(resp.Data, *toProductResponse(p))
		resp.Statistics.TotalStockValue = resp.Statistics.TotalStockValue.Add(p.StockValue())
	}
	resp.Statistics.TotalProducts = total
	return resp, nil
}

// Deactivate marca un producto como inactivo; no se borra del histórico porque
// las líneas de venta y los movimientos lo referencian.
func (uc *ProductUseCase) Deactivate(ctx context.Context, id int64) error {
	p, err := uc.products.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("%w: producto %d", domain.ErrProductNotFound, id)
	}
	return uc.products.Deactivate(ctx, id)
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:            p.ID,
		Barcode:       p.Barcode,
		Name:          p.Name,
		Category:      p.Category,
		Unit:          p.Unit,
		PurchasePrice: p.PurchasePrice,
		SellingPrice:  p.SellingPrice,
		Quantity:      p.Quantity,
		MinQuantity:   p.MinQuantity,
		ExpiryDate:    p.ExpiryDate,
		Notes:         p.Notes,
		IsActive:      p.IsActive,
		ProfitMargin:  p.ProfitMargin().Round(2),
		StockValue:    p.StockValue(),
	}
}
