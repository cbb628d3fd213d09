// AngelaMos | 2026
// dto.go

package product

import (
	"time"

	"github.com/shopspring/decimal"
)

type VariantRequest struct {
	ID     int64         `json:"variant_id,omitempty"`
	Color  string        `json:"color"                validate:"required,max=50"`
	Image  string        `json:"image"                validate:"omitempty,max=500"`
	Status VariantStatus `json:"status"               validate:"gte=0,lte=2"`
	IsNew  bool          `json:"is_new,omitempty"`
}

type CreateProductRequest struct {
	Name          string           `json:"name"                     validate:"required,min=1,max=255"`
	Description   *string          `json:"description,omitempty"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"original_price,omitempty"`
	Discount      *int16           `json:"discount,omitempty"       validate:"omitempty,gte=0,lte=100"`
	Image         string           `json:"image"                    validate:"omitempty,max=500"`
	CategoryID    *int64           `json:"category_id,omitempty"    validate:"omitempty,gt=0"`
	Variants      []VariantRequest `json:"variants"                 validate:"dive"`
}

type UpdateProductRequest struct {
	CreateProductRequest
	DeletedVariants []int64 `json:"deleted_variants,omitempty"`
}

type VariantResponse struct {
	ID     int64         `json:"variant_id"`
	Color  string        `json:"color"`
	Image  string        `json:"image"`
	Status VariantStatus `json:"status"`
}

type ProductResponse struct {
	ID            int64             `json:"id"`
	Name          string            `json:"name"`
	Description   *string           `json:"description,omitempty"`
	Price         decimal.Decimal   `json:"price"`
	OriginalPrice *decimal.Decimal  `json:"original_price,omitempty"`
	Discount      *int16            `json:"discount,omitempty"`
	Image         string            `json:"image"`
	CategoryID    *int64            `json:"category_id,omitempty"`
	CategoryName  *string           `json:"category_name,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
	Variants      []VariantResponse `json:"variants"`
}

type ProductBrief struct {
	ID    int64           `db:"id"    json:"id"`
	Name  string          `db:"name"  json:"name"`
	Price decimal.Decimal `db:"price" json:"price"`
}

func ToProductResponse(p *Product) ProductResponse {
	variants := make([]VariantResponse, 0, len(p.Variants))
	for _, v := range p.Variants {
		variants = append(variants, VariantResponse{
			ID:     v.ID,
			Color:  v.Color,
			Image:  v.Image,
			Status: v.Status,
		})
	}

	return ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		OriginalPrice: p.OriginalPrice,
		Discount:      p.Discount,
		Image:         p.Image,
		CategoryID:    p.CategoryID,
		CategoryName:  p.CategoryName,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
		Variants:      variants,
	}
}

func ToProductResponseList(products []Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, ToProductResponse(&products[i]))
	}
	return out
}
