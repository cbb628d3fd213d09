// AngelaMos | 2026
// dto.go

package category

type CategoryRequest struct {
	Name     string `json:"name"                         validate:"required,min=1,max=100"`
	Image    string `json:"image"                        validate:"omitempty,max=500"`
	ParentID *int64 `json:"parent_category_id,omitempty" validate:"omitempty,gt=0"`
}

type CategoryResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Image    string `json:"image"`
	ParentID *int64 `json:"parent_category_id"`
}

func ToCategoryResponse(c *Category) CategoryResponse {
	return CategoryResponse{
		ID:       c.ID,
		Name:     c.Name,
		Image:    c.Image,
		ParentID: c.ParentID,
	}
}

func ToCategoryResponseList(categories []Category) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		out = append(out, ToCategoryResponse(&categories[i]))
	}
	return out
}
