package domain

import "context"

// Category is a lookup value for grouping events (e.g. "Social", "Academic").
// swagger:model Category
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CategoryRepository defines the interface for category storage
type CategoryRepository interface {
	GetByID(ctx context.Context, id string) (*Category, error)
	List(ctx context.Context) ([]*Category, error)
}
