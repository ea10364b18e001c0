package league

import "context"

// Repository describes the league descriptor lookups use cases need.
type Repository interface {
	List(ctx context.Context) ([]Descriptor, error)
	GetByKey(ctx context.Context, key string) (Descriptor, bool, error)
}
