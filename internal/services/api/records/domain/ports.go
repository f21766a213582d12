package domain

import "context"

// ServicePort is consumed by handlers and other modules
type ServicePort interface {
	Sources(ctx context.Context) ([]SourceInfo, error)
	List(ctx context.Context, in RecordsInput) (*RecordsResponse, error)
}
