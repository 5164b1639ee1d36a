// Package api is the Resource API contract the dashboard talks to and its HTTP
// implementation.
//
//	list          GET    {base}
//	create        POST   {base}
//	update        PUT    {base}/{id}
//	delete        DELETE {base}/{id}
//	batch create  POST   {base}/batch   { <pluralKey>: [drafts] } -> { count }
package api

import (
	"context"

	"admintui/internal/record"
)

// Result is what a successful mutation reports back.
type Result struct {
	Message string
	Record  record.Record // zero for deletes
}

// ResourceAPI is implemented by every backend the dashboard can manage.
type ResourceAPI interface {
	List(ctx context.Context, base string) ([]record.Record, error)
	Create(ctx context.Context, base string, draft record.Draft) (Result, error)
	Update(ctx context.Context, base, id string, draft record.Draft) (Result, error)
	Delete(ctx context.Context, base, id string) (Result, error)
	BatchCreate(ctx context.Context, base, pluralKey string, drafts []record.Draft) (int, error)
}
