// Package crud runs create, update, delete and bulk create against the Resource API.
// Drafts are checked locally first; nothing is applied to local state here, the
// caller reloads the section after a success.
package crud

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"admintui/internal/api"
	"admintui/internal/record"
	"admintui/internal/schema"
)

// ValidationError lists the required fields a draft is missing. No request was sent.
type ValidationError struct {
	Section string
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s required", strings.Join(e.Missing, ", "))
}

// Outcome is what a successful operation reports.
type Outcome struct {
	Message   string
	Record    record.Record
	Count     int // bulk create only: created by the server
	Submitted int // bulk create only: sent in the request
}

// Partial reports whether a bulk create committed fewer records than it sent.
func (o Outcome) Partial() bool {
	return o.Submitted > 0 && o.Count < o.Submitted
}

// Orchestrator validates drafts and forwards them to the API.
type Orchestrator struct {
	api    api.ResourceAPI
	logger *zap.Logger
}

// New returns an orchestrator over client.
func New(client api.ResourceAPI, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{api: client, logger: logger}
}

// Validate checks every required field is present and not blank.
func Validate(d schema.Descriptor, draft record.Draft) error {
	var missing []string
	for _, name := range d.RequiredFields {
		v, ok := draft.Get(name)
		if !ok || strings.TrimSpace(v) == "" {
			missing = append(missing, label(d, name))
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Section: d.ID, Missing: missing}
	}
	return nil
}

func label(d schema.Descriptor, name string) string {
	if f, ok := d.Field(name); ok && f.Label != "" {
		return f.Label
	}
	return name
}

// Create validates and posts a new record.
func (o *Orchestrator) Create(ctx context.Context, d schema.Descriptor, draft record.Draft) (Outcome, error) {
	if err := Validate(d, draft); err != nil {
		return Outcome{}, err
	}
	res, err := o.api.Create(ctx, d.Endpoint, draft)
	if err != nil {
		o.logger.Warn("create failed", zap.String("section", d.ID), zap.Error(err))
		return Outcome{}, fmt.Errorf("create %s: %w", strings.ToLower(d.Title), err)
	}
	o.logger.Info("created", zap.String("section", d.ID), zap.String("id", res.Record.ID))
	return Outcome{Message: message(res.Message, d.Title+" created successfully"), Record: res.Record}, nil
}

// Update validates and replaces the record addressed by id.
func (o *Orchestrator) Update(ctx context.Context, d schema.Descriptor, id string, draft record.Draft) (Outcome, error) {
	if err := Validate(d, draft); err != nil {
		return Outcome{}, err
	}
	res, err := o.api.Update(ctx, d.Endpoint, id, draft)
	if err != nil {
		o.logger.Warn("update failed", zap.String("section", d.ID), zap.String("id", id), zap.Error(err))
		return Outcome{}, fmt.Errorf("update %s %s: %w", strings.ToLower(d.Title), id, err)
	}
	o.logger.Info("updated", zap.String("section", d.ID), zap.String("id", id))
	return Outcome{Message: message(res.Message, d.Title+" updated successfully"), Record: res.Record}, nil
}

// Delete removes the record addressed by id.
func (o *Orchestrator) Delete(ctx context.Context, d schema.Descriptor, id string) (Outcome, error) {
	res, err := o.api.Delete(ctx, d.Endpoint, id)
	if err != nil {
		o.logger.Warn("delete failed", zap.String("section", d.ID), zap.String("id", id), zap.Error(err))
		return Outcome{}, fmt.Errorf("delete %s %s: %w", strings.ToLower(d.Title), id, err)
	}
	o.logger.Info("deleted", zap.String("section", d.ID), zap.String("id", id))
	return Outcome{Message: message(res.Message, d.Title+" deleted successfully")}, nil
}

// BatchCreate submits every draft in one request. A server that commits fewer records
// than sent is reported through Outcome.Partial, not as an error; nothing is rolled
// back and the caller's reload shows what was committed. When the request fails after
// some records were committed, the Outcome carries that count alongside the error.
func (o *Orchestrator) BatchCreate(ctx context.Context, d schema.Descriptor, drafts []record.Draft) (Outcome, error) {
	n, err := o.api.BatchCreate(ctx, d.Endpoint, d.PluralKey, drafts)
	plural := strings.ToLower(d.Plural)
	if err != nil {
		o.logger.Warn("batch create failed", zap.String("section", d.ID), zap.Int("count", n), zap.Int("submitted", len(drafts)), zap.Error(err))
		err = fmt.Errorf("import %s: %w", plural, err)
		if n <= 0 {
			return Outcome{}, err
		}
		return Outcome{
			Message:   fmt.Sprintf("Created %d of %d %s before the import failed: %v", n, len(drafts), plural, err),
			Count:     n,
			Submitted: len(drafts),
		}, err
	}
	out := Outcome{Count: n, Submitted: len(drafts)}
	if out.Partial() {
		out.Message = fmt.Sprintf("Created %d of %d %s; the rest were rejected by the server", n, len(drafts), plural)
		o.logger.Warn("batch create partially applied", zap.String("section", d.ID), zap.Int("count", n), zap.Int("submitted", len(drafts)))
	} else {
		out.Message = fmt.Sprintf("Created %d %s", n, plural)
		o.logger.Info("batch created", zap.String("section", d.ID), zap.Int("count", n))
	}
	return out, nil
}

func message(server, fallback string) string {
	if strings.TrimSpace(server) != "" {
		return server
	}
	return fallback
}
