// Package section owns the dashboard's view state: which section is active, its
// dataset, search and pagination, and the open edit session. Every change goes
// through a Controller method; nothing else holds mutable view state.
//
// Network calls are split from state changes so a UI event loop can run them on
// another goroutine:
//
//	req := c.Reload()           // on the loop: state -> Loading
//	res := c.Fetch(ctx, req)    // anywhere: no state touched
//	c.Apply(res)                // on the loop: applied only if req is the latest
//
// Load, Switch, Save, Delete and Import chain those steps synchronously.
package section

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"admintui/internal/api"
	"admintui/internal/crud"
	"admintui/internal/record"
	"admintui/internal/schema"
	"admintui/internal/viewmodel"
)

var (
	// ErrNoEditSession is returned when saving without an open form.
	ErrNoEditSession = errors.New("no form is open")
	// ErrRecordNotFound is returned when an id is not in the loaded dataset.
	ErrRecordNotFound = errors.New("item not found")
)

// LoadRequest identifies one list call. Token grows with every request issued.
type LoadRequest struct {
	Token    uint64
	Section  string
	Endpoint string
}

// LoadResult is the answer to a LoadRequest.
type LoadResult struct {
	Request LoadRequest
	Records []record.Record
	Err     error
}

// Controller is the single owner of the view state. It is not safe for concurrent
// use; call it from one goroutine (the UI loop).
type Controller struct {
	registry *schema.Registry
	api      api.ResourceAPI
	crud     *crud.Orchestrator
	logger   *zap.Logger

	state    State
	edit     *EditSession
	token    uint64
	handlers []func(State)
}

// New returns a controller with section initial active and nothing loaded.
func New(reg *schema.Registry, client api.ResourceAPI, logger *zap.Logger, initial string) (*Controller, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	d, err := reg.Describe(initial)
	if err != nil {
		return nil, err
	}
	return &Controller{
		registry: reg,
		api:      client,
		crud:     crud.New(client, logger),
		logger:   logger,
		state: State{
			Active:      initial,
			Descriptor:  d,
			PageSize:    viewmodel.DefaultPageSize,
			CurrentPage: 1,
			Status:      Idle,
		},
	}, nil
}

// OnChange registers a handler called with the new state after every change.
func (c *Controller) OnChange(fn func(State)) {
	c.handlers = append(c.handlers, fn)
}

// State returns a snapshot of the view state.
func (c *Controller) State() State { return c.state }

// Registry is the schema registry the controller consults.
func (c *Controller) Registry() *schema.Registry { return c.registry }

func (c *Controller) changed() {
	for _, fn := range c.handlers {
		fn(c.state)
	}
}

func (c *Controller) clamp() {
	c.state.CurrentPage = viewmodel.Clamp(c.state.CurrentPage, len(c.state.Filtered()), c.state.PageSize)
}

func (c *Controller) issue() LoadRequest {
	c.token++
	c.state.Status = Loading
	return LoadRequest{Token: c.token, Section: c.state.Active, Endpoint: c.state.Descriptor.Endpoint}
}

// SwitchSection makes id active and starts loading it. The search term is cleared
// when id differs from the active section; switching to the active section is a
// reload that keeps it.
func (c *Controller) SwitchSection(id string) (LoadRequest, error) {
	d, err := c.registry.Describe(id)
	if err != nil {
		return LoadRequest{}, err
	}
	if id != c.state.Active {
		c.state.Active = id
		c.state.Descriptor = d
		c.state.Dataset = nil
		c.state.SearchTerm = ""
		c.state.CurrentPage = 1
		c.state.Err = nil
		c.edit = nil
	}
	req := c.issue()
	c.logger.Debug("load issued", zap.String("section", id), zap.Uint64("token", req.Token))
	c.changed()
	return req, nil
}

// Reload starts reloading the active section. Allowed while a load is in flight;
// only the newest request's answer will be applied.
func (c *Controller) Reload() LoadRequest {
	req := c.issue()
	c.logger.Debug("reload issued", zap.String("section", req.Section), zap.Uint64("token", req.Token))
	c.changed()
	return req
}

// Fetch performs the list call for req. It reads no controller state and may run on
// any goroutine.
func (c *Controller) Fetch(ctx context.Context, req LoadRequest) LoadResult {
	records, err := c.api.List(ctx, req.Endpoint)
	return LoadResult{Request: req, Records: records, Err: err}
}

// Apply installs a load result. Results of superseded requests are dropped and
// Apply reports false. A failed load keeps the previous dataset.
func (c *Controller) Apply(res LoadResult) bool {
	if res.Request.Token != c.token {
		c.logger.Debug("stale load dropped",
			zap.String("section", res.Request.Section),
			zap.Uint64("token", res.Request.Token),
			zap.Uint64("latest", c.token))
		return false
	}
	if res.Err != nil {
		c.state.Status = Failed
		c.state.Err = res.Err
		c.logger.Warn("load failed", zap.String("section", res.Request.Section), zap.Error(res.Err))
	} else {
		c.state.Dataset = res.Records
		c.state.Status = Loaded
		c.state.Err = nil
		c.clamp()
		c.logger.Info("loaded", zap.String("section", res.Request.Section), zap.Int("records", len(res.Records)))
	}
	c.changed()
	return true
}

// Load reloads the active section and waits for the answer.
func (c *Controller) Load(ctx context.Context) error {
	c.Apply(c.Fetch(ctx, c.Reload()))
	return c.state.Err
}

// Switch activates id and waits for its dataset.
func (c *Controller) Switch(ctx context.Context, id string) error {
	req, err := c.SwitchSection(id)
	if err != nil {
		return err
	}
	c.Apply(c.Fetch(ctx, req))
	return c.state.Err
}

// SetSearch changes the search term and returns to page 1.
func (c *Controller) SetSearch(term string) {
	c.state.SearchTerm = term
	c.state.CurrentPage = 1
	c.changed()
}

// SetPageSize changes the page size and returns to page 1.
func (c *Controller) SetPageSize(size int) error {
	if !viewmodel.ValidPageSize(size) {
		return fmt.Errorf("page size %d not one of %v", size, viewmodel.PageSizes)
	}
	c.state.PageSize = size
	c.state.CurrentPage = 1
	c.changed()
	return nil
}

// GoToPage moves to page p if it exists; otherwise nothing changes.
func (c *Controller) GoToPage(p int) bool {
	total := viewmodel.TotalPages(len(c.state.Filtered()), c.state.PageSize)
	if p < 1 || p > total {
		return false
	}
	c.state.CurrentPage = p
	c.changed()
	return true
}

// NextPage moves forward one page if there is one.
func (c *Controller) NextPage() bool { return c.GoToPage(c.state.CurrentPage + 1) }

// PrevPage moves back one page if there is one.
func (c *Controller) PrevPage() bool { return c.GoToPage(c.state.CurrentPage - 1) }

// Page is the visible page of the active section.
func (c *Controller) Page() viewmodel.Page { return c.state.Page() }

// Find returns a record of the loaded dataset by id.
func (c *Controller) Find(id string) (record.Record, bool) {
	for _, r := range c.state.Dataset {
		if r.ID == id {
			return r, true
		}
	}
	return record.Record{}, false
}

// Options lists suggested values for a field of d from the section the field points
// at. Fields without a source yield nil. Reads no view state.
func (c *Controller) Options(ctx context.Context, d schema.Descriptor, field string) ([]string, error) {
	f, ok := d.Field(field)
	if !ok || f.OptionsFrom == "" {
		return nil, nil
	}
	src, err := c.registry.Describe(f.OptionsFrom)
	if err != nil {
		return nil, err
	}
	rows, err := c.api.List(ctx, src.Endpoint)
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	var out []string
	for _, r := range rows {
		v := r.String(field)
		if v != "" && !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out, nil
}
