package section

import (
	"context"

	"go.uber.org/zap"

	"admintui/internal/batch"
	"admintui/internal/crud"
	"admintui/internal/form"
	"admintui/internal/record"
	"admintui/internal/schema"
)

// Kind is the operation a Mutation performs.
type Kind int

const (
	KindCreate Kind = iota
	KindUpdate
	KindDelete
	KindImport
)

func (k Kind) String() string {
	switch k {
	case KindCreate:
		return "create"
	case KindUpdate:
		return "update"
	case KindDelete:
		return "delete"
	case KindImport:
		return "import"
	}
	return "unknown"
}

// Mutation is a validated write, ready to send. It carries everything Execute needs
// so it can run off the UI loop.
type Mutation struct {
	Kind       Kind
	Descriptor schema.Descriptor
	ID         string
	Draft      record.Draft
	Drafts     []record.Draft
}

// Edit returns the open edit session, if any.
func (c *Controller) Edit() (EditSession, bool) {
	if c.edit == nil {
		return EditSession{}, false
	}
	return *c.edit, true
}

// OpenCreate opens an empty create form for the active section.
func (c *Controller) OpenCreate() form.Values {
	c.edit = &EditSession{Section: c.state.Active, Mode: ModeCreate}
	c.changed()
	return form.Empty(c.state.Descriptor)
}

// OpenEdit opens the edit form of a loaded record.
func (c *Controller) OpenEdit(id string) (form.Values, error) {
	r, ok := c.Find(id)
	if !ok {
		return nil, ErrRecordNotFound
	}
	c.edit = &EditSession{Section: c.state.Active, Mode: ModeEdit, TargetID: id}
	c.changed()
	return form.ToForm(r, c.state.Descriptor), nil
}

// CloseEdit discards the edit session.
func (c *Controller) CloseEdit() {
	if c.edit == nil {
		return
	}
	c.edit = nil
	c.changed()
}

// PrepareSave turns the open form into a create or update. Missing required fields
// fail here with *crud.ValidationError and the session stays open.
func (c *Controller) PrepareSave(values form.Values) (Mutation, error) {
	if c.edit == nil {
		return Mutation{}, ErrNoEditSession
	}
	d := c.state.Descriptor
	m := Mutation{Kind: KindCreate, Descriptor: d, Draft: form.FromForm(values, d)}
	if c.edit.Mode == ModeEdit {
		m.Kind = KindUpdate
		m.ID = c.edit.TargetID
	}
	if err := crud.Validate(d, m.Draft); err != nil {
		c.fail(err)
		return Mutation{}, err
	}
	return m, nil
}

// PrepareDelete addresses a delete at a loaded record.
func (c *Controller) PrepareDelete(id string) (Mutation, error) {
	if _, ok := c.Find(id); !ok {
		return Mutation{}, ErrRecordNotFound
	}
	return Mutation{Kind: KindDelete, Descriptor: c.state.Descriptor, ID: id}, nil
}

// PrepareImport parses pasted text with the active section's line grammar. A
// *batch.ParseError rejects the whole batch.
func (c *Controller) PrepareImport(raw string) (Mutation, error) {
	d := c.state.Descriptor
	drafts, err := batch.Parse(raw, d)
	if err != nil {
		c.fail(err)
		return Mutation{}, err
	}
	return Mutation{Kind: KindImport, Descriptor: d, Drafts: drafts}, nil
}

// Execute sends a mutation. It reads no view state and may run on any goroutine.
func (c *Controller) Execute(ctx context.Context, m Mutation) (crud.Outcome, error) {
	switch m.Kind {
	case KindCreate:
		return c.crud.Create(ctx, m.Descriptor, m.Draft)
	case KindUpdate:
		return c.crud.Update(ctx, m.Descriptor, m.ID, m.Draft)
	case KindDelete:
		return c.crud.Delete(ctx, m.Descriptor, m.ID)
	default:
		return c.crud.BatchCreate(ctx, m.Descriptor, m.Drafts)
	}
}

// Complete records the result of an executed mutation. On success the edit session
// of a save is closed and a reload of the active section is issued; the dataset is
// only ever replaced by that reload. On failure nothing changes but the flash, unless
// a bulk create committed some records first; then the section is reloaded as well.
func (c *Controller) Complete(m Mutation, out crud.Outcome, err error) (LoadRequest, bool) {
	if err != nil {
		if out.Count > 0 {
			c.state.Flash = Flash{Text: out.Message, Error: true}
			c.logger.Warn("mutation partially applied", zap.Stringer("kind", m.Kind), zap.String("section", m.Descriptor.ID), zap.Int("count", out.Count), zap.Error(err))
			return c.Reload(), true
		}
		c.fail(err)
		return LoadRequest{}, false
	}
	if c.savedBy(m) {
		c.edit = nil
	}
	c.state.Flash = Flash{Text: out.Message, Error: out.Partial()}
	c.logger.Info("mutation done", zap.Stringer("kind", m.Kind), zap.String("section", m.Descriptor.ID))
	return c.Reload(), true
}

// savedBy reports whether m is the save of the open edit session.
func (c *Controller) savedBy(m Mutation) bool {
	if c.edit == nil || c.edit.Section != m.Descriptor.ID {
		return false
	}
	switch m.Kind {
	case KindCreate:
		return c.edit.Mode == ModeCreate
	case KindUpdate:
		return c.edit.Mode == ModeEdit && c.edit.TargetID == m.ID
	}
	return false
}

func (c *Controller) fail(err error) {
	c.state.Flash = Flash{Text: err.Error(), Error: true}
	c.changed()
}

func (c *Controller) run(ctx context.Context, m Mutation) (crud.Outcome, error) {
	out, err := c.Execute(ctx, m)
	req, ok := c.Complete(m, out, err)
	if ok {
		c.Apply(c.Fetch(ctx, req))
	}
	return out, err
}

// Save submits the open form and reloads on success.
func (c *Controller) Save(ctx context.Context, values form.Values) (crud.Outcome, error) {
	m, err := c.PrepareSave(values)
	if err != nil {
		return crud.Outcome{}, err
	}
	return c.run(ctx, m)
}

// Delete removes a loaded record and reloads on success.
func (c *Controller) Delete(ctx context.Context, id string) (crud.Outcome, error) {
	m, err := c.PrepareDelete(id)
	if err != nil {
		return crud.Outcome{}, err
	}
	return c.run(ctx, m)
}

// Import parses raw text, bulk-creates the drafts and reloads on success.
func (c *Controller) Import(ctx context.Context, raw string) (crud.Outcome, error) {
	m, err := c.PrepareImport(raw)
	if err != nil {
		return crud.Outcome{}, err
	}
	return c.run(ctx, m)
}
