// Package pricing holds the editable table of model prices and the
// per-row edit state machine. Each row is either committed or being
// edited; the table is written to storage only when an edit is saved, a
// row is deleted, the unit is toggled or the data is reset.
//
// A Table is not safe for concurrent use.
package pricing

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/julianshen/ratiocalc/internal/multiplier"
	"github.com/julianshen/ratiocalc/internal/seed"
	"github.com/julianshen/ratiocalc/internal/store"
)

const (
	DefaultDataKey = "calculatorData"
	DefaultUnitKey = "calculatorUnit"

	DeletePrompt = "Are you sure you want to delete this row?"
	ResetPrompt  = "Are you sure you want to reset all data? This will discard every edit."
)

var (
	ErrIndexOutOfRange = errors.New("row index out of range")
	ErrUnknownField    = errors.New("unknown field")
	ErrCorruptData     = errors.New("persisted table data is corrupt")
)

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

var (
	// Always accepts every confirmation.
	Always Confirmer = ConfirmFunc(func(string) bool { return true })
	// Never declines every confirmation.
	Never Confirmer = ConfirmFunc(func(string) bool { return false })
)

// Table is the ordered list of rows plus the current price unit.
type Table struct {
	kv      store.KV
	dataKey string
	unitKey string
	seed    []seed.Entry
	log     zerolog.Logger

	rows []Row
	unit multiplier.Unit
}

// Option configures a Table.
type Option func(*Table)

// WithKeys overrides the storage keys for the rows and the unit.
func WithKeys(dataKey, unitKey string) Option {
	return func(t *Table) {
		t.dataKey = dataKey
		t.unitKey = unitKey
	}
}

// WithSeed replaces the built-in seed list.
func WithSeed(entries []seed.Entry) Option {
	return func(t *Table) { t.seed = entries }
}

// WithLogger sets the logger used for swallowed calculation failures.
func WithLogger(l zerolog.Logger) Option {
	return func(t *Table) { t.log = l }
}

// New returns an empty table backed by kv. Call Load before use.
func New(kv store.KV, opts ...Option) *Table {
	t := &Table{
		kv:      kv,
		dataKey: DefaultDataKey,
		unitKey: DefaultUnitKey,
		log:     zerolog.Nop(),
		unit:    multiplier.PerThousand,
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Rows returns a copy of the current rows.
func (t *Table) Rows() []Row { return cloneRows(t.rows) }

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Unit returns the unit that prices are currently quoted in.
func (t *Table) Unit() multiplier.Unit { return t.unit }

// Row returns a copy of the row at index.
func (t *Table) Row(index int) (Row, error) {
	if err := t.checkIndex(index); err != nil {
		return Row{}, err
	}
	return t.rows[index].clone(), nil
}

// Load reads the persisted table. When nothing has been stored yet the seed
// list is loaded, priced and written back.
func (t *Table) Load(ctx context.Context) error {
	data, ok, err := t.kv.Get(ctx, t.dataKey)
	if err != nil {
		return fmt.Errorf("loading table: %w", err)
	}
	if !ok {
		return t.seedAndPersist(ctx)
	}

	rows, err := Decode([]byte(data))
	if err != nil {
		return err
	}

	unit := multiplier.PerThousand
	raw, ok, err := t.kv.Get(ctx, t.unitKey)
	if err != nil {
		return fmt.Errorf("loading unit: %w", err)
	}
	if ok {
		if unit, err = multiplier.ParseUnit(raw); err != nil {
			return fmt.Errorf("%w: %v", ErrCorruptData, err)
		}
	}

	t.rows = rows
	t.unit = unit
	return nil
}

// AddRow appends a blank row in edit mode and returns its index. Nothing is
// persisted until the row is saved.
func (t *Table) AddRow() int {
	rows := append(cloneRows(t.rows), Row{Editing: true})
	t.rows = rows
	return len(rows) - 1
}

// EditField sets one field of a row from raw user input. Price input that
// does not parse is stored as 0. Changing a price recomputes the row's
// multipliers; a calculation failure zeroes them and is only logged.
// The row does not have to be in edit mode.
func (t *Table) EditField(index int, field Field, raw string) error {
	if err := t.checkIndex(index); err != nil {
		return err
	}

	rows := cloneRows(t.rows)
	r := rows[index]
	switch field {
	case FieldModelName:
		r.ModelName = raw
	case FieldInputPrice:
		r.InputPrice = parsePrice(raw)
	case FieldOutputPrice:
		r.OutputPrice = parsePrice(raw)
	default:
		return fmt.Errorf("%w: %v", ErrUnknownField, field)
	}

	if field.IsPrice() {
		var err error
		if r, err = price(r, t.unit); err != nil {
			t.log.Warn().
				Err(err).
				Int("row", index).
				Float64("input_price", r.InputPrice).
				Float64("output_price", r.OutputPrice).
				Msg("multipliers reset to zero")
		}
	}

	rows[index] = r
	t.rows = rows
	return nil
}

// ToggleEdit enters edit mode on a committed row, remembering its values,
// or saves an editing row and persists the whole table.
func (t *Table) ToggleEdit(ctx context.Context, index int) error {
	if err := t.checkIndex(index); err != nil {
		return err
	}

	rows := cloneRows(t.rows)
	r := &rows[index]
	if !r.Editing {
		r.Original = r.snapshot()
		r.Editing = true
		t.rows = rows
		return nil
	}

	r.Editing = false
	r.Original = nil
	if err := t.persist(ctx, rows, t.unit); err != nil {
		return err
	}
	t.rows = rows
	return nil
}

// CancelEdit abandons an edit. A row that had committed values gets them
// back, with multipliers derived from the restored prices; a row that was
// never saved is removed. Cancelling a row that is not
// being edited does nothing.
func (t *Table) CancelEdit(index int) error {
	if err := t.checkIndex(index); err != nil {
		return err
	}
	if !t.rows[index].Editing {
		return nil
	}

	rows := cloneRows(t.rows)
	r := &rows[index]
	if r.Original == nil {
		t.rows = append(rows[:index], rows[index+1:]...)
		return nil
	}

	r.ModelName = r.Original.ModelName
	r.InputPrice = r.Original.InputPrice
	r.OutputPrice = r.Original.OutputPrice
	r.Editing = false
	r.Original = nil
	// Multipliers were overwritten while typing; derive them again from the
	// restored prices.
	rows[index], _ = price(*r, t.unit)
	t.rows = rows
	return nil
}

// DeleteRow removes a row after confirmation and persists the table. It
// reports whether the row was deleted.
func (t *Table) DeleteRow(ctx context.Context, index int, c Confirmer) (bool, error) {
	if err := t.checkIndex(index); err != nil {
		return false, err
	}
	if !c.Confirm(DeletePrompt) {
		return false, nil
	}

	rows := cloneRows(t.rows)
	rows = append(rows[:index], rows[index+1:]...)
	if err := t.persist(ctx, rows, t.unit); err != nil {
		return false, err
	}
	t.rows = rows
	return true, nil
}

// ToggleUnit switches between per-thousand and per-million prices,
// rescaling every row and persisting the result.
func (t *Table) ToggleUnit(ctx context.Context) error {
	from := t.unit
	to := from.Other()

	rows := cloneRows(t.rows)
	for i := range rows {
		r := &rows[i]
		r.InputPrice = multiplier.Rescale(r.InputPrice, from, to)
		r.OutputPrice = multiplier.Rescale(r.OutputPrice, from, to)
		if r.Original != nil {
			r.Original.InputPrice = multiplier.Rescale(r.Original.InputPrice, from, to)
			r.Original.OutputPrice = multiplier.Rescale(r.Original.OutputPrice, from, to)
		}
		rows[i], _ = price(*r, to)
	}

	if err := t.persist(ctx, rows, to); err != nil {
		return err
	}
	t.rows = rows
	t.unit = to
	return nil
}

// ResetData discards everything persisted after confirmation and reloads
// the seed list in per-thousand prices. It reports whether the reset ran.
func (t *Table) ResetData(ctx context.Context, c Confirmer) (bool, error) {
	if !c.Confirm(ResetPrompt) {
		return false, nil
	}
	for _, key := range []string{t.dataKey, t.unitKey} {
		if err := t.kv.Remove(ctx, key); err != nil {
			return false, fmt.Errorf("clearing storage: %w", err)
		}
	}
	if err := t.seedAndPersist(ctx); err != nil {
		return false, err
	}
	return true, nil
}

func (t *Table) seedAndPersist(ctx context.Context) error {
	entries := t.seed
	if entries == nil {
		var err error
		if entries, err = seed.Default(); err != nil {
			return err
		}
	}

	rows := make([]Row, len(entries))
	for i, e := range entries {
		r := Row{
			ModelName:   e.ModelName,
			InputPrice:  e.InputPrice,
			OutputPrice: e.OutputPrice,
		}
		var err error
		if r, err = price(r, multiplier.PerThousand); err != nil {
			t.log.Debug().Err(err).Str("model", e.ModelName).Msg("seed row left without multipliers")
		}
		rows[i] = r
	}

	if err := t.persist(ctx, rows, multiplier.PerThousand); err != nil {
		return err
	}
	t.rows = rows
	t.unit = multiplier.PerThousand
	return nil
}

// persist writes rows and unit. The two keys are written one after the
// other, so when the unit write fails the previous table value is put back
// to keep stored prices and unit in step.
func (t *Table) persist(ctx context.Context, rows []Row, unit multiplier.Unit) error {
	data, err := Encode(rows)
	if err != nil {
		return err
	}
	prev, hadPrev, err := t.kv.Get(ctx, t.dataKey)
	if err != nil {
		return fmt.Errorf("reading table: %w", err)
	}
	if err := t.kv.Set(ctx, t.dataKey, string(data)); err != nil {
		return fmt.Errorf("saving table: %w", err)
	}
	if err := t.kv.Set(ctx, t.unitKey, unit.String()); err != nil {
		var rerr error
		if hadPrev {
			rerr = t.kv.Set(ctx, t.dataKey, prev)
		} else {
			rerr = t.kv.Remove(ctx, t.dataKey)
		}
		if rerr != nil {
			t.log.Error().Err(rerr).Str("key", t.dataKey).Msg("restoring table after failed unit write")
		}
		return fmt.Errorf("saving unit: %w", err)
	}
	return nil
}

func (t *Table) checkIndex(index int) error {
	if index < 0 || index >= len(t.rows) {
		return fmt.Errorf("%w: %d (rows: %d)", ErrIndexOutOfRange, index, len(t.rows))
	}
	return nil
}

// price recomputes both multipliers of r. On failure they are zeroed and
// the calculator's error is returned alongside the row.
func price(r Row, unit multiplier.Unit) (Row, error) {
	res, err := multiplier.Compute(r.InputPrice, r.OutputPrice, unit)
	if err != nil {
		r.ModelMultiplier = 0
		r.CompletionMultiplier = 0
		return r, err
	}
	r.ModelMultiplier = res.ModelMultiplier
	r.CompletionMultiplier = res.CompletionMultiplier
	return r, nil
}
