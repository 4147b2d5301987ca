package order

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"restaurant-pos/internal/apperr"
	"restaurant-pos/internal/models"
)

type DraftState string

const (
	DraftEmpty      DraftState = "empty"
	DraftHasLines   DraftState = "has_lines"
	DraftSubmitting DraftState = "submitting"
)

// SubmitFunc persists a complete order.
type SubmitFunc func(ctx context.Context, details models.OrderDetails, lines []models.OrderLine) (*models.Order, error)

// Draft is an order being composed by one waiter. It is safe for concurrent
// use; while a submission is in flight the draft cannot be edited.
type Draft struct {
	mu      sync.Mutex
	details models.OrderDetails
	lines   []models.OrderLine
	state   DraftState
}

func NewDraft() *Draft {
	return &Draft{details: models.DefaultDetails(), state: DraftEmpty}
}

// DraftView is a point-in-time copy of a draft.
type DraftView struct {
	State   DraftState          `json:"state"`
	Details models.OrderDetails `json:"details"`
	Lines   []models.OrderLine  `json:"lines"`
	Total   decimal.Decimal     `json:"total"`
}

func (d *Draft) View() DraftView {
	d.mu.Lock()
	defer d.mu.Unlock()
	return DraftView{
		State:   d.state,
		Details: d.details,
		Lines:   append([]models.OrderLine{}, d.lines...),
		Total:   linesTotal(d.lines),
	}
}

func (d *Draft) State() DraftState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

func (d *Draft) AddLine(line models.OrderLine) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.editable(); err != nil {
		return err
	}
	d.lines = append(d.lines, line)
	d.state = DraftHasLines
	return nil
}

func (d *Draft) RemoveLine(index int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.editable(); err != nil {
		return err
	}
	if index < 0 || index >= len(d.lines) {
		return apperr.Invalid("index", fmt.Sprintf("no line %d", index))
	}
	d.lines = append(d.lines[:index], d.lines[index+1:]...)
	if len(d.lines) == 0 {
		d.state = DraftEmpty
	}
	return nil
}

func (d *Draft) SetDetails(details models.OrderDetails) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.editable(); err != nil {
		return err
	}
	d.details = details
	return nil
}

// Total is the sum of unit price times quantity over all lines.
func (d *Draft) Total() decimal.Decimal {
	d.mu.Lock()
	defer d.mu.Unlock()
	return linesTotal(d.lines)
}

// Submit hands the draft to submit. A draft without lines is rejected before
// submit is called. On failure the lines are kept; on success the draft is
// reset to its defaults.
func (d *Draft) Submit(ctx context.Context, submit SubmitFunc) (*models.Order, error) {
	d.mu.Lock()
	if d.state == DraftSubmitting {
		d.mu.Unlock()
		return nil, apperr.Invalid("", "order is already being submitted")
	}
	if len(d.lines) == 0 {
		d.mu.Unlock()
		return nil, apperr.Invalid("lines", "order has no lines")
	}
	details := d.details
	lines := append([]models.OrderLine{}, d.lines...)
	d.state = DraftSubmitting
	d.mu.Unlock()

	order, err := submit(ctx, details, lines)

	d.mu.Lock()
	defer d.mu.Unlock()
	if err != nil {
		d.state = DraftHasLines
		return nil, err
	}
	d.details = models.DefaultDetails()
	d.lines = nil
	d.state = DraftEmpty
	return order, nil
}

func (d *Draft) editable() error {
	if d.state == DraftSubmitting {
		return apperr.Invalid("", "order is being submitted")
	}
	return nil
}

func linesTotal(lines []models.OrderLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Total())
	}
	return total
}

type draftKey struct {
	tenantID int64
	login    string
}

// DraftStore keeps one draft per waiter and tenant in memory.
type DraftStore struct {
	mu     sync.Mutex
	drafts map[draftKey]*Draft
}

func NewDraftStore() *DraftStore {
	return &DraftStore{drafts: make(map[draftKey]*Draft)}
}

// Get returns the waiter's draft, creating an empty one on first use.
func (s *DraftStore) Get(tenantID int64, login string) *Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := draftKey{tenantID: tenantID, login: login}
	d, ok := s.drafts[key]
	if !ok {
		d = NewDraft()
		s.drafts[key] = d
	}
	return d
}

func (s *DraftStore) Discard(tenantID int64, login string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, draftKey{tenantID: tenantID, login: login})
}
