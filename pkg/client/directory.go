package client

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/userhub/user-directory-api/internal/constants"
	"github.com/userhub/user-directory-api/internal/dto"
)

// SortDirection orders the visible page ascending or descending.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Filters holds the three independent substring filter fields. They are
// joined with spaces into one search term before the list call, so the
// server matches the combined term, not each field independently.
type Filters struct {
	Username string
	Email    string
	Location string
}

// Directory keeps one page of user records in sync with filter/page/sort
// state and routes mutations through the API. The loaded page is a transient
// read-through cache: every successful mutation invalidates it and re-fetches
// the canonical state.
type Directory struct {
	api      *Client
	debounce time.Duration

	mu         sync.Mutex
	filters    Filters
	page       int
	pageSize   int
	sortKey    string
	sortDir    SortDirection
	users      []dto.UserDTO
	pagination dto.PaginationDTO
	lastErr    error
	seq        uint64
	timer      *time.Timer
	onChange   func()
}

// DirectoryOption customises a Directory.
type DirectoryOption func(*Directory)

// WithDebounce overrides the filter-change quiescence delay.
func WithDebounce(d time.Duration) DirectoryOption {
	return func(dir *Directory) { dir.debounce = d }
}

// WithPageSize overrides the page size.
func WithPageSize(n int) DirectoryOption {
	return func(dir *Directory) { dir.pageSize = n }
}

// WithOnChange registers a callback invoked after the visible state changed.
func WithOnChange(fn func()) DirectoryOption {
	return func(dir *Directory) { dir.onChange = fn }
}

// NewDirectory creates a Directory starting at page 1 with no filters.
func NewDirectory(api *Client, opts ...DirectoryOption) *Directory {
	d := &Directory{
		api:      api,
		debounce: constants.DefaultDebounce,
		page:     1,
		pageSize: constants.DefaultPageSize,
		sortDir:  SortAsc,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// SetFilters updates the filter fields. The list request is debounced:
// repeated edits within the quiescence delay coalesce into a single request,
// and a superseded timer never fires. A filter change resets to page 1.
func (d *Directory) SetFilters(f Filters) {
	d.mu.Lock()
	d.filters = f
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.debounce, func() {
		d.mu.Lock()
		d.page = 1
		d.mu.Unlock()
		d.reload(context.Background())
	})
	d.mu.Unlock()
}

// SetPage loads a different page immediately.
func (d *Directory) SetPage(ctx context.Context, page int) error {
	d.mu.Lock()
	d.page = page
	d.mu.Unlock()
	return d.reload(ctx)
}

// SetSort re-sorts the currently loaded page. No request is issued: the sort
// is a stable sort of the visible page only, not of the full result set.
func (d *Directory) SetSort(key string, dir SortDirection) {
	d.mu.Lock()
	d.sortKey = key
	d.sortDir = dir
	d.resortLocked()
	notify := d.onChange
	d.mu.Unlock()
	if notify != nil {
		notify()
	}
}

// Refresh re-issues the list call for the current page and filters.
func (d *Directory) Refresh(ctx context.Context) error {
	return d.reload(ctx)
}

// Create validates locally, creates the user, and refreshes the current page.
func (d *Directory) Create(ctx context.Context, fields UserFields) (*dto.UserDTO, error) {
	if errs := fields.Validate(); len(errs) > 0 {
		return nil, &APIError{StatusCode: 400, Message: "Validation failed", Fields: errs}
	}
	user, err := d.api.CreateUser(ctx, fields)
	if err != nil {
		return nil, err
	}
	_ = d.reload(ctx)
	return user, nil
}

// Update validates locally, updates the user, and refreshes the current page.
func (d *Directory) Update(ctx context.Context, id uint64, fields UserFields) (*dto.UserDTO, error) {
	if errs := fields.Validate(); len(errs) > 0 {
		return nil, &APIError{StatusCode: 400, Message: "Validation failed", Fields: errs}
	}
	user, err := d.api.UpdateUser(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	_ = d.reload(ctx)
	return user, nil
}

// Delete removes the user and refreshes the current page.
func (d *Directory) Delete(ctx context.Context, id uint64) error {
	if err := d.api.DeleteUser(ctx, id); err != nil {
		return err
	}
	return d.reload(ctx)
}

// Users returns a copy of the currently visible page in display order.
func (d *Directory) Users() []dto.UserDTO {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]dto.UserDTO, len(d.users))
	copy(out, d.users)
	return out
}

// Pagination returns the metadata of the last successful list call.
func (d *Directory) Pagination() dto.PaginationDTO {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pagination
}

// Err returns the failure of the most recent list call, or nil. A failed
// refresh never clears the last-known-good page.
func (d *Directory) Err() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastErr
}

// Close cancels any pending debounce timer.
func (d *Directory) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// reload issues a list call for the current state. Each call takes a fresh
// sequence number; a response whose number is no longer current is discarded,
// so a slow response can never overwrite newer state.
func (d *Directory) reload(ctx context.Context) error {
	d.mu.Lock()
	d.seq++
	seq := d.seq
	search := d.combinedSearchLocked()
	page, size := d.page, d.pageSize
	d.mu.Unlock()

	list, err := d.api.ListUsers(ctx, search, page, size)

	d.mu.Lock()
	if seq != d.seq {
		// Superseded by a newer request.
		d.mu.Unlock()
		return nil
	}
	if err != nil {
		d.lastErr = err
		d.mu.Unlock()
		return err
	}
	d.users = list.Users
	d.pagination = list.Pagination
	d.lastErr = nil
	d.resortLocked()
	notify := d.onChange
	d.mu.Unlock()

	if notify != nil {
		notify()
	}
	return nil
}

func (d *Directory) combinedSearchLocked() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{d.filters.Username, d.filters.Email, d.filters.Location} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

func (d *Directory) resortLocked() {
	key := d.sortKey
	if key == "" {
		return
	}
	asc := d.sortDir != SortDesc

	cmp := func(a, b dto.UserDTO) int {
		switch key {
		case "createdAt":
			return a.CreatedAt.Compare(b.CreatedAt)
		case "fullName":
			return strings.Compare(strings.ToLower(a.FullName), strings.ToLower(b.FullName))
		case "email":
			return strings.Compare(strings.ToLower(a.Email), strings.ToLower(b.Email))
		case "location":
			return strings.Compare(strings.ToLower(a.Location), strings.ToLower(b.Location))
		default:
			return strings.Compare(strings.ToLower(a.Username), strings.ToLower(b.Username))
		}
	}

	sort.SliceStable(d.users, func(i, j int) bool {
		c := cmp(d.users[i], d.users[j])
		if asc {
			return c < 0
		}
		return c > 0
	})
}
