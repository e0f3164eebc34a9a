package core

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/JonMunkholm/hrpanel/internal/logging"
)

// ErrBusy is returned when a list operation is already in flight for the
// same list. The gateway is not called.
var ErrBusy = errors.New("busy: another change is in progress")

// SyncMode controls how a list reflects a successful create.
type SyncMode string

const (
	// SyncReload reloads the full list from the store.
	SyncReload SyncMode = "reload"
	// SyncInsert prepends the returned record without a reload.
	SyncInsert SyncMode = "insert"
)

// JobList is one session's view of the job postings. At most one of
// Refresh, Create, Update and Delete runs at a time; a second call while one
// is in flight fails fast with ErrBusy. Any failure leaves the view as it
// was.
type JobList struct {
	gw   Gateway
	v    *Validator
	mode SyncMode

	busy atomic.Bool

	mu     sync.RWMutex
	jobs   []JobPosting
	loaded bool
	stale  bool
}

// NewJobList returns an empty, not-yet-loaded list. A nil validator
// performs only the structural checks; an unknown mode means SyncReload.
func NewJobList(gw Gateway, v *Validator, mode SyncMode) *JobList {
	if v == nil {
		v = &Validator{}
	}
	if mode != SyncInsert {
		mode = SyncReload
	}
	return &JobList{gw: gw, v: v, mode: mode}
}

// Jobs returns a copy of the current view, newest first.
func (l *JobList) Jobs() []JobPosting {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]JobPosting, len(l.jobs))
	for i, j := range l.jobs {
		out[i] = j.Clone()
	}
	return out
}

// Find returns the posting with id from the current view.
func (l *JobList) Find(id string) (JobPosting, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if i := l.indexLocked(id); i >= 0 {
		return l.jobs[i].Clone(), true
	}
	return JobPosting{}, false
}

// Busy reports whether an operation is in flight.
func (l *JobList) Busy() bool { return l.busy.Load() }

// Stale reports whether the view is known to lag the store.
func (l *JobList) Stale() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.stale
}

// NeedsRefresh reports whether the list was never loaded or is stale.
func (l *JobList) NeedsRefresh() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return !l.loaded || l.stale
}

// MarkStale flags the view as out of date, e.g. after another session
// changed the store.
func (l *JobList) MarkStale() {
	l.mu.Lock()
	l.stale = true
	l.mu.Unlock()
}

func (l *JobList) acquire() bool { return l.busy.CompareAndSwap(false, true) }
func (l *JobList) release() { l.busy.Store(false) }

// Refresh replaces the view with the store's current list.
func (l *JobList) Refresh(ctx context.Context) error {
	if !l.acquire() {
		return ErrBusy
	}
	defer l.release()
	return l.reload(ctx)
}

// RefreshIfNeeded refreshes when NeedsRefresh. A busy list is left alone.
func (l *JobList) RefreshIfNeeded(ctx context.Context) error {
	if !l.NeedsRefresh() {
		return nil
	}
	err := l.Refresh(ctx)
	if errors.Is(err, ErrBusy) {
		return nil
	}
	return err
}

func (l *JobList) reload(ctx context.Context) error {
	jobs, err := l.gw.List(ctx)
	if err != nil {
		return err
	}
	if jobs == nil {
		jobs = []JobPosting{}
	}

	l.mu.Lock()
	l.jobs = jobs
	l.loaded = true
	l.stale = false
	l.mu.Unlock()
	return nil
}

// Create validates j, stores it and updates the view according to the sync
// mode. An empty status becomes DefaultStatus. The returned posting carries
// the store-assigned id and created_at.
func (l *JobList) Create(ctx context.Context, j JobPosting) (JobPosting, error) {
	if !l.acquire() {
		return JobPosting{}, ErrBusy
	}
	defer l.release()

	if j.Status == "" {
		j.Status = DefaultStatus
	}
	if err := l.v.Validate(j); err != nil {
		return JobPosting{}, err
	}

	created, err := l.gw.Create(ctx, j)
	if err != nil {
		return JobPosting{}, err
	}

	if l.mode == SyncReload {
		err := l.reload(ctx)
		if err == nil {
			return created, nil
		}
		logging.FromContext(ctx).Warn("reload after create failed; list marked stale",
			"job_id", created.ID,
			"error", err,
		)
		l.prepend(created, true)
		return created, nil
	}

	l.prepend(created, false)
	return created, nil
}

func (l *JobList) prepend(j JobPosting, stale bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.jobs = append([]JobPosting{j.Clone()}, l.jobs...)
	if stale {
		l.stale = true
	}
}

// Update validates and applies a patch. When id is in the view the merged
// record is validated and the entry is replaced in place; otherwise only
// the patch is validated and the view is reloaded afterwards.
func (l *JobList) Update(ctx context.Context, id string, p JobPatch) (JobPosting, error) {
	if !l.acquire() {
		return JobPosting{}, ErrBusy
	}
	defer l.release()

	current, inView := l.Find(id)
	if inView {
		if err := l.v.Validate(p.Apply(current)); err != nil {
			return JobPosting{}, err
		}
	} else if err := l.v.ValidatePatch(p); err != nil {
		return JobPosting{}, err
	}

	updated, err := l.gw.Update(ctx, id, p)
	if err != nil {
		return JobPosting{}, err
	}

	l.mu.Lock()
	if i := l.indexLocked(id); i >= 0 {
		l.jobs[i] = updated.Clone()
		l.mu.Unlock()
		return updated, nil
	}
	l.mu.Unlock()

	if err := l.reload(ctx); err != nil {
		logging.FromContext(ctx).Warn("reload after update failed; list marked stale",
			"job_id", id,
			"error", err,
		)
		l.MarkStale()
	}
	return updated, nil
}

// Delete removes a posting from the store and then from the view.
func (l *JobList) Delete(ctx context.Context, id string) error {
	if !l.acquire() {
		return ErrBusy
	}
	defer l.release()

	if err := l.gw.Delete(ctx, id); err != nil {
		return err
	}

	l.mu.Lock()
	if i := l.indexLocked(id); i >= 0 {
		l.jobs = append(l.jobs[:i:i], l.jobs[i+1:]...)
	}
	l.mu.Unlock()
	return nil
}

func (l *JobList) indexLocked(id string) int {
	for i, j := range l.jobs {
		if j.ID == id {
			return i
		}
	}
	return -1
}

// Lists hands out one JobList per session.
type Lists struct {
	gw   Gateway
	v    *Validator
	mode SyncMode

	mu    sync.Mutex
	lists map[string]*JobList
}

// NewLists returns an empty registry whose lists share gw and v.
func NewLists(gw Gateway, v *Validator, mode SyncMode) *Lists {
	return &Lists{gw: gw, v: v, mode: mode, lists: make(map[string]*JobList)}
}

// For returns the session's list, creating it on first use.
func (r *Lists) For(session string) *JobList {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.lists[session]
	if !ok {
		l = NewJobList(r.gw, r.v, r.mode)
		r.lists[session] = l
	}
	return l
}

// Drop forgets the session's list.
func (r *Lists) Drop(session string) {
	r.mu.Lock()
	delete(r.lists, session)
	r.mu.Unlock()
}

// MarkStaleExcept marks every list stale except the origin session's.
func (r *Lists) MarkStaleExcept(origin string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for session, l := range r.lists {
		if session == origin {
			continue
		}
		l.MarkStale()
		n++
	}
	return n
}

// Len returns the number of live lists.
func (r *Lists) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.lists)
}
