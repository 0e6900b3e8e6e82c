package draft

import (
	"context"
	"sync"

	"mealplan-backend/internal/models"
)

type EventKind int

const (
	EventStateChanged EventKind = iota
	EventCandidatesLoaded
)

type Event struct {
	Kind     EventKind
	State    State
	Category models.MealCategory
	Items    []Item
}

type Listener func(Event)

// Fetcher loads candidate items for one category, usually over HTTP.
type Fetcher interface {
	Candidates(ctx context.Context, category models.MealCategory) ([]Item, error)
}

type candidateSet struct {
	position uint64
	items    []Item
}

// Draft is the observable holder of a State. Dispatch is the only writer;
// listeners are called after the lock is released.
type Draft struct {
	mu         sync.Mutex
	state      State
	listeners  map[int]Listener
	nextID     int
	candidates map[models.MealCategory]candidateSet
}

func New() *Draft {
	return &Draft{
		listeners:  make(map[int]Listener),
		candidates: make(map[models.MealCategory]candidateSet),
	}
}

func (d *Draft) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Dispatch reduces a into the current state and notifies listeners on success.
func (d *Draft) Dispatch(a Action) (State, error) {
	d.mu.Lock()
	next, err := Reduce(d.state, a)
	if err != nil {
		d.mu.Unlock()
		return next, err
	}
	d.state = next
	listeners := d.snapshotListeners()
	d.mu.Unlock()

	emit(listeners, Event{Kind: EventStateChanged, State: next})
	return next, nil
}

// Subscribe registers l and returns a function that removes it.
func (d *Draft) Subscribe(l Listener) func() {
	d.mu.Lock()
	defer d.mu.Unlock()
	id := d.nextID
	d.nextID++
	d.listeners[id] = l
	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		delete(d.listeners, id)
	}
}

// LoadCandidates fetches items for category. If the draft moved to another
// step while the fetch was in flight the result is dropped and applied is false.
func (d *Draft) LoadCandidates(ctx context.Context, f Fetcher, category models.MealCategory) (items []Item, applied bool, err error) {
	d.mu.Lock()
	requestedAt := d.state.position
	d.mu.Unlock()

	items, err = f.Candidates(ctx, category)
	if err != nil {
		return nil, false, err
	}

	d.mu.Lock()
	if d.state.position != requestedAt {
		d.mu.Unlock()
		return nil, false, nil
	}
	d.candidates[category] = candidateSet{position: requestedAt, items: items}
	state := d.state
	listeners := d.snapshotListeners()
	d.mu.Unlock()

	emit(listeners, Event{Kind: EventCandidatesLoaded, State: state, Category: category, Items: items})
	return items, true, nil
}

// Candidates returns the list loaded for the current step, if any.
func (d *Draft) Candidates(category models.MealCategory) ([]Item, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	set, ok := d.candidates[category]
	if !ok || set.position != d.state.position {
		return nil, false
	}
	return set.items, true
}

func (d *Draft) snapshotListeners() []Listener {
	out := make([]Listener, 0, len(d.listeners))
	for _, l := range d.listeners {
		out = append(out, l)
	}
	return out
}

func emit(listeners []Listener, ev Event) {
	for _, l := range listeners {
		l(ev)
	}
}
