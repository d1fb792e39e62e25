package hal

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Interface registers trajectory handles under resource names and hands them
// out under exclusive group claims.
//
// A trajectory command spans every physical resource (joint) in its group, so
// claiming through this interface always claims the whole configured group
// atomically: either every member name is taken, or none is. The driver layer
// registers handles and declares group membership during setup; controllers
// claim at activation and release at deactivation.
type Interface[C Copyable[C], F Copyable[F]] struct {
	mu      sync.Mutex
	handles map[string]*Handle[C, F]
	table   *ClaimTable
	group   []string
	issued  map[string]struct{} // outstanding claim IDs issued by this interface
}

// NewInterface creates an interface with its own private claim table.
func NewInterface[C Copyable[C], F Copyable[F]]() *Interface[C, F] {
	return NewInterfaceWithTable[C, F](NewClaimTable())
}

// NewInterfaceWithTable creates an interface backed by an existing claim
// table. Passing the same table to several interfaces makes their claims
// mutually exclusive over shared resource names.
func NewInterfaceWithTable[C Copyable[C], F Copyable[F]](table *ClaimTable) *Interface[C, F] {
	return &Interface[C, F]{
		handles: make(map[string]*Handle[C, F]),
		table:   table,
		issued:  make(map[string]struct{}),
	}
}

// RegisterHandle adds a handle under its own name. Registering a second
// handle under the same name fails; handles are fixed for the lifetime of
// the process wiring.
func (i *Interface[C, F]) RegisterHandle(h *Handle[C, F]) error {
	if h == nil {
		return fmt.Errorf("%w: handle is nil", ErrInvalidArgument)
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	if _, exists := i.handles[h.Name()]; exists {
		return fmt.Errorf("%w: handle %q is already registered", ErrInvalidArgument, h.Name())
	}
	i.handles[h.Name()] = h
	return nil
}

// SetResources records the physical resource names that the next Claim will
// take as a group. Calling it again replaces the previous group. It must be
// called before Claim.
func (i *Interface[C, F]) SetResources(names []string) {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.group = make([]string, len(names))
	copy(i.group, names)
}

// Claim takes an exclusive claim on the entire configured resource group and
// returns the handle registered under name together with the claim scope.
//
// Whichever name is passed, the claim always covers the full group: one
// trajectory drives every member joint, so partial access is never granted.
// The name must still resolve to a registered handle (ErrNotFound otherwise),
// which keeps a typo from silently claiming the group. Claiming with no
// configured resources fails with ErrInvalidArgument; a conflict on any
// member rolls back the members already taken and fails with
// ErrResourceConflict.
func (i *Interface[C, F]) Claim(name string) (*Claim[C, F], error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	h, ok := i.handles[name]
	if !ok {
		return nil, fmt.Errorf("%w: no handle registered for %q", ErrNotFound, name)
	}
	if len(i.group) == 0 {
		return nil, fmt.Errorf("%w: no resources configured, call SetResources before Claim", ErrInvalidArgument)
	}

	id := uuid.NewString()
	if err := i.table.ClaimAll(i.group, id); err != nil {
		return nil, fmt.Errorf("claiming group for %q: %w", name, err)
	}
	i.issued[id] = struct{}{}

	resources := make([]string, len(i.group))
	copy(resources, i.group)

	return &Claim[C, F]{
		id:        id,
		resources: resources,
		handle:    h,
		table:     i.table,
		onRelease: func() {
			i.mu.Lock()
			delete(i.issued, id)
			i.mu.Unlock()
		},
	}, nil
}

// GetHandle returns the handle registered under name. The name must be
// registered and its resource group currently claimed; looking up a handle
// nobody holds a claim for fails with ErrNotFound.
func (i *Interface[C, F]) GetHandle(name string) (*Handle[C, F], error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	h, ok := i.handles[name]
	if !ok {
		return nil, fmt.Errorf("%w: no handle registered for %q", ErrNotFound, name)
	}
	if !i.groupClaimed() {
		return nil, fmt.Errorf("%w: resources for %q are not claimed", ErrNotFound, name)
	}
	return h, nil
}

// Claimed reports whether name is currently held by any claim.
func (i *Interface[C, F]) Claimed(name string) bool {
	_, ok := i.table.Holder(name)
	return ok
}

// HandleNames returns the names of all registered handles.
func (i *Interface[C, F]) HandleNames() []string {
	i.mu.Lock()
	defer i.mu.Unlock()

	names := make([]string, 0, len(i.handles))
	for name := range i.handles {
		names = append(names, name)
	}
	return names
}

// groupClaimed reports whether every group member is held by a claim this
// interface issued. A shared table may hold the same names for a different
// interface's consumer; that must not grant handle access here. Assumes i.mu
// is held.
func (i *Interface[C, F]) groupClaimed() bool {
	if len(i.group) == 0 {
		return false
	}
	for _, name := range i.group {
		holder, ok := i.table.Holder(name)
		if !ok {
			return false
		}
		if _, mine := i.issued[holder]; !mine {
			return false
		}
	}
	return true
}

// Claim is the scope of one exclusive group claim. Releasing it frees every
// member resource together; a claim is never partially released.
type Claim[C Copyable[C], F Copyable[F]] struct {
	id        string
	resources []string
	handle    *Handle[C, F]
	table     *ClaimTable
	onRelease func()
	once      sync.Once
}

// Handle returns the trajectory handle this claim grants access to.
func (c *Claim[C, F]) Handle() *Handle[C, F] {
	return c.handle
}

// ID returns the unique identifier of this claim.
func (c *Claim[C, F]) ID() string {
	return c.id
}

// Resources returns the member resource names held by this claim.
func (c *Claim[C, F]) Resources() []string {
	out := make([]string, len(c.resources))
	copy(out, c.resources)
	return out
}

// Release frees every member resource of the claim. Safe to call more than
// once; only the first call has an effect.
func (c *Claim[C, F]) Release() {
	c.once.Do(func() {
		c.table.ReleaseAll(c.resources, c.id)
		if c.onRelease != nil {
			c.onRelease()
		}
	})
}
