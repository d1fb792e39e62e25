package hal

import (
	"fmt"
	"sync"
)

// ClaimTable tracks which claim currently holds each named resource. At most
// one claim ID may hold a name at a time.
//
// Claims are taken at controller activation and released at deactivation,
// never on the per-cycle hot path, so a mutex here costs nothing where it
// matters. Several interfaces may share one table to enforce exclusivity
// over the same physical names.
type ClaimTable struct {
	mu     sync.Mutex
	claims map[string]string // resource name -> holding claim ID
}

// NewClaimTable creates an empty claim table.
func NewClaimTable() *ClaimTable {
	return &ClaimTable{
		claims: make(map[string]string),
	}
}

// Claim records id as the holder of name. It fails with ErrResourceConflict
// if another claim already holds the name. Re-claiming a name already held
// by the same id is a no-op.
func (t *ClaimTable) Claim(name, id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.claim(name, id)
}

// ClaimAll records id as the holder of every name, atomically: if any name is
// held by another claim, nothing is taken and the partial claims acquired so
// far are rolled back before the conflict is reported.
func (t *ClaimTable) ClaimAll(names []string, id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i, name := range names {
		if err := t.claim(name, id); err != nil {
			for _, taken := range names[:i] {
				t.release(taken, id)
			}
			return err
		}
	}
	return nil
}

// Release removes id's hold on name. It fails with ErrNotFound if the name is
// unclaimed, and with ErrResourceConflict if the name is held by a different
// claim.
func (t *ClaimTable) Release(name, id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	holder, ok := t.claims[name]
	if !ok {
		return fmt.Errorf("%w: %q is not claimed", ErrNotFound, name)
	}
	if holder != id {
		return fmt.Errorf("%w: %q is held by claim %s, not %s", ErrResourceConflict, name, holder, id)
	}
	t.release(name, id)
	return nil
}

// ReleaseAll removes id's hold on every name it currently holds from names.
// Names held by other claims, or unclaimed, are skipped.
func (t *ClaimTable) ReleaseAll(names []string, id string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, name := range names {
		t.release(name, id)
	}
}

// Holder returns the claim ID holding name, if any.
func (t *ClaimTable) Holder(name string) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	holder, ok := t.claims[name]
	return holder, ok
}

// claim and release assume t.mu is held.

func (t *ClaimTable) claim(name, id string) error {
	if holder, ok := t.claims[name]; ok {
		if holder == id {
			return nil
		}
		return fmt.Errorf("%w: %q is already claimed by %s", ErrResourceConflict, name, holder)
	}
	t.claims[name] = id
	return nil
}

func (t *ClaimTable) release(name, id string) {
	if holder, ok := t.claims[name]; ok && holder == id {
		delete(t.claims, name)
	}
}
