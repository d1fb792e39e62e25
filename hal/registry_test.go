package hal

import (
	"errors"
	"testing"
)

func TestClaimTableExclusivity(t *testing.T) {
	table := NewClaimTable()

	if err := table.Claim("joint1", "claim-a"); err != nil {
		t.Fatalf("first claim failed: %v", err)
	}

	// Same holder may re-claim.
	if err := table.Claim("joint1", "claim-a"); err != nil {
		t.Errorf("re-claim by holder failed: %v", err)
	}

	// Another holder may not.
	err := table.Claim("joint1", "claim-b")
	if !errors.Is(err, ErrResourceConflict) {
		t.Errorf("expected ErrResourceConflict, got %v", err)
	}

	if holder, ok := table.Holder("joint1"); !ok || holder != "claim-a" {
		t.Errorf("expected holder claim-a, got %q (claimed=%v)", holder, ok)
	}
}

func TestClaimTableRelease(t *testing.T) {
	table := NewClaimTable()

	if err := table.Claim("joint1", "claim-a"); err != nil {
		t.Fatalf("claim failed: %v", err)
	}

	// Wrong holder cannot release.
	if err := table.Release("joint1", "claim-b"); !errors.Is(err, ErrResourceConflict) {
		t.Errorf("expected ErrResourceConflict, got %v", err)
	}

	if err := table.Release("joint1", "claim-a"); err != nil {
		t.Fatalf("release failed: %v", err)
	}

	// Released names report unclaimed and are claimable again.
	if err := table.Release("joint1", "claim-a"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := table.Claim("joint1", "claim-b"); err != nil {
		t.Errorf("claim after release failed: %v", err)
	}
}

func TestClaimAllRollsBackOnConflict(t *testing.T) {
	table := NewClaimTable()

	if err := table.Claim("joint2", "other"); err != nil {
		t.Fatalf("setup claim failed: %v", err)
	}

	group := []string{"joint1", "joint2", "joint3"}
	err := table.ClaimAll(group, "claim-a")
	if !errors.Is(err, ErrResourceConflict) {
		t.Fatalf("expected ErrResourceConflict, got %v", err)
	}

	// joint1 must have been rolled back, joint3 never taken.
	if _, ok := table.Holder("joint1"); ok {
		t.Error("joint1 left claimed after rollback")
	}
	if _, ok := table.Holder("joint3"); ok {
		t.Error("joint3 left claimed after rollback")
	}
	if holder, _ := table.Holder("joint2"); holder != "other" {
		t.Errorf("joint2 holder disturbed: %q", holder)
	}
}

func TestClaimAllThenReleaseAll(t *testing.T) {
	table := NewClaimTable()
	group := []string{"joint1", "joint2", "joint3"}

	if err := table.ClaimAll(group, "claim-a"); err != nil {
		t.Fatalf("ClaimAll failed: %v", err)
	}
	for _, name := range group {
		if holder, ok := table.Holder(name); !ok || holder != "claim-a" {
			t.Errorf("%s: expected holder claim-a, got %q (claimed=%v)", name, holder, ok)
		}
	}

	table.ReleaseAll(group, "claim-a")
	for _, name := range group {
		if _, ok := table.Holder(name); ok {
			t.Errorf("%s still claimed after ReleaseAll", name)
		}
	}

	// The whole group is claimable by someone else afterward.
	if err := table.ClaimAll(group, "claim-b"); err != nil {
		t.Errorf("ClaimAll after release failed: %v", err)
	}
}
