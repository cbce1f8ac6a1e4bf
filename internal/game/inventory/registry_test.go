package inventory_test

import (
	"testing"

	"github.com/cory-johannsen/dialectic/internal/game/inventory"
)

func TestRegistry_Register_Lookup(t *testing.T) {
	r := inventory.NewRegistry()
	if err := r.Register(staff()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, ok := r.Item("oak_staff")
	if !ok || got.ID != "oak_staff" {
		t.Fatalf("expected oak_staff, got %v (ok=%v)", got, ok)
	}
}

func TestRegistry_Register_CollisionError(t *testing.T) {
	r := inventory.NewRegistry()
	if err := r.Register(staff()); err != nil {
		t.Fatalf("unexpected error on first register: %v", err)
	}
	if err := r.Register(staff()); err == nil {
		t.Fatal("expected collision error on second register, got nil")
	}
}

func TestRegistry_All_Sorted(t *testing.T) {
	r, err := inventory.NewRegistryFrom([]*inventory.Item{robe(), blade(), staff()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	all := r.All()
	if len(all) != 3 || all[0].ID != "oak_staff" || all[2].ID != "sophist_robe" {
		t.Fatalf("unexpected order: %v", []string{all[0].ID, all[1].ID, all[2].ID})
	}
}

func TestRegistry_Item_NotFound(t *testing.T) {
	if _, ok := inventory.NewRegistry().Item("nope"); ok {
		t.Fatal("expected not found")
	}
}
