package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"spendlog/internal/core"
)

func sample(desc string, cents int64) core.Expense {
	return core.Expense{
		ID:          uuid.New(),
		Date:        core.NewDate(2024, 1, 10),
		Description: desc,
		Amount:      core.Money{Cents: cents},
		Category:    "food",
	}
}

func TestAppendAssignsSequence(t *testing.T) {
	s := New()
	if got := s.Append(sample("Coffee", 450)); got != 1 {
		t.Fatalf("first append: ref=%d, want 1", got)
	}
	if got := s.Append(sample("Bus ticket", 250)); got != 2 {
		t.Fatalf("second append: ref=%d, want 2", got)
	}
	if got := s.Len(); got != 2 {
		t.Fatalf("Len() = %d, want 2", got)
	}
}

func TestAllPreservesInsertionOrder(t *testing.T) {
	s := New()
	s.Append(sample("first", 100))
	s.Append(sample("second", 200))
	s.Append(sample("third", 300))

	got := s.All()
	if len(got) != 3 {
		t.Fatalf("len(All()) = %d, want 3", len(got))
	}
	for i, want := range []string{"first", "second", "third"} {
		if got[i].Description != want {
			t.Fatalf("All()[%d].Description = %q, want %q", i, got[i].Description, want)
		}
	}
}

func TestAllReturnsCopy(t *testing.T) {
	s := New()
	s.Append(sample("Coffee", 450))

	got := s.All()
	got[0].Description = "changed"
	_ = append(got, sample("sneaky", 1))

	fresh := s.All()
	if fresh[0].Description != "Coffee" {
		t.Fatalf("store mutated through All() result: %q", fresh[0].Description)
	}
	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", s.Len())
	}
}

func TestLoadCategoriesDefaults(t *testing.T) {
	cats := LoadCategories(t.TempDir())
	if len(cats) != len(DefaultCategories) {
		t.Fatalf("expected defaults when file missing, got %v", cats)
	}
	if cats[0] != "food" {
		t.Fatalf("cats[0] = %q, want %q", cats[0], "food")
	}
}

func TestLoadCategoriesSeedFile(t *testing.T) {
	dir := t.TempDir()
	seed := "# header\nfood\ntravel\nfood\n\n  drinks  \n"
	if err := os.WriteFile(filepath.Join(dir, "seed_categories.txt"), []byte(seed), 0o644); err != nil {
		t.Fatalf("write seed file: %v", err)
	}

	cats := LoadCategories(dir)
	want := []string{"food", "travel", "drinks"}
	if len(cats) != len(want) {
		t.Fatalf("unexpected cats: %v", cats)
	}
	for i := range want {
		if cats[i] != want[i] {
			t.Fatalf("cats[%d] = %q, want %q", i, cats[i], want[i])
		}
	}
}
