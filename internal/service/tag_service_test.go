package service

import (
	"errors"
	"testing"
)

func TestTagCreateDerivesSlug(t *testing.T) {
	gdb, cleanup := setupServiceTestDB(t)
	defer cleanup()

	svc := NewTagService(gdb)
	tag, err := svc.Create("Via Ferrata")
	if err != nil {
		t.Fatalf("create tag: %v", err)
	}
	if tag.Slug != "via-ferrata" {
		t.Fatalf("unexpected slug: %s", tag.Slug)
	}
}

func TestTagCreateDuplicateName(t *testing.T) {
	gdb, cleanup := setupServiceTestDB(t)
	defer cleanup()

	svc := NewTagService(gdb)
	if _, err := svc.Create("Trad"); err != nil {
		t.Fatalf("create tag: %v", err)
	}
	if _, err := svc.Create("Trad"); !errors.Is(err, ErrTagExists) {
		t.Fatalf("expected ErrTagExists, got %v", err)
	}
}

func TestTagListOrdersByName(t *testing.T) {
	gdb, cleanup := setupServiceTestDB(t)
	defer cleanup()

	svc := NewTagService(gdb)
	for _, name := range []string{"Zanskar", "Beta", "Crimp"} {
		if _, err := svc.Create(name); err != nil {
			t.Fatalf("create tag %s: %v", name, err)
		}
	}

	list, err := svc.List()
	if err != nil {
		t.Fatalf("list tags: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 tags, got %d", len(list))
	}
	if list[0].Name != "Beta" || list[1].Name != "Crimp" || list[2].Name != "Zanskar" {
		t.Fatalf("unexpected order: %+v", []string{list[0].Name, list[1].Name, list[2].Name})
	}
}

func TestTagGetBySlugNotFound(t *testing.T) {
	gdb, cleanup := setupServiceTestDB(t)
	defer cleanup()

	svc := NewTagService(gdb)
	if _, err := svc.GetBySlug("missing"); !errors.Is(err, ErrTagNotFound) {
		t.Fatalf("expected ErrTagNotFound, got %v", err)
	}
}
