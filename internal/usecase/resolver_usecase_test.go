package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/user/property-monitor/internal/adapter/memory"
	"github.com/user/property-monitor/internal/repository"
)

func newResolver() DistrictResolver {
	return NewDistrictResolver(memory.NewDistrictStore())
}

func TestResolveEmptyStreet(t *testing.T) {
	r := newResolver()

	district, err := r.Resolve(context.Background(), "")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if district != UnknownDistrict {
		t.Errorf("empty street: got %q, want %q", district, UnknownDistrict)
	}
}

func TestResolveUnmappedStreet(t *testing.T) {
	r := newResolver()

	district, err := r.Resolve(context.Background(), "UnknownStreetXYZ")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if district != UnknownDistrict {
		t.Errorf("unmapped street: got %q, want %q", district, UnknownDistrict)
	}
}

func TestAddMappingThenResolve(t *testing.T) {
	r := newResolver()
	ctx := context.Background()

	if err := r.AddMapping(ctx, "UnknownStreetXYZ", "NewDistrict"); err != nil {
		t.Fatalf("AddMapping: %v", err)
	}
	district, err := r.Resolve(ctx, "UnknownStreetXYZ")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if district != "NewDistrict" {
		t.Errorf("after AddMapping: got %q, want %q", district, "NewDistrict")
	}
}

func TestAddMappingIdempotent(t *testing.T) {
	r := newResolver()
	ctx := context.Background()

	if err := r.AddMapping(ctx, "Галицька", "Центр"); err != nil {
		t.Fatalf("first AddMapping: %v", err)
	}
	if err := r.AddMapping(ctx, "Галицька", "Центр"); err != nil {
		t.Errorf("identical pair should succeed, got %v", err)
	}
}

func TestAddMappingConflict(t *testing.T) {
	r := newResolver()
	ctx := context.Background()

	if err := r.AddMapping(ctx, "Галицька", "Центр"); err != nil {
		t.Fatalf("AddMapping: %v", err)
	}
	err := r.AddMapping(ctx, "Галицька", "Пасічна")
	if !errors.Is(err, repository.ErrConflict) {
		t.Errorf("remap attempt: got %v, want ErrConflict", err)
	}

	// The original fact must survive the rejected remap.
	district, err := r.Resolve(ctx, "Галицька")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if district != "Центр" {
		t.Errorf("after rejected remap: got %q, want %q", district, "Центр")
	}
}

func TestListMappingsOrder(t *testing.T) {
	r := newResolver()
	ctx := context.Background()

	pairs := [][2]string{
		{"Зелена", "Пасічна"},
		{"Шевченка", "Центр"},
		{"Галицька", "Центр"},
		{"Північна", "БАМ"},
	}
	for _, p := range pairs {
		if err := r.AddMapping(ctx, p[0], p[1]); err != nil {
			t.Fatalf("AddMapping(%q): %v", p[0], err)
		}
	}

	mappings, err := r.ListMappings(ctx)
	if err != nil {
		t.Fatalf("ListMappings: %v", err)
	}
	want := [][2]string{
		{"Північна", "БАМ"},
		{"Зелена", "Пасічна"},
		{"Галицька", "Центр"},
		{"Шевченка", "Центр"},
	}
	if len(mappings) != len(want) {
		t.Fatalf("len: got %d, want %d", len(mappings), len(want))
	}
	for i, w := range want {
		if mappings[i].Street != w[0] || mappings[i].District != w[1] {
			t.Errorf("mappings[%d]: got %s/%s, want %s/%s",
				i, mappings[i].Street, mappings[i].District, w[0], w[1])
		}
	}
}

func TestSeedDefaults(t *testing.T) {
	r := newResolver()
	ctx := context.Background()

	// An operator fact written before seeding must win over the seed.
	if err := r.AddMapping(ctx, "Галицька", "Кастомний"); err != nil {
		t.Fatalf("AddMapping: %v", err)
	}
	if err := r.SeedDefaults(ctx); err != nil {
		t.Fatalf("SeedDefaults: %v", err)
	}

	district, err := r.Resolve(ctx, "Галицька")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if district != "Кастомний" {
		t.Errorf("seed must not overwrite: got %q, want %q", district, "Кастомний")
	}

	district, err = r.Resolve(ctx, "Трускавецька")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if district != "Пасічна" {
		t.Errorf("seeded street: got %q, want %q", district, "Пасічна")
	}
}
