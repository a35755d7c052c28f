package tests

import (
	"context"
	"errors"
	"reflect"
	"sort"
	"testing"

	"github.com/aretw0/graft/pkg/domain"
	"github.com/aretw0/graft/pkg/ports"
)

// HostContractTest is a reusable test suite that verifies if an adapter complies with ports.Host.
// setup maps every reference name the host was seeded with to the value Load must return.
func HostContractTest(t *testing.T, host ports.Host, setup map[string]any) {
	t.Helper()
	ctx := context.Background()

	// 1. Resolve + Load (Success)
	t.Run("Load_Success", func(t *testing.T) {
		for name, expected := range setup {
			location, err := host.Resolve(name, "")
			if err != nil {
				t.Fatalf("unexpected error resolving %s: %v", name, err)
			}
			got, err := host.Load(ctx, location)
			if err != nil {
				t.Fatalf("unexpected error loading %s (%s): %v", name, location, err)
			}
			if !reflect.DeepEqual(got, expected) {
				t.Errorf("value mismatch for %s. got %#v, want %#v", name, got, expected)
			}
		}
	})

	// 2. Repeated loads are stable
	t.Run("Load_Stable", func(t *testing.T) {
		for name := range setup {
			location, err := host.Resolve(name, "")
			if err != nil {
				t.Fatalf("unexpected error resolving %s: %v", name, err)
			}
			first, err := host.Load(ctx, location)
			if err != nil {
				t.Fatal(err)
			}
			second, err := host.Load(ctx, location)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(first, second) {
				t.Errorf("two loads of %s differ: %#v vs %#v", name, first, second)
			}
		}
	})

	// 3. Resolve (NotFound)
	t.Run("Resolve_NotFound", func(t *testing.T) {
		_, err := host.Resolve("non-existent-module", "")
		if !errors.Is(err, domain.ErrModuleNotFound) {
			t.Errorf("expected ErrModuleNotFound, got %v", err)
		}
	})

	// 4. Load (NotFound)
	t.Run("Load_NotFound", func(t *testing.T) {
		_, err := host.Load(ctx, "non-existent-location")
		if !errors.Is(err, domain.ErrModuleNotFound) {
			t.Errorf("expected ErrModuleNotFound, got %v", err)
		}
	})

	// 5. List (optional)
	lister, ok := host.(ports.Lister)
	if !ok {
		return
	}
	t.Run("List", func(t *testing.T) {
		names, err := lister.List(ctx)
		if err != nil {
			t.Fatalf("unexpected error listing modules: %v", err)
		}

		want := make([]string, 0, len(setup))
		for name := range setup {
			want = append(want, name)
		}
		sort.Strings(want)
		got := append([]string(nil), names...)
		sort.Strings(got)

		if !reflect.DeepEqual(got, want) {
			t.Errorf("List() = %v, want %v", got, want)
		}
	})
}
