package domain

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func TestFromValue(t *testing.T) {
	tests := []struct {
		name    string
		in      any
		want    any
		kind    Kind
		wantErr error
	}{
		{
			name: "Scalar",
			in:   "hello",
			want: "hello",
			kind: KindScalar,
		},
		{
			name: "Nil",
			in:   nil,
			want: nil,
			kind: KindScalar,
		},
		{
			name: "Nested Mapping",
			in: map[string]any{
				"a": 1,
				"b": []any{"x", map[string]any{"c": true}},
			},
			want: map[string]any{
				"a": 1,
				"b": []any{"x", map[string]any{"c": true}},
			},
			kind: KindMapping,
		},
		{
			name: "Typed Slice",
			in:   []string{"a", "b"},
			want: []any{"a", "b"},
			kind: KindSequence,
		},
		{
			name: "YAML Style Keys",
			in:   map[any]any{"port": 8080, 1: "one"},
			want: map[string]any{"port": 8080, "1": "one"},
			kind: KindMapping,
		},
		{
			name: "Reserved Keys Round Trip",
			in: map[string]any{
				"require": "fn",
				"options": []any{1, 2},
				"tag":     "x",
			},
			want: map[string]any{
				"require": "fn",
				"options": []any{1, 2},
				"tag":     "x",
			},
			kind: KindMapping,
		},
		{
			name:    "Module Key Rejected",
			in:      map[string]any{"module": "anything"},
			wantErr: ErrReservedKey,
		},
		{
			name:    "Nested Module Key Rejected",
			in:      map[string]any{"a": []any{map[string]any{"module": 1}}},
			wantErr: ErrReservedKey,
		},
		{
			name:    "Require Must Be String",
			in:      map[string]any{"require": 42},
			wantErr: ErrInvalidRequire,
		},
		{
			name:    "Require Must Not Be Empty",
			in:      map[string]any{"require": ""},
			wantErr: ErrInvalidRequire,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := FromValue(tt.in)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if n.Kind() != tt.kind {
				t.Errorf("kind = %s, want %s", n.Kind(), tt.kind)
			}
			if got := n.Value(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Value() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestFromValue_DoesNotAlias(t *testing.T) {
	shared := map[string]any{"list": []any{"a"}, "inner": map[string]any{"k": "v"}}

	n, err := FromValue(shared)
	if err != nil {
		t.Fatal(err)
	}

	inner, _ := n.Field("inner")
	if err := inner.Set("k", Scalar("changed")); err != nil {
		t.Fatal(err)
	}
	list, _ := n.Field("list")
	list.Append(Scalar("b"))

	if shared["inner"].(map[string]any)["k"] != "v" {
		t.Error("source map was mutated")
	}
	if len(shared["list"].([]any)) != 1 {
		t.Error("source slice was mutated")
	}
}

func TestNode_ReservedSlots(t *testing.T) {
	n := Mapping()
	if err := n.Set("require", Scalar("mod.json")); err != nil {
		t.Fatal(err)
	}
	if err := n.Set("options", Scalar("o")); err != nil {
		t.Fatal(err)
	}
	if err := n.Set("b", Scalar(2)); err != nil {
		t.Fatal(err)
	}
	if err := n.Set("a", Scalar(1)); err != nil {
		t.Fatal(err)
	}

	if n.Require() != "mod.json" {
		t.Errorf("Require() = %q", n.Require())
	}
	if n.Options() == nil || n.Options().Scalar() != "o" {
		t.Errorf("Options() = %v", n.Options())
	}
	if keys := n.Keys(); !reflect.DeepEqual(keys, []string{"b", "a"}) {
		t.Errorf("Keys() = %v, want insertion order without reserved keys", keys)
	}
	if err := n.Set("module", Scalar(nil)); !errors.Is(err, ErrReservedKey) {
		t.Errorf("expected ErrReservedKey, got %v", err)
	}
	if err := Scalar(1).Set("a", Scalar(2)); err == nil {
		t.Error("expected error setting a key on a scalar")
	}
}

func TestNode_CloneIsIndependent(t *testing.T) {
	orig, err := FromValue(map[string]any{"a": []any{1}, "options": map[string]any{"x": 1}})
	if err != nil {
		t.Fatal(err)
	}
	mod := &Module{Name: "m"}
	orig.Attach(mod)

	c := orig.Clone()
	a, _ := c.Field("a")
	a.Append(Scalar(2))
	if err := c.Options().Set("x", Scalar(2)); err != nil {
		t.Fatal(err)
	}

	if got := orig.Value(); !reflect.DeepEqual(got, map[string]any{"a": []any{1}, "options": map[string]any{"x": 1}}) {
		t.Errorf("original changed: %#v", got)
	}
	if c.Module() != mod {
		t.Error("clone should share the attached module")
	}
}

func TestNode_MarshalJSON(t *testing.T) {
	n, err := FromValue(map[string]any{"require": "fn", "tag": "x"})
	if err != nil {
		t.Fatal(err)
	}
	n.Attach(&Module{Name: "fn", Value: func() {}})

	b, err := json.Marshal(n)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"require":"fn","tag":"x"}` {
		t.Errorf("unexpected JSON: %s", b)
	}
	if n.String() != string(b) {
		t.Errorf("String() = %s", n.String())
	}
}

func TestLoadError(t *testing.T) {
	err := &LoadError{Name: "does-not-exist", Parent: "/cfg/app.json", Node: `{"require":"does-not-exist"}`, Err: ErrModuleNotFound}

	if !errors.Is(err, ErrModuleNotFound) {
		t.Error("LoadError should unwrap to its cause")
	}
	want := "cannot load module does-not-exist defined in /cfg/app.json (`{\"require\":\"does-not-exist\"}`): module not found"
	if err.Error() != want {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestLifecycleHooks_Merge(t *testing.T) {
	var calls []string
	a := LifecycleHooks{OnModuleLoad: func(_ context.Context, e *ModuleEvent) { calls = append(calls, "a:"+e.Name) }}
	b := LifecycleHooks{
		OnModuleLoad: func(_ context.Context, e *ModuleEvent) { calls = append(calls, "b:"+e.Name) },
		OnInvoke:     func(_ context.Context, e *InvokeEvent) { calls = append(calls, "invoke") },
	}

	merged := a.Merge(b)
	merged.OnModuleLoad(context.Background(), &ModuleEvent{Name: "m"})
	merged.OnInvoke(context.Background(), &InvokeEvent{})

	if merged.OnInvokeReturn != nil {
		t.Error("unset hooks should stay nil")
	}
	if !reflect.DeepEqual(calls, []string{"a:m", "b:m", "invoke"}) {
		t.Errorf("calls = %v", calls)
	}
}
