package document

import (
	"errors"
	"reflect"
	"testing"
)

func TestDocument_Get(t *testing.T) {
	doc := Document{
		"server": map[string]any{
			"host": "localhost",
			"tls": map[string]any{
				"enabled": true,
			},
		},
		"tags":  []any{"a", "b"},
		"count": float64(3),
	}

	tests := []struct {
		name   string
		path   string
		want   any
		wantOK bool
	}{
		{"single segment", "count", float64(3), true},
		{"nested", "server.host", "localhost", true},
		{"deep nested", "server.tls.enabled", true, true},
		{"mapping value", "server.tls", map[string]any{"enabled": true}, true},
		{"sequence value", "tags", []any{"a", "b"}, true},
		{"missing first segment", "missing.key", nil, false},
		{"missing leaf", "server.port", nil, false},
		{"descend into scalar", "server.host.deeper", nil, false},
		{"descend into sequence", "tags.0", nil, false},
		{"empty path", "", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := doc.Get(tt.path)
			if ok != tt.wantOK {
				t.Fatalf("Get(%q) ok = %v, want %v", tt.path, ok, tt.wantOK)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Get(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestDocument_Get_NilDocument(t *testing.T) {
	var doc Document
	if _, ok := doc.Get("a.b"); ok {
		t.Error("Get on nil document returned ok")
	}
}

func TestDocument_Set(t *testing.T) {
	tests := []struct {
		name string
		doc  Document
		path string
		val  any
		want Document
	}{
		{
			name: "single segment",
			doc:  Document{},
			path: "a",
			val:  1,
			want: Document{"a": 1},
		},
		{
			name: "creates intermediates",
			doc:  Document{},
			path: "a.b.c",
			val:  "x",
			want: Document{"a": map[string]any{"b": map[string]any{"c": "x"}}},
		},
		{
			name: "overwrites leaf",
			doc:  Document{"a": map[string]any{"b": 1}},
			path: "a.b",
			val:  "x",
			want: Document{"a": map[string]any{"b": "x"}},
		},
		{
			name: "replaces scalar intermediate with mapping",
			doc:  Document{"a": "scalar"},
			path: "a.b",
			val:  1,
			want: Document{"a": map[string]any{"b": 1}},
		},
		{
			name: "replaces sequence intermediate with mapping",
			doc:  Document{"a": []any{1, 2}},
			path: "a.b",
			val:  1,
			want: Document{"a": map[string]any{"b": 1}},
		},
		{
			name: "replaces mapping leaf with scalar",
			doc:  Document{"a": map[string]any{"b": map[string]any{"c": 1}}},
			path: "a.b",
			val:  "flat",
			want: Document{"a": map[string]any{"b": "flat"}},
		},
		{
			name: "sibling keys untouched",
			doc:  Document{"a": map[string]any{"keep": true}},
			path: "a.b",
			val:  1,
			want: Document{"a": map[string]any{"keep": true, "b": 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.doc.Set(tt.path, tt.val); err != nil {
				t.Fatalf("Set(%q) error: %v", tt.path, err)
			}
			if !reflect.DeepEqual(tt.doc, tt.want) {
				t.Errorf("after Set(%q, %v):\n got %v\nwant %v", tt.path, tt.val, tt.doc, tt.want)
			}
		})
	}
}

func TestDocument_Set_EmptyPath(t *testing.T) {
	doc := Document{}
	err := doc.Set("", 1)
	if !errors.Is(err, ErrEmptyPath) {
		t.Fatalf("Set(\"\") error = %v, want ErrEmptyPath", err)
	}
	if len(doc) != 0 {
		t.Error("Set(\"\") mutated the document")
	}
}

func TestDocument_Set_NilDocument(t *testing.T) {
	var doc Document
	err := doc.Set("a.b", 1)
	if !errors.Is(err, ErrNilDocument) {
		t.Fatalf("Set on nil document error = %v, want ErrNilDocument", err)
	}
}

func TestDocument_SetThenGet_RoundTrip(t *testing.T) {
	paths := []string{
		"a",
		"a.b",
		"x.y.z.w",
		"server.tls.enabled",
	}

	doc := Document{"a": "preexisting scalar"}
	for _, path := range paths {
		if err := doc.Set(path, path+"-value"); err != nil {
			t.Fatalf("Set(%q) error: %v", path, err)
		}
		got, ok := doc.Get(path)
		if !ok {
			t.Fatalf("Get(%q) after Set: not found", path)
		}
		if got != path+"-value" {
			t.Errorf("Get(%q) = %v, want %q", path, got, path+"-value")
		}
	}
}

func TestDocument_Delete(t *testing.T) {
	doc := Document{
		"a": map[string]any{"b": 1, "c": 2},
		"d": 3,
	}

	if !doc.Delete("a.b") {
		t.Error("Delete(a.b) = false, want true")
	}
	if doc.Has("a.b") {
		t.Error("a.b still present after Delete")
	}
	if !doc.Has("a.c") {
		t.Error("sibling a.c removed by Delete")
	}
	if doc.Delete("a.b") {
		t.Error("second Delete(a.b) = true, want false")
	}
	if doc.Delete("missing.path") {
		t.Error("Delete of missing path = true, want false")
	}
	if doc.Delete("") {
		t.Error("Delete of empty path = true, want false")
	}
}

func TestDocument_Get_NestedDocumentValue(t *testing.T) {
	// Values inserted by callers may be Document rather than
	// map[string]any; descent must handle both.
	doc := Document{}
	if err := doc.Set("outer", Document{"inner": 42}); err != nil {
		t.Fatal(err)
	}

	got, ok := doc.Get("outer.inner")
	if !ok || got != 42 {
		t.Errorf("Get(outer.inner) = %v, %v, want 42, true", got, ok)
	}
}
