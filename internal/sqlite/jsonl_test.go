// Tests for JSONL export and import.
package sqlite

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mesh-intelligence/satchel/pkg/types"
)

func TestExportImportRoundTrip(t *testing.T) {
	src := attachedStore(t)
	owner := types.OwnerRef{ID: "post-1", Kind: "post"}

	c := src.Collection(owner, "comments")
	c.Add("hello")
	c.Add(map[string]any{"nested": true})
	c.Add(nil)
	if err := src.Flush(c); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	dumpPath := filepath.Join(t.TempDir(), "elements.jsonl")
	if err := src.ExportJSONL(dumpPath); err != nil {
		t.Fatalf("ExportJSONL failed: %v", err)
	}

	dst := attachedStore(t)
	if err := dst.ImportJSONL(dumpPath); err != nil {
		t.Fatalf("ImportJSONL failed: %v", err)
	}

	values, err := dst.Collection(owner, "comments").Values()
	if err != nil {
		t.Fatalf("Values failed: %v", err)
	}
	if len(values) != 3 {
		t.Fatalf("expected 3 values, got %d", len(values))
	}
	if values[0] != "hello" {
		t.Errorf("values[0] = %v, want hello", values[0])
	}
	obj, ok := values[1].(map[string]any)
	if !ok || obj["nested"] != true {
		t.Errorf("values[1] = %v, want nested map", values[1])
	}
	if values[2] != nil {
		t.Errorf("values[2] = %v, want nil", values[2])
	}
}

func TestImportSkipsMalformedLines(t *testing.T) {
	s := attachedStore(t)

	lines := strings.Join([]string{
		`{"element_id":"e1","owner_id":"post-1","association":"tags","k":0,"position":0,"value":"ok","created_at":"2026-01-01T00:00:00Z"}`,
		`{not json at all`,
		``,
		`{"element_id":"e2","owner_id":"post-1","association":"tags","k":1,"position":1,"value":"also ok","created_at":"2026-01-01T00:00:00Z"}`,
	}, "\n")
	path := filepath.Join(t.TempDir(), "mixed.jsonl")
	if err := os.WriteFile(path, []byte(lines), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := s.ImportJSONL(path); err != nil {
		t.Fatalf("ImportJSONL failed: %v", err)
	}

	values, err := s.Collection(types.OwnerRef{ID: "post-1"}, "tags").Values()
	if err != nil {
		t.Fatalf("Values failed: %v", err)
	}
	if len(values) != 2 {
		t.Fatalf("expected 2 imported values, got %d", len(values))
	}
}

func TestImportGeneratesMissingElementIDs(t *testing.T) {
	s := attachedStore(t)

	line := `{"owner_id":"post-2","association":"tags","k":0,"position":0,"value":42,"created_at":"2026-01-01T00:00:00Z"}`
	path := filepath.Join(t.TempDir(), "noid.jsonl")
	if err := os.WriteFile(path, []byte(line+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := s.ImportJSONL(path); err != nil {
		t.Fatalf("ImportJSONL failed: %v", err)
	}

	values, err := s.Collection(types.OwnerRef{ID: "post-2"}, "tags").Values()
	if err != nil {
		t.Fatalf("Values failed: %v", err)
	}
	if len(values) != 1 || values[0] != float64(42) {
		t.Errorf("values = %v, want [42]", values)
	}
}

func TestExportDetachedStoreFails(t *testing.T) {
	s := NewStore()
	err := s.ExportJSONL(filepath.Join(t.TempDir(), "out.jsonl"))
	if err != types.ErrStoreDetached {
		t.Errorf("expected ErrStoreDetached, got %v", err)
	}
}
