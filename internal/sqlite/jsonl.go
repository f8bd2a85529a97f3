// JSONL export and import for the elements table, one JSON object per line.
// Dumps are git-friendly and survive schema re-creation; import is
// transactional and skips malformed lines.
package sqlite

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/satchel/pkg/types"
)

// elementJSON mirrors one elements row in a JSONL dump.
type elementJSON struct {
	ElementID   string `json:"element_id"`
	OwnerID     string `json:"owner_id"`
	Association string `json:"association"`
	Key         int    `json:"k"`
	Position    int    `json:"position"`
	Value       any    `json:"value"`
	CreatedAt   string `json:"created_at"`
}

// ExportJSONL writes every stored element to path as JSONL, atomically via
// the temp-file, fsync, rename pattern.
func (s *Store) ExportJSONL(path string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.attached {
		return types.ErrStoreDetached
	}

	rows, err := s.db.Query(
		"SELECT element_id, owner_id, association, k, position, value, created_at FROM elements ORDER BY owner_id, association, position",
	)
	if err != nil {
		return fmt.Errorf("querying elements for export: %w", err)
	}
	defer rows.Close()

	var records []json.RawMessage
	for rows.Next() {
		var rec elementJSON
		var raw string
		if err := rows.Scan(&rec.ElementID, &rec.OwnerID, &rec.Association, &rec.Key, &rec.Position, &raw, &rec.CreatedAt); err != nil {
			return fmt.Errorf("scanning element for export: %w", err)
		}
		if err := json.Unmarshal([]byte(raw), &rec.Value); err != nil {
			return fmt.Errorf("decoding element %s: %w", rec.ElementID, err)
		}
		line, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encoding element %s: %w", rec.ElementID, err)
		}
		records = append(records, line)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating elements for export: %w", err)
	}

	return writeJSONL(path, records)
}

// ImportJSONL loads element records from a JSONL file into the database in
// one transaction. Malformed lines are skipped; rows that collide with
// existing (owner, association, key) entries replace them.
func (s *Store) ImportJSONL(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.attached {
		return types.ErrStoreDetached
	}

	records, err := readJSONL(path)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning import transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		"INSERT OR REPLACE INTO elements (element_id, owner_id, association, k, position, value, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
	)
	if err != nil {
		return fmt.Errorf("preparing import insert: %w", err)
	}
	defer stmt.Close()

	imported := 0
	for _, raw := range records {
		var rec elementJSON
		if err := json.Unmarshal(raw, &rec); err != nil {
			// Skip records that do not decode to the element shape.
			continue
		}
		if rec.ElementID == "" {
			rec.ElementID = newUUID()
		}
		value, err := json.Marshal(rec.Value)
		if err != nil {
			continue
		}
		if _, err := stmt.Exec(
			rec.ElementID, rec.OwnerID, rec.Association, rec.Key, rec.Position, string(value), rec.CreatedAt,
		); err != nil {
			// Skip rows that violate constraints.
			continue
		}
		imported++
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing import transaction: %w", err)
	}

	s.log.Debug("elements imported", zap.String("path", path), zap.Int("elements", imported))

	return nil
}

// readJSONL reads a JSONL file and returns each non-empty, parseable line as
// a json.RawMessage. Malformed lines are skipped.
func readJSONL(path string) ([]json.RawMessage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var records []json.RawMessage
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if !json.Valid(line) {
			continue
		}
		cp := make([]byte, len(line))
		copy(cp, line)
		records = append(records, json.RawMessage(cp))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}
	return records, nil
}

// writeJSONL atomically writes records to a JSONL file using the temp-file,
// fsync, rename pattern.
func writeJSONL(path string, records []json.RawMessage) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".jsonl-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	w := bufio.NewWriter(tmp)
	for _, rec := range records {
		if _, err := w.Write(rec); err != nil {
			tmp.Close()
			os.Remove(tmpName)
			return fmt.Errorf("writing record: %w", err)
		}
		if err := w.WriteByte('\n'); err != nil {
			tmp.Close()
			os.Remove(tmpName)
			return fmt.Errorf("writing newline: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("flushing buffer: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
