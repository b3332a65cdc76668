package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"

	statex "github.com/tmaharjan/voxcore/agent/state"
)

// DefaultLeadsFile is the collection the file sink grows.
const DefaultLeadsFile = "leads_db.json"

// FileLeadSink persists lead records in a single JSON document via
// read-merge-write. Commits are serialized behind a mutex and written through
// a temp file + rename, so concurrent commits within one process cannot lose
// updates and a crash cannot leave a half-written collection. A missing or
// unparseable existing file is treated as an empty collection: a broken leads
// file must never block capturing a new lead.
type FileLeadSink struct {
	path string
	mu   sync.Mutex
}

func NewFileLeadSink(path string) *FileLeadSink {
	return &FileLeadSink{path: path}
}

func (s *FileLeadSink) Commit(ctx context.Context, rec statex.LeadRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing := s.readExisting()
	existing = append(existing, rec)

	payload, err := json.MarshalIndent(existing, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal leads collection: %w", err)
	}

	if err := s.writeAtomic(payload); err != nil {
		return err
	}

	log.Info().Str("path", s.path).Int("total", len(existing)).Msg("lead committed")
	return nil
}

func (s *FileLeadSink) readExisting() []statex.LeadRecord {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		log.Warn().Err(err).Str("path", s.path).Msg("leads file unreadable, starting empty")
		return nil
	}

	var records []statex.LeadRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		log.Warn().Err(err).Str("path", s.path).Msg("leads file corrupt, starting empty")
		return nil
	}
	return records
}

func (s *FileLeadSink) writeAtomic(payload []byte) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create leads dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".leads-*.json")
	if err != nil {
		return fmt.Errorf("create temp leads file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write leads file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close leads file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace leads file: %w", err)
	}
	return nil
}
