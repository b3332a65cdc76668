package content

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	contractx "github.com/tmaharjan/voxcore/agent/contract"
)

const (
	FAQFile    = "worldlink_faq.json"
	TopicsFile = "topics.json"
	WorldFile  = "world.json"

	// DefaultEntryScene is where a fresh playthrough starts.
	DefaultEntryScene = "intro"
)

var (
	//go:embed defaults/faq.json
	defaultFAQRaw []byte

	//go:embed defaults/topics.json
	defaultTopicsRaw []byte

	//go:embed defaults/world.json
	defaultWorldRaw []byte
)

// Store loads content collections from a directory, bootstrapping the
// built-in defaults for any document that does not exist yet. Bootstrap is
// idempotent: existence is checked first, so each default is written at most
// once, and a subsequent load parses the same bytes.
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// LoadFAQ returns the FAQ collection.
func (s *Store) LoadFAQ() ([]FAQEntry, error) {
	raw, err := s.loadOrBootstrap(FAQFile, defaultFAQRaw)
	if err != nil {
		return nil, err
	}

	var faq []FAQEntry
	if err := json.Unmarshal(raw, &faq); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", contractx.ErrContentLoad, FAQFile, err)
	}
	return faq, nil
}

// LoadTopics returns the topic table, keyed case-insensitively by id.
func (s *Store) LoadTopics() (TopicTable, error) {
	raw, err := s.loadOrBootstrap(TopicsFile, defaultTopicsRaw)
	if err != nil {
		return TopicTable{}, err
	}

	var topics []Topic
	if err := json.Unmarshal(raw, &topics); err != nil {
		return TopicTable{}, fmt.Errorf("%w: parse %s: %v", contractx.ErrContentLoad, TopicsFile, err)
	}
	return NewTopicTable(topics), nil
}

// LoadWorld returns the validated scene graph. A YAML document (world.yaml or
// world.yml) takes precedence over world.json when present; otherwise
// world.json is bootstrapped from the built-in default. An unresolvable
// transition target is fatal here, not at traversal time.
func (s *Store) LoadWorld() (World, error) {
	var (
		raw    []byte
		name   string
		isYAML bool
		err    error
	)

	for _, candidate := range []string{"world.yaml", "world.yml"} {
		path := filepath.Join(s.dir, candidate)
		if _, statErr := os.Stat(path); statErr == nil {
			raw, err = os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("%w: read %s: %v", contractx.ErrContentLoad, candidate, err)
			}
			name, isYAML = candidate, true
			break
		}
	}

	if raw == nil {
		raw, err = s.loadOrBootstrap(WorldFile, defaultWorldRaw)
		if err != nil {
			return nil, err
		}
		name = WorldFile
	}

	var world World
	if isYAML {
		err = yaml.Unmarshal(raw, &world)
	} else {
		err = json.Unmarshal(raw, &world)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", contractx.ErrContentLoad, name, err)
	}

	if err := ValidateWorld(world); err != nil {
		return nil, err
	}
	return world, nil
}

// LoadBundle loads everything the engine needs, in one pass at startup.
func (s *Store) LoadBundle() (*Bundle, error) {
	faq, err := s.LoadFAQ()
	if err != nil {
		return nil, err
	}

	topics, err := s.LoadTopics()
	if err != nil {
		return nil, err
	}

	world, err := s.LoadWorld()
	if err != nil {
		return nil, err
	}
	if _, ok := world[DefaultEntryScene]; !ok {
		return nil, fmt.Errorf("%w: entry scene %q not present", contractx.ErrGraphInvalid, DefaultEntryScene)
	}

	log.Info().
		Int("faq_entries", len(faq)).
		Int("topics", topics.Len()).
		Int("scenes", len(world)).
		Str("dir", s.dir).
		Msg("content bundle loaded")

	return &Bundle{
		FAQ:        faq,
		Topics:     topics,
		World:      world,
		EntryScene: DefaultEntryScene,
	}, nil
}

// FAQJSON renders the FAQ back to JSON for embedding in a model prompt.
func (b *Bundle) FAQJSON() string {
	raw, err := json.Marshal(b.FAQ)
	if err != nil {
		return "[]"
	}
	return string(raw)
}

func (s *Store) loadOrBootstrap(name string, fallback []byte) ([]byte, error) {
	path := filepath.Join(s.dir, name)

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(s.dir, 0o755); err != nil {
			return nil, fmt.Errorf("%w: create content dir: %v", contractx.ErrContentLoad, err)
		}
		if err := os.WriteFile(path, fallback, 0o644); err != nil {
			return nil, fmt.Errorf("%w: bootstrap %s: %v", contractx.ErrContentLoad, name, err)
		}
		log.Info().Str("file", name).Msg("content document missing, wrote built-in default")
	} else if err != nil {
		return nil, fmt.Errorf("%w: stat %s: %v", contractx.ErrContentLoad, name, err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", contractx.ErrContentLoad, name, err)
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", contractx.ErrContentLoad, name)
	}
	return raw, nil
}
