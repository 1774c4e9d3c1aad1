package knowledge

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/swasthya-bot/server/internal/agent/model"
	logx "github.com/swasthya-bot/server/pkg/logger"
)

//go:embed data/health.json
var defaultDataset []byte

// Load reads a dataset from path. YAML is selected by the .yaml/.yml
// extension, everything else is parsed as JSON. An empty path loads the
// embedded dataset.
func Load(path string) (*model.KnowledgeBase, error) {
	if strings.TrimSpace(path) == "" {
		return Parse(defaultDataset, false)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read knowledge base %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return Parse(raw, true)
	default:
		return Parse(raw, false)
	}
}

// Parse decodes a dataset document.
func Parse(raw []byte, isYAML bool) (*model.KnowledgeBase, error) {
	var kb model.KnowledgeBase
	if isYAML {
		if err := yaml.Unmarshal(raw, &kb); err != nil {
			return nil, fmt.Errorf("decode knowledge yaml: %w", err)
		}
		return &kb, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&kb); err != nil {
		return nil, fmt.Errorf("decode knowledge json: %w", err)
	}
	return &kb, nil
}

// LoadOrEmpty never fails: a dataset that cannot be read or decoded yields an
// empty Base, and every lookup then degrades to its fallback text.
func LoadOrEmpty(path string) *Base {
	kb, err := Load(path)
	if err != nil {
		logx.Error().Err(err).Str("path", path).Msg("knowledge base unavailable, continuing with empty dataset")
		return New(nil)
	}
	b := New(kb)
	logx.Info().
		Str("path", path).
		Int("diseases", len(kb.Diseases)).
		Int("vaccinations", len(kb.Vaccinations)).
		Int("first_aid", len(kb.FirstAid)).
		Int("emergency_contacts", len(kb.EmergencyContacts)).
		Msg("knowledge base loaded")
	return b
}
