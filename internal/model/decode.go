package model

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

func isYAML(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func decode(name string, data []byte, v interface{}) error {
	if isYAML(name) {
		return yaml.Unmarshal(data, v)
	}
	return json.Unmarshal(data, v)
}

// DecodeKnowledgeBase parses a snapshot (YAML when name ends in .yaml/.yml,
// JSON otherwise) and validates its shape
func DecodeKnowledgeBase(name string, data []byte) (KnowledgeBase, error) {
	kb := NewKnowledgeBase()
	if err := decode(name, data, &kb); err != nil {
		return KnowledgeBase{}, &InputError{Field: "snapshot", Reason: err.Error()}
	}
	if err := kb.Validate(); err != nil {
		return KnowledgeBase{}, err
	}
	return kb, nil
}

// DecodeReferencePolicy parses and validates a policy
func DecodeReferencePolicy(name string, data []byte) (ReferencePolicy, error) {
	p := NewReferencePolicy()
	if err := decode(name, data, &p); err != nil {
		return ReferencePolicy{}, &InputError{Field: "policy", Reason: err.Error()}
	}
	if err := p.Validate(); err != nil {
		return ReferencePolicy{}, err
	}
	return p, nil
}

// LoadKnowledgeBase reads and decodes a snapshot file
func LoadKnowledgeBase(path string) (KnowledgeBase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return KnowledgeBase{}, fmt.Errorf("read snapshot: %w", err)
	}
	return DecodeKnowledgeBase(path, data)
}

// LoadReferencePolicy reads and decodes a policy file
func LoadReferencePolicy(path string) (ReferencePolicy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ReferencePolicy{}, fmt.Errorf("read policy: %w", err)
	}
	return DecodeReferencePolicy(path, data)
}
