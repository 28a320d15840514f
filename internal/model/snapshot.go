package model

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// Default identifiers used when a snapshot omits them
const (
	DefaultKnowledgeBaseID = "kb-default"
	DefaultSnapshotID      = "snapshot-unknown"
	DefaultEntityStatus    = "active"
)

// SourceDocument is the provenance record an entity's facts are attributed to
type SourceDocument struct {
	ID      string `json:"id" yaml:"id"`
	Title   string `json:"title" yaml:"title"`
	Date    *Date  `json:"date,omitempty" yaml:"date,omitempty"`
	URI     string `json:"uri,omitempty" yaml:"uri,omitempty"`
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
}

// KnowledgeEntity is a single entity extracted from source material
type KnowledgeEntity struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Domain      string   `json:"domain,omitempty" yaml:"domain,omitempty"`
	Facts       []string `json:"facts" yaml:"facts"`
	Reliability *float64 `json:"reliability,omitempty" yaml:"reliability,omitempty"` // 0..1
	Provenance  []string `json:"provenance" yaml:"provenance"`                       // Source document ids
	UpdatedAt   *Date    `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
	ValidFrom   *Date    `json:"valid_from,omitempty" yaml:"valid_from,omitempty"`
	ValidTo     *Date    `json:"valid_to,omitempty" yaml:"valid_to,omitempty"`
	Version     string   `json:"version,omitempty" yaml:"version,omitempty"`
	Status      string   `json:"status" yaml:"status"`
	Confidence  *float64 `json:"confidence,omitempty" yaml:"confidence,omitempty"` // 0..1
}

// foldLegacySource maps the legacy singular source field into provenance
func foldLegacySource(e KnowledgeEntity, source string) KnowledgeEntity {
	if source != "" && len(e.Provenance) == 0 {
		e.Provenance = []string{source}
	}
	return e
}

// UnmarshalJSON folds the legacy source field into provenance
func (e *KnowledgeEntity) UnmarshalJSON(b []byte) error {
	type plain KnowledgeEntity
	var w struct {
		plain
		Source string `json:"source"`
	}
	// Only an absent status takes the default; an explicit "" is kept
	w.plain.Status = DefaultEntityStatus
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*e = foldLegacySource(KnowledgeEntity(w.plain), w.Source)
	return nil
}

// UnmarshalYAML folds the legacy source field into provenance
func (e *KnowledgeEntity) UnmarshalYAML(value *yaml.Node) error {
	type plain KnowledgeEntity
	var w struct {
		Plain  plain  `yaml:",inline"`
		Source string `yaml:"source"`
	}
	w.Plain.Status = DefaultEntityStatus
	if err := value.Decode(&w); err != nil {
		return err
	}
	*e = foldLegacySource(KnowledgeEntity(w.Plain), w.Source)
	return nil
}

// HasDomain reports whether the entity carries a non-empty domain
func (e KnowledgeEntity) HasDomain() bool {
	return e.Domain != ""
}

// KnowledgeRelation is a directed edge between two entities
type KnowledgeRelation struct {
	Source     string   `json:"source" yaml:"source"`
	Type       string   `json:"type" yaml:"type"`
	Target     string   `json:"target" yaml:"target"`
	Confidence *float64 `json:"confidence,omitempty" yaml:"confidence,omitempty"`
}

// KnowledgeBase is one snapshot of a knowledge base
type KnowledgeBase struct {
	KnowledgeBaseID  string              `json:"knowledge_base_id" yaml:"knowledge_base_id"`
	SnapshotID       string              `json:"snapshot_id" yaml:"snapshot_id"`
	ReferenceVersion *string             `json:"reference_version" yaml:"reference_version,omitempty"`
	CreatedAt        *Timestamp          `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	SourceDocs       []SourceDocument    `json:"source_docs" yaml:"source_docs"`
	Entities         []KnowledgeEntity   `json:"entities" yaml:"entities"`
	Relations        []KnowledgeRelation `json:"relations" yaml:"relations"`
}

// NewKnowledgeBase returns an empty snapshot with default identifiers
func NewKnowledgeBase() KnowledgeBase {
	return KnowledgeBase{
		KnowledgeBaseID: DefaultKnowledgeBaseID,
		SnapshotID:      DefaultSnapshotID,
		SourceDocs:      []SourceDocument{},
		Entities:        []KnowledgeEntity{},
		Relations:       []KnowledgeRelation{},
	}
}

// UnmarshalJSON applies the snapshot defaults before decoding
func (kb *KnowledgeBase) UnmarshalJSON(b []byte) error {
	type plain KnowledgeBase
	p := plain(NewKnowledgeBase())
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*kb = KnowledgeBase(p)
	kb.fillEmpty()
	return nil
}

// UnmarshalYAML applies the snapshot defaults before decoding
func (kb *KnowledgeBase) UnmarshalYAML(value *yaml.Node) error {
	type plain KnowledgeBase
	p := plain(NewKnowledgeBase())
	if err := value.Decode(&p); err != nil {
		return err
	}
	*kb = KnowledgeBase(p)
	kb.fillEmpty()
	return nil
}

// fillEmpty keeps list fields non-nil so they encode as [] rather than null
func (kb *KnowledgeBase) fillEmpty() {
	if kb.SourceDocs == nil {
		kb.SourceDocs = []SourceDocument{}
	}
	if kb.Entities == nil {
		kb.Entities = []KnowledgeEntity{}
	}
	if kb.Relations == nil {
		kb.Relations = []KnowledgeRelation{}
	}
	for i := range kb.Entities {
		if kb.Entities[i].Facts == nil {
			kb.Entities[i].Facts = []string{}
		}
		if kb.Entities[i].Provenance == nil {
			kb.Entities[i].Provenance = []string{}
		}
	}
}

// SourceDocIDs returns the set of known source document ids
func (kb *KnowledgeBase) SourceDocIDs() map[string]bool {
	ids := make(map[string]bool, len(kb.SourceDocs))
	for _, doc := range kb.SourceDocs {
		ids[doc.ID] = true
	}
	return ids
}
