// Package schema loads the worksheet schema: sections, fields, evidence
// requirements and pinning categories. The engine reads it but never
// changes it.
package schema

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/movingout-dev/movingout/internal/model"
)

//go:embed default.yaml
var defaultDocument []byte

// Role says how a field participates in the worksheet.
type Role string

const (
	RoleInput      Role = "input"
	RoleDerived    Role = "derived"
	RoleReflection Role = "reflection"
)

// FieldType is the value shape of a field.
type FieldType string

const (
	TypeText         FieldType = "text"
	TypeNumber       FieldType = "number"
	TypeSelect       FieldType = "select"
	TypeTextarea     FieldType = "textarea"
	TypeCheckbox     FieldType = "checkbox"
	TypeURL          FieldType = "url"
	TypeFoodTable    FieldType = "food_table"
	TypeExpenseTable FieldType = "expense_table"
)

// IsTable reports whether values of this type are serialized row tables.
func (t FieldType) IsTable() bool {
	return t == TypeFoodTable || t == TypeExpenseTable
}

// Schema is one version of the worksheet definition.
type Schema struct {
	SchemaVersion        string                `yaml:"schema_version" json:"schema_version"`
	Title                string                `yaml:"title" json:"title"`
	Description          string                `yaml:"description,omitempty" json:"description,omitempty"`
	Sections             []Section             `yaml:"sections" json:"sections"`
	Fields               []Field               `yaml:"fields" json:"fields"`
	EvidenceRequirements []EvidenceRequirement `yaml:"evidence_requirements" json:"evidence_requirements"`
	Pinning              Pinning               `yaml:"pinning" json:"pinning"`
}

type Section struct {
	ID          string `yaml:"id" json:"id"`
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

type Option struct {
	Label string `yaml:"label" json:"label"`
	Value string `yaml:"value" json:"value"`
}

type Column struct {
	ID    string `yaml:"id" json:"id"`
	Label string `yaml:"label" json:"label"`
	Type  string `yaml:"type" json:"type"`
}

type Field struct {
	ID           string    `yaml:"id" json:"id"`
	SectionID    string    `yaml:"section_id" json:"section_id"`
	Label        string    `yaml:"label" json:"label"`
	Type         FieldType `yaml:"type" json:"type"`
	Role         Role      `yaml:"role" json:"role"`
	Required     bool      `yaml:"required" json:"required"`
	ComputeKey   string    `yaml:"compute_key,omitempty" json:"compute_key,omitempty"`
	Options      []Option  `yaml:"options,omitempty" json:"options,omitempty"`
	TableColumns []Column  `yaml:"table_columns,omitempty" json:"table_columns,omitempty"`
}

// EvidenceRequirement names an evidence category the worksheet asks for.
type EvidenceRequirement struct {
	ID          model.EvidenceType `yaml:"id" json:"id"`
	Label       string             `yaml:"label" json:"label"`
	Description string             `yaml:"description,omitempty" json:"description,omitempty"`
	Required    bool               `yaml:"required" json:"required"`
	SectionID   string             `yaml:"section_id" json:"section_id"`
}

type Pinning struct {
	Categories []PinCategory `yaml:"categories" json:"categories"`
}

// PinCategory configures what a pinned alternative captures.
type PinCategory struct {
	ID               model.PinCategory `yaml:"id" json:"id"`
	SectionID        string            `yaml:"section_id" json:"section_id"`
	LabelFieldID     string            `yaml:"label_field_id" json:"label_field_id"`
	SnapshotFieldIDs []string          `yaml:"snapshot_field_ids" json:"snapshot_field_ids"`
}

// Default returns the built-in worksheet schema.
func Default() *Schema {
	s, err := Parse(defaultDocument)
	if err != nil {
		panic(fmt.Sprintf("built-in schema is invalid: %v", err))
	}
	return s
}

// Load reads a schema document. JSON documents are accepted too.
func Load(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading schema: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a schema document.
func Parse(data []byte) (*Schema, error) {
	var s Schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing schema: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks field identity and references between parts of the schema.
func (s *Schema) Validate() error {
	var errs []error
	if s.SchemaVersion == "" {
		errs = append(errs, errors.New("schema_version is required"))
	}

	sections := make(map[string]bool, len(s.Sections))
	for _, sec := range s.Sections {
		sections[sec.ID] = true
	}

	seen := make(map[string]bool, len(s.Fields))
	for _, f := range s.Fields {
		if f.ID == "" {
			errs = append(errs, errors.New("field with empty id"))
			continue
		}
		if seen[f.ID] {
			errs = append(errs, fmt.Errorf("duplicate field %q", f.ID))
		}
		seen[f.ID] = true
		if !sections[f.SectionID] {
			errs = append(errs, fmt.Errorf("field %q: unknown section %q", f.ID, f.SectionID))
		}
		switch f.Role {
		case RoleInput, RoleDerived, RoleReflection:
		default:
			errs = append(errs, fmt.Errorf("field %q: unknown role %q", f.ID, f.Role))
		}
		if f.Role == RoleDerived && f.ComputeKey == "" {
			errs = append(errs, fmt.Errorf("field %q: derived field needs a compute_key", f.ID))
		}
	}

	for _, pc := range s.Pinning.Categories {
		for _, id := range append([]string{pc.LabelFieldID}, pc.SnapshotFieldIDs...) {
			if id != "" && !seen[id] {
				errs = append(errs, fmt.Errorf("pin category %q: unknown field %q", pc.ID, id))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid schema: %w", errors.Join(errs...))
	}
	return nil
}

// Field returns the field with the given id.
func (s *Schema) Field(id string) (Field, bool) {
	for _, f := range s.Fields {
		if f.ID == id {
			return f, true
		}
	}
	return Field{}, false
}

// Label returns a field's label, or the id itself for unknown fields.
func (s *Schema) Label(id string) string {
	if f, ok := s.Field(id); ok && f.Label != "" {
		return f.Label
	}
	return id
}

// RequiredFields returns the required fields in schema order.
func (s *Schema) RequiredFields() []Field {
	var out []Field
	for _, f := range s.Fields {
		if f.Required {
			out = append(out, f)
		}
	}
	return out
}

// SectionFields returns the fields of a section in schema order.
func (s *Schema) SectionFields(sectionID string) []Field {
	var out []Field
	for _, f := range s.Fields {
		if f.SectionID == sectionID {
			out = append(out, f)
		}
	}
	return out
}

// RequiredEvidence returns the required evidence categories.
func (s *Schema) RequiredEvidence() []EvidenceRequirement {
	var out []EvidenceRequirement
	for _, r := range s.EvidenceRequirements {
		if r.Required {
			out = append(out, r)
		}
	}
	return out
}

// PinCategory returns the pinning configuration for a category.
func (s *Schema) PinCategory(id model.PinCategory) (PinCategory, bool) {
	for _, pc := range s.Pinning.Categories {
		if pc.ID == id {
			return pc, true
		}
	}
	return PinCategory{}, false
}
