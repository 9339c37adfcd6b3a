package services

import (
	"sort"

	"github.com/replikit/tap-covid19/internal/core/domain"
)

// fileStreamFields are the properties every file-stream record carries.
var fileStreamFields = map[string]string{
	"path":          "string",
	"name":          "string",
	"sha":           "string",
	"size":          "integer",
	"url":           "string",
	"html_url":      "string",
	"git_url":       "string",
	"download_url":  "string",
	"type":          "string",
	"encoding":      "string",
	"last_modified": "date-time",
}

// rowStreamFields are the provenance properties every row-stream
// record carries; source columns beyond these are permitted by the
// schema's additionalProperties.
var rowStreamFields = map[string]string{
	domain.FieldGitPath:         "string",
	domain.FieldGitSHA:          "string",
	domain.FieldGitLastModified: "date-time",
	domain.FieldGitFileName:     "string",
	domain.FieldRowNumber:       "integer",
}

// Discover generates the catalog from the flattened stream registry.
// No stream is selected; callers apply their selection before a sync.
func Discover() *domain.Catalog {
	flat := domain.FlattenStreams()

	names := make([]string, 0, len(flat))
	for name := range flat {
		names = append(names, name)
	}
	sort.Strings(names)

	catalog := &domain.Catalog{}
	for _, name := range names {
		meta := flat[name]
		fields := fileStreamFields
		if meta.ReplicationMethod == domain.ReplicationFullTable {
			fields = rowStreamFields
		}
		catalog.Entries = append(catalog.Entries, domain.CatalogEntry{
			Stream:            name,
			Schema:            streamSchema(fields),
			KeyProperties:     meta.KeyProperties,
			ReplicationMethod: meta.ReplicationMethod,
			ReplicationKeys:   meta.ReplicationKeys,
			Fields:            catalogFields(fields),
		})
	}
	return catalog
}

// streamSchema builds a permissive object schema: known fields are
// typed, everything else is allowed through.
func streamSchema(fields map[string]string) map[string]any {
	props := make(map[string]any, len(fields))
	for name, kind := range fields {
		prop := map[string]any{}
		switch kind {
		case "integer":
			prop["type"] = []string{"null", "integer"}
		case "date-time":
			prop["type"] = []string{"null", "string"}
			prop["format"] = "date-time"
		default:
			prop["type"] = []string{"null", "string"}
		}
		props[name] = prop
	}
	return map[string]any{
		"type":                 "object",
		"properties":           props,
		"additionalProperties": true,
	}
}

func catalogFields(fields map[string]string) []domain.CatalogField {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]domain.CatalogField, 0, len(names))
	for _, name := range names {
		out = append(out, domain.CatalogField{Name: name, Selected: true})
	}
	return out
}
