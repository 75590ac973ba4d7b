package parser

import (
	"fmt"

	"github.com/eleven-am/ormlite/internal/logger"
	"github.com/eleven-am/ormlite/pkg/metadata"
)

// ModelError is the failure to extract one model
type ModelError struct {
	Struct string
	Pos    string
	Err    error
}

func (e ModelError) Error() string {
	if e.Pos != "" {
		return fmt.Sprintf("%s: %s: %s", e.Pos, e.Struct, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Struct, e.Err)
}

func (e ModelError) Unwrap() error {
	return e.Err
}

// ValidationResult contains every extracted table and every failure
type ValidationResult struct {
	Valid  bool
	Tables []*metadata.TableDescriptor
	Errors []ModelError
}

// Catalog indexes the successfully extracted tables
func (r ValidationResult) Catalog() *metadata.Catalog {
	return metadata.NewCatalog(r.Tables...)
}

// Extract assembles the table descriptor of each model. A failing model is
// reported and skipped; it never contributes a partial table.
func Extract(models []Model, opts ...metadata.Option) ValidationResult {
	result := ValidationResult{Valid: true}
	log := logger.Metadata()

	for _, model := range models {
		table, err := metadata.BuildTable(model.RecordDecl, opts...)
		if err != nil {
			result.Valid = false
			modelErr := ModelError{
				Struct: string(model.Ident),
				Err:    err,
			}
			if model.Pos.IsValid() {
				modelErr.Pos = model.Pos.String()
			}
			result.Errors = append(result.Errors, modelErr)
			log.WithField("struct", model.Ident).Warn("extraction failed: %v", err)
			continue
		}

		log.WithFields(map[string]interface{}{
			"struct":  table.StructIdent,
			"table":   table.TableName,
			"columns": len(table.Columns),
		}).Debug("extracted table")
		result.Tables = append(result.Tables, table)
	}

	return result
}
