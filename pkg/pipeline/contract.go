package pipeline

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
)

// Stage names a pipeline step.
type Stage string

const (
	StageDraft   Stage = "draft"
	StageEnhance Stage = "enhance"
)

//go:embed contracts.yaml
var contractsDocument []byte

var loadContracts = sync.OnceValues(func() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(contractsDocument)
	if err != nil {
		return nil, fmt.Errorf("pipeline: load contracts: %w", err)
	}
	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("pipeline: validate contracts: %w", err)
	}
	return doc, nil
})

func contractName(stage Stage) string {
	if stage == StageEnhance {
		return "EnhanceResponse"
	}
	return "DraftResponse"
}

// Contract returns the response schema the service is asked to follow for
// stage.
func Contract(stage Stage) (*openapi3.Schema, error) {
	doc, err := loadContracts()
	if err != nil {
		return nil, err
	}
	name := contractName(stage)
	ref, ok := doc.Components.Schemas[name]
	if !ok || ref == nil || ref.Value == nil {
		return nil, fmt.Errorf("pipeline: contract %q missing", name)
	}
	return ref.Value, nil
}

// contractJSON renders the stage schema for inclusion in a prompt.
func contractJSON(stage Stage) string {
	schema, err := Contract(stage)
	if err != nil {
		return "{}"
	}
	payload, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(payload)
}

// checkContract reports every deviation of payload from the stage schema.
// Deviations are tolerated by the parsers; callers only log them.
func checkContract(stage Stage, payload map[string]any) error {
	schema, err := Contract(stage)
	if err != nil {
		return err
	}
	return schema.VisitJSON(payload, openapi3.MultiErrors())
}
