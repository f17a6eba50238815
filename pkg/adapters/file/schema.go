package file

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/aretw0/backstack/pkg/domain"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema.json
var schemaSource []byte

const schemaURL = "https://github.com/aretw0/backstack/routes.schema.json"

var compiled = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaSource)); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	return compiler.Compile(schemaURL)
})

// Schema returns the embedded JSON Schema for route documents.
func Schema() []byte {
	return bytes.Clone(schemaSource)
}

// validate checks a decoded document against the embedded schema.
// The document is normalized through encoding/json first because the
// validator only understands JSON value types.
func validate(doc any) error {
	schema, err := compiled()
	if err != nil {
		return err
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return &domain.ConfigError{Reason: fmt.Sprintf("document is not representable as JSON: %v", err)}
	}
	var instance any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&instance); err != nil {
		return &domain.ConfigError{Reason: err.Error()}
	}

	if err := schema.Validate(instance); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			return &domain.ConfigError{Reason: describe(verr)}
		}
		return &domain.ConfigError{Reason: err.Error()}
	}
	return nil
}

// describe flattens the deepest validation causes into one line.
func describe(verr *jsonschema.ValidationError) string {
	leaf := verr
	for len(leaf.Causes) > 0 {
		leaf = leaf.Causes[0]
	}
	loc := leaf.InstanceLocation
	if loc == "" {
		loc = "/"
	}
	return fmt.Sprintf("%s: %s", loc, leaf.Message)
}
