package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	ErrSchemaInvalid    = errors.New("schema invalid")
	ErrSchemaValidation = errors.New("schema validation failed")
)

// SchemaIssue captures a single schema violation.
type SchemaIssue struct {
	Location string
	Message  string
}

// PayloadValidationError lists the schema violations of one payload.
type PayloadValidationError struct {
	Issues []SchemaIssue
	Cause  error
}

func (e *PayloadValidationError) Error() string {
	if len(e.Issues) == 0 {
		if e.Cause != nil {
			return e.Cause.Error()
		}
		return ErrSchemaValidation.Error()
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		location := strings.TrimSpace(issue.Location)
		if !strings.HasPrefix(location, "#") {
			location = "#" + location
		}
		if issue.Message == "" {
			parts = append(parts, location)
			continue
		}
		parts = append(parts, location+": "+issue.Message)
	}
	return strings.Join(parts, "; ")
}

func (e *PayloadValidationError) Unwrap() error {
	return ErrSchemaValidation
}

// SchemaIssues extracts the schema violations carried by err.
func SchemaIssues(err error) []SchemaIssue {
	if err == nil {
		return nil
	}
	var payloadErr *PayloadValidationError
	if errors.As(err, &payloadErr) && payloadErr != nil {
		return payloadErr.Issues
	}
	var validationErr *jsonschema.ValidationError
	if errors.As(err, &validationErr) && validationErr != nil {
		return collectSchemaIssues(validationErr)
	}
	return []SchemaIssue{{Message: err.Error()}}
}

// PostSchema is the JSON schema every stored post must satisfy.
const PostSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["slug", "title", "content", "author", "date", "published", "tags", "commentCount", "likeCount"],
  "properties": {
    "slug":         {"type": "string", "minLength": 1, "pattern": "^[^\\s/]+$"},
    "title":        {"type": "string", "minLength": 1},
    "content":      {"type": "string"},
    "excerpt":      {"type": "string"},
    "author":       {"type": "string", "minLength": 1},
    "date":         {"type": "string", "minLength": 1},
    "imageUrl":     {"type": "string"},
    "imageHint":    {"type": "string"},
    "published":    {"type": "boolean"},
    "tags":         {"type": "array", "items": {"type": "string"}},
    "commentCount": {"type": "integer", "minimum": 0},
    "likeCount":    {"type": "integer", "minimum": 0}
  },
  "additionalProperties": false
}`

var postSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	return compileSchema([]byte(PostSchema))
})

// ValidatePost checks a post record against PostSchema. The record is
// encoded to JSON first so struct tags decide the property names.
func ValidatePost(record any) error {
	schema, err := postSchema()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}
	return validateWithSchema(schema, record)
}

// ValidatePayload validates payload against an arbitrary JSON schema document.
func ValidatePayload(schemaDoc []byte, payload any) error {
	schema, err := compileSchema(schemaDoc)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}
	return validateWithSchema(schema, payload)
}

func validateWithSchema(schema *jsonschema.Schema, payload any) error {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: encode payload: %v", ErrSchemaValidation, err)
	}
	var document any
	if err := json.Unmarshal(encoded, &document); err != nil {
		return fmt.Errorf("%w: decode payload: %v", ErrSchemaValidation, err)
	}
	if err := schema.Validate(document); err != nil {
		return &PayloadValidationError{Issues: SchemaIssues(err), Cause: err}
	}
	return nil
}

func compileSchema(doc []byte) (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("schema.json", bytes.NewReader(doc)); err != nil {
		return nil, err
	}
	return compiler.Compile("schema.json")
}

func collectSchemaIssues(err *jsonschema.ValidationError) []SchemaIssue {
	var issues []SchemaIssue
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			issues = append(issues, SchemaIssue{
				Location: strings.TrimSpace(node.InstanceLocation),
				Message:  strings.TrimSpace(node.Message),
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return issues
}
