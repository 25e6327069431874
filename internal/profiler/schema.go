package profiler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/xeipuuv/gojsonschema"
)

// FieldType is the subset of JSON types the model is asked to produce.
type FieldType string

const (
	TypeString      FieldType = "string"
	TypeInteger     FieldType = "integer"
	TypeStringArray FieldType = "array"
)

// Field is one named property of a response object.
type Field struct {
	Name        string
	Type        FieldType
	Description string
	Required    bool
	NonEmpty    bool // strings only: reject "" on receipt
	// AcceptMissing keeps the field required in the request but tolerates its absence in the response.
	AcceptMissing bool
}

// Schema describes the JSON object a response must conform to.
type Schema struct {
	Name   string
	Fields []Field
}

// ProfileSchema constrains Ideal Customer Profile responses.
var ProfileSchema = Schema{
	Name: "profile",
	Fields: []Field{
		{Name: "role", Type: TypeString, Description: "Job title of the ideal customer", Required: true, NonEmpty: true},
		{Name: "companySize", Type: TypeString, Description: "Size of the company (e.g., SMB, Enterprise)", Required: true, NonEmpty: true},
		{Name: "painPoints", Type: TypeStringArray, Description: "Top 3-5 pain points", Required: true},
		{Name: "goals", Type: TypeStringArray, Description: "Top 3-5 professional goals", Required: true},
		{Name: "buyingTriggers", Type: TypeStringArray, Description: "Events that trigger a purchase"},
		{Name: "preferredChannels", Type: TypeStringArray, Description: "Marketing channels (LinkedIn, Email, etc.)"},
		{Name: "techStack", Type: TypeStringArray, Description: "Current tools they likely use"},
	},
}

// FeedbackSchema constrains creative feedback responses.
var FeedbackSchema = Schema{
	Name: "feedback",
	Fields: []Field{
		{Name: "score", Type: TypeInteger, Description: "A score from 1-100 on effectiveness", Required: true},
		{Name: "strengths", Type: TypeStringArray, Required: true},
		{Name: "weaknesses", Type: TypeStringArray, Required: true},
		{Name: "suggestions", Type: TypeStringArray, Description: "Actionable steps to improve", Required: true},
		{Name: "revisedContent", Type: TypeString, Description: "An AI-generated improved version of the content", Required: true, AcceptMissing: true},
	},
}

// RequiredNames lists the fields marked mandatory in the request.
func (s Schema) RequiredNames() []string {
	var out []string
	for _, f := range s.Fields {
		if f.Required {
			out = append(out, f.Name)
		}
	}
	return out
}

// GenaiSchema projects the schema onto the Gemini response-schema type.
func (s Schema) GenaiSchema() *genai.Schema {
	props := make(map[string]*genai.Schema, len(s.Fields))
	for _, f := range s.Fields {
		var prop *genai.Schema
		switch f.Type {
		case TypeString:
			prop = &genai.Schema{Type: genai.TypeString}
		case TypeInteger:
			prop = &genai.Schema{Type: genai.TypeInteger}
		case TypeStringArray:
			prop = &genai.Schema{Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}}
		}
		prop.Description = f.Description
		props[f.Name] = prop
	}
	return &genai.Schema{
		Type:       genai.TypeObject,
		Properties: props,
		Required:   s.RequiredNames(),
	}
}

// JSONSchema is the draft-07 document used to validate what actually came back.
func (s Schema) JSONSchema() map[string]interface{} {
	props := make(map[string]interface{}, len(s.Fields))
	required := []interface{}{}
	for _, f := range s.Fields {
		prop := map[string]interface{}{"type": string(f.Type)}
		if f.Type == TypeStringArray {
			prop["items"] = map[string]interface{}{"type": "string"}
		}
		if f.NonEmpty && f.Type == TypeString {
			prop["minLength"] = 1
		}
		props[f.Name] = prop
		if f.Required && !f.AcceptMissing {
			required = append(required, f.Name)
		}
	}
	return map[string]interface{}{
		"$schema":    "http://json-schema.org/draft-07/schema#",
		"type":       "object",
		"properties": props,
		"required":   required,
	}
}

var errSchemaViolation = errors.New("response does not match schema")

// Validate checks a raw JSON document against the schema.
func (s Schema) Validate(raw []byte) error {
	schemaLoader := gojsonschema.NewGoLoader(s.JSONSchema())
	documentLoader := gojsonschema.NewBytesLoader(raw)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("%w (%s): %s", errSchemaViolation, s.Name, strings.Join(errs, "; "))
	}
	return nil
}
