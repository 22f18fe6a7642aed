// Package schema validates settings documents against the embedded JSON
// Schema before they are committed, and when doctor inspects a workspace.
package schema

import (
	"bytes"
	_ "embed"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/thoreinstein/wsgen/internal/errors"
	"github.com/thoreinstein/wsgen/internal/settings"
)

//go:embed data/settings.schema.json
var schemaBytes []byte

const resourceName = "settings.schema.json"

var (
	compiledSchema *jsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
	printer        = message.NewPrinter(language.English)
)

// ErrInvalidSettings is wrapped by Check when validation finds issues.
var ErrInvalidSettings = errors.New("settings do not match schema")

// Result contains the outcome of a schema validation.
type Result struct {
	Valid  bool
	Issues []Issue
}

// Issue is a single leaf-level validation failure.
type Issue struct {
	Path    string // JSON pointer into the document, "" for the root
	Message string
	Keyword string
}

func (i Issue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return i.Path + ": " + i.Message
}

// Raw returns the embedded schema source.
func Raw() []byte {
	return bytes.Clone(schemaBytes)
}

func getSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaBytes))
		if err != nil {
			compileErr = errors.Wrap(err, "unmarshaling schema JSON")
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource(resourceName, doc); err != nil {
			compileErr = errors.Wrap(err, "adding schema resource")
			return
		}
		compiledSchema, compileErr = c.Compile(resourceName)
		if compileErr != nil {
			compileErr = errors.Wrap(compileErr, "compiling schema")
		}
	})
	return compiledSchema, compileErr
}

// Validate checks raw JSON bytes against the settings schema.
// The error return is for malformed JSON or schema compilation failures;
// validation issues are reported in the Result.
func Validate(data []byte) (*Result, error) {
	sch, err := getSchema()
	if err != nil {
		return nil, errors.Wrap(err, "loading schema")
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "parsing settings JSON")
	}

	err = sch.Validate(inst)
	if err == nil {
		return &Result{Valid: true}, nil
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return nil, errors.Wrap(err, "unexpected validation error")
	}

	return &Result{Issues: extractIssues(ve)}, nil
}

// ValidateDocument encodes d and validates the result.
func ValidateDocument(d *settings.Document) (*Result, error) {
	data, err := settings.Encode(d)
	if err != nil {
		return nil, errors.Wrap(err, "encoding settings")
	}
	return Validate(data)
}

// Check validates d and returns an error listing every issue, or nil.
func Check(d *settings.Document) error {
	res, err := ValidateDocument(d)
	if err != nil {
		return err
	}
	if res.Valid {
		return nil
	}
	msgs := make([]string, 0, len(res.Issues))
	for _, issue := range res.Issues {
		msgs = append(msgs, issue.String())
	}
	return errors.Wrapf(ErrInvalidSettings, "%s", strings.Join(msgs, "; "))
}

// extractIssues flattens the error tree into leaf issues.
func extractIssues(ve *jsonschema.ValidationError) []Issue {
	var issues []Issue
	collectIssues(ve, &issues)

	if len(issues) == 0 {
		return []Issue{{Message: ve.Error()}}
	}
	return dedupe(issues)
}

func collectIssues(ve *jsonschema.ValidationError, issues *[]Issue) {
	if len(ve.Causes) > 0 {
		for _, cause := range ve.Causes {
			collectIssues(cause, issues)
		}
		return
	}

	path := ""
	if len(ve.InstanceLocation) > 0 {
		path = "/" + strings.Join(ve.InstanceLocation, "/")
	}

	keyword := ""
	msg := ""
	if ve.ErrorKind != nil {
		if kw := ve.ErrorKind.KeywordPath(); len(kw) > 0 {
			keyword = kw[len(kw)-1]
		}
		msg = ve.ErrorKind.LocalizedString(printer)
	}

	if keyword == "allOf" || keyword == "$ref" || keyword == "" {
		return
	}

	*issues = append(*issues, Issue{Path: path, Message: msg, Keyword: keyword})
}

func dedupe(issues []Issue) []Issue {
	seen := make(map[string]bool, len(issues))
	var out []Issue
	for _, issue := range issues {
		key := issue.Path + "|" + issue.Keyword + "|" + issue.Message
		if !seen[key] {
			seen[key] = true
			out = append(out, issue)
		}
	}
	return out
}
