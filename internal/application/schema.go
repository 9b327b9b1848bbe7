package application

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	dErrors "loanassist/pkg/domain-errors"
)

//go:embed application.schema.json
var schemaDocument []byte

var (
	compileOnce sync.Once
	compiled    *gojsonschema.Schema
	compileErr  error
)

// Schema returns the JSON schema describing a RawApplication document.
func Schema() []byte {
	out := make([]byte, len(schemaDocument))
	copy(out, schemaDocument)
	return out
}

// ValidateDocument checks a JSON document against the application schema
// before it is decoded. Violations are reported as invalid_input, one clause
// per problem.
func ValidateDocument(data []byte) error {
	compileOnce.Do(func() {
		compiled, compileErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaDocument))
	})
	if compileErr != nil {
		return dErrors.Wrap(compileErr, dErrors.CodeInternal, "application schema does not compile")
	}

	result, err := compiled.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid JSON body")
	}
	if result.Valid() {
		return nil
	}

	problems := make([]string, len(result.Errors()))
	for i, desc := range result.Errors() {
		problems[i] = fmt.Sprintf("%s: %s", desc.Field(), desc.Description())
	}
	return dErrors.New(dErrors.CodeInvalidInput, strings.Join(problems, "; "))
}
