package todos

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/xyz-asif/jsontodo/internal/pkg/response"
	"github.com/xyz-asif/jsontodo/internal/pkg/validator"
	apperrors "github.com/xyz-asif/jsontodo/pkg/errors"
)

const (
	msgTextRequired    = "text must be a non-empty string"
	msgInvalidDate     = "invalid date format"
	msgInvalidDone     = "completed must be true or false"
	msgBodyNotAnObject = "request body must be a JSON object"
)

const todoFields = `
	"text": {"type": "string"},
	"dueDate": {"type": ["string", "null"]},
	"completed": {"type": "boolean"}`

var (
	createSchema = jsonschema.MustCompileString("create-todo.json", `{
	"type": "object",
	"required": ["text"],
	"properties": {`+todoFields+`}
}`)
	updateSchema = jsonschema.MustCompileString("update-todo.json", `{
	"type": "object",
	"properties": {`+todoFields+`}
}`)
)

var errNotJSON = errors.New("malformed json")

// FieldError is a rejected request body. It matches apperrors.ErrValidation.
type FieldError struct {
	Message string
}

func (e *FieldError) Error() string { return e.Message }

func (e *FieldError) Unwrap() error { return apperrors.ErrValidation }

func invalid(msg string) error { return &FieldError{Message: msg} }

// ValidateCreate checks a create body before the handler runs.
func ValidateCreate() gin.HandlerFunc {
	return validateBody(createSchema)
}

// ValidateUpdate checks a partial update body before the handler runs.
func ValidateUpdate() gin.HandlerFunc {
	return validateBody(updateSchema)
}

func validateBody(schema *jsonschema.Schema) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := c.GetRawData()
		if err != nil {
			response.BindJSONError(c, err)
			c.Abort()
			return
		}
		if len(bytes.TrimSpace(body)) == 0 {
			body = []byte("{}")
		}

		doc, err := decodeJSON(body)
		if err != nil {
			response.BindJSONError(c, err)
			c.Abort()
			return
		}

		if err := CheckTodoBody(schema, doc); err != nil {
			response.ValidationFailed(c, err.Error())
			c.Abort()
			return
		}

		// the handler binds from these bytes instead of the drained request body
		c.Set(gin.BodyBytesKey, body)
		c.Next()
	}
}

// CheckTodoBody returns a *FieldError describing the first problem in doc, or nil.
func CheckTodoBody(schema *jsonschema.Schema, doc interface{}) error {
	if err := schema.Validate(doc); err != nil {
		return invalid(schemaMessage(err))
	}

	obj := doc.(map[string]interface{})
	// text is trimmed with unicode.IsSpace before it is stored
	if text, ok := obj["text"].(string); ok && validator.IsBlank(text) {
		return invalid(msgTextRequired)
	}
	if due, ok := obj["dueDate"].(string); ok && !validator.IsBlank(due) && !validator.IsValidDate(due) {
		return invalid(msgInvalidDate)
	}
	return nil
}

func decodeJSON(body []byte) (interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errNotJSON
	}
	return doc, nil
}

func schemaMessage(err error) string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err.Error()
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}

	field := strings.TrimPrefix(strings.TrimPrefix(ve.InstanceLocation, "#"), "/")
	if field == "" && strings.HasSuffix(ve.KeywordLocation, "/required") {
		field = "text"
	}
	switch field {
	case "text":
		return msgTextRequired
	case "dueDate":
		return msgInvalidDate
	case "completed":
		return msgInvalidDone
	case "":
		return msgBodyNotAnObject
	}
	return ve.Message
}
