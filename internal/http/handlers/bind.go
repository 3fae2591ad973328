package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Param   string `json:"param,omitempty"`
	Message string `json:"message,omitempty"`
}

var registerJSONNames sync.Once

// useJSONFieldNames makes validator report fields by their json key, so
// error details name what the client actually sent.
func useJSONFieldNames() {
	registerJSONNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(sf reflect.StructField) string {
			name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			if name == "" {
				return sf.Name
			}
			return name
		})
	})
}

// BindJSON decodes and validates the request body into out. On failure it
// writes the error envelope and returns false.
func BindJSON(ctx *gin.Context, out any) bool {
	useJSONFieldNames()

	err := ctx.ShouldBindJSON(out)
	if err == nil {
		return true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		RespondError(ctx, http.StatusRequestEntityTooLarge, "payload_too_large",
			"Request body is too large", gin.H{"limit": tooLarge.Limit})
		return false
	}

	RespondBadRequest(ctx, "Invalid request body", parseBindError(err))
	return false
}

func parseBindError(err error) any {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		fields := make([]FieldError, 0, len(validationErrs))
		for _, fe := range validationErrs {
			fields = append(fields, FieldError{
				Field:   fe.Field(),
				Rule:    fe.Tag(),
				Param:   fe.Param(),
				Message: validationMessage(fe.Field(), fe.Tag(), fe.Param()),
			})
		}
		return gin.H{"fields": fields}
	}

	if errors.Is(err, io.EOF) {
		return gin.H{"json": "empty_body"}
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return gin.H{"json": "invalid_json_syntax", "offset": syntaxErr.Offset}
	}

	// encoding/json reports the path as dotted json keys already
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := strings.TrimSpace(typeErr.Field)
		return gin.H{
			"json":  "invalid_json_type",
			"field": field,
			"fields": []FieldError{{
				Field:   field,
				Rule:    "type",
				Message: typeMessage(field, typeErr.Type.Kind().String()),
			}},
		}
	}

	return gin.H{"reason": err.Error()}
}

// display names of the length-limited standup text fields
var textFields = map[string]string{
	"jiraId":             "Jira issue key",
	"taskDescription":    "task description",
	"blockerDescription": "blocker description",
	"nextTask":           "next task",
}

func validationMessage(field, rule, param string) string {
	label, isText := textFields[field]

	switch rule {
	case "required":
		if isText {
			return label + " is required"
		}
		return "is required"
	case "email":
		return "must be a valid email address"
	case "max":
		if isText {
			return label + " must be at most " + param + " characters"
		}
		return "must be at most " + param
	case "min":
		return "must be at least " + param
	case "oneof":
		return "must be one of " + strings.ReplaceAll(param, " ", ", ")
	default:
		if param != "" {
			return "failed " + rule + " validation (" + param + ")"
		}
		return "failed " + rule + " validation"
	}
}

func typeMessage(field, kind string) string {
	switch field {
	case "percentageComplete":
		return "must be a whole number between 0 and 100"
	case "hasBlocker":
		return "must be true or false"
	}
	if kind == "int" || kind == "int64" {
		return "must be a number"
	}
	return "must be of type " + kind
}
