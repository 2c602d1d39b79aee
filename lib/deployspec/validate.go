// Copyright 2026 The Altus Authors
// SPDX-License-Identifier: Apache-2.0

package deployspec

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// deploymentNamePattern matches valid deployment names: DNS labels,
// since the name becomes the endpoint hostname's first component.
var deploymentNamePattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?$`)

// envKeyPattern matches valid environment variable names.
var envKeyPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// imageRefPattern is a loose check on image references: a registry
// path with an optional tag or digest. The registry does the
// authoritative parse; this catches pasted garbage early.
var imageRefPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9._/-]*[a-z0-9])?(:[A-Za-z0-9._-]+)?(@sha256:[a-f0-9]{64})?$`)

// ValidationError is a single validation failure with a dot-notation
// path into the spec document (e.g. "resources.memory_mib").
type ValidationError struct {
	FieldPath string
	Message   string
}

// ValidationErrors is the collection of all failures found in one
// validation pass.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}
	var builder strings.Builder
	fmt.Fprintf(&builder, "invalid deployment spec (%d problem(s)):", len(ve))
	for _, err := range ve {
		fmt.Fprintf(&builder, "\n  %s: %s", err.FieldPath, err.Message)
	}
	return builder.String()
}

var validate *validator.Validate

func init() {
	validate = validator.New()

	if err := validate.RegisterValidation("deployment_name", validateDeploymentName); err != nil {
		panic(err)
	}
	if err := validate.RegisterValidation("image_ref", validateImageRef); err != nil {
		panic(err)
	}

	// Report field names by their json tag so error paths match what
	// the user wrote in the document.
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateDeploymentName(fl validator.FieldLevel) bool {
	return deploymentNamePattern.MatchString(fl.Field().String())
}

func validateImageRef(fl validator.FieldLevel) bool {
	return imageRefPattern.MatchString(fl.Field().String())
}

// Validate checks the spec's fields and cross-field constraints.
// Returns a [ValidationErrors] naming every problem, or nil when the
// spec is valid.
func (spec *Spec) Validate() error {
	var validationErrors ValidationErrors

	if err := validate.Struct(spec); err != nil {
		validationErrors = append(validationErrors, convertValidatorErrors(err)...)
	}

	// Environment variable names follow shell identifier rules.
	for key := range spec.Env {
		if !envKeyPattern.MatchString(key) {
			validationErrors = append(validationErrors, ValidationError{
				FieldPath: fmt.Sprintf("env[%q]", key),
				Message:   "must be a valid environment variable name ([A-Za-z_][A-Za-z0-9_]*)",
			})
		}
	}

	// Injected secrets must be named once each.
	seenSecrets := make(map[string]bool, len(spec.Secrets))
	for index, name := range spec.Secrets {
		if name == "" {
			validationErrors = append(validationErrors, ValidationError{
				FieldPath: fmt.Sprintf("secrets[%d]", index),
				Message:   "secret name cannot be empty",
			})
			continue
		}
		if seenSecrets[name] {
			validationErrors = append(validationErrors, ValidationError{
				FieldPath: fmt.Sprintf("secrets[%d]", index),
				Message:   fmt.Sprintf("duplicate secret: %s", name),
			})
		}
		seenSecrets[name] = true
	}

	// A health check probes the routed port, so it needs one.
	if spec.HealthCheck != nil && spec.Port == 0 {
		validationErrors = append(validationErrors, ValidationError{
			FieldPath: "health_check",
			Message:   "requires port to be set",
		})
	}

	if len(validationErrors) > 0 {
		return validationErrors
	}
	return nil
}

// convertValidatorErrors maps go-playground/validator failures to
// ValidationError entries with document paths.
func convertValidatorErrors(err error) ValidationErrors {
	var validationErrors ValidationErrors

	var validatorErrs validator.ValidationErrors
	if !errors.As(err, &validatorErrs) {
		validationErrors = append(validationErrors, ValidationError{
			FieldPath: "(spec)",
			Message:   err.Error(),
		})
		return validationErrors
	}

	for _, fieldError := range validatorErrs {
		validationErrors = append(validationErrors, ValidationError{
			FieldPath: fieldPath(fieldError),
			Message:   validationMessage(fieldError),
		})
	}
	return validationErrors
}

// fieldPath converts the validator's namespace ("Spec.resources.
// memory_mib") into the document path ("resources.memory_mib").
func fieldPath(fieldError validator.FieldError) string {
	namespace := fieldError.Namespace()
	if index := strings.Index(namespace, "."); index != -1 {
		return namespace[index+1:]
	}
	return fieldError.Field()
}

// validationMessage returns a human-readable message for a validation
// failure.
func validationMessage(fieldError validator.FieldError) string {
	switch fieldError.Tag() {
	case "required":
		return "field is required"
	case "min":
		return fmt.Sprintf("must be >= %s", fieldError.Param())
	case "max":
		return fmt.Sprintf("must be <= %s", fieldError.Param())
	case "startswith":
		return fmt.Sprintf("must start with %q", fieldError.Param())
	case "deployment_name":
		return "must be a DNS label: lowercase letters, digits, and hyphens, starting and ending with a letter or digit, at most 63 characters"
	case "image_ref":
		return "must be an image reference like \"registry.example.com/app:v1\""
	default:
		return fmt.Sprintf("validation failed: %s", fieldError.Tag())
	}
}
