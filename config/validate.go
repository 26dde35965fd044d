package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator reports fields by their YAML names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var problems []string

	// Required fields
	if c.Input == "" {
		problems = append(problems, "input page is required")
	} else if !c.ReadsStdin() {
		if _, err := os.Stat(c.Input); os.IsNotExist(err) {
			problems = append(problems, fmt.Sprintf("input page does not exist: %s", c.Input))
		}
	}

	if c.FramesDir != "" {
		if info, err := os.Stat(c.FramesDir); err != nil || !info.IsDir() {
			problems = append(problems, fmt.Sprintf("frames directory does not exist: %s", c.FramesDir))
		}
	}

	if c.PageURL != "" {
		if u, err := url.Parse(c.PageURL); err == nil && u.IsAbs() && u.Host == "" {
			problems = append(problems, fmt.Sprintf("page url has no host: %s", c.PageURL))
		}
	}

	if strings.ContainsAny(c.Naming.Extension, `/\`) {
		problems = append(problems, fmt.Sprintf("extension cannot contain a path separator: %s", c.Naming.Extension))
	}

	// Struct tag rules
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				problems = append(problems, describe(fe))
			}
		} else {
			problems = append(problems, err.Error())
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(problems, "\n  - "))
	}

	return nil
}

// describe renders a field error as "naming.variant must be one of: ...".
func describe(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("invalid %s '%v', must be one of: %s", field, fe.Value(), strings.ReplaceAll(fe.Param(), " ", ", "))
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s cannot exceed %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be positive", field)
	case "url":
		return fmt.Sprintf("%s must be a URL", field)
	case "contains":
		return fmt.Sprintf("%s must contain %s", field, fe.Param())
	}
	return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
}
