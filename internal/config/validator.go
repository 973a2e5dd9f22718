package config

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	rulesyncerrors "github.com/skyeshanohan/rulesync/pkg/errors"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	orgNamePattern = regexp.MustCompile(`^[a-zA-Z0-9](?:[a-zA-Z0-9-]*[a-zA-Z0-9])?$`)
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		// Report yaml field names in validation errors.
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})

		_ = v.RegisterValidation("org_name", func(fl validator.FieldLevel) bool {
			return orgNamePattern.MatchString(fl.Field().String())
		})

		_ = v.RegisterValidation("document_path", func(fl validator.FieldLevel) bool {
			path := fl.Field().String()
			if path == "" || strings.HasPrefix(path, "/") {
				return false
			}
			for _, part := range strings.Split(path, "/") {
				if part == "" || part == ".." {
					return false
				}
			}
			return true
		})

		validateInst = v
	})

	return validateInst
}

// ValidateConfig performs schema and cross-field validation on the configuration.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return rulesyncerrors.NewValidationError("config", "configuration is nil", nil)
	}

	v := validatorInstance()
	if err := v.Struct(cfg); err != nil {
		return convertValidationError(err)
	}

	seen := make(map[string]struct{}, len(cfg.Classifier.ProductionValues))
	for i, value := range cfg.Classifier.ProductionValues {
		if _, exists := seen[value]; exists {
			return rulesyncerrors.NewValidationError(
				fmt.Sprintf("classifier.production_values[%d]", i),
				fmt.Sprintf("duplicate lifecycle value %q", value), nil)
		}
		seen[value] = struct{}{}
	}

	return nil
}

func convertValidationError(err error) error {
	if err == nil {
		return nil
	}

	if ves, ok := err.(validator.ValidationErrors); ok {
		ve := ves[0]
		field := yamlishFieldName(ve)
		msg := fmt.Sprintf("%s failed validation for tag '%s'", field, ve.Tag())
		return rulesyncerrors.NewValidationError(field, msg, err)
	}

	return rulesyncerrors.NewValidationError("config", err.Error(), err)
}

func yamlishFieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	parts := strings.Split(ns, ".")
	var lowered []string
	for _, part := range parts {
		lowered = append(lowered, strings.ToLower(part))
	}
	return strings.Join(lowered, ".")
}
