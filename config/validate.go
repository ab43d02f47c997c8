// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce    sync.Once
	structValidator *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("mapstructure"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
		v.RegisterStructValidation(validateRedirect, Redirect{})
		structValidator = v
	})
	return structValidator
}

// validateRedirect requires a secret once a site URL enables protection.
func validateRedirect(sl validator.StructLevel) {
	r, ok := sl.Current().Interface().(Redirect)
	if !ok {
		return
	}
	if r.SiteURL != "" && r.Secret == "" {
		sl.ReportError(r.Secret, "secret", "Secret", "required_with_site_url", "")
	}
}

// validate checks cfg and reports every failing key as an [Error].
func validate(cfg *Kernel) error {
	err := validatorInstance().Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return NewError("kernel", "validate", err)
	}

	errs := make([]error, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Namespace()
		if _, rest, ok := strings.Cut(field, "."); ok {
			field = rest
		}
		errs = append(errs, NewFieldError("kernel", field, "validate", ruleError(fe)))
	}
	return errors.Join(errs...)
}

func ruleError(fe validator.FieldError) error {
	if fe.Param() != "" {
		return fmt.Errorf("failed %q validation with %q", fe.Tag(), fe.Param())
	}
	return fmt.Errorf("failed %q validation", fe.Tag())
}
