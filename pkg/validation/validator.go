// Shipstats Core
// Copyright (c) 2026 The Shipstats Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Shipstats Core.
//
// Shipstats Core is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Shipstats Core is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Shipstats Core.  If not, see <http://www.gnu.org/licenses/>.

// Package validation validates configuration structs using
// go-playground/validator with custom validators for shipstats types.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shipstats/shipstats-core/pkg/aggregate"
	"github.com/shipstats/shipstats-core/pkg/dataset"
	"github.com/shipstats/shipstats-core/pkg/ships/matcher"
)

// Validator validates structs tagged with `validate`.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new Validator with registered custom validators.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report toml key names instead of Go field names
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("toml"), ",")
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})

	_ = v.RegisterValidation("algorithm", validateAlgorithm)
	_ = v.RegisterValidation("granularity", validateGranularity)
	_ = v.RegisterValidation("metric", validateMetric)

	return &Validator{validate: v}
}

// DefaultValidator is a shared validator instance.
var DefaultValidator = NewValidator()

// Validate validates a struct and returns an *Error if any field fails.
func (v *Validator) Validate(s any) error {
	if err := v.validate.Struct(s); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return NewError(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

// Empty values are accepted by the custom validators and fall back to
// package defaults.

func validateAlgorithm(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	_, err := matcher.ParseAlgorithm(val)
	return err == nil
}

func validateGranularity(fl validator.FieldLevel) bool {
	_, err := aggregate.ParseGranularity(fl.Field().String())
	return err == nil
}

func validateMetric(fl validator.FieldLevel) bool {
	_, err := dataset.ParseMetric(fl.Field().String())
	return err == nil
}
