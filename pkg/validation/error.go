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

package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalid matches every *Error with errors.Is.
var ErrInvalid = errors.New("validation failed")

// Error lists every field that failed validation.
type Error struct {
	Fields []FieldError
}

// FieldError is one failed field. Field is the toml key and Section the
// toml table holding it, empty for top-level keys.
type FieldError struct {
	Value   any
	Section string
	Field   string
	Tag     string
	Message string
}

// Key returns the dotted section.field path accepted by -set overrides.
func (fe FieldError) Key() string {
	if fe.Section == "" {
		return fe.Field
	}
	return fe.Section + "." + fe.Field
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return ErrInvalid.Error()
	}
	msgs := make([]string, 0, len(e.Fields))
	for _, fe := range e.Fields {
		msgs = append(msgs, fe.Message)
	}
	return strings.Join(msgs, "; ")
}

func (*Error) Unwrap() error {
	return ErrInvalid
}

// NewError converts validator errors. Messages name fields by toml key.
func NewError(errs validator.ValidationErrors) *Error {
	out := &Error{Fields: make([]FieldError, 0, len(errs))}
	for _, fe := range errs {
		out.Fields = append(out.Fields, FieldError{
			Value:   fe.Value(),
			Section: section(fe.Namespace()),
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Message: message(fe),
		})
	}
	return out
}

// section returns the table of a namespace such as
// "Values.normalizer.algorithm". The root struct name is dropped.
func section(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) < 3 {
		return ""
	}
	return strings.Join(parts[1:len(parts)-1], ".")
}

var messages = map[string]func(field, param string, value any) string{
	"required": func(field, _ string, _ any) string {
		return field + " is required"
	},
	"algorithm": func(field, _ string, value any) string {
		return fmt.Sprintf("%s: unknown similarity algorithm %q", field, value)
	},
	"granularity": func(field, _ string, value any) string {
		return fmt.Sprintf("%s: unknown period %q", field, value)
	},
	"metric": func(field, _ string, value any) string {
		return fmt.Sprintf("%s: unknown weight metric %q", field, value)
	},
	"url": func(field, _ string, _ any) string {
		return field + " must be a valid URL"
	},
	"oneof": func(field, param string, _ any) string {
		return fmt.Sprintf("%s must be one of: %s", field, param)
	},
	"min": func(field, param string, _ any) string {
		return fmt.Sprintf("%s must be at least %s", field, param)
	},
	"max": func(field, param string, _ any) string {
		return fmt.Sprintf("%s must be at most %s", field, param)
	},
	"gt": func(field, param string, _ any) string {
		return fmt.Sprintf("%s must be greater than %s", field, param)
	},
	"lte": func(field, param string, _ any) string {
		return fmt.Sprintf("%s must be less than or equal to %s", field, param)
	},
}

func message(fe validator.FieldError) string {
	if format, ok := messages[fe.Tag()]; ok {
		return format(fe.Field(), fe.Param(), fe.Value())
	}
	return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
}
