// Package query builds validated, engine-agnostic filters over entity
// documents. The HTTP layer hands it raw query parameters; it returns a
// predicate tree that the store renders into its native query form, or a
// typed input error naming the parameter that failed.
package query

import (
	"encoding/json"
	"strings"
)

// Input errors returned by Build. Transport layers map these to 400.
var (
	ErrInvalidPath      = &InputError{Param: "json_path", msg: "invalid JSON path format"}
	ErrValueTooLong     = &InputError{Param: "json_value", msg: "JSON value too long"}
	ErrInvalidContains  = &InputError{Param: "json_contains", msg: "invalid JSON format or too long"}
	ErrInvalidKeyPath   = &InputError{Param: "json_key_exists", msg: "invalid JSON key path format"}
	ErrNestedKeyTooDeep = &InputError{Param: "json_key_exists", msg: "nested key check supports only one level"}
)

// InputError indicates an invalid filter parameter.
type InputError struct {
	Param string
	msg   string
}

func (e *InputError) Error() string { return e.Param + ": " + e.msg }

// Predicate is one condition on an entity's data document. Implementations
// are the tagged variants below; the store renders each into engine-native
// form and combines them with AND.
type Predicate interface {
	isPredicate()
}

// PathEquals requires the value reached by descending Path, read as text, to
// equal Value. Path has at least one segment.
type PathEquals struct {
	Path  []string
	Value string
}

// Contains requires the data document to be a structural superset of Object
// (all key/value pairs present, recursively).
type Contains struct {
	Object json.RawMessage
}

// KeyExists requires a key to be present. With one segment the key must exist
// at top level; with two, Path[1] must exist within the object at Path[0].
type KeyExists struct {
	Path []string
}

func (PathEquals) isPredicate() {}
func (Contains) isPredicate()   {}
func (KeyExists) isPredicate()  {}

// Params are the raw, optional filter parameters from the request.
type Params struct {
	JSONPath      string
	JSONValue     string
	JSONContains  string
	JSONKeyExists string
}

// Filter is the composed result: zero or more predicates joined by AND, plus
// a pagination window. An empty Predicates slice matches everything.
type Filter struct {
	Predicates []Predicate
	Skip       int
	Limit      int
}

// Build validates each supplied parameter and composes the filter. The first
// invalid parameter aborts with an *InputError and no partial result.
//
// A json_path without a json_value (or vice versa) contributes no predicate
// and is not an error. Longstanding behavior; see DESIGN.md before changing.
func Build(p Params) (*Filter, error) {
	f := &Filter{}

	if p.JSONPath != "" && p.JSONValue != "" {
		if !ValidJSONPath(p.JSONPath) {
			return nil, ErrInvalidPath
		}
		if len(p.JSONValue) > MaxValueLength {
			return nil, ErrValueTooLong
		}
		f.Predicates = append(f.Predicates, PathEquals{
			Path:  strings.Split(p.JSONPath, "."),
			Value: p.JSONValue,
		})
	}

	if p.JSONContains != "" {
		if !ValidJSONString(p.JSONContains, MaxContainsLength) {
			return nil, ErrInvalidContains
		}
		f.Predicates = append(f.Predicates, Contains{
			Object: json.RawMessage(p.JSONContains),
		})
	}

	if p.JSONKeyExists != "" {
		if !ValidJSONPath(p.JSONKeyExists) {
			return nil, ErrInvalidKeyPath
		}
		segments := strings.Split(p.JSONKeyExists, ".")
		if len(segments) > 2 {
			return nil, ErrNestedKeyTooDeep
		}
		f.Predicates = append(f.Predicates, KeyExists{Path: segments})
	}

	return f, nil
}
