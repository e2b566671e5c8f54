package form

import (
	"bytes"
	"encoding/json"
	"slices"

	"github.com/vango-dev/formkit/pkg/field"
)

// Result is the outcome of validating a form: either Success or an
// *ErrorMap holding at least one failing field.
type Result interface {
	// Valid reports whether every field passed.
	Valid() bool

	result()
}

type success struct{}

func (success) Valid() bool { return true }
func (success) result()     {}

func (success) MarshalJSON() ([]byte, error) {
	return []byte("true"), nil
}

// Success is the result of a validation in which no field failed.
var Success Result = success{}

// ErrorMap maps failing field names to their errors, ordered by the
// position of the field that first reported each name.
type ErrorMap struct {
	names []string
	errs  map[string][]field.ErrorDescriptor
}

func (*ErrorMap) Valid() bool { return false }
func (*ErrorMap) result()     {}

// Len returns the number of failing fields.
func (m *ErrorMap) Len() int {
	return len(m.names)
}

// Names returns the failing field names in order.
func (m *ErrorMap) Names() []string {
	return slices.Clone(m.names)
}

// Errors returns the errors of a field, or nil if it did not fail.
func (m *ErrorMap) Errors(name string) []field.ErrorDescriptor {
	return slices.Clone(m.errs[name])
}

// First returns the first failing field and its errors.
func (m *ErrorMap) First() (string, []field.ErrorDescriptor) {
	if len(m.names) == 0 {
		return "", nil
	}
	name := m.names[0]
	return name, slices.Clone(m.errs[name])
}

// MarshalJSON encodes the map as a JSON object keeping field order.
func (m *ErrorMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range m.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(m.errs[name])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Merge folds per-field reports, given in position order, into a Result.
//
// Reports are united by name: a later report for a name replaces the
// earlier one but the name keeps its original place. Names whose final
// report passed are dropped. A passing report without a name is ignored;
// a failing one is kept under the empty name.
func Merge(reports []field.Report) Result {
	m := &ErrorMap{errs: make(map[string][]field.ErrorDescriptor, len(reports))}
	for _, r := range reports {
		if r.Name == "" && r.Passed() {
			continue
		}
		if _, seen := m.errs[r.Name]; !seen {
			m.names = append(m.names, r.Name)
		}
		m.errs[r.Name] = slices.Clone(r.Errors)
	}

	kept := m.names[:0]
	for _, name := range m.names {
		if len(m.errs[name]) == 0 {
			delete(m.errs, name)
			continue
		}
		kept = append(kept, name)
	}
	m.names = kept

	if len(m.names) == 0 {
		return Success
	}
	return m
}
