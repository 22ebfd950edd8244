// Copyright (c) 2025, Vigil Authors.  All rights reserved.
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

package measurement

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Common measurement keys exported for consistency and type safety.
const (
	// System measurement keys
	KeyUptime   = "uptime"
	KeyKernel   = "kernel-version"
	KeyOSName   = "os-version"
	KeyHostname = "hostname"

	// CPU measurement keys
	KeyCPUUsage = "usage-percent"
	KeyLoad1    = "load-1min"
	KeyLoad5    = "load-5min"
	KeyLoad15   = "load-15min"
	KeyCPUTemp  = "temperature-c"
	KeyCPUFreq  = "frequency-hz"

	// Memory measurement keys
	KeyMemTotal     = "total-mb"
	KeyMemUsed      = "used-mb"
	KeyMemFree      = "free-mb"
	KeyMemAvailable = "available-mb"
	KeyMemPercent   = "usage-percent"
	KeySwapSize     = "size"
	KeySwapUsed     = "used"
	KeySwapPercent  = "usage-percent"

	// Disk measurement keys
	KeyDiskDevice  = "device"
	KeyDiskSize    = "size"
	KeyDiskUsed    = "used"
	KeyDiskAvail   = "available"
	KeyDiskPercent = "usage-percent"
	KeyDiskMount   = "mount-point"
	KeyDiskIO      = "io-sample"

	// Network measurement keys
	KeyNetInterfaces   = "interfaces"
	KeyNetConnectivity = "internet-connectivity"
	KeyNetSockets      = "listening-sockets"

	// Process measurement keys
	KeyTopCPU         = "top-cpu"
	KeyTopMemory      = "top-memory"
	KeyProcessCount   = "total"
	KeyFailedServices = "failed-services"

	// Log error measurement keys
	KeyLogLines = "lines"
)

// Type represents the category of a measurement.
type Type string

// String returns the string representation of the measurement Type.
func (mt Type) String() string {
	return string(mt)
}

const (
	TypeSystem  Type = "System"
	TypeCPU     Type = "CPU"
	TypeMemory  Type = "Memory"
	TypeDisk    Type = "Disk"
	TypeNetwork Type = "Network"
	TypeProcess Type = "Process"
	TypeLogs    Type = "LogErrors"
)

// Types is the list of all supported measurement types, in collection order.
var Types = []Type{
	TypeSystem,
	TypeCPU,
	TypeMemory,
	TypeDisk,
	TypeNetwork,
	TypeProcess,
	TypeLogs,
}

// ParseType parses a string into a measurement Type.
// Returns the Type and true if parsing succeeds, or empty Type and false if the string is invalid.
func ParseType(s string) (Type, bool) {
	for _, mt := range Types {
		if string(mt) == s {
			return mt, true
		}
	}
	return "", false
}

// Measurement represents collected data of a specific category with one or
// more subtypes. A category with a single logical record (cpu, memory) has
// one subtype; per-entity categories (one subtype per disk device, per log
// source) have several.
type Measurement struct {
	Type     Type      `json:"type" yaml:"type"`
	Subtypes []Subtype `json:"subtypes,omitempty" yaml:"subtypes,omitempty"`
}

// Subtype represents a specific subcategory of measurement with associated data.
// Data contains the actual readings as key-value pairs.
// Context provides additional metadata about the measurement environment.
type Subtype struct {
	Name    string             `json:"subtype,omitempty" yaml:"subtype,omitempty"`
	Data    map[string]Reading `json:"data" yaml:"data"`
	Context map[string]string  `json:"context,omitempty" yaml:"context,omitempty"`
}

// UnmarshalJSON custom unmarshaler for Subtype to handle the Reading interface.
func (st *Subtype) UnmarshalJSON(data []byte) error {
	var tmp struct {
		Name    string            `json:"subtype"`
		Data    map[string]any    `json:"data"`
		Context map[string]string `json:"context"`
	}

	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}

	st.Name = tmp.Name
	st.Context = tmp.Context
	st.Data = make(map[string]Reading)

	for k, v := range tmp.Data {
		st.Data[k] = ToReading(v)
	}

	return nil
}

// UnmarshalYAML custom unmarshaler for Subtype to handle the Reading interface.
func (st *Subtype) UnmarshalYAML(node *yaml.Node) error {
	var tmp struct {
		Name    string            `yaml:"subtype"`
		Data    map[string]any    `yaml:"data"`
		Context map[string]string `yaml:"context"`
	}

	if err := node.Decode(&tmp); err != nil {
		return err
	}

	st.Name = tmp.Name
	st.Context = tmp.Context
	st.Data = make(map[string]Reading)

	for k, v := range tmp.Data {
		st.Data[k] = ToReading(v)
	}

	return nil
}

// AllowedScalar is a constraint (compile-time) for what we allow as scalar readings.
type AllowedScalar interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64 |
		~bool |
		~string
}

// Reading is a *runtime* interface (so it can be stored in a map with mixed types).
type Reading interface {
	isReading()
	Any() any
	String() string

	json.Marshaler
	yaml.Marshaler
}

// Scalar wraps an allowed scalar type.
// This is how we keep compile-time constraints while still using a runtime interface.
type Scalar[T AllowedScalar] struct {
	V T
}

func (Scalar[T]) isReading() {}

func (s Scalar[T]) Any() any { return s.V }

// String returns the string representation of the underlying scalar value.
func (s Scalar[T]) String() string {
	return fmt.Sprintf("%v", s.V)
}

// MarshalJSON makes the JSON value be the underlying scalar (not an object wrapper).
func (s Scalar[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.V)
}

// MarshalYAML makes the YAML value be the underlying scalar (not an object wrapper).
// Whole-valued floats carry an explicit !!float tag; without it "65.0" encodes
// as "65" and decodes back as an integer, losing the reading's type.
func (s Scalar[T]) MarshalYAML() (any, error) {
	switch v := any(s.V).(type) {
	case float32:
		return floatNode(float64(v)), nil
	case float64:
		return floatNode(v), nil
	default:
		return s.V, nil
	}
}

func floatNode(v float64) *yaml.Node {
	return &yaml.Node{
		Kind:  yaml.ScalarNode,
		Tag:   "!!float",
		Value: strconv.FormatFloat(v, 'g', -1, 64),
	}
}

// UnmarshalJSON unmarshals a JSON value into the underlying scalar.
func (s *Scalar[T]) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &s.V)
}

// UnmarshalYAML unmarshals a YAML value into the underlying scalar.
func (s *Scalar[T]) UnmarshalYAML(node *yaml.Node) error {
	return node.Decode(&s.V)
}

// List wraps a list of strings, used for line-oriented readings such as
// recent log errors and failed service names. An empty (non-nil) list is a
// valid reading distinct from an omitted field.
type List struct {
	V []string
}

func (List) isReading() {}

// Any returns the underlying string slice.
func (l List) Any() any { return l.V }

// String returns the list joined for display.
func (l List) String() string {
	return fmt.Sprintf("%v", l.V)
}

// MarshalJSON makes the JSON value be the underlying slice (never null).
func (l List) MarshalJSON() ([]byte, error) {
	if l.V == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l.V)
}

// MarshalYAML makes the YAML value be the underlying slice.
func (l List) MarshalYAML() (any, error) {
	if l.V == nil {
		return []string{}, nil
	}
	return l.V, nil
}

// UnmarshalJSON unmarshals a JSON array into the underlying slice.
func (l *List) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &l.V)
}

// UnmarshalYAML unmarshals a YAML sequence into the underlying slice.
func (l *List) UnmarshalYAML(node *yaml.Node) error {
	return node.Decode(&l.V)
}

// ToReading creates a Reading from any allowed value.
// If the type is not allowed, it returns a string representation.
func ToReading(v any) Reading {
	switch val := v.(type) {
	case int:
		return Int(val)
	case int64:
		return Int64(val)
	case uint:
		return Uint(val)
	case uint64:
		return Uint64(val)
	case float64:
		return Float64(val)
	case bool:
		return Bool(val)
	case string:
		return Str(val)
	case []string:
		return Strs(val)
	case []any:
		// JSON arrays decode as []any; keep string elements.
		out := make([]string, 0, len(val))
		for _, item := range val {
			out = append(out, fmt.Sprintf("%v", item))
		}
		return Strs(out)
	default:
		return Str(fmt.Sprintf("%v", val))
	}
}

// Convenience constructors for each allowed reading type.
func Int(v int) Reading         { return &Scalar[int]{V: v} }
func Int64(v int64) Reading     { return &Scalar[int64]{V: v} }
func Uint(v uint) Reading       { return &Scalar[uint]{V: v} }
func Uint64(v uint64) Reading   { return &Scalar[uint64]{V: v} }
func Float64(v float64) Reading { return &Scalar[float64]{V: v} }
func Bool(v bool) Reading       { return &Scalar[bool]{V: v} }
func Str(v string) Reading      { return &Scalar[string]{V: v} }
func Strs(v []string) Reading   { return &List{V: v} }

// Validate checks if the measurement is properly formed.
func (m *Measurement) Validate() error {
	if m.Type == "" {
		return errors.New("measurement type cannot be empty")
	}
	if len(m.Subtypes) == 0 {
		return errors.New("measurement must have at least one subtype")
	}
	for i, st := range m.Subtypes {
		if err := st.Validate(); err != nil {
			return fmt.Errorf("subtype[%d]: %w", i, err)
		}
	}
	return nil
}

// GetSubtype retrieves a subtype by name, returning nil if not found.
func (m *Measurement) GetSubtype(name string) *Subtype {
	for i := range m.Subtypes {
		if m.Subtypes[i].Name == name {
			return &m.Subtypes[i]
		}
	}
	return nil
}

// HasSubtype checks if a subtype with the given name exists.
func (m *Measurement) HasSubtype(name string) bool {
	return m.GetSubtype(name) != nil
}

// GetOrCreateSubtype retrieves a subtype by name, creating it if it doesn't exist.
// This simplifies dynamic measurement building by avoiding manual check-and-append logic.
func (m *Measurement) GetOrCreateSubtype(name string) *Subtype {
	if st := m.GetSubtype(name); st != nil {
		return st
	}
	newSubtype := Subtype{
		Name: name,
		Data: make(map[string]Reading),
	}
	m.Subtypes = append(m.Subtypes, newSubtype)
	return &m.Subtypes[len(m.Subtypes)-1]
}

// SubtypeNames returns all subtype names.
func (m *Measurement) SubtypeNames() []string {
	names := make([]string, len(m.Subtypes))
	for i, st := range m.Subtypes {
		names[i] = st.Name
	}
	return names
}

// Validate checks if the subtype is properly formed.
func (st *Subtype) Validate() error {
	if len(st.Data) == 0 {
		return errors.New("subtype data cannot be empty")
	}
	return nil
}

// Has checks if a key exists in the subtype data.
func (st *Subtype) Has(key string) bool {
	_, exists := st.Data[key]
	return exists
}

// Get retrieves a reading by key, returning nil if not found.
func (st *Subtype) Get(key string) Reading {
	return st.Data[key]
}

// Keys returns all keys in the subtype data.
func (st *Subtype) Keys() []string {
	keys := make([]string, 0, len(st.Data))
	for k := range st.Data {
		keys = append(keys, k)
	}
	return keys
}

// GetString attempts to retrieve a string value, returning an error if not found or wrong type.
func (st *Subtype) GetString(key string) (string, error) {
	reading := st.Data[key]
	if reading == nil {
		return "", fmt.Errorf("key %q not found", key)
	}
	v, ok := reading.Any().(string)
	if !ok {
		return "", fmt.Errorf("key %q is not a string", key)
	}
	return v, nil
}

// GetInt64 attempts to retrieve an int64 value, returning an error if not found or wrong type.
func (st *Subtype) GetInt64(key string) (int64, error) {
	reading := st.Data[key]
	if reading == nil {
		return 0, fmt.Errorf("key %q not found", key)
	}
	switch v := reading.Any().(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	default:
		return 0, fmt.Errorf("key %q is not an integer", key)
	}
}

// GetFloat64 attempts to retrieve a float64 value, returning an error if not found or wrong type.
func (st *Subtype) GetFloat64(key string) (float64, error) {
	reading := st.Data[key]
	if reading == nil {
		return 0, fmt.Errorf("key %q not found", key)
	}
	v, ok := reading.Any().(float64)
	if !ok {
		return 0, fmt.Errorf("key %q is not a float64", key)
	}
	return v, nil
}

// GetBool attempts to retrieve a bool value, returning an error if not found or wrong type.
func (st *Subtype) GetBool(key string) (bool, error) {
	reading := st.Data[key]
	if reading == nil {
		return false, fmt.Errorf("key %q not found", key)
	}
	v, ok := reading.Any().(bool)
	if !ok {
		return false, fmt.Errorf("key %q is not a bool", key)
	}
	return v, nil
}

// GetStrings attempts to retrieve a string list value, returning an error if not found or wrong type.
func (st *Subtype) GetStrings(key string) ([]string, error) {
	reading := st.Data[key]
	if reading == nil {
		return nil, fmt.Errorf("key %q not found", key)
	}
	v, ok := reading.Any().([]string)
	if !ok {
		return nil, fmt.Errorf("key %q is not a string list", key)
	}
	return v, nil
}
