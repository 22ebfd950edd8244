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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestReading_MarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		reading Reading
		want    string
	}{
		{"int", Int(42), "42"},
		{"float", Float64(75.0), "75"},
		{"bool", Bool(true), "true"},
		{"string", Str("6.1.21-v8+"), `"6.1.21-v8+"`},
		{"list", Strs([]string{"a", "b"}), `["a","b"]`},
		{"empty list", Strs([]string{}), "[]"},
		{"nil list", Strs(nil), "[]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.reading)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(data))
		})
	}
}

func TestToReading(t *testing.T) {
	assert.Equal(t, 42, ToReading(42).Any())
	assert.Equal(t, 75.5, ToReading(75.5).Any())
	assert.Equal(t, true, ToReading(true).Any())
	assert.Equal(t, "x", ToReading("x").Any())
	assert.Equal(t, []string{"a"}, ToReading([]string{"a"}).Any())
	assert.Equal(t, []string{"1", "2"}, ToReading([]any{1, 2}).Any())
	// Unsupported types fall back to strings.
	assert.Equal(t, "[1 2]", ToReading([]int{1, 2}).Any())
}

func TestSubtype_RoundTrip(t *testing.T) {
	st := Subtype{
		Name: "memory",
		Data: map[string]Reading{
			KeyMemTotal:   Int(1024),
			KeyMemPercent: Float64(50.0),
			"errors":      Strs([]string{"oom", "ecc"}),
		},
	}

	data, err := json.Marshal(st)
	require.NoError(t, err)

	var back Subtype
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, "memory", back.Name)
	// JSON numbers come back as float64; values must survive semantically.
	assert.Equal(t, float64(1024), back.Data[KeyMemTotal].Any())
	assert.Equal(t, 50.0, back.Data[KeyMemPercent].Any())
	assert.Equal(t, []string{"oom", "ecc"}, back.Data["errors"].Any())
}

func TestSubtype_YAMLRoundTrip(t *testing.T) {
	st := Subtype{
		Name: "cpu",
		Data: map[string]Reading{
			KeyCPUTemp: Float64(65.0),
			KeyCPUFreq: Int64(1500000000),
		},
	}

	data, err := yaml.Marshal(st)
	require.NoError(t, err)

	var back Subtype
	require.NoError(t, yaml.Unmarshal(data, &back))
	assert.Equal(t, "cpu", back.Name)
	assert.Equal(t, 65.0, back.Data[KeyCPUTemp].Any())
}

func TestMeasurement_Validate(t *testing.T) {
	m := &Measurement{}
	assert.Error(t, m.Validate())

	m.Type = TypeCPU
	assert.Error(t, m.Validate(), "no subtypes")

	m.Subtypes = []Subtype{{Name: "cpu", Data: map[string]Reading{}}}
	assert.Error(t, m.Validate(), "empty subtype data")

	m.Subtypes[0].Data["usage-percent"] = Float64(12.0)
	assert.NoError(t, m.Validate())
}

func TestMeasurement_GetOrCreateSubtype(t *testing.T) {
	m := &Measurement{Type: TypeDisk}

	st := m.GetOrCreateSubtype("/dev/root")
	st.Data[KeyDiskPercent] = Str("41")

	again := m.GetOrCreateSubtype("/dev/root")
	assert.Equal(t, st, again)
	assert.Len(t, m.Subtypes, 1)
	assert.Equal(t, []string{"/dev/root"}, m.SubtypeNames())
}

func TestSubtype_TypedGetters(t *testing.T) {
	st := Subtype{
		Name: "memory",
		Data: map[string]Reading{
			"total":     Int64(1024),
			"percent":   Float64(50.0),
			"reachable": Bool(false),
			"name":      Str("Mem"),
			"lines":     Strs([]string{"e1"}),
		},
	}

	total, err := st.GetInt64("total")
	require.NoError(t, err)
	assert.Equal(t, int64(1024), total)

	pct, err := st.GetFloat64("percent")
	require.NoError(t, err)
	assert.InDelta(t, 50.0, pct, 0.0001)

	b, err := st.GetBool("reachable")
	require.NoError(t, err)
	assert.False(t, b)

	s, err := st.GetString("name")
	require.NoError(t, err)
	assert.Equal(t, "Mem", s)

	lines, err := st.GetStrings("lines")
	require.NoError(t, err)
	assert.Equal(t, []string{"e1"}, lines)

	_, err = st.GetFloat64("missing")
	assert.Error(t, err)
	_, err = st.GetInt64("percent")
	assert.Error(t, err)
}

func TestParseType(t *testing.T) {
	mt, ok := ParseType("Memory")
	assert.True(t, ok)
	assert.Equal(t, TypeMemory, mt)

	_, ok = ParseType("bogus")
	assert.False(t, ok)
}
