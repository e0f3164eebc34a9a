package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()

	for _, field := range []string{
		"title", "department", "qualifications", "schedule", "reportingManager",
		"experience", "urgency", "skills", "jobType", "status",
	} {
		l, ok := c.Get(field)
		require.True(t, ok, field)
		assert.NotEmpty(t, l.Values, field)
		assert.NotEmpty(t, l.Label, field)
	}

	assert.Equal(t, []string{"High", "Medium", "Low"}, c.Values("urgency"))
	assert.Nil(t, c.Values("location"))
}

func TestCatalog_Allows(t *testing.T) {
	c := DefaultCatalog()

	tests := []struct {
		field, value string
		want         bool
	}{
		{"jobType", "Contract", true},
		{"jobType", "Gig", false},
		{"experience", "5+ years", true},
		{"experience", "a while", false},
		{"department", "Legal", true}, // creatable
		{"skills", "Haskell", true},
		{"location", "Anywhere", true}, // no list
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, c.Allows(tt.field, tt.value), "%s=%s", tt.field, tt.value)
	}

	var nilCatalog *Catalog
	assert.True(t, nilCatalog.Allows("jobType", "anything"))
}

func TestParseCatalog_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"bad yaml", "lists: [", "parse option catalog"},
		{"no field", "lists:\n  - label: X\n    values: [a]\n", "has no field"},
		{"unknown field", "lists:\n  - field: salary\n    values: [a]\n", "unknown field"},
		{"duplicate", "lists:\n  - field: title\n  - field: title\n", "defined twice"},
		{"blank value", "lists:\n  - field: title\n    values: ['', a]\n", "blank value"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadCatalog_OverrideMergesPerList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "options.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
lists:
  - field: department
    label: Department
    creatable: false
    values: [Engineering, Finance]
`), 0o600))

	c, err := LoadCatalog(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"Engineering", "Finance"}, c.Values("department"))
	assert.False(t, c.Allows("department", "Marketing"))
	assert.Equal(t, DefaultCatalog().Values("jobType"), c.Values("jobType"))

	_, err = LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	def, err := LoadCatalog("")
	require.NoError(t, err)
	assert.Equal(t, DefaultCatalog(), def)
}
