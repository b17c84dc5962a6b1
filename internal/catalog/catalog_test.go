package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staticSampler(name string, value float64) Sampler {
	return SingleSampler(name, func() (float64, error) {
		return value, nil
	})
}

func TestNewPreservesDeclarationOrder(t *testing.T) {
	cat, err := New([]Entry{
		{Name: "b_metric", Help: "second letter first", Sampler: staticSampler("b_metric", 1)},
		{Name: "a_metric", Help: "first letter second", Sampler: staticSampler("a_metric", 2)},
	})
	require.NoError(t, err)

	entries := cat.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "b_metric", entries[0].Name)
	assert.Equal(t, "a_metric", entries[1].Name)
	assert.Equal(t, 2, cat.Len())
}

func TestNewRejectsDuplicateNames(t *testing.T) {
	_, err := New([]Entry{
		{Name: "dup", Help: "one", Sampler: staticSampler("dup", 1)},
		{Name: "dup", Help: "two", Sampler: staticSampler("dup", 2)},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestNewRejectsMissingSampler(t *testing.T) {
	_, err := New([]Entry{{Name: "orphan", Help: "no sampler"}})
	require.Error(t, err)
}

func TestNewRejectsEmptyName(t *testing.T) {
	_, err := New([]Entry{{Name: "", Help: "nameless", Sampler: staticSampler("x", 1)}})
	require.Error(t, err)
}

func TestLookup(t *testing.T) {
	cat, err := New([]Entry{
		{Name: "present", Help: "here", Sampler: staticSampler("present", 7)},
	})
	require.NoError(t, err)

	entry, ok := cat.Lookup("present")
	require.True(t, ok)
	assert.Equal(t, "present", entry.Name)
	assert.Equal(t, "here", entry.Help)

	_, ok = cat.Lookup("absent")
	assert.False(t, ok)
}

func TestSingleSamplerReportsUnderName(t *testing.T) {
	s := SingleSampler("solo", func() (float64, error) {
		return 3.5, nil
	})

	values, err := s.Sample()
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"solo": 3.5}, values)
}

func TestSamplerFuncIdentity(t *testing.T) {
	fn := func() (map[string]float64, error) { return nil, nil }
	a := SamplerFunc(fn)
	b := SamplerFunc(fn)

	// Each wrapper has its own identity; shared entries must reuse one.
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, a)
}
