package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterInactiveAllowsAll(t *testing.T) {
	f := NewFilter()
	assert.False(t, f.Active())
	assert.True(t, f.Allows("p1"))
	assert.True(t, f.Allows(""))
}

func TestFilterReplace(t *testing.T) {
	f := NewFilter()
	f.Replace([]string{"p1", "p2"})

	assert.True(t, f.Active())
	assert.Equal(t, 2, f.Len())
	assert.True(t, f.Allows("p1"))
	assert.True(t, f.Allows("p2"))
	assert.False(t, f.Allows("p3"))
}

func TestFilterReplaceIsWholesale(t *testing.T) {
	f := NewFilter()
	f.Replace([]string{"p1", "p2"})
	f.Replace([]string{"p3"})

	assert.Equal(t, 1, f.Len())
	assert.False(t, f.Allows("p1"))
	assert.True(t, f.Allows("p3"))
}

func TestFilterRejectsUnindexedPhotos(t *testing.T) {
	f := NewFilter()
	f.Replace([]string{"p1"})

	// A photo without a server ID never matches an active filter.
	assert.False(t, f.Allows(""))
}

func TestFilterSkipsEmptyIDs(t *testing.T) {
	f := NewFilter()
	f.Replace([]string{"", "p1", ""})
	assert.Equal(t, 1, f.Len())
}

func TestFilterClear(t *testing.T) {
	f := NewFilter()
	f.Replace([]string{"p1"})
	f.Clear()

	assert.False(t, f.Active())
	assert.True(t, f.Allows("anything"))
}
