package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSectionTrackerOrder(t *testing.T) {
	tr := NewSectionTracker(Header{ANCount: 2, NSCount: 1, ARCount: 1})

	s, ok := tr.Next()
	require.True(t, ok)
	assert.Equal(t, SectionAnswer, s)
	require.NoError(t, tr.Read(SectionAnswer))

	s, _ = tr.Next()
	assert.Equal(t, SectionAnswer, s)
	require.NoError(t, tr.Read(SectionAnswer))

	s, _ = tr.Next()
	assert.Equal(t, SectionAuthority, s)
	require.NoError(t, tr.Read(SectionAuthority))

	s, _ = tr.Next()
	assert.Equal(t, SectionAdditional, s)
	require.NoError(t, tr.Read(SectionAdditional))

	_, ok = tr.Next()
	assert.False(t, ok)
}

func TestSectionTrackerSkipsEmptySections(t *testing.T) {
	tr := NewSectionTracker(Header{ARCount: 1})
	s, ok := tr.Next()
	require.True(t, ok)
	assert.Equal(t, SectionAdditional, s)
}

func TestSectionTrackerOutOfOrder(t *testing.T) {
	tr := NewSectionTracker(Header{ANCount: 1, NSCount: 1})
	err := tr.Read(SectionAuthority)
	assert.ErrorIs(t, err, ErrBadSection)
}

func TestSectionTrackerOverread(t *testing.T) {
	tr := NewSectionTracker(Header{ANCount: 1})
	require.NoError(t, tr.Read(SectionAnswer))
	assert.ErrorIs(t, tr.Read(SectionAnswer), ErrBadSection)
}

func TestSectionTrackerEmpty(t *testing.T) {
	tr := NewSectionTracker(Header{})
	_, ok := tr.Next()
	assert.False(t, ok)
	assert.ErrorIs(t, tr.Read(SectionAdditional), ErrBadSection)
}
