package statemachine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type light string

const (
	red    light = "red"
	green  light = "green"
	yellow light = "yellow"
	off    light = "off"
)

func TestTable_AllowsOnlyListedEdges(t *testing.T) {
	table := NewTable(map[light][]light{
		red:    {green, off},
		green:  {yellow},
		yellow: {red},
	})

	assert.True(t, table.Allows(red, green))
	assert.True(t, table.Allows(yellow, red))
	assert.False(t, table.Allows(green, red))
	assert.False(t, table.Allows(off, red))
	assert.False(t, table.Allows(red, red))
}

func TestTable_TargetsAndTerminal(t *testing.T) {
	edges := map[light][]light{red: {green, off}}
	table := NewTable(edges)

	edges[red][0] = yellow
	require.Equal(t, []light{green, off}, table.Targets(red))

	targets := table.Targets(red)
	targets[0] = yellow
	require.Equal(t, []light{green, off}, table.Targets(red))

	assert.True(t, table.IsTerminal(off))
	assert.False(t, table.IsTerminal(red))
}
