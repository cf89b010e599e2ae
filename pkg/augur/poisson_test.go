package augur

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpectedBlocksForHighConfidenceIsLow(t *testing.T) {
	k := expectedBlocksFor(6, 0.95)
	assert.LessOrEqual(t, k, 3)
}

func TestExpectedBlocksForLowConfidenceIsHigh(t *testing.T) {
	k := expectedBlocksFor(6, 0.05)
	assert.GreaterOrEqual(t, k, 9)
}

func TestExpectedBlocksForZeroConfidenceAtLeastZero(t *testing.T) {
	k := expectedBlocksFor(6, 0)
	assert.GreaterOrEqual(t, k, 0)
}

func TestExpectedBlocksTableShape(t *testing.T) {
	table := newExpectedBlocksTable([]float64{0.5, 0.95}, []float64{3, 6})
	require.Len(t, table.expectedBlock, 2)
	for _, row := range table.expectedBlock {
		assert.Len(t, row, 2)
	}
}
