package augur

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBucketIndex(t *testing.T) {
	cases := []struct {
		rate     float64
		expected int
	}{
		{1, 0},
		{math.E, 100},
		{math.E * math.E, 200},
		{math.Exp(5), 500},
	}

	for _, c := range cases {
		got := BucketIndex(c.rate)
		assert.InDelta(t, c.expected, got, 1)
	}
}

func TestBucketIndexClampsAtMax(t *testing.T) {
	assert.Equal(t, BMax, BucketIndex(1e10))
}

func TestBucketIndexNonPositive(t *testing.T) {
	assert.Equal(t, 0, BucketIndex(0))
	assert.Equal(t, 0, BucketIndex(-1))
}

func TestBucketer(t *testing.T) {
	txs := []Transaction{
		{Weight: 400, Fee: 1000}, // 10 sat/vB
		{Weight: 400, Fee: 1000}, // same rate, same bucket
		{Weight: 600, Fee: 600},  // 4 sat/vB
	}

	buckets := Bucketer(txs)
	require.Len(t, buckets, 2)

	idx10 := BucketIndex(10)
	assert.Equal(t, uint64(800), buckets[idx10])

	idx4 := BucketIndex(4)
	assert.Equal(t, uint64(600), buckets[idx4])
}

func TestBucketerDropsZeroWeight(t *testing.T) {
	txs := []Transaction{{Weight: 0, Fee: 1000}}
	assert.Empty(t, Bucketer(txs))
}

func TestBucketerDropsZeroFee(t *testing.T) {
	txs := []Transaction{{Weight: 400, Fee: 0}}
	assert.Empty(t, Bucketer(txs))
}

func TestBucketerOrderIndependent(t *testing.T) {
	a := []Transaction{{Weight: 400, Fee: 1000}, {Weight: 600, Fee: 600}}
	b := []Transaction{{Weight: 600, Fee: 600}, {Weight: 400, Fee: 1000}}

	assert.Equal(t, Bucketer(a), Bucketer(b))
}
