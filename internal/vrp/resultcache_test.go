package vrp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestHash_ZeroSeedIsNotCacheable(t *testing.T) {
	req := buildRequest(3, 1)
	req.Seed = 0

	_, cacheable := RequestHash(req)

	assert.False(t, cacheable)
}

func TestRequestHash_SameRequestSameHash(t *testing.T) {
	req1 := buildRequest(5, 2)
	req1.Seed = 7
	req2 := buildRequest(5, 2)
	req2.Seed = 7

	h1, ok1 := RequestHash(req1)
	h2, ok2 := RequestHash(req2)

	assert.True(t, ok1)
	assert.True(t, ok2)
	assert.Equal(t, h1, h2)
}

func TestRequestHash_DifferentSeedDifferentHash(t *testing.T) {
	req1 := buildRequest(5, 2)
	req1.Seed = 7
	req2 := buildRequest(5, 2)
	req2.Seed = 8

	h1, _ := RequestHash(req1)
	h2, _ := RequestHash(req2)

	assert.NotEqual(t, h1, h2)
}

func TestRequestHash_DifferentAlgorithmDifferentHash(t *testing.T) {
	req1 := buildRequest(5, 2)
	req1.Seed = 7
	req1.Algorithm = AlgorithmGenetic
	req2 := buildRequest(5, 2)
	req2.Seed = 7
	req2.Algorithm = AlgorithmTabu

	h1, _ := RequestHash(req1)
	h2, _ := RequestHash(req2)

	assert.NotEqual(t, h1, h2)
}
