package internal

import (
	"maps"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConcat2(t *testing.T) {
	assert := assert.New(t)

	a := maps.All(map[string]int{"A": 1})
	b := maps.All(map[string]int{"B": 2, "A": 3})

	var keys []string
	for k := range Concat2(a, b) {
		keys = append(keys, k)
	}
	assert.Len(keys, 3)
	assert.Equal("A", keys[0])

	merged := Collect2(Concat2(a, b))
	assert.Equal(map[string]int{"A": 3, "B": 2}, merged)
}

func TestConcat2_Stop(t *testing.T) {
	assert := assert.New(t)

	a := maps.All(map[string]int{"A": 1})
	b := maps.All(map[string]int{"B": 2})

	count := 0
	for range Concat2(a, b) {
		count++
		break
	}
	assert.Equal(1, count)
}
