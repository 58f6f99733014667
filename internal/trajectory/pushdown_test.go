package trajectory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlightPredicateRanges(t *testing.T) {
	p := newFlightPredicate(index("F2", "120", "F9", "7"))

	assert.True(t, p.intInRange(100, 200))
	assert.True(t, p.intInRange(7, 7))
	assert.False(t, p.intInRange(8, 119))
	assert.False(t, p.intInRange(121, 1000))

	assert.True(t, p.stringInRange("F1", "F3"))
	assert.False(t, p.stringInRange("F3", "F8"))
	assert.True(t, p.stringInRange("F9", "FA"))
	assert.False(t, p.stringInRange("G", "Z"))
}

func TestFlightPredicateNilStats(t *testing.T) {
	assert.True(t, newFlightPredicate(index("F1")).mayContain(nil))
	assert.False(t, newFlightPredicate(index()).mayContain(nil))
}
