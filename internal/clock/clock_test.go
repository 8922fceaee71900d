package clock

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVirtual(t *testing.T) {
	var v Virtual
	assert.False(t, v.Due(10))
	var fired []int
	for i := 0; i < 35; i++ {
		v.Advance()
		if v.Due(10) {
			fired = append(fired, v.Now())
		}
	}
	assert.Equal(t, []int{10, 20, 30}, fired)
	assert.Equal(t, 0.035, v.Millis())
}
