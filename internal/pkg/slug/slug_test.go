package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	assert.Equal(t, "maruti-suzuki", Make("Maruti Suzuki"))
	assert.Equal(t, "navi-mumbai", Make("Navi Mumbai"))
	assert.Equal(t, "alto-800", Make("  Alto  800  "))
	assert.Equal(t, "s-presso", Make("S-Presso"))
	assert.Equal(t, "mg", Make("MG"))
	assert.Equal(t, "land-rover", Make("Land Rover!!"))
	assert.Equal(t, "tata-nexon-ev", Make("tata/nexon EV"))
}

func TestMake_EmptyAndPunctuationOnly(t *testing.T) {
	assert.Equal(t, "", Make(""))
	assert.Equal(t, "", Make("---"))
	assert.Equal(t, "", Make("  !!  "))
}
