package mask

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentity_Email(t *testing.T) {
	assert.Equal(t, "j***@x.com", Identity("jane@x.com"))
	assert.Equal(t, "a***@example.com", Identity("alice.smith@example.com"))
}

func TestIdentity_Phone(t *testing.T) {
	assert.Equal(t, "+91******3210", Identity("+919876543210"))
	assert.Equal(t, "+15*****2222", Identity("+15550002222"))
}

func TestIdentity_ShortValueFullyMasked(t *testing.T) {
	assert.Equal(t, "******", Identity("123456"))
	assert.Equal(t, "***", Identity("123"))
}
