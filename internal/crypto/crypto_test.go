package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateRandomString(t *testing.T) {
	s1 := GenerateRandomString(32)
	s2 := GenerateRandomString(32)
	assert.Len(t, s1, 64)
	assert.NotEqual(t, s1, s2)
}

func TestHashFromBytes(t *testing.T) {
	h := HashFromBytes([]byte("body { color: red }"))
	assert.NotEmpty(t, h)
	assert.Equal(t, h, HashFromBytes([]byte("body { color: red }")))
	assert.NotEqual(t, h, HashFromBytes([]byte("body { color: blue }")))
}
