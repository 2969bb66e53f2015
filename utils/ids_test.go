package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateRandomString(t *testing.T) {
	s := GenerateRandomString(12)
	assert.Len(t, s, 12)
	assert.NotEqual(t, s, GenerateRandomString(12))
}

func TestGetUUID(t *testing.T) {
	a := GetUUID()
	b := GetUUID()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}
