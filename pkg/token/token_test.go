package token

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerate(t *testing.T) {
	token, err := Generate(8)
	assert.NoError(t, err)
	assert.Equal(t, 8, len(token))

	token2, err := Generate(8)
	assert.NoError(t, err)
	assert.NotEqual(t, token, token2)

	// longer than the underlying random buffer used to be
	token, err = Generate(48)
	assert.NoError(t, err)
	assert.Len(t, token, 48)
	assert.Regexp(t, regexp.MustCompile(`^[A-Za-z0-9_-]+$`), token)

	token, err = Generate(0)
	assert.NoError(t, err)
	assert.Equal(t, "", token)
}
