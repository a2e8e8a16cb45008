package isbn

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "9780306406157", Normalize(" 978-0-306-40615-7 "))
	assert.Equal(t, "020161622X", Normalize("0-201-61622-x"))
	assert.Equal(t, "", Normalize(" - "))
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("9780306406157"))
	assert.True(t, Valid("0306406152"))
	assert.True(t, Valid("020161622X"))
	assert.False(t, Valid("9780306406158"))
	assert.False(t, Valid("0306406153"))
	assert.False(t, Valid("123"))
	assert.False(t, Valid("0X00000000"))
	assert.False(t, Valid("97803064061X7"))
}
