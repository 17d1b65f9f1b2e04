package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOf(t *testing.T) {
	err := E(CodeInsufficientFunds, "not enough %s", "eddies")
	assert.Equal(t, CodeInsufficientFunds, CodeOf(err))
	assert.Equal(t, "not enough eddies", err.Error())

	wrapped := fmt.Errorf("open chest: %w", err)
	assert.Equal(t, CodeInsufficientFunds, CodeOf(wrapped))

	assert.Equal(t, CodeUnknown, CodeOf(stderrors.New("disk on fire")))
}

func TestIsRejection(t *testing.T) {
	assert.True(t, IsRejection(E(CodeMaxRarity, "top tier")))
	assert.True(t, IsRejection(fmt.Errorf("craft: %w", E(CodeMaxRarity, "top tier"))))
	assert.False(t, IsRejection(stderrors.New("disk on fire")))
	assert.False(t, IsRejection(nil))
}
