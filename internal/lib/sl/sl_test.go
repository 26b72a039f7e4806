package sl

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErr(t *testing.T) {
	attr := Err(errors.New("something broke"))

	assert.Equal(t, "error", attr.Key)
	assert.Equal(t, "something broke", attr.Value.String())
}

func TestOp(t *testing.T) {
	attr := Op("storage.CreateUser")

	assert.Equal(t, "op", attr.Key)
	assert.Equal(t, "storage.CreateUser", attr.Value.String())
}
