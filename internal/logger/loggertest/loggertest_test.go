package loggertest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewWrapsTestingLogger(t *testing.T) {
	log := New(t)
	assert.NotNil(t, log.SugaredLogger)
	log.With("component", "test").Info("hello", "n", 1)
}
