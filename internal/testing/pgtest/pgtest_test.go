package pgtest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStop_NilInstance(t *testing.T) {
	var inst *Instance
	assert.NotPanics(t, func() { inst.Stop(context.Background()) })
	assert.NotPanics(t, func() { (&Instance{}).Stop(context.Background()) })
}

func TestRequire_SkipsWhenUnavailable(t *testing.T) {
	ran := false
	t.Run("unavailable", func(t *testing.T) {
		Require(t, false)
		ran = true
	})
	assert.False(t, ran)
}
