package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecorderCapturesOrderedEvents(t *testing.T) {
	r := &Recorder{}
	r.OnCommandStarted("provision", 3)
	r.OnStepStarted(0, "render_iac_templates")
	r.OnStepCompleted(0, "render_iac_templates", 10*time.Millisecond)
	r.OnStepStarted(1, "iac_init")
	r.OnStepFailed(1, "iac_init", "external_tool", 5*time.Millisecond)
	r.OnCommandFailed("provision", "external_tool", 20*time.Millisecond)

	assert.Len(t, r.Events, 6)
	assert.Equal(t, "command_started", r.Events[0].Kind)
	assert.Equal(t, "step_failed", r.Events[4].Kind)
	assert.Equal(t, "external_tool", r.Events[4].ErrorKind)
	assert.Equal(t, "command_failed", r.Events[5].Kind)
}

func TestNullListenerDiscardsEverything(t *testing.T) {
	var l NullListener
	assert.NotPanics(t, func() {
		l.OnCommandStarted("x", 1)
		l.OnStepStarted(0, "a")
		l.OnStepCompleted(0, "a", time.Second)
		l.OnStepFailed(0, "a", "internal", time.Second)
		l.OnCommandCompleted("x", time.Second)
		l.OnCommandFailed("x", "internal", time.Second)
	})
}
