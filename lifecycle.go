package jackhammer

import (
	"context"

	c "Jackhammer/common"

	"github.com/looplab/fsm"
	"github.com/sirupsen/logrus"
)

const (
	stateIdle     = "idle"
	stateSent     = "sent"
	stateReceived = "received"

	eventSend     = "send"
	eventReceive  = "receive"
	eventComplete = "complete"
	eventAbandon  = "abandon"
)

// newLifecycle tracks one fetch from send to completion. Completing the
// round trip is the only thing that advances the tracker.
func newLifecycle(t *Tracker) *fsm.FSM {
	return fsm.NewFSM(
		stateIdle,
		fsm.Events{
			{Name: eventSend, Src: []string{stateIdle}, Dst: stateSent},
			{Name: eventReceive, Src: []string{stateSent}, Dst: stateReceived},
			{Name: eventComplete, Src: []string{stateReceived}, Dst: stateIdle},
			{Name: eventAbandon, Src: []string{stateSent, stateReceived}, Dst: stateIdle},
		},
		fsm.Callbacks{
			"after_" + eventComplete: func(_ context.Context, e *fsm.Event) {
				t.Advance()
			},
			"enter_state": func(_ context.Context, e *fsm.Event) {
				logrus.Tracef("%s: fetch %s -> %s (%s)", c.CurFuncName(), e.Src, e.Dst, e.Event)
			},
		},
	)
}
