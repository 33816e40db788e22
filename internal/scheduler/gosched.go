package scheduler

import "runtime"

// runtimeGosched is split out so Yield's intent reads clearly at the call
// site above: hand the P back to the Go scheduler for one round.
func runtimeGosched() {
	runtime.Gosched()
}
