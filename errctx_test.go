package emberlog

import "testing"

func TestLevelTaggedFunctionsDoNotPanic(t *testing.T) {
	Errorf("boom: %d", 1)
	Warnf("careful: %s", "thing")
	Infof("status: %v", true)
	Debugf("trace: %d", 2) // no-op without emberlog_debug tag, must still be safe to call
}
