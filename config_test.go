package emberlog

import (
	"os"
	"testing"
	"time"
)

func TestEnvUintOverride(t *testing.T) {
	t.Setenv("EMBERLOG_BUFFER_SIZE_LOG2", "16")
	cfg := defaultConfig()
	if cfg.bufferSizeLog2 != 16 {
		t.Fatalf("bufferSizeLog2 = %d, want 16", cfg.bufferSizeLog2)
	}
}

func TestEnvUintFallsBackOnGarbage(t *testing.T) {
	t.Setenv("EMBERLOG_BUFFER_SIZE_LOG2", "not-a-number")
	cfg := defaultConfig()
	if cfg.bufferSizeLog2 != defaultBufferSizeLog2 {
		t.Fatalf("bufferSizeLog2 = %d, want default %d", cfg.bufferSizeLog2, defaultBufferSizeLog2)
	}
}

func TestEnvUnsetUsesDefault(t *testing.T) {
	os.Unsetenv("EMBERLOG_SPIN_MAX")
	cfg := defaultConfig()
	if cfg.spinMax != defaultSpinMax {
		t.Fatalf("spinMax = %d, want default %d", cfg.spinMax, defaultSpinMax)
	}
}

func TestEnvSleepOverride(t *testing.T) {
	t.Setenv("EMBERLOG_SLEEP_MS", "250")
	cfg := defaultConfig()
	if cfg.sleep != 250*time.Millisecond {
		t.Fatalf("sleep = %v, want 250ms", cfg.sleep)
	}
}

func TestOptionsOverrideDefaults(t *testing.T) {
	cfg := defaultConfig()
	WithBufferSizeLog2(8)(&cfg)
	WithSpinMax(99)(&cfg)
	WithQuiesceAll()(&cfg)

	if cfg.bufferSizeLog2 != 8 {
		t.Errorf("bufferSizeLog2 = %d, want 8", cfg.bufferSizeLog2)
	}
	if cfg.spinMax != 99 {
		t.Errorf("spinMax = %d, want 99", cfg.spinMax)
	}
	if !cfg.quiesceAll {
		t.Error("quiesceAll = false, want true")
	}
}
