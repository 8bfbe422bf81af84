package tre

import "testing"

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.MaxRecursionDepth <= 0 {
		t.Errorf("MaxRecursionDepth = %d, want > 0", cfg.MaxRecursionDepth)
	}
	if cfg.MinLiteralLen <= 0 {
		t.Errorf("MinLiteralLen = %d, want > 0", cfg.MinLiteralLen)
	}
	if cfg.MinAltLiterals <= 0 {
		t.Errorf("MinAltLiterals = %d, want > 0", cfg.MinAltLiterals)
	}
}

func TestDefaultExecConfig(t *testing.T) {
	cfg := DefaultExecConfig()
	if !cfg.AllowNoSubFastPath {
		t.Error("AllowNoSubFastPath = false, want true by default")
	}
}
