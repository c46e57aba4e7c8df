//go:build !mobile

package utils

import (
	"os"
	"testing"
)

// TestIsMobileEmulation 桌面构建默认不是移动端，环境变量可以模拟移动端
func TestIsMobileEmulation(t *testing.T) {
	original, had := os.LookupEnv("ACTIONLIST_MOBILE_EMULATE")
	defer func() {
		if had {
			os.Setenv("ACTIONLIST_MOBILE_EMULATE", original)
		} else {
			os.Unsetenv("ACTIONLIST_MOBILE_EMULATE")
		}
	}()

	os.Unsetenv("ACTIONLIST_MOBILE_EMULATE")
	if IsMobile() {
		t.Error("IsMobile() should return false on desktop")
	}

	os.Setenv("ACTIONLIST_MOBILE_EMULATE", "1")
	if !IsMobile() {
		t.Error("IsMobile() should honour ACTIONLIST_MOBILE_EMULATE=1")
	}
}
