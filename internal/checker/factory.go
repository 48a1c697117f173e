package checker

import (
	"fmt"
	"runtime"

	"github.com/eaiti/eai-security-check-sub001/pkg/logger"
)

// New selects the Checker implementation for the current platform. The
// engine stays platform-agnostic; only this factory knows about concrete
// checkers.
func New(log *logger.Logger) (Checker, error) {
	return forOS(runtime.GOOS, log)
}

func forOS(osName string, log *logger.Logger) (Checker, error) {
	switch osName {
	case "darwin":
		return newDarwinChecker(log), nil
	case "linux":
		return newLinuxChecker(log), nil
	case "windows":
		return newWindowsChecker(log), nil
	default:
		return nil, fmt.Errorf("unsupported platform: %s", osName)
	}
}
