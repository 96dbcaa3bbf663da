package executor

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// Dispatcher hands open-app and open-path actions to the operating system.
// The executor records its success or failure verbatim in the report.
type Dispatcher interface {
	// OpenApp launches the application with the given name.
	OpenApp(ctx context.Context, name string) error

	// OpenPath opens the path in the system file browser.
	OpenPath(ctx context.Context, path string) error
}

// ExecDispatcher implements Dispatcher by shelling out to the platform's
// opener (`open` on macOS, `xdg-open` on Linux).
type ExecDispatcher struct{}

// NewExecDispatcher creates an ExecDispatcher.
func NewExecDispatcher() *ExecDispatcher {
	return &ExecDispatcher{}
}

// OpenApp launches the named application.
func (d *ExecDispatcher) OpenApp(ctx context.Context, name string) error {
	switch runtime.GOOS {
	case "darwin":
		return run(ctx, "open", "-a", name)
	case "linux":
		return run(ctx, "gtk-launch", name)
	default:
		return fmt.Errorf("opening applications is not supported on %s", runtime.GOOS)
	}
}

// OpenPath opens the path in the system file browser.
func (d *ExecDispatcher) OpenPath(ctx context.Context, path string) error {
	switch runtime.GOOS {
	case "darwin":
		return run(ctx, "open", path)
	case "linux":
		return run(ctx, "xdg-open", path)
	default:
		return fmt.Errorf("opening paths is not supported on %s", runtime.GOOS)
	}
}

func run(ctx context.Context, name string, args ...string) error {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg != "" {
			return fmt.Errorf("%s failed: %s", name, msg)
		}
		return fmt.Errorf("%s failed: %w", name, err)
	}
	return nil
}

// FakeDispatcher implements Dispatcher for tests, recording calls and
// returning a configurable error.
type FakeDispatcher struct {
	// Apps records OpenApp calls in order.
	Apps []string

	// Paths records OpenPath calls in order.
	Paths []string

	// Err, when set, is returned by every call.
	Err error
}

// NewFakeDispatcher creates a FakeDispatcher.
func NewFakeDispatcher() *FakeDispatcher {
	return &FakeDispatcher{}
}

// OpenApp records the call.
func (d *FakeDispatcher) OpenApp(ctx context.Context, name string) error {
	d.Apps = append(d.Apps, name)
	return d.Err
}

// OpenPath records the call.
func (d *FakeDispatcher) OpenPath(ctx context.Context, path string) error {
	d.Paths = append(d.Paths, path)
	return d.Err
}
