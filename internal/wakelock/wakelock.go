// ABOUTME: Screensaver inhibit over the D-Bus session bus
// ABOUTME: Keeps the display awake while a track is loaded; failures are advisory
package wakelock

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/godbus/dbus/v5"
)

const (
	busName   = "org.freedesktop.ScreenSaver"
	busPath   = dbus.ObjectPath("/org/freedesktop/ScreenSaver")
	inhibit   = busName + ".Inhibit"
	uninhibit = busName + ".UnInhibit"
)

var (
	// ErrPermissionDenied is returned when the desktop refuses the inhibit
	ErrPermissionDenied = errors.New("wakelock: permission denied")
	// ErrUnavailable is returned when no session bus or screensaver service exists
	ErrUnavailable = errors.New("wakelock: service unavailable")
)

// Inhibitor is the surface the app depends on
type Inhibitor interface {
	Acquire(reason string) error
	Release() error
}

// Lock holds at most one screensaver inhibit cookie
type Lock struct {
	app string

	mu     sync.Mutex
	conn   *dbus.Conn
	cookie uint32
	held   bool
}

// New creates a Lock that identifies itself as app
func New(app string) *Lock {
	return &Lock{app: app}
}

// Acquire requests an inhibit. Calling it while held is a no-op.
func (l *Lock) Acquire(reason string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.held {
		return nil
	}

	if l.conn == nil {
		conn, err := dbus.ConnectSessionBus()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		l.conn = conn
	}

	var cookie uint32
	obj := l.conn.Object(busName, busPath)
	if err := obj.Call(inhibit, 0, l.app, reason).Store(&cookie); err != nil {
		return classify(err)
	}

	l.cookie = cookie
	l.held = true
	return nil
}

// Release drops the inhibit if one is held and closes the bus connection
func (l *Lock) Release() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.conn == nil {
		return nil
	}

	var err error
	if l.held {
		if callErr := l.conn.Object(busName, busPath).Call(uninhibit, 0, l.cookie).Err; callErr != nil {
			err = classify(callErr)
		}
		l.held = false
	}

	l.conn.Close()
	l.conn = nil
	return err
}

// Held reports whether an inhibit cookie is outstanding
func (l *Lock) Held() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.held
}

// classify maps D-Bus error names onto the package sentinels
func classify(err error) error {
	var name string
	var dbusErr dbus.Error
	if errors.As(err, &dbusErr) {
		name = dbusErr.Name
	} else {
		name = err.Error()
	}

	switch {
	case strings.Contains(name, "AccessDenied"), strings.Contains(name, "NotAuthorized"):
		return fmt.Errorf("%w: %v", ErrPermissionDenied, err)
	case strings.Contains(name, "ServiceUnknown"), strings.Contains(name, "UnknownMethod"),
		strings.Contains(name, "NameHasNoOwner"):
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return fmt.Errorf("wakelock: %w", err)
}

// Noop satisfies Inhibitor without touching the bus
type Noop struct{}

// Acquire does nothing
func (Noop) Acquire(string) error { return nil }

// Release does nothing
func (Noop) Release() error { return nil }
