// ABOUTME: Tests for the screensaver inhibitor
// ABOUTME: Covers error classification and the bus-free paths
package wakelock

import (
	"errors"
	"testing"

	"github.com/godbus/dbus/v5"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"access denied", dbus.Error{Name: "org.freedesktop.DBus.Error.AccessDenied"}, ErrPermissionDenied},
		{"not authorized", dbus.Error{Name: "org.freedesktop.PolicyKit.Error.NotAuthorized"}, ErrPermissionDenied},
		{"service unknown", dbus.Error{Name: "org.freedesktop.DBus.Error.ServiceUnknown"}, ErrUnavailable},
		{"no owner", errors.New("org.freedesktop.DBus.Error.NameHasNoOwner"), ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify(tt.err)
			if !errors.Is(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestClassifyOther(t *testing.T) {
	err := classify(errors.New("timeout"))
	if errors.Is(err, ErrPermissionDenied) || errors.Is(err, ErrUnavailable) {
		t.Errorf("expected unclassified error, got %v", err)
	}
}

func TestReleaseWithoutAcquire(t *testing.T) {
	l := New("cuedeck")
	if err := l.Release(); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
	if l.Held() {
		t.Error("expected lock not held")
	}
}

func TestNoop(t *testing.T) {
	var inh Inhibitor = Noop{}
	if err := inh.Acquire("test"); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
	if err := inh.Release(); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}
