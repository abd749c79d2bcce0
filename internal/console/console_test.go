// ABOUTME: Tests for console command execution
// ABOUTME: Runs lines against a recording deck and checks replies
package console

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Resonate-Protocol/cuedeck/internal/transport"
)

type fakeDeck struct {
	gestures []transport.Gesture
	loaded   []string
	loadErr  error
	snap     transport.Snapshot
}

func (d *fakeDeck) Apply(g transport.Gesture) error {
	d.gestures = append(d.gestures, g)
	return nil
}

func (d *fakeDeck) Snapshot() transport.Snapshot { return d.snap }

func (d *fakeDeck) LoadFile(path string) error {
	if d.loadErr != nil {
		return d.loadErr
	}
	d.loaded = append(d.loaded, path)
	d.snap = transport.Snapshot{Loaded: true, AssetName: filepath.Base(path), Tempo: 1}
	return nil
}

func TestExecuteGestures(t *testing.T) {
	deck := &fakeDeck{}
	var out bytes.Buffer
	c := New(deck, &out)

	for _, line := range []string{"play", "pressure - 1.5", "seek + "} {
		if c.Execute(line) {
			t.Fatalf("%q: unexpected quit", line)
		}
	}

	if len(deck.gestures) != 4 {
		t.Errorf("expected 4 gestures, got %d", len(deck.gestures))
	}
	if out.Len() != 0 {
		t.Errorf("expected no output, got %q", out.String())
	}
}

func TestExecuteLoad(t *testing.T) {
	deck := &fakeDeck{}
	var out bytes.Buffer
	c := New(deck, &out)

	c.Execute("load track.wav")
	if len(deck.loaded) != 1 || deck.loaded[0] != "track.wav" {
		t.Errorf("expected track.wav loaded, got %v", deck.loaded)
	}
	if !strings.Contains(out.String(), "track.wav") {
		t.Errorf("expected status after load, got %q", out.String())
	}

	out.Reset()
	deck.loadErr = errors.New("bad file")
	c.Execute("load broken.mp3")
	if !strings.Contains(out.String(), "load failed: bad file") {
		t.Errorf("expected load failure, got %q", out.String())
	}
}

func TestExecuteQuitAndErrors(t *testing.T) {
	var out bytes.Buffer
	c := New(&fakeDeck{}, &out)

	if !c.Execute("quit") {
		t.Error("expected quit")
	}
	if c.Execute("eject") {
		t.Error("expected no quit on unknown command")
	}
	if !strings.Contains(out.String(), "unknown command") {
		t.Errorf("expected unknown command message, got %q", out.String())
	}
}

func TestFormatStatus(t *testing.T) {
	if got := FormatStatus(transport.Snapshot{}); got != "no track loaded" {
		t.Errorf("expected no track loaded, got %q", got)
	}

	got := FormatStatus(transport.Snapshot{
		Loaded:    true,
		AssetName: "Track",
		State:     transport.Cueing,
		Position:  12,
		Remaining: 75,
		Tempo:     1,
		Rate:      1,
		Override:  transport.OverrideBend,
	})
	for _, want := range []string{"Track", "CUEING", "-1:15", "[bend]"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in %q", want, got)
		}
	}
}

func TestListTracks(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.wav", "b.flac", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "crate"), 0o755); err != nil {
		t.Fatal(err)
	}

	got := listTracks("load " + dir + string(filepath.Separator))
	want := map[string]bool{
		filepath.Join(dir, "a.wav"):                              true,
		filepath.Join(dir, "b.flac"):                             true,
		filepath.Join(dir, "crate") + string(filepath.Separator): true,
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d entries, got %v", len(want), got)
	}
	for _, g := range got {
		if !want[g] {
			t.Errorf("unexpected completion %q", g)
		}
	}
}
