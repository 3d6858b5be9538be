package logger

import "testing"

func TestNew_StartsAsNop(t *testing.T) {
	l := New()
	if l.Log == nil {
		t.Fatal("New must return a usable logger")
	}
	// Must not panic before Init.
	l.Log.Info("noop")
}

func TestInit_ValidLevel(t *testing.T) {
	l := New()
	if err := l.Init("Info"); err != nil {
		t.Fatalf("Init returned error: %v", err)
	}
	if l.Log == nil {
		t.Fatal("Init must build a logger")
	}
}

func TestInit_InvalidLevel(t *testing.T) {
	l := New()
	if err := l.Init("noisy"); err == nil {
		t.Fatal("Init must reject an unknown level")
	}
}
