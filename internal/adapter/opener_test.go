package adapter

import (
	"testing"
)

func TestOpenerUsesConfiguredCommand(t *testing.T) {
	o := NewOpener("feh", []string{"--scale-down"}, nil)

	var gotName string
	var gotArgs []string
	o.start = func(name string, args ...string) error {
		gotName, gotArgs = name, args
		return nil
	}

	if err := o.Open("https://img/cover.jpg"); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if gotName != "feh" || len(gotArgs) != 2 || gotArgs[1] != "https://img/cover.jpg" {
		t.Errorf("Unexpected launch %s %v", gotName, gotArgs)
	}
}

func TestOpenerRejectsEmptyURL(t *testing.T) {
	o := NewOpener("", nil, nil)
	o.start = func(string, ...string) error {
		t.Error("Expected no launch")
		return nil
	}
	if err := o.Open(""); err == nil {
		t.Error("Expected error for empty url")
	}
}
