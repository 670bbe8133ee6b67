package main

import (
	"os"
	"path/filepath"
	"testing"

	"fyne.io/fyne/v2"
)

// containsObject walks a canvas object tree looking for target, the way a
// real render pass would have to find the toolbar to draw it.
func containsObject(root, target fyne.CanvasObject) bool {
	if root == target {
		return true
	}
	if c, ok := root.(*fyne.Container); ok {
		for _, obj := range c.Objects {
			if containsObject(obj, target) {
				return true
			}
		}
	}
	return false
}

func TestApp_ToolbarIsWiredIntoWindowContent(t *testing.T) {
	a := NewApp()

	if a.Toolbar == nil {
		t.Fatal("expected setupToolbar to have built a non-nil Toolbar")
	}
	if !containsObject(a.Window.Content(), a.Toolbar) {
		t.Fatal("expected a.Toolbar to be reachable from the window's content tree")
	}
}

func TestApp_AssembleValidSource(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "prog")
	if err := os.WriteFile(base+".as", []byte("L: mov r1, r2\nstop\n"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	a := NewApp()
	a.PathEntry.SetText(base)
	a.assemble()

	if a.lastSymbolsText == "no symbols yet" {
		t.Fatalf("expected symbols to be populated, got %q", a.lastSymbolsText)
	}
	if got := a.StatusLabel.Text; got == "Ready" {
		t.Fatalf("expected status to report success, got %q", got)
	}
}

func TestApp_AssembleInvalidSource(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "prog")
	if err := os.WriteFile(base+".as", []byte("bogus r1, r2\n"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	a := NewApp()
	a.PathEntry.SetText(base)
	a.assemble()

	if a.lastDiagText == "" {
		t.Fatalf("expected a diagnostic message, got empty string")
	}
}

func TestApp_AssembleEmptyPath(t *testing.T) {
	a := NewApp()
	a.assemble()

	if got := a.StatusLabel.Text; got != "Ready" {
		t.Fatalf("expected status unchanged on empty path, got %q", got)
	}
}
