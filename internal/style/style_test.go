package style

import "testing"

func TestStylesRenderWithoutPanicking(t *testing.T) {
	if Bold.Render("x") == "" {
		t.Fatalf("expected non-empty render")
	}
	if Dim.Render("x") == "" {
		t.Fatalf("expected non-empty render")
	}
	if Warning.Render("x") == "" {
		t.Fatalf("expected non-empty render")
	}
	if Error.Render("x") == "" {
		t.Fatalf("expected non-empty render")
	}
}

func TestPrintHelpersDoNotPanic(t *testing.T) {
	PrintWarning("warning %d", 1)
	PrintError("error %s", "x")
	PrintSuccess("ok %s", "y")
}
