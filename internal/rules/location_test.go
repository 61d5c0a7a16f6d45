package rules

import (
	"encoding/json"
	"testing"
)

func TestNewFileLocation(t *testing.T) {
	loc := NewFileLocation("main.zig")

	if loc.File != "main.zig" {
		t.Errorf("File = %q, want %q", loc.File, "main.zig")
	}
	if loc.Start.Line != 0 {
		t.Errorf("Start.Line = %d, want 0 (file-level sentinel)", loc.Start.Line)
	}
	if !loc.IsFileLevel() {
		t.Error("IsFileLevel() = false, want true")
	}
}

func TestNewLineLocation(t *testing.T) {
	loc := NewLineLocation("main.zig", 11)

	if loc.File != "main.zig" {
		t.Errorf("File = %q, want %q", loc.File, "main.zig")
	}
	if loc.Start.Line != 11 {
		t.Errorf("Start.Line = %d, want 11", loc.Start.Line)
	}
	if loc.Start.Column != 1 {
		t.Errorf("Start.Column = %d, want 1", loc.Start.Column)
	}
	if loc.End.Line != 0 {
		t.Errorf("End.Line = %d, want 0 (point location sentinel)", loc.End.Line)
	}
	if loc.IsFileLevel() {
		t.Error("IsFileLevel() = true, want false")
	}
	if !loc.IsPointLocation() {
		t.Error("IsPointLocation() = false, want true")
	}
}

func TestNewRangeLocation(t *testing.T) {
	loc := NewRangeLocation("main.zig", 5, 3, 7, 10)

	if loc.Start.Line != 5 {
		t.Errorf("Start.Line = %d, want 5", loc.Start.Line)
	}
	if loc.Start.Column != 3 {
		t.Errorf("Start.Column = %d, want 3", loc.Start.Column)
	}
	if loc.End.Line != 7 {
		t.Errorf("End.Line = %d, want 7", loc.End.Line)
	}
	if loc.End.Column != 10 {
		t.Errorf("End.Column = %d, want 10", loc.End.Column)
	}
	if loc.IsPointLocation() {
		t.Error("IsPointLocation() = true, want false")
	}
	if loc.IsFileLevel() {
		t.Error("IsFileLevel() = true, want false")
	}
}

func TestLocationJSON(t *testing.T) {
	loc := NewRangeLocation("main.zig", 1, 5, 3, 20)

	data, err := json.Marshal(loc)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}

	var parsed Location
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}

	if parsed.File != loc.File {
		t.Errorf("File = %q, want %q", parsed.File, loc.File)
	}
	if parsed.Start.Line != loc.Start.Line {
		t.Errorf("Start.Line = %d, want %d", parsed.Start.Line, loc.Start.Line)
	}
}
