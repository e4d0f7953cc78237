package text

import "testing"

func newTestMeasurer(t *testing.T) *Measurer {
	t.Helper()
	m, err := NewMeasurer()
	if err != nil {
		t.Fatalf("NewMeasurer: %v", err)
	}
	return m
}

func TestWidth(t *testing.T) {
	m := newTestMeasurer(t)

	short := m.Width("Hi", Style{Size: 16})
	long := m.Width("Hi there, world", Style{Size: 16})
	if short <= 0 {
		t.Fatalf("Width(short) = %v, want > 0", short)
	}
	if long <= short {
		t.Errorf("longer string measured %v, not wider than %v", long, short)
	}

	small := m.Width("Invoice", Style{Size: 12})
	big := m.Width("Invoice", Style{Size: 24})
	if big <= small {
		t.Errorf("24px width %v not larger than 12px width %v", big, small)
	}

	if m.Width("", Style{Size: 16}) != 0 {
		t.Error("empty string should measure zero")
	}
}

func TestWidthDefaultSize(t *testing.T) {
	m := newTestMeasurer(t)
	if got, want := m.Width("x", Style{}), m.Width("x", Style{Size: 16}); got != want {
		t.Errorf("zero size width %v, want 16px default %v", got, want)
	}
}

func TestWidthStyleVariants(t *testing.T) {
	m := newTestMeasurer(t)
	regular := m.Width("Total", Style{Size: 16})
	bold := m.Width("Total", Style{Size: 16, Bold: true})
	if bold < regular {
		t.Errorf("bold width %v narrower than regular %v", bold, regular)
	}
	if italic := m.Width("Total", Style{Size: 16, Italic: true}); italic <= 0 {
		t.Errorf("italic width = %v, want > 0", italic)
	}
}

func TestAscent(t *testing.T) {
	m := newTestMeasurer(t)
	ascent := m.Ascent(Style{Size: 16})
	if ascent <= 0 || ascent > 16 {
		t.Errorf("Ascent(16px) = %v, want within (0, 16]", ascent)
	}
	if larger := m.Ascent(Style{Size: 32}); larger <= ascent {
		t.Errorf("32px ascent %v not larger than 16px ascent %v", larger, ascent)
	}
}

func TestFaceCaching(t *testing.T) {
	m := newTestMeasurer(t)
	a, err := m.Face(Style{Size: 16, Bold: true})
	if err != nil {
		t.Fatalf("Face: %v", err)
	}
	b, err := m.Face(Style{Size: 16, Bold: true})
	if err != nil {
		t.Fatalf("Face: %v", err)
	}
	if a != b {
		t.Error("same style should return the cached face")
	}
	c, err := m.Face(Style{Size: 18, Bold: true})
	if err != nil {
		t.Fatalf("Face: %v", err)
	}
	if a == c {
		t.Error("different sizes should produce distinct faces")
	}
}
