package news

import (
	"math"
	"testing"
)

func TestRatio_Identical(t *testing.T) {
	if got := Ratio("abcdef", "abcdef"); got != 1.0 {
		t.Errorf("Expected 1.0 for identical strings, got %f", got)
	}
}

func TestRatio_Disjoint(t *testing.T) {
	if got := Ratio("abc", "xyz"); got != 0.0 {
		t.Errorf("Expected 0.0 for disjoint strings, got %f", got)
	}
}

func TestRatio_BothEmpty(t *testing.T) {
	if got := Ratio("", ""); got != 1.0 {
		t.Errorf("Expected 1.0 for two empty strings, got %f", got)
	}
}

func TestRatio_OneEmpty(t *testing.T) {
	if got := Ratio("abc", ""); got != 0.0 {
		t.Errorf("Expected 0.0 against empty string, got %f", got)
	}
}

func TestRatio_PartialOverlap(t *testing.T) {
	// Longest block "abcd" (4), remainder matches nothing:
	// 2*4 / (5+5) = 0.8.
	got := Ratio("abcdx", "yabcd")
	if math.Abs(got-0.8) > 1e-9 {
		t.Errorf("Expected 0.8, got %f", got)
	}
}

func TestRatio_MultipleBlocks(t *testing.T) {
	// "ab" and "ef" both match around the differing middle:
	// 2*4 / (5+5) = 0.8.
	got := Ratio("abXef", "abYef")
	if math.Abs(got-0.8) > 1e-9 {
		t.Errorf("Expected 0.8, got %f", got)
	}
}

func TestRatio_RuneAware(t *testing.T) {
	// One differing Hangul character out of ten: 2*9/20 = 0.9.
	got := Ratio("충남콘텐츠진흥원행사완", "충남콘텐츠진흥원행사료")
	if math.Abs(got-0.9) > 1e-9 {
		t.Errorf("Expected 0.9, got %f", got)
	}
}

func TestRatio_Symmetric(t *testing.T) {
	a, b := "충남콘텐츠진흥원행사성료", "충남콘텐츠진흥원행사완료"
	if Ratio(a, b) != Ratio(b, a) {
		t.Errorf("Ratio should be symmetric for this pair")
	}
}
