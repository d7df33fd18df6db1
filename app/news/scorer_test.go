package news

import (
	"math"
	"testing"
	"time"
)

var testKeywords = []string{
	"충남콘텐츠진흥원",
	"충콘진",
	"천안그린스타트업타운",
	"충남콘텐츠코리아랩",
	"충남글로벌게임센터",
}

var testMainKeywords = []string{"충남콘텐츠진흥원", "충콘진"}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func testScorer(now time.Time) *Scorer {
	return NewScorer(testKeywords, testMainKeywords).WithClock(fixedClock(now))
}

func TestScorer_TitleOnlyMainKeyword(t *testing.T) {
	s := testScorer(time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC))

	article := Article{Title: "충남콘텐츠진흥원 소식"}
	if got := s.Score(article); got != 2.5 {
		t.Errorf("Expected 2.5 for a single main keyword in the title, got %f", got)
	}
}

func TestScorer_RecencyDayZero(t *testing.T) {
	now := time.Date(2025, time.March, 10, 15, 30, 0, 0, time.UTC)
	s := testScorer(now)

	article := Article{Title: "키워드와 무관한 기사 제목입니다", PubDate: "2025-03-10T09:00:00+09:00"}
	if got := s.Score(article); got != 2.0 {
		t.Errorf("Expected exactly 2.0 for a same-day article with no matches, got %f", got)
	}
}

func TestScorer_RecencyDecay(t *testing.T) {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	s := testScorer(now)

	cases := []struct {
		pubDate string
		want    float64
	}{
		{"2025-03-10T00:00:00+09:00", 2.0},
		{"2025-03-09T00:00:00+09:00", 1.625},
		{"2025-03-08T00:00:00+09:00", 1.25},
		{"2025-03-07T00:00:00+09:00", 0.875},
		{"2025-03-06T00:00:00+09:00", 0.5},
		{"2025-03-05T00:00:00+09:00", 0.0},
	}

	for _, c := range cases {
		article := Article{Title: "키워드와 무관한 기사 제목입니다", PubDate: c.pubDate}
		if got := s.Score(article); math.Abs(got-c.want) > 1e-9 {
			t.Errorf("PubDate %s: expected %f, got %f", c.pubDate, c.want, got)
		}
	}
}

func TestScorer_FutureDateCapped(t *testing.T) {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	s := testScorer(now)

	article := Article{Title: "키워드와 무관한 기사 제목입니다", PubDate: "2025-03-12T00:00:00+09:00"}
	if got := s.Score(article); got != 2.0 {
		t.Errorf("Future-dated article should score no recency bonus above 2.0, got %f", got)
	}
}

func TestScorer_UnparseableDateNoBonus(t *testing.T) {
	s := testScorer(time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC))

	article := Article{Title: "키워드와 무관한 기사 제목입니다", PubDate: "garbage"}
	if got := s.Score(article); got != 0.0 {
		t.Errorf("Unparseable date should yield no bonus, got %f", got)
	}
}

func TestScorer_TitleCapClamped(t *testing.T) {
	s := testScorer(time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC))

	// Both main keywords (5.0 raw) plus other keywords would exceed the cap.
	article := Article{Title: "충남콘텐츠진흥원 충콘진 천안그린스타트업타운 충남콘텐츠코리아랩"}
	if got := s.Score(article); got != 5.0 {
		t.Errorf("Title component should clamp at 5.0, got %f", got)
	}
}

func TestScorer_DescriptionComponent(t *testing.T) {
	s := testScorer(time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC))

	article := Article{
		Title:       "키워드와 무관한 기사 제목입니다",
		Description: "충남콘텐츠진흥원과 충남글로벌게임센터가 함께했다",
	}
	// 1.5 (main) + 0.2 (other) = 1.7.
	if got := s.Score(article); math.Abs(got-1.7) > 1e-9 {
		t.Errorf("Expected 1.7, got %f", got)
	}
}

func TestScorer_Bounds(t *testing.T) {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	s := testScorer(now)

	article := Article{
		Title:       "충남콘텐츠진흥원 충콘진 천안그린스타트업타운 충남콘텐츠코리아랩 충남글로벌게임센터",
		Description: "충남콘텐츠진흥원 충콘진 천안그린스타트업타운 충남콘텐츠코리아랩 충남글로벌게임센터",
		PubDate:     "2025-03-10T00:00:00+09:00",
	}

	got := s.Score(article)
	if got < 0 || got > 10 {
		t.Fatalf("Score out of bounds: %f", got)
	}
	if got != 10.0 {
		t.Errorf("Fully matching same-day article should hit the 10.0 cap, got %f", got)
	}
}

func TestScorer_Deterministic(t *testing.T) {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	s := testScorer(now)

	article := Article{
		Title:       "충남콘텐츠진흥원 행사 개최",
		Description: "충콘진이 지원한 행사",
		PubDate:     "2025-03-09T00:00:00+09:00",
	}

	first := s.Score(article)
	second := s.Score(article)
	if first != second {
		t.Errorf("Score should be deterministic under a fixed clock: %f vs %f", first, second)
	}
}
