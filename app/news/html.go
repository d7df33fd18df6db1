package news

import (
	"regexp"
	"strings"
)

var (
	tagRe        = regexp.MustCompile(`<[^>]+>`)
	whitespaceRe = regexp.MustCompile(`\s+`)

	entityReplacer = strings.NewReplacer(
		"&quot;", `"`,
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&nbsp;", " ",
		"&#39;", "'",
		"&apos;", "'",
	)
)

// StripTags removes markup the search API leaves in titles and snippets:
// HTML tags, the handful of entities it emits, and runs of whitespace.
func StripTags(text string) string {
	if text == "" {
		return ""
	}
	text = tagRe.ReplaceAllString(text, "")
	text = entityReplacer.Replace(text)
	text = whitespaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

var koreanWeekdays = [7]string{"일", "월", "화", "수", "목", "금", "토"}

// FormatDateKorean renders a publication timestamp as "2025.12.30 (화)".
// Unparseable input is returned as-is, empty input as a placeholder.
func FormatDateKorean(pubDate string) string {
	if pubDate == "" {
		return "날짜 정보 없음"
	}
	d, ok := ParsePubDate(pubDate)
	if !ok {
		return pubDate
	}
	return d.Format("2006.01.02") + " (" + koreanWeekdays[d.Weekday()] + ")"
}
