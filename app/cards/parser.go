package cards

import (
	"encoding/json"
	"strings"
)

// Parser turns a generated card script back into structured cards. Scripts
// arrive in one of two formats: a JSON array of slides, or the legacy
// numbered-line format
//
//	1. TYPE=cover | HEAD=제목 | IMAGE_KEY=keyword1 keyword2
//
// Parsing is total: malformed input yields an empty card list, never an
// error.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// jsonSlide is the element shape of the JSON grammar. It carries no type
// field.
type jsonSlide struct {
	Headline     string `json:"headline"`
	Description  string `json:"description"`
	ImageKeyword string `json:"image_keyword"`
}

// Run parses a card script. A script opening with a JSON bracket is parsed
// structurally first; a valid JSON array is final even when it produces no
// cards. Anything else, including malformed JSON, goes through the legacy
// line grammar.
func (p *Parser) Run(script string) ParseResult {
	script = strings.TrimSpace(script)

	if strings.HasPrefix(script, "[") || strings.HasPrefix(script, "{") {
		if parsed, ok := p.parseJSON(script); ok {
			return ParseResult{Cards: parsed, Grammar: GrammarJSON}
		}
	}

	parsed := p.parseLegacy(script)
	if len(parsed) == 0 {
		return ParseResult{Grammar: GrammarNone}
	}
	return ParseResult{Cards: parsed, Grammar: GrammarLegacy}
}

func (p *Parser) parseJSON(script string) ([]Card, bool) {
	var slides []jsonSlide
	if err := json.Unmarshal([]byte(script), &slides); err != nil {
		return nil, false
	}

	parsed := make([]Card, 0, len(slides))
	for _, slide := range slides {
		if slide.Headline == "" {
			continue
		}
		parsed = append(parsed, Card{
			Head:     slide.Headline,
			Body:     slide.Description,
			ImageKey: slide.ImageKeyword,
		})
	}
	return parsed, true
}

func (p *Parser) parseLegacy(script string) []Card {
	var parsed []Card

	for _, line := range strings.Split(script, "\n") {
		line = strings.TrimSpace(line)

		rest, ok := stripLineNumber(line)
		if !ok {
			continue
		}

		var card Card
		for _, segment := range strings.Split(rest, "|") {
			segment = strings.TrimSpace(segment)
			switch {
			case strings.HasPrefix(segment, "TYPE="):
				card.Type = strings.TrimSpace(segment[len("TYPE="):])
			case strings.HasPrefix(segment, "HEAD="):
				card.Head = strings.TrimSpace(segment[len("HEAD="):])
			case strings.HasPrefix(segment, "BODY="):
				card.Body = strings.TrimSpace(segment[len("BODY="):])
			case strings.HasPrefix(segment, "IMAGE_KEY="):
				card.ImageKey = strings.TrimSpace(segment[len("IMAGE_KEY="):])
			}
		}

		// Type and head are the minimum for a line to count as a card.
		if card.Type != "" && card.Head != "" {
			parsed = append(parsed, card)
		}
	}

	return parsed
}

// stripLineNumber removes the "N." prefix of a legacy-grammar line. Lines
// without the prefix are not card lines.
func stripLineNumber(line string) (string, bool) {
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i == 0 || i >= len(line) || line[i] != '.' {
		return "", false
	}
	return strings.TrimLeft(line[i+1:], " \t"), true
}
