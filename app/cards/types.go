package cards

// Card is one slide of generated card-news copy. Type is an open vocabulary
// (cover, intro, program, impact, result, closing, ...) and stays empty when
// the producing grammar carries no type information.
type Card struct {
	Type     string `json:"type"`
	Head     string `json:"head"`
	Body     string `json:"body"`
	ImageKey string `json:"image_key"`
}

// Grammar identifies which of the two accepted script formats produced a
// parse result.
type Grammar string

const (
	GrammarJSON   Grammar = "json"
	GrammarLegacy Grammar = "legacy"
	GrammarNone   Grammar = "none"
)

// ParseResult carries the parsed cards together with the grammar that
// matched, for logging and testing.
type ParseResult struct {
	Cards   []Card
	Grammar Grammar
}
