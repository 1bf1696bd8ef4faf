// Package token defines the lexical tokens recognized within a single
// annotation line of the workflow annotation mini-language (spec §4.1).
package token

// Kind identifies a lexical token category.
type Kind int

// Token kinds. The punctuation kinds, Arrow through RParen, mirror the
// grammar's punctuation set `-> . , : = [ ] ( )`.
const (
	EOF Kind = iota
	Tag        // @node, @connect, @input, ...
	Ident      // bare identifier: [A-Za-z_$][A-Za-z0-9_$]*
	Int        // optionally signed integer literal
	Str        // double-quoted string literal, already unescaped
	Keyword    // a recognized "name:" prefix, e.g. "label:", "scope:"
	AttrValue  // a recognized "name=" prefix, e.g. "timeout=", "event="
	Arrow      // ->
	Dot        // .
	Comma      // ,
	Colon      // :
	Equals     // =
	LBracket   // [
	RBracket   // ]
	LParen     // (
	RParen     // )
	Over       // the bare word "over" used by @map
	Route      // the bare words "ok"/"fail" used by @path
	Placement  // TOP / BOTTOM
)

// Keywords is the set of recognized "name:" prefixes (spec §4.1).
var Keywords = map[string]bool{
	"label":          true,
	"expr":           true,
	"portOrder":      true,
	"portLabel":      true,
	"pullExecution":  true,
	"size":           true,
	"color":          true,
	"icon":           true,
	"tags":           true,
	"scope":          true,
	"order":          true,
	"placement":      true,
}

// AttrValues is the set of recognized "name=" prefixes (spec §4.1).
var AttrValues = map[string]bool{
	"event":   true,
	"cron":    true,
	"match":   true,
	"timeout": true,
	"limit":   true,
	"period":  true,
}

// Token is a single lexeme recognized on an annotation line.
type Token struct {
	Kind Kind
	Text string // raw text, or the "name" part for Keyword/AttrValue/Tag
	Pos  int    // 0-based byte offset within the line
}

func (k Kind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case Tag:
		return "Tag"
	case Ident:
		return "Ident"
	case Int:
		return "Int"
	case Str:
		return "Str"
	case Keyword:
		return "Keyword"
	case AttrValue:
		return "AttrValue"
	case Arrow:
		return "Arrow"
	case Dot:
		return "Dot"
	case Comma:
		return "Comma"
	case Colon:
		return "Colon"
	case Equals:
		return "Equals"
	case LBracket:
		return "LBracket"
	case RBracket:
		return "RBracket"
	case LParen:
		return "LParen"
	case RParen:
		return "RParen"
	case Over:
		return "Over"
	case Route:
		return "Route"
	case Placement:
		return "Placement"
	default:
		return "Unknown"
	}
}
