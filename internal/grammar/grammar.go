package grammar

// Symbol is one element of a grammar rule's right-hand side, used only for
// reflection/rendering — never consulted by the parsers themselves, which
// hand-walk tokens directly.
type Symbol struct {
	Name     string // e.g. "ident", "'->'", "attr-list"
	Optional bool
	Repeats  bool
}

// Rule describes one annotation kind's production for diagram/EBNF
// rendering (spec §4.2).
type Rule struct {
	Tag     string
	Symbols []Symbol
}

// EBNF renders the rule as a single EBNF production line.
func (r Rule) EBNF() string {
	out := r.Tag + " ::="
	for _, s := range r.Symbols {
		name := s.Name
		if s.Optional {
			name = "[" + name + "]"
		}
		if s.Repeats {
			name = "{" + name + "}"
		}
		out += " " + name
	}
	return out
}

// Grammars lists every annotation kind's grammar, in the order the
// language reference documents them (spec §4.2).
var Grammars = []Rule{
	NodeGrammar(),
	PortGrammar("@input"),
	PortGrammar("@output"),
	PortGrammar("@step"),
	ConnectGrammar(),
	ScopeGrammar(),
	PathGrammar(),
	MapGrammar(),
	PositionGrammar(),
	TriggerGrammar("@cancelOn"),
	TriggerGrammar("@retries"),
	TriggerGrammar("@timeout"),
	TriggerGrammar("@throttle"),
	ImportGrammar(),
}

var attrListSymbol = Symbol{Name: "'[' attr (',' attr)* ']'", Optional: true}

func NodeGrammar() Rule {
	return Rule{Tag: "@node", Symbols: []Symbol{
		{Name: "ident"}, {Name: "type-name"},
		{Name: "ident '.' ident", Optional: true},
		attrListSymbol, {Name: "attr-list", Optional: true, Repeats: true},
	}}
}

func PortGrammar(tag string) Rule {
	return Rule{Tag: tag, Symbols: []Symbol{{Name: "ident"}, attrListSymbol}}
}

func ConnectGrammar() Rule {
	endpoint := Symbol{Name: "ident '.' ident [':' ident]"}
	return Rule{Tag: "@connect", Symbols: []Symbol{endpoint, {Name: "'->'"}, endpoint}}
}

func ScopeGrammar() Rule {
	return Rule{Tag: "@scope", Symbols: []Symbol{{Name: "ident"}, attrListSymbol}}
}

func PathGrammar() Rule {
	return Rule{Tag: "@path", Symbols: []Symbol{
		{Name: "ident"}, {Name: "route", Optional: true},
		{Name: "'->' ident [route]", Repeats: true},
	}}
}

func MapGrammar() Rule {
	return Rule{Tag: "@map", Symbols: []Symbol{
		{Name: "ident"}, {Name: "type-name"},
		{Name: "'(' ident '->' ident ')'", Optional: true},
		{Name: "'over'"}, {Name: "ident '.' ident"},
	}}
}

func PositionGrammar() Rule {
	return Rule{Tag: "@position", Symbols: []Symbol{{Name: "ident"}, {Name: "int"}, {Name: "int"}}}
}

func TriggerGrammar(tag string) Rule {
	switch tag {
	case "@retries":
		return Rule{Tag: tag, Symbols: []Symbol{{Name: "int"}}}
	case "@timeout":
		return Rule{Tag: tag, Symbols: []Symbol{{Name: "string"}}}
	default:
		return Rule{Tag: tag, Symbols: []Symbol{{Name: "attr-value '=' value", Repeats: true}}}
	}
}

func ImportGrammar() Rule {
	return Rule{Tag: "@fwImport", Symbols: []Symbol{
		{Name: "type-name"}, {Name: "'as'"}, {Name: "ident"}, {Name: "'from'"}, {Name: "string"},
	}}
}
