package types

import (
	"regexp"
	"strings"

	ld "github.com/piprate/json-gold/ld"
	"github.com/pkg/errors"
)

// ErrInvalidTerm indicates that the given term was of an unexpected type
var ErrInvalidTerm = errors.New("invalid term")

var patternLiteral = regexp.MustCompile("^\"([^\"\\\\]*(?:\\\\.[^\"\\\\]*)*)\"")

var escaper = strings.NewReplacer("\\", "\\\\", "\"", "\\\"", "\n", "\\n", "\r", "\\r", "\t", "\\t")
var unescaper = strings.NewReplacer("\\\\", "\\", "\\\"", "\"", "\\n", "\n", "\\r", "\r", "\\t", "\t")

func escape(str string) string   { return escaper.Replace(str) }
func unescape(str string) string { return unescaper.Replace(str) }

// FormatTerm serializes a term in N-Triples-star syntax. Plain literals are
// written without a datatype whether or not xsd:string was set explicitly.
func FormatTerm(node ld.Node) string {
	switch node := node.(type) {
	case nil:
		return ""
	case *ld.IRI:
		return "<" + node.Value + ">"
	case *ld.BlankNode:
		if strings.HasPrefix(node.Attribute, "_:") {
			return node.Attribute
		}
		return "_:" + node.Attribute
	case *ld.Literal:
		escaped := "\"" + escape(node.Value) + "\""
		if node.Language != "" {
			return escaped + "@" + node.Language
		} else if node.Datatype == "" || node.Datatype == ld.XSDString {
			return escaped
		}
		return escaped + "^^<" + node.Datatype + ">"
	case *TripleNode:
		return node.GetValue()
	default:
		return node.GetValue()
	}
}

// FormatTriple serializes t as one N-Triples-star statement
func FormatTriple(t Triple) string { return t.Key() + " ." }

// ParseTerm reads exactly one term
func ParseTerm(s string) (ld.Node, error) {
	node, rest, err := readTerm(s)
	if err != nil {
		return nil, err
	} else if strings.TrimSpace(rest) != "" {
		return nil, errors.Wrapf(ErrInvalidTerm, "trailing input %q", rest)
	}
	return node, nil
}

// ParseTriple reads one N-Triples-star statement. The trailing dot is optional.
func ParseTriple(line string) (Triple, error) {
	t, rest, err := readTriple(line)
	if err != nil {
		return Triple{}, err
	}
	rest = strings.TrimSpace(rest)
	if rest != "" && rest != "." {
		return Triple{}, errors.Wrapf(ErrInvalidTerm, "trailing input %q", rest)
	}
	return t, nil
}

// EncodeTriples writes one statement per line
func EncodeTriples(triples []Triple) []byte {
	var b strings.Builder
	for _, t := range triples {
		b.WriteString(FormatTriple(t))
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

// DecodeTriples reads the output of EncodeTriples. Blank lines are skipped.
func DecodeTriples(data []byte) ([]Triple, error) {
	lines := strings.Split(string(data), "\n")
	triples := make([]Triple, 0, len(lines))
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		t, err := ParseTriple(line)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", i+1)
		}
		triples = append(triples, t)
	}
	return triples, nil
}

func readTriple(s string) (t Triple, rest string, err error) {
	rest = s
	for i := range 3 {
		var node ld.Node
		node, rest, err = readTerm(rest)
		if err != nil {
			return Triple{}, "", err
		}
		switch i {
		case 0:
			t.Subject = node
		case 1:
			t.Predicate = node
		case 2:
			t.Object = node
		}
	}
	return t, rest, nil
}

func readTerm(s string) (ld.Node, string, error) {
	s = strings.TrimLeft(s, " \t")
	switch {
	case s == "":
		return nil, "", errors.Wrap(ErrInvalidTerm, "unexpected end of input")
	case strings.HasPrefix(s, "<<"):
		t, rest, err := readTriple(s[2:])
		if err != nil {
			return nil, "", err
		}
		rest = strings.TrimLeft(rest, " \t")
		if !strings.HasPrefix(rest, ">>") {
			return nil, "", errors.Wrap(ErrInvalidTerm, "unterminated quoted triple")
		}
		return Quote(t), rest[2:], nil
	case s[0] == '<':
		end := strings.IndexByte(s, '>')
		if end == -1 {
			return nil, "", errors.Wrap(ErrInvalidTerm, "unterminated IRI")
		}
		return ld.NewIRI(s[1:end]), s[end+1:], nil
	case strings.HasPrefix(s, "_:"):
		end := strings.IndexAny(s, " \t\n")
		if end == -1 {
			end = len(s)
		}
		if end == 2 {
			return nil, "", errors.Wrap(ErrInvalidTerm, "empty blank node label")
		}
		return ld.NewBlankNode(s[:end]), s[end:], nil
	case s[0] == '"':
		li := patternLiteral.FindStringIndex(s)
		if li == nil {
			return nil, "", errors.Wrap(ErrInvalidTerm, "unterminated literal")
		}
		value, rest := unescape(s[1:li[1]-1]), s[li[1]:]
		if strings.HasPrefix(rest, "@") {
			end := strings.IndexAny(rest, " \t\n")
			if end == -1 {
				end = len(rest)
			}
			return ld.NewLiteral(value, ld.RDFLangString, rest[1:end]), rest[end:], nil
		} else if strings.HasPrefix(rest, "^^<") {
			end := strings.IndexByte(rest, '>')
			if end == -1 {
				return nil, "", errors.Wrap(ErrInvalidTerm, "unterminated datatype")
			}
			return ld.NewLiteral(value, rest[3:end], ""), rest[end+1:], nil
		}
		return ld.NewLiteral(value, ld.XSDString, ""), rest, nil
	default:
		return nil, "", errors.Wrapf(ErrInvalidTerm, "unexpected input %q", s)
	}
}
