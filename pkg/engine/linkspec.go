package engine

import (
	"strings"

	"github.com/airlock-systems/breathe/pkg/util"
)

// linkSeparator is the canonical arrow token between the FROM.OUT and TO.IN
// halves of a link spec.
const linkSeparator = " -> "

// LinkSpec is the four-tuple parsed from a canonical link-spec string
// "FROM.OUT -> TO.IN".
type LinkSpec struct {
	From   string
	Output string
	To     string
	Input  string
}

// ParseLinkSpec parses the canonical form. FROM, OUT, TO, IN must each be
// non-empty and contain no '.', no whitespace, and no " -> ".
func ParseLinkSpec(spec string) (LinkSpec, error) {
	sides := strings.SplitN(spec, linkSeparator, 2)
	if len(sides) != 2 {
		return LinkSpec{}, util.NewLinkSpecError(spec, "missing ' -> ' separator")
	}

	from, output, err := splitEndpoint(sides[0])
	if err != nil {
		return LinkSpec{}, util.NewLinkSpecError(spec, err.Error())
	}
	to, input, err := splitEndpoint(sides[1])
	if err != nil {
		return LinkSpec{}, util.NewLinkSpecError(spec, err.Error())
	}

	return LinkSpec{From: from, Output: output, To: to, Input: input}, nil
}

func splitEndpoint(s string) (name, slot string, err error) {
	dot := strings.IndexByte(s, '.')
	if dot < 0 {
		return "", "", errMissingDot
	}
	name, slot = s[:dot], s[dot+1:]
	if name == "" || slot == "" {
		return "", "", errEmptyIdentifier
	}
	if strings.ContainsAny(name, ". \t\n") || strings.ContainsAny(slot, ". \t\n") {
		return "", "", errBadIdentifier
	}
	return name, slot, nil
}

var (
	errMissingDot      = plainError("endpoint is missing its '.' separator")
	errEmptyIdentifier = plainError("app or slot identifier is empty")
	errBadIdentifier   = plainError("app or slot identifier contains '.' or whitespace")
)

type plainError string

func (e plainError) Error() string { return string(e) }

// String renders spec back to its canonical form. Parsing and formatting
// are inverse: ParseLinkSpec(s.String()) == s for any well-formed s.
func (s LinkSpec) String() string {
	return s.From + "." + s.Output + linkSeparator + s.To + "." + s.Input
}
