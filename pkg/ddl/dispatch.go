package ddl

import (
	"fmt"
	"regexp"
	"strings"
)

// Member is an object to be packaged into an extension.
type Member struct {
	Kind     Kind
	Identity string // e.g. "foo (int4, text)" or "+ (mpz, mpz)"
}

// String returns the member as written after ADD, e.g. "TYPE mpz".
func (m Member) String() string {
	return m.Kind.String() + " " + m.Identity
}

// Statement renders the ALTER EXTENSION statement adding m to extName.
func (m Member) Statement(extName string) string {
	return fmt.Sprintf("ALTER EXTENSION %s ADD %s;", extName, m)
}

type handler func(body string) (Member, error)

// handlers is indexed by Kind. KindUnknown has no entry.
var handlers = [...]handler{
	KindAggregate:      aggregateMember,
	KindCast:           castMember,
	KindFunction:       functionMember,
	KindOperator:       operatorMember,
	KindOperatorClass:  operatorClassMember,
	KindOperatorFamily: operatorFamilyMember,
	KindType:           typeMember,
}

// Dispatch extracts the member defined by stmt. Statements whose kind has no
// handler fail with *UnsupportedKindError.
func Dispatch(stmt Statement) (Member, error) {
	if stmt.Kind <= KindUnknown || int(stmt.Kind) >= len(handlers) || handlers[stmt.Kind] == nil {
		return Member{}, &UnsupportedKindError{Kind: stmt.Keyword}
	}
	return handlers[stmt.Kind](stmt.Body)
}

// identPattern matches a possibly qualified, possibly quoted identifier.
const identPattern = `(?:[\w[:^ascii:]][\w$[:^ascii:]]*|"(?:[^"]|"")+")(?:\.(?:[\w[:^ascii:]][\w$[:^ascii:]]*|"(?:[^"]|"")+"))*`

var (
	operatorPattern       = regexp.MustCompile(`^\s*([^\s(]+)\s*\(`)
	leftArgPattern        = regexp.MustCompile(`(?i)LEFTARG\s*=\s*([^,)]+)`)
	rightArgPattern       = regexp.MustCompile(`(?i)RIGHTARG\s*=\s*([^,)]+)`)
	operatorClassPattern  = regexp.MustCompile(`(?is)^\s*CLASS\s+(` + identPattern + `).*?\bUSING\s+(\w+)\b`)
	operatorFamilyPattern = regexp.MustCompile(`(?is)^\s*FAMILY\s+(` + identPattern + `).*?\bUSING\s+(\w+)\b`)
	basetypePattern       = regexp.MustCompile(`(?i)\bBASETYPE\s*=\s*([^,)]+)`)
)

func aggregateMember(body string) (Member, error) {
	name, rest, ok := splitName(body)
	if !ok {
		return Member{}, &MissingNameError{Object: "aggregate name", Body: body}
	}
	args, ok := argSpan(rest)
	if !ok {
		return Member{}, &MalformedArgumentListError{Body: body}
	}

	// Old syntax: CREATE AGGREGATE name (BASETYPE = type, SFUNC = ..., ...)
	if m := basetypePattern.FindStringSubmatch(args); m != nil {
		base := collapseSpace(m[1])
		if strings.EqualFold(base, "any") {
			args = "(*)"
		} else {
			args = "(" + base + ")"
		}
	}

	return Member{Kind: KindAggregate, Identity: name + " " + args}, nil
}

func castMember(body string) (Member, error) {
	args, err := FindArgs(body)
	if err != nil {
		return Member{}, err
	}
	return Member{Kind: KindCast, Identity: args}, nil
}

func functionMember(body string) (Member, error) {
	name, rest, ok := splitName(body)
	if !ok {
		return Member{}, &MissingNameError{Object: "function name", Body: body}
	}
	args, ok := argSpan(rest)
	if !ok {
		return Member{}, &MalformedArgumentListError{Body: body}
	}
	return Member{Kind: KindFunction, Identity: name + " " + args}, nil
}

func operatorMember(body string) (Member, error) {
	lead := strings.ToLower(strings.TrimLeft(body, " \t\r\n\f\v"))
	switch {
	case strings.HasPrefix(lead, "class"):
		return operatorClassMember(body)
	case strings.HasPrefix(lead, "family"):
		return operatorFamilyMember(body)
	}

	m := operatorPattern.FindStringSubmatch(body)
	if m == nil {
		return Member{}, &MissingNameError{Object: "operator", Body: body}
	}
	op := m[1]

	left := operatorArg(leftArgPattern, body)
	right := operatorArg(rightArgPattern, body)
	if left == "" && right == "" {
		return Member{}, &MissingOperatorArgsError{Body: body}
	}

	return Member{
		Kind:     KindOperator,
		Identity: fmt.Sprintf("%s (%s, %s)", op, orNone(left), orNone(right)),
	}, nil
}

// operatorArg returns the value of a LEFTARG/RIGHTARG clause, or "".
func operatorArg(re *regexp.Regexp, body string) string {
	m := re.FindStringSubmatch(body)
	if m == nil {
		return ""
	}
	return collapseSpace(m[1])
}

func orNone(s string) string {
	if s == "" {
		return "NONE"
	}
	return s
}

// operatorClassMember handles CREATE OPERATOR CLASS. The first USING after
// the name is taken as the index method.
func operatorClassMember(body string) (Member, error) {
	m := operatorClassPattern.FindStringSubmatch(body)
	if m == nil {
		return Member{}, &MissingNameError{Object: "operator class name and USING method", Body: body}
	}
	return Member{Kind: KindOperatorClass, Identity: m[1] + " USING " + m[2]}, nil
}

func operatorFamilyMember(body string) (Member, error) {
	m := operatorFamilyPattern.FindStringSubmatch(body)
	if m == nil {
		return Member{}, &MissingNameError{Object: "operator family name and USING method", Body: body}
	}
	return Member{Kind: KindOperatorFamily, Identity: m[1] + " USING " + m[2]}, nil
}

func typeMember(body string) (Member, error) {
	name, ok := FindName(body)
	if !ok {
		return Member{}, &MissingNameError{Object: "type name", Body: body}
	}
	return Member{Kind: KindType, Identity: name}, nil
}
