package ddl

import "strings"

// Kind identifies the kind of object a CREATE statement defines.
type Kind int

// Statement kinds. KindUnknown is the zero value and marks a CREATE keyword
// with no handler.
const (
	KindUnknown Kind = iota
	KindAggregate
	KindCast
	KindFunction
	KindOperator
	KindOperatorClass
	KindOperatorFamily
	KindType
)

type kindInfo struct {
	object   string // object keyword in ALTER EXTENSION ... ADD
	identity string // shape of the identity that follows it
}

var kindInfos = [...]kindInfo{
	KindUnknown:        {object: "UNKNOWN"},
	KindAggregate:      {object: "AGGREGATE", identity: "<name> (<args>)"},
	KindCast:           {object: "CAST", identity: "(<source> AS <target>)"},
	KindFunction:       {object: "FUNCTION", identity: "<name> (<args>)"},
	KindOperator:       {object: "OPERATOR", identity: "<op> (<leftarg>, <rightarg>)"},
	KindOperatorClass:  {object: "OPERATOR CLASS", identity: "<name> USING <method>"},
	KindOperatorFamily: {object: "OPERATOR FAMILY", identity: "<name> USING <method>"},
	KindType:           {object: "TYPE", identity: "<name>"},
}

// keywords maps the lower-cased word following CREATE [OR REPLACE] to a
// kind. Operator classes and families are reached through OPERATOR.
var keywords = map[string]Kind{
	"aggregate": KindAggregate,
	"cast":      KindCast,
	"function":  KindFunction,
	"operator":  KindOperator,
	"type":      KindType,
}

// LookupKind returns the kind for a CREATE keyword, case-insensitively.
// Unrecognised words return KindUnknown.
func LookupKind(word string) Kind {
	return keywords[strings.ToLower(word)]
}

// Kinds returns every supported kind in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, len(kindInfos)-1)
	for k := KindAggregate; int(k) < len(kindInfos); k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// String returns the SQL object keyword, e.g. "OPERATOR CLASS".
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindInfos) {
		return kindInfos[KindUnknown].object
	}
	return kindInfos[k].object
}

// IdentityForm describes the identity emitted after the object keyword.
func (k Kind) IdentityForm() string {
	if k < 0 || int(k) >= len(kindInfos) {
		return ""
	}
	return kindInfos[k].identity
}
