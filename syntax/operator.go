package syntax

import "fmt"

// Operator is a primitive binary operation on numbers.
type Operator int

// The order matches the evaluator's operator numbering.
const (
	OpAdd Operator = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpAnd
	OpOr
	OpXor
	OpShl
	OpShr
	OpLtn
	OpLte
	OpEql
	OpGte
	OpGtn
	OpNeq
)

var operatorNames = [...]string{
	OpAdd: "add",
	OpSub: "sub",
	OpMul: "mul",
	OpDiv: "div",
	OpMod: "mod",
	OpAnd: "and",
	OpOr:  "or",
	OpXor: "xor",
	OpShl: "shl",
	OpShr: "shr",
	OpLtn: "ltn",
	OpLte: "lte",
	OpEql: "eql",
	OpGte: "gte",
	OpGtn: "gtn",
	OpNeq: "neq",
}

var operatorSymbols = [...]string{
	OpAdd: "+",
	OpSub: "-",
	OpMul: "*",
	OpDiv: "/",
	OpMod: "%",
	OpAnd: "&",
	OpOr:  "|",
	OpXor: "^",
	OpShl: "<<",
	OpShr: ">>",
	OpLtn: "<",
	OpLte: "<=",
	OpEql: "==",
	OpGte: ">=",
	OpGtn: ">",
	OpNeq: "!=",
}

// Operators lists every operator in numbering order.
func Operators() []Operator {
	ops := make([]Operator, len(operatorNames))
	for i := range operatorNames {
		ops[i] = Operator(i)
	}
	return ops
}

// Valid reports whether op is one of the declared operators.
func (op Operator) Valid() bool {
	return op >= OpAdd && int(op) < len(operatorNames)
}

// String returns the lower-case mnemonic, e.g. "add".
func (op Operator) String() string {
	if !op.Valid() {
		return fmt.Sprintf("Operator(%d)", int(op))
	}
	return operatorNames[op]
}

// Symbol returns the surface syntax of the operator, e.g. "+".
func (op Operator) Symbol() string {
	if !op.Valid() {
		return "?"
	}
	return operatorSymbols[op]
}

// ParseOperator accepts either the mnemonic ("add") or the symbol ("+").
func ParseOperator(s string) (Operator, error) {
	for i := range operatorNames {
		if operatorNames[i] == s || operatorSymbols[i] == s {
			return Operator(i), nil
		}
	}
	return OpAdd, fmt.Errorf("unrecognized operator: %s", s)
}
