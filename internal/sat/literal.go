package sat

import "fmt"

// Var identifies a boolean variable. Variables are created monotonically via
// (*Solver).AddVariable and are never destroyed.
type Var int32

// NoVar is the sentinel value for "no variable", used where a variable
// reference is optional.
const NoVar Var = -1

// Literal represents a literal, which either represent a boolean variable or
// its negation. It is encoded as 2*v+sign so that negation is XOR-with-1 and
// the literal itself indexes arrays directly.
type Literal int32

// NoLiteral is the sentinel "undefined literal".
const NoLiteral Literal = -1

// PositiveLiteral returns the positive literal of variable v.
func PositiveLiteral(v Var) Literal {
	return Literal(v) << 1
}

// NegativeLiteral returns the negative literal of variable v.
func NegativeLiteral(v Var) Literal {
	return PositiveLiteral(v) ^ 1
}

// Var returns the variable underlying the literal.
func (l Literal) Var() Var {
	return Var(l >> 1)
}

// IsPositive returns true if and only if the literal represent the value of
// its boolean variable (i.e. not its negation)
func (l Literal) IsPositive() bool {
	return l&1 == 0
}

// Opposite returns the opposite literal.
func (l Literal) Opposite() Literal {
	return l ^ 1
}

func (l Literal) String() string {
	if l == NoLiteral {
		return "<undef>"
	}
	if l.IsPositive() {
		return fmt.Sprintf("%d", l.Var())
	}
	return fmt.Sprintf("-%d", l.Var())
}
