package cell

// UserValue is implemented by user-defined types stored under the Custom tag.
// A UserValue is compared and copied through its own methods; operators are
// opted into by also implementing the capability interfaces below.
type UserValue interface {
	TypeName() string
	Equal(other UserValue) bool
	Clone() UserValue
}

// Adder is implemented by user types supporting +.
type Adder interface {
	Add(other UserValue) (UserValue, error)
}

// Subtractor is implemented by user types supporting -.
type Subtractor interface {
	Sub(other UserValue) (UserValue, error)
}

// Multiplier is implemented by user types supporting *.
type Multiplier interface {
	Mul(other UserValue) (UserValue, error)
}

// Divider is implemented by user types supporting /.
type Divider interface {
	Div(other UserValue) (UserValue, error)
}

// Lesser is implemented by user types with an ordering.
type Lesser interface {
	Less(other UserValue) bool
}

// Negator is implemented by user types supporting unary -.
type Negator interface {
	Neg() (UserValue, error)
}

// Stringer lets a user type control how it is rendered. Types without it
// are rendered by their TypeName.
type Stringer interface {
	String() string
}

// sameUserType reports whether two user values may be combined.
func sameUserType(a, b UserValue) bool {
	return a.TypeName() == b.TypeName()
}
