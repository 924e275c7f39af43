package typeexpr

//go:generate go tool stringer -type=Kind -output=kind_string.go

// Kind discriminates the variants of a type expression.
type Kind int

const (
	KindInvalid Kind = iota

	KindConcrete      // ground Go type carried as reflect.Type
	KindClass         // named, possibly generic type descriptor (raw type)
	KindVariable      // type parameter
	KindParameterized // raw type plus ordered type arguments
	KindWildcard      // bounded unknown, only ever nested inside arguments
	KindArray         // element expression, covers slices and arrays
	KindAny           // universal top type

	// KindTotal is a constant that represents the total number of kinds defined
	KindTotal = int(iota)
)
