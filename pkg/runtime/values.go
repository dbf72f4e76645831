package runtime

import (
	"fmt"
	"io"
	"math"
	"strconv"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindNumber Kind = iota
	KindString
	KindBool
	KindNil
	KindFunction
	KindNativeFunction
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindNil:
		return "nil"
	case KindFunction:
		return "function"
	case KindNativeFunction:
		return "native_function"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values.
type Value interface {
	Kind() Kind
}

//-----------------------------------------------------------------------------
// Scalars
//-----------------------------------------------------------------------------

type NumberValue struct {
	Val float64
}

func (v NumberValue) Kind() Kind { return KindNumber }

type StringValue struct {
	Val string
}

func (v StringValue) Kind() Kind { return KindString }

type BoolValue struct {
	Val bool
}

func (v BoolValue) Kind() Kind { return KindBool }

type NilValue struct{}

func (NilValue) Kind() Kind { return KindNil }

// Nil is the shared nil value.
var Nil Value = NilValue{}

// Number, String and Bool are shorthand constructors.
func Number(v float64) NumberValue { return NumberValue{Val: v} }
func String(v string) StringValue  { return StringValue{Val: v} }
func Bool(v bool) BoolValue        { return BoolValue{Val: v} }

//-----------------------------------------------------------------------------
// Callables
//-----------------------------------------------------------------------------

// Evaluator is the slice of the interpreter that callables may use.
type Evaluator interface {
	Globals() *Environment
	Stdout() io.Writer
}

// Callable is satisfied by user functions and host-provided natives alike.
type Callable interface {
	Value
	Arity() int
	Call(ev Evaluator, args []Value) (Value, error)
}

type NativeFunc func(ev Evaluator, args []Value) (Value, error)

// NativeFunctionValue wraps a host function. It is compared by identity.
type NativeFunctionValue struct {
	Name   string
	Params int
	Impl   NativeFunc
}

// NewNative builds a native callable with the given arity.
func NewNative(name string, arity int, impl NativeFunc) *NativeFunctionValue {
	return &NativeFunctionValue{Name: name, Params: arity, Impl: impl}
}

func (v *NativeFunctionValue) Kind() Kind { return KindNativeFunction }

func (v *NativeFunctionValue) Arity() int { return v.Params }

func (v *NativeFunctionValue) Call(ev Evaluator, args []Value) (Value, error) {
	if v.Impl == nil {
		return nil, fmt.Errorf("native function %s has no implementation", v.Name)
	}
	return v.Impl(ev, args)
}

func (v *NativeFunctionValue) String() string {
	return fmt.Sprintf("<native fn %s>", v.Name)
}

//-----------------------------------------------------------------------------
// Utility helpers
//-----------------------------------------------------------------------------

// ValuesEqual implements structural equality. Values of different kinds are
// never equal; callables compare by identity.
func ValuesEqual(left, right Value) bool {
	switch l := left.(type) {
	case NumberValue:
		r, ok := right.(NumberValue)
		return ok && l.Val == r.Val
	case StringValue:
		r, ok := right.(StringValue)
		return ok && l.Val == r.Val
	case BoolValue:
		r, ok := right.(BoolValue)
		return ok && l.Val == r.Val
	case NilValue:
		_, ok := right.(NilValue)
		return ok
	case nil:
		return right == nil
	default:
		if _, ok := left.(Callable); ok {
			return left == right
		}
		return false
	}
}

// Stringify renders a value the way print shows it.
func Stringify(val Value) string {
	switch v := val.(type) {
	case NumberValue:
		return FormatNumber(v.Val)
	case StringValue:
		return v.Val
	case BoolValue:
		if v.Val {
			return "true"
		}
		return "false"
	case NilValue, nil:
		return "nil"
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("<%s>", val.Kind())
	}
}

// FormatNumber prints the shortest decimal form, without exponent for
// ordinary magnitudes.
func FormatNumber(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case math.IsNaN(f):
		return "NaN"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
