package interpreter

import (
	"time"

	"lox/interpreter-go/pkg/runtime"
)

// Builtins returns the natives every interpreter starts with.
func Builtins() map[string]runtime.Callable {
	return map[string]runtime.Callable{
		"clock": runtime.NewNative("clock", 0, func(_ runtime.Evaluator, _ []runtime.Value) (runtime.Value, error) {
			return runtime.Number(float64(time.Now().UnixMilli()) / 1000.0), nil
		}),
	}
}
