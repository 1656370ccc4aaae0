package httpapi

// Result is the JSON envelope of every API response.
// - code: ResultSuccess on success, ResultError otherwise
// - type: "success" | "error"
// - result: payload, or field errors for rejected input
type Result[T any] struct {
	Code    int    `json:"code"`
	Type    string `json:"type"`
	Message string `json:"message"`
	Result  T      `json:"result"`
}

const (
	ResultSuccess = 2000
	ResultError   = -1
)

func Ok[T any](result T) Result[T] {
	return Result[T]{Code: ResultSuccess, Type: "success", Message: "ok", Result: result}
}

func Fail(message string) Result[any] {
	return Result[any]{Code: ResultError, Type: "error", Message: message, Result: nil}
}

// FailWith is Fail carrying a payload, used for per-field validation errors.
func FailWith[T any](message string, result T) Result[T] {
	return Result[T]{Code: ResultError, Type: "error", Message: message, Result: result}
}
