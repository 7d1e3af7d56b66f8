package result

// Query is the uniform envelope returned by every read operation.
type Query[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
	// ClearCache evicts the entry this result was cached under. Nil when the query was not cached.
	ClearCache func() `json:"-"`
}

// Mutation is the uniform envelope returned by every write operation.
type Mutation[T any] struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
	Data    T      `json:"data,omitempty"`
}

// OK wraps data in a successful query envelope.
func OK[T any](data T) Query[T] {
	return Query[T]{Success: true, Data: data}
}

// Fail builds a failed query envelope.
func Fail[T any](message, code string) Query[T] {
	return Query[T]{Success: false, Error: message, Code: code}
}

// ToMutation converts a query envelope into the write-side shape.
func ToMutation[T any](q Query[T]) Mutation[T] {
	return Mutation[T]{Success: q.Success, Error: q.Error, Code: q.Code, Data: q.Data}
}

// MutationFail builds a failed mutation envelope.
func MutationFail[T any](message, code string) Mutation[T] {
	return Mutation[T]{Success: false, Error: message, Code: code}
}
