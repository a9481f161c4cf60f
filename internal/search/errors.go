package search

// ErrorKind classifies a search failure.
type ErrorKind string

const (
	// KindInvalidArgument means the query was empty or blank. No call was made.
	KindInvalidArgument ErrorKind = "invalid_argument"
	// KindNotFound means the call succeeded but matched nothing.
	KindNotFound ErrorKind = "not_found"
	// KindNetwork means the call failed, returned a non-success status, or had no body.
	KindNetwork ErrorKind = "network"
)

// Valid reports whether k is one of the known kinds.
func (k ErrorKind) Valid() bool {
	switch k {
	case KindInvalidArgument, KindNotFound, KindNetwork:
		return true
	}
	return false
}

// Error is a search failure as stored in State. It is a plain value so that State can be
// saved and restored.
type Error struct {
	Kind    ErrorKind
	Message string
}

// Sentinels for errors.Is. Only the Kind is compared.
var (
	ErrInvalidArgument = &Error{Kind: KindInvalidArgument}
	ErrNotFound        = &Error{Kind: KindNotFound}
	ErrNetwork         = &Error{Kind: KindNetwork}
)

func (e *Error) Error() string {
	return e.Message
}

// Is matches any *Error of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func invalidArgument(msg string) *Error {
	return &Error{Kind: KindInvalidArgument, Message: msg}
}

func notFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func networkError(msg string) *Error {
	return &Error{Kind: KindNetwork, Message: msg}
}
