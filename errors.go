package loaded

import "errors"

var (
	ErrSymbolsReleased = errors.New("symbols handle released")
	ErrMapTarget       = errors.New("struct map target must be a non-nil pointer to struct")
	ErrMapFieldType    = errors.New("struct map field type unsupported")
)
