package tilecache

import "errors"

var (
	errNotObject    = errors.New("cache value is not an object")
	errUnknownShape = errors.New("cache value has no result fields")
)
