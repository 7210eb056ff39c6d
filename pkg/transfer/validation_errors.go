package transfer

import "fmt"

// SizeMismatchError indicates the source changed size between Head and the
// read, typically because it was still being written.
type SizeMismatchError struct {
	Key      string
	Expected int64
	Got      int64
}

func (e *SizeMismatchError) Error() string {
	return fmt.Sprintf("source size changed during copy of %s: expected=%d got=%d", e.Key, e.Expected, e.Got)
}
