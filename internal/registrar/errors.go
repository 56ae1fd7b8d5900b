package registrar

import "fmt"

// UnsupportedTypeError is raised when a PostgreSQL type's kind isn't one of
// the four supported shapes (array/domain/composite/enum), or when an
// array-of-array, pseudo-type, or range type is encountered - spec.md
// §4.1 "Failure".
type UnsupportedTypeError struct {
	OID  uint32
	Name string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("registrar: unsupported type %q (oid %d)", e.Name, e.OID)
}
