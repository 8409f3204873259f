package utils

// Ptr returns a pointer to v. Handy for optional DTO fields.
func Ptr[T any](v T) *T {
	return &v
}
