package utils

// Ptr returns a pointer to a copy of v, for optional fields in wire structs.
//
//	cfg.Temperature = utils.Ptr(0.2)
func Ptr[T any](v T) *T {
	return &v
}
