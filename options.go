package indexmap

type options[K comparable] struct {
	hashFunc HashFunc[K]
	capacity int
}

type Option[K comparable] func(o *options[K])

// Override default hash function.
func WithHashFunc[K comparable](f HashFunc[K]) Option[K] {
	return func(o *options[K]) {
		o.hashFunc = f
	}
}

// WithCapacity sets the initial capacity hint of the constructors that do
// not take one, such as MapFromSeq.
func WithCapacity[K comparable](n int) Option[K] {
	return func(o *options[K]) {
		o.capacity = n
	}
}
