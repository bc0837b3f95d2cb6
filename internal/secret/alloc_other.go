//go:build !linux

package secret

// Outside Linux the buffer lives on the Go heap. Close still zeroes it, but
// the runtime may have copied it earlier.
func alloc(size int) ([]byte, error) {
	return make([]byte, size), nil
}

func release([]byte) error {
	return nil
}
