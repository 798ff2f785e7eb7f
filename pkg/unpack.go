package evt

// UnpackNFirst splits seq into its first n elements and the remaining tail.
//
// If seq is shorter than n the missing leading elements are left as zero
// values and found reports how many were actually taken from seq. It never
// fails on short input, callers check the tail length when a row must have an
// exact shape. The tail shares its backing array with seq.
func UnpackNFirst[T any](seq []T, n int) (first []T, rest []T, found int) {
	if n < 0 {
		n = 0
	}
	first = make([]T, n)
	found = copy(first, seq)
	rest = seq[found:]
	return first, rest, found
}
