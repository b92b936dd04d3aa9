package common

// Bits is the set of fixed-width unsigned types used for flag masks.
type Bits interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// HasFlag tests mask against value. Loose mode succeeds when any bit of mask
// is present in value; strict mode requires every bit of mask.
func HasFlag[T Bits](value, mask T, strict bool) bool {
	if strict {
		return value&mask == mask
	}
	return value&mask != 0
}
