package core

// Forever disables the iteration limit of PollUntil
const Forever = 0

// HSEStartupTimeout bounds the HSE ready wait, in polls of RCC_CR
const HSEStartupTimeout = 0x0500

// PollUntil evaluates cond until it reports true or limit evaluations have
// been made. It returns the number of evaluations and whether cond was met.
// A limit of Forever never gives up.
func PollUntil(cond func() bool, limit uint32) (uint32, bool) {
	var n uint32
	for {
		n++
		if cond() {
			return n, true
		}
		if limit != Forever && n >= limit {
			return n, false
		}
	}
}

// waitBits polls reg until all bits in mask are set
func waitBits(reg Register32, mask uint32, limit uint32) (uint32, bool) {
	return PollUntil(func() bool {
		return reg.Get()&mask == mask
	}, limit)
}

// waitField polls reg until the field at pos equals value
func waitField(reg Register32, value, mask uint32, pos uint8, limit uint32) (uint32, bool) {
	return PollUntil(func() bool {
		return (reg.Get()>>pos)&mask == value
	}, limit)
}
