package chain

// Unsigned is the set of word widths a Bitflag can live in
type Unsigned interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Bitflag is a single boolean inside a word
type Bitflag[W Unsigned] struct {
	Chain PointerChain[W]
	Mask  W
}

func NewBitflag[W Unsigned](c PointerChain[W], mask W) Bitflag[W] {
	return Bitflag[W]{Chain: c, Mask: mask}
}

// Get reports the flag; ok is false when the word cannot be read
func (b Bitflag[W]) Get() (value bool, ok bool) {
	w, ok := b.Chain.Read()
	if !ok {
		return false, false
	}
	return w&b.Mask != 0, true
}

// Set reads the word, sets or clears the mask bits and writes it back
func (b Bitflag[W]) Set(value bool) bool {
	w, ok := b.Chain.Read()
	if !ok {
		return false
	}
	if value {
		w |= b.Mask
	} else {
		w &^= b.Mask
	}
	return b.Chain.Write(w)
}

// Toggle reads the word, flips the mask bits and writes it back
func (b Bitflag[W]) Toggle() bool {
	w, ok := b.Chain.Read()
	if !ok {
		return false
	}
	return b.Chain.Write(w ^ b.Mask)
}
