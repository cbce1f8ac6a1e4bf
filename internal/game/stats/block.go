package stats

import "fmt"

// Block is the eleven-field combat stat block derived from base attributes.
type Block struct {
	PhysicalAttack  int
	PhysicalDefense int
	MentalAttack    int
	MentalDefense   int
	SocialAttack    int
	SocialDefense   int
	Accuracy        int
	Evasion         int
	Speed           int
	AilmentAttack   int
	AilmentDefense  int
}

// field returns a pointer to the Block field for s.
//
// Precondition: s.Valid(); panics otherwise.
func (b *Block) field(s Stat) *int {
	switch s {
	case PhysicalAttack:
		return &b.PhysicalAttack
	case PhysicalDefense:
		return &b.PhysicalDefense
	case MentalAttack:
		return &b.MentalAttack
	case MentalDefense:
		return &b.MentalDefense
	case SocialAttack:
		return &b.SocialAttack
	case SocialDefense:
		return &b.SocialDefense
	case Accuracy:
		return &b.Accuracy
	case Evasion:
		return &b.Evasion
	case Speed:
		return &b.Speed
	case AilmentAttack:
		return &b.AilmentAttack
	case AilmentDefense:
		return &b.AilmentDefense
	}
	panic(fmt.Sprintf("stats: unknown stat %q", s))
}

// Get returns the value of s.
func (b Block) Get(s Stat) int {
	return *b.field(s)
}

// With returns a copy of b with s set to v.
func (b Block) With(s Stat, v int) Block {
	*b.field(s) = v
	return b
}

// Apply returns a copy of b with every delta in mods added.
func (b Block) Apply(mods Modifiers) Block {
	for s, v := range mods {
		*b.field(s) += v
	}
	return b
}

// ApplyFloored is Apply with every field raised to at least minimum afterwards.
func (b Block) ApplyFloored(mods Modifiers, minimum int) Block {
	b = b.Apply(mods)
	for _, s := range All {
		if f := b.field(s); *f < minimum {
			*f = minimum
		}
	}
	return b
}
