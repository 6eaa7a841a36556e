package compiler

import "github.com/ezachrisen/kindcore/hvm"

// keptSlots is how many leading slots of a lifted spine stay in place. They
// hold the name and range of ctr/fun nodes, so the checker program can match
// them without unpacking.
const keptSlots = 2

// liftSpine bounds a spine to hvm.MaxArity slots. A longer spine keeps its
// first two slots and moves the tail into an args constructor named after
// the number of slots it holds.
func liftSpine(spine []hvm.Term) []hvm.Term {
	if len(spine) <= hvm.MaxArity {
		return spine
	}
	lifted := make([]hvm.Term, 0, keptSlots+1)
	lifted = append(lifted, spine[:keptSlots]...)
	return append(lifted, packArgs(spine[keptSlots:]))
}

// packArgs builds args{K} for K slots. When K exceeds the arity bound the
// constructor holds the first MaxArity-1 slots and nests the rest in its
// last field.
func packArgs(slots []hvm.Term) hvm.Term {
	if len(slots) <= hvm.MaxArity {
		return hvm.NewCtr(ArgsTag(len(slots)), slots...)
	}
	head := make([]hvm.Term, 0, hvm.MaxArity)
	head = append(head, slots[:hvm.MaxArity-1]...)
	head = append(head, packArgs(slots[hvm.MaxArity-1:]))
	return hvm.NewCtr(ArgsTag(len(slots)), head...)
}

func liftedCtr(name string, spine ...hvm.Term) *hvm.Ctr {
	return hvm.NewCtr(name, liftSpine(spine)...)
}
