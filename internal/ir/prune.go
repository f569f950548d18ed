package ir

// Prune removes the blocks of fn that cannot be reached from its entry
// block and reports whether anything was removed
func Prune(fn *Function) bool {
	if len(fn.Blocks) == 0 {
		return false
	}

	reachable := make(map[*BasicBlock]bool)
	markReachable(fn.Blocks[0], reachable)

	kept := fn.Blocks[:0:0]
	for _, block := range fn.Blocks {
		if reachable[block] {
			kept = append(kept, block)
		}
	}

	if len(kept) == len(fn.Blocks) {
		return false
	}
	fn.Blocks = kept
	return true
}

func markReachable(block *BasicBlock, reachable map[*BasicBlock]bool) {
	if block == nil || reachable[block] {
		return
	}
	reachable[block] = true

	for _, succ := range block.Successors() {
		markReachable(succ, reachable)
	}
}
