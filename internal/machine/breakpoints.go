package machine

import "sort"

// Breakpoints is a set of addresses that pause execution before the
// instruction at that address runs.
type Breakpoints struct {
	addrs map[uint16]struct{}
}

func newBreakpoints() *Breakpoints {
	return &Breakpoints{addrs: make(map[uint16]struct{})}
}

func (b *Breakpoints) Set(addr uint16) {
	b.addrs[addr] = struct{}{}
}

func (b *Breakpoints) Clear(addr uint16) {
	delete(b.addrs, addr)
}

func (b *Breakpoints) ClearAll() {
	clear(b.addrs)
}

// Toggle flips the breakpoint at addr and reports whether it is now set.
func (b *Breakpoints) Toggle(addr uint16) bool {
	if b.Has(addr) {
		b.Clear(addr)
		return false
	}
	b.Set(addr)
	return true
}

func (b *Breakpoints) Has(addr uint16) bool {
	_, ok := b.addrs[addr]
	return ok
}

func (b *Breakpoints) Len() int {
	return len(b.addrs)
}

// List returns the breakpoints in ascending order.
func (b *Breakpoints) List() []uint16 {
	out := make([]uint16, 0, len(b.addrs))
	for addr := range b.addrs {
		out = append(out, addr)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
