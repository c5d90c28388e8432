package game

import "container/heap"

// Per-line ordering of the member cells by their Weight (empty first), ties
// broken by the slot (position of the cell along the line). The heap holds
// slots only, the cells themselves live in the State's arena.
type lineIndex struct {
	members []int32 // slot -> cell index, fixed for the lifetime of the state
	heap    []int32 // binary heap of slots
	pos     []int32 // slot -> position in 'heap'
}

// Put every slot at its natural position, valid heap as long as all of the
// members have the same weight
func (li *lineIndex) resetOrder() {
	for slot := range li.heap {
		li.heap[slot] = int32(slot)
		li.pos[slot] = int32(slot)
	}
}

// Cell index with the lowest (weight, slot) key
func (li *lineIndex) peek() int32 {
	return li.members[li.heap[0]]
}

// Restore the heap property after the weight of the cell in 'slot' changed
func (li *lineIndex) fix(cells []Cell, slot int32) {
	heap.Fix(lineHeap{li: li, cells: cells}, int(li.pos[slot]))
}

// heap.Interface adapter, binds the index to the arena it orders
type lineHeap struct {
	li    *lineIndex
	cells []Cell
}

func (h lineHeap) Len() int {
	return len(h.li.heap)
}

func (h lineHeap) Less(i, j int) bool {
	si, sj := h.li.heap[i], h.li.heap[j]
	wi := h.cells[h.li.members[si]].Weight
	wj := h.cells[h.li.members[sj]].Weight
	if wi != wj {
		return wi < wj
	}
	return si < sj
}

func (h lineHeap) Swap(i, j int) {
	hp := h.li.heap
	hp[i], hp[j] = hp[j], hp[i]
	h.li.pos[hp[i]] = int32(i)
	h.li.pos[hp[j]] = int32(j)
}

// The set of members never changes, only their order does
func (h lineHeap) Push(any) {
	panic("[game] lineHeap: members are fixed, push is not supported")
}

func (h lineHeap) Pop() any {
	panic("[game] lineHeap: members are fixed, pop is not supported")
}

// Line membership of a single cell
type lineLink struct {
	line int32
	slot int32
}

type cellLinks struct {
	n     uint8
	links [4]lineLink
}

func (cl *cellLinks) add(line, slot int) {
	cl.links[cl.n] = lineLink{line: int32(line), slot: int32(slot)}
	cl.n++
}

func (cl *cellLinks) slice() []lineLink {
	return cl.links[:cl.n]
}
