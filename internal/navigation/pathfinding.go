package navigation

import (
	"container/heap"

	lmath "github.com/Faultbox/runtime-landscape/pkg/math"
)

// pathNode is an A* search node.
type pathNode struct {
	x, y   int
	g      float32 // cost from start
	h      float32 // estimate to goal
	f      float32
	parent *pathNode
	index  int // position in the heap
}

type pathHeap []*pathNode

func (h pathHeap) Len() int           { return len(h) }
func (h pathHeap) Less(i, j int) bool { return h[i].f < h[j].f }
func (h pathHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *pathHeap) Push(x any) {
	n := x.(*pathNode)
	n.index = len(*h)
	*h = append(*h, n)
}

func (h *pathHeap) Pop() any {
	old := *h
	n := old[len(old)-1]
	old[len(old)-1] = nil
	n.index = -1
	*h = old[:len(old)-1]
	return n
}

const (
	straightCost = float32(1)
	diagonalCost = float32(1.414)
)

// 8-way neighbours; odd entries are diagonal.
var directions = [8][2]int{
	{0, 1}, {-1, 1}, {-1, 0}, {-1, -1},
	{0, -1}, {1, -1}, {1, 0}, {1, 1},
}

// FindPath returns the cells from start to goal, both included, or nil when
// the goal cannot be reached. Diagonal steps may not cut a blocked corner.
func (g *Grid) FindPath(startX, startY, goalX, goalY int) [][2]int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if !g.inBounds(startX, startY) || !g.walkableLocked(goalX, goalY) {
		return nil
	}

	open := &pathHeap{}
	closed := make(map[int]bool)
	nodes := make(map[int]*pathNode)

	start := &pathNode{x: startX, y: startY, h: heuristic(startX, startY, goalX, goalY)}
	start.f = start.h
	heap.Push(open, start)
	nodes[g.key(startX, startY)] = start

	for open.Len() > 0 {
		cur := heap.Pop(open).(*pathNode)
		if cur.x == goalX && cur.y == goalY {
			return reconstruct(cur)
		}
		closed[g.key(cur.x, cur.y)] = true

		for i, d := range directions {
			nx, ny := cur.x+d[0], cur.y+d[1]
			if !g.walkableLocked(nx, ny) || closed[g.key(nx, ny)] {
				continue
			}
			cost := straightCost
			if i%2 == 1 {
				if !g.walkableLocked(cur.x+d[0], cur.y) || !g.walkableLocked(cur.x, cur.y+d[1]) {
					continue
				}
				cost = diagonalCost
			}
			gScore := cur.g + cost

			n, seen := nodes[g.key(nx, ny)]
			switch {
			case !seen:
				n = &pathNode{x: nx, y: ny, g: gScore, h: heuristic(nx, ny, goalX, goalY), parent: cur}
				n.f = n.g + n.h
				nodes[g.key(nx, ny)] = n
				heap.Push(open, n)
			case gScore < n.g:
				n.g = gScore
				n.f = n.g + n.h
				n.parent = cur
				heap.Fix(open, n.index)
			}
		}
	}
	return nil
}

// FindWorldPath finds a path between two plane positions and returns the
// cell centres along it.
func (g *Grid) FindWorldPath(from, to lmath.Vec2) []lmath.Vec3 {
	sx, sy, ok := g.CellAt(from)
	if !ok {
		return nil
	}
	gx, gy, ok := g.CellAt(to)
	if !ok {
		return nil
	}
	cells := g.FindPath(sx, sy, gx, gy)
	if cells == nil {
		return nil
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]lmath.Vec3, len(cells))
	for i, c := range cells {
		out[i] = g.centerLocked(c[0], c[1])
	}
	return out
}

// heuristic is the octile distance.
func heuristic(x1, y1, x2, y2 int) float32 {
	dx := abs(x2 - x1)
	dy := abs(y2 - y1)
	if dx < dy {
		return float32(dx)*diagonalCost + float32(dy-dx)
	}
	return float32(dy)*diagonalCost + float32(dx-dy)
}

func reconstruct(n *pathNode) [][2]int {
	var path [][2]int
	for ; n != nil; n = n.parent {
		path = append(path, [2]int{n.x, n.y})
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
