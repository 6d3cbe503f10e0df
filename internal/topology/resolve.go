package topology

import "buildlab/internal/domain"

// Predicate reports whether a computer satisfies some condition
type Predicate func(computerID string) bool

// ResolveComputerFor picks the computer a display reflects. Order:
//  1. a cabled computer that satisfies ready
//  2. the first cabled computer
//  3. the first computer in the lab that satisfies ready
//  4. the first computer in the lab
//
// It returns "" when the lab has no computers. Steps 3 and 4 can pick an
// unrelated computer when several unlinked ones exist.
func ResolveComputerFor(displayID string, s *Store, ready Predicate) string {
	var firstLinked string
	for _, id := range s.neighbors(displayID) {
		n := s.nodes[id]
		if !n.IsComputer() {
			continue
		}
		if ready(id) {
			return id
		}
		if firstLinked == "" {
			firstLinked = id
		}
	}
	if firstLinked != "" {
		return firstLinked
	}
	return firstComputer(s, ready)
}

// ResolveComputerForRouter walks the cable graph breadth-first from the
// router and returns the first computer reached that satisfies ready,
// falling back to the first such computer in the lab. It returns "" when
// no computer satisfies ready.
func ResolveComputerForRouter(routerID string, s *Store, ready Predicate) string {
	visited := map[string]bool{routerID: true}
	queue := []string{routerID}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, next := range s.neighbors(id) {
			if visited[next] {
				continue
			}
			visited[next] = true
			if s.nodes[next].IsComputer() && ready(next) {
				return next
			}
			queue = append(queue, next)
		}
	}

	for _, id := range s.order {
		if s.nodes[id].IsComputer() && ready(id) {
			return id
		}
	}
	return ""
}

// AnyComputer reports whether some computer in the lab satisfies ready
func AnyComputer(s *Store, ready Predicate) bool {
	for _, id := range s.order {
		if s.nodes[id].Kind == domain.KindComputer && ready(id) {
			return true
		}
	}
	return false
}

func firstComputer(s *Store, ready Predicate) string {
	var first string
	for _, id := range s.order {
		if !s.nodes[id].IsComputer() {
			continue
		}
		if ready(id) {
			return id
		}
		if first == "" {
			first = id
		}
	}
	return first
}
