/*
 * exclusions.go, part of openff-interchange.
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 */

package interchange

import "sort"

// Exclusions classifies atom pairs by bond-path distance, the input to
// every engine's nonbonded setup: 1-2 and 1-3 pairs are excluded, 1-4
// pairs are scaled. A pair connected by both a short and a long path
// lands in the stricter class.
type Exclusions struct {
	//Excluded holds the 1-2 and 1-3 pairs, lower index first.
	Excluded [][2]int
	//Scaled holds the 1-4 pairs, lower index first.
	Scaled [][2]int
}

// ExclusionPairs walks the bond graph and classifies every pair up to
// three bonds apart.
func (t *Topology) ExclusionPairs() Exclusions {
	adj := t.Bonded()
	//dist[j] = minimal bond count from i to j, tracked up to 3
	var ex Exclusions
	for i := 0; i < t.Len(); i++ {
		dist := map[int]int{i: 0}
		frontier := []int{i}
		for d := 1; d <= 3; d++ {
			var next []int
			for _, a := range frontier {
				for _, b := range adj[a] {
					if _, seen := dist[b]; !seen {
						dist[b] = d
						next = append(next, b)
					}
				}
			}
			frontier = next
		}
		for j, d := range dist {
			if j <= i {
				continue
			}
			switch d {
			case 1, 2:
				ex.Excluded = append(ex.Excluded, [2]int{i, j})
			case 3:
				ex.Scaled = append(ex.Scaled, [2]int{i, j})
			}
		}
	}
	sortPairs(ex.Excluded)
	sortPairs(ex.Scaled)
	return ex
}

func sortPairs(p [][2]int) {
	sort.Slice(p, func(a, b int) bool {
		if p[a][0] != p[b][0] {
			return p[a][0] < p[b][0]
		}
		return p[a][1] < p[b][1]
	})
}
