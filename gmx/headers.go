/*
 * headers.go, part of openff-interchange.
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

package gmx

import "regexp"

// topHeader recognizes the '[ section ]' headers of a GROMACS topology.
type topHeader struct {
	wany *regexp.Regexp
	spec map[string]*regexp.Regexp
}

func newTopHeader() *topHeader {
	h := new(topHeader)
	h.wany = regexp.MustCompile(`\[\p{Zs}*.*\p{Zs}*\]`)
	h.spec = map[string]*regexp.Regexp{
		"defaults":     regexp.MustCompile(`\[\p{Zs}*defaults\p{Zs}*\]`),
		"atomtypes":    regexp.MustCompile(`\[\p{Zs}*atomtypes\p{Zs}*\]`),
		"moleculetype": regexp.MustCompile(`\[\p{Zs}*moleculetype\p{Zs}*\]`),
		"atoms":        regexp.MustCompile(`\[\p{Zs}*atoms\p{Zs}*\]`),
		"bonds":        regexp.MustCompile(`\[\p{Zs}*bonds\p{Zs}*\]`),
		"angles":       regexp.MustCompile(`\[\p{Zs}*angles\p{Zs}*\]`),
		"dihedrals":    regexp.MustCompile(`\[\p{Zs}*dihedrals\p{Zs}*\]`),
		"pairs":        regexp.MustCompile(`\[\p{Zs}*pairs\p{Zs}*\]`),
		"exclusions":   regexp.MustCompile(`\[\p{Zs}*exclusions\p{Zs}*\]`),
		"vsitesn":      regexp.MustCompile(`\[\p{Zs}*virtual_sitesn\p{Zs}*\]`),
		"system":       regexp.MustCompile(`\[\p{Zs}*system\p{Zs}*\]`),
		"molecules":    regexp.MustCompile(`\[\p{Zs}*molecules\p{Zs}*\]`),
	}
	return h
}

// Is returns true if the line is a section header, comments discarded.
func (h *topHeader) Is(line string) bool {
	return h.wany.MatchString(cleanString(line))
}

// Which returns the name of the section the line opens, or an empty
// string for headers this package does not know.
func (h *topHeader) Which(line string) string {
	line = cleanString(line)
	if !h.wany.MatchString(line) {
		return ""
	}
	for k, v := range h.spec {
		if v.MatchString(line) {
			return k
		}
	}
	return ""
}
