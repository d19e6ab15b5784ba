/*
 * plot.go, part of openff-interchange.
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

package report

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/jgullingsrud/openff-interchange/unit"
)

// PlotDifferences renders the per-label difference a-b as a bar chart and
// saves it to filename (format chosen by extension, e.g. .png or .svg).
// Meant for eyeballing which term disagrees after a failed comparison.
func PlotDifferences(a, b *Report, title, filename string) error {
	diff, err := a.Sub(b)
	if err != nil {
		return err
	}
	p := plot.New()
	p.Title.Text = title
	p.Title.Padding = 3 * vg.Millimeter
	p.Y.Label.Text = "ΔE (kJ/mol)"

	values := make(plotter.Values, 0, len(diff.labels))
	names := make([]string, 0, len(diff.labels))
	for _, l := range diff.labels {
		values = append(values, diff.values[l].MustIn(unit.KJMol))
		names = append(names, string(l))
	}
	bars, err := plotter.NewBarChart(values, vg.Points(25))
	if err != nil {
		return fmt.Errorf("report: can't build bar chart: %w", err)
	}
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.NominalX(names...)
	if err := p.Save(14*vg.Centimeter, 10*vg.Centimeter, filename); err != nil {
		return fmt.Errorf("report: can't save plot %s: %w", filename, err)
	}
	return nil
}
