/*
 * file.go, part of openff-interchange.
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

//file.go adds the filesystem layer: a .zst suffix selects transparent
//zstd compression, anything else is plain JSON.

package serial

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"

	interchange "github.com/jgullingsrud/openff-interchange"
	"github.com/jgullingsrud/openff-interchange/report"
)

func compressed(path string) bool {
	return strings.HasSuffix(path, ".zst")
}

// save funnels any encoder through the optional compression layer. The
// file is closed exactly once; a close failure surfaces unless an
// earlier error already did.
func save(path string, encode func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("serial: can't create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("serial: can't close %s: %w", path, cerr)
		}
	}()
	var w io.Writer = f
	var z *zstd.Encoder
	if compressed(path) {
		z, err = zstd.NewWriter(f)
		if err != nil {
			return fmt.Errorf("serial: can't start compressor: %w", err)
		}
		w = z
	}
	if err := encode(w); err != nil {
		if z != nil {
			z.Close()
		}
		return err
	}
	if z != nil {
		if err := z.Close(); err != nil {
			return fmt.Errorf("serial: can't flush compressor: %w", err)
		}
	}
	return nil
}

func load(path string, decode func(io.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("serial: can't open %s: %w", path, err)
	}
	defer f.Close()
	var r io.Reader = f
	if compressed(path) {
		z, err := zstd.NewReader(f)
		if err != nil {
			return fmt.Errorf("serial: can't start decompressor: %w", err)
		}
		defer z.Close()
		r = z
	}
	return decode(r)
}

// SaveSystem writes sys to path, zstd-compressed when the name ends in
// .zst.
func SaveSystem(path string, sys *interchange.System) error {
	return save(path, func(w io.Writer) error { return EncodeSystem(w, sys) })
}

// LoadSystem reads a system document from path. reg may be nil for the
// built-in handler classes.
func LoadSystem(path string, reg *interchange.Registry) (*interchange.System, error) {
	var sys *interchange.System
	err := load(path, func(r io.Reader) error {
		var e error
		sys, e = DecodeSystem(r, reg)
		return e
	})
	return sys, err
}

// SaveReport writes an energy report to path, compressed by extension
// like SaveSystem.
func SaveReport(path string, rep *report.Report) error {
	return save(path, func(w io.Writer) error { return EncodeReport(w, rep) })
}

// LoadReport reads an energy report document from path.
func LoadReport(path string) (*report.Report, error) {
	var rep *report.Report
	err := load(path, func(r io.Reader) error {
		var e error
		rep, e = DecodeReport(r)
		return e
	})
	return rep, err
}
