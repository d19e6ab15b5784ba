/*
 * exec.go, part of openff-interchange.
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

//exec.go holds the plumbing shared by the engine drivers: scratch
//directories and subprocess runs bounded by a context.

package drivers

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	interchange "github.com/jgullingsrud/openff-interchange"
)

// scratchDir creates the working directory for one engine run and
// returns it with a cleanup function honoring opts.KeepFiles.
func scratchDir(engine string, opts Options) (string, func(), error) {
	dir, err := os.MkdirTemp("", "interchange-"+strings.ToLower(engine)+"-")
	if err != nil {
		return "", nil, fmt.Errorf("drivers: can't create scratch directory: %w", err)
	}
	cleanup := func() {
		if opts.KeepFiles {
			if opts.Logger != nil {
				opts.Logger.Info("keeping engine scratch directory", "dir", dir)
			}
			return
		}
		os.RemoveAll(dir)
	}
	return dir, cleanup, nil
}

// runCommand executes one engine subprocess in dir. Deadline and
// cancellation surface as *interchange.EngineTimeoutError, a nonzero
// exit as *interchange.EngineEvaluationError carrying the output tail.
func runCommand(ctx context.Context, engine, dir string, opts Options, name string, args ...string) error {
	start := time.Now()
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	if opts.Logger != nil {
		opts.Logger.Debug("engine subprocess finished",
			"engine", engine, "cmd", name, "elapsed", time.Since(start), "err", err)
	}
	if ctx.Err() != nil {
		return &interchange.EngineTimeoutError{Engine: engine, Elapsed: time.Since(start)}
	}
	if err != nil {
		return &interchange.EngineEvaluationError{
			Engine: engine,
			Detail: sf("%s %s failed: %s", name, strings.Join(args, " "), outputTail(out.String())),
			Err:    err,
		}
	}
	return nil
}

// outputTail keeps the last few lines of engine output, where the
// actionable error message usually sits.
func outputTail(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	const keep = 8
	if len(lines) > keep {
		lines = lines[len(lines)-keep:]
	}
	return strings.Join(lines, " | ")
}

var sf = fmt.Sprintf
