// Package asm is the per-file driver: it glues macro expansion, the first
// pass, the relocation step, the second pass, and the output writer into
// the single entry point shared by the CLI, the live-progress API server,
// and the desktop GUI.
package asm

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/mtassembler/imac/firstpass"
	"github.com/mtassembler/imac/macro"
	"github.com/mtassembler/imac/secondpass"
	"github.com/mtassembler/imac/writer"
)

// Stage names reported through Options.Progress.
const (
	StageMacro      = "macro-expand"
	StageFirstPass  = "first-pass"
	StageRelocation = "relocation"
	StageSecondPass = "second-pass"
	StageWrite      = "write"
	StageDone       = "done"
	StageFailed     = "failed"
)

// Event is one step of progress through a single file's assembly, used by
// the API broadcaster and any other caller that wants to observe a run in
// flight rather than just its final result.
type Event struct {
	File    string
	Stage   string
	Message string
}

// Options configures a single AssembleFile call.
type Options struct {
	// KeepAM persists the macro-expanded <base>.am file to disk instead of
	// holding it only in memory.
	KeepAM bool
	// Limits bounds the code/data image capacity and sets the starting
	// instruction counter, the [limits] section of configuration.
	Limits firstpass.Limits
	// OutputDir, when non-empty, is where <base>.ob/.ent/.ext are written
	// instead of alongside the source file; the [output] section's
	// directory knob.
	OutputDir string
	// Progress, if non-nil, is called at the start of each stage.
	Progress func(Event)
}

// DefaultOptions returns Options with the component design's default
// limits: do not keep the .am file, write output alongside the source,
// report no progress.
func DefaultOptions() Options {
	return Options{Limits: firstpass.DefaultLimits()}
}

func (o Options) report(file, stage, message string) {
	if o.Progress != nil {
		o.Progress(Event{File: file, Stage: stage, Message: message})
	}
}

// AssembleFile runs the full pipeline for one base name: reads
// <base>.as, expands macros, runs both passes, and writes <base>.ob (plus
// <base>.ent/<base>.ext when non-empty). It returns the completed
// firstpass.Result so callers (the inspect TUI, the xref tool) can inspect
// the final symbol table and images without re-running the pipeline.
func AssembleFile(base string, opts Options) (*firstpass.Result, error) {
	srcPath := base + ".as"
	amPath := base + ".am"

	content, err := os.ReadFile(srcPath) // #nosec G304 -- CLI-provided base name
	if err != nil {
		opts.report(srcPath, StageFailed, err.Error())
		return nil, err
	}
	lines := splitLines(string(content))

	opts.report(srcPath, StageMacro, "expanding macros")
	expanded, err := macro.Expand(srcPath, lines)
	if err != nil {
		opts.report(srcPath, StageFailed, err.Error())
		return nil, err
	}

	if opts.KeepAM {
		if err := os.WriteFile(amPath, []byte(strings.Join(expanded, "\n")+"\n"), 0o644); err != nil { // #nosec G306 -- generated intermediate, not secret
			opts.report(amPath, StageFailed, err.Error())
			return nil, err
		}
	}

	limits := opts.Limits
	if limits == (firstpass.Limits{}) {
		limits = firstpass.DefaultLimits()
	}

	opts.report(amPath, StageFirstPass, "running first pass")
	result, err := firstpass.RunWithLimits(amPath, expanded, limits)
	if err != nil {
		opts.report(amPath, StageFailed, err.Error())
		return nil, err
	}

	opts.report(amPath, StageRelocation, "relocating data symbols")
	result.Symbols.RelocateData(result.ICFinal)

	opts.report(amPath, StageSecondPass, "running second pass")
	if err := secondpass.Run(amPath, expanded, result); err != nil {
		opts.report(amPath, StageFailed, err.Error())
		return nil, err
	}

	outBase := base
	if opts.OutputDir != "" {
		outBase = filepath.Join(opts.OutputDir, filepath.Base(base))
	}

	opts.report(base, StageWrite, "writing output files")
	if err := writer.WriteAll(outBase, result); err != nil {
		opts.report(base, StageFailed, err.Error())
		return nil, err
	}

	opts.report(base, StageDone, "assembly complete")
	return result, nil
}

func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	lines := strings.Split(s, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
