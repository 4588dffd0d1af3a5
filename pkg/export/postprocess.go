package export

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	vlib "github.com/mcuadros/go-version"
)

// ErrPostProcess marks a failure of the external vector tool. The exported
// file is still valid when this is returned.
var ErrPostProcess = errors.New("post-process failed")

// PostProcessError carries the tool output for one file.
type PostProcessError struct {
	File   string
	Output string
	Err    error
}

func (e *PostProcessError) Error() string {
	msg := fmt.Sprintf("post-process %s: %v", e.File, e.Err)
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += ": " + out
	}
	return msg
}

func (e *PostProcessError) Unwrap() error { return e.Err }

func (e *PostProcessError) Is(target error) bool { return target == ErrPostProcess }

// Runner executes a command and returns its combined output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// ExecRunner runs commands with os/exec.
func ExecRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

var versionPattern = regexp.MustCompile(`(\d+\.\d+(?:\.\d+)*)`)

// PostProcessor fits the drawing area to the content with Inkscape.
type PostProcessor struct {
	Binary  string
	Version string
	run     Runner
}

// NewPostProcessor asks binary for its version. A nil runner uses
// ExecRunner.
func NewPostProcessor(ctx context.Context, binary string, run Runner) (*PostProcessor, error) {
	if binary == "" {
		binary = "inkscape"
	}
	if run == nil {
		run = ExecRunner
	}
	out, err := run(ctx, binary, "--version")
	if err != nil {
		return nil, &PostProcessError{File: binary, Output: string(out), Err: err}
	}
	version := versionPattern.FindString(string(out))
	if version == "" {
		return nil, &PostProcessError{File: binary, Output: string(out), Err: fmt.Errorf("cannot determine version")}
	}
	return &PostProcessor{Binary: binary, Version: version, run: run}, nil
}

// Args returns the command line that resizes file in place.
func (p *PostProcessor) Args(file string) []string {
	if vlib.CompareSimple(p.Version, "1.0") < 0 {
		return []string{"-z", "-D", "--export-plain-svg=" + file, file}
	}
	return []string{file, "-D", "-o", file}
}

// Process runs the tool on file.
func (p *PostProcessor) Process(ctx context.Context, file string) error {
	out, err := p.run(ctx, p.Binary, p.Args(file)...)
	if err != nil {
		return &PostProcessError{File: file, Output: string(out), Err: err}
	}
	return nil
}
