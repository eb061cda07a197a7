// Package prof wraps runtime/pprof for the --cpu-profile and --mem-profile
// flags of long reviews over large mission repositories.
package prof

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
)

// Options names the output files; empty paths disable that profile.
type Options struct {
	CPU string
	Mem string
}

// Session is an active profiling run.
type Session struct {
	opts    Options
	cpuFile *os.File
	stopped bool
}

// Start begins CPU profiling when requested.
func Start(opts Options) (*Session, error) {
	s := &Session{opts: opts}
	if opts.CPU == "" {
		return s, nil
	}
	f, err := os.Create(opts.CPU)
	if err != nil {
		return nil, fmt.Errorf("failed to create cpu profile: %w", err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to start cpu profile: %w", err)
	}
	s.cpuFile = f
	return s, nil
}

// Stop ends the CPU profile and writes the heap profile. Later calls are no-ops.
func (s *Session) Stop() error {
	if s == nil || s.stopped {
		return nil
	}
	s.stopped = true
	var errs []error
	if s.cpuFile != nil {
		pprof.StopCPUProfile()
		errs = append(errs, s.cpuFile.Close())
	}
	if s.opts.Mem != "" {
		errs = append(errs, writeHeap(s.opts.Mem))
	}
	return errors.Join(errs...)
}

func writeHeap(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create heap profile: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	runtime.GC()
	return pprof.WriteHeapProfile(f)
}
