// main.go — Process entry: configuration, pipeline launch, exit mapping
// ============================================================================
// STREAMING LINE REVERSER
// ============================================================================
//
// Reverses every line of the input file, UTF-8 aware, terminators kept
// in place, through a three-stage pinned pipeline:
//
//   reverser <input> <output> [--buffer-size N] [--buffer-count N]
//            [--queue-capacity N] [--no-pin] [--config FILE]
//
// Startup phases:
//   1. Resolve configuration (defaults, tuning file, flags)
//   2. Open the endpoints (usage fault if either path fails)
//   3. Quiesce the runtime: all steady-state memory is allocated up
//      front, so the collector is parked for the run
//   4. Launch the stages and join them
//   5. Map the fault record to the exit code
//
// Exit codes:
//   0 clean EOF   1 IO failure   2 malformed UTF-8
//   3 line too long / protocol   4 usage
// ============================================================================

package main

import (
	"os"
	"os/signal"
	"runtime"
	rtdebug "runtime/debug"
	"syscall"

	"linerev/config"
	"linerev/control"
	"linerev/debug"
	"linerev/fio"
	"linerev/pipeline"
	"linerev/utils"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	// ───────────────────────── Phase 1: configuration ─────────────────────────
	cfg, err := config.Parse(args)
	if err != nil {
		debug.DropError(control.Usage.Label(), err)
		debug.DropMessage(control.Usage.Label(), config.Usage)
		return control.Usage.ExitCode()
	}

	// ───────────────────────── Phase 2: endpoints ─────────────────────────────
	in, err := fio.Open(cfg.InPath)
	if err != nil {
		debug.DropError(control.Usage.Label()+" "+cfg.InPath, err)
		return control.Usage.ExitCode()
	}
	defer in.Close()

	out, err := fio.Create(cfg.OutPath)
	if err != nil {
		debug.DropError(control.Usage.Label()+" "+cfg.OutPath, err)
		return control.Usage.ExitCode()
	}
	defer out.Close()

	// ───────────────────────── Phase 3: runtime quiesce ───────────────────────
	// Arena, rings, and the job table are the run's entire footprint;
	// allocate them, compact, and park the collector.
	p := pipeline.New(cfg, in, out)
	runtime.GC()
	runtime.GC()
	rtdebug.FreeOSMemory()
	gcPrev := rtdebug.SetGCPercent(-1)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		control.Shutdown()
		p.WakeAll()
	}()

	// ───────────────────────── Phase 4: pipeline run ──────────────────────────
	p.Run()
	signal.Stop(sigCh)
	rtdebug.SetGCPercent(gcPrev)

	// A close failure is still an IO fault: the final pages may never
	// have reached the file.
	if err := out.Close(); err != nil {
		control.Fail(control.IOFault, err, -1)
	}

	// ───────────────────────── Phase 5: exit mapping ──────────────────────────
	kind, ferr, offset := control.Fault()
	if kind != control.None {
		debug.DropError(kind.Label(), ferr)
		if offset >= 0 {
			debug.DropMessage(kind.Label(), "buffer byte offset "+utils.Itoa(int(offset)))
		}
		return kind.ExitCode()
	}

	st := p.Stats()
	debug.DropMessage("DONE",
		utils.Itoa(int(st.BuffersRead))+" buffers, "+
			utils.Itoa(int(st.LinesReversed))+" lines, "+
			utils.Itoa(int(st.BytesWritten))+" bytes")
	return 0
}
