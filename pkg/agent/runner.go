package agent

import (
	"bufio"
	"context"
	"io"
	"log"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/giantswarm/agentharness/pkg/metrics"
)

// MaxCapturedBytes is the bounded capture cap per stream (§4.3 "Bounded
// buffers"). On overflow, capture truncates and an OutputTruncatedError
// surfaces once the process exits.
const MaxCapturedBytes = 10 * 1024 * 1024

// EventChannelSize is the design capacity of a stream-event channel. Run
// does not create or check the caller-supplied channel, whose capacity is
// whatever the caller made it; whenever that channel is full, new events are
// dropped with a logged warning (drop-newest, see emit).
const EventChannelSize = 100

// killGracePeriod is the interval between sending a terminate signal and a
// kill signal on timeout or Stop.
const killGracePeriod = 5 * time.Second

// Runner spawns one adapter CLI invocation per call to Run. It is the
// subprocess lifecycle manager of §4.3: spawn, stream, timeout, kill,
// partial-capture. Grounded on klaus's pkg/claude/process.go, generalized
// to bounded buffers and adapter-agnostic argv.
type Runner struct {
	Adapter Adapter
	Path    string
}

// NewRunner returns a Runner bound to a discovered adapter binary path.
func NewRunner(adapter Adapter, path string) *Runner {
	return &Runner{Adapter: adapter, Path: path}
}

// capturedBuffer is a bounded, mutex-guarded append-only byte accumulator
// shared by one stream's capture goroutine and the final result reader.
type capturedBuffer struct {
	mu        sync.Mutex
	buf       []byte
	truncated bool
}

func (c *capturedBuffer) appendLine(line []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.truncated {
		return
	}
	if len(c.buf)+len(line)+1 > MaxCapturedBytes {
		remaining := MaxCapturedBytes - len(c.buf)
		if remaining > 0 {
			c.buf = append(c.buf, line[:remaining]...)
		}
		c.truncated = true
		return
	}
	c.buf = append(c.buf, line...)
	c.buf = append(c.buf, '\n')
}

func (c *capturedBuffer) snapshot() (text string, truncated bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return string(c.buf), c.truncated
}

// Run spawns the adapter CLI with argv built from cfg and prompt, streams
// stdout/stderr under bounded capture, and waits for completion or timeout.
// If events is non-nil, stream-json events are pushed to it as they are
// parsed (§4.9); the channel is never closed by Run -- the caller owns it.
func (r *Runner) Run(ctx context.Context, prompt string, cfg RunConfig, events chan<- StreamEvent) (*RunResult, error) {
	argv := BuildArgs(r.Adapter, prompt, cfg)

	timeout := cfg.EffectiveTimeout()
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, r.Path, argv...)
	// CommandContext's default Cancel kills the process the instant runCtx's
	// deadline fires, racing the SIGTERM-then-grace-then-SIGKILL sequence
	// below and making it a no-op. Disabling it here leaves process signaling
	// entirely to the runCtx.Done() branch further down.
	cmd.Cancel = func() error { return nil }
	cmd.WaitDelay = 0
	if cfg.Cwd != "" {
		cmd.Dir = cfg.Cwd
	}
	if len(cfg.Env) > 0 {
		env := cmd.Environ()
		for _, kv := range cfg.Env {
			env = append(env, kv.Name+"="+kv.Value)
		}
		cmd.Env = env
	}

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return nil, &SpawnFailedError{Stage: "stdout-pipe", Err: err}
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return nil, &SpawnFailedError{Stage: "stderr-pipe", Err: err}
	}

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return nil, &SpawnFailedError{Stage: "start", Err: err}
	}

	stdoutBuf := &capturedBuffer{}
	stderrBuf := &capturedBuffer{}
	var streamEvents []StreamEvent
	var streamEventsMu sync.Mutex

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		captureStdout(stdoutPipe, stdoutBuf, cfg.OutputFormat, events, &streamEvents, &streamEventsMu)
	}()

	go func() {
		defer wg.Done()
		captureStderr(stderrPipe, stderrBuf)
	}()

	waitDone := make(chan error, 1)
	go func() {
		wg.Wait()
		waitDone <- cmd.Wait()
	}()

	select {
	case waitErr := <-waitDone:
		elapsed := time.Since(start)
		stdoutText, stdoutTrunc := stdoutBuf.snapshot()
		stderrText, stderrTrunc := stderrBuf.snapshot()
		metrics.CapturedBytesTotal.WithLabelValues(string(r.Adapter), "stdout").Add(float64(len(stdoutText)))
		metrics.CapturedBytesTotal.WithLabelValues(string(r.Adapter), "stderr").Add(float64(len(stderrText)))

		if stdoutTrunc || stderrTrunc {
			captured := len(stdoutText)
			if !stdoutTrunc {
				captured = len(stderrText)
			}
			r.recordOutcome("truncated", elapsed)
			return nil, &OutputTruncatedError{CapturedBytes: captured, LimitBytes: MaxCapturedBytes}
		}

		exitCode := exitCodeOf(cmd, waitErr)
		if exitCode != 0 {
			r.recordOutcome("non_zero_exit", elapsed)
			return nil, &NonZeroExitError{
				ExitCode: exitCode,
				PID:      pidOf(cmd),
				Elapsed:  elapsed,
				Stdout:   stdoutText,
				Stderr:   stderrText,
			}
		}

		result := &RunResult{
			Stdout:   stdoutText,
			Stderr:   stderrText,
			ExitCode: exitCode,
			Duration: Duration(elapsed.Milliseconds()),
		}
		if cfg.OutputFormat == OutputFormatJSON {
			result.JSON = parseJSONStdout(stdoutText)
		}
		if cfg.OutputFormat == OutputFormatStreamJSON {
			streamEventsMu.Lock()
			result.StreamEvents = append([]StreamEvent(nil), streamEvents...)
			streamEventsMu.Unlock()
		}
		r.recordOutcome("success", elapsed)
		return result, nil

	case <-runCtx.Done():
		// Snapshot partial output BEFORE sending the terminate signal, so the
		// signal-handling window does not race capture drain.
		partialStdout, _ := stdoutBuf.snapshot()
		partialStderr, _ := stderrBuf.snapshot()
		pid := pidOf(cmd)

		if cmd.Process != nil {
			_ = cmd.Process.Signal(syscall.SIGTERM)
			select {
			case <-waitDone:
			case <-time.After(killGracePeriod):
				log.Printf("[agent] process %d did not exit after SIGTERM, sending SIGKILL", pid)
				_ = cmd.Process.Kill()
				<-waitDone
			}
		}

		r.recordOutcome("timeout", time.Since(start))
		return nil, &TimeoutError{
			Elapsed:       timeout,
			PID:           pid,
			PartialStdout: partialStdout,
			PartialStderr: partialStderr,
		}
	}
}

// recordOutcome records a completed run's terminal outcome and duration.
func (r *Runner) recordOutcome(outcome string, elapsed time.Duration) {
	metrics.RunsTotal.WithLabelValues(string(r.Adapter), outcome).Inc()
	metrics.RunDurationSeconds.WithLabelValues(string(r.Adapter), outcome).Observe(elapsed.Seconds())
}

// Stop sends a terminate signal to cmd's process, escalating to a kill
// signal after killGracePeriod if it has not exited. Exposed for callers
// that hold a reference to a long-running invocation and want to cancel it
// out of band (the common path is instead cancelling the context passed to
// Run, which Stop complements for direct process handles).
func Stop(cmd *exec.Cmd, done <-chan struct{}) error {
	if cmd == nil || cmd.Process == nil {
		return nil
	}
	if err := cmd.Process.Signal(syscall.SIGTERM); err != nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-time.After(killGracePeriod):
		return cmd.Process.Kill()
	}
}

func captureStdout(pipe io.Reader, buf *capturedBuffer, format OutputFormat, events chan<- StreamEvent, streamEvents *[]StreamEvent, mu *sync.Mutex) {
	scanner := bufio.NewScanner(pipe)
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		buf.appendLine(line)

		if format != OutputFormatStreamJSON {
			if events != nil {
				emit(events, StreamEvent{Kind: StreamEventText, Text: string(line) + "\n"})
			}
			continue
		}

		ev := ParseStreamLine(line)
		mu.Lock()
		*streamEvents = append(*streamEvents, ev)
		mu.Unlock()

		if events != nil {
			emit(events, ev)
		}
	}
	if err := scanner.Err(); err != nil {
		log.Printf("[agent] stdout scanner error: %v", err)
	}
}

func captureStderr(pipe io.Reader, buf *capturedBuffer) {
	scanner := bufio.NewScanner(pipe)
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)
	for scanner.Scan() {
		buf.appendLine(scanner.Bytes())
	}
}

// emit pushes ev into events without blocking; if the channel is full, the
// event is dropped with a logged warning (§4.3 "drop-newest" overflow
// policy) -- callers who want lossless streaming must drain faster than the
// child emits.
func emit(events chan<- StreamEvent, ev StreamEvent) {
	select {
	case events <- ev:
	default:
		log.Printf("[agent] event channel full, dropping event kind=%s", ev.Kind)
		metrics.StreamEventsDroppedTotal.Inc()
	}
}

func exitCodeOf(cmd *exec.Cmd, waitErr error) int {
	if cmd.ProcessState == nil {
		return -1
	}
	code := cmd.ProcessState.ExitCode()
	if code < 0 {
		return -1
	}
	return code
}

func pidOf(cmd *exec.Cmd) int {
	if cmd.Process == nil {
		return -1
	}
	return cmd.Process.Pid
}
