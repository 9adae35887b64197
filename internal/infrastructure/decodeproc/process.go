//go:build linux

package decodeproc

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

const termGrace = 3 * time.Second

// process is one running decode child. The caller owns stdout (the MJPEG
// byte stream) and must call finishStdout when it stops reading; stderr is
// drained into the log ring in the background. The child is reaped only
// after both pipes are finished, per the exec.Cmd pipe contract.
type process struct {
	log    *zap.Logger
	cmd    *exec.Cmd
	stdout io.ReadCloser
	pid    int

	stdoutDone chan struct{}
	stdoutOnce sync.Once
	stderrDone chan struct{}

	// Closed after the child is reaped.
	done chan struct{}

	termOnce sync.Once
}

// startProcess launches argv with the child isolated in its own process
// group and bound to the parent's lifetime via Pdeathsig.
func startProcess(log *zap.Logger, logBuf *logBuffer, argv []string) (*process, error) {
	if len(argv) == 0 {
		return nil, errors.New("empty argv")
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		_ = stdout.Close()
		return nil, fmt.Errorf("stderr pipe: %w", err)
	}

	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid:   true,
		Pdeathsig: syscall.SIGKILL,
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", argv[0], err)
	}

	p := &process{
		log:        log,
		cmd:        cmd,
		stdout:     stdout,
		pid:        cmd.Process.Pid,
		stdoutDone: make(chan struct{}),
		stderrDone: make(chan struct{}),
		done:       make(chan struct{}),
	}
	p.log.Debug("decode process started", zap.Int("cmd_pid", p.pid))

	go p.drainStderr(stderr, logBuf)
	go p.reap()
	return p, nil
}

// finishStdout marks the stdout consumer as done. Idempotent.
func (p *process) finishStdout() {
	p.stdoutOnce.Do(func() { close(p.stdoutDone) })
}

func (p *process) drainStderr(stderr io.Reader, logBuf *logBuffer) {
	defer close(p.stderrDone)

	sc := bufio.NewScanner(stderr)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		logBuf.Append(sc.Text())
	}
	if err := sc.Err(); err != nil {
		p.log.Debug("stderr scanner failure", zap.Error(err))
	}
}

// reap waits for both pipe consumers, then collects the child's exit status.
func (p *process) reap() {
	<-p.stdoutDone
	<-p.stderrDone

	if err := p.cmd.Wait(); err != nil {
		var eerr *exec.ExitError
		if errors.As(err, &eerr) {
			status := eerr.ProcessState.Sys().(syscall.WaitStatus)
			p.log.Debug("decode process exited",
				zap.Int("cmd_pid", p.pid),
				zap.Int("exit_code", status.ExitStatus()),
				zap.Bool("signaled", status.Signaled()),
			)
		} else {
			p.log.Warn("failed to wait for decode process", zap.Error(err))
		}
	} else {
		p.log.Debug("decode process exited cleanly", zap.Int("cmd_pid", p.pid))
	}

	close(p.done)
}

// terminate shuts the child down: SIGTERM to the process group, then
// SIGKILL after the grace period if it is still alive. Idempotent and
// non-blocking.
func (p *process) terminate() {
	p.termOnce.Do(func() {
		go func() {
			select {
			case <-p.done:
				return
			default:
			}

			if err := syscall.Kill(-p.pid, syscall.SIGTERM); err != nil && !errors.Is(err, syscall.ESRCH) {
				p.log.Warn("SIGTERM failed", zap.Int("cmd_pid", p.pid), zap.Error(err))
			}

			timer := time.NewTimer(termGrace)
			defer timer.Stop()
			select {
			case <-p.done:
			case <-timer.C:
				p.log.Warn("grace timeout expired; sending SIGKILL", zap.Int("cmd_pid", p.pid))
				if err := syscall.Kill(-p.pid, syscall.SIGKILL); err != nil && !errors.Is(err, syscall.ESRCH) {
					p.log.Error("SIGKILL failed", zap.Int("cmd_pid", p.pid), zap.Error(err))
				}
			}
		}()
	})
}
