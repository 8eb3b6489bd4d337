package engine

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/eprivalovdev/TunnelX/internal/logger"
)

// Tunnel supervises an external SOCKS5 tunnel process. The binary is
// hev-socks5-tunnel or anything accepting a flat-text config path as
// its only argument.
type Tunnel struct {
	Binary string

	cmd *exec.Cmd
}

// Start writes the config to a temp file and launches the tunnel
// process. The file stays on disk until Stop.
func (t *Tunnel) Start(ctx context.Context, config []byte) error {
	if t.cmd != nil {
		return fmt.Errorf("tunnel already running")
	}

	f, err := os.CreateTemp("", "tunnel-*.conf")
	if err != nil {
		return fmt.Errorf("failed to write tunnel config: %w", err)
	}
	if _, err := f.Write(config); err != nil {
		f.Close()
		os.Remove(f.Name())
		return fmt.Errorf("failed to write tunnel config: %w", err)
	}
	f.Close()

	cmd := exec.CommandContext(ctx, t.Binary, f.Name())
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		os.Remove(f.Name())
		return fmt.Errorf("failed to start tunnel %q: %w", t.Binary, err)
	}

	logger.Log.Infof("tunnel started (pid %d)", cmd.Process.Pid)
	t.cmd = cmd
	go func(path string) {
		if err := cmd.Wait(); err != nil {
			logger.Log.Warnf("tunnel exited: %v", err)
		}
		os.Remove(path)
	}(f.Name())
	return nil
}

// Stop terminates the tunnel process if it is running.
func (t *Tunnel) Stop() error {
	if t.cmd == nil || t.cmd.Process == nil {
		return nil
	}
	err := t.cmd.Process.Kill()
	t.cmd = nil
	return err
}
