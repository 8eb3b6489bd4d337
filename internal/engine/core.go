// Package engine embeds the proxy core and runs assembled
// configuration documents.
package engine

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/xtls/xray-core/core"
	"github.com/xtls/xray-core/infra/conf/serial"

	// Registers all protocols and transports with the core.
	_ "github.com/xtls/xray-core/main/distro/all"

	"github.com/eprivalovdev/TunnelX/internal/logger"
)

// Engine is anything that can run a built config until stopped.
type Engine interface {
	Start(ctx context.Context, config []byte) error
	Stop() error
}

// Instance is a running proxy core.
type Instance struct {
	core *core.Instance
}

// Validate builds the document through the core's config pipeline
// without starting anything. It catches schema errors the typed
// assembler cannot, like unknown cipher names.
func Validate(data []byte) error {
	cfg, err := serial.DecodeJSONConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("invalid document: %w", err)
	}
	if _, err := cfg.Build(); err != nil {
		return fmt.Errorf("document rejected by core: %w", err)
	}
	return nil
}

// Start launches the core on the given document. The core is known
// to panic on some malformed configs, so panics become errors here.
func Start(data []byte) (inst *Instance, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Log.Errorf("core panic recovered: %v", r)
			err = fmt.Errorf("core panic: %v", r)
			if inst != nil {
				inst.Close()
				inst = nil
			}
		}
	}()

	cfg, err := serial.DecodeJSONConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("invalid document: %w", err)
	}

	var pb *core.Config
	func() {
		restore := muteCoreOutput()
		defer restore()
		pb, err = cfg.Build()
	}()
	if err != nil {
		return nil, fmt.Errorf("document rejected by core: %w", err)
	}

	c, err := core.New(pb)
	if err != nil {
		return nil, err
	}
	if err := c.Start(); err != nil {
		return nil, err
	}
	return &Instance{core: c}, nil
}

// Close stops the core and releases its listeners.
func (i *Instance) Close() error {
	if i == nil || i.core == nil {
		return nil
	}
	return i.core.Close()
}

// Core adapts the embedded proxy core to the Engine interface.
type Core struct {
	inst *Instance
}

var _ Engine = (*Core)(nil)
var _ Engine = (*Tunnel)(nil)

func (c *Core) Start(_ context.Context, config []byte) error {
	if c.inst != nil {
		return fmt.Errorf("core already running")
	}
	inst, err := Start(config)
	if err != nil {
		return err
	}
	c.inst = inst
	return nil
}

func (c *Core) Stop() error {
	err := c.inst.Close()
	c.inst = nil
	return err
}

// The core writes registration noise straight to stdout during
// config builds. Redirect both streams to /dev/null for the call.
func muteCoreOutput() func() {
	origStdout := os.Stdout
	origStderr := os.Stderr

	devNull, _ := os.Open(os.DevNull)
	if devNull != nil {
		os.Stdout = devNull
		os.Stderr = devNull
	}

	return func() {
		os.Stdout = origStdout
		os.Stderr = origStderr
		if devNull != nil {
			devNull.Close()
		}
	}
}
