/*
This is an example of application that will use the
engine package to test things out
*/
package main

import (
	"errors"
	"flag"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/spaghettifunk/anima-scene/engine/config"
	"github.com/spaghettifunk/anima-scene/engine/core"
	"github.com/spaghettifunk/anima-scene/testbed"
)

func main() {
	configPath := flag.String("config", "anima.toml", "path to the TOML configuration")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if errors.Is(err, fs.ErrNotExist) {
		core.LogWarn("config file %s not found, using defaults", *configPath)
		cfg, err = config.Default(), nil
	}
	if err != nil {
		core.LogFatal(err.Error())
		os.Exit(1)
	}
	core.SetLogLevel(cfg.Level())

	if !core.EventInitialize() {
		core.LogFatal("failed to initialize the event system")
		os.Exit(1)
	}

	tb, err := testbed.NewTestGame(cfg)
	if err != nil {
		panic(err)
	}
	if err := tb.Initialize(); err != nil {
		panic(err)
	}

	watcher, err := config.NewWatcher(*configPath, func(c *config.Config) {
		core.SetLogLevel(c.Level())
		tb.SetStrictKinds(c.Hub.StrictKinds)
		core.LogInfo("configuration reloaded, log level %s, strict kinds %t", c.Level(), c.Hub.StrictKinds)
	})
	if err != nil {
		core.LogWarn("config hot reload disabled: %s", err)
	}

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)

	// start shutdown goroutine
	go func() {
		// capture sigterm and other system call here
		<-sigCh
		core.EventFire(core.EVENT_CODE_APPLICATION_QUIT, nil, core.EventContext{})
	}()

	if err := tb.Run(); err != nil {
		panic(err)
	}

	closers := []func() error{tb.Shutdown, core.EventShutdown}
	if watcher != nil {
		closers = append([]func() error{watcher.Close}, closers...)
	}
	if err := closeAll(closers...); err != nil {
		os.Exit(1)
	}
}

// closeAll runs every closer in order, logs each failure and returns them
// joined.
func closeAll(closers ...func() error) error {
	var errs []error
	for _, c := range closers {
		if err := c(); err != nil {
			core.LogError(err.Error())
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
