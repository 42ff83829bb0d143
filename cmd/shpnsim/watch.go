package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fsnotify/fsnotify"

	"github.com/pflow-xyz/shpn/persist"
	"github.com/pflow-xyz/shpn/sim"
)

// watch re-loads path and resets the controller every time the file
// changes on disk, the way 99souls-ariadne hot-reloads its own config
// file with fsnotify.
func watch(args []string) error {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	dt := fs.Float64("dt", 0, "Step size override (0 = use config default)")
	configPath := fs.String("config", "", "Optional config file (yaml/toml/json) for dt/seed/policy")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: shpnsim watch [options] <model.shy>

Re-load the model and reset the controller every time the file changes
on disk, printing the new structural summary after each reload.

Options:
`)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("model file required")
	}
	path := fs.Arg(0)

	rc, err := loadRunConfig(*configPath)
	if err != nil {
		return err
	}
	if *dt != 0 {
		rc.Dt = *dt
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}

	reload := func() (*sim.Controller, error) {
		net, doc, err := persist.LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reload %s: %w", path, err)
		}
		fmt.Printf("reloaded %s (%s): %d places, %d transitions, %d arcs\n",
			doc.Metadata.Name, doc.Metadata.DocumentID, len(net.Places()), len(net.Transitions()), len(net.Arcs()))
		return sim.NewController(net, rc.toSimConfig()), nil
	}

	if _, err := reload(); err != nil {
		return err
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if _, err := reload(); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
		}
	}
}
