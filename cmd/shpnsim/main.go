package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "load":
		if err := load(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "step":
		if err := step(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}
	case "run":
		if err := run(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}
	case "save":
		if err := save(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "serve":
		if err := serve(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}
	case "watch":
		if err := watch(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}
	case "help", "-h", "--help":
		printUsage()
	case "version", "-v", "--version":
		fmt.Println("shpnsim version 1.0.0")
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`shpnsim - hybrid Petri-net simulation tool

Usage:
  shpnsim <command> [options]

Commands:
  load     Load a .shy model and print a structural summary
  step     Advance a loaded model by a fixed number of steps
  run      Run a model to an end time (or deadlock), optionally recording a trace
  save     Re-save a model, normalizing its schema and minting a fresh document id
  serve    Serve a live websocket/HTTP observation feed for a running model
  watch    Re-load a model whenever its .shy file changes on disk
  help     Show this help message
  version  Show version information

Examples:
  shpnsim load model.shy
  shpnsim run --time 100 --trace trace.sqlite model.shy
  shpnsim step --steps 10 model.shy
  shpnsim serve --addr :8080 model.shy

For command-specific help, run:
  shpnsim <command> --help`)
}
