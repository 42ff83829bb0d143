package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pflow-xyz/shpn/persist"
)

func save(args []string) error {
	fs := flag.NewFlagSet("save", flag.ExitOnError)
	output := fs.String("output", "", "Output file (required)")
	name := fs.String("name", "", "Document name (defaults to the input filename)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: shpnsim save --output <out.shy> [options] <model.shy>

Re-save a model, normalizing its schema version and assigning a fresh
document id.

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
	if *output == "" {
		fs.Usage()
		return fmt.Errorf("--output required")
	}

	net, doc, err := persist.LoadFile(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("load model: %w", err)
	}

	docName := *name
	if docName == "" {
		docName = doc.Metadata.Name
	}

	if err := persist.SaveFile(*output, net, docName); err != nil {
		return fmt.Errorf("save model: %w", err)
	}
	fmt.Printf("saved %s\n", persist.NormalizeExtension(*output))
	return nil
}
