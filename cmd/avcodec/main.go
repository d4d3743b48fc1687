package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/avcodec/codec"
	"github.com/wippyai/avcodec/ndjson"
	"github.com/wippyai/avcodec/schema"
)

const usage = `avcodec converts NDJSON records between plain JSON and DynamoDB
attribute values.

Usage:
  avcodec serialize   --schema s.yaml [--in path] [--out path] [flags]
  avcodec deserialize --schema s.yaml [--in path] [--out path] [flags]
  avcodec preview     --schema s.yaml --in path [--plain]
  avcodec schema      --schema s.yaml [--shapes]

Input may be gzip, zstd or lz4 compressed. Without --in records are read
from stdin; without --out they are written to stdout.

Flags:
`

type options struct {
	schema  string
	in      string
	out     string
	batch   int
	export  bool
	workers int
	verbose bool
	plain   bool
	shapes  bool
}

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	var opts options
	flagSet := pflag.NewFlagSet("avcodec", pflag.ContinueOnError)
	flagSet.StringVarP(&opts.schema, "schema", "s", "", "schema document (YAML or JSON)")
	flagSet.StringVarP(&opts.in, "in", "i", "", "input NDJSON file, possibly compressed (default stdin)")
	flagSet.StringVarP(&opts.out, "out", "o", "", "output NDJSON file (default stdout)")
	flagSet.IntVarP(&opts.batch, "batch", "b", 1000, "records per batch")
	flagSet.BoolVar(&opts.export, "export", false, `tagged side uses the DynamoDB export envelope {"Item": ...}`)
	flagSet.IntVarP(&opts.workers, "workers", "w", codec.DefaultOptions().Workers, "columns transformed in parallel")
	flagSet.BoolVarP(&opts.verbose, "verbose", "v", false, "log batches to stderr")
	flagSet.BoolVar(&opts.plain, "plain", false, "preview input holds plain records")
	flagSet.BoolVar(&opts.shapes, "shapes", false, "print the columnar shapes of the schema")
	flagSet.BoolP("help", "h", false, "show help")
	flagSet.Usage = func() {}

	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}

	rest := flagSet.Args()
	if len(rest) != 1 {
		printHelp(flagSet)
		return fmt.Errorf("expected one command, got %d", len(rest))
	}
	if opts.schema == "" {
		return fmt.Errorf("--schema is required")
	}

	root, err := schema.Load(opts.schema)
	if err != nil {
		return err
	}

	if opts.verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("create logger: %w", err)
		}
		defer logger.Sync()
		codec.SetLogger(logger)
		defer codec.SetLogger(nil)
	}

	engine := codec.New(codec.Options{Workers: opts.workers})

	switch cmd := rest[0]; cmd {
	case "serialize":
		return convert(engine, root, codec.Encode, opts, stdin, stdout)
	case "deserialize":
		return convert(engine, root, codec.Decode, opts, stdin, stdout)
	case "preview":
		if opts.in == "" {
			return fmt.Errorf("preview needs --in")
		}
		return runInteractive(engine, root, opts)
	case "schema":
		return printSchema(root, opts.shapes, stdout)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprint(os.Stderr, usage)
	fmt.Fprint(os.Stderr, flagSet.FlagUsages())
}

func openInput(path string, stdin io.Reader) (*ndjson.Reader, error) {
	if path == "" || path == "-" {
		return ndjson.NewReader(stdin)
	}
	return ndjson.Open(path)
}

func convert(engine *codec.Engine, root *schema.Struct, dir codec.Direction, opts options, stdin io.Reader, stdout io.Writer) error {
	r, err := openInput(opts.in, stdin)
	if err != nil {
		return err
	}
	defer r.Close()
	r.Unwrap = opts.export && dir == codec.Decode

	out := stdout
	if opts.out != "" && opts.out != "-" {
		f, err := os.Create(opts.out)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		out = f
	}
	w := ndjson.NewWriter(out)
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		w.SetIndent("", "  ")
	}

	offset := 0
	for {
		batch, err := r.ReadBatch(opts.batch)
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		converted, err := engine.Apply(batch, root, dir)
		if err != nil {
			return fmt.Errorf("records %d-%d: %w", offset, offset+len(batch)-1, err)
		}
		if opts.export && dir == codec.Encode {
			for i, rec := range converted {
				converted[i] = codec.Record{"Item": rec}
			}
		}
		if err := w.WriteBatch(converted); err != nil {
			return err
		}
		offset += len(batch)
	}
	return w.Flush()
}

func printSchema(root *schema.Struct, shapes bool, stdout io.Writer) error {
	doc, err := schema.Format(root)
	if err != nil {
		return err
	}
	if _, err := stdout.Write(doc); err != nil {
		return err
	}
	if !shapes {
		return nil
	}

	nodes, depth := 0, 0
	schema.Walk(root, func(path []string, _ schema.Type) bool {
		nodes++
		depth = max(depth, len(path))
		return true
	})
	fmt.Fprintf(stdout, "\n# %d nodes, depth %d\n", nodes, depth)
	for _, form := range []codec.Form{codec.Plain, codec.Tagged} {
		fmt.Fprintf(stdout, "\n# %s\n", form)
		for _, f := range form.Schema(root).Fields() {
			fmt.Fprintf(stdout, "# %s: %s\n", f.Name, strings.TrimSpace(f.Type.String()))
		}
	}
	return nil
}
