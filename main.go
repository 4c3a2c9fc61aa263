package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"gopkg.microglot.org/remote.go/internal/fs"
	"gopkg.microglot.org/remote.go/internal/request"
	"gopkg.microglot.org/remote.go/remote"
)

type opts struct {
	Roots          []string
	MaxConcurrency int
	Timeout        time.Duration
	Verbose        bool
	Trace          bool
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	op := &opts{}
	flags := pflag.NewFlagSet("remotefetch", pflag.PanicOnError)
	flags.StringSliceVar(&op.Roots, "root", []string{"."}, "Root directories to fetch targets from, searched in order.")
	flags.IntVar(&op.MaxConcurrency, "max-concurrency", 0, "Maximum number of fetches in flight. Zero uses the number of CPUs.")
	flags.DurationVar(&op.Timeout, "timeout", 0, "Per-target fetch timeout. Zero means no timeout.")
	flags.BoolVar(&op.Verbose, "verbose", false, "Log every state transition to STDERR.")
	flags.BoolVar(&op.Trace, "trace", false, "Print the sequence of states each target went through.")
	_ = flags.Parse(os.Args[1:])
	targets := flags.Args()

	logger := zap.NewNop()
	if op.Verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			panic(err)
		}
		logger = l
	}
	defer func() { _ = logger.Sync() }()

	dfs, err := fs.NewDefaultSource(os.LookupEnv)
	if err != nil {
		panic(err)
	}
	src := make(fs.SourceMulti, 0, len(op.Roots)+1)
	for _, root := range op.Roots {
		absRoot, errAbs := filepath.Abs(root)
		if errAbs != nil {
			panic(errAbs.Error())
		}
		rs, err := fs.NewSourceLocal(absRoot)
		if err != nil {
			panic(err.Error())
		}
		src = append(src, rs)
	}
	src = append(src, dfs)

	c, err := request.New(
		request.OptionWithLookupEnv(os.LookupEnv),
		request.OptionWithSource(src),
		request.OptionWithMaxConcurrency(op.MaxConcurrency),
		request.OptionWithTimeout(op.Timeout),
		request.OptionWithLogger(logger),
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}

	cells, err := c.FetchAll(ctx, targets)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
	for _, cell := range cells {
		render(ctx, os.Stdout, cell, op.Trace)
	}
	if len(c.Reporter.Fatal()) > 0 {
		os.Exit(1)
	}
}

func render(ctx context.Context, w io.Writer, cell *request.Cell[[]byte], trace bool) {
	line := remote.Match(cell.Current().State,
		func() string { return "not fetched" },
		func() string { return "still loading" },
		func(b []byte) string { return fmt.Sprintf("loaded %d bytes", len(b)) },
		func(err error) string { return "failed: " + err.Error() },
	)
	fmt.Fprintf(w, "%s: %s\n", cell.Target(), line)
	if !trace {
		return
	}
	transitions := request.Transitions(ctx, cell)
	if len(transitions) < 1 {
		return
	}
	steps := make([]string, 0, len(transitions)+1)
	steps = append(steps, transitions[0].From.String())
	for _, t := range transitions {
		steps = append(steps, t.To.String())
	}
	fmt.Fprintf(w, "\t%s\n", strings.Join(steps, " -> "))
}
