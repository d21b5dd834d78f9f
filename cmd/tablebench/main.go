// tablebench drives throughput benchmarks against the sparse and dense
// table engines. Each worker owns an independent container instance — the
// engines themselves carry no concurrency guarantees (§1's explicit
// Non-goal) — so concurrency here measures aggregate per-core throughput
// across N isolated instances, not contention on a single shared one.
//
// Flag parsing and context/signal handling are adapted from cmd/arena-cache-inspect/main.go's CLI shape; the concurrent
// worker fan-out uses golang.org/x/sync/errgroup, the teacher's own
// dependency for bounded concurrent work.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Voskan/arena-table/dense"
	"github.com/Voskan/arena-table/sparse"
)

var version = "dev"

type options struct {
	engine    string // "sparse" or "dense"
	container string // "set" or "map"
	n         int    // entries inserted per worker
	workers   int
	ordered   bool
	stable    bool
	json      bool
	showVer   bool
}

func parseFlags() *options {
	o := &options{}
	flag.StringVar(&o.engine, "engine", "sparse", "engine to benchmark: sparse or dense")
	flag.StringVar(&o.container, "container", "map", "container shape: set or map")
	flag.IntVar(&o.n, "n", 100000, "entries inserted per worker")
	flag.IntVar(&o.workers, "workers", 1, "number of independent concurrent instances")
	flag.BoolVar(&o.ordered, "ordered", false, "track insertion order")
	flag.BoolVar(&o.stable, "stable", false, "use the stable (pointer-indirected) node discipline")
	flag.BoolVar(&o.json, "json", false, "emit results as JSON")
	flag.BoolVar(&o.showVer, "version", false, "print version and exit")
	flag.Parse()
	return o
}

func main() {
	opts := parseFlags()
	if opts.showVer {
		fmt.Println(version)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		cancel()
	}()

	result, err := run(ctx, opts)
	if err != nil {
		fatal(err)
	}
	if opts.json {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			fatal(err)
		}
		return
	}
	printResult(result)
}

type result struct {
	Engine        string        `json:"engine"`
	Container     string        `json:"container"`
	Workers       int           `json:"workers"`
	EntriesTotal  int           `json:"entries_total"`
	InsertElapsed time.Duration `json:"insert_elapsed_ns"`
	FindElapsed   time.Duration `json:"find_elapsed_ns"`
	EraseElapsed  time.Duration `json:"erase_elapsed_ns"`
}

func run(ctx context.Context, opts *options) (*result, error) {
	g, ctx := errgroup.WithContext(ctx)
	times := make([]workerTimes, opts.workers)

	for w := 0; w < opts.workers; w++ {
		w := w
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			t, err := benchOne(opts)
			if err != nil {
				return err
			}
			times[w] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	r := &result{
		Engine:       opts.engine,
		Container:    opts.container,
		Workers:      opts.workers,
		EntriesTotal: opts.n * opts.workers,
	}
	for _, t := range times {
		r.InsertElapsed += t.insert
		r.FindElapsed += t.find
		r.EraseElapsed += t.erase
	}
	if opts.workers > 0 {
		r.InsertElapsed /= time.Duration(opts.workers)
		r.FindElapsed /= time.Duration(opts.workers)
		r.EraseElapsed /= time.Duration(opts.workers)
	}
	return r, nil
}

type workerTimes struct {
	insert, find, erase time.Duration
}

// benchOne runs a full insert/find/erase cycle against one instance,
// returning wall-clock per phase. Keys are pre-shuffled so Find/Erase don't
// benefit from the access pattern matching Insert's order.
func benchOne(opts *options) (workerTimes, error) {
	keys := make([]string, opts.n)
	for i := range keys {
		keys[i] = fmt.Sprintf("key-%d-%d", opts.n, i)
	}
	shuffled := append([]string(nil), keys...)
	rand.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	switch opts.engine {
	case "sparse":
		return benchSparse(opts, keys, shuffled)
	case "dense":
		return benchDense(opts, keys, shuffled)
	default:
		return workerTimes{}, fmt.Errorf("tablebench: unknown engine %q", opts.engine)
	}
}

type kv struct {
	K string
	V int
}

func benchSparse(opts *options, keys, shuffled []string) (workerTimes, error) {
	if opts.container == "set" {
		tbl := sparse.New(sparse.Config[string, string]{
			KeyOf:   func(v string) string { return v },
			Ordered: opts.ordered,
			Stable:  opts.stable,
		})
		return timeOps(
			func() {
				for _, k := range keys {
					tbl.Insert(k)
				}
			},
			func() {
				for _, k := range shuffled {
					tbl.Find(k)
				}
			},
			func() {
				for _, k := range shuffled {
					tbl.Erase(k)
				}
			},
		), nil
	}
	if opts.container != "map" {
		return workerTimes{}, fmt.Errorf("tablebench: unknown container %q", opts.container)
	}
	tbl := sparse.New(sparse.Config[string, kv]{
		KeyOf:   func(v kv) string { return v.K },
		Ordered: opts.ordered,
		Stable:  opts.stable,
	})
	return timeOps(
		func() {
			for i, k := range keys {
				tbl.Insert(kv{k, i})
			}
		},
		func() {
			for _, k := range shuffled {
				tbl.Find(k)
			}
		},
		func() {
			for _, k := range shuffled {
				tbl.Erase(k)
			}
		},
	), nil
}

func benchDense(opts *options, keys, shuffled []string) (workerTimes, error) {
	if opts.container == "set" {
		tbl := dense.New(dense.Config[string, string]{
			KeyOf:   func(v string) string { return v },
			Ordered: opts.ordered,
			Stable:  opts.stable,
		})
		return timeOps(
			func() {
				for _, k := range keys {
					tbl.Insert(k)
				}
			},
			func() {
				for _, k := range shuffled {
					tbl.Find(k)
				}
			},
			func() {
				for _, k := range shuffled {
					tbl.Erase(k)
				}
			},
		), nil
	}
	if opts.container != "map" {
		return workerTimes{}, fmt.Errorf("tablebench: unknown container %q", opts.container)
	}
	tbl := dense.New(dense.Config[string, kv]{
		KeyOf:   func(v kv) string { return v.K },
		Ordered: opts.ordered,
		Stable:  opts.stable,
	})
	return timeOps(
		func() {
			for i, k := range keys {
				tbl.Insert(kv{k, i})
			}
		},
		func() {
			for _, k := range shuffled {
				tbl.Find(k)
			}
		},
		func() {
			for _, k := range shuffled {
				tbl.Erase(k)
			}
		},
	), nil
}

func timeOps(insert, find, erase func()) workerTimes {
	var tt workerTimes
	start := time.Now()
	insert()
	tt.insert = time.Since(start)

	start = time.Now()
	find()
	tt.find = time.Since(start)

	start = time.Now()
	erase()
	tt.erase = time.Since(start)
	return tt
}

func printResult(r *result) {
	fmt.Printf("engine:     %s\n", r.Engine)
	fmt.Printf("container:  %s\n", r.Container)
	fmt.Printf("workers:    %d\n", r.Workers)
	fmt.Printf("entries:    %d total\n", r.EntriesTotal)
	fmt.Printf("insert:     %s (avg/worker)\n", r.InsertElapsed)
	fmt.Printf("find:       %s (avg/worker)\n", r.FindElapsed)
	fmt.Printf("erase:      %s (avg/worker)\n", r.EraseElapsed)
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "tablebench:", err)
	os.Exit(1)
}
