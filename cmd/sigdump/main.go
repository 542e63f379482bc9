// Command sigdump is a diagnostic CLI for inspecting signal registries and
// probing ring buffer capacity/backpressure behavior, built on
// github.com/urfave/cli/v2 (grounded on internal/cli/test/cli.go's
// *cli.Command shape) for flag parsing.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/RalphSteinhagen/gnuradio/registry"
	"github.com/RalphSteinhagen/gnuradio/ringbuffer"
	"github.com/RalphSteinhagen/gnuradio/sink"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	app := &cli.App{
		Name:  "sigdump",
		Usage: "inspect signal registries and ring buffer capacity behavior",
		Commands: []*cli.Command{
			demoCommand(logger),
			capacityCommand(logger),
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Error("sigdump failed", "error", err)
		os.Exit(1)
	}
}

// demoCommand builds a sample signal, registers it, publishes a few
// elements, and dumps the registry and buffer state — a scriptable
// equivalent of attaching a debugger to a live flowgraph.
func demoCommand(logger *slog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "demo",
		Usage: "register a sample signal and dump its state",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "size", Value: 1024, Usage: "ring buffer capacity in elements"},
			&cli.IntFlag{Name: "publish", Value: 16, Usage: "number of int32 elements to publish"},
		},
		Action: func(c *cli.Context) error {
			size := c.Int("size")
			publishCount := int64(c.Int("publish"))

			reg := registry.NewDefault()
			buf, err := ringbuffer.New[int32](size)
			if err != nil {
				return fmt.Errorf("sigdump: create buffer: %w", err)
			}
			adapter := sink.NewAdapter[int32](reg, "demo-signal", "V", 1000, buf)
			defer adapter.Close()

			w := buf.NewWriterInstance()
			r := buf.NewReaderInstance()

			if publishCount > 0 {
				err := w.Publish(context.Background(), func(span []int32) error {
					for i := range span {
						span[i] = int32(i)
					}
					return nil
				}, publishCount)
				if err != nil {
					return fmt.Errorf("sigdump: publish: %w", err)
				}
			}

			logger.Info("registered signal", "name", adapter.SignalName(), "registry_size", reg.Size())
			fmt.Printf("signal %q: capacity=%d available=%d writer_headroom=%d\n",
				adapter.SignalName(), buf.Size(), r.Available(), w.Available())
			return nil
		},
	}
}

// capacityCommand fills a buffer in fixed-size chunks until tryPublish
// reports no capacity, printing how much was written before backpressure
// kicked in — a ring_buffer analogue of a debug-capacity tool.
func capacityCommand(logger *slog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "capacity",
		Usage: "probe backpressure by filling a buffer in chunks",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "size", Value: 65536, Usage: "ring buffer capacity in elements"},
			&cli.IntFlag{Name: "chunk", Value: 1000, Usage: "elements written per chunk"},
		},
		Action: func(c *cli.Context) error {
			size := c.Int("size")
			chunk := int64(c.Int("chunk"))

			buf, err := ringbuffer.New[byte](size)
			if err != nil {
				return fmt.Errorf("sigdump: create buffer: %w", err)
			}
			w := buf.NewWriterInstance()
			_ = buf.NewReaderInstance() // never consumes, to observe backpressure

			var written int64
			for i := 0; ; i++ {
				ok, err := w.TryPublish(func(span []byte) error {
					for j := range span {
						span[j] = byte((i + j) % 256)
					}
					return nil
				}, chunk)
				if err != nil {
					return fmt.Errorf("sigdump: publish chunk %d: %w", i, err)
				}
				if !ok {
					logger.Info("backpressure reached", "chunks_written", i, "elements_written", written)
					fmt.Printf("stopped after %d chunks (%d elements written, capacity %d)\n", i, written, buf.Size())
					return nil
				}
				written += chunk
			}
		},
	}
}
