package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/pprof"

	"github.com/go-faster/jx"
	"github.com/veandco/go-sdl2/sdl"

	"dotmatrix/cart"
	"dotmatrix/emu"
	"dotmatrix/hw/input"
)

// emuMain runs the emulator directly with the given rom.
func emuMain(args Run, cfg emu.Config) {
	var exitcode int
	sdl.Main(func() {
		c, err := cart.Open(args.RomPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error reading ROM: %s", err)
			exitcode = 1
			return
		}

		var traceout io.WriteCloser
		if args.Trace != nil {
			traceout = args.Trace
			defer traceout.Close()
		}
		cfg.TraceOut = traceout

		scr, err := newScreen(c.Title(), cfg.Video)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to create screen: %v\n", err)
			exitcode = 1
			return
		}

		emulator := emu.Launch(c, scr, cfg)
		emulator.PlugInputDevice(input.NewProvider(cfg.Input))
		scr.emu = emulator

		if args.CPUProfile != "" {
			f, err := os.Create(args.CPUProfile)
			checkf(err, "failed to create cpu profile file")
			checkf(pprof.StartCPUProfile(f), "failed to start cpu profile")
			defer func() {
				pprof.StopCPUProfile()
				f.Close()
				fmt.Println("CPU profile written to", args.CPUProfile)
			}()
		}

		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, os.Interrupt)
		go func() {
			<-sigc
			emulator.Stop()
		}()

		emulator.Run()
	})
	os.Exit(exitcode)
}

func romInfosMain(args RomInfos) {
	c, err := cart.Open(args.RomPath)
	checkf(err, "failed to open rom")

	if !args.JSON {
		c.PrintInfos(os.Stdout)
		return
	}

	var e jx.Encoder
	e.SetIdent(2)
	e.Obj(func(e *jx.Encoder) {
		e.Field("title", func(e *jx.Encoder) { e.Str(c.Title()) })
		e.Field("type", func(e *jx.Encoder) { e.UInt8(c.Type()) })
		e.Field("size", func(e *jx.Encoder) { e.Int(len(c.ROM)) })
		e.Field("size_code", func(e *jx.Encoder) { e.UInt8(c.ROMSizeCode()) })
	})
	fmt.Println(e.String())
}
