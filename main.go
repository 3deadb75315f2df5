package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"dotmatrix/emu"
)

var version = "devel"

func main() {
	args := parseArgs(os.Args[1:])

	cfg := emu.LoadConfigOrDefault()

	switch args.mode {
	case runMode:
		emuMain(args.Run, cfg)
	case romInfosMode:
		romInfosMain(args.RomInfos)
	case versionMode:
		if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" {
			version = bi.Main.Version
		}
		fmt.Println("dotmatrix", version)
	}
}
