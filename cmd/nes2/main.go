// Command nes2 runs the NES emulator.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/minnowc/nes-2/internal/app"
	"github.com/minnowc/nes-2/internal/version"
)

func main() {
	var (
		romPath     = flag.String("rom", "", "path to an iNES ROM file")
		configPath  = flag.String("config", "", "path to the configuration file")
		nogui       = flag.Bool("nogui", false, "run headless, without a window")
		frames      = flag.Int("frames", 0, "frame budget for headless mode (0 = unlimited)")
		strict      = flag.Bool("strict", false, "panic on unmapped opcodes")
		showVersion = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	path := *configPath
	if path == "" {
		path = app.DefaultConfigPath()
	}

	application, err := app.NewApplication(path)
	if err != nil {
		log.Fatalf("startup: %v", err)
	}
	if *strict {
		application.Config().Emulation.StrictOpcodes = true
		application.System().CPU.SetStrict(true)
	}

	if *romPath == "" {
		flag.Usage()
		os.Exit(2)
	}
	if err := application.LoadROM(*romPath); err != nil {
		log.Fatalf("load ROM: %v", err)
	}

	if err := application.Run(*nogui, *frames); err != nil {
		log.Fatalf("run: %v", err)
	}
}
