// Command compose runs one composition document through the engine end to end and
// prints (or persists) the result.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/mhus/nimbus-world-sub007/internal/devserver"
	"github.com/mhus/nimbus-world-sub007/internal/document"
	"github.com/mhus/nimbus-world-sub007/internal/logging"
	"github.com/mhus/nimbus-world-sub007/internal/orchestrator"
	"github.com/mhus/nimbus-world-sub007/internal/persistence"
	"github.com/mhus/nimbus-world-sub007/internal/persistence/sqlite"
	"github.com/mhus/nimbus-world-sub007/internal/structure"
)

func main() {
	configFlag := flag.String("config", "", "path to a composition document (.yaml/.yml/.json)")
	seedFlag := flag.Int64("seed", 0, "override the document's seed")
	oceanRingsFlag := flag.Int("ocean-rings", 2, "ocean border ring width handed to GapFiller")
	generatePlansFlag := flag.Bool("generate-plans", false, "hand the assembled cell plan to the persistence store")
	persistFlag := flag.String("persist", "", "path to a sqlite database to persist cell plans into")
	serveFlag := flag.Bool("serve", false, "start the devserver debug HTTP/websocket server after composing")
	addrFlag := flag.String("addr", ":8088", "devserver listen address, used with --serve")
	flag.Parse()

	if *configFlag == "" {
		printUsage()
		os.Exit(1)
	}

	var hub *devserver.Hub
	logW := logging.Default("compose")
	if *serveFlag {
		hub = devserver.NewHub()
		go hub.Run()
		logW = logging.New(hub, "compose")
	}

	comp, err := document.Load(*configFlag)
	if err != nil {
		fmt.Printf("❌ failed to load %s: %v\n", *configFlag, err)
		os.Exit(1)
	}
	if *seedFlag != 0 {
		comp.Seed = *seedFlag
		comp.HasSeed = true
	}
	fmt.Printf("✓ loaded composition %q (worldId=%s, %d features)\n", comp.Name, comp.WorldID, len(comp.Features))

	var store persistence.Store
	if *persistFlag != "" {
		s, err := sqlite.Open(*persistFlag)
		if err != nil {
			fmt.Printf("❌ failed to open persistence store %s: %v\n", *persistFlag, err)
			os.Exit(1)
		}
		defer s.Close()
		store = s
		fmt.Printf("✓ opened persistence store %s\n", *persistFlag)
	}

	res := orchestrator.Orchestrate(comp, orchestrator.Options{
		TemplateProvider: structure.BuiltinTemplates(),
		OceanBorderRings: *oceanRingsFlag,
		GenerateHexGrids: *generatePlansFlag,
		Store:            store,
		Log:              logW,
	})

	if !res.Success {
		fmt.Printf("❌ composition failed: %s\n", res.ErrorMessage)
		for _, w := range res.Warnings {
			fmt.Printf("  - %s\n", w)
		}
		if !*serveFlag {
			os.Exit(1)
		}
	} else {
		fmt.Println("✓ composition succeeded")
		fmt.Printf("  biomes: %d  flows: %d  structures: %d  filled cells: %d  plans: %d\n",
			res.TotalBiomes, res.TotalFlows, len(res.Structure.HexGrids), res.FilledGrids, len(res.Plans))
		for _, w := range res.Warnings {
			fmt.Printf("  ⚠ %s\n", w)
		}
	}

	if *serveFlag {
		server := devserver.NewServer(hub)
		server.SetPlans(res.Plans)
		fmt.Printf("✓ devserver listening on %s (GET /plan, GET /cell/{q}/{r}, GET /ws)\n", *addrFlag)
		if err := http.ListenAndServe(*addrFlag, server.Router()); err != nil {
			fmt.Printf("❌ devserver exited: %v\n", err)
			os.Exit(1)
		}
	}
}

func printUsage() {
	fmt.Println("Usage: compose --config <document.yaml> [--seed N] [--ocean-rings N]")
	fmt.Println("               [--generate-plans] [--persist cells.db] [--serve] [--addr :8088]")
}
