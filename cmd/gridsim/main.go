// Command gridsim wires the scheduler, registry, protection engine, and
// VPP controllers into the reference run described in the core's
// initial conditions. It is deliberately thin: everything it does is
// out of the deterministic core's scope per §1 — only the shape of the
// wiring is specified.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/pkg/browser"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/gridsim/kernel/monitor"
	"github.com/gridsim/kernel/protection"
	"github.com/gridsim/kernel/registry"
	"github.com/gridsim/kernel/sim"
	"github.com/gridsim/kernel/sink"
	"github.com/gridsim/kernel/vpp"
)

// Initial conditions from §6: oracle step 20ms, disturbance start
// 5.0s, reference horizon 70000ms.
const (
	oracleStepMS       = sim.VTimeInMillis(20)
	disturbanceStartMS = sim.VTimeInMillis(5000)
	referenceHorizonMS = sim.VTimeInMillis(70000)
)

var (
	tracePath     string
	monitorPort   int
	openDashboard bool
	horizonMS     int64
)

// main exits through atexit.Exit so the CSV trace's registered
// flush-and-close hook runs before the process ends.
func main() {
	if err := rootCmd().Execute(); err != nil {
		atexit.Exit(1)
	}
	atexit.Exit(0)
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gridsim",
		Short: "gridsim runs the reference protection and VPP scenario against the simulation kernel",
		RunE:  run,
	}

	cmd.Flags().StringVar(&tracePath, "trace", "gridsim_trace.csv", "path to write the oracle's CSV power trace")
	cmd.Flags().IntVar(&monitorPort, "monitor-port", 0, "port for the monitoring HTTP server (0 picks a random free port)")
	cmd.Flags().BoolVar(&openDashboard, "open", false, "open the monitoring dashboard in a browser once the server starts")
	cmd.Flags().Int64Var(&horizonMS, "horizon-ms", int64(referenceHorizonMS), "virtual-time horizon to run to, in milliseconds")

	return cmd
}

// loadEnv loads a .env file if present, matching the reference run's
// convention of keeping local overrides (trace paths, ports) out of the
// command line. A missing .env file is not an error.
func loadEnv() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("gridsim: could not load .env: %v", err)
	}
}

func run(*cobra.Command, []string) error {
	loadEnv()

	sched := sim.NewScheduler()
	reg := registry.New()

	line := reg.Create()
	registry.Emplace[protection.ProtectiveComponent](reg, line, protection.OverCurrentProtection{
		PickupKA: 5.0, DelayMS: 200, StageName: "OC-L1P-Fast",
	})
	registry.Emplace[protection.ProtectiveComponent](reg, line, protection.DistanceProtection{
		ZSet: [3]float64{5, 15, 25}, TMS: [3]int32{0, 300, 700},
	})
	protection.NewBreakerAgent(line).Run(sched)

	engine := protection.NewEngine(sched, reg)
	engine.Run()

	csv := sink.NewCSV(tracePath)
	if err := csv.Init(); err != nil {
		return fmt.Errorf("gridsim: could not start CSV trace: %w", err)
	}
	sched.AcceptHook(sink.NewConsole(log.Default()))

	oracle := vpp.NewOracle(sched, reg, oracleStepMS, disturbanceStartMS, csv)
	oracle.Run()

	evController := vpp.NewController(sched, reg)
	evController.Run()

	reporter := monitor.GopsutilReporter{}
	server := monitor.NewServer(sched, engine, map[string]*vpp.Controller{"ev_vpp": evController}, reporter).
		WithPortNumber(monitorPort)

	addr, err := server.ListenAndServe()
	if err != nil {
		return fmt.Errorf("gridsim: could not start monitor: %w", err)
	}
	log.Printf("gridsim: monitoring on http://%s", addr)

	if openDashboard {
		if err := browser.OpenURL("http://" + addr); err != nil {
			log.Printf("gridsim: could not open browser: %v", err)
		}
	}

	sched.RunUntil(sim.VTimeInMillis(horizonMS))
	if err := sched.FatalErr(); err != nil {
		return fmt.Errorf("gridsim: %w", err)
	}

	return nil
}
