package main

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/fluxion-dev/fluxion/pkg/fluxion"
	"github.com/fluxion-dev/fluxion/pkg/fluxtest"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "fluxion-bench",
		Short: "Synthetic dispatch/select workloads for fluxion registries",
		Long: `fluxion-bench drives synthetic workloads against a fluxion registry:
counter stores, mounted selections, and a configurable dispatch volume.
It reports dispatch throughput and how many view renders the selections
actually performed.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newProfilesCmd())
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("fluxion-bench %s (%s)\n", version, commit)
		},
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRunCmd() *cobra.Command {
	var (
		profile    string
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a benchmark scenario",
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				scenario Scenario
				err      error
			)
			switch {
			case configPath != "":
				scenario, err = loadScenario(configPath)
				if err != nil {
					return err
				}
			default:
				var ok bool
				scenario, ok = profiles[profile]
				if !ok {
					return fmt.Errorf("unknown profile %q (see `fluxion-bench profiles`)", profile)
				}
			}
			return runScenario(cmd, scenario)
		},
	}

	cmd.Flags().StringVar(&profile, "profile", "fast", "built-in scenario profile")
	cmd.Flags().StringVar(&configPath, "config", "", "YAML scenario file (overrides --profile)")
	return cmd
}

func newProfilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List built-in scenario profiles",
		Run: func(cmd *cobra.Command, args []string) {
			names := make([]string, 0, len(profiles))
			for name := range profiles {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				p := profiles[name]
				fmt.Printf("%-10s stores=%-4d selections=%-4d dispatches=%-8d batch=%d\n",
					name, p.Stores, p.Selections, p.Dispatches, p.BatchSize)
			}
		},
	}
}

func runScenario(cmd *cobra.Command, s Scenario) error {
	reg := fluxion.New()

	storeNames := make([]string, s.Stores)
	for i := range storeNames {
		name := fmt.Sprintf("counter%d", i)
		storeNames[i] = name
		if _, err := reg.RegisterStore(name, counterConfig()); err != nil {
			return err
		}
	}

	h := fluxtest.New(reg)
	views := make([]*fluxtest.ViewHandle, s.Selections)
	for i := range views {
		store := storeNames[i%len(storeNames)]
		views[i] = h.Mount(func() {
			_ = fluxion.UseSelect(func(sel fluxion.SelectFunc) int {
				n, _ := sel(store).Call("getCount").(int)
				return n
			}, nil)
		})
	}

	start := time.Now()
	dispatchOne := func(i int) {
		reg.Dispatch(storeNames[i%len(storeNames)]).Call("increment")
	}

	if s.BatchSize > 1 {
		for i := 0; i < s.Dispatches; i += s.BatchSize {
			end := i + s.BatchSize
			if end > s.Dispatches {
				end = s.Dispatches
			}
			lo, hi := i, end
			reg.Batch(func() {
				for j := lo; j < hi; j++ {
					dispatchOne(j)
				}
			})
		}
	} else {
		for i := 0; i < s.Dispatches; i++ {
			dispatchOne(i)
		}
	}
	elapsed := time.Since(start)

	totalRenders := 0
	for _, vh := range views {
		totalRenders += vh.RenderCount()
	}

	fmt.Fprintf(cmd.OutOrStdout(),
		"scenario=%s stores=%d selections=%d dispatches=%d batch=%d\n",
		s.Name, s.Stores, s.Selections, s.Dispatches, s.BatchSize)
	fmt.Fprintf(cmd.OutOrStdout(),
		"elapsed=%s dispatch_rate=%.0f/s renders=%d\n",
		elapsed.Round(time.Millisecond),
		float64(s.Dispatches)/elapsed.Seconds(),
		totalRenders)
	return nil
}

// counterConfig builds the counter store used by every scenario.
func counterConfig() fluxion.StoreConfig {
	return fluxion.StoreConfig{
		Reducer: func(state any, action fluxion.Action) any {
			n, _ := state.(int)
			if action.Type == "increment" {
				return n + 1
			}
			return n
		},
		Selectors: map[string]fluxion.Selector{
			"getCount": func(state any, _ ...any) any { return state },
		},
		Actions: map[string]fluxion.ActionCreator{
			"increment": func(_ ...any) fluxion.Action {
				return fluxion.Action{Type: "increment"}
			},
		},
	}
}
