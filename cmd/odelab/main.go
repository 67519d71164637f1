package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/odelab/internal/config"
	"github.com/san-kum/odelab/internal/demo"
	"github.com/san-kum/odelab/internal/diffeq"
	"github.com/san-kum/odelab/internal/initcond"
	"github.com/san-kum/odelab/internal/integrators"
	"github.com/san-kum/odelab/internal/nlsolve"
	"github.com/san-kum/odelab/internal/sim"
)

var (
	dt         float64
	stepper    string
	strategy   string
	adaptive   bool
	absTol     float64
	relTol     float64
	configFile string
	exportPath string
	plotCol    int
	verbose    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "odelab",
		Short: "differential-problem initialization and solving lab",
	}

	runCmd := &cobra.Command{
		Use:   "run [problem]",
		Short: "initialize and solve a demo problem",
		Args:  cobra.ExactArgs(1),
		RunE:  runProblem,
	}
	runCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	runCmd.Flags().StringVar(&stepper, "stepper", config.DefaultStepper, "stepper (euler|rk4|rk45)")
	runCmd.Flags().StringVar(&strategy, "strategy", "check", "init strategy (skip|check|override)")
	runCmd.Flags().BoolVar(&adaptive, "adaptive", false, "adaptive stepping (rk45)")
	runCmd.Flags().Float64Var(&absTol, "abs-tol", config.DefaultAbsTol, "absolute tolerance")
	runCmd.Flags().Float64Var(&relTol, "rel-tol", config.DefaultRelTol, "relative tolerance")
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&exportPath, "export", "", "export result as json")
	runCmd.Flags().IntVar(&plotCol, "plot-col", 0, "state component to plot")

	checkCmd := &cobra.Command{
		Use:   "check [problem]",
		Short: "report initial-value consistency",
		Args:  cobra.ExactArgs(1),
		RunE:  checkProblem,
	}
	checkCmd.Flags().Float64Var(&absTol, "abs-tol", config.DefaultAbsTol, "absolute tolerance")
	checkCmd.Flags().Float64Var(&relTol, "rel-tol", config.DefaultRelTol, "relative tolerance")

	liveCmd := &cobra.Command{
		Use:   "live [problem]",
		Short: "watch a solve live",
		Args:  cobra.ExactArgs(1),
		RunE:  liveProblem,
	}
	liveCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	liveCmd.Flags().StringVar(&stepper, "stepper", config.DefaultStepper, "stepper")
	liveCmd.Flags().IntVar(&plotCol, "plot-col", 0, "state component to plot")

	configCmd := &cobra.Command{
		Use:   "config [path]",
		Short: "write a default config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return config.Save(args[0], config.DefaultConfig())
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list demo problems",
		RunE:  listProblems,
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.AddCommand(runCmd, checkCmd, liveCmd, configCmd, listCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errStyle.Render(err.Error()))
		os.Exit(1)
	}
}

func newLogger() *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	log, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

func solveConfig() (sim.Config, error) {
	cfg := sim.DefaultConfig()
	if configFile != "" {
		fileCfg, err := config.Load(configFile)
		if err != nil {
			return cfg, err
		}
		dt = fileCfg.Dt
		stepper = fileCfg.Stepper
		strategy = fileCfg.Strategy
		absTol = fileCfg.AbsTol
		relTol = fileCfg.RelTol
		adaptive = fileCfg.Adaptive
	}
	strat, err := initcond.ParseStrategy(strategy)
	if err != nil {
		return cfg, err
	}
	cfg.Dt = dt
	cfg.Adaptive = adaptive
	cfg.AbsTol = absTol
	cfg.RelTol = relTol
	cfg.Strategy = strat
	cfg.InitAlgorithm = nlsolve.NewNewton()
	return cfg, nil
}

func runProblem(cmd *cobra.Command, args []string) error {
	prob, err := demo.New(args[0])
	if err != nil {
		return err
	}
	cfg, err := solveConfig()
	if err != nil {
		return err
	}
	step, err := integrators.New(stepper)
	if err != nil {
		return err
	}

	log := newLogger()
	defer log.Sync()

	solver := sim.New(prob, step, sim.WithLogger(log))
	result, err := solver.Run(context.Background(), cfg)
	if err != nil {
		return err
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("%s  (%s, %s init)", args[0], prob.Kind(), cfg.Strategy)))
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "steps\t%d\n", result.StepsTaken)
	fmt.Fprintf(w, "t final\t%.4f\n", result.Times[len(result.Times)-1])
	fmt.Fprintf(w, "disc order\t%s\n", result.DiscOrder)
	if len(result.DiscPoints) > 0 {
		fmt.Fprintf(w, "lag points\t%d scheduled\n", len(result.DiscPoints))
	}
	w.Flush()

	if plotCol >= 0 && plotCol < prob.Dim() {
		series := make([]float64, len(result.States))
		for i, s := range result.States {
			series[i] = s[plotCol]
		}
		fmt.Println(asciigraph.Plot(series, asciigraph.Height(12), asciigraph.Width(72),
			asciigraph.Caption(fmt.Sprintf("u[%d](t)", plotCol))))
	}

	if exportPath != "" {
		return exportResult(exportPath, args[0], result)
	}
	return nil
}

func exportResult(path, name string, result *sim.Result) error {
	out := struct {
		Problem   string          `json:"problem"`
		Times     []float64       `json:"times"`
		States    []diffeq.State  `json:"states"`
		Steps     int             `json:"steps"`
		DiscOrder string          `json:"disc_order"`
		Init      initcond.Result `json:"init"`
	}{name, result.Times, result.States, result.StepsTaken, result.DiscOrder.String(), result.Init}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func checkProblem(cmd *cobra.Command, args []string) error {
	prob, err := demo.New(args[0])
	if err != nil {
		return err
	}

	snap := initcond.NewSnapshot(prob.U0, make(diffeq.State, prob.Dim()), prob.P, prob.TSpan[0])
	res, err := initcond.GetInitialValues(prob, snap, initcond.Check, initcond.Options{
		AbsTol: absTol,
		RelTol: relTol,
	})

	fmt.Println(headerStyle.Render(fmt.Sprintf("%s  (%s)", args[0], prob.Kind())))
	var cerr *initcond.ConsistencyError
	switch {
	case errors.As(err, &cerr):
		fmt.Println(failStyle.Render("INCONSISTENT"))
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		for _, i := range cerr.Bad {
			fmt.Fprintf(w, "  u[%d]\tresidual %.6g\n", i, cerr.Residual[i])
		}
		fmt.Fprintf(w, "  tolerance\tatol=%.3g rtol=%.3g\n", cerr.AbsTol, cerr.RelTol)
		w.Flush()
		os.Exit(1)
	case err != nil:
		return err
	}

	fmt.Println(passStyle.Render("CONSISTENT"))
	fmt.Printf("  state  %s\n", formatVec(res.State))
	fmt.Printf("  params %s\n", formatVec(diffeq.State(res.Params)))
	return nil
}

func listProblems(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, name := range demo.Names() {
		prob, err := demo.New(name)
		if err != nil {
			return err
		}
		extra := ""
		if prob.HasDelays() {
			extra = fmt.Sprintf("lags=%v", prob.ConstLags)
		}
		if prob.Init != nil {
			extra = strings.TrimSpace(extra + " override-capable")
		}
		fmt.Fprintf(w, "%s\t%s\tdim=%d\t%s\n", name, prob.Kind(), prob.Dim(), extra)
	}
	return w.Flush()
}

func liveProblem(cmd *cobra.Command, args []string) error {
	prob, err := demo.New(args[0])
	if err != nil {
		return err
	}
	step, err := integrators.New(stepper)
	if err != nil {
		return err
	}
	model, err := newLiveModel(args[0], prob, step, dt, plotCol)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(model).Run()
	return err
}

func formatVec(v diffeq.State) string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = fmt.Sprintf("%.6g", x)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
