// Package main is the entry point for the playoeis CLI
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/holmesrichards/playoeis/pkg/api"
	"github.com/holmesrichards/playoeis/pkg/export"
	"github.com/holmesrichards/playoeis/pkg/midiio"
	"github.com/holmesrichards/playoeis/pkg/oeis"
	"github.com/holmesrichards/playoeis/pkg/sequence"
	"github.com/holmesrichards/playoeis/pkg/tui"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	searchTerm  string
	inPort      string
	outPort     string
	pmod        int
	poff        int
	restCode    string
	loop        bool
	nstep       int
	onEnd       string
	verbose     bool
	serverPort  int
	showTerms   int
	outputFile  string
	exportTempo float64
)

func main() {
	defer midiio.CloseDriver()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "playoeis",
	Short: "Play OEIS integer sequences through live MIDI",
	Long: `playoeis substitutes incoming MIDI note numbers with values derived
from an OEIS integer sequence and forwards them to an output device.

Each note-on from the input port advances one step through the sequence;
the step's value (reduced modulo --pmod, offset by --poff) replaces the
note number while velocity and channel pass through unchanged. Values can
be classified as rests with --rest.

Examples:
  playoeis play A000045
  playoeis play --search "prime numbers" --loop --rest z
  playoeis play A001223 --pmod 24 --poff 48 --nstep 64
  playoeis show A000045
  playoeis ports
  playoeis tui
  playoeis serve --port 8080`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
}

var playCmd = &cobra.Command{
	Use:   "play [entry]",
	Short: "Route live MIDI through a sequence",
	Long: `Fetches an OEIS entry (by ID, or the first result of --search) and
substitutes incoming note numbers with its terms until interrupted or,
in one-shot mode with --on-end exit, until the sequence runs out.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

var showCmd = &cobra.Command{
	Use:   "show [entry]",
	Short: "Print a sequence and its note mapping",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runShow,
}

var exportCmd = &cobra.Command{
	Use:   "export [entry]",
	Short: "Render a sequence to a standard MIDI file",
	Long: `Fetches an OEIS entry, applies the note mapping, and writes the result
as a single-track MIDI file (one step per 16th note) for previewing
without a live input device.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List available MIDI ports",
	RunE:  runPorts,
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive terminal UI",
	RunE:  runTUI,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	RunE:  runServe,
}

func init() {
	// Transform flags are shared by play, show, and tui
	rootCmd.PersistentFlags().IntVar(&pmod, "pmod", 88, "Reduce sequence values modulo n")
	rootCmd.PersistentFlags().IntVar(&poff, "poff", 24, "Offset notes by n after the modulus")
	rootCmd.PersistentFlags().StringVar(&restCode, "rest", "", "Treat values as rests: n negatives, z zeros, p positives (letters combine)")

	// play command
	playCmd.Flags().BoolVar(&loop, "loop", false, "Loop through the sequence forever")
	playCmd.Flags().StringVar(&searchTerm, "search", "", "Search OEIS and use the first result (entry argument ignored)")
	playCmd.Flags().StringVar(&inPort, "iport", "", "Input port name (default: first available)")
	playCmd.Flags().StringVar(&outPort, "oport", "", "Output port name (default: first available)")
	playCmd.Flags().IntVar(&nstep, "nstep", 0, "Reset the loop every n steps, or play at most n steps (default: sequence length)")
	playCmd.Flags().StringVar(&onEnd, "on-end", "ignore", "One-shot behavior after the last step: ignore or exit")
	playCmd.Flags().BoolVar(&verbose, "verbose", false, "Print diagnostics")

	// show command
	showCmd.Flags().StringVar(&searchTerm, "search", "", "Search OEIS and use the first result")
	showCmd.Flags().IntVar(&showTerms, "terms", 16, "Number of steps to print")

	// export command
	exportCmd.Flags().StringVar(&searchTerm, "search", "", "Search OEIS and use the first result")
	exportCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output .mid file path (default: <entry>.mid)")
	exportCmd.Flags().Float64Var(&exportTempo, "tempo", 120, "Tempo in BPM")
	exportCmd.Flags().IntVar(&nstep, "nstep", 0, "Export at most n steps (default: sequence length)")

	// serve command
	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 8080, "Server port")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(portsCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(serveCmd)
}

// resolveEntry finds the OEIS entry named by the args or the search flag
func resolveEntry(client *oeis.Client, args []string) (oeis.Entry, error) {
	if searchTerm != "" {
		results, err := client.Search(searchTerm)
		if err != nil {
			return oeis.Entry{}, err
		}
		if verbose {
			fmt.Println("Results (first one used):")
			for _, r := range results {
				fmt.Printf("  %s %s\n", r.ID(), r.Name)
			}
		}
		return results[0], nil
	}
	if len(args) == 0 {
		return oeis.Entry{}, errors.New("need an entry ID or --search")
	}
	return client.Lookup(args[0])
}

func transformOptions() (sequence.Options, error) {
	rest, err := sequence.ParseRestSpec(restCode)
	if err != nil {
		return sequence.Options{}, err
	}
	return sequence.Options{
		PMod:  pmod,
		POff:  poff,
		Rest:  rest,
		Loop:  loop,
		NStep: nstep,
	}, nil
}

func runPlay(cmd *cobra.Command, args []string) error {
	policy, err := midiio.ParseExhaustPolicy(onEnd)
	if err != nil {
		return err
	}
	opts, err := transformOptions()
	if err != nil {
		return err
	}

	client := oeis.NewClient()
	entry, err := resolveEntry(client, args)
	if err != nil {
		return err
	}
	if verbose {
		fmt.Printf("Playing %s: %s\n", entry.ID(), entry.Name)
	}

	terms, err := client.FetchTerms(entry.Number)
	if err != nil {
		return err
	}
	if verbose {
		head := terms
		if len(head) > 10 {
			head = head[:10]
		}
		fmt.Printf("Data starts with %v (%d terms)\n", head, len(terms))
	}

	steps, err := sequence.Transform(terms, opts)
	if err != nil {
		return err
	}

	in, err := midiio.FindIn(inPort)
	if err != nil {
		return err
	}
	out, err := midiio.OpenOutput(outPort)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()

	player, err := sequence.NewPlayer(steps, opts, out)
	if err != nil {
		return err
	}

	router := midiio.NewRouter(in, out, player)
	router.OnEnd = policy
	router.Verbose = verbose

	fmt.Printf("Routing %s -> %s, %d steps", in.String(), out.Name(), player.Length())
	if loop {
		fmt.Print(" (looping)")
	}
	fmt.Println("\nPress Ctrl+C to stop...")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := router.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	opts, err := transformOptions()
	if err != nil {
		return err
	}

	client := oeis.NewClient()
	entry, err := resolveEntry(client, args)
	if err != nil {
		return err
	}

	terms, err := client.FetchTerms(entry.Number)
	if err != nil {
		return err
	}
	steps, err := sequence.Transform(terms, opts)
	if err != nil {
		return err
	}

	fmt.Printf("%s: %s\n", entry.ID(), entry.Name)
	fmt.Printf("%d terms, pmod=%d poff=%d rest=%s\n\n", len(terms), pmod, poff, opts.Rest)

	n := showTerms
	if n > len(steps) {
		n = len(steps)
	}
	for i := 0; i < n; i++ {
		fmt.Printf("%4d  %12d  ->  %s\n", i, terms[i], steps[i])
	}
	if n < len(steps) {
		fmt.Printf("... %d more\n", len(steps)-n)
	}
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	opts, err := transformOptions()
	if err != nil {
		return err
	}

	client := oeis.NewClient()
	entry, err := resolveEntry(client, args)
	if err != nil {
		return err
	}

	terms, err := client.FetchTerms(entry.Number)
	if err != nil {
		return err
	}
	steps, err := sequence.Transform(terms, opts)
	if err != nil {
		return err
	}
	if nstep > 0 && nstep < len(steps) {
		steps = steps[:nstep]
	}

	output := outputFile
	if output == "" {
		output = entry.ID() + ".mid"
	}

	if err := export.WriteSMFFile(steps, export.Options{Tempo: exportTempo}, output); err != nil {
		return err
	}

	fmt.Printf("Exported %s (%d steps) -> %s\n", entry.ID(), len(steps), output)
	return nil
}

func runPorts(cmd *cobra.Command, args []string) error {
	fmt.Println("Input ports:")
	ins := midiio.InPortNames()
	if len(ins) == 0 {
		fmt.Println("  (none)")
	}
	for i, name := range ins {
		fmt.Printf("  %d: %s\n", i, name)
	}

	fmt.Println("Output ports:")
	outs := midiio.OutPortNames()
	if len(outs) == 0 {
		fmt.Println("  (none)")
	}
	for i, name := range outs {
		fmt.Printf("  %d: %s\n", i, name)
	}
	return nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	opts, err := transformOptions()
	if err != nil {
		return err
	}
	opts.Loop = true // interactive playback keeps going
	return tui.Run(opts)
}

func runServe(cmd *cobra.Command, args []string) error {
	fmt.Printf("Starting API server on port %d...\n", serverPort)
	return api.StartServer(serverPort)
}
