package cli

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrz1836/corecall/internal/output"
	coreerr "github.com/mrz1836/corecall/pkg/errors"
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var backtraceAsync bool

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var backtraceCmd = &cobra.Command{
	Use:   "backtrace",
	Short: "Print a stack trace captured inside the core",
	Long: `Ask the core for a stack trace. Without --async it is captured on the
calling goroutine through the blocking gateway; with --async it is captured
on a core worker.`,
	Args: cobra.NoArgs,
	RunE: runBacktrace,
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var greetCmd = &cobra.Command{
	Use:   "greet <verb> <name>",
	Short: "Have the core greet someone",
	Example: `  corecall greet Hello world
  # Hello, world!`,
	Args: cobra.ExactArgs(2),
	RunE: runGreet,
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var sleepCmd = &cobra.Command{
	Use:   "sleep <duration>...",
	Short: "Run concurrent sleeps on the core",
	Long: `Start one asynchronous sleep per duration, all at once, and print each
reply as it is delivered on the main queue. Replies arrive in order of
completion, not of issue.

Example:
  corecall sleep 300ms 100ms 200ms`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSleep,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	for _, c := range []*cobra.Command{backtraceCmd, greetCmd, sleepCmd} {
		c.GroupID = "diagnostics"
		rootCmd.AddCommand(c)
	}
	backtraceCmd.Flags().BoolVar(&backtraceAsync, "async", false, "capture on a core worker")
}

func runBacktrace(cmd *cobra.Command, _ []string) error {
	w, err := openWallet()
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd)
	defer cancel()

	trace, err := w.Backtrace(ctx, backtraceAsync)
	if err != nil {
		return err
	}
	result := struct {
		Async     bool   `json:"async"`
		Backtrace string `json:"backtrace"`
	}{backtraceAsync, trace}
	return formatter.Render(cmd.OutOrStdout(), result, func(w io.Writer) error {
		out(w, "%s", trace)
		return nil
	})
}

func runGreet(cmd *cobra.Command, args []string) error {
	w, err := openWallet()
	if err != nil {
		return err
	}
	text, err := w.Greeting(args[0], args[1])
	if err != nil {
		return err
	}
	result := struct {
		Greeting string `json:"greeting"`
	}{text}
	return formatter.Render(cmd.OutOrStdout(), result, func(w io.Writer) error {
		outln(w, text)
		return nil
	})
}

// sleepReply is one delivered sleep, in delivery order.
type sleepReply struct {
	Requested string `json:"requested"`
	Reply     string `json:"reply,omitempty"`
	Error     string `json:"error,omitempty"`
}

func runSleep(cmd *cobra.Command, args []string) error {
	durations := make([]time.Duration, len(args))
	for i, a := range args {
		d, err := time.ParseDuration(a)
		if err != nil || d < 0 {
			return coreerr.WithDetails(coreerr.ErrInvalidInput, map[string]string{"duration": a})
		}
		durations[i] = d
	}

	w, err := openWallet()
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd)
	defer cancel()

	// Continuations run on the main queue one at a time, so replies needs no lock.
	var (
		replies []sleepReply
		wg      sync.WaitGroup
	)
	textOut := !formatter.IsJSON()
	stdout := cmd.OutOrStdout()
	for i, d := range durations {
		wg.Add(1)
		w.SleepAsync(d,
			func(text string) {
				defer wg.Done()
				replies = append(replies, sleepReply{Requested: args[i], Reply: text})
				if textOut {
					out(stdout, "%-8s %s\n", args[i], text)
				}
			},
			func(err error) {
				defer wg.Done()
				replies = append(replies, sleepReply{Requested: args[i], Error: err.Error()})
				if textOut {
					out(stdout, "%-8s error: %v\n", args[i], err)
				}
			})
	}

	if err := waitGroup(ctx, &wg); err != nil {
		return err
	}
	if textOut {
		return nil
	}
	return output.WriteJSON(stdout, replies)
}

// waitGroup waits for wg or ctx, whichever ends first.
func waitGroup(ctx context.Context, wg *sync.WaitGroup) error {
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
