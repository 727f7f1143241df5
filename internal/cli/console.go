package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"sarlink/internal/display"
	"sarlink/internal/events"
	"sarlink/internal/listener"
	"sarlink/internal/logger"
	"sarlink/internal/mission"
	"sarlink/internal/planner"
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Interactive mission console (default)",
	RunE:  runConsole,
}

const consoleHelp = `Type a mission instruction to request a plan, then confirm it with y/n.
Commands:
  /fleet                  show robot status
  /logs                   show the mission log
  /plan                   show the plan awaiting confirmation
  /execute                execute the plan awaiting confirmation
  /discard                discard the plan awaiting confirmation
  /load <file> [names..]  propose a pre-authored plan from a JSON file
  /help                   this text
  exit                    quit`

func runConsole(cmd *cobra.Command, args []string) error {
	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	if err := listener.Init(".sarlink_history"); err != nil {
		return fmt.Errorf("failed to init terminal input: %w", err)
	}
	defer listener.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.bus.SubscribeTypes(func(evt events.Event) {
		if ev, ok := evt.Payload.(events.LogAppendedEvent); ok {
			listener.AsyncPrintln(display.FormatLogEntry(ev.Entry))
		}
	}, events.EventLogAppended)

	go func() {
		if err := a.coord.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Log.Printf("simulator stopped: %v", err)
		}
	}()

	if !a.llm.Available() {
		listener.AsyncPrintln(fmt.Sprintf("Planner unavailable: %v", a.llm.Err()))
	}
	listener.AsyncPrintln("SAR-LINK console ready. Type /help for commands, 'exit' to quit.")

	for ctx.Err() == nil {
		input, ok := listener.GetInput()
		if !ok || strings.EqualFold(input, "exit") {
			break
		}
		if input == "" {
			continue
		}
		if strings.HasPrefix(input, "/") {
			runCommand(a.coord, input)
			continue
		}
		proposeAndConfirm(ctx, a.coord, input)
	}
	fmt.Println("Goodbye!")
	return nil
}

func runCommand(coord *mission.Coordinator, input string) {
	fields := strings.Fields(input)
	switch fields[0] {
	case "/fleet":
		listener.PrintAbove(display.FormatFleet(coord.Fleet()))
	case "/logs":
		listener.PrintAbove(display.FormatLogs(coord.Logs()))
	case "/plan":
		listener.PrintAbove(display.FormatProposal(coord.Current()))
	case "/execute":
		execute(coord, "")
	case "/discard":
		if _, err := coord.Discard(""); err != nil {
			listener.PrintAbove(err.Error())
		}
	case "/load":
		if len(fields) < 2 {
			listener.PrintAbove("usage: /load <file> [names...]")
			return
		}
		plans, missing, err := loadPlans(fields[1], fields[2:])
		if len(missing) > 0 {
			listener.PrintAbove(fmt.Sprintf("[Load] Missing plans: %v", missing))
		}
		if err != nil {
			listener.PrintAbove(fmt.Sprintf("[Load] %v", err))
			return
		}
		if len(plans) > 1 {
			listener.PrintAbove(display.FormatPlansCatalog(fields[1], plans))
			listener.PrintAbove(fmt.Sprintf("Proposing the first plan, %q.", plans[0].Name))
		}
		p, err := coord.Load(plans[0])
		if err != nil {
			listener.PrintAbove(fmt.Sprintf("[Load] %v", err))
			return
		}
		confirm(coord, p)
	case "/help":
		listener.PrintAbove(consoleHelp)
	default:
		listener.PrintAbove(fmt.Sprintf("Unknown command %s. Type /help.", fields[0]))
	}
}

func proposeAndConfirm(ctx context.Context, coord *mission.Coordinator, instruction string) {
	listener.AsyncPrintln("Generating plan...")
	p, err := coord.Submit(ctx, instruction)
	if err != nil {
		if !errors.Is(err, planner.ErrEmptyInstruction) {
			listener.AsyncPrintln(err.Error())
		}
		return
	}
	logger.Log.Printf("Plan %s for %q (FULL):\n%s", p.ID, instruction, display.FormatPlanFull(p.Plan))
	confirm(coord, p)
}

func confirm(coord *mission.Coordinator, p *mission.Proposal) {
	listener.PrintAbove(display.FormatProposal(p))
	if len(p.Plan.Tasks) == 0 {
		_, _ = coord.Discard(p.ID)
		return
	}
	if listener.AskYesNo("Execute this plan?") {
		execute(coord, p.ID)
		return
	}
	if _, err := coord.Discard(p.ID); err != nil {
		listener.PrintAbove(err.Error())
	}
}

func execute(coord *mission.Coordinator, id string) {
	exec, err := coord.Execute(id)
	if err != nil {
		listener.PrintAbove(err.Error())
		return
	}
	logger.Log.Print(display.FormatExecutionMetrics(&exec.Metrics))
	if n := len(exec.Result.Unresolved); n > 0 {
		listener.AsyncPrintln(fmt.Sprintf("[Plan %s] %d task(s) assigned, %d skipped", exec.Proposal.ID, exec.Result.Assigned, n))
	}
}
