package listener

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/chzyer/readline"
)

// Commands offered for tab completion.
var Commands = []string{"/fleet", "/logs", "/plan", "/execute", "/discard", "/load", "/help", "exit"}

var rl *readline.Instance
var mu sync.Mutex
var holdAsync bool
var heldLines []string

func Init(historyFile string) error {
	items := make([]readline.PrefixCompleterInterface, 0, len(Commands))
	for _, c := range Commands {
		items = append(items, readline.PcItem(c))
	}
	var err error
	rl, err = readline.NewEx(&readline.Config{
		Prompt:          "sarlink> ",
		HistoryFile:     historyFile,
		AutoComplete:    readline.NewPrefixCompleter(items...),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	return err
}

func Close() {
	if rl != nil {
		_ = rl.Close()
	}
}

func SetPrompt(p string) {
	mu.Lock()
	defer mu.Unlock()
	if rl != nil {
		rl.SetPrompt(p)
	}
}

// BeginInteractive holds asynchronous output until EndInteractive, so a
// confirmation prompt is not interleaved with journal lines.
func BeginInteractive() {
	mu.Lock()
	holdAsync = true
	mu.Unlock()
}

func EndInteractive() {
	mu.Lock()
	defer mu.Unlock()
	holdAsync = false
	for _, s := range heldLines {
		writeUnlocked(s)
	}
	heldLines = nil
}

func writeUnlocked(s string) {
	if rl == nil {
		fmt.Println(s)
		return
	}
	_, _ = rl.Write([]byte("\r\n" + s + "\r\n"))
	rl.Refresh()
}

// PrintAbove writes s above the prompt immediately.
func PrintAbove(s string) {
	mu.Lock()
	defer mu.Unlock()
	writeUnlocked(s)
}

// AsyncPrintln writes s above the prompt unless output is being held.
func AsyncPrintln(s string) {
	mu.Lock()
	defer mu.Unlock()
	if holdAsync {
		heldLines = append(heldLines, s)
		return
	}
	writeUnlocked(s)
}

// GetInput reads one line. ok is false on EOF or interrupt.
func GetInput() (line string, ok bool) {
	l, err := rl.Readline()
	if err == readline.ErrInterrupt {
		return "", true
	}
	if err == io.EOF || err != nil {
		return "", false
	}
	return strings.TrimSpace(l), true
}

func GetConfirmation(prompt string) string {
	mu.Lock()
	old := rl.Config.Prompt
	rl.SetPrompt(prompt)
	mu.Unlock()

	line, err := rl.Readline()
	if err != nil {
		line = ""
	}

	mu.Lock()
	rl.SetPrompt(old)
	mu.Unlock()
	return strings.TrimSpace(strings.ToLower(line))
}

func AskYesNo(question string) bool {
	BeginInteractive()
	defer EndInteractive()

	PrintAbove(question + " [y/n]")
	for {
		switch GetConfirmation("[y/n] > ") {
		case "y", "yes":
			return true
		case "n", "no", "":
			return false
		}
		PrintAbove("Please answer y/n.")
	}
}
