package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/myducklabs/myduck/internal/config"
	"github.com/myducklabs/myduck/internal/daemon"
	"github.com/myducklabs/myduck/internal/policy"
	"github.com/myducklabs/myduck/internal/prompt"
	chatservice "github.com/myducklabs/myduck/internal/service/chat"
	duckservice "github.com/myducklabs/myduck/internal/service/duck"
	"github.com/myducklabs/myduck/internal/service/provider"
	"github.com/myducklabs/myduck/internal/ui"
)

var exitPattern = regexp.MustCompile(`(?i)^/?(exit|quit|q)$`)

func runChat(cmd *cobra.Command) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	printSplash(out)

	bridge := provider.NewBridge(cfg.Provider)
	available := bridge.DetectAvailable(ctx)
	if len(available) == 0 {
		fmt.Fprintln(out, "[My Duck] No local CLI providers found.")
		fmt.Fprintln(out, "Install one of these and login first:")
		fmt.Fprintln(out, "- claude (then run: claude auth)")
		fmt.Fprintln(out, "- codex (then run: codex login)")
		return nil
	}

	client := daemon.NewClient(cfg.Daemon)
	backendReady := client.EnsureRunning(ctx)

	prefs := config.LoadPrefs()
	preferred := provider.Normalize(firstNonEmpty(cfg.Provider.Preferred, prefs.CliProvider, prefs.LastProvider))

	reader := bufio.NewReader(cmd.InOrStdin())
	selected := selectProvider(reader, out, preferred, available)

	prefs.AuthMode = "cli"
	prefs.CliProvider = string(selected)
	prefs.LastProvider = string(selected)
	if !config.SavePrefs(prefs) {
		fmt.Fprintln(out, "[My Duck] Could not persist config. Continuing without saved preferences.")
	}

	svc := duckservice.NewService(policy.New(), client, bridge, backendReady)
	conversation := chatservice.NewConversation(prompt.ChatSystemPrompt)

	for {
		userInput, readErr := readLine(reader, out, "You> ")
		userInput = strings.TrimSpace(userInput)

		if userInput == "" {
			if readErr != nil || !stdinIsTerminal() {
				break
			}
			continue
		}

		if exitPattern.MatchString(userInput) {
			fmt.Fprintln(out, "\nDuck> Coin Coin. See you soon.")
			break
		}

		conversation.AddUser(userInput)

		language := policy.DetectLanguage(userInput)
		var answer string
		if policy.LooksLikeSolutionRequest(userInput) {
			answer = policy.RefusalQuestion(language)
		} else {
			fmt.Fprintln(out, "... the duck is thinking ...")
			answer = svc.Ask(ctx, duckservice.Question{
				Provider:  selected,
				Messages:  conversation.Messages(),
				UserInput: userInput,
				Language:  language,
			})
		}

		conversation.AddAssistant(answer)
		fmt.Fprintf(out, "\nDuck> %s\n\n", answer)

		if readErr != nil {
			break
		}
	}

	return nil
}

// selectProvider asks the user to pick when more than one provider is
// usable; the preferred provider wins on empty or invalid input.
func selectProvider(reader *bufio.Reader, out io.Writer, preferred provider.Identity, available []provider.Identity) provider.Identity {
	fallback := available[0]
	for _, id := range available {
		if id == preferred {
			fallback = preferred
			break
		}
	}

	if len(available) == 1 {
		return fallback
	}

	fmt.Fprintln(out, "Choose your provider:")
	for i, id := range available {
		mark := ""
		if id == fallback {
			mark = " (default)"
		}
		fmt.Fprintf(out, "  %d) %s%s\n", i+1, id.Label(), mark)
	}

	answer, _ := readLine(reader, out, fmt.Sprintf("Provider [1-%d]: ", len(available)))
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return fallback
	}

	if index, err := strconv.Atoi(answer); err == nil {
		if index >= 1 && index <= len(available) {
			return available[index-1]
		}
	}

	if normalized := provider.Normalize(answer); normalized != "" {
		for _, id := range available {
			if id == normalized {
				return normalized
			}
		}
	}

	fmt.Fprintln(out, "Invalid selection. Using default provider.")
	return fallback
}

func readLine(reader *bufio.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprint(out, label)
	line, err := reader.ReadString('\n')
	return strings.TrimRight(line, "\r\n"), err
}

func printSplash(out io.Writer) {
	banner := ui.Banner("Welcome to My Duck.")

	if !stdoutIsTerminal() {
		fmt.Fprintln(out, banner)
		fmt.Fprintln(out, ui.DuckASCII)
		return
	}

	fmt.Fprintf(out, "\x1b[38;5;209m%s\x1b[0m\n", banner)
	fmt.Fprintln(out, ui.RenderDuck())
	fmt.Fprintln(out)
}

func stdoutIsTerminal() bool {
	info, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

func stdinIsTerminal() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
