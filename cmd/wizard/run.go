package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	wizard "github.com/marcosfrias28/brymar-sub012"
	"github.com/marcosfrias28/brymar-sub012/internal/presentation/tui"
	"github.com/marcosfrias28/brymar-sub012/internal/runtime"
	yamlcfg "github.com/marcosfrias28/brymar-sub012/pkg/adapters/yaml"
	"github.com/marcosfrias28/brymar-sub012/pkg/domain"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run an interactive wizard session in the terminal",
	Long: `Starts a wizard session from a YAML configuration. Fields are set with
"name=value" lines; commands start with a colon (:next, :back, :save,
:load <id>, :done, :quit).`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		userID, _ := cmd.Flags().GetString("user")
		draftID, _ := cmd.Flags().GetString("draft")

		config, err := yamlcfg.Load(configPath)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		eng, err := buildEngine(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		session, err := eng.NewSession(config, wizard.ForUser(userID))
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		defer session.Close()

		ctx := cmd.Context()
		if draftID != "" {
			loaded, err := session.LoadDraft(ctx, draftID)
			if err != nil {
				fmt.Printf("Error loading draft: %v\n", err)
				os.Exit(1)
			}
			if !loaded {
				fmt.Println(tui.Notice("draft not found or expired, starting fresh"))
			}
		}

		if err := runSession(ctx, session); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringP("user", "u", "", "User ID to attribute drafts and events to")
	runCmd.Flags().String("draft", "", "Resume an existing draft by ID")
}

func runSession(ctx context.Context, session *wizard.Session) error {
	render := tui.NewRenderer()
	scanner := bufio.NewScanner(os.Stdin)
	total := len(session.Config().Steps)

	printStep(session, render, total)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			session.Cancel()
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if !strings.HasPrefix(line, ":") {
			name, value, ok := strings.Cut(line, "=")
			if !ok {
				fmt.Println(tui.Notice(`expected "name=value" or a :command`))
				continue
			}
			session.UpdateData(map[string]any{
				strings.TrimSpace(name): parseValue(strings.TrimSpace(value)),
			})
			continue
		}

		cmd, arg, _ := strings.Cut(line[1:], " ")
		done, err := handleCommand(ctx, session, render, total, cmd, strings.TrimSpace(arg))
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

func handleCommand(ctx context.Context, session *wizard.Session, render func(string) string, total int, cmd, arg string) (bool, error) {
	switch cmd {
	case "next", "n":
		advanced, result, err := session.NextStep(ctx)
		if err != nil {
			return false, err
		}
		if !result.Valid {
			fmt.Print(tui.FieldErrors(result.Errors))
			return false, nil
		}
		if !advanced {
			fmt.Println(tui.Notice("last step, use :done to publish"))
			return false, nil
		}
		printStep(session, render, total)

	case "back", "b":
		if session.PreviousStep() {
			printStep(session, render, total)
		} else {
			fmt.Println(tui.Notice("already at the first step"))
		}

	case "goto":
		if err := session.GoToStep(arg); err != nil {
			if errors.Is(err, domain.ErrSkipNotAllowed) || errors.Is(err, domain.ErrNoSuchStep) {
				fmt.Println(tui.Notice(err.Error()))
				return false, nil
			}
			return false, err
		}
		printStep(session, render, total)

	case "save", "s":
		outcome, result, err := session.SaveDraft(ctx)
		if err != nil {
			fmt.Println(tui.Notice("save failed on all tiers: " + err.Error()))
			return false, nil
		}
		if outcome.Degraded() {
			fmt.Println(tui.Notice(fmt.Sprintf("draft %s saved locally only (%d%% complete)", outcome.DraftID, result.Completion)))
		} else {
			fmt.Println(tui.Notice(fmt.Sprintf("draft %s saved (%d%% complete)", outcome.DraftID, result.Completion)))
		}

	case "load":
		loaded, err := session.LoadDraft(ctx, arg)
		if err != nil {
			return false, err
		}
		if !loaded {
			fmt.Println(tui.Notice("draft not found or expired"))
			return false, nil
		}
		printStep(session, render, total)

	case "done", "complete":
		doc, err := session.Complete(ctx)
		if err != nil {
			var cerr *runtime.CompletionError
			if errors.As(err, &cerr) {
				fmt.Println(tui.Notice("not ready to publish, fix step " + cerr.FirstInvalidStep))
				printStep(session, render, total)
				state := session.State()
				fmt.Print(tui.FieldErrors(state.FieldErrors[state.CurrentStepID]))
				return false, nil
			}
			return false, err
		}
		out, _ := json.MarshalIndent(doc, "", "  ")
		fmt.Println(string(out))
		return true, nil

	case "quit", "q":
		session.Cancel()
		fmt.Println(tui.Notice("session cancelled, draft kept"))
		return true, nil

	default:
		fmt.Println(tui.Notice("commands: :next :back :goto <step> :save :load <id> :done :quit"))
	}
	return false, nil
}

func printStep(session *wizard.Session, render func(string) string, total int) {
	step := session.CurrentStep()
	state := session.State()

	fmt.Print(tui.StepHeader(state.CurrentStepIndex, total, step.Title, session.Progress(step.ID)))
	if step.Description != "" {
		fmt.Print(render(step.Description))
	}
	if step.Schema != nil {
		var names []string
		for name := range step.Schema.Fields {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			marker := " "
			if step.Schema.Fields[name].Required {
				marker = "*"
			}
			current := ""
			if v, ok := state.Data[name]; ok {
				current = fmt.Sprintf(" = %v", v)
			}
			fmt.Printf("  %s %s%s\n", marker, name, current)
		}
	}
}

// parseValue interprets an input literal: JSON syntax when it parses
// (numbers, booleans, arrays), raw string otherwise.
func parseValue(raw string) any {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err == nil {
		return v
	}
	return raw
}
