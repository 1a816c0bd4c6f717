package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/editkit/block"
	"github.com/randalmurphal/editkit/config"
	"github.com/randalmurphal/editkit/display"
	"github.com/randalmurphal/editkit/edit"
	"github.com/randalmurphal/editkit/files"
	"github.com/randalmurphal/editkit/parse"
	"github.com/randalmurphal/editkit/session"
	"github.com/randalmurphal/editkit/stream"

	_ "github.com/randalmurphal/editkit/gitdiff"
	_ "github.com/randalmurphal/editkit/replacements"
)

func runApply(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagRoot)
	if err != nil {
		return err
	}
	formatName := cfg.Format
	if flagFormat != "" {
		formatName = flagFormat
	}
	format, err := parse.New(formatName)
	if err != nil {
		return err
	}

	input := os.Stdin
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		input = f
	} else if !flagYes {
		return fmt.Errorf("reading the response from stdin leaves no terminal for confirmation; pass --yes or name a response file")
	}

	manager, err := files.NewManager(flagRoot, flagContext)
	if err != nil {
		return err
	}
	if err := manager.Watch(cmd.Context()); err != nil {
		return err
	}

	terminal := display.NewTerminal(os.Stdout)
	sess := &parse.Session{
		Files:        manager,
		Printer:      terminal,
		ContextLines: cfg.ContextLines,
	}

	resp, err := format.StreamAndParse(cmd.Context(), stream.FromReader(input), sess)
	if err != nil {
		return err
	}
	if len(resp.FileEdits) == 0 {
		fmt.Println("no edits in response")
		return nil
	}

	opts := []session.Option{
		session.WithPrinter(terminal),
		session.WithProjectLock(cfg.LockTimeout.Std()),
	}
	if !flagYes && !cfg.AutoAccept {
		opts = append(opts, session.WithAsker(askEdit))
		opts = append(opts, session.WithDivergenceConfirm(func(path string) bool {
			return askYesNo(fmt.Sprintf("%s changed on disk since it was read; apply anyway?", path))
		}))
	}
	if len(flagSubset) > 0 {
		opts = append(opts, session.WithSubset(flagSubset...))
	}

	historyPath := filepath.Join(flagRoot, cfg.HistoryFile)
	if saved, err := session.LoadHistory(historyPath); err == nil {
		opts = append(opts, session.WithHistory(saved))
	}
	applier := session.NewApplier(manager, opts...)

	res, err := applier.Apply(cmd.Context(), resp)
	if err != nil {
		return err
	}
	if err := applier.History().Save(historyPath); err != nil {
		return err
	}

	fmt.Printf("applied %d, skipped %d\n", len(res.Applied), len(res.Skipped))
	return nil
}

func runUndo(cmd *cobra.Command, args []string) error {
	return replayHistory(func(h *session.History, ws session.Workspace) error {
		return h.Undo(ws)
	})
}

func runRedo(cmd *cobra.Command, args []string) error {
	return replayHistory(func(h *session.History, ws session.Workspace) error {
		return h.Redo(ws)
	})
}

func replayHistory(step func(*session.History, session.Workspace) error) error {
	cfg, err := config.Load(flagRoot)
	if err != nil {
		return err
	}
	historyPath := filepath.Join(flagRoot, cfg.HistoryFile)
	history, err := session.LoadHistory(historyPath)
	if err != nil {
		return err
	}

	manager, err := files.NewManager(flagRoot, historyPaths(history))
	if err != nil {
		return err
	}
	if err := step(history, manager); err != nil {
		return err
	}
	return history.Save(historyPath)
}

// historyPaths collects every path the history may touch, so the file
// manager knows them.
func historyPaths(h *session.History) []string {
	seen := make(map[string]struct{})
	for _, batch := range h.Batches() {
		for _, act := range batch {
			seen[act.Path] = struct{}{}
			if act.NewPath != "" {
				seen[act.NewPath] = struct{}{}
			}
		}
	}
	out := make([]string, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	return out
}

func runFormats(cmd *cobra.Command, args []string) error {
	for _, name := range parse.Available() {
		fmt.Println(name)
	}
	return nil
}

func runSchema(cmd *cobra.Command, args []string) error {
	text, err := block.MetadataSchemaJSON()
	if err != nil {
		return err
	}
	fmt.Println(text)
	return nil
}

func askEdit(fe *edit.FileEdit) bool {
	return askYesNo(fmt.Sprintf("apply changes to %s?", fe.TargetPath()))
}

func askYesNo(prompt string) bool {
	fmt.Printf("%s [y/N] ", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
