// ABOUTME: CLI commands for the mood journal.
// ABOUTME: Provides log, pick, today, list, delete, clear, and catalog subcommands.
package main

import (
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/2389-research/breather/internal/journal"
	"github.com/2389-research/breather/internal/models"
	"github.com/2389-research/breather/internal/tui"
)

var moodCmd = &cobra.Command{
	Use:   "mood",
	Short: "Track your daily mood",
	Long:  "Log, review, and delete daily moods. Logging twice on the same day replaces that day's mood.",
}

var moodLogCmd = &cobra.Command{
	Use:   "log <index>",
	Short: "Log today's mood by catalog index",
	Long:  "Log today's mood. Run 'breather mood catalog' to see the indexes.",
	Args:  cobra.ExactArgs(1),
	RunE:  runMoodLog,
}

var moodPickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Choose today's mood interactively",
	RunE:  runMoodPick,
}

var moodTodayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show today's mood",
	RunE:  runMoodToday,
}

var moodListCmd = &cobra.Command{
	Use:   "list",
	Short: "List logged moods, newest first",
	RunE:  runMoodList,
}

var moodStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show how many moods are logged and the most frequent one",
	RunE:  runMoodStats,
}

var moodDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a mood by id",
	Args:  cobra.ExactArgs(1),
	RunE:  runMoodDelete,
}

var moodClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the whole mood history",
	RunE:  runMoodClear,
}

var moodCatalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Show the moods you can log",
	RunE:  runMoodCatalog,
}

// Flags
var (
	moodNote  string
	moodFrom  string
	moodTo    string
	moodLimit int
	moodYes   bool
)

func init() {
	rootCmd.AddCommand(moodCmd)
	moodCmd.AddCommand(moodLogCmd)
	moodCmd.AddCommand(moodPickCmd)
	moodCmd.AddCommand(moodTodayCmd)
	moodCmd.AddCommand(moodListCmd)
	moodCmd.AddCommand(moodStatsCmd)
	moodCmd.AddCommand(moodDeleteCmd)
	moodCmd.AddCommand(moodClearCmd)
	moodCmd.AddCommand(moodCatalogCmd)

	moodLogCmd.Flags().StringVar(&moodNote, "note", "", "Optional note")

	moodListCmd.Flags().StringVar(&moodFrom, "from", "", "First day to include (YYYY-MM-DD)")
	moodListCmd.Flags().StringVar(&moodTo, "to", "", "Last day to include (YYYY-MM-DD)")
	moodListCmd.Flags().IntVar(&moodLimit, "limit", 30, "Maximum number of entries to show (0 for all)")

	moodClearCmd.Flags().BoolVar(&moodYes, "yes", false, "Confirm deleting every mood")
}

func runMoodLog(cmd *cobra.Command, args []string) error {
	index, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("mood index must be a number: %q", args[0])
	}

	entry, err := globalApp.Moods.SaveMood(cmd.Context(), journal.MoodInput{Index: index, Note: moodNote})
	if err != nil {
		return err
	}
	fmt.Printf("Mood logged: %s\n", formatMood(entry))
	return nil
}

func runMoodPick(cmd *cobra.Command, args []string) error {
	initial, current := 0, ""
	if today, ok := globalApp.Moods.Today(); ok {
		initial, current = today.MoodIndex, today.MoodLabel
	}

	p := tea.NewProgram(tui.NewPickerModel(initial, current))
	result, err := p.Run()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	final := result.(tui.PickerModel)
	if !final.Chosen() {
		fmt.Println("Cancelled.")
		return nil
	}

	index, note := final.Result()
	entry, err := globalApp.Moods.SaveMood(cmd.Context(), journal.MoodInput{Index: index, Note: note})
	if err != nil {
		return err
	}
	fmt.Printf("Mood logged: %s\n", formatMood(entry))
	return nil
}

func runMoodToday(cmd *cobra.Command, args []string) error {
	entry, ok := globalApp.Moods.Today()
	if !ok {
		fmt.Println("No mood logged today.")
		return nil
	}
	fmt.Println(formatMood(entry))
	return nil
}

func runMoodList(cmd *cobra.Command, args []string) error {
	var (
		entries []models.MoodEntry
		err     error
	)
	switch {
	case moodFrom == "" && moodTo == "":
		entries = globalApp.Moods.Entries()
	default:
		from, to := moodFrom, moodTo
		if from == "" {
			from = "0001-01-01"
		}
		if to == "" {
			to = "9999-12-31"
		}
		entries, err = globalApp.Moods.ByDateRange(from, to)
		if err != nil {
			return err
		}
	}

	if len(entries) == 0 {
		fmt.Println("No moods found.")
		return nil
	}
	if moodLimit > 0 && len(entries) > moodLimit {
		entries = entries[:moodLimit]
	}
	for _, e := range entries {
		fmt.Println(formatMood(e))
	}
	return nil
}

func runMoodStats(cmd *cobra.Command, args []string) error {
	stats, ok := globalApp.Moods.Stats()
	if !ok {
		fmt.Println("No moods logged yet.")
		return nil
	}
	fmt.Printf("Entries:       %d\n", stats.Total)
	fmt.Printf("Most frequent: %s %s (%d)\n", stats.Emoji, stats.Label, stats.Count)
	return nil
}

func runMoodDelete(cmd *cobra.Command, args []string) error {
	removed, err := globalApp.Moods.Delete(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if !removed {
		fmt.Printf("No mood with id %s.\n", args[0])
		return nil
	}
	fmt.Printf("Mood %s deleted.\n", args[0])
	return nil
}

func runMoodClear(cmd *cobra.Command, args []string) error {
	if !moodYes {
		return fmt.Errorf("refusing to delete %d moods without --yes", globalApp.Moods.Len())
	}
	if err := globalApp.Moods.Clear(cmd.Context()); err != nil {
		return err
	}
	fmt.Println("Mood history cleared.")
	return nil
}

func runMoodCatalog(cmd *cobra.Command, args []string) error {
	for i, m := range models.Moods {
		fmt.Printf("%d  %s %s\n", i, m.Emoji, m.Label)
	}
	return nil
}

func formatMood(e models.MoodEntry) string {
	line := fmt.Sprintf("%s  %s %-8s  %s", e.Date, e.MoodEmoji, e.MoodLabel, e.ID)
	if e.Note != nil {
		line += "\n    " + truncate(*e.Note, 100)
	}
	return line
}

// truncate shortens a string to maxLen runes, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
