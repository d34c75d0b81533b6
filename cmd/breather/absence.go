// ABOUTME: CLI commands for the absence journal.
// ABOUTME: Provides declare, today, list, delete, and clear subcommands.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/2389-research/breather/internal/journal"
	"github.com/2389-research/breather/internal/models"
)

var absenceCmd = &cobra.Command{
	Use:   "absence",
	Short: "Declare and review absences",
	Long:  "Declare a justified absence for today, optionally with a supporting image. Declaring twice on the same day replaces that day's absence.",
}

var absenceDeclareCmd = &cobra.Command{
	Use:   "declare",
	Short: "Declare today's absence",
	RunE:  runAbsenceDeclare,
}

var absenceTodayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show today's absence",
	RunE:  runAbsenceToday,
}

var absenceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List declared absences, newest first",
	RunE:  runAbsenceList,
}

var absenceDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an absence by id",
	Args:  cobra.ExactArgs(1),
	RunE:  runAbsenceDelete,
}

var absenceClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the whole absence history",
	RunE:  runAbsenceClear,
}

// Flags
var (
	absenceJustification string
	absenceImage         string
	absenceLimit         int
	absenceYes           bool
)

func init() {
	rootCmd.AddCommand(absenceCmd)
	absenceCmd.AddCommand(absenceDeclareCmd)
	absenceCmd.AddCommand(absenceTodayCmd)
	absenceCmd.AddCommand(absenceListCmd)
	absenceCmd.AddCommand(absenceDeleteCmd)
	absenceCmd.AddCommand(absenceClearCmd)

	absenceDeclareCmd.Flags().StringVarP(&absenceJustification, "justification", "j", "", "Why you are absent (required)")
	absenceDeclareCmd.Flags().StringVar(&absenceImage, "image", "", "Path or URI of a supporting image")
	_ = absenceDeclareCmd.MarkFlagRequired("justification")

	absenceListCmd.Flags().IntVar(&absenceLimit, "limit", 30, "Maximum number of entries to show (0 for all)")

	absenceClearCmd.Flags().BoolVar(&absenceYes, "yes", false, "Confirm deleting every absence")
}

func runAbsenceDeclare(cmd *cobra.Command, args []string) error {
	entry, err := globalApp.Absences.SaveAbsence(cmd.Context(), journal.AbsenceInput{
		Justification: absenceJustification,
		ImageURI:      absenceImage,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Absence declared: %s\n", formatAbsence(entry))
	return nil
}

func runAbsenceToday(cmd *cobra.Command, args []string) error {
	entry, ok := globalApp.Absences.Today()
	if !ok {
		fmt.Println("No absence declared today.")
		return nil
	}
	fmt.Println(formatAbsence(entry))
	return nil
}

func runAbsenceList(cmd *cobra.Command, args []string) error {
	entries := globalApp.Absences.Entries()
	if len(entries) == 0 {
		fmt.Println("No absences found.")
		return nil
	}
	if absenceLimit > 0 && len(entries) > absenceLimit {
		entries = entries[:absenceLimit]
	}
	for _, e := range entries {
		fmt.Println(formatAbsence(e))
	}
	return nil
}

func runAbsenceDelete(cmd *cobra.Command, args []string) error {
	removed, err := globalApp.Absences.Delete(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if !removed {
		fmt.Printf("No absence with id %s.\n", args[0])
		return nil
	}
	fmt.Printf("Absence %s deleted.\n", args[0])
	return nil
}

func runAbsenceClear(cmd *cobra.Command, args []string) error {
	if !absenceYes {
		return fmt.Errorf("refusing to delete %d absences without --yes", globalApp.Absences.Len())
	}
	if err := globalApp.Absences.Clear(cmd.Context()); err != nil {
		return err
	}
	fmt.Println("Absence history cleared.")
	return nil
}

func formatAbsence(e models.AbsenceEntry) string {
	line := fmt.Sprintf("%s  %s  %s", e.Date, truncate(e.Justification, 100), e.ID)
	if e.ImageURI != nil {
		line += "\n    image: " + *e.ImageURI
	}
	return line
}
