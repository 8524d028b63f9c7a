package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/umutak/deskmate/internal/database"
	"github.com/umutak/deskmate/internal/models"
)

// importFile is the bulk import document format. Every section is optional.
type importFile struct {
	Notes []struct {
		Content string `json:"content"`
	} `json:"notes"`
	Todos []struct {
		Content string     `json:"content"`
		DueAt   *time.Time `json:"due_at"`
	} `json:"todos"`
	Reminders []struct {
		Content  string    `json:"content"`
		RemindAt time.Time `json:"remind_at"`
	} `json:"reminders"`
	Plans []struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	} `json:"plans"`
}

// NewImportCmd creates the import command.
func NewImportCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Bulk import notes, todos, reminders and plans from a JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("failed to read import file: %w", err)
			}
			var doc importFile
			if err := json.Unmarshal(data, &doc); err != nil {
				return fmt.Errorf("failed to parse import file: %w", err)
			}

			db, err := openDatabase()
			if err != nil {
				return err
			}
			defer closeDatabase(db)

			ctx := context.Background()
			if err := runImport(ctx, db, &doc); err != nil {
				return err
			}
			fmt.Printf("Imported %d notes, %d todos, %d reminders, %d plans.\n",
				len(doc.Notes), len(doc.Todos), len(doc.Reminders), len(doc.Plans))
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "Path to JSON import file (required)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func runImport(ctx context.Context, db *database.DB, doc *importFile) error {
	noteRepo := database.NewNoteRepository(db)
	for i, n := range doc.Notes {
		if n.Content == "" {
			return fmt.Errorf("notes[%d]: content is required", i)
		}
		note := &models.Note{ID: uuid.New(), Content: n.Content}
		if err := noteRepo.Create(ctx, note); err != nil {
			return fmt.Errorf("notes[%d]: %w", i, err)
		}
	}

	todoRepo := database.NewTodoRepository(db)
	for i, t := range doc.Todos {
		if t.Content == "" {
			return fmt.Errorf("todos[%d]: content is required", i)
		}
		todo := &models.Todo{ID: uuid.New(), Content: t.Content, DueAt: t.DueAt}
		if err := todoRepo.Create(ctx, todo); err != nil {
			return fmt.Errorf("todos[%d]: %w", i, err)
		}
	}

	reminderRepo := database.NewReminderRepository(db)
	for i, rem := range doc.Reminders {
		if rem.Content == "" {
			return fmt.Errorf("reminders[%d]: content is required", i)
		}
		if rem.RemindAt.IsZero() {
			return fmt.Errorf("reminders[%d]: remind_at is required", i)
		}
		reminder := &models.Reminder{ID: uuid.New(), Content: rem.Content, RemindAt: rem.RemindAt}
		if err := reminderRepo.Create(ctx, reminder); err != nil {
			return fmt.Errorf("reminders[%d]: %w", i, err)
		}
	}

	planRepo := database.NewPlanRepository(db)
	for i, p := range doc.Plans {
		if p.Title == "" {
			return fmt.Errorf("plans[%d]: title is required", i)
		}
		plan := &models.Plan{ID: uuid.New(), Title: p.Title, Content: p.Content}
		if err := planRepo.Create(ctx, plan); err != nil {
			return fmt.Errorf("plans[%d]: %w", i, err)
		}
	}

	return nil
}
