package cmd

import (
	"context"
	"fmt"

	"github.com/andresmejia3/facewire/internal/utils"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var labelCmd = &cobra.Command{
	Use:         "label <enrollment_id> <name>",
	Short:       "Rename an enrolled face",
	Args:        cobra.ExactArgs(2),
	Annotations: dbAnnotation,
	Run: func(cmd *cobra.Command, args []string) {
		id, err := uuid.Parse(args[0])
		if err != nil {
			utils.Die("Invalid enrollment ID", err)
		}
		runLabel(cmd.Context(), id, args[1])
	},
}

var deleteCmd = &cobra.Command{
	Use:         "delete <enrollment_id>",
	Short:       "Remove an enrolled face",
	Args:        cobra.ExactArgs(1),
	Annotations: dbAnnotation,
	Run: func(cmd *cobra.Command, args []string) {
		id, err := uuid.Parse(args[0])
		if err != nil {
			utils.Die("Invalid enrollment ID", err)
		}
		if err := DB.Delete(cmd.Context(), id); err != nil {
			utils.Die("Failed to delete enrollment", err)
		}
		fmt.Printf("🗑️  Enrollment %s deleted\n", id)
	},
}

func init() {
	rootCmd.AddCommand(labelCmd)
	rootCmd.AddCommand(deleteCmd)
}

func runLabel(ctx context.Context, id uuid.UUID, name string) {
	if err := DB.Rename(ctx, id, name); err != nil {
		utils.Die("Failed to label enrollment", err)
	}

	fmt.Printf("✅ Enrollment %s labeled as '%s'\n", id, name)
}
