package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/andresmejia3/facewire/internal/store"
	"github.com/andresmejia3/facewire/internal/utils"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:         "list",
	Short:       "List all enrolled faces in the database",
	Annotations: dbAnnotation,
	Run: func(cmd *cobra.Command, args []string) {
		runList(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(ctx context.Context) {
	enrollments, err := DB.ListFaces(ctx)
	if err != nil {
		utils.Die("Failed to list enrolled faces", err)
	}

	if len(enrollments) == 0 {
		fmt.Println("No enrolled faces found in database.")
		return
	}
	printEnrollments(os.Stdout, enrollments)
}

func printEnrollments(out io.Writer, enrollments []store.Enrollment) {
	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tIMAGE\tFACE BYTES\tIMAGE BYTES\tCREATED")
	fmt.Fprintln(w, "--\t----\t-----\t----------\t-----------\t-------")

	for _, e := range enrollments {
		kind := "-"
		if e.HasImage() {
			kind = e.ImageKind
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n", e.ID, e.Name, kind, e.FaceSize, e.ImageSize, e.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	w.Flush()
}
