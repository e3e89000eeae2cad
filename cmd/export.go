package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/andresmejia3/facewire/internal/codec"
	"github.com/andresmejia3/facewire/internal/store"
	"github.com/andresmejia3/facewire/internal/types"
	"github.com/andresmejia3/facewire/internal/utils"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var exportDir string

var exportCmd = &cobra.Command{
	Use:         "export <enrollment_id>",
	Short:       "Write an enrolled face (JSON + wire bytes) and its image (PNG) to a directory",
	Args:        cobra.ExactArgs(1),
	Annotations: dbAnnotation,
	Run: func(cmd *cobra.Command, args []string) {
		id, err := uuid.Parse(args[0])
		if err != nil {
			utils.Die("Invalid enrollment ID", err)
		}
		if err := runExport(cmd.Context(), id, exportDir); err != nil {
			utils.Die("Failed to export enrollment", err)
		}
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportDir, "output", "o", ".", "Output directory")
	rootCmd.AddCommand(exportCmd)
}

func runExport(ctx context.Context, id uuid.UUID, dir string) error {
	face, err := DB.GetFace(ctx, id)
	if err != nil {
		return err
	}
	img, err := DB.GetImage(ctx, id)
	if err != nil && !errors.Is(err, store.ErrNoImage) {
		return err
	}
	written, err := exportEnrollment(dir, id.String(), face, img)
	if err != nil {
		return err
	}
	for _, path := range written {
		fmt.Fprintf(os.Stderr, "📦 %s\n", path)
	}
	return nil
}

// exportEnrollment writes <base>.face.json, <base>.face.bin and, when img is
// set, <base>.png plus <base>.depth.json for an Image3D with depth data.
func exportEnrollment(dir, base string, face types.Face, img types.Serializable) ([]string, error) {
	path := func(suffix string) string { return filepath.Join(dir, base+suffix) }
	var written []string

	if err := writeJSON(path(".face.json"), face); err != nil {
		return written, err
	}
	written = append(written, path(".face.json"))

	data, err := codec.SerializeFace(face)
	if err != nil {
		return written, err
	}
	if err := utils.WriteOutput(path(".face.bin"), data); err != nil {
		return written, err
	}
	written = append(written, path(".face.bin"))

	if img == nil {
		return written, nil
	}
	if err := savePNG(path(".png"), img.Pixels()); err != nil {
		return written, err
	}
	written = append(written, path(".png"))

	if img3d, ok := img.(types.Image3D); ok && img3d.DepthMap != nil {
		if err := writeJSON(path(".depth.json"), img3d.DepthMap); err != nil {
			return written, err
		}
		written = append(written, path(".depth.json"))
	}
	return written, nil
}
