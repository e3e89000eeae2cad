package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/andresmejia3/facewire/internal/codec"
	"github.com/andresmejia3/facewire/internal/types"
	"github.com/andresmejia3/facewire/internal/utils"
	"github.com/spf13/cobra"
)

var enrollOpts Options

var enrollCmd = &cobra.Command{
	Use:         "enroll <name> <face.bin>",
	Short:       "Store a serialized face, and optionally its image, under a name",
	Args:        cobra.ExactArgs(2),
	Annotations: dbAnnotation,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runEnroll(cmd.Context(), args[0], args[1], enrollOpts); err != nil {
			utils.Die("Failed to enroll face", err)
		}
	},
}

func init() {
	enrollCmd.Flags().StringVar(&enrollOpts.InputPath, "image", "", "Raster image to store with the face")
	enrollCmd.Flags().StringVar(&enrollOpts.DepthPath, "depth", "", "Depth map JSON stored with the image as an Image3D")
	enrollCmd.Flags().BoolVar(&enrollOpts.Grayscale, "grayscale", false, "Store the image in grayscale")
	rootCmd.AddCommand(enrollCmd)
}

func runEnroll(ctx context.Context, name, facePath string, opts Options) error {
	data, err := utils.ReadInput(facePath)
	if err != nil {
		return err
	}
	face, err := codec.DeserializeFace(data)
	if err != nil {
		return err
	}

	var img types.Serializable
	if opts.InputPath != "" {
		buf, err := loadPixels(opts.InputPath)
		if err != nil {
			return err
		}
		if buf, err = transform(buf, opts, nil); err != nil {
			return err
		}
		if img, err = asSerializable(buf, opts.DepthPath); err != nil {
			return err
		}
	} else if opts.DepthPath != "" {
		return fmt.Errorf("--depth requires --image: %w", types.ErrInvalidArgument)
	}

	id, err := DB.Enroll(ctx, name, face, img)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "✅ Enrolled '%s' as %s\n", name, id)
	return nil
}
