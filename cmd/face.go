package cmd

import (
	"fmt"
	"os"

	"github.com/andresmejia3/facewire/internal/codec"
	"github.com/andresmejia3/facewire/internal/types"
	"github.com/andresmejia3/facewire/internal/utils"
	"github.com/spf13/cobra"
)

var faceOpts Options

var faceCmd = &cobra.Command{
	Use:   "face",
	Short: "Convert face records between JSON and the Face wire format",
}

var faceEncodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Serialize a face JSON file to Face protobuf bytes",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runFaceEncode(faceOpts); err != nil {
			utils.Die("Failed to encode face", err)
		}
	},
}

var faceDecodeCmd = &cobra.Command{
	Use:   "decode",
	Short: "Deserialize Face protobuf bytes to JSON",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runFaceDecode(faceOpts); err != nil {
			utils.Die("Failed to decode face", err)
		}
	},
}

func init() {
	for _, c := range []*cobra.Command{faceEncodeCmd, faceDecodeCmd} {
		c.Flags().StringVarP(&faceOpts.InputPath, "input", "i", "", "Input file (- for stdin)")
		c.MarkFlagRequired("input")
		faceCmd.AddCommand(c)
	}
	faceEncodeCmd.Flags().StringVarP(&faceOpts.OutputPath, "output", "o", "", "Output file (- for stdout)")
	faceEncodeCmd.MarkFlagRequired("output")
	faceDecodeCmd.Flags().StringVarP(&faceOpts.OutputPath, "output", "o", utils.Stdio, "Output JSON file")
	rootCmd.AddCommand(faceCmd)
}

func runFaceEncode(opts Options) error {
	var face types.Face
	if err := readJSON(opts.InputPath, &face); err != nil {
		return err
	}
	data, err := codec.SerializeFace(face)
	if err != nil {
		return err
	}
	if err := utils.WriteOutput(opts.OutputPath, data); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "✅ Face encoded (%d bytes, %d landmarks)\n", len(data), len(face.Landmarks))
	return nil
}

func runFaceDecode(opts Options) error {
	data, err := utils.ReadInput(opts.InputPath)
	if err != nil {
		return err
	}
	face, err := codec.DeserializeFace(data)
	if err != nil {
		return err
	}
	return writeJSON(opts.OutputPath, face)
}
