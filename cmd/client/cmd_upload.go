package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrylevesque/boardbot/internal/files"
	"github.com/harrylevesque/boardbot/internal/picker"
	"github.com/harrylevesque/boardbot/internal/screen"
)

var uploadFlags struct {
	out string
}

var uploadCmd = &cobra.Command{
	Use:   "upload [image]",
	Short: "Upload an image and print the processed result",
	Long:  "Upload an image to the processing server. Without an argument the\npath is read from standard input. The processed image locator is\nprinted, or saved with --out.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runUpload,
}

func init() {
	uploadCmd.Flags().StringVarP(&uploadFlags.out, "out", "o", "", "Save the processed image into this directory")
}

func runUpload(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	p := &picker.PathPicker{Paths: args}
	if len(args) == 0 {
		p.Prompt = linePrompt(cmd.InOrStdin(), cmd.ErrOrStderr())
	}

	alerted := false
	s := a.Screen(p, screen.AlertFunc(func(title, message string) {
		alerted = true
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", title, message)
	}))

	ctx := cmd.Context()
	if err := s.PickImage(ctx); err != nil {
		return reported(err, alerted)
	}
	if s.Snapshot().SelectedImage == "" {
		fmt.Fprintln(cmd.ErrOrStderr(), "No image selected")
		return nil
	}

	if err := s.UploadImage(ctx); err != nil {
		return reported(err, alerted)
	}
	st := s.Snapshot()
	if st.ProcessedImage == "" {
		return errors.New("server answered without a processed image")
	}

	if uploadFlags.out == "" {
		fmt.Fprintln(cmd.OutOrStdout(), st.ProcessedImage)
		return nil
	}

	res, err := a.Resolve(ctx, st.ProcessedImage)
	if err != nil {
		return fmt.Errorf("fetch result: %w", err)
	}
	store, err := files.NewOutputStore(uploadFlags.out)
	if err != nil {
		return err
	}
	saved, err := store.Save(res, st.SelectedImage)
	if err != nil {
		return fmt.Errorf("save result: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), saved.Path)
	return nil
}

func reported(err error, alerted bool) error {
	if alerted {
		return fmt.Errorf("%w: %v", errReported, err)
	}
	return err
}
