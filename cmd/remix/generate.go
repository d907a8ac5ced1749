package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mhpenta/remix"
	"github.com/mhpenta/remix/session"
)

type generateOptions struct {
	imageA string
	imageB string
	prompt string
	outDir string
}

func (a *app) generateCmd() *cobra.Command {
	var opts generateOptions
	cmd := &cobra.Command{
		Use:     "generate",
		Short:   "Run one remix and export the result image",
		Args:    cobra.NoArgs,
		PreRunE: a.requireCredentials,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runGenerate(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.imageA, "image-a", "", "path to the first image")
	cmd.Flags().StringVar(&opts.imageB, "image-b", "", "path to the second image")
	cmd.Flags().StringVarP(&opts.prompt, "prompt", "p", "", "how to combine the two images")
	cmd.Flags().StringVarP(&opts.outDir, "out", "o", "", "output directory (default from config)")
	_ = cmd.MarkFlagRequired("image-a")
	_ = cmd.MarkFlagRequired("image-b")
	_ = cmd.MarkFlagRequired("prompt")
	return cmd
}

func (a *app) runGenerate(cmd *cobra.Command, opts generateOptions) error {
	ctx := cmd.Context()

	var imgA, imgB remix.ImageInput
	var g errgroup.Group
	g.Go(func() (err error) {
		imgA, err = remix.ReadImageFile(opts.imageA)
		return err
	})
	g.Go(func() (err error) {
		imgB, err = remix.ReadImageFile(opts.imageB)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	gen, err := a.generator(ctx)
	if err != nil {
		return err
	}
	defer closeQuietly(a.logger, gen)

	sess := session.New(gen,
		session.WithLogger(a.logger),
		session.WithTimeout(a.cfg.Gemini.RequestTimeout),
	)
	if err := errors.Join(
		sess.SetImage(remix.SlotA, &imgA),
		sess.SetImage(remix.SlotB, &imgB),
	); err != nil {
		return err
	}
	sess.SetPrompt(opts.prompt)

	if !sess.Generate(ctx) {
		return remix.ErrEmptyPrompt
	}

	snap := sess.Snapshot()
	if snap.Error != "" {
		return errors.New(snap.Error)
	}

	dir := opts.outDir
	if dir == "" {
		dir = a.cfg.Output.Dir
	}
	saved, err := remix.Export(ctx, &remix.FileStorage{}, snap.Result, dir)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "saved %s (%d bytes)\n", saved.Path, saved.Size)
	if snap.Result.Text != "" {
		fmt.Fprintln(out, snap.Result.Text)
	}
	return nil
}
