package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"defect-vlm/config"
	app "defect-vlm/internal/application"
	"defect-vlm/internal/container"
	"defect-vlm/internal/domain/entity"
)

// Builder собирает контейнер из итоговой конфигурации.
type Builder func(cfg *config.Config) (*container.Container, error)

// CLI дерево команд пайплайна. Контейнер собирается после разбора флагов,
// чтобы флаги могли переопределить конфигурацию.
type CLI struct {
	cfg   *config.Config
	build Builder
	c     *container.Container
}

// NewRootCommand создаёт корневую команду.
func NewRootCommand(cfg *config.Config, build Builder) *cobra.Command {
	cli := &CLI{cfg: cfg, build: build}

	root := &cobra.Command{
		Use:           "defect-vlm",
		Short:         "Builds multi-light defect VQA datasets from COCO annotations",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return cli.init()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&cfg.DataRoot, "data-root", cfg.DataRoot, "dataset root directory")
	pf.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "random seed for sampling")
	pf.StringSliceVar(&cfg.Lights, "lights", cfg.Lights, "canonical light source order")

	for _, t := range []entity.SampleType{entity.SamplePositive, entity.SampleNegative, entity.SampleRectification} {
		root.AddCommand(cli.generateCommand(t))
	}
	root.AddCommand(cli.compositeCommand(), cli.requestCommand(), cli.responsesCommand())
	return root
}

func (cli *CLI) init() error {
	if err := cli.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	c, err := cli.build(cli.cfg)
	if err != nil {
		return err
	}
	cli.c = c
	return nil
}

func (cli *CLI) generateCommand(t entity.SampleType) *cobra.Command {
	var dataset, split string
	cmd := &cobra.Command{
		Use:   string(t),
		Short: fmt.Sprintf("Cut %s crops from every light source", t),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			summary, err := cli.c.GenerationService.Run(cmd.Context(), dataset, split, t)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d %s records -> %s\n", summary.Records, summary.SampleType, summary.LabelsPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&dataset, "dataset", "", "dataset directory name under the raw root")
	cmd.Flags().StringVar(&split, "split", "train", "annotation split")
	_ = cmd.MarkFlagRequired("dataset")
	if t == entity.SampleNegative {
		cmd.Flags().IntVar(&cli.cfg.SamplesPerImage, "samples-per-image", cli.cfg.SamplesPerImage, "negative samples per image")
		cmd.Flags().IntVar(&cli.cfg.MaxTrials, "max-trials", cli.cfg.MaxTrials, "placement attempts per sample")
	}
	return cmd
}

func (cli *CLI) compositeCommand() *cobra.Command {
	var input, split, sampleType string
	startID := cli.cfg.StartID
	cmd := &cobra.Command{
		Use:   "composite",
		Short: "Build global and local 2x2 mosaics from crop metadata",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := entity.ParseSampleType(sampleType)
			if err != nil {
				return err
			}
			summary, err := cli.c.CompositeService.Run(cmd.Context(), input, split, t, startID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d samples of %s -> %s (next id %d)\n",
				summary.Samples, summary.Project, summary.LabelsPath, summary.NextID)
			return nil
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "crop metadata file")
	cmd.Flags().StringVar(&sampleType, "type", string(entity.SamplePositive), "sample type used when records carry none")
	cmd.Flags().StringVar(&split, "split", "train", "output split")
	cmd.Flags().Int64Var(&startID, "start-id", startID, "first composite id")
	cmd.Flags().IntVar(&cli.cfg.Canvas, "canvas", cli.cfg.Canvas, "mosaic side in pixels")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func (cli *CLI) requestCommand() *cobra.Command {
	var job struct {
		input, prompts, output, root string
		idx                          int
	}
	cmd := &cobra.Command{
		Use:   "request",
		Short: "Render VLM requests from composite metadata",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			root := job.root
			if root == "" {
				root = cli.cfg.DataRoot
			}
			n, err := cli.c.RequestService.Run(cmd.Context(), app.RequestJob{
				Input:       job.input,
				PromptsPath: job.prompts,
				PromptIdx:   job.idx,
				Output:      job.output,
				Root:        root,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d requests -> %s\n", n, job.output)
			return nil
		},
	}
	cmd.Flags().StringVar(&job.input, "input", "", "composite metadata file")
	cmd.Flags().StringVar(&job.prompts, "prompts", "", "prompt library JSON")
	cmd.Flags().IntVar(&job.idx, "prompt-idx", 1, "prompt number in the library")
	cmd.Flags().StringVar(&job.output, "output", "", "output JSONL file")
	cmd.Flags().StringVar(&job.root, "root", "", "root prepended to mosaic paths (defaults to data root)")
	for _, f := range []string{"input", "prompts", "output"} {
		_ = cmd.MarkFlagRequired(f)
	}

	cmd.AddCommand(cli.sampleCommand())
	return cmd
}

func (cli *CLI) sampleCommand() *cobra.Command {
	var rawSources []string
	var output string
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Draw a seeded test set from several request files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sources := make([]app.SampleSource, 0, len(rawSources))
			for _, raw := range rawSources {
				src, err := app.ParseSampleSource(raw)
				if err != nil {
					return err
				}
				sources = append(sources, src)
			}
			n, err := cli.c.TestSetService.Sample(cmd.Context(), sources, output)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d sampled requests -> %s\n", n, output)
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&rawSources, "source", nil, "prefix:count:path of a request JSONL file, repeatable")
	cmd.Flags().StringVar(&output, "output", "", "output JSONL file")
	for _, f := range []string{"source", "output"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}

func (cli *CLI) responsesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "responses",
		Short: "Clean and score VLM replies",
	}

	var in, good, retry string
	split := &cobra.Command{
		Use:   "split",
		Short: "Separate well-formed replies from ones to retry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			g, b, err := cli.c.ResponseService.Split(cmd.Context(), in, good, retry)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "good: %d, retry: %d\n", g, b)
			return nil
		},
	}
	split.Flags().StringVar(&in, "input", "", "JSONL file with replies")
	split.Flags().StringVar(&good, "good", "", "JSONL file good replies are appended to")
	split.Flags().StringVar(&retry, "retry", "", "JSONL file for replies to retry")
	for _, f := range []string{"input", "good", "retry"} {
		_ = split.MarkFlagRequired(f)
	}

	var scoreIn, report string
	score := &cobra.Command{
		Use:   "score",
		Short: "Compute accuracy, macro precision and macro F1",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := cli.c.ResponseService.Score(cmd.Context(), scoreIn)
			if err != nil {
				return err
			}
			if report == "" {
				return app.WriteReport(cmd.OutOrStdout(), s)
			}
			f, err := os.Create(report)
			if err != nil {
				return fmt.Errorf("failed to create report: %w", err)
			}
			defer f.Close()
			if err := app.WriteReport(f, s); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "accuracy %.4f, report -> %s\n", s.Accuracy, report)
			return nil
		},
	}
	score.Flags().StringVar(&scoreIn, "input", "", "JSONL file with replies")
	score.Flags().StringVar(&report, "report", "", "write the full report to this file")
	_ = score.MarkFlagRequired("input")

	cmd.AddCommand(split, score)
	return cmd
}
