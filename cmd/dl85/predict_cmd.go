package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vishalbelsare/pydl8.5/dataset"
	"github.com/vishalbelsare/pydl8.5/dataset/csv"
	"github.com/vishalbelsare/pydl8.5/dataset/yaml"
)

type predictCmdConfig struct {
	*rootCmdConfig
	treeInput     string
	dataInput     string
	metadataInput string
	output        string
	ctx           context.Context
	cancelFunc    context.CancelFunc
}

func predictCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &predictCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict the class of samples with a tree",
		Long:  `Predict the class of a set of samples with a previously learned tree. The class column of the input is optional and ignored.`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Validate()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			defer config.ContextCancelFunc()()
			md, err := yaml.ReadMetadataFromFile(config.metadataInput)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
			samples, err := config.samples(md)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(4)
			}
			t, err := config.loadTree(config.Context(), config.treeInput)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(5)
			}
			out := os.Stdout
			if config.output != "" {
				out, err = os.Create(config.output)
				if err != nil {
					fmt.Fprintln(os.Stderr, err)
					os.Exit(6)
				}
				defer out.Close()
			}
			config.Logf("Predicting the class of %d samples...", len(samples))
			for i, s := range samples {
				predicted, err := t.Predict(config.Context(), s.Attributes)
				if err != nil {
					fmt.Fprintf(os.Stderr, "predicting sample %d: %v\n", i, err)
					os.Exit(7)
				}
				fmt.Fprintln(out, predicted)
			}
			config.Logf("Done")
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.dataInput), "input", "i", "", "path to an input CSV file with the samples to predict (defaults to STDIN)")
	cmd.PersistentFlags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML file with metadata describing the attribute columns available on the input file (required)")
	cmd.PersistentFlags().StringVarP(&(config.treeInput), "tree", "t", "", "path to a JSON file from which the tree will be read, or a redis URL (redis://host:port/prefix) to load it from (required)")
	cmd.PersistentFlags().StringVarP(&(config.output), "output", "o", "", "path to a file to which the predicted classes will be written, one per line (defaults to STDOUT)")
	return cmd
}

func (pcc *predictCmdConfig) Validate() error {
	if pcc.treeInput == "" {
		return fmt.Errorf("required tree flag was not set")
	}
	if pcc.metadataInput == "" {
		return fmt.Errorf("required metadata flag was not set")
	}
	return nil
}

func (pcc *predictCmdConfig) samples(md *yaml.Metadata) ([]dataset.Sample, error) {
	var f *os.File
	if pcc.dataInput == "" {
		pcc.Logf("Reading samples from STDIN...")
		f = os.Stdin
	} else {
		pcc.Logf("Opening %s to read samples...", pcc.dataInput)
		var err error
		f, err = os.Open(pcc.dataInput)
		if err != nil {
			return nil, fmt.Errorf("opening samples at %s: %v", pcc.dataInput, err)
		}
		defer f.Close()
	}
	samples, err := csv.ReadUnlabeledSamples(f, md)
	if err != nil {
		return nil, fmt.Errorf("reading samples: %v", err)
	}
	return samples, nil
}

func (pcc *predictCmdConfig) Context() context.Context {
	pcc.setContextAndCancelFunc()
	return pcc.ctx
}

func (pcc *predictCmdConfig) ContextCancelFunc() context.CancelFunc {
	pcc.setContextAndCancelFunc()
	return pcc.cancelFunc
}

func (pcc *predictCmdConfig) setContextAndCancelFunc() {
	if pcc.ctx == nil {
		pcc.ctx, pcc.cancelFunc = context.WithCancel(context.Background())
	}
}
