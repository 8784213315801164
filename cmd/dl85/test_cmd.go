package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vishalbelsare/pydl8.5/dataset/yaml"
	"github.com/vishalbelsare/pydl8.5/tree"
	"github.com/vishalbelsare/pydl8.5/tree/json"
)

type testCmdConfig struct {
	*rootCmdConfig
	treeInput     string
	dataInput     string
	metadataInput string
	table         string
	ctx           context.Context
	cancelFunc    context.CancelFunc
}

func testCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &testCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Test the performance of a tree",
		Long:  `Test the performance of a tree against a labeled test data set`,
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
			ds, err := config.loadDataset(config.Context(), config.dataInput, config.table, md)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(4)
			}
			t, err := config.loadTree(config.Context(), config.treeInput)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(5)
			}
			config.Logf("Testing tree against a set with %d samples...", ds.Count())
			successRate, err := t.Test(config.Context(), ds, ds.Samples())
			if err != nil {
				fmt.Fprintf(os.Stderr, "testing tree: %v\n", err)
				os.Exit(6)
			}
			config.Logf("Done")
			fmt.Printf("%f success rate\n", successRate)
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.dataInput), "input", "i", "", "path to an input CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL or MongoDB connection URL with labeled data to test the tree against (defaults to STDIN, interpreted as CSV)")
	cmd.PersistentFlags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML file with metadata describing the attribute and class columns available on the input (required)")
	cmd.PersistentFlags().StringVarP(&(config.treeInput), "tree", "t", "", "path to a JSON file from which the tree to test will be read, or a redis URL (redis://host:port/prefix) to load it from (required)")
	cmd.PersistentFlags().StringVar(&(config.table), "table", defaultSamplesTable, "name of the table holding the samples when the input is a database")
	return cmd
}

func (tcc *testCmdConfig) Validate() error {
	if tcc.treeInput == "" {
		return fmt.Errorf("required tree flag was not set")
	}
	if tcc.metadataInput == "" {
		return fmt.Errorf("required metadata flag was not set")
	}
	return nil
}

func (tcc *testCmdConfig) Context() context.Context {
	tcc.setContextAndCancelFunc()
	return tcc.ctx
}

func (tcc *testCmdConfig) ContextCancelFunc() context.CancelFunc {
	tcc.setContextAndCancelFunc()
	return tcc.cancelFunc
}

func (tcc *testCmdConfig) setContextAndCancelFunc() {
	if tcc.ctx == nil {
		tcc.ctx, tcc.cancelFunc = context.WithCancel(context.Background())
	}
}

/*
loadTree reads a tree from treeInput: a redis URL the tree was stored
under, or the path of a file holding it in JSON format.
*/
func (rcc *rootCmdConfig) loadTree(ctx context.Context, treeInput string) (*tree.Tree, error) {
	if strings.HasPrefix(treeInput, "redis://") {
		rcc.Logf("Loading tree from redis at %s...", treeInput)
		rc, prefix, err := redisClient(treeInput)
		if err != nil {
			return nil, err
		}
		rootID, err := getRedisTreeRoot(rc, prefix)
		if err != nil {
			rc.Close()
			return nil, err
		}
		return tree.New(rootID, redisNodeStore(rc, prefix)), nil
	}
	f, err := os.Open(treeInput)
	if err != nil {
		return nil, fmt.Errorf("reading tree in JSON from %s: %v", treeInput, err)
	}
	defer f.Close()
	t := tree.New("", tree.NewMemoryNodeStore())
	err = json.ReadJSONTree(ctx, t, f)
	if err != nil {
		return nil, fmt.Errorf("parsing tree in JSON from %s: %v", treeInput, err)
	}
	return t, nil
}
