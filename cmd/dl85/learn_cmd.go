package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	dl85 "github.com/vishalbelsare/pydl8.5"
	"github.com/vishalbelsare/pydl8.5/cache"
	"github.com/vishalbelsare/pydl8.5/cover"
	"github.com/vishalbelsare/pydl8.5/dataset"
	"github.com/vishalbelsare/pydl8.5/dataset/yaml"
	"github.com/vishalbelsare/pydl8.5/objective"
	"github.com/vishalbelsare/pydl8.5/tree"
	"github.com/vishalbelsare/pydl8.5/tree/dot"
	"github.com/vishalbelsare/pydl8.5/tree/json"
)

type learnCmdConfig struct {
	*rootCmdConfig
	dataInput     string
	metadataInput string
	output        string
	table         string
	maxDepth      int
	minSupport    int
	maxError      float64
	objectiveName string
	weightsInput  string
	cacheBackend  string
	wipePolicy    string
	maxCacheSize  int
	timeout       time.Duration
	ctx           context.Context
	cancelFunc    context.CancelFunc
}

func learnCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &learnCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "learn",
		Short: "Learn an optimal tree from a set of data",
		Long:  `Learn a provably optimal decision tree from a set of binary data.`,
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
			c, err := config.cache()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(5)
			}
			eval, err := config.evaluator()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(5)
			}
			cov, err := config.cover(ds)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(5)
			}
			learner := dl85.NewLearner(eval, c, config.maxDepth, config.minSupport)
			learner.MaxError = config.maxError
			config.Logf("Learning tree from a set with %d samples and %d attributes...", ds.Count(), ds.NumAttributes())
			result, err := learner.Fit(config.Context(), cov, tree.NewMemoryNodeStore())
			if err != nil {
				fmt.Fprintf(os.Stderr, "learning the tree: %v\n", err)
				os.Exit(6)
			}
			config.Logf("Done: error %g, optimal %t, %d nodes cached", result.Error, result.Optimal, result.CacheSize)
			config.Logf("%v", result.Tree)
			err = config.outputTree(result.Tree)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(7)
			}
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.dataInput), "input", "i", "", "path to an input CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL or MongoDB connection URL with data to learn the tree from (defaults to STDIN, interpreted as CSV)")
	cmd.PersistentFlags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML file with metadata describing the attribute and class columns available on the input (required)")
	cmd.PersistentFlags().StringVarP(&(config.output), "output", "o", "", "path to a file to which the learned tree will be written in JSON format (Graphviz DOT when the path ends in .dot), or a redis URL (redis://host:port/prefix) to store it under (defaults to STDOUT)")
	cmd.PersistentFlags().StringVar(&(config.table), "table", defaultSamplesTable, "name of the table holding the samples when the input is a database")
	cmd.PersistentFlags().IntVarP(&(config.maxDepth), "max-depth", "d", 2, "maximum number of tests on any root-to-leaf path of the learned tree")
	cmd.PersistentFlags().IntVarP(&(config.minSupport), "min-support", "s", 1, "minimum number of samples each branch of a test must keep")
	cmd.PersistentFlags().Float64Var(&(config.maxError), "max-error", 0, "when set, only trees with a strictly smaller error are searched for")
	cmd.PersistentFlags().StringVar(&(config.objectiveName), "objective", "misclassification", "objective to score the tree with, the following are valid: misclassification, weighted")
	cmd.PersistentFlags().StringVar(&(config.weightsInput), "weights", "", "path to a file with one weight per line, one per sample in input order, required by the weighted objective")
	cmd.PersistentFlags().StringVar(&(config.cacheBackend), "cache", "trie", "cache backend to memoize sub-problems on, the following are valid: trie, hash")
	cmd.PersistentFlags().StringVar(&(config.wipePolicy), "wipe", "all", "policy to evict cached sub-problems when the cache is full, the following are valid: all, subnodes, recall")
	cmd.PersistentFlags().IntVar(&(config.maxCacheSize), "max-cache-size", 0, "number of cached sub-problems that triggers a wipe (defaults to 0: never wipe)")
	cmd.PersistentFlags().DurationVar(&(config.timeout), "timeout", 0, "maximum time to spend searching, after which the best tree found so far is returned (defaults to 0: no limit)")
	return cmd
}

func (lcc *learnCmdConfig) Validate() error {
	if lcc.metadataInput == "" {
		return fmt.Errorf("required metadata flag was not set")
	}
	if lcc.maxDepth < 1 {
		return fmt.Errorf("max-depth must be at least 1")
	}
	if lcc.minSupport < 1 {
		return fmt.Errorf("min-support must be at least 1")
	}
	switch lcc.objectiveName {
	case "misclassification":
		if lcc.weightsInput != "" {
			return fmt.Errorf("weights flag requires the weighted objective")
		}
	case "weighted":
		if lcc.weightsInput == "" {
			return fmt.Errorf("weighted objective requires the weights flag")
		}
	default:
		return fmt.Errorf("unknown objective %s", lcc.objectiveName)
	}
	return nil
}

func (lcc *learnCmdConfig) evaluator() (objective.Evaluator, error) {
	switch lcc.objectiveName {
	case "misclassification":
		return objective.NewMisclassification(), nil
	case "weighted":
		return objective.NewWeighted(), nil
	}
	return nil, fmt.Errorf("unknown objective %s", lcc.objectiveName)
}

func (lcc *learnCmdConfig) cover(ds *dataset.Dataset) (*cover.Cover, error) {
	if lcc.objectiveName != "weighted" {
		return cover.New(ds), nil
	}
	weights, err := readWeights(lcc.weightsInput)
	if err != nil {
		return nil, err
	}
	return cover.NewWeighted(ds, weights)
}

// readWeights reads one float per line, in sample order, skipping
// blank lines.
func readWeights(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening weights file %s: %v", path, err)
	}
	defer f.Close()
	var weights []float64
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		w, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing weight %d from %s: %v", len(weights), path, err)
		}
		weights = append(weights, w)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading weights from %s: %v", path, err)
	}
	return weights, nil
}

func (lcc *learnCmdConfig) cache() (cache.Cache, error) {
	wipe, err := cache.ParseWipeType(lcc.wipePolicy)
	if err != nil {
		return nil, err
	}
	switch lcc.cacheBackend {
	case "trie":
		return cache.NewTrie(lcc.maxDepth, wipe, lcc.maxCacheSize), nil
	case "hash":
		return cache.NewHash(lcc.maxDepth, wipe, lcc.maxCacheSize), nil
	}
	return nil, fmt.Errorf("unknown cache backend %s", lcc.cacheBackend)
}

func (lcc *learnCmdConfig) outputTree(t *tree.Tree) error {
	if strings.HasPrefix(lcc.output, "redis://") {
		return lcc.outputTreeToRedis(t)
	}
	var f *os.File
	var err error
	if lcc.output == "" {
		f = os.Stdout
	} else {
		f, err = os.Create(lcc.output)
		if err != nil {
			return err
		}
	}
	defer f.Close()
	if strings.HasSuffix(lcc.output, ".dot") {
		return dot.WriteDOTTree(lcc.Context(), t, f)
	}
	return json.WriteJSONTree(lcc.Context(), t, f)
}

func (lcc *learnCmdConfig) outputTreeToRedis(t *tree.Tree) error {
	lcc.Logf("Storing tree in redis at %s...", lcc.output)
	rc, prefix, err := redisClient(lcc.output)
	if err != nil {
		return err
	}
	defer rc.Close()
	store := redisNodeStore(rc, prefix)
	err = t.Traverse(lcc.Context(), false, func(ctx context.Context, n *tree.Node) error {
		return store.Store(ctx, n)
	})
	if err != nil {
		return fmt.Errorf("storing tree in redis: %v", err)
	}
	err = setRedisTreeRoot(rc, prefix, t.RootID)
	if err != nil {
		return fmt.Errorf("storing tree root in redis: %v", err)
	}
	return nil
}

func (lcc *learnCmdConfig) Context() context.Context {
	lcc.setContextAndCancelFunc()
	return lcc.ctx
}

func (lcc *learnCmdConfig) ContextCancelFunc() context.CancelFunc {
	lcc.setContextAndCancelFunc()
	return lcc.cancelFunc
}

func (lcc *learnCmdConfig) setContextAndCancelFunc() {
	if lcc.ctx != nil {
		return
	}
	if lcc.timeout > 0 {
		lcc.ctx, lcc.cancelFunc = context.WithTimeout(context.Background(), lcc.timeout)
		return
	}
	lcc.ctx, lcc.cancelFunc = context.WithCancel(context.Background())
}
