package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	mgo "gopkg.in/mgo.v2"

	"github.com/vishalbelsare/pydl8.5/dataset"
	"github.com/vishalbelsare/pydl8.5/dataset/csv"
	"github.com/vishalbelsare/pydl8.5/dataset/mongodataset"
	"github.com/vishalbelsare/pydl8.5/dataset/sqldataset"
	"github.com/vishalbelsare/pydl8.5/dataset/yaml"
)

const defaultSamplesTable = "samples"

/*
loadDataset reads the training or testing data named by dataInput: a
PostgreSQL connection URL, a MongoDB connection URL, a SQLite3 .db
file, a CSV file path or, when empty, CSV on STDIN.
*/
func (rcc *rootCmdConfig) loadDataset(ctx context.Context, dataInput, table string, md *yaml.Metadata) (*dataset.Dataset, error) {
	if table == "" {
		table = defaultSamplesTable
	}
	if dataInput == "" {
		rcc.Logf("Reading samples from STDIN...")
		return csv.ReadDataset(os.Stdin, md)
	}
	if strings.HasPrefix(dataInput, "postgresql://") {
		rcc.Logf("Reading samples from PostgreSQL at %s...", dataInput)
		return sqldataset.ReadPostgreSQLDataset(ctx, dataInput, table, md)
	}
	if strings.HasPrefix(dataInput, "mongodb://") {
		rcc.Logf("Reading samples from MongoDB at %s...", dataInput)
		session, err := mgo.Dial(dataInput)
		if err != nil {
			return nil, fmt.Errorf("connecting to MongoDB at %s: %v", dataInput, err)
		}
		defer session.Close()
		return mongodataset.ReadDataset(session, md)
	}
	if strings.HasSuffix(dataInput, ".db") {
		rcc.Logf("Reading samples from SQLite3 file %s...", dataInput)
		return sqldataset.ReadSqlite3Dataset(ctx, dataInput, table, md)
	}
	rcc.Logf("Opening %s to read samples...", dataInput)
	f, err := os.Open(dataInput)
	if err != nil {
		return nil, fmt.Errorf("opening samples at %s: %v", dataInput, err)
	}
	defer f.Close()
	return csv.ReadDataset(f, md)
}
