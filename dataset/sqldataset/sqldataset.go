/*
Package sqldataset provides methods to read binary training datasets
from SQL databases, with adapters for SQLite3 files and PostgreSQL
connection URLs.
*/
package sqldataset

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	// SQL drivers the adapters below open connections through.
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/vishalbelsare/pydl8.5/dataset"
	"github.com/vishalbelsare/pydl8.5/dataset/yaml"
)

/*
ReadSqlite3Dataset takes a context, the path of a SQLite3 database
file, the name of the table holding the samples and the metadata
describing its columns, and returns the dataset built from the table
rows or an error.
*/
func ReadSqlite3Dataset(ctx context.Context, filepath, table string, md *yaml.Metadata) (*dataset.Dataset, error) {
	return readDataset(ctx, "sqlite3", filepath, table, md)
}

/*
ReadPostgreSQLDataset takes a context, a PostgreSQL connection URL,
the name of the table holding the samples and the metadata describing
its columns, and returns the dataset built from the table rows or an
error.
*/
func ReadPostgreSQLDataset(ctx context.Context, url, table string, md *yaml.Metadata) (*dataset.Dataset, error) {
	return readDataset(ctx, "postgres", url, table, md)
}

func readDataset(ctx context.Context, driver, source, table string, md *yaml.Metadata) (*dataset.Dataset, error) {
	samples, err := readSamples(ctx, driver, source, table, md)
	if err != nil {
		return nil, err
	}
	return dataset.New(md.Attributes, samples)
}

func readSamples(ctx context.Context, driver, source, table string, md *yaml.Metadata) ([]dataset.Sample, error) {
	db, err := sql.Open(driver, source)
	if err != nil {
		return nil, fmt.Errorf("opening %s database %s: %v", driver, source, err)
	}
	defer db.Close()

	columns := make([]string, 0, len(md.Attributes)+1)
	for _, a := range md.Attributes {
		columns = append(columns, quoteIdentifier(a))
	}
	columns = append(columns, quoteIdentifier(md.Class))
	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(columns, ", "), quoteIdentifier(table))
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying samples from %s: %v", table, err)
	}
	defer rows.Close()

	var samples []dataset.Sample
	for rows.Next() {
		values := make([]interface{}, len(md.Attributes)+1)
		pointers := make([]interface{}, len(values))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, fmt.Errorf("scanning sample %d from %s: %v", len(samples), table, err)
		}
		s := dataset.Sample{Attributes: make([]bool, len(md.Attributes))}
		for a := range md.Attributes {
			v, err := binaryValue(values[a])
			if err != nil {
				return nil, fmt.Errorf("parsing sample %d from %s: column %q: %v", len(samples), table, md.Attributes[a], err)
			}
			s.Attributes[a] = v
		}
		s.Class = fmt.Sprintf("%v", stringable(values[len(values)-1]))
		samples = append(samples, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading samples from %s: %v", table, err)
	}
	return samples, nil
}

// binaryValue coerces the value forms SQL drivers hand back for 0/1
// columns.
func binaryValue(v interface{}) (bool, error) {
	switch v := v.(type) {
	case bool:
		return v, nil
	case int64:
		if v == 0 || v == 1 {
			return v == 1, nil
		}
	case []byte:
		if s := string(v); s == "0" || s == "1" {
			return s == "1", nil
		}
	case string:
		if v == "0" || v == "1" {
			return v == "1", nil
		}
	}
	return false, fmt.Errorf("holds %v (%T), expected 0 or 1", v, v)
}

func stringable(v interface{}) interface{} {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

func quoteIdentifier(name string) string {
	return `"` + strings.Replace(name, `"`, `""`, -1) + `"`
}
