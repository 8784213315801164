/*
Package csv provides methods to read binary training datasets from
CSV streams.
*/
package csv

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/vishalbelsare/pydl8.5/dataset"
	"github.com/vishalbelsare/pydl8.5/dataset/yaml"
)

/*
ReadDataset takes an io.Reader for a CSV stream and the metadata
describing its columns and returns the dataset built from the parsed
samples or an error.

The header or first row of the CSV content must contain every column
the metadata names; columns the metadata does not name are ignored.
Attribute columns must hold 0/1 values.
*/
func ReadDataset(reader io.Reader, md *yaml.Metadata) (*dataset.Dataset, error) {
	samples, err := ReadSamples(reader, md)
	if err != nil {
		return nil, err
	}
	return dataset.New(md.Attributes, samples)
}

/*
ReadSamples takes an io.Reader for a CSV stream and the metadata
describing its columns and returns the samples parsed from it or an
error.
*/
func ReadSamples(reader io.Reader, md *yaml.Metadata) ([]dataset.Sample, error) {
	var samples []dataset.Sample
	err := ReadSamplesBySample(reader, md, func(_ int, s dataset.Sample) (bool, error) {
		samples = append(samples, s)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return samples, nil
}

/*
ReadSamplesBySample takes an io.Reader for a CSV stream, the metadata
describing its columns and a lambda function on an integer and a
dataset.Sample that returns a boolean value. It parses the samples
from the reader and for each it calls the lambda function with the
sample and its index as parameters. If the lambda function returns
true, it will continue processing the next sample, otherwise it will
stop. An error is returned if something goes wrong when reading the
stream or parsing a sample.
*/
func ReadSamplesBySample(reader io.Reader, md *yaml.Metadata, lambda func(int, dataset.Sample) (bool, error)) error {
	return readSamplesBySample(reader, md, true, lambda)
}

/*
ReadUnlabeledSamples takes an io.Reader for a CSV stream and the
metadata describing its columns and returns the samples parsed from
it, tolerating a missing class column: samples to predict carry no
class. When the class column is present its values are parsed as on
ReadSamples.
*/
func ReadUnlabeledSamples(reader io.Reader, md *yaml.Metadata) ([]dataset.Sample, error) {
	var samples []dataset.Sample
	err := readSamplesBySample(reader, md, false, func(_ int, s dataset.Sample) (bool, error) {
		samples = append(samples, s)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return samples, nil
}

func readSamplesBySample(reader io.Reader, md *yaml.Metadata, requireClass bool, lambda func(int, dataset.Sample) (bool, error)) error {
	r := csv.NewReader(reader)
	header, err := r.Read()
	if err != nil {
		return fmt.Errorf("reading csv header: %v", err)
	}
	columns := make(map[string]int)
	for i, name := range header {
		columns[name] = i
	}
	attributeColumns := make([]int, len(md.Attributes))
	for i, name := range md.Attributes {
		col, ok := columns[name]
		if !ok {
			return fmt.Errorf("attribute column %q not present in csv header", name)
		}
		attributeColumns[i] = col
	}
	classColumn, ok := columns[md.Class]
	if !ok {
		if requireClass {
			return fmt.Errorf("class column %q not present in csv header", md.Class)
		}
		classColumn = -1
	}
	for i := 0; ; i++ {
		record, err := r.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading csv sample %d: %v", i, err)
		}
		s := dataset.Sample{
			Attributes: make([]bool, len(attributeColumns)),
		}
		if classColumn >= 0 {
			s.Class = record[classColumn]
		}
		for a, col := range attributeColumns {
			switch record[col] {
			case "0":
			case "1":
				s.Attributes[a] = true
			default:
				return fmt.Errorf("parsing csv sample %d: attribute column %q holds %q, expected 0 or 1", i, md.Attributes[a], record[col])
			}
		}
		ok, err := lambda(i, s)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}
}
