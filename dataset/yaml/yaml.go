/*
Package yaml provides methods to parse dataset metadata, the
description of which columns of a data source hold the binary
attributes and which one holds the class label, from YAML documents.
*/
package yaml

import (
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v2"
)

/*
Metadata describes the layout of a data source: the names of its
binary attribute columns, in the order the induced tree will index
them, and the name of its class column.
*/
type Metadata struct {
	Attributes []string `yaml:"attributes"`
	Class      string   `yaml:"class"`
}

/*
ReadMetadata takes a slice of bytes with a metadata specification in
YML and returns the parsed Metadata or an error. The YML is expected
to be an object with an attributes property listing the attribute
column names and a class property naming the class column.
*/
func ReadMetadata(md []byte) (*Metadata, error) {
	metadata := &Metadata{}
	err := yaml.Unmarshal(md, metadata)
	if err != nil {
		return nil, fmt.Errorf("parsing yml metadata: %v", err)
	}
	if len(metadata.Attributes) == 0 {
		return nil, fmt.Errorf("metadata declares no attribute columns")
	}
	if metadata.Class == "" {
		return nil, fmt.Errorf("metadata declares no class column")
	}
	for _, a := range metadata.Attributes {
		if a == metadata.Class {
			return nil, fmt.Errorf("column %q declared both as attribute and class", a)
		}
	}
	return metadata, nil
}

/*
ReadMetadataFromFile takes a filepath string, reads its contents and
uses ReadMetadata to parse it and return the Metadata or an error.
If the file indicated by the filepath cannot be opened for reading an
error will be returned.
*/
func ReadMetadataFromFile(filepath string) (*Metadata, error) {
	md, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("reading metadata yml file %s: %v", filepath, err)
	}
	metadata, err := ReadMetadata(md)
	if err != nil {
		err = fmt.Errorf("parsing metadata yml file %s: %v", filepath, err)
	}
	return metadata, err
}
