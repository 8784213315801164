/*
Package mongodataset provides methods to read binary training
datasets from a MongoDB collection.
*/
package mongodataset

import (
	"fmt"

	mgo "gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"

	"github.com/vishalbelsare/pydl8.5/dataset"
	"github.com/vishalbelsare/pydl8.5/dataset/yaml"
)

const samplesCollectionName = "samples"

/*
ReadDataset takes a MongoDB database session and the metadata
describing the sample documents and returns the dataset built from
the documents of the samples collection of the session's default
database, or an error. Attribute fields must hold 0/1 or boolean
values; the class field is rendered as a string.
*/
func ReadDataset(session *mgo.Session, md *yaml.Metadata) (*dataset.Dataset, error) {
	samples, err := ReadSamples(session, md)
	if err != nil {
		return nil, err
	}
	return dataset.New(md.Attributes, samples)
}

/*
ReadSamples takes a MongoDB database session and the metadata
describing the sample documents and returns the samples read from the
samples collection or an error.
*/
func ReadSamples(session *mgo.Session, md *yaml.Metadata) ([]dataset.Sample, error) {
	iter := session.DB("").C(samplesCollectionName).Find(nil).Iter()
	defer iter.Close()
	var samples []dataset.Sample
	var doc bson.M
	for iter.Next(&doc) {
		s := dataset.Sample{Attributes: make([]bool, len(md.Attributes))}
		for a, name := range md.Attributes {
			v, err := binaryValue(doc[name])
			if err != nil {
				return nil, fmt.Errorf("parsing sample %d: field %q: %v", len(samples), name, err)
			}
			s.Attributes[a] = v
		}
		class, ok := doc[md.Class]
		if !ok {
			return nil, fmt.Errorf("parsing sample %d: class field %q missing", len(samples), md.Class)
		}
		s.Class = fmt.Sprintf("%v", class)
		samples = append(samples, s)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("reading samples collection: %v", err)
	}
	return samples, nil
}

func binaryValue(v interface{}) (bool, error) {
	switch v := v.(type) {
	case bool:
		return v, nil
	case int:
		if v == 0 || v == 1 {
			return v == 1, nil
		}
	case int64:
		if v == 0 || v == 1 {
			return v == 1, nil
		}
	case float64:
		if v == 0 || v == 1 {
			return v == 1, nil
		}
	}
	return false, fmt.Errorf("holds %v (%T), expected 0 or 1", v, v)
}
