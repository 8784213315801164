package csv_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vishalbelsare/pydl8.5/dataset"
	"github.com/vishalbelsare/pydl8.5/dataset/csv"
	"github.com/vishalbelsare/pydl8.5/dataset/yaml"
)

func metadata() *yaml.Metadata {
	return &yaml.Metadata{Attributes: []string{"sunny", "windy"}, Class: "play"}
}

func TestReadSamples(t *testing.T) {
	samples, err := csv.ReadSamples(strings.NewReader(
		"sunny,windy,play\n1,0,yes\n0,1,no\n"), metadata())
	require.NoError(t, err)
	assert.Equal(t, []dataset.Sample{
		{Attributes: []bool{true, false}, Class: "yes"},
		{Attributes: []bool{false, true}, Class: "no"},
	}, samples)
}

func TestReadSamplesIgnoresExtraColumnsAndOrder(t *testing.T) {
	samples, err := csv.ReadSamples(strings.NewReader(
		"id,play,windy,sunny\n17,yes,0,1\n"), metadata())
	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.Equal(t, dataset.Sample{Attributes: []bool{true, false}, Class: "yes"}, samples[0])
}

func TestReadSamplesErrors(t *testing.T) {
	cases := map[string]string{
		"missing attribute column": "windy,play\n0,yes\n",
		"missing class column":     "sunny,windy\n1,0\n",
		"non-binary attribute":     "sunny,windy,play\n2,0,yes\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := csv.ReadSamples(strings.NewReader(content), metadata())
			assert.Error(t, err)
		})
	}
}

func TestReadSamplesBySampleStopsWhenToldTo(t *testing.T) {
	var seen []dataset.Sample
	err := csv.ReadSamplesBySample(strings.NewReader(
		"sunny,windy,play\n1,0,yes\n0,0,no\n0,1,no\n"), metadata(),
		func(i int, s dataset.Sample) (bool, error) {
			seen = append(seen, s)
			return i < 1, nil
		})
	require.NoError(t, err)
	assert.Len(t, seen, 2)
}

func TestReadUnlabeledSamples(t *testing.T) {
	samples, err := csv.ReadUnlabeledSamples(strings.NewReader(
		"sunny,windy\n1,1\n0,0\n"), metadata())
	require.NoError(t, err)
	assert.Equal(t, []dataset.Sample{
		{Attributes: []bool{true, true}},
		{Attributes: []bool{false, false}},
	}, samples)
}

func TestReadUnlabeledSamplesKeepsClassWhenPresent(t *testing.T) {
	samples, err := csv.ReadUnlabeledSamples(strings.NewReader(
		"sunny,windy,play\n1,1,yes\n"), metadata())
	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.Equal(t, "yes", samples[0].Class)
}

func TestReadDataset(t *testing.T) {
	ds, err := csv.ReadDataset(strings.NewReader(
		"sunny,windy,play\n1,0,yes\n0,1,no\n1,1,yes\n"), metadata())
	require.NoError(t, err)
	assert.Equal(t, 3, ds.Count())
	assert.Equal(t, []string{"sunny", "windy"}, ds.AttributeNames())
	assert.Equal(t, []int{2, 1}, ds.ClassSupports())
}
