// Command generate_dataset writes a synthetic held-out dataset to a
// CSV file for use with the evaluation harness. Rows hold the feature
// values followed by the label and weight columns.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/palcode/ELL/internal/domain"
	"github.com/palcode/ELL/internal/testutils"
)

func main() {
	var (
		size       = flag.Int("size", 500, "Number of examples to generate")
		kind       = flag.String("kind", "linear", "Dataset kind: linear or binary")
		noise      = flag.Float64("noise", 0.1, "Gaussian label noise for linear datasets")
		accuracy   = flag.Float64("accuracy", 0.9, "Label accuracy for binary datasets")
		seed       = flag.Int64("seed", 0, "Random seed; 0 uses the current time")
		outputPath = flag.String("output", "testdata/dataset.csv", "Output file path")
	)
	flag.Parse()

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	var examples []domain.Example
	switch *kind {
	case "linear":
		examples = testutils.GenerateLinearDataset(*size, []float64{1.5, -2.0, 0.5}, 0.25, *noise, *seed)
	case "binary":
		examples = testutils.GenerateBinaryDataset(*size, *accuracy, *seed)
	default:
		log.Fatalf("unknown dataset kind %q: expected linear or binary", *kind)
	}

	if err := writeCSV(*outputPath, examples); err != nil {
		log.Fatalf("Failed to save dataset: %v", err)
	}

	fmt.Printf("Generated dataset:\n")
	fmt.Printf("- Path: %s\n", *outputPath)
	fmt.Printf("- Kind: %s\n", *kind)
	fmt.Printf("- Examples: %d\n", len(examples))
	fmt.Printf("- Seed: %d\n", *seed)
}

func writeCSV(path string, examples []domain.Example) error {
	if len(examples) == 0 {
		return fmt.Errorf("no examples to write")
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)

	header := make([]string, 0, len(examples[0].Features)+2)
	for i := range examples[0].Features {
		header = append(header, fmt.Sprintf("x%d", i))
	}
	header = append(header, "label", "weight")
	if err := w.Write(header); err != nil {
		return err
	}

	for _, ex := range examples {
		row := make([]string, 0, len(header))
		for _, v := range ex.Features {
			row = append(row, strconv.FormatFloat(v, 'f', -1, 64))
		}
		row = append(row,
			strconv.FormatFloat(ex.Label, 'f', -1, 64),
			strconv.FormatFloat(ex.Weight, 'f', -1, 64),
		)
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
