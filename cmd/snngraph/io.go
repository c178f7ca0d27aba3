package main

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/TrevorS/snn"
	"github.com/spf13/cobra"
)

const (
	formatCSV  = "csv"
	formatJSON = "json"
)

// neighborsFile is the JSON form of snn.Neighbors.
type neighborsFile struct {
	Indices   [][]int     `json:"indices"`
	Distances [][]float64 `json:"distances,omitempty"`
}

type edgeRecord struct {
	I      int     `json:"i"`
	J      int     `json:"j"`
	Weight float64 `json:"weight"`
}

// graphFile is the JSON form of an snn.Result.
type graphFile struct {
	NumCells int          `json:"num_cells"`
	Scheme   string       `json:"scheme"`
	Edges    []edgeRecord `json:"edges"`
}

// withInput opens path for reading ("-" is stdin) and passes it to read.
func withInput(cmd *cobra.Command, path string, read func(io.Reader) error) error {
	if path == "-" {
		return read(cmd.InOrStdin())
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return read(bufio.NewReader(f))
}

// withOutput creates path for writing ("-" is stdout) and passes it to write.
func withOutput(cmd *cobra.Command, path string, write func(io.Writer) error) (err error) {
	if path == "-" {
		return write(cmd.OutOrStdout())
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	w := bufio.NewWriter(f)
	if err := write(w); err != nil {
		return err
	}
	return w.Flush()
}

// readPoints parses one point per CSV row. A first row that is not numeric
// is treated as a header and skipped; lines starting with '#' are comments.
func readPoints(r io.Reader) ([][]float64, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.TrimLeadingSpace = true

	var points [][]float64
	for row := 1; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read points: %w", err)
		}

		point := make([]float64, len(rec))
		var parseErr error
		for j, field := range rec {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				parseErr = fmt.Errorf("read points: row %d column %d: %w", row, j+1, err)
				break
			}
			point[j] = v
		}
		if parseErr != nil {
			if row == 1 {
				continue
			}
			return nil, parseErr
		}
		points = append(points, point)
	}
	return points, nil
}

func readNeighbors(r io.Reader) (*snn.Neighbors, error) {
	var nf neighborsFile
	if err := json.NewDecoder(r).Decode(&nf); err != nil {
		return nil, fmt.Errorf("read neighbors: %w", err)
	}
	return &snn.Neighbors{Indices: nf.Indices, Distances: nf.Distances}, nil
}

func writeNeighbors(w io.Writer, nn *snn.Neighbors) error {
	enc := json.NewEncoder(w)
	return enc.Encode(neighborsFile{Indices: nn.Indices, Distances: nn.Distances})
}

func writeEdgesCSV(w io.Writer, res *snn.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"i", "j", "weight"}); err != nil {
		return err
	}
	for e := 0; e < res.NumEdges(); e++ {
		i, j, weight := res.Edge(e)
		rec := []string{strconv.Itoa(i), strconv.Itoa(j), strconv.FormatFloat(weight, 'g', -1, 64)}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeEdgesJSON(w io.Writer, res *snn.Result, scheme snn.Scheme) error {
	out := graphFile{
		NumCells: res.NumCells,
		Scheme:   scheme.String(),
		Edges:    make([]edgeRecord, res.NumEdges()),
	}
	for e := range out.Edges {
		i, j, weight := res.Edge(e)
		out.Edges[e] = edgeRecord{I: i, J: j, Weight: weight}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
