package excel

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"gomediate/domain/mediation"

	"github.com/xuri/excelize/v2"
	"gonum.org/v1/gonum/mat"
)

// DatasetReader loads mediation inputs from Excel or CSV files. Columns are
// mapped by header name: "x" and "y" are the observation vectors, "m<p>_<i>"
// is mediator i of path p, "w<p>_<j>" is moderator j of path p, and "c<k>" is
// covariate k. Paths with no w columns are unmoderated.
type DatasetReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
}

// NewDatasetReader creates a reader that handles both Excel and CSV files.
func NewDatasetReader(filePath string) *DatasetReader {
	fileType := "xlsx"
	if strings.ToLower(filepath.Ext(filePath)) == ".csv" {
		fileType = "csv"
	}
	return &DatasetReader{filePath: filePath, fileType: fileType}
}

// Read parses the file into a normalized mediation dataset.
func (r *DatasetReader) Read() (*mediation.Dataset, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath)
	}

	var rows [][]string
	var err error
	switch r.fileType {
	case "csv":
		rows, err = r.readCSVRows()
	case "xlsx":
		rows, err = r.readExcelRows()
	default:
		return nil, fmt.Errorf("unsupported file type: %s", r.fileType)
	}
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%s file must have a header row and at least one data row", strings.ToUpper(r.fileType))
	}

	return buildDataset(rows[0], rows[1:])
}

func (r *DatasetReader) readExcelRows() ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("failed to read first sheet: %w", err)
	}
	return rows, nil
}

func (r *DatasetReader) readCSVRows() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	return csv.NewReader(file).ReadAll()
}

var (
	mediatorHeader  = regexp.MustCompile(`^m(\d+)_(\d+)$`)
	moderatorHeader = regexp.MustCompile(`^w(\d+)_(\d+)$`)
	covariateHeader = regexp.MustCompile(`^c(\d+)$`)
)

// columnRef locates one named column within a path container.
type columnRef struct {
	path  int // 1-based path number, 0 for covariates
	index int // 1-based column number within the block
	col   int // source column in the file
}

func buildDataset(header []string, dataRows [][]string) (*mediation.Dataset, error) {
	xCol, yCol := -1, -1
	var mediators, moderators, covariates []columnRef

	for col, name := range header {
		name = strings.ToLower(strings.TrimSpace(name))
		switch {
		case name == "x":
			xCol = col
		case name == "y":
			yCol = col
		case mediatorHeader.MatchString(name):
			m := mediatorHeader.FindStringSubmatch(name)
			p, _ := strconv.Atoi(m[1])
			i, _ := strconv.Atoi(m[2])
			mediators = append(mediators, columnRef{path: p, index: i, col: col})
		case moderatorHeader.MatchString(name):
			m := moderatorHeader.FindStringSubmatch(name)
			p, _ := strconv.Atoi(m[1])
			j, _ := strconv.Atoi(m[2])
			moderators = append(moderators, columnRef{path: p, index: j, col: col})
		case covariateHeader.MatchString(name):
			m := covariateHeader.FindStringSubmatch(name)
			k, _ := strconv.Atoi(m[1])
			covariates = append(covariates, columnRef{index: k, col: col})
		}
	}

	if xCol < 0 || yCol < 0 {
		return nil, fmt.Errorf("header must include x and y columns")
	}
	if len(mediators) == 0 {
		return nil, fmt.Errorf("header must include at least one mediator column (m<path>_<index>)")
	}

	values, err := parseValues(dataRows, len(header))
	if err != nil {
		return nil, err
	}

	pathCount := 0
	for _, ref := range mediators {
		if ref.path > pathCount {
			pathCount = ref.path
		}
	}

	medMats := make([]*mat.Dense, pathCount)
	modMats := make([]*mat.Dense, pathCount)
	for p := 1; p <= pathCount; p++ {
		medMats[p-1], err = blockMatrix(values, refsForPath(mediators, p))
		if err != nil {
			return nil, fmt.Errorf("path %d mediators: %w", p, err)
		}
		if medMats[p-1] == nil {
			return nil, fmt.Errorf("path %d has no mediator columns", p)
		}
		modMats[p-1], err = blockMatrix(values, refsForPath(moderators, p))
		if err != nil {
			return nil, fmt.Errorf("path %d moderators: %w", p, err)
		}
	}

	covMat, err := blockMatrix(values, refsForPath(covariates, 0))
	if err != nil {
		return nil, fmt.Errorf("covariates: %w", err)
	}

	return &mediation.Dataset{
		X:          column(values, xCol),
		Y:          column(values, yCol),
		Paths:      assemblePaths(medMats, modMats),
		Covariates: covMat,
	}, nil
}

func parseValues(dataRows [][]string, width int) ([][]float64, error) {
	values := make([][]float64, len(dataRows))
	for i, row := range dataRows {
		values[i] = make([]float64, width)
		for col := 0; col < width && col < len(row); col++ {
			cell := strings.TrimSpace(row[col])
			if cell == "" {
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %d: %q is not numeric", i+2, col+1, cell)
			}
			values[i][col] = v
		}
	}
	return values, nil
}

func refsForPath(refs []columnRef, path int) []columnRef {
	var out []columnRef
	for _, ref := range refs {
		if ref.path == path {
			out = append(out, ref)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].index < out[j].index })
	return out
}

func blockMatrix(values [][]float64, refs []columnRef) (*mat.Dense, error) {
	if len(refs) == 0 {
		return nil, nil
	}
	for i, ref := range refs {
		if ref.index != i+1 {
			return nil, fmt.Errorf("column indices must be contiguous from 1, missing index %d", i+1)
		}
	}
	out := mat.NewDense(len(values), len(refs), nil)
	for i := range values {
		for j, ref := range refs {
			out.Set(i, j, values[i][ref.col])
		}
	}
	return out, nil
}

func column(values [][]float64, col int) []float64 {
	out := make([]float64, len(values))
	for i := range values {
		out[i] = values[i][col]
	}
	return out
}

func assemblePaths(mediators, moderators []*mat.Dense) []mediation.PathData {
	paths := make([]mediation.PathData, len(mediators))
	for p := range mediators {
		paths[p] = mediation.PathData{Mediators: mediators[p], Moderators: moderators[p]}
	}
	return paths
}
