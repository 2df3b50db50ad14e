package catalog

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/hovalvent/hovalventd/internal/datapoint"
)

const requiredUnitName = "HV"

// LoadFile opens path and parses it as the datapoint catalog CSV. If the
// file cannot be opened, it returns an empty catalog together with the
// open error so the caller can log a warning and continue (spec §7:
// "CSV absent -> warn; start with empty catalog").
func LoadFile(path string, unitID int, ignoreKeywords []string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return Empty(), fmt.Errorf("open catalog csv %s: %w", path, err)
	}
	defer f.Close()

	return Parse(f, unitID, ignoreKeywords)
}

// Parse reads a CSV stream and builds a Catalog, keeping only rows whose
// UnitName is "HV" and whose UnitId matches unitID, and rejecting any row
// whose DatapointName contains an ignore keyword as a case-sensitive
// substring. Rows with parse errors are skipped silently (spec §4.1).
func Parse(r io.Reader, unitID int, ignoreKeywords []string) (*Catalog, error) {
	delim, reader, err := detectDelimiter(r)
	if err != nil {
		return Empty(), err
	}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = delim
	csvReader.TrimLeadingSpace = true
	csvReader.FieldsPerRecord = -1
	csvReader.LazyQuotes = true

	records, err := csvReader.ReadAll()
	if err != nil {
		return Empty(), fmt.Errorf("read catalog csv: %w", err)
	}
	if len(records) == 0 {
		return Empty(), nil
	}

	colIdx, err := indexColumns(records[0])
	if err != nil {
		return Empty(), err
	}

	cat := Empty()
	for _, row := range records[1:] {
		desc, ok := parseRow(row, colIdx, unitID, ignoreKeywords)
		if !ok {
			continue
		}
		cat.byID[desc.ID] = desc // last write wins, per CSV order
	}

	return cat, nil
}

func detectDelimiter(r io.Reader) (rune, io.Reader, error) {
	buf := bufio.NewReader(r)

	// Strip a UTF-8 BOM if present, as Windows-authored CSVs often carry one.
	runeChar, _, err := buf.ReadRune()
	if err != nil && err != io.EOF {
		return 0, nil, fmt.Errorf("read catalog csv header: %w", err)
	}
	if runeChar != 0xFEFF && err == nil {
		_ = buf.UnreadRune()
	}

	firstLine, err := buf.Peek(bufPeekSize(buf))
	if err != nil && err != io.EOF {
		return 0, nil, fmt.Errorf("peek catalog csv header: %w", err)
	}

	delim := ','
	if idx := strings.IndexByte(string(firstLine), '\n'); idx >= 0 {
		firstLine = firstLine[:idx]
	}
	if strings.ContainsRune(string(firstLine), ';') {
		delim = ';'
	}

	return delim, buf, nil
}

func bufPeekSize(buf *bufio.Reader) int {
	if buf.Size() > 4096 {
		return buf.Size()
	}
	return 4096
}

// columnIndex holds the header position of each required column, resolved
// once by indexColumns instead of by string compares for every row.
type columnIndex struct {
	unitName, unitID, datapointID, datapointName, typeName, decimal, unit int
}

func indexColumns(header []string) (columnIndex, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		pos[strings.TrimSpace(h)] = i
	}

	var idx columnIndex
	get := func(name string) (int, error) {
		i, ok := pos[name]
		if !ok {
			return 0, fmt.Errorf("catalog csv missing required column %q", name)
		}
		return i, nil
	}

	var err error
	if idx.unitName, err = get("UnitName"); err != nil {
		return idx, err
	}
	if idx.unitID, err = get("UnitId"); err != nil {
		return idx, err
	}
	if idx.datapointID, err = get("DatapointId"); err != nil {
		return idx, err
	}
	if idx.datapointName, err = get("DatapointName"); err != nil {
		return idx, err
	}
	if idx.typeName, err = get("TypeName"); err != nil {
		return idx, err
	}
	if idx.decimal, err = get("Decimal"); err != nil {
		return idx, err
	}
	if idx.unit, err = get("unit"); err != nil {
		return idx, err
	}
	return idx, nil
}

func parseRow(row []string, idx columnIndex, unitID int, ignoreKeywords []string) (datapoint.Descriptor, bool) {
	maxIdx := idx.unitName
	for _, i := range []int{idx.unitID, idx.datapointID, idx.datapointName, idx.typeName, idx.decimal, idx.unit} {
		if i > maxIdx {
			maxIdx = i
		}
	}
	if maxIdx >= len(row) {
		return datapoint.Descriptor{}, false
	}

	if strings.TrimSpace(row[idx.unitName]) != requiredUnitName {
		return datapoint.Descriptor{}, false
	}

	rowUnitID, err := strconv.Atoi(strings.TrimSpace(row[idx.unitID]))
	if err != nil || rowUnitID != unitID {
		return datapoint.Descriptor{}, false
	}

	name := row[idx.datapointName]
	for _, kw := range ignoreKeywords {
		if kw != "" && strings.Contains(name, kw) {
			return datapoint.Descriptor{}, false
		}
	}

	id, err := strconv.Atoi(strings.TrimSpace(row[idx.datapointID]))
	if err != nil || id < 0 || id > 0xFFFF {
		return datapoint.Descriptor{}, false
	}

	decimal, err := strconv.Atoi(strings.TrimSpace(row[idx.decimal]))
	if err != nil || decimal < 0 || decimal > 4 {
		return datapoint.Descriptor{}, false
	}

	typ, ok := datapoint.ParseType(strings.TrimSpace(row[idx.typeName]))
	if !ok {
		return datapoint.Descriptor{}, false
	}

	unit := row[idx.unit]
	return datapoint.NewDescriptor(uint16(id), name, typ, decimal, unit), true
}
