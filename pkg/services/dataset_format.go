package services

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hopeIsCo0l/DemandPridiction/pkg/models"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// DatasetFormat 出力ファイル形式
type DatasetFormat string

const (
	FormatCSV  DatasetFormat = "csv"
	FormatXLSX DatasetFormat = "xlsx"

	xlsxSheetName = "demand"
)

var (
	// ErrUnsupportedFormat 未対応のファイル形式
	ErrUnsupportedFormat = errors.New("サポートされていないファイル形式です")
	// ErrInvalidDataset ヘッダーや値が不正なデータセット
	ErrInvalidDataset = errors.New("データセットの形式が不正です")
)

// ParseFormat "csv" / "xlsx" を DatasetFormat に変換する（空文字はCSV）
func ParseFormat(s string) (DatasetFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "csv":
		return FormatCSV, nil
	case "xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, s)
	}
}

// FormatForPath 拡張子から形式を決める。.xlsx 以外はすべてCSVとして扱う。
func FormatForPath(path string) DatasetFormat {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return FormatXLSX
	}
	return FormatCSV
}

// ContentType returns the MIME type used when serving the format.
func (f DatasetFormat) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// WriteDataset writes records to path atomically: the data goes to a
// temporary file in the same directory which is renamed over path only
// after it has been completely written and closed. The file is created with
// mode 0666 so the process umask applies, as with os.Create.
func WriteDataset(path string, records []models.DemandRecord) (err error) {
	tmpName := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+"-"+uuid.NewString()+".tmp")
	tmp, err := os.OpenFile(tmpName, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o666)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWriteFailure, path, err)
	}

	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	bw := bufio.NewWriter(tmp)
	if err = WriteFormatted(bw, FormatForPath(path), records); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWriteFailure, path, err)
	}
	if err = bw.Flush(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWriteFailure, path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWriteFailure, path, err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWriteFailure, path, err)
	}
	return nil
}

// WriteFormatted 指定形式で w に書き出す
func WriteFormatted(w io.Writer, format DatasetFormat, records []models.DemandRecord) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, records)
	case FormatXLSX:
		return WriteXLSX(w, records)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// WriteCSV ヘッダー行＋1レコード1行のCSVを書き出す（インデックス列なし）
func WriteCSV(w io.Writer, records []models.DemandRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(models.DatasetHeader); err != nil {
		return err
	}

	row := make([]string, len(models.DatasetHeader))
	for _, rec := range records {
		row[0] = strconv.Itoa(rec.Month)
		row[1] = rec.ProductCategory
		row[2] = strconv.Itoa(rec.PreviousSales)
		row[3] = formatFactor(rec.SeasonalityFactor)
		row[4] = strconv.Itoa(rec.Demand)
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// formatFactor 季節係数は常に小数1桁で出力する（1.0, 1.1, ...）
func formatFactor(f float64) string {
	return strconv.FormatFloat(f, 'f', 1, 64)
}

// WriteXLSX "demand" シートに同じ列構成で書き出す。数値は数値セルとして保存する。
func WriteXLSX(w io.Writer, records []models.DemandRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), xlsxSheetName); err != nil {
		return err
	}

	sw, err := f.NewStreamWriter(xlsxSheetName)
	if err != nil {
		return err
	}

	header := make([]interface{}, len(models.DatasetHeader))
	for i, h := range models.DatasetHeader {
		header[i] = h
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}

	for i, rec := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, []interface{}{
			rec.Month,
			rec.ProductCategory,
			rec.PreviousSales,
			rec.SeasonalityFactor,
			rec.Demand,
		}); err != nil {
			return err
		}
	}

	if err := sw.Flush(); err != nil {
		return err
	}

	_, err = f.WriteTo(w)
	return err
}

// ReadDataset CSVまたはExcelファイルからデータセットを読み込む
func ReadDataset(path string) ([]models.DemandRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var rows [][]string
	switch FormatForPath(path) {
	case FormatXLSX:
		f, err := excelize.OpenReader(file)
		if err != nil {
			return nil, fmt.Errorf("Excelファイルの読み込みに失敗: %w", err)
		}
		defer f.Close()
		rows, err = f.GetRows(f.GetSheetName(0))
		if err != nil {
			return nil, fmt.Errorf("Excelシートの行取得に失敗: %w", err)
		}
	default:
		rows, err = csv.NewReader(file).ReadAll()
		if err != nil {
			return nil, fmt.Errorf("CSVファイルの解析に失敗: %w", err)
		}
	}

	return ParseRows(rows)
}

// ParseRows ヘッダー付きの行データをレコードに変換する
func ParseRows(rows [][]string) ([]models.DemandRecord, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: ヘッダー行がありません", ErrInvalidDataset)
	}
	if !equalHeader(rows[0], models.DatasetHeader) {
		return nil, fmt.Errorf("%w: 想定外のヘッダー %v", ErrInvalidDataset, rows[0])
	}

	records := make([]models.DemandRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rec, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("%w: %d行目: %v", ErrInvalidDataset, i+2, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func equalHeader(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range want {
		if strings.TrimSpace(got[i]) != want[i] {
			return false
		}
	}
	return true
}

func parseRow(row []string) (models.DemandRecord, error) {
	if len(row) != len(models.DatasetHeader) {
		return models.DemandRecord{}, fmt.Errorf("列数が%dではなく%dです", len(models.DatasetHeader), len(row))
	}

	month, err := parseInt(row[0])
	if err != nil {
		return models.DemandRecord{}, fmt.Errorf("Month: %w", err)
	}
	previousSales, err := parseInt(row[2])
	if err != nil {
		return models.DemandRecord{}, fmt.Errorf("Previous_Sales: %w", err)
	}
	factor, err := strconv.ParseFloat(strings.TrimSpace(row[3]), 64)
	if err != nil {
		return models.DemandRecord{}, fmt.Errorf("Seasonality_Factor: %w", err)
	}
	demand, err := parseInt(row[4])
	if err != nil {
		return models.DemandRecord{}, fmt.Errorf("Demand: %w", err)
	}

	return models.DemandRecord{
		Month:             month,
		ProductCategory:   strings.TrimSpace(row[1]),
		PreviousSales:     previousSales,
		SeasonalityFactor: factor,
		Demand:            demand,
	}, nil
}

// parseInt accepts "12" as well as spreadsheet renderings such as "12.0".
func parseInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != float64(int(f)) {
		return 0, fmt.Errorf("整数ではありません: %s", s)
	}
	return int(f), nil
}
