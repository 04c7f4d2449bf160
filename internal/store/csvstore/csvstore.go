// Package csvstore keeps each ledger table in its own CSV file under a data
// directory.
package csvstore

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"fjacquet/caisse/internal/fileutils"
	"fjacquet/caisse/internal/logging"
	"fjacquet/caisse/internal/models"
	"fjacquet/caisse/internal/store"

	"github.com/gocarina/gocsv"
)

const extension = ".csv"

// Backend is the local-file store.Backend.
type Backend struct {
	dir    string
	logger logging.Logger
}

// New returns a backend rooted at dir, creating dir when needed.
func New(dir string, logger logging.Logger) (*Backend, error) {
	if err := fileutils.EnsureDirectoryExists(dir, models.PermissionDirectory); err != nil {
		return nil, fmt.Errorf("preparing data directory %s: %w", dir, err)
	}
	return &Backend{dir: dir, logger: logger}, nil
}

func (b *Backend) Name() string { return "csv" }

// Path is the file holding table name.
func (b *Backend) Path(name string) string {
	return filepath.Join(b.dir, name+extension)
}

// Tables lists the tables present in the data directory.
func (b *Backend) Tables() ([]string, error) {
	return fileutils.ListFilesWithExtension(b.dir, extension)
}

func (b *Backend) EnsureTable(_ context.Context, name string, header []string) error {
	path := b.Path(name)
	info, err := os.Stat(path)
	switch {
	case err == nil && info.Size() > 0:
		return nil
	case err != nil && !errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("checking %s: %w", path, err)
	}

	data, err := encode([][]string{header})
	if err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, models.PermissionDataFile)
	if errors.Is(err, os.ErrExist) {
		// an empty file left by someone else only gets its header
		return fileutils.WriteFileAtomic(path, data, models.PermissionDataFile)
	}
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing header of %s: %w", path, err)
	}
	b.logger.Info("Created table file",
		logging.F(logging.FieldTable, name),
		logging.F(logging.FieldFile, path))
	return f.Close()
}

func (b *Backend) Header(_ context.Context, name string) ([]string, error) {
	f, err := b.open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	row, err := newReader(f).Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading header of %s: %w", name, err)
	}
	return stripBOM(row), nil
}

func (b *Backend) ReadValues(_ context.Context, name string) ([][]string, error) {
	f, err := b.open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	values, err := newReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", b.Path(name), err)
	}
	if len(values) > 0 {
		values[0] = stripBOM(values[0])
	}
	return values, nil
}

func (b *Backend) WriteValues(_ context.Context, name string, values [][]string) error {
	data, err := encode(values)
	if err != nil {
		return err
	}
	return fileutils.WriteFileAtomic(b.Path(name), data, models.PermissionDataFile)
}

func (b *Backend) AppendValues(_ context.Context, name string, row []string) error {
	path := b.Path(name)
	if !fileutils.FileExists(path) {
		return store.ErrTableNotFound
	}
	data, err := encode([][]string{row})
	if err != nil {
		return err
	}
	if !endsWithNewline(path) {
		data = append([]byte("\n"), data...)
	}
	return fileutils.AppendFile(path, data)
}

func (b *Backend) open(name string) (*os.File, error) {
	f, err := os.Open(b.Path(name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, store.ErrTableNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", b.Path(name), err)
	}
	return f, nil
}

func newReader(r io.Reader) *csv.Reader {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	return reader
}

func encode(values [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := gocsv.NewSafeCSVWriter(csv.NewWriter(&buf))
	for _, row := range values {
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("encoding csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("encoding csv: %w", err)
	}
	return buf.Bytes(), nil
}

func stripBOM(row []string) []string {
	if len(row) > 0 {
		row[0] = strings.TrimPrefix(row[0], "\ufeff")
	}
	return row
}

func endsWithNewline(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return true
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil || info.Size() == 0 {
		return true
	}
	last := make([]byte, 1)
	if _, err := f.ReadAt(last, info.Size()-1); err != nil {
		return true
	}
	return last[0] == '\n'
}
