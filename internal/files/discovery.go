package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"sellerpulse/pkg/contracts/domain"
)

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// spreadsheetExts are the extensions the decoder accepts
var spreadsheetExts = map[string]bool{
	".xlsx": true, ".xlsm": true, ".xltx": true, ".xltm": true,
	".csv": true, ".tsv": true, ".txt": true,
}

// nameHints map lowercase filename fragments to the document they usually
// hold. Marketplace exports keep their Indonesian names.
var nameHints = []struct {
	kind      domain.DocumentKind
	fragments []string
}{
	{domain.DocumentPayouts, []string{"income", "penghasilan", "payout", "settlement"}},
	{domain.DocumentCostCatalog, []string{"hpp", "cost", "modal", "catalog"}},
	{domain.DocumentProductPerformance, []string{"performa", "performance", "traffic"}},
	{domain.DocumentOrders, []string{"order", "pesanan"}},
}

// Discovery finds spreadsheet inputs under a base directory
type Discovery struct {
	basePath string
}

// NewDiscovery creates a new file discovery instance
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

func (d *Discovery) resolve(dir string) string {
	if filepath.IsAbs(dir) || d.basePath == "" {
		return dir
	}
	return filepath.Join(d.basePath, dir)
}

// FindSpreadsheets lists the decodable files in dir, oldest first.
// Office lock files (~$name.xlsx) are skipped.
func (d *Discovery) FindSpreadsheets(dir string) ([]FileInfo, error) {
	fullPath := d.resolve(dir)

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", fullPath, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, "~$") {
			continue
		}
		if !spreadsheetExts[strings.ToLower(filepath.Ext(name))] {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Path:    filepath.Join(fullPath, name),
			Name:    name,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		if files[i].ModTime.Equal(files[j].ModTime) {
			return files[i].Name < files[j].Name
		}
		return files[i].ModTime.Before(files[j].ModTime)
	})
	return files, nil
}

// GuessDocument infers the document kind from a filename
func GuessDocument(name string) (domain.DocumentKind, bool) {
	lower := strings.ToLower(name)
	for _, hint := range nameHints {
		for _, fragment := range hint.fragments {
			if strings.Contains(lower, fragment) {
				return hint.kind, true
			}
		}
	}
	return "", false
}

// DiscoverInputs picks the most recently modified file for each document
// kind in dir. Kinds with no matching file are absent from the result.
func (d *Discovery) DiscoverInputs(dir string) (map[domain.DocumentKind]FileInfo, error) {
	files, err := d.FindSpreadsheets(dir)
	if err != nil {
		return nil, err
	}

	found := make(map[domain.DocumentKind]FileInfo)
	for _, f := range files {
		kind, ok := GuessDocument(f.Name)
		if !ok {
			continue
		}
		// files is sorted oldest first, so later entries win
		found[kind] = f
	}
	return found, nil
}

// GetLatestFile returns the most recently modified file from a list
func GetLatestFile(files []FileInfo) (FileInfo, bool) {
	if len(files) == 0 {
		return FileInfo{}, false
	}

	latest := files[0]
	for _, file := range files[1:] {
		if file.ModTime.After(latest.ModTime) {
			latest = file
		}
	}
	return latest, true
}
