package routing

import (
	"context"
	"errors"
	"strings"

	"github.com/3leaps/gohotfolder/pkg/match"
	"github.com/3leaps/gohotfolder/pkg/provider/file"
)

// ErrRootNotSet is returned by scans when the configured root is empty.
var ErrRootNotSet = errors.New("root path not set")

// ListFolders returns the immediate child folders of root that pass filter,
// in sorted order. A nil filter skips hidden folders only.
func ListFolders(ctx context.Context, root string, filter *match.FolderFilter) ([]string, error) {
	if strings.TrimSpace(root) == "" {
		return nil, ErrRootNotSet
	}
	p, err := file.New(file.Config{BaseDir: root})
	if err != nil {
		return nil, err
	}
	dirs, err := p.ListDirs(ctx, "")
	if err != nil {
		return nil, err
	}
	if filter == nil {
		if filter, err = match.NewFolderFilter(match.FolderConfig{}); err != nil {
			return nil, err
		}
	}
	return filter.Filter(dirs), nil
}

// PrinterFolders lists the subfolders of printer's hotfolder.
func (e *Engine) PrinterFolders(ctx context.Context, printer string, filter *match.FolderFilter) ([]string, error) {
	root := e.settings.HotfolderRoot
	if strings.TrimSpace(root) == "" {
		return nil, ErrRootNotSet
	}
	p, err := file.New(file.Config{BaseDir: root})
	if err != nil {
		return nil, err
	}
	dirs, err := p.ListDirs(ctx, e.settings.PrinterFolderName(printer))
	if err != nil {
		return nil, err
	}
	if filter == nil {
		if filter, err = match.NewFolderFilter(match.FolderConfig{}); err != nil {
			return nil, err
		}
	}
	return filter.Filter(dirs), nil
}

// PrinterScan is the result of ScanPrinters.
type PrinterScan struct {
	Folders []string `json:"folders"`
	Added   []string `json:"added"`
	Missing []string `json:"missing"`
	Pruned  bool     `json:"pruned"`
}

// ScanPrinters lists printer folders under the hotfolder root and merges
// them into the printer table. New folders become active roll printers.
// Configured printers whose folder is gone are removed only when prune is set.
func (e *Engine) ScanPrinters(ctx context.Context, filter *match.FolderFilter, prune bool) (*PrinterScan, error) {
	folders, err := ListFolders(ctx, e.settings.HotfolderRoot, filter)
	if err != nil {
		return nil, err
	}
	added, missing := e.settings.MergePrinters(folders, prune)
	return &PrinterScan{Folders: folders, Added: added, Missing: missing, Pruned: prune}, nil
}

// ClientScan is the result of ScanClientFolders.
type ClientScan struct {
	Folders []string               `json:"folders"`
	Matches map[string]ClientMatch `json:"matches"`
	Applied bool                   `json:"applied"`
}

// ScanClientFolders lists folders under the art root and matches them to
// clients without a mapping. With apply set the matches are stored in the
// client art folder table.
func (e *Engine) ScanClientFolders(ctx context.Context, filter *match.FolderFilter, apply bool) (*ClientScan, error) {
	folders, err := ListFolders(ctx, e.settings.ArtRootPath, filter)
	if err != nil {
		return nil, err
	}
	matches := e.AutoMatchClients(e.settings.ClientList, folders)
	if apply {
		for client, m := range matches {
			e.settings.SetClientArtFolder(client, m.FullPath)
		}
	}
	return &ClientScan{Folders: folders, Matches: matches, Applied: apply}, nil
}
