package tools

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang/glog"

	"github.com/ecopia-map/cesium_loader/internal/failure"
	"github.com/ecopia-map/cesium_loader/internal/loader"
)

type FileFinder interface {
	GetManifestsToProcess(opts *loader.LoaderOptions) ([]string, error)
}

type StandardFileFinder struct{}

func NewStandardFileFinder() FileFinder {
	return &StandardFileFinder{}
}

// If the input is a file it is the only manifest, otherwise every immediate
// subfolder of the input is expected to hold a manifest named opts.ManifestName.
// Subfolders are not checked for the manifest here, a missing one is reported
// when it is resolved.
func (f *StandardFileFinder) GetManifestsToProcess(opts *loader.LoaderOptions) ([]string, error) {
	info, err := os.Stat(opts.Input)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", failure.ErrInvalidRoot, opts.Input, err)
	}

	if info.Mode().IsRegular() {
		return []string{opts.Input}, nil
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", failure.ErrInvalidRoot, opts.Input)
	}

	return f.getManifestsFromInputSubFolders(opts)
}

func (f *StandardFileFinder) getManifestsFromInputSubFolders(opts *loader.LoaderOptions) ([]string, error) {
	entries, err := os.ReadDir(opts.Input)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", failure.ErrInvalidRoot, opts.Input, err)
	}

	manifests := make([]string, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		manifests = append(manifests, filepath.Join(opts.Input, entry.Name(), opts.ManifestName))
	}

	if len(manifests) == 0 {
		glog.Warningf("no subfolders found in %s", opts.Input)
	}

	return manifests, nil
}
