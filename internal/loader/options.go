package loader

import "strings"

const (
	DefaultManifestName = "tileset.json"
	DefaultPayloadExt   = ".pnts"
)

// Contains the options needed to load a tileset
type LoaderOptions struct {
	Input        string // Input tileset.json file or folder of tileset subfolders
	ManifestName string // Manifest file name looked up in each subfolder when Input is a folder
	PayloadExt   string // Suffix that marks a content reference as a pnts payload
	Workers      int    // Max number of items doing I/O at once, 0 means unbounded
}

func NewLoaderOptions(input string) *LoaderOptions {
	opts := &LoaderOptions{Input: input}
	opts.ApplyDefaults()
	return opts
}

// Fills unset fields with their defaults
func (opt *LoaderOptions) ApplyDefaults() {
	if opt.ManifestName == "" {
		opt.ManifestName = DefaultManifestName
	}
	opt.PayloadExt = NormalizeExt(opt.PayloadExt)
	if opt.Workers < 0 {
		opt.Workers = 0
	}
}

// NormalizeExt lowercases an extension and makes sure it starts with a dot
func NormalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" {
		return DefaultPayloadExt
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

func (opt *LoaderOptions) Copy() *LoaderOptions {
	newOpt := *opt
	return &newOpt
}
