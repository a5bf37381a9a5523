// Package loader reads configuration sources from disk.
//
// A source is a single file or a directory tree. Each file is decoded with
// the document.Registry decoder for its extension (YAML for anything not
// registered), flattened, and merged into one path lookup:
//
//	l := loader.NewLoader(logger)
//	res := l.Load(ctx, "/etc/myapp")
//	port := res.Entries["server.port"]
//
// Loading never fails. Missing sources, unreadable directories, files that do
// not parse and invalid keys are logged through zerolog and left out.
package loader
