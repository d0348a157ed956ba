// Package scanner retrieves reviewable source files from a repository.
//
// It lists the repository tree through a ContentSource, filters entries by
// extension allow-list, path skip-list, and size caps, and fetches the
// surviving blobs as SourceFile records in tree order.
package scanner
