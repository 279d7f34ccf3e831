// Package fileutil provides directory scanning and text reading over an afero.Fs.
//
// All filesystem access in projdump goes through this package so that the
// dumper can run against the real disk (afero.NewOsFs) or an in-memory
// filesystem in tests (afero.NewMemMapFs).
//
// # Scanning
//
// ScanDirectory walks a directory and returns the regular files whose
// extension is in ScanOptions.Extensions:
//
//	result, err := fileutil.ScanDirectory(fs, "/project/components", fileutil.ScanOptions{
//	    Extensions:    []string{".js", ".jsx", ".ts", ".tsx", ".json"},
//	    CaseSensitive: true,
//	    Recursive:     true,
//	})
//	if err != nil {
//	    return err
//	}
//	for _, file := range result.Files {
//	    fmt.Println(file)
//	}
//
// Files are returned sorted case-insensitively by their forward-slash path
// (see SortFolded), so "A.ts" sorts before "b.ts" and "c.json". Symlinks to
// regular files are included; symlinked directories below the scanned
// directory are not descended. The scanned directory itself may be a
// symlink, and results keep its path rather than the link target's.
//
// The scanner is error tolerant: a subdirectory that cannot be read is
// recorded in ScanResult.Errors and the walk continues. Only a missing or
// non-directory root is fatal.
//
// # Reading
//
// ReadText returns file contents as a string. Bytes that are not valid
// UTF-8 are replaced with U+FFFD using golang.org/x/text, so a binary or
// Latin-1 file still yields printable text rather than an error.
package fileutil
