package walk

import (
	"os"

	"github.com/karrick/godirwalk"
)

// Entry is one child of a listed directory.
type Entry struct {
	Name string
	Mode os.FileMode // type bits only
	Err  error       // set when the entry's type could not be determined
}

// IsDir reports whether the entry is a directory. Symbolic links to
// directories are not.
func (e Entry) IsDir() bool {
	return e.Mode&os.ModeDir != 0
}

// IsSymlink reports whether the entry is a symbolic link.
func (e Entry) IsSymlink() bool {
	return e.Mode&os.ModeSymlink != 0
}

// Lister reads the entries of a directory, calling fn once per entry.
// An error is returned only when the directory itself cannot be read.
type Lister interface {
	List(dir string, fn func(Entry)) error
}

// DirentLister lists directories with godirwalk's Scanner, which reports the
// type of each entry from the directory read itself where the platform
// allows and falls back to lstat otherwise.
type DirentLister struct{}

// List implements Lister.
func (DirentLister) List(dir string, fn func(Entry)) error {
	scanner, err := godirwalk.NewScanner(dir)
	if err != nil {
		return err
	}
	for scanner.Scan() {
		de, err := scanner.Dirent()
		if err != nil {
			fn(Entry{Name: scanner.Name(), Err: err})
			continue
		}
		fn(Entry{Name: de.Name(), Mode: de.ModeType()})
	}
	return scanner.Err()
}
