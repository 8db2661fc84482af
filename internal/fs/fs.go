// filesystem handling
package fs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sweets9/SOC-ThreatViz/internal/util"
)

// FileExists checks if a file exists
func FileExists(filename string) bool {
	_, err := os.Stat(filename)
	return !os.IsNotExist(err)
}

// DirExists checks if a directory exists
func DirExists(dirname string) bool {
	info, err := os.Stat(dirname)
	if os.IsNotExist(err) {
		return false
	}
	return info.IsDir()
}

// EnsureDir creates the directory holding the given file path if it is missing
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	if DirExists(dir) {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func GetFile(filename string) (*os.File, error) {
	if !FileExists(filename) {
		errMsg := fmt.Sprintf("File %s does not exist", filename)
		return nil, util.Errorf(errMsg)
	}
	return os.Open(filename)
}

func CreateFile(filename string) (*os.File, error) {
	return os.Create(filename)
}
