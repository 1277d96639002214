//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package main

import "os"

// mapFile reads path into memory.
func mapFile(path string) ([]byte, func() error, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	return data, func() error { return nil }, nil
}
