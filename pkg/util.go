package pkg

import (
	"crypto/rand"
	"errors"
	"math/big"
	"os"
	"unsafe"
)

const letterBytes = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// BytesToString converts bytes slice to a string without extra allocation
func BytesToString(buf []byte) string {
	return *(*string)(unsafe.Pointer(&buf))
}

// GenerateRandomString returns a securely generated random alphanumeric string of length n.
func GenerateRandomString(n int) (string, error) {
	if n <= 0 {
		return "", errors.New("length must be positive")
	}

	max := big.NewInt(int64(len(letterBytes)))
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = letterBytes[idx.Int64()]
	}

	return string(b), nil
}

// PathExists returns whether the given file or directory exists
func PathExists(path string, isDir bool) (bool, error) {
	stat, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if isDir != stat.IsDir() {
		if isDir {
			return false, errors.New(path + " is not a directory")
		}
		return false, errors.New(path + " is a directory")
	}
	return true, nil
}
