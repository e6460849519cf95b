package main

import (
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// A CacheKey names a cached result by the hash of everything the result
// depends on.
type CacheKey struct {
	dir string
	key string
	log *zap.Logger
}

// MakeCacheKey returns the key for args, stored under dir.
func MakeCacheKey(dir string, log *zap.Logger, args ...any) *CacheKey {
	h := sha256.New()

	enc := gob.NewEncoder(h)
	for _, arg := range args {
		if err := enc.Encode(arg); err != nil {
			panic("error encoding cache key: " + err.Error())
		}
	}

	return &CacheKey{dir, hex.EncodeToString(h.Sum(nil)), log}
}

func (ck *CacheKey) path() string {
	return filepath.Join(ck.dir, ck.key)
}

// Load decodes the cached value into out and reports whether there was
// one.
func (ck *CacheKey) Load(out any) bool {
	f, err := os.Open(ck.path())
	if err != nil {
		return false
	}
	defer f.Close()
	dec := gob.NewDecoder(f)
	if err := dec.Decode(out); err != nil {
		ck.log.Warn("ignoring bad cache entry", zap.String("path", ck.path()), zap.Error(err))
		return false
	}
	return true
}

// Save stores val. Failures are logged and otherwise ignored.
func (ck *CacheKey) Save(val any) {
	if err := os.MkdirAll(ck.dir, 0777); err != nil {
		ck.log.Warn("error creating cache directory", zap.Error(err))
		return
	}
	f, err := os.Create(ck.path())
	if err != nil {
		ck.log.Warn("error saving to cache", zap.Error(err))
		return
	}
	enc := gob.NewEncoder(f)
	if err := enc.Encode(val); err != nil {
		ck.log.Warn("error encoding cache value", zap.String("path", ck.path()), zap.Error(err))
		f.Close()
		os.Remove(ck.path())
		return
	}
	if err := f.Close(); err != nil {
		ck.log.Warn("error saving to cache", zap.Error(err))
	}
}
