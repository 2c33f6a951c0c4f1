// Package cache stores upstream payloads as JSON files named by a pair of
// fnv hashes of their logical key. Runs are immutable once recorded, so
// entries are never invalidated.
package cache

import (
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"sync"

	"github.com/getsentry/sentry-go"
	jsoniter "github.com/json-iterator/go"
)

var (
	dirLock sync.RWMutex
	baseDir = "./cached-json"
)

// SetDir changes the cache root. Call before serving.
func SetDir(dir string) {
	dirLock.Lock()
	baseDir = dir
	dirLock.Unlock()
}

type cacheKey struct {
	h64  uint64
	h64a uint64
}

var (
	savingLock sync.RWMutex
	saving     = make(map[cacheKey]struct{}, 32)
)

func lock(h cacheKey) bool {
	savingLock.Lock()
	defer savingLock.Unlock()

	_, ok := saving[h]
	if !ok {
		saving[h] = struct{}{}
	}
	return !ok
}

func unlock(h cacheKey) {
	savingLock.Lock()
	defer savingLock.Unlock()

	delete(saving, h)
}

func beingSaved(h cacheKey) bool {
	savingLock.RLock()
	defer savingLock.RUnlock()

	_, ok := saving[h]
	return ok
}

func do(r interface{}, saveMode bool, sub string, key string, keyArgs ...interface{}) bool {
	h := fnv.New64()
	fmt.Fprint(h, sub)
	fmt.Fprintf(h, key, keyArgs...)

	ha := fnv.New64a()
	fmt.Fprint(ha, sub)
	fmt.Fprintf(ha, key, keyArgs...)

	hash := cacheKey{
		h64:  h.Sum64(),
		h64a: ha.Sum64(),
	}

	dirLock.RLock()
	dir := filepath.Join(baseDir, sub)
	dirLock.RUnlock()

	fsPath := filepath.Join(dir, fmt.Sprintf("%016x-%016x.json", hash.h64, hash.h64a))

	if saveMode {
		if !lock(hash) {
			return false
		}
		defer unlock(hash)

		if err := os.MkdirAll(dir, 0700); err != nil {
			sentry.CaptureException(err)
			return false
		}

		fs, err := os.Create(fsPath)
		if err != nil {
			sentry.CaptureException(err)
			return false
		}
		defer fs.Close()

		if err := jsoniter.NewEncoder(fs).Encode(r); err != nil {
			sentry.CaptureException(err)
			fs.Close()
			os.Remove(fsPath)
			return false
		}

		return true
	}

	if beingSaved(hash) {
		return false
	}

	fs, err := os.Open(fsPath)
	if err != nil {
		return false
	}
	defer fs.Close()

	if err := jsoniter.NewDecoder(fs).Decode(r); err != nil {
		sentry.CaptureException(err)
		return false
	}
	return true
}

// Run caches the raw telemetry payload of one run.
func Run(runID string, r interface{}, saveMode bool) bool {
	return do(r, saveMode, "run", "run_%s", runID)
}

// SkillNames caches a resolved name batch keyed by the id-set fingerprint.
func SkillNames(fingerprint string, r interface{}, saveMode bool) bool {
	return do(r, saveMode, "names", "names_%s", fingerprint)
}
