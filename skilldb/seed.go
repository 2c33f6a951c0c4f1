package skilldb

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"sync"

	"github.com/dimchansky/utfbom"
	"github.com/pkg/errors"
)

var (
	seedLock  sync.RWMutex
	seedTable = make(map[int]string)
)

// LoadSeedTable reads a local "id,name" CSV of well-known skill names.
// Seeded ids are resolved without an upstream call. The exported table is
// replaced wholesale, so reloading is safe.
func LoadSeedTable(path string) error {
	fs, err := os.Open(path)
	if err != nil {
		return errors.WithStack(err)
	}
	defer fs.Close()

	sr, _ := utfbom.Skip(fs)

	table := make(map[int]string, 64)

	cr := csv.NewReader(sr)
	cr.Comment = '#'
	cr.FieldsPerRecord = 2
	for {
		d, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return errors.Wrapf(err, "reading %s", path)
		}

		id, err := strconv.Atoi(d[0])
		if err != nil {
			return errors.Wrapf(err, "bad skill id %q in %s", d[0], path)
		}
		if id > 0 && d[1] != "" {
			table[id] = d[1]
		}
	}

	seedLock.Lock()
	seedTable = table
	seedLock.Unlock()

	return nil
}

func seedName(id int) (string, bool) {
	seedLock.RLock()
	defer seedLock.RUnlock()

	name, ok := seedTable[id]
	return name, ok
}
