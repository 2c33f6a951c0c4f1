// Package skilldb resolves numeric skill identifiers to display names via
// the duck-table lookup service, seeded from an optional local table.
package skilldb

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"

	"lostark_dps/cache"
	"lostark_dps/share"
	"lostark_dps/share/parallel"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	// BasicAttackID is the pseudo-skill id for plain attacks. It is never
	// sent to the lookup service.
	BasicAttackID   = -1
	BasicAttackName = "Basic Attack"
)

var lookupRequests = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "loadps_skill_lookups_total",
		Help: "Skill name lookups by outcome.",
	},
	[]string{"outcome"},
)

// UnknownName is the placeholder for an id the lookup service has no
// name for.
func UnknownName(id int) string {
	return fmt.Sprintf("Unknown Skill (%d)", id)
}

// ErrorName is the placeholder for an id whose lookup call failed.
func ErrorName(id int) string {
	return fmt.Sprintf("Error Skill (%d)", id)
}

type Resolver struct {
	// Host is the lookup service base URL, without trailing slash.
	Host string
}

func NewResolver(host string) *Resolver {
	return &Resolver{Host: host}
}

// Resolve maps every id in ids to a display name. All lookups run
// concurrently; a failed lookup degrades to a placeholder name and never
// affects the rest of the batch, so Resolve has no error return. The
// result always contains the basic attack entry, whether or not -1 is in
// ids. Each id writes its own slot, so the merge needs no locking.
// Batches that saw a call-level failure are not written to the disk
// cache; the placeholder lives for one request only.
func (r *Resolver) Resolve(ctx context.Context, ids []int, progress func(p float32)) map[int]string {
	names := make(map[int]string, len(ids)+1)

	fp := fingerprint(ids)
	if cache.SkillNames(fp, &names, false) {
		names[BasicAttackID] = BasicAttackName
		if progress != nil {
			progress(1)
		}
		return names
	}

	todo := make([]int, 0, len(ids))
	for _, id := range ids {
		if id <= 0 {
			continue
		}
		if name, ok := seedName(id); ok {
			lookupRequests.WithLabelValues("seeded").Inc()
			names[id] = name
			continue
		}
		todo = append(todo, id)
	}

	var failed int32

	if len(todo) > 0 {
		slots := make([]string, len(todo))
		var done int32

		pp := parallel.New(ctx, len(todo))
		for i, id := range todo {
			i, id := i, id
			pp.Add(func(ctx context.Context) error {
				name, ok := r.lookup(ctx, id)
				slots[i] = name
				if !ok {
					atomic.StoreInt32(&failed, 1)
				}
				if progress != nil {
					progress(float32(atomic.AddInt32(&done, 1)) / float32(len(todo)))
				}
				return nil
			})
		}
		pp.Wait()

		for i, id := range todo {
			names[id] = slots[i]
		}
	} else if progress != nil {
		progress(1)
	}

	if atomic.LoadInt32(&failed) == 0 {
		cache.SkillNames(fp, names, true)
	}

	names[BasicAttackID] = BasicAttackName

	return names
}

// lookup resolves one id. The second return is false when the call itself
// failed (transport error, non-success status, undecodable body); such
// results must not be persisted.
func (r *Resolver) lookup(ctx context.Context, id int) (string, bool) {
	req, err := http.NewRequestWithContext(
		ctx,
		"GET",
		fmt.Sprintf("%s/api/server/duck/tables/virt.skilltable/%d?uiresolve=_NameID&select=_NameID", r.Host, id),
		nil,
	)
	if err != nil {
		return ErrorName(id), false
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		if !share.IsContextClosedError(err) {
			fmt.Printf("%+v\n", errors.WithStack(err))
		}
		lookupRequests.WithLabelValues("error").Inc()
		return ErrorName(id), false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		lookupRequests.WithLabelValues("bad_status").Inc()
		io.Copy(io.Discard, resp.Body)
		return ErrorName(id), false
	}

	var row struct {
		Name string `json:"_NameID_txt"`
	}
	err = jsoniter.NewDecoder(resp.Body).Decode(&row)
	if err != io.EOF && err != nil {
		lookupRequests.WithLabelValues("bad_body").Inc()
		return ErrorName(id), false
	}

	if row.Name == "" {
		lookupRequests.WithLabelValues("unknown").Inc()
		return UnknownName(id), true
	}

	lookupRequests.WithLabelValues("ok").Inc()
	return row.Name, true
}

// fingerprint identifies an id set for the name-batch cache, independent
// of input order.
func fingerprint(ids []int) string {
	sortedIDs := append([]int(nil), ids...)
	sort.Ints(sortedIDs)

	var sb strings.Builder
	last := 0
	for _, id := range sortedIDs {
		if id <= 0 || id == last {
			continue
		}
		last = id
		sb.WriteString(strconv.Itoa(id))
		sb.WriteByte('-')
	}

	return sb.String()
}
