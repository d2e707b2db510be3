package location

import (
	"strconv"

	domloc "github.com/kailas-cloud/satvach/internal/domain/location"
)

// keyspace derives every key the repository touches from one prefix.
// The default prefix carries a hash tag so all keys share a cluster slot.
type keyspace struct {
	prefix string
}

func (k keyspace) location(id int64) string {
	return k.prefix + "location:" + strconv.FormatInt(id, 10)
}

func (k keyspace) geo() string { return k.prefix + "locations:geo" }

func (k keyspace) all() string { return k.prefix + "locations:all" }

func (k keyspace) seq() string { return k.prefix + "locations:seq" }

func (k keyspace) status(s domloc.Status) string {
	return k.prefix + "locations:status:" + string(s)
}

func (k keyspace) category(c domloc.Category) string {
	return k.prefix + "locations:category:" + string(c)
}

func member(id int64) string { return strconv.FormatInt(id, 10) }
