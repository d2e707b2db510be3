package db

// Op constants map to Valkey/Redis command names for error context.
const (
	OpDel        = "DEL"
	OpHGetAll    = "HGETALL"
	OpHMGet      = "HMGET"
	OpHSet       = "HSET"
	OpExists     = "EXISTS"
	OpSAdd       = "SADD"
	OpSRem       = "SREM"
	OpSMembers   = "SMEMBERS"
	OpSInter     = "SINTER"
	OpSCard      = "SCARD"
	OpSInterCard = "SINTERCARD"
	OpSMIsMember = "SMISMEMBER"
	OpGeoAdd     = "GEOADD"
	OpGeoSearch  = "GEOSEARCH"
	OpZRem       = "ZREM"
	OpXAdd       = "XADD"
	OpXRange     = "XRANGE"
	OpIncr       = "INCR"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
