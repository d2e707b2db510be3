package domain

// DefaultKeyPrefix namespaces every store key. The {loc} hash tag keeps all
// location keys in one cluster slot so multi-key set operations stay legal.
const DefaultKeyPrefix = "satvach:{loc}:"
