package constants

type (
	APIStatus   string
	CachePrefix string
)

const (
	APIStatusOk    APIStatus = "ok"
	APIStatusError APIStatus = "error"

	CachePrefixRanks      CachePrefix = "RANKS"
	CachePrefixMultiplier CachePrefix = "MULTIPLIER_"
)
