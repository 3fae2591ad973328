package utils

import (
	"strconv"
)

const cacheKeyVersion = "v1"

func TeamStandupsCacheKey(teamID int64, date string) string {
	return "team:" + cacheKeyVersion + ":standups:team=" + strconv.FormatInt(teamID, 10) + ":date=" + date
}

func TeamStatusCacheKey(teamID int64, date string) string {
	return "team:" + cacheKeyVersion + ":status:team=" + strconv.FormatInt(teamID, 10) + ":date=" + date
}

// TeamCacheKeys lists every cached read model for a team on a date, for
// invalidation after a write.
func TeamCacheKeys(teamID int64, date string) []string {
	return []string{
		TeamStandupsCacheKey(teamID, date),
		TeamStatusCacheKey(teamID, date),
	}
}
