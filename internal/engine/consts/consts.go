package consts

import "fmt"

const (
	// cache key prefixes
	userSummaryPrefix = "translathon:user:summary:"
)

func UserSummaryKey(userID int64) string {
	return fmt.Sprintf("%s%d", userSummaryPrefix, userID)
}
