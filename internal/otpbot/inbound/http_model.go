package inbound

import "strconv"

const (
	healthText = "Bot is running!"
	ackText    = "OK"
)

func updateKey(updateID int64) string {
	return "telegram:update:" + strconv.FormatInt(updateID, 10)
}
