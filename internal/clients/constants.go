package clients

import "time"

const (
	FETCH_DELAY = 1 * time.Second
	USER_AGENT  = "replyradar-client/1.0 (+https://github.com/spacesedan/replyradar)"
)
