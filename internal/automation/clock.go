package automation

import "time"

// timeNow is replaced in tests for stable export timestamps.
var timeNow = time.Now
