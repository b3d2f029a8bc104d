// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post

import "time"

// SetClock replaces the clock used for the default diary date.
func SetClock(service *Service, now func() time.Time) {
	service.now = now
}
